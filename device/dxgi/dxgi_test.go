// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package dxgi

import (
	"testing"
	"unicode/utf16"

	"github.com/devblok/sage/gfx"
	"github.com/stretchr/testify/assert"
)

func describe(name string, flags uint32, memory uintptr) AdapterDesc1 {
	desc := AdapterDesc1{
		VendorID:             0x10de,
		DeviceID:             0x1b80,
		DedicatedVideoMemory: memory,
		Flags:                flags,
	}
	copy(desc.Description[:], utf16.Encode([]rune(name)))
	return desc
}

func TestAdapterInfo(t *testing.T) {
	queues := []gfx.CommandQueueInfo{{Type: gfx.QueueTypeGraphics, MaxDeviceContexts: 1}}

	discrete := describe("NVIDIA GeForce GTX 1080", 0, 8<<30)
	info := discrete.Info(gfx.Version{Major: 11}, queues)
	assert.Equal(t, "NVIDIA GeForce GTX 1080", info.Description)
	assert.Equal(t, gfx.AdapterTypeDiscrete, info.Type)
	assert.Equal(t, uint32(0x10de), info.VendorID)
	assert.Equal(t, uint64(8<<30), info.DedicatedMemory)
	assert.Equal(t, queues, info.Queues)

	integrated := describe("Intel(R) UHD Graphics 630", 0, 128<<20)
	assert.Equal(t, gfx.AdapterTypeIntegrated, integrated.Info(gfx.Version{}, nil).Type)

	warp := describe("Microsoft Basic Render Driver", AdapterFlagSoftware, 0)
	assert.Equal(t, gfx.AdapterTypeSoftware, warp.Info(gfx.Version{}, nil).Type)
}

func TestDecodeDescription(t *testing.T) {
	assert.Equal(t, "Radeon™ RX 580", decodeDescription(append(utf16.Encode([]rune("Radeon™ RX 580")), 0, 'x')))
	assert.Equal(t, "", decodeDescription(nil))
}

func TestFeatureLevel(t *testing.T) {
	assert.Equal(t, uint32(0xb000), FeatureLevel(gfx.Version{Major: 11}))
	assert.Equal(t, uint32(0xb100), FeatureLevel(gfx.Version{Major: 11, Minor: 1}))
	assert.Equal(t, uint32(0xc000), FeatureLevel(gfx.Version{Major: 12}))
	assert.Equal(t, gfx.Version{Major: 12, Minor: 1}, FeatureLevelVersion(0xc100))
}

func TestFormats(t *testing.T) {
	assert.Equal(t, uint32(FormatR8G8B8A8UnormSRGB), Format(gfx.FormatRGBA8UnormSRGB))
	assert.Equal(t, uint32(FormatD32Float), Format(gfx.FormatD32Float))
	assert.Equal(t, uint32(FormatUnknown), Format(gfx.FormatUnknown))

	assert.Equal(t, gfx.FormatRGBA8Unorm, PresentableFormat(gfx.FormatRGBA8UnormSRGB))
	assert.Equal(t, gfx.FormatBGRA8Unorm, PresentableFormat(gfx.FormatBGRA8UnormSRGB))
	assert.Equal(t, gfx.FormatRGBA8Unorm, PresentableFormat(gfx.FormatUnknown))
	assert.Equal(t, gfx.FormatBGRA8Unorm, PresentableFormat(gfx.FormatBGRA8Unorm))
}

func TestErrors(t *testing.T) {
	assert.True(t, Failed(ErrorDeviceRemoved))
	assert.False(t, Failed(StatusOccluded))
	assert.False(t, Failed(0))
	assert.False(t, Failed(1))

	removed := Error{Op: "Present", Code: ErrorDeviceRemoved}
	assert.Equal(t, "Present: DXGI_ERROR_DEVICE_REMOVED", removed.Error())
	assert.Equal(t, "Present: 0x80004005", Error{Op: "Present", Code: 0x80004005}.Error())
	assert.True(t, DeviceLost(removed))
	assert.False(t, DeviceLost(Error{Code: ErrorInvalidCall}))
}

func TestSyncInterval(t *testing.T) {
	assert.Equal(t, uint32(0), SyncInterval(0))
	assert.Equal(t, uint32(2), SyncInterval(2))
	assert.Equal(t, uint32(4), SyncInterval(9))
}

func TestBufferCount(t *testing.T) {
	assert.Equal(t, uint32(2), BufferCount(0))
	assert.Equal(t, uint32(2), BufferCount(1))
	assert.Equal(t, uint32(3), BufferCount(3))
	assert.Equal(t, uint32(16), BufferCount(32))
}
