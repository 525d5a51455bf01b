// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx_test

import (
	"testing"

	"github.com/devblok/sage/gfx"
	"github.com/stretchr/testify/assert"
)

func TestDeviceTypeToString(t *testing.T) {
	for deviceType, name := range map[gfx.DeviceType]string{
		gfx.DeviceTypeGL:        "OpenGL",
		gfx.DeviceTypeGLES:      "OpenGL ES",
		gfx.DeviceTypeVulkan:    "Vulkan",
		gfx.DeviceTypeD3D11:     "DirectX 11",
		gfx.DeviceTypeD3D12:     "DirectX 12",
		gfx.DeviceTypeMetal:     "Metal",
		gfx.DeviceTypeUndefined: "INVALID",
		gfx.DeviceType(42):      "INVALID",
	} {
		assert.Equal(t, name, gfx.DeviceTypeToString(deviceType))
		assert.Equal(t, gfx.DeviceTypeToString(deviceType), gfx.DeviceTypeToString(deviceType))
		assert.Equal(t, name, deviceType.String())
	}
}

func TestSupportedDeviceTypes(t *testing.T) {
	assert.False(t, gfx.IsDeviceTypeSupported(gfx.DeviceTypeUndefined))
	assert.False(t, gfx.IsDeviceTypeSupported(gfx.DeviceTypeMetal))
	assert.False(t, gfx.IsDeviceTypeSupported(gfx.DeviceType(42)))

	supported := gfx.SupportedDeviceTypes()
	last := -1
	for _, deviceType := range supported {
		assert.True(t, gfx.IsDeviceTypeSupported(deviceType))
		idx := indexOf(gfx.DeviceTypes, deviceType)
		assert.Greater(t, idx, last, "supported backends keep fallback order")
		last = idx
	}

	if len(supported) > 0 {
		assert.True(t, gfx.IsDeviceTypeSupported(gfx.DefaultDeviceType()))
	}
}

func TestVersionAtLeast(t *testing.T) {
	assert.True(t, gfx.Version{1, 2}.AtLeast(gfx.Version{1, 0}))
	assert.True(t, gfx.Version{4, 0}.AtLeast(gfx.Version{4, 0}))
	assert.False(t, gfx.Version{3, 3}.AtLeast(gfx.Version{4, 0}))
	assert.True(t, gfx.Version{12, 0}.AtLeast(gfx.Version{11, 1}))
	assert.Equal(t, "4.0", gfx.APIVersion(gfx.DeviceTypeGL).String())
	assert.Equal(t, gfx.Version{3, 0}, gfx.APIVersion(gfx.DeviceTypeGLES))
	assert.Equal(t, gfx.Version{1, 0}, gfx.APIVersion(gfx.DeviceTypeVulkan))
	assert.Equal(t, gfx.Version{11, 0}, gfx.APIVersion(gfx.DeviceTypeD3D11))
	assert.Equal(t, gfx.Version{12, 0}, gfx.APIVersion(gfx.DeviceTypeD3D12))
}

func indexOf(types []gfx.DeviceType, t gfx.DeviceType) int {
	for idx, candidate := range types {
		if candidate == t {
			return idx
		}
	}
	return -1
}
