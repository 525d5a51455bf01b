// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"math"
	"testing"

	"github.com/devblok/sage/gfx"
	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestAPIVersion(t *testing.T) {
	assert.Equal(t, gfx.Version{Major: 1, Minor: 0}, apiVersion(1<<22))
	assert.Equal(t, gfx.Version{Major: 1, Minor: 2}, apiVersion(1<<22|2<<12|131))
}

func TestAdapterType(t *testing.T) {
	cases := map[vk.PhysicalDeviceType]gfx.AdapterType{
		vk.PhysicalDeviceTypeDiscreteGpu:   gfx.AdapterTypeDiscrete,
		vk.PhysicalDeviceTypeIntegratedGpu: gfx.AdapterTypeIntegrated,
		vk.PhysicalDeviceTypeVirtualGpu:    gfx.AdapterTypeIntegrated,
		vk.PhysicalDeviceTypeCpu:           gfx.AdapterTypeSoftware,
		vk.PhysicalDeviceTypeOther:         gfx.AdapterTypeUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, adapterType(in), "device type %d", in)
	}
}

func TestQueueType(t *testing.T) {
	graphics := vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueComputeBit | vk.QueueTransferBit)
	assert.Equal(t, gfx.QueueTypeGraphics, queueType(graphics))

	compute := vk.QueueFlags(vk.QueueComputeBit | vk.QueueTransferBit)
	assert.Equal(t, gfx.QueueTypeCompute, queueType(compute))

	transfer := vk.QueueFlags(vk.QueueTransferBit | vk.QueueSparseBindingBit)
	assert.Equal(t, gfx.QueueTypeTransfer|gfx.QueueTypeSparseBinding, queueType(transfer))
}

func TestFormats(t *testing.T) {
	for _, f := range []gfx.TextureFormat{
		gfx.FormatRGBA8Unorm, gfx.FormatRGBA8UnormSRGB,
		gfx.FormatBGRA8Unorm, gfx.FormatBGRA8UnormSRGB,
		gfx.FormatD16Unorm, gfx.FormatD24UnormS8Uint, gfx.FormatD32Float,
	} {
		assert.Equal(t, f, textureFormat(vkFormat(f)))
	}
	assert.Equal(t, vk.FormatUndefined, vkFormat(gfx.FormatUnknown))
	assert.Equal(t, gfx.FormatUnknown, textureFormat(vk.FormatR16g16b16a16Sfloat))

	assert.Equal(t, vk.FormatB8g8r8a8Srgb, swappedFormat(vk.FormatR8g8b8a8Srgb))
	assert.Equal(t, vk.FormatR8g8b8a8Unorm, swappedFormat(vk.FormatB8g8r8a8Unorm))
	assert.Equal(t, vk.FormatD32Sfloat, swappedFormat(vk.FormatD32Sfloat))
}

func TestChooseSurfaceFormat(t *testing.T) {
	srgb := vk.ColorSpaceSrgbNonlinear

	t.Run("undefined", func(t *testing.T) {
		got := chooseSurfaceFormat([]vk.SurfaceFormat{{Format: vk.FormatUndefined}}, vk.FormatR8g8b8a8Srgb)
		assert.Equal(t, vk.FormatR8g8b8a8Srgb, got.Format)
		assert.Equal(t, srgb, got.ColorSpace)
	})

	t.Run("exact", func(t *testing.T) {
		formats := []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: srgb},
			{Format: vk.FormatR8g8b8a8Srgb, ColorSpace: srgb},
		}
		assert.Equal(t, vk.FormatR8g8b8a8Srgb, chooseSurfaceFormat(formats, vk.FormatR8g8b8a8Srgb).Format)
	})

	t.Run("swapped", func(t *testing.T) {
		formats := []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: srgb},
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: srgb},
		}
		assert.Equal(t, vk.FormatB8g8r8a8Srgb, chooseSurfaceFormat(formats, vk.FormatR8g8b8a8Srgb).Format)
	})

	t.Run("first", func(t *testing.T) {
		formats := []vk.SurfaceFormat{
			{Format: vk.FormatA2b10g10r10UnormPack32, ColorSpace: srgb},
		}
		assert.Equal(t, vk.FormatA2b10g10r10UnormPack32, chooseSurfaceFormat(formats, vk.FormatR8g8b8a8Srgb).Format)
	})
}

func TestDepthAspect(t *testing.T) {
	depth := vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	assert.Equal(t, depth, depthAspect(vk.FormatD32Sfloat))
	assert.Equal(t, depth|vk.ImageAspectFlags(vk.ImageAspectStencilBit), depthAspect(vk.FormatD24UnormS8Uint))
}

func TestPresentMode(t *testing.T) {
	all := []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox, vk.PresentModeImmediate}
	fifoOnly := []vk.PresentMode{vk.PresentModeFifo}
	mailbox := []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}

	assert.Equal(t, vk.PresentModeImmediate, presentMode(0, all))
	assert.Equal(t, vk.PresentModeMailbox, presentMode(0, mailbox))
	assert.Equal(t, vk.PresentModeFifo, presentMode(0, fifoOnly))
	assert.Equal(t, vk.PresentModeFifo, presentMode(1, all))
	assert.Equal(t, vk.PresentModeFifo, presentMode(2, all))
}

func TestImageCount(t *testing.T) {
	assert.Equal(t, uint32(2), imageCount(1, 2, 8))
	assert.Equal(t, uint32(3), imageCount(3, 2, 8))
	assert.Equal(t, uint32(4), imageCount(6, 2, 4))
	assert.Equal(t, uint32(16), imageCount(16, 2, 0))
}

func TestClampExtent(t *testing.T) {
	min := vk.Extent2D{Width: 1, Height: 1}
	max := vk.Extent2D{Width: 4096, Height: 4096}

	current := vk.Extent2D{Width: 800, Height: 600}
	assert.Equal(t, current, clampExtent(current, min, max, 1920, 1080))

	undefined := vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32}
	assert.Equal(t, vk.Extent2D{Width: 1920, Height: 1080}, clampExtent(undefined, min, max, 1920, 1080))
	assert.Equal(t, vk.Extent2D{Width: 4096, Height: 1}, clampExtent(undefined, min, max, 8192, 0))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []string{"a\x00", "b\x00"}, safeStrings([]string{"a", "b"}))
	assert.True(t, containsString(validationLayers, "VK_LAYER_KHRONOS_validation"))
	assert.False(t, containsString(validationLayers, "VK_LAYER_MISSING"))
}

func TestQueuePriorities(t *testing.T) {
	assert.Len(t, queuePriorities, 4)
	assert.True(t, queuePriorities[gfx.QueuePriorityHigh] > queuePriorities[gfx.QueuePriorityLow])
}

func TestSupportedAdapters(t *testing.T) {
	infos := []gfx.AdapterInfo{
		{Description: "old", APIVersion: gfx.Version{Major: 1, Minor: 0}},
		{Description: "new", APIVersion: gfx.Version{Major: 1, Minor: 2}},
		{Description: "newer", APIVersion: gfx.Version{Major: 1, Minor: 3}},
	}

	assert.Equal(t, []int{0, 1, 2}, supportedAdapters(infos, gfx.Version{Major: 1, Minor: 0}))
	assert.Equal(t, []int{1, 2}, supportedAdapters(infos, gfx.Version{Major: 1, Minor: 1}), "adapter 0 reported to the manager is physical device 1")
	assert.Empty(t, supportedAdapters(infos, gfx.Version{Major: 2, Minor: 0}))
}
