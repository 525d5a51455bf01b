// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"fmt"
	"math"

	"github.com/devblok/sage/gfx"
	vk "github.com/vulkan-go/vulkan"
)

// Window system surface extensions, the ones present are enabled
var platformSurfaceExtensions = []string{
	"VK_KHR_win32_surface",
	"VK_KHR_xlib_surface",
	"VK_KHR_xcb_surface",
	"VK_KHR_wayland_surface",
	"VK_MVK_macos_surface",
	"VK_EXT_metal_surface",
}

// Validation layers in order of preference
var validationLayers = []string{
	"VK_LAYER_KHRONOS_validation",
	"VK_LAYER_LUNARG_standard_validation",
}

var queuePriorities = map[gfx.QueuePriority]float32{
	gfx.QueuePriorityLow:      0,
	gfx.QueuePriorityMedium:   0.5,
	gfx.QueuePriorityHigh:     1,
	gfx.QueuePriorityRealtime: 1,
}

func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := []string{}
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func apiVersion(v uint32) gfx.Version {
	return gfx.Version{Major: v >> 22, Minor: (v >> 12) & 0x3ff}
}

func adapterType(t vk.PhysicalDeviceType) gfx.AdapterType {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return gfx.AdapterTypeDiscrete
	case vk.PhysicalDeviceTypeIntegratedGpu, vk.PhysicalDeviceTypeVirtualGpu:
		return gfx.AdapterTypeIntegrated
	case vk.PhysicalDeviceTypeCpu:
		return gfx.AdapterTypeSoftware
	default:
		return gfx.AdapterTypeUnknown
	}
}

// queueType maps queue family flags, graphics and compute families
// always support transfers
func queueType(flags vk.QueueFlags) gfx.QueueType {
	var t gfx.QueueType
	switch {
	case flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0:
		t = gfx.QueueTypeGraphics
	case flags&vk.QueueFlags(vk.QueueComputeBit) != 0:
		t = gfx.QueueTypeCompute
	case flags&vk.QueueFlags(vk.QueueTransferBit) != 0:
		t = gfx.QueueTypeTransfer
	}
	if flags&vk.QueueFlags(vk.QueueSparseBindingBit) != 0 {
		t |= gfx.QueueTypeSparseBinding
	}
	return t
}

func vkFormat(format gfx.TextureFormat) vk.Format {
	switch format {
	case gfx.FormatRGBA8Unorm:
		return vk.FormatR8g8b8a8Unorm
	case gfx.FormatRGBA8UnormSRGB:
		return vk.FormatR8g8b8a8Srgb
	case gfx.FormatBGRA8Unorm:
		return vk.FormatB8g8r8a8Unorm
	case gfx.FormatBGRA8UnormSRGB:
		return vk.FormatB8g8r8a8Srgb
	case gfx.FormatD16Unorm:
		return vk.FormatD16Unorm
	case gfx.FormatD24UnormS8Uint:
		return vk.FormatD24UnormS8Uint
	case gfx.FormatD32Float:
		return vk.FormatD32Sfloat
	default:
		return vk.FormatUndefined
	}
}

func textureFormat(format vk.Format) gfx.TextureFormat {
	for _, f := range []gfx.TextureFormat{
		gfx.FormatRGBA8Unorm, gfx.FormatRGBA8UnormSRGB,
		gfx.FormatBGRA8Unorm, gfx.FormatBGRA8UnormSRGB,
		gfx.FormatD16Unorm, gfx.FormatD24UnormS8Uint, gfx.FormatD32Float,
	} {
		if vkFormat(f) == format {
			return f
		}
	}
	return gfx.FormatUnknown
}

// swappedFormat is the same format with red and blue swapped
func swappedFormat(format vk.Format) vk.Format {
	switch format {
	case vk.FormatR8g8b8a8Unorm:
		return vk.FormatB8g8r8a8Unorm
	case vk.FormatR8g8b8a8Srgb:
		return vk.FormatB8g8r8a8Srgb
	case vk.FormatB8g8r8a8Unorm:
		return vk.FormatR8g8b8a8Unorm
	case vk.FormatB8g8r8a8Srgb:
		return vk.FormatR8g8b8a8Srgb
	default:
		return format
	}
}

// chooseSurfaceFormat picks want, its red/blue swapped twin or the first
// format of an already dereferenced list
func chooseSurfaceFormat(formats []vk.SurfaceFormat, want vk.Format) vk.SurfaceFormat {
	if len(formats) == 0 || (len(formats) == 1 && formats[0].Format == vk.FormatUndefined) {
		return vk.SurfaceFormat{Format: want, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	}
	for _, candidate := range []vk.Format{want, swappedFormat(want)} {
		for _, f := range formats {
			if f.Format == candidate {
				return vk.SurfaceFormat{Format: f.Format, ColorSpace: f.ColorSpace}
			}
		}
	}
	return vk.SurfaceFormat{Format: formats[0].Format, ColorSpace: formats[0].ColorSpace}
}

// depthAspect returns the image aspects of a depth format
func depthAspect(format vk.Format) vk.ImageAspectFlags {
	switch format {
	case vk.FormatD24UnormS8Uint, vk.FormatD32SfloatS8Uint, vk.FormatD16UnormS8Uint:
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit | vk.ImageAspectStencilBit)
	default:
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	}
}

// presentMode picks the present mode for a sync interval. FIFO is always
// available and waits for vertical blanks.
func presentMode(syncInterval uint32, available []vk.PresentMode) vk.PresentMode {
	if syncInterval == 0 {
		for _, mode := range []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeMailbox} {
			for _, a := range available {
				if a == mode {
					return mode
				}
			}
		}
	}
	return vk.PresentModeFifo
}

// imageCount clamps the wanted buffer count to the surface limits,
// max 0 means unlimited
func imageCount(want, min, max uint32) uint32 {
	if want < min {
		want = min
	}
	if max > 0 && want > max {
		want = max
	}
	return want
}

// clampExtent returns current unless the surface lets the swap chain
// decide, then the requested size within limits
func clampExtent(current, min, max vk.Extent2D, width, height uint32) vk.Extent2D {
	if current.Width != math.MaxUint32 {
		return vk.Extent2D{Width: current.Width, Height: current.Height}
	}
	clamp := func(v, lo, hi uint32) uint32 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	return vk.Extent2D{
		Width:  clamp(width, min.Width, max.Width),
		Height: clamp(height, min.Height, max.Height),
	}
}
