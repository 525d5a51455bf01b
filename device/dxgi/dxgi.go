// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package dxgi

import (
	"fmt"
	"unicode/utf16"

	"github.com/devblok/sage/gfx"
)

// HRESULT codes the backends handle
const (
	StatusOccluded      = 0x087A0001
	ErrorDeviceReset    = 0x887A0007
	ErrorDeviceRemoved  = 0x887A0005
	ErrorNotFound       = 0x887A0002
	ErrorInvalidCall    = 0x887A0001
	ErrorUnsupported    = 0x887A0004
	ErrorNoInterface    = 0x80004002
	ErrorOutOfMemory    = 0x8007000E
	ErrorInvalidArg     = 0x80070057
	ErrorAccessDenied   = 0x80070005
	ErrorNotImplemented = 0x80004001
)

var errorNames = map[uint32]string{
	StatusOccluded:      "DXGI_STATUS_OCCLUDED",
	ErrorDeviceReset:    "DXGI_ERROR_DEVICE_RESET",
	ErrorDeviceRemoved:  "DXGI_ERROR_DEVICE_REMOVED",
	ErrorNotFound:       "DXGI_ERROR_NOT_FOUND",
	ErrorInvalidCall:    "DXGI_ERROR_INVALID_CALL",
	ErrorUnsupported:    "DXGI_ERROR_UNSUPPORTED",
	ErrorNoInterface:    "E_NOINTERFACE",
	ErrorOutOfMemory:    "E_OUTOFMEMORY",
	ErrorInvalidArg:     "E_INVALIDARG",
	ErrorAccessDenied:   "E_ACCESSDENIED",
	ErrorNotImplemented: "E_NOTIMPL",
}

// Error is a failed HRESULT of a COM call
type Error struct {
	Op   string
	Code uint32
}

func (e Error) Error() string {
	if name, ok := errorNames[e.Code]; ok {
		return fmt.Sprintf("%s: %s", e.Op, name)
	}
	return fmt.Sprintf("%s: %#x", e.Op, e.Code)
}

// Failed reports whether an HRESULT is an error, success codes like
// S_FALSE and DXGI_STATUS_OCCLUDED are not
func Failed(hr uintptr) bool {
	return int32(uint32(hr)) < 0
}

// DeviceLost reports whether err means the device has to be recreated
func DeviceLost(err error) bool {
	e, ok := err.(Error)
	return ok && (e.Code == ErrorDeviceReset || e.Code == ErrorDeviceRemoved)
}

// DXGI_FORMAT values
const (
	FormatUnknown           = 0
	FormatR8G8B8A8Unorm     = 28
	FormatR8G8B8A8UnormSRGB = 29
	FormatB8G8R8A8Unorm     = 87
	FormatB8G8R8A8UnormSRGB = 91
	FormatD16Unorm          = 55
	FormatD24UnormS8Uint    = 45
	FormatD32Float          = 40
)

// Format returns the DXGI format of a texture format
func Format(format gfx.TextureFormat) uint32 {
	switch format {
	case gfx.FormatRGBA8Unorm:
		return FormatR8G8B8A8Unorm
	case gfx.FormatRGBA8UnormSRGB:
		return FormatR8G8B8A8UnormSRGB
	case gfx.FormatBGRA8Unorm:
		return FormatB8G8R8A8Unorm
	case gfx.FormatBGRA8UnormSRGB:
		return FormatB8G8R8A8UnormSRGB
	case gfx.FormatD16Unorm:
		return FormatD16Unorm
	case gfx.FormatD24UnormS8Uint:
		return FormatD24UnormS8Uint
	case gfx.FormatD32Float:
		return FormatD32Float
	default:
		return FormatUnknown
	}
}

// PresentableFormat strips sRGB from swap chain formats, flip model swap
// chains only accept linear buffers
func PresentableFormat(format gfx.TextureFormat) gfx.TextureFormat {
	switch format {
	case gfx.FormatRGBA8UnormSRGB:
		return gfx.FormatRGBA8Unorm
	case gfx.FormatBGRA8UnormSRGB:
		return gfx.FormatBGRA8Unorm
	case gfx.FormatUnknown:
		return gfx.FormatRGBA8Unorm
	default:
		return format
	}
}

// FeatureLevel converts an API version to a D3D_FEATURE_LEVEL
func FeatureLevel(v gfx.Version) uint32 {
	return v.Major<<12 | v.Minor<<8
}

// FeatureLevelVersion converts a D3D_FEATURE_LEVEL to an API version
func FeatureLevelVersion(level uint32) gfx.Version {
	return gfx.Version{Major: level >> 12, Minor: (level >> 8) & 0xf}
}

// AdapterFlagSoftware marks the WARP rasterizer
const AdapterFlagSoftware = 2

// LUID identifies an adapter until the next reboot
type LUID struct {
	LowPart  uint32
	HighPart int32
}

// AdapterDesc1 is DXGI_ADAPTER_DESC1
type AdapterDesc1 struct {
	Description           [128]uint16
	VendorID              uint32
	DeviceID              uint32
	SubSysID              uint32
	Revision              uint32
	DedicatedVideoMemory  uintptr
	DedicatedSystemMemory uintptr
	SharedSystemMemory    uintptr
	AdapterLuid           LUID
	Flags                 uint32
}

// discreteMemory is the dedicated memory above which an adapter is treated
// as discrete, DXGI does not report the adapter kind
const discreteMemory = 512 << 20

// Info describes the adapter for device selection
func (d *AdapterDesc1) Info(version gfx.Version, queues []gfx.CommandQueueInfo) gfx.AdapterInfo {
	info := gfx.AdapterInfo{
		Description:     decodeDescription(d.Description[:]),
		VendorID:        d.VendorID,
		DeviceID:        d.DeviceID,
		APIVersion:      version,
		DedicatedMemory: uint64(d.DedicatedVideoMemory),
		Queues:          queues,
	}
	switch {
	case d.Flags&AdapterFlagSoftware != 0:
		info.Type = gfx.AdapterTypeSoftware
	case d.DedicatedVideoMemory >= discreteMemory:
		info.Type = gfx.AdapterTypeDiscrete
	default:
		info.Type = gfx.AdapterTypeIntegrated
	}
	return info
}

func decodeDescription(s []uint16) string {
	for idx, c := range s {
		if c == 0 {
			s = s[:idx]
			break
		}
	}
	return string(utf16.Decode(s))
}

// SyncInterval clamps a sync interval to what Present accepts
func SyncInterval(syncInterval uint32) uint32 {
	if syncInterval > 4 {
		return 4
	}
	return syncInterval
}

// BufferCount clamps to the buffer counts of flip model swap chains
func BufferCount(count uint32) uint32 {
	switch {
	case count < 2:
		return 2
	case count > 16:
		return 16
	default:
		return count
	}
}
