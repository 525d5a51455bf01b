// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx selects a rendering backend, creates the device with its
// immediate contexts and owns the swap chains presented into platform windows.
package gfx

import "fmt"

// DeviceType identifies a rendering backend
type DeviceType int

// Rendering backends, numbered like the RenderDevice console variable values
const (
	DeviceTypeUndefined DeviceType = iota
	DeviceTypeD3D11
	DeviceTypeD3D12
	DeviceTypeGL
	DeviceTypeGLES
	DeviceTypeVulkan
	DeviceTypeMetal
)

// DeviceTypes lists all backends in the order they are tried
// when initialization falls back to another backend.
var DeviceTypes = []DeviceType{
	DeviceTypeD3D11,
	DeviceTypeD3D12,
	DeviceTypeGL,
	DeviceTypeGLES,
	DeviceTypeVulkan,
	DeviceTypeMetal,
}

// DeviceTypeToString returns a human readable backend name,
// unknown values map to "INVALID".
func DeviceTypeToString(t DeviceType) string {
	switch t {
	case DeviceTypeGL:
		return "OpenGL"
	case DeviceTypeGLES:
		return "OpenGL ES"
	case DeviceTypeVulkan:
		return "Vulkan"
	case DeviceTypeD3D11:
		return "DirectX 11"
	case DeviceTypeD3D12:
		return "DirectX 12"
	case DeviceTypeMetal:
		return "Metal"
	default:
		return "INVALID"
	}
}

func (t DeviceType) String() string {
	return DeviceTypeToString(t)
}

// IsDeviceTypeSupported reports whether the backend is compiled in for
// the current platform. The answer never changes during a run.
func IsDeviceTypeSupported(t DeviceType) bool {
	_, ok := supportedDeviceTypes[t]
	return ok
}

// SupportedDeviceTypes returns the supported backends in fallback order
func SupportedDeviceTypes() []DeviceType {
	var supported []DeviceType
	for _, t := range DeviceTypes {
		if IsDeviceTypeSupported(t) {
			supported = append(supported, t)
		}
	}
	return supported
}

// DefaultDeviceType is the backend requested when nothing is configured
func DefaultDeviceType() DeviceType {
	return defaultDeviceType
}

// Version is a graphics API version
type Version struct {
	Major uint32
	Minor uint32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is the same as or newer than o
func (v Version) AtLeast(o Version) bool {
	if v.Major != o.Major {
		return v.Major > o.Major
	}
	return v.Minor >= o.Minor
}

// APIVersion is the minimum API version requested from a backend
func APIVersion(t DeviceType) Version {
	switch t {
	case DeviceTypeGL:
		return Version{4, 0}
	case DeviceTypeGLES:
		return Version{3, 0}
	case DeviceTypeVulkan:
		return Version{1, 0}
	case DeviceTypeD3D11:
		return Version{11, 0}
	case DeviceTypeD3D12:
		return Version{12, 0}
	default:
		return Version{}
	}
}

// ValidationLevel controls backend debug validation
type ValidationLevel int

// Validation levels
const (
	ValidationDisabled ValidationLevel = iota
	ValidationLevel1
	ValidationLevel2
)
