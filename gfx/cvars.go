// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "github.com/devblok/sage/console"

// MaxSyncInterval is the largest accepted swap interval
const MaxSyncInterval = 2

// MaxResolution is the largest accepted window dimension
const MaxResolution = 16384

// FullScreenMode selects how the window covers the display
type FullScreenMode int

// Full screen modes
const (
	Windowed FullScreenMode = iota
	FullScreen
	FullScreenDesktop
	FullScreenBorderless
)

var (
	renderDeviceValues = []int64{
		int64(DeviceTypeD3D11),
		int64(DeviceTypeD3D12),
		int64(DeviceTypeGL),
		int64(DeviceTypeGLES),
		int64(DeviceTypeVulkan),
		int64(DeviceTypeMetal),
	}
	renderDeviceNames = []string{"dx11", "dx12", "gl", "gles", "vk", "mtl"}

	validationValues = []int64{
		int64(ValidationDisabled),
		int64(ValidationLevel1),
		int64(ValidationLevel2),
	}
	validationNames = []string{"disable", "level_1", "level_2"}

	fullScreenValues = []int64{
		int64(Windowed),
		int64(FullScreen),
		int64(FullScreenDesktop),
		int64(FullScreenBorderless),
	}
	fullScreenNames = []string{"windowed", "fullScreen", "fullScreenDesktop", "fullScreenBorderless"}
)

// CVars are the console variables a graphics context is configured with
type CVars struct {
	RetryRDInit     *console.CVar
	SyncInterval    *console.CVar
	ResolutionX     *console.CVar
	ResolutionY     *console.CVar
	RenderDevice    *console.CVar
	ValidationLevel *console.CVar
	FullScreenMode  *console.CVar
}

// Register implements console.Collection. ValidationLevel is never saved.
func (v *CVars) Register(m *console.Manager, flags console.Flags, source *console.Manager) (err error) {
	if v.RetryRDInit, err = m.RegisterBool("RetryRDInit",
		"retry render device initialization in case of failure",
		flags|console.InitOnly, true, source); err != nil {
		return err
	}
	if v.SyncInterval, err = m.RegisterInt("SyncInterval",
		"synchronization (swap) interval",
		flags|console.RangeCheck, 1, 0, MaxSyncInterval, source); err != nil {
		return err
	}
	if v.ResolutionX, err = m.RegisterInt("ResolutionX",
		"window resolution x-coord",
		flags|console.RangeCheck, 0, 0, MaxResolution, source); err != nil {
		return err
	}
	if v.ResolutionY, err = m.RegisterInt("ResolutionY",
		"window resolution y-coord",
		flags|console.RangeCheck, 0, 0, MaxResolution, source); err != nil {
		return err
	}
	if v.RenderDevice, err = m.RegisterEnum("RenderDevice",
		"render device type",
		flags|console.RangeCheck, int64(defaultRenderDevice()), renderDeviceValues, renderDeviceNames, source); err != nil {
		return err
	}
	if v.ValidationLevel, err = m.RegisterEnum("ValidationLevel",
		"validation level",
		(flags&^console.Persistent)|console.Volatile|console.InitOnly|console.RangeCheck,
		int64(ValidationDisabled), validationValues, validationNames, source); err != nil {
		return err
	}
	v.FullScreenMode, err = m.RegisterEnum("FullScreenMode",
		"full screen mode",
		flags|console.RangeCheck, int64(Windowed), fullScreenValues, fullScreenNames, source)
	return err
}

func defaultRenderDevice() DeviceType {
	if t := DefaultDeviceType(); t != DeviceTypeUndefined {
		return t
	}
	return DeviceTypeD3D11
}

// DeviceType returns the configured backend
func (v *CVars) DeviceType() DeviceType {
	return DeviceType(v.RenderDevice.Int())
}

// Validation returns the configured validation level
func (v *CVars) Validation() ValidationLevel {
	return ValidationLevel(v.ValidationLevel.Int())
}

// Mode returns the configured full screen mode
func (v *CVars) Mode() FullScreenMode {
	return FullScreenMode(v.FullScreenMode.Int())
}

// Interval returns the configured swap interval
func (v *CVars) Interval() uint32 {
	return uint32(v.SyncInterval.Int())
}
