// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package platform

import (
	"fmt"

	"github.com/devblok/sage/gfx"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

// ErrNativeWindowUnavailable is returned when the handles of a window
// cannot be used by the graphics backends of this build
var ErrNativeWindowUnavailable = gfx.ErrNativeWindowUnavailable

// GetNativeWindowHandle returns the operating system handles of window.
// The window system SDL reports must be the one this binary targets.
func GetNativeWindowHandle(window *sdl.Window) (gfx.NativeWindow, error) {
	info, err := window.GetWMInfo()
	if err != nil {
		return gfx.NativeWindow{}, errors.Wrap(ErrNativeWindowUnavailable, err.Error())
	}

	subsystem, err := checkSubsystem(info.Subsystem)
	if err != nil {
		return gfx.NativeWindow{}, err
	}

	native := gfx.NativeWindow{Subsystem: subsystem}
	switch subsystem {
	case gfx.SubsystemWindows:
		native.HWnd = uintptr(info.GetWindowsInfo().Window)
	case gfx.SubsystemX11:
		x11 := info.GetX11Info()
		native.Display = uintptr(x11.Display)
		native.WindowID = uintptr(x11.Window)
	case gfx.SubsystemCocoa:
		native.View = uintptr(info.GetCocoaInfo().Window)
	}
	return native, nil
}

// checkSubsystem maps an SDL window system to the one of this build
func checkSubsystem(subsystem uint32) (gfx.Subsystem, error) {
	if s, ok := nativeSubsystems[subsystem]; ok {
		return s, nil
	}
	return gfx.SubsystemUnknown, errors.Wrap(ErrNativeWindowUnavailable,
		fmt.Sprintf("window system %d is not supported by this build", subsystem))
}
