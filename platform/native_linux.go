// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build linux && !android

package platform

import (
	"github.com/devblok/sage/gfx"
	"github.com/veandco/go-sdl2/sdl"
)

var nativeSubsystems = map[uint32]gfx.Subsystem{
	sdl.SYSWM_X11: gfx.SubsystemX11,
}
