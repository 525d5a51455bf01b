// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build darwin

package platform

import (
	"github.com/devblok/sage/gfx"
	"github.com/veandco/go-sdl2/sdl"
)

var nativeSubsystems = map[uint32]gfx.Subsystem{
	sdl.SYSWM_COCOA: gfx.SubsystemCocoa,
}
