// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package platform

import (
	"errors"
	"testing"

	"github.com/devblok/sage/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestWindowFlags(t *testing.T) {
	assert.Equal(t, uint32(sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE), windowFlags(gfx.WindowDesc{}))
	assert.Equal(t, uint32(sdl.WINDOW_SHOWN|sdl.WINDOW_FULLSCREEN), windowFlags(gfx.WindowDesc{Mode: gfx.FullScreen}))
	assert.Equal(t, uint32(sdl.WINDOW_SHOWN|sdl.WINDOW_FULLSCREEN_DESKTOP), windowFlags(gfx.WindowDesc{Mode: gfx.FullScreenDesktop}))
	assert.Equal(t, uint32(sdl.WINDOW_SHOWN|sdl.WINDOW_BORDERLESS), windowFlags(gfx.WindowDesc{Borderless: true}))
}

func TestAPIFlag(t *testing.T) {
	assert.Equal(t, uint32(sdl.WINDOW_VULKAN), apiFlag(gfx.DeviceTypeVulkan))
	assert.Equal(t, uint32(sdl.WINDOW_OPENGL), apiFlag(gfx.DeviceTypeGL))
	assert.Equal(t, uint32(sdl.WINDOW_OPENGL), apiFlag(gfx.DeviceTypeGLES))
	assert.Zero(t, apiFlag(gfx.DeviceTypeD3D11))
	assert.Zero(t, apiFlag(gfx.DeviceTypeD3D12))
}

func TestCheckSubsystem(t *testing.T) {
	_, err := checkSubsystem(sdl.SYSWM_UNKNOWN)
	assert.True(t, errors.Is(err, ErrNativeWindowUnavailable))
	assert.True(t, errors.Is(err, gfx.ErrNativeWindowUnavailable), "window errors belong to the class graphics initialization stops on")

	for subsystem, expected := range nativeSubsystems {
		s, err := checkSubsystem(subsystem)
		assert.NoError(t, err)
		assert.Equal(t, expected, s)
	}

	if _, ok := nativeSubsystems[sdl.SYSWM_WINDOWS]; !ok {
		_, err := checkSubsystem(sdl.SYSWM_WINDOWS)
		assert.True(t, errors.Is(err, ErrNativeWindowUnavailable), "a Win32 handle is only valid in Windows builds")
	}
}

func TestTranslate(t *testing.T) {
	for _, tc := range []struct {
		name  string
		event sdl.Event
		want  Event
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, Event{Type: EventQuit}},
		{"close", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, WindowID: 3, Event: sdl.WINDOWEVENT_CLOSE}, Event{Type: EventWindowClose, WindowID: 3}},
		{"resize", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, WindowID: 2, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 800, Data2: 600},
			Event{Type: EventWindowResize, WindowID: 2, Width: 800, Height: 600}},
		{"focus", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, WindowID: 2, Event: sdl.WINDOWEVENT_FOCUS_GAINED}, Event{}},
		{"escape", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, WindowID: 4, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}, Event{Type: EventWindowClose, WindowID: 4}},
		{"escape released", &sdl.KeyboardEvent{Type: sdl.KEYUP, WindowID: 4, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}, Event{}},
		{"ctrl n", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, WindowID: 1, Keysym: sdl.Keysym{Sym: sdl.K_n, Mod: sdl.KMOD_LCTRL}}, Event{Type: EventNewWindow, WindowID: 1}},
		{"n", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, WindowID: 1, Keysym: sdl.Keysym{Sym: sdl.K_n}}, Event{}},
		{"repeat", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, WindowID: 1, Repeat: 1, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}, Event{}},
	} {
		assert.Equal(t, tc.want, translate(tc.event), tc.name)
	}
}
