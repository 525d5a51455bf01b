// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package platform

import (
	"unsafe"

	"github.com/devblok/sage/gfx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// OpenGL context version requested for OpenGL windows
const (
	GLMajorVersion = 4
	GLMinorVersion = 1
)

// Window is an SDL window. SDL fixes the graphics API of a window when it
// is created, so the window is recreated when a different API asks for it.
type Window struct {
	desc   gfx.WindowDesc
	handle *sdl.Window
	id     uint32
	api    uint32
	logger logrus.FieldLogger
}

// apiFlag is the window flag SDL needs to render with deviceType
func apiFlag(deviceType gfx.DeviceType) uint32 {
	switch deviceType {
	case gfx.DeviceTypeVulkan:
		return sdl.WINDOW_VULKAN
	case gfx.DeviceTypeGL, gfx.DeviceTypeGLES:
		return sdl.WINDOW_OPENGL
	default:
		return 0
	}
}

// windowFlags are the window flags for desc without the API flag
func windowFlags(desc gfx.WindowDesc) uint32 {
	flags := uint32(sdl.WINDOW_SHOWN)
	switch {
	case desc.Mode == gfx.FullScreen:
		flags |= sdl.WINDOW_FULLSCREEN
	case desc.Mode == gfx.FullScreenDesktop:
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	case desc.Borderless:
		flags |= sdl.WINDOW_BORDERLESS
	default:
		flags |= sdl.WINDOW_RESIZABLE
	}
	return flags
}

func (w *Window) create(x, y, width, height int32, api uint32) error {
	if api == sdl.WINDOW_OPENGL {
		setGLAttributes()
	}

	handle, err := sdl.CreateWindow(w.desc.Title, x, y, width, height, windowFlags(w.desc)|api)
	if err != nil {
		return errors.Wrap(err, "sdl.CreateWindow()")
	}
	id, err := handle.GetID()
	if err != nil {
		handle.Destroy()
		return errors.Wrap(err, "sdl.Window.GetID()")
	}

	w.handle, w.id, w.api = handle, id, api
	return nil
}

func setGLAttributes() {
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, GLMajorVersion)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, GLMinorVersion)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_FRAMEBUFFER_SRGB_CAPABLE, 1)
}

// NativeWindow implements gfx.Surface
func (w *Window) NativeWindow(deviceType gfx.DeviceType) (gfx.NativeWindow, error) {
	if api := apiFlag(deviceType); api != w.api {
		x, y := w.handle.GetPosition()
		width, height := w.handle.GetSize()
		old := w.handle
		if err := w.create(x, y, width, height, api); err != nil {
			return gfx.NativeWindow{}, err
		}
		old.Destroy()
		w.logger.Debugf("Recreated window %d for %s", w.id, deviceType)
	}

	native, err := GetNativeWindowHandle(w.handle)
	if err != nil {
		return gfx.NativeWindow{}, err
	}
	native.Provider = w
	return native, nil
}

// ID returns the SDL window id events refer to
func (w *Window) ID() uint32 {
	return w.id
}

// Size implements gfx.Window
func (w *Window) Size() (int, int) {
	width, height := w.handle.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the size of the window in pixels
func (w *Window) DrawableSize() (uint32, uint32) {
	var width, height int32
	switch w.api {
	case sdl.WINDOW_OPENGL:
		width, height = w.handle.GLGetDrawableSize()
	case sdl.WINDOW_VULKAN:
		width, height = w.handle.VulkanGetDrawableSize()
	default:
		width, height = w.handle.GetSize()
	}
	return uint32(width), uint32(height)
}

// SetTitle changes the window title
func (w *Window) SetTitle(title string) {
	w.handle.SetTitle(title)
}

// Destroy implements gfx.Window
func (w *Window) Destroy() {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
}

// VulkanInstanceExtensions returns the instance extensions the window
// surface needs
func (w *Window) VulkanInstanceExtensions() []string {
	return w.handle.VulkanGetInstanceExtensions()
}

// VulkanCreateSurface creates a VkSurfaceKHR for the window
func (w *Window) VulkanCreateSurface(instance interface{}) (unsafe.Pointer, error) {
	surface, err := w.handle.VulkanCreateSurface(instance)
	if err != nil {
		return nil, errors.Wrap(err, "sdl.Window.VulkanCreateSurface()")
	}
	return surface, nil
}

// GLCreateContext creates an OpenGL context for the window and makes it
// current
func (w *Window) GLCreateContext(debug bool) (sdl.GLContext, error) {
	flags := 0
	if debug {
		flags = sdl.GL_CONTEXT_DEBUG_FLAG
	}
	sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, flags)

	context, err := w.handle.GLCreateContext()
	if err != nil {
		return nil, errors.Wrap(err, "sdl.Window.GLCreateContext()")
	}
	if err := w.handle.GLMakeCurrent(context); err != nil {
		sdl.GLDeleteContext(context)
		return nil, errors.Wrap(err, "sdl.Window.GLMakeCurrent()")
	}
	return context, nil
}

// GLSwap presents the back buffer of an OpenGL window
func (w *Window) GLSwap() {
	w.handle.GLSwap()
}
