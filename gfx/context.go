// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Window size used when neither the configuration nor the desktop provide one
const (
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
)

// DisplayMode is a display resolution
type DisplayMode struct {
	Width       int
	Height      int
	RefreshRate int
}

// WindowDesc describes a window to create. Zero sizes are only valid
// with FullScreenDesktop.
type WindowDesc struct {
	Title      string
	Width      int
	Height     int
	Mode       FullScreenMode
	Borderless bool
	DeviceType DeviceType
}

// Window is a platform window graphics render into
type Window interface {
	Surface
	Size() (width, height int)
	Destroy()
}

// Platform creates windows and reports display modes
type Platform interface {
	DesktopDisplayMode(display int) (DisplayMode, error)
	CreateWindow(desc WindowDesc) (Window, error)
}

// Context is the graphics of one window: the window, its swap chain and,
// for primary contexts, the manager owning the device.
type Context struct {
	cvars     *CVars
	window    Window
	manager   *Manager
	swapchain *SwapChain
	base      *Context
	logger    logrus.FieldLogger
}

// NewContext creates a window configured by cvars and initializes graphics
// for it. The backend that ends up in use is written back to RenderDevice.
func NewContext(title string, cvars *CVars, platform Platform, backends Backends, logger logrus.FieldLogger) (*Context, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	window, err := createWindow(title, cvars, cvars.DeviceType(), platform, logger)
	if err != nil {
		return nil, err
	}

	manager := NewManager(backends, logger)
	swapchain, err := manager.InitializeGraphics(window, cvars.DeviceType(), cvars.Validation(), cvars.RetryRDInit.Bool())
	if err != nil {
		window.Destroy()
		return nil, err
	}

	if err := cvars.RenderDevice.SetInt(int64(manager.DeviceType())); err != nil {
		logger.WithError(err).Warnf("Failed to store render device %s", manager.DeviceType())
	}
	cvars.RenderDevice.ClearModified()

	return &Context{
		cvars:     cvars,
		window:    window,
		manager:   manager,
		swapchain: swapchain,
		logger:    logger,
	}, nil
}

// NewDerivedContext creates a window that renders with the device of base
func NewDerivedContext(base *Context, title string, cvars *CVars, platform Platform) (*Context, error) {
	deviceType := base.manager.DeviceType()
	if deviceType == DeviceTypeGL || deviceType == DeviceTypeGLES {
		return nil, initError(deviceType, ErrInvalidDeviceType, errors.New("device cannot be shared between windows"))
	}

	window, err := createWindow(title, cvars, deviceType, platform, base.logger)
	if err != nil {
		return nil, err
	}

	swapchain, err := base.manager.CreateDerivedContext(window)
	if err != nil {
		window.Destroy()
		return nil, err
	}

	return &Context{
		cvars:     cvars,
		window:    window,
		manager:   base.manager,
		swapchain: swapchain,
		base:      base,
		logger:    base.logger,
	}, nil
}

func createWindow(title string, cvars *CVars, deviceType DeviceType, platform Platform, logger logrus.FieldLogger) (Window, error) {
	desc := WindowDesc{
		Title:      title,
		Width:      int(cvars.ResolutionX.Int()),
		Height:     int(cvars.ResolutionY.Int()),
		DeviceType: deviceType,
	}

	mode := cvars.Mode()
	switch mode {
	case FullScreen, FullScreenDesktop:
		desc.Mode = mode
	case FullScreenBorderless:
		if display, err := platform.DesktopDisplayMode(0); err == nil {
			desc.Borderless = true
			desc.Width, desc.Height = display.Width, display.Height
		} else {
			logger.WithError(err).Warn("Cannot set fullscreen borderless mode, falling back to windowed mode")
			mode = Windowed
			if err := cvars.FullScreenMode.SetInt(int64(Windowed)); err != nil {
				logger.WithError(err).Warn("Failed to store full screen mode")
			}
			cvars.FullScreenMode.ClearModified()
		}
	}

	if (desc.Width == 0 || desc.Height == 0) && mode != FullScreenDesktop {
		if display, err := platform.DesktopDisplayMode(0); err == nil {
			desc.Width, desc.Height = display.Width, display.Height
		} else {
			logger.WithError(err).Warn("Failed to retrieve desktop display mode")
			desc.Width, desc.Height = DefaultWindowWidth, DefaultWindowHeight
		}
	}

	window, err := platform.CreateWindow(desc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create window")
	}

	storeResolution(cvars, window, logger)
	return window, nil
}

func storeResolution(cvars *CVars, window Window, logger logrus.FieldLogger) {
	width, height := window.Size()
	if err := cvars.ResolutionX.SetInt(int64(width)); err != nil {
		logger.WithError(err).Warnf("Failed to store window width %d", width)
	}
	if err := cvars.ResolutionY.SetInt(int64(height)); err != nil {
		logger.WithError(err).Warnf("Failed to store window height %d", height)
	}
	cvars.ResolutionX.ClearModified()
	cvars.ResolutionY.ClearModified()
}

// Window returns the window
func (c *Context) Window() Window {
	return c.window
}

// Manager returns the manager owning the device
func (c *Context) Manager() *Manager {
	return c.manager
}

// SwapChain returns the swap chain of the window
func (c *Context) SwapChain() *SwapChain {
	return c.swapchain
}

// CVars returns the variables the context was configured with
func (c *Context) CVars() *CVars {
	return c.cvars
}

// IsDerived reports whether the context borrows the device of another one
func (c *Context) IsDerived() bool {
	return c.base != nil
}

// Clear clears the window's back buffer and depth buffer
func (c *Context) Clear() {
	c.swapchain.Clear()
}

// Present presents with the configured sync interval
func (c *Context) Present() error {
	return c.swapchain.Present(c.cvars.Interval())
}

// Resize adapts the swap chain to a new window size
func (c *Context) Resize(width, height int) error {
	if err := c.swapchain.Resize(uint32(width), uint32(height), SurfaceTransformOptimal); err != nil {
		return err
	}
	storeResolution(c.cvars, c.window, c.logger)
	return nil
}

// Destroy releases the swap chain, the device when this context owns it,
// and the window. Destroying a primary context releases the swap chains
// of the contexts derived from it.
func (c *Context) Destroy() {
	if c.base != nil {
		c.manager.ReleaseSwapChain(c.swapchain)
	} else {
		c.manager.Destroy()
	}
	c.swapchain = nil
	c.window.Destroy()
}
