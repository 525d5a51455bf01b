// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package opengl renders through desktop OpenGL. The device is a single
// context bound to the window it was created for, so it cannot present
// into other windows.
package opengl

import (
	"github.com/devblok/sage/gfx"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// Provider is implemented by windows OpenGL can render into
type Provider interface {
	// GLCreateContext creates a context for the window and makes it current
	GLCreateContext(debug bool) (sdl.GLContext, error)

	// GLSwap presents the back buffer
	GLSwap()

	// DrawableSize returns the window size in pixels
	DrawableSize() (width, height uint32)
}

// Backend implements gfx.Backend for OpenGL
type Backend struct {
	logger logrus.FieldLogger
}

// New creates the OpenGL backend
func New(logger logrus.FieldLogger) *Backend {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Backend{
		logger: logger.WithField("backend", gfx.DeviceTypeGL.String()),
	}
}

// LoadLibrary checks the windowing library is ready, the driver itself is
// loaded with the first OpenGL window
func (b *Backend) LoadLibrary() error {
	if sdl.WasInit(sdl.INIT_VIDEO) == 0 {
		return errors.New("video subsystem is not initialized")
	}
	return nil
}

// EnumerateAdapters reports the driver behind the default display. The
// real adapter is only known once a context exists.
func (b *Backend) EnumerateAdapters(minVersion gfx.Version) ([]gfx.AdapterInfo, error) {
	return []gfx.AdapterInfo{{
		Description: "Default OpenGL adapter",
		Type:        gfx.AdapterTypeUnknown,
		APIVersion:  minVersion,
		Queues: []gfx.CommandQueueInfo{{
			Type:              gfx.QueueTypeGraphics,
			MaxDeviceContexts: 1,
		}},
	}}, nil
}

// CreateDeviceAndContexts creates the OpenGL context of the window in ci
func (b *Backend) CreateDeviceAndContexts(ci gfx.EngineCreateInfo) (gfx.Device, []gfx.DeviceContext, error) {
	if len(ci.ImmediateContexts) != 1 {
		return nil, nil, errors.Errorf("OpenGL supports one immediate context, %d requested", len(ci.ImmediateContexts))
	}
	provider, ok := ci.Window.Provider.(Provider)
	if !ok {
		return nil, nil, errors.New("window cannot create OpenGL contexts")
	}

	glctx, err := provider.GLCreateContext(ci.Validation > gfx.ValidationDisabled)
	if err != nil {
		return nil, nil, err
	}
	if err := gl.InitWithProcAddrFunc(sdl.GLGetProcAddress); err != nil {
		sdl.GLDeleteContext(glctx)
		return nil, nil, errors.Wrap(err, "gl.Init()")
	}

	d := &device{
		glctx:    glctx,
		provider: provider,
		adapter:  ci.Adapter,
		logger:   b.logger,
	}
	d.adapter.Description = gl.GoStr(gl.GetString(gl.RENDERER))
	d.adapter.VendorID = vendorID(gl.GoStr(gl.GetString(gl.VENDOR)))
	d.version = parseVersion(gl.GoStr(gl.GetString(gl.VERSION)))
	d.adapter.APIVersion = d.version

	if !d.version.AtLeast(ci.APIVersion) {
		sdl.GLDeleteContext(glctx)
		return nil, nil, errors.Errorf("OpenGL %s is required, driver provides %s", ci.APIVersion, d.version)
	}
	b.logger.Debugf("OpenGL driver: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	return d, []gfx.DeviceContext{newContext(d, ci.ImmediateContexts[0])}, nil
}

// CreateSwapChain wraps the default framebuffer of the window the device
// was created for
func (b *Backend) CreateSwapChain(dev gfx.Device, ctx gfx.DeviceContext, desc gfx.SwapChainDesc, window gfx.NativeWindow) (gfx.NativeSwapChain, error) {
	d, ok := dev.(*device)
	if !ok {
		return nil, errors.New("device was not created by the OpenGL backend")
	}
	c, ok := ctx.(*context)
	if !ok {
		return nil, errors.New("context was not created by the OpenGL backend")
	}
	if window.Provider != d.provider {
		return nil, errors.New("OpenGL device cannot present into another window")
	}
	return newSwapChain(d, c, desc), nil
}
