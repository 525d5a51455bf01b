// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package opengl

import (
	"github.com/devblok/sage/gfx"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

// swapChain is the double buffered default framebuffer
type swapChain struct {
	device       *device
	context      *context
	desc         gfx.SwapChainDesc
	syncInterval int
}

func newSwapChain(d *device, c *context, desc gfx.SwapChainDesc) *swapChain {
	width, height := d.provider.DrawableSize()
	if desc.Width == 0 || desc.Height == 0 {
		desc.Width, desc.Height = width, height
	}
	desc.BufferCount = 2
	desc.ColorFormat = gfx.FormatRGBA8UnormSRGB
	if desc.DepthFormat != gfx.FormatUnknown {
		desc.DepthFormat = gfx.FormatD24UnormS8Uint
	}
	return &swapChain{
		device:       d,
		context:      c,
		desc:         desc,
		syncInterval: -1,
	}
}

func (s *swapChain) Desc() gfx.SwapChainDesc {
	return s.desc
}

func (s *swapChain) CurrentBackBuffer() gfx.TextureView {
	return &framebuffer{swapchain: s}
}

func (s *swapChain) DepthBuffer() gfx.TextureView {
	if s.desc.DepthFormat == gfx.FormatUnknown {
		return nil
	}
	return &framebuffer{swapchain: s, depth: true}
}

func (s *swapChain) Present(syncInterval uint32) error {
	if interval := swapInterval(syncInterval); interval != s.syncInterval {
		if err := sdl.GLSetSwapInterval(interval); err != nil {
			// drivers without late swap tearing or multi interval support
			s.device.logger.WithError(err).Warnf("Swap interval %d is not supported", interval)
			if err := sdl.GLSetSwapInterval(1); err != nil {
				return errors.Wrap(err, "sdl.GLSetSwapInterval()")
			}
		}
		s.syncInterval = interval
	}
	s.device.provider.GLSwap()
	return nil
}

func (s *swapChain) Resize(width, height uint32, transform gfx.SurfaceTransform) error {
	if width == 0 || height == 0 {
		width, height = s.device.provider.DrawableSize()
	}
	s.desc.Width, s.desc.Height = width, height
	s.desc.PreTransform = transform
	gl.Viewport(0, 0, int32(width), int32(height))
	return nil
}

func (s *swapChain) Release() {
	if s.context.target != nil && s.context.target.swapchain == s {
		s.context.target = nil
	}
}
