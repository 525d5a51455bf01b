// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package d3d11

import (
	"unsafe"

	"github.com/devblok/sage/device/dxgi"
	"github.com/devblok/sage/gfx"
)

type swapChain struct {
	device  *device
	context *context
	handle  *dxgi.SwapChain
	desc    gfx.SwapChainDesc

	color, depth *view
}

// createViews creates the render target view of the back buffer and the
// depth buffer matching its size
func (s *swapChain) createViews() error {
	current, err := s.handle.Desc()
	if err != nil {
		return err
	}
	s.desc.Width, s.desc.Height = current.BufferDesc.Width, current.BufferDesc.Height

	buffer, err := s.handle.Buffer(0, &iidTexture2D)
	if err != nil {
		return err
	}
	rtv, err := s.device.handle.createRenderTargetView(buffer)
	dxgi.Release(buffer)
	if err != nil {
		return err
	}
	s.color = &view{handle: rtv, width: s.desc.Width, height: s.desc.Height}

	if s.desc.DepthFormat == gfx.FormatUnknown {
		return nil
	}
	texture, err := s.device.handle.createTexture2D(&texture2DDesc{
		Width:      s.desc.Width,
		Height:     s.desc.Height,
		MipLevels:  1,
		ArraySize:  1,
		Format:     dxgi.Format(s.desc.DepthFormat),
		SampleDesc: dxgi.SampleDesc{Count: 1},
		BindFlags:  bindDepthStencil,
	})
	if err != nil {
		return err
	}
	dsv, err := s.device.handle.createDepthStencilView(texture)
	dxgi.Release(texture)
	if err != nil {
		return err
	}
	s.depth = &view{handle: dsv, width: s.desc.Width, height: s.desc.Height}
	return nil
}

func (s *swapChain) releaseViews() {
	if s.context.handle != nil {
		s.context.handle.omSetRenderTargets(nil, nil)
	}
	if s.color != nil {
		dxgi.Release(s.color.handle)
		s.color = nil
	}
	if s.depth != nil {
		dxgi.Release(s.depth.handle)
		s.depth = nil
	}
}

func (s *swapChain) Desc() gfx.SwapChainDesc {
	return s.desc
}

func (s *swapChain) CurrentBackBuffer() gfx.TextureView {
	if s.color == nil {
		return nil
	}
	return s.color
}

func (s *swapChain) DepthBuffer() gfx.TextureView {
	if s.depth == nil {
		return nil
	}
	return s.depth
}

func (s *swapChain) Present(syncInterval uint32) error {
	return s.handle.Present(syncInterval)
}

// Resize recreates the buffers, zero sizes take the window size
func (s *swapChain) Resize(width, height uint32, transform gfx.SurfaceTransform) error {
	if width == s.desc.Width && height == s.desc.Height {
		return nil
	}
	s.releaseViews()
	s.context.handle.flush()

	if err := s.handle.ResizeBuffers(s.desc.BufferCount, width, height, dxgi.Format(s.desc.ColorFormat)); err != nil {
		return err
	}
	s.desc.PreTransform = transform
	return s.createViews()
}

func (s *swapChain) Release() {
	s.releaseViews()
	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
}
