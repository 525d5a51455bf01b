// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package d3d12

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

	rtvHeap *descriptorHeap
	dsvHeap *descriptorHeap
	buffers []*view
	depth   *view
}

// createBuffers creates render target views for every buffer and the
// depth buffer
func (s *swapChain) createBuffers() error {
	current, err := s.handle.Desc()
	if err != nil {
		return err
	}
	s.desc.Width, s.desc.Height = current.BufferDesc.Width, current.BufferDesc.Height
	s.desc.BufferCount = current.BufferCount

	dev := s.device.handle
	if s.rtvHeap == nil {
		if s.rtvHeap, err = dev.createDescriptorHeap(descriptorHeapTypeRTV, s.desc.BufferCount); err != nil {
			return err
		}
	}
	descriptor := s.rtvHeap.cpuHandleStart()
	increment := dev.descriptorHandleIncrementSize(descriptorHeapTypeRTV)

	for idx := uint32(0); idx < s.desc.BufferCount; idx++ {
		resource, err := s.handle.Buffer(idx, &iidResource)
		if err != nil {
			return err
		}
		dev.createRenderTargetView(resource, descriptor)
		s.buffers = append(s.buffers, &view{
			resource:   resource,
			descriptor: descriptor,
			state:      resourceStatePresent,
			width:      s.desc.Width,
			height:     s.desc.Height,
		})
		descriptor += increment
	}

	if s.desc.DepthFormat == gfx.FormatUnknown {
		return nil
	}
	if s.dsvHeap == nil {
		if s.dsvHeap, err = dev.createDescriptorHeap(descriptorHeapTypeDSV, 1); err != nil {
			return err
		}
	}
	resource, err := dev.createDepthBuffer(s.desc.Width, s.desc.Height, dxgi.Format(s.desc.DepthFormat),
		s.desc.DefaultDepth, s.desc.DefaultStencil)
	if err != nil {
		return err
	}
	s.depth = &view{
		resource:   resource,
		descriptor: s.dsvHeap.cpuHandleStart(),
		state:      resourceStateDepthWrite,
		width:      s.desc.Width,
		height:     s.desc.Height,
	}
	dev.createDepthStencilView(resource, s.depth.descriptor)
	return nil
}

func (s *swapChain) releaseBuffers() {
	s.context.color, s.context.depth = nil, nil
	for _, buffer := range s.buffers {
		dxgi.Release(buffer.resource)
	}
	s.buffers = nil
	if s.depth != nil {
		dxgi.Release(s.depth.resource)
		s.depth = nil
	}
}

func (s *swapChain) Desc() gfx.SwapChainDesc {
	return s.desc
}

func (s *swapChain) CurrentBackBuffer() gfx.TextureView {
	index := s.handle.CurrentBackBufferIndex()
	if int(index) >= len(s.buffers) {
		return nil
	}
	return s.buffers[index]
}

func (s *swapChain) DepthBuffer() gfx.TextureView {
	if s.depth == nil {
		return nil
	}
	return s.depth
}

// Present submits what the context recorded for this frame, presents and
// waits for the queue so buffers can be recorded into again
func (s *swapChain) Present(syncInterval uint32) error {
	if err := s.context.submit(); err != nil {
		return err
	}
	if err := s.handle.Present(syncInterval); err != nil {
		return err
	}
	return s.context.wait()
}

// Resize recreates the buffers, zero sizes take the window size
func (s *swapChain) Resize(width, height uint32, transform gfx.SurfaceTransform) error {
	if width == s.desc.Width && height == s.desc.Height {
		return nil
	}
	s.context.Flush()
	s.releaseBuffers()

	if err := s.handle.ResizeBuffers(s.desc.BufferCount, width, height, dxgi.Format(s.desc.ColorFormat)); err != nil {
		return err
	}
	s.desc.PreTransform = transform
	return s.createBuffers()
}

func (s *swapChain) Release() {
	if s.context.queue != nil {
		s.context.Flush()
	}
	s.releaseBuffers()
	for _, heap := range []*descriptorHeap{s.rtvHeap, s.dsvHeap} {
		if heap != nil {
			dxgi.Release(unsafe.Pointer(heap))
		}
	}
	s.rtvHeap, s.dsvHeap = nil, nil
	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
}
