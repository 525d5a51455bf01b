// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import glm "github.com/go-gl/mathgl/mgl32"

// DefaultClearColor is the colour swap chains are cleared to
var DefaultClearColor = glm.Vec4{0, 0, 0, 1}

// SwapChain presents frames into one window. It renders through the
// manager's first immediate context and is released by the manager
// before the device is.
type SwapChain struct {
	native     NativeSwapChain
	context    DeviceContext
	clearColor glm.Vec4
}

func newSwapChain(native NativeSwapChain, context DeviceContext) *SwapChain {
	return &SwapChain{
		native:     native,
		context:    context,
		clearColor: DefaultClearColor,
	}
}

// Desc returns the current swap chain description
func (s *SwapChain) Desc() SwapChainDesc {
	return s.native.Desc()
}

// Native returns the backend swap chain
func (s *SwapChain) Native() NativeSwapChain {
	return s.native
}

// SetClearColor changes the colour used by Clear
func (s *SwapChain) SetClearColor(color glm.Vec4) {
	s.clearColor = color
}

// Clear binds the current back buffer and depth buffer and clears them
func (s *SwapChain) Clear() {
	desc := s.native.Desc()
	color := s.native.CurrentBackBuffer()
	depth := s.native.DepthBuffer()

	s.context.SetRenderTargets(color, depth)
	s.context.ClearRenderTarget(color, s.clearColor)
	if depth != nil {
		s.context.ClearDepthStencil(depth, desc.DefaultDepth, desc.DefaultStencil)
	}
}

// Present shows the back buffer. syncInterval 0 presents immediately,
// 1 waits for the next vertical blank and 2 for the second one.
func (s *SwapChain) Present(syncInterval uint32) error {
	return s.native.Present(syncInterval)
}

// Resize resizes the swap chain buffers to the new window size
func (s *SwapChain) Resize(width, height uint32, transform SurfaceTransform) error {
	return s.native.Resize(width, height, transform)
}

func (s *SwapChain) release() {
	if s.native != nil {
		s.native.Release()
		s.native = nil
	}
}
