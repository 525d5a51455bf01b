// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package opengl

import (
	"github.com/devblok/sage/gfx"
	"github.com/go-gl/gl/v4.1-core/gl"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

type device struct {
	glctx    sdl.GLContext
	provider Provider
	adapter  gfx.AdapterInfo
	version  gfx.Version
	logger   logrus.FieldLogger
}

func (d *device) Type() gfx.DeviceType {
	return gfx.DeviceTypeGL
}

func (d *device) APIVersion() gfx.Version {
	return d.version
}

func (d *device) Adapter() gfx.AdapterInfo {
	return d.adapter
}

func (d *device) Release() {
	if d.glctx != nil {
		sdl.GLDeleteContext(d.glctx)
		d.glctx = nil
	}
}

// framebuffer is the default framebuffer of the window, OpenGL has no
// handle for its colour and depth planes
type framebuffer struct {
	swapchain *swapChain
	depth     bool
}

func (f *framebuffer) Size() (uint32, uint32) {
	return f.swapchain.desc.Width, f.swapchain.desc.Height
}

// context issues commands on the current OpenGL context
type context struct {
	device *device
	desc   gfx.ContextCreateInfo
	target *framebuffer
}

func newContext(d *device, desc gfx.ContextCreateInfo) *context {
	return &context{
		device: d,
		desc:   desc,
	}
}

func (c *context) Desc() gfx.ContextCreateInfo {
	return c.desc
}

func (c *context) SetRenderTargets(color, depth gfx.TextureView) {
	target, ok := color.(*framebuffer)
	if !ok {
		return
	}
	c.target = target
	width, height := target.Size()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (c *context) ClearRenderTarget(view gfx.TextureView, color glm.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (c *context) ClearDepthStencil(view gfx.TextureView, depth float32, stencil uint8) {
	gl.DepthMask(true)
	gl.ClearDepth(float64(depth))
	gl.ClearStencil(int32(stencil))
	gl.Clear(gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

func (c *context) Flush() {
	gl.Flush()
}

func (c *context) Release() {
	c.target = nil
}
