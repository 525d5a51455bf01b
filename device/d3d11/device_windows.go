// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package d3d11

import (
	"unsafe"

	"github.com/devblok/sage/device/dxgi"
	"github.com/devblok/sage/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

type device struct {
	handle  *d3dDevice
	factory *dxgi.Factory
	adapter gfx.AdapterInfo
	version gfx.Version
	logger  logrus.FieldLogger
}

func (d *device) Type() gfx.DeviceType {
	return gfx.DeviceTypeD3D11
}

func (d *device) APIVersion() gfx.Version {
	return d.version
}

func (d *device) Adapter() gfx.AdapterInfo {
	return d.adapter
}

func (d *device) Release() {
	if d.handle != nil {
		dxgi.Release(unsafe.Pointer(d.handle))
		d.handle = nil
	}
	if d.factory != nil {
		d.factory.Release()
		d.factory = nil
	}
}

// view is a render target or depth stencil view of a swap chain
type view struct {
	handle        unsafe.Pointer
	width, height uint32
}

func (v *view) Size() (uint32, uint32) {
	return v.width, v.height
}

// context is the immediate device context
type context struct {
	device *device
	handle *deviceContext
	desc   gfx.ContextCreateInfo
}

func (c *context) Desc() gfx.ContextCreateInfo {
	return c.desc
}

func (c *context) SetRenderTargets(color, depth gfx.TextureView) {
	rtv, ok := color.(*view)
	if !ok || rtv == nil {
		c.handle.omSetRenderTargets(nil, nil)
		return
	}
	var dsv unsafe.Pointer
	if depthView, ok := depth.(*view); ok && depthView != nil {
		dsv = depthView.handle
	}
	c.handle.omSetRenderTargets(rtv.handle, dsv)
	c.handle.rsSetViewports(&viewport{
		Width:    float32(rtv.width),
		Height:   float32(rtv.height),
		MaxDepth: 1,
	})
}

func (c *context) ClearRenderTarget(target gfx.TextureView, color glm.Vec4) {
	if rtv, ok := target.(*view); ok && rtv != nil {
		rgba := [4]float32(color)
		c.handle.clearRenderTargetView(rtv.handle, &rgba)
	}
}

func (c *context) ClearDepthStencil(target gfx.TextureView, depth float32, stencil uint8) {
	if dsv, ok := target.(*view); ok && dsv != nil {
		c.handle.clearDepthStencilView(dsv.handle, clearDepth|clearStencil, depth, stencil)
	}
}

func (c *context) Flush() {
	c.handle.flush()
}

func (c *context) Release() {
	if c.handle != nil {
		c.handle.clearState()
		c.handle.flush()
		dxgi.Release(unsafe.Pointer(c.handle))
		c.handle = nil
	}
}
