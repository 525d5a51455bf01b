// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package d3d12

import (
	"unsafe"

	"github.com/devblok/sage/device/dxgi"
	"github.com/devblok/sage/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

type device struct {
	handle  *d3dDevice
	factory *dxgi.Factory
	adapter gfx.AdapterInfo
	version gfx.Version
	logger  logrus.FieldLogger
}

func (d *device) Type() gfx.DeviceType {
	return gfx.DeviceTypeD3D12
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

// view is a swap chain buffer and its descriptor
type view struct {
	resource      unsafe.Pointer
	descriptor    uintptr
	state         uint32
	width, height uint32
}

func (v *view) Size() (uint32, uint32) {
	return v.width, v.height
}

// context records into one command list and submits to its own queue,
// every submission is waited for on a fence
type context struct {
	device    *device
	desc      gfx.ContextCreateInfo
	listType  uint32
	queue     *commandQueue
	allocator *commandAllocator
	list      *commandList
	fence     *fence
	event     windows.Handle
	value     uint64
	recording bool

	color, depth *view
}

func (d *device) newContext(desc gfx.ContextCreateInfo) (*context, error) {
	c := &context{
		device:   d,
		desc:     desc,
		listType: commandListType(desc.Type),
	}
	if err := c.create(); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

func (c *context) create() (err error) {
	dev := c.device.handle
	if c.queue, err = dev.createCommandQueue(&commandQueueDesc{
		Type:     c.listType,
		Priority: queuePriority(c.desc.Priority),
	}); err != nil {
		return err
	}
	if c.allocator, err = dev.createCommandAllocator(c.listType); err != nil {
		return err
	}
	if c.list, err = dev.createCommandList(c.listType, c.allocator); err != nil {
		return err
	}
	if err = c.list.close(); err != nil {
		return err
	}
	if c.fence, err = dev.createFence(); err != nil {
		return err
	}
	if c.event, err = windows.CreateEvent(nil, 0, 0, nil); err != nil {
		return errors.Wrap(err, "CreateEvent()")
	}
	return nil
}

func (c *context) Desc() gfx.ContextCreateInfo {
	return c.desc
}

// begin opens the command list, the previous submission has completed
func (c *context) begin() error {
	if c.recording {
		return nil
	}
	if err := c.allocator.reset(); err != nil {
		return err
	}
	if err := c.list.reset(c.allocator); err != nil {
		return err
	}
	c.recording = true
	return nil
}

func (c *context) toState(v *view, state uint32) {
	if v.state != state {
		c.list.transition(v.resource, v.state, state)
		v.state = state
	}
}

func (c *context) SetRenderTargets(color, depth gfx.TextureView) {
	c.color, _ = color.(*view)
	c.depth, _ = depth.(*view)
	if c.color == nil || c.begin() != nil {
		return
	}

	c.toState(c.color, resourceStateRenderTarget)
	if c.depth != nil {
		c.list.omSetRenderTargets(c.color.descriptor, &c.depth.descriptor)
	} else {
		c.list.omSetRenderTargets(c.color.descriptor, nil)
	}
}

func (c *context) ClearRenderTarget(target gfx.TextureView, color glm.Vec4) {
	rtv, ok := target.(*view)
	if !ok || rtv == nil || c.begin() != nil {
		return
	}
	c.toState(rtv, resourceStateRenderTarget)
	rgba := [4]float32(color)
	c.list.clearRenderTargetView(rtv.descriptor, &rgba)
}

func (c *context) ClearDepthStencil(target gfx.TextureView, depth float32, stencil uint8) {
	dsv, ok := target.(*view)
	if !ok || dsv == nil || c.begin() != nil {
		return
	}
	c.list.clearDepthStencilView(dsv.descriptor, depth, stencil)
}

// submit closes and executes the recorded commands, the bound back buffer
// is returned to the present state first
func (c *context) submit() error {
	if !c.recording {
		return nil
	}
	if c.color != nil {
		c.toState(c.color, resourceStatePresent)
	}
	c.recording = false
	if err := c.list.close(); err != nil {
		return err
	}
	c.queue.executeCommandList(c.list)
	return nil
}

// wait blocks until everything submitted to the queue has completed
func (c *context) wait() error {
	c.value++
	if err := c.queue.signal(c.fence, c.value); err != nil {
		return err
	}
	if c.fence.completedValue() >= c.value {
		return nil
	}
	if err := c.fence.setEventOnCompletion(c.value, c.event); err != nil {
		return err
	}
	if _, err := windows.WaitForSingleObject(c.event, windows.INFINITE); err != nil {
		return errors.Wrap(err, "WaitForSingleObject()")
	}
	return nil
}

func (c *context) Flush() {
	if err := c.submit(); err != nil {
		c.device.logger.WithError(err).Errorf("Failed to submit context %s", c.desc.Name)
	}
	if err := c.wait(); err != nil {
		c.device.logger.WithError(err).Errorf("Failed to wait for context %s", c.desc.Name)
	}
}

func (c *context) Release() {
	if c.queue != nil && c.fence != nil && c.event != 0 {
		c.Flush()
	}
	c.color, c.depth = nil, nil

	if c.event != 0 {
		windows.CloseHandle(c.event)
		c.event = 0
	}
	for _, obj := range []unsafe.Pointer{
		unsafe.Pointer(c.fence),
		unsafe.Pointer(c.list),
		unsafe.Pointer(c.allocator),
		unsafe.Pointer(c.queue),
	} {
		dxgi.Release(obj)
	}
	c.fence, c.list, c.allocator, c.queue = nil, nil, nil, nil
}
