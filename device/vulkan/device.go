// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"fmt"
	"math"

	"github.com/devblok/sage/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

type device struct {
	instance vk.Instance
	gpu      vk.PhysicalDevice
	handle   vk.Device
	adapter  gfx.AdapterInfo
	version  gfx.Version
	logger   logrus.FieldLogger
}

// CreateDeviceAndContexts creates the logical device on the selected
// adapter with one queue per immediate context
func (b *Backend) CreateDeviceAndContexts(ci gfx.EngineCreateInfo) (gfx.Device, []gfx.DeviceContext, error) {
	instance, err := b.createInstance(ci.APIVersion, ci.Validation)
	if err != nil {
		return nil, nil, err
	}

	gpus, err := physicalDevices(instance)
	if err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, nil, err
	}
	infos := make([]gfx.AdapterInfo, len(gpus))
	for idx, gpu := range gpus {
		infos[idx] = adapterInfo(gpu)
	}
	indices := supportedAdapters(infos, ci.APIVersion)
	if ci.AdapterID < 0 || ci.AdapterID >= len(indices) {
		vk.DestroyInstance(instance, nil)
		return nil, nil, fmt.Errorf("adapter %d does not exist", ci.AdapterID)
	}
	gpu := gpus[indices[ci.AdapterID]]
	families := queueFamilies(gpu)

	// queues of a family are handed out in context order
	var (
		queueInfos []vk.DeviceQueueCreateInfo
		familyOf   = map[int]int{}
		indexOf    = make([]uint32, len(ci.ImmediateContexts))
	)
	for idx, cci := range ci.ImmediateContexts {
		if cci.QueueID < 0 || cci.QueueID >= len(families) {
			vk.DestroyInstance(instance, nil)
			return nil, nil, fmt.Errorf("context %s uses unknown queue family %d", cci.Name, cci.QueueID)
		}
		info, ok := familyOf[cci.QueueID]
		if !ok {
			info = len(queueInfos)
			familyOf[cci.QueueID] = info
			queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
				SType:            vk.StructureTypeDeviceQueueCreateInfo,
				QueueFamilyIndex: uint32(cci.QueueID),
			})
		}
		indexOf[idx] = queueInfos[info].QueueCount
		queueInfos[info].QueueCount++
		queueInfos[info].PQueuePriorities = append(queueInfos[info].PQueuePriorities, queuePriorities[cci.Priority])
	}

	if ci.Features.TimestampQueries != gfx.FeatureDisabled && len(ci.ImmediateContexts) > 0 {
		if families[ci.ImmediateContexts[0].QueueID].TimestampValidBits == 0 {
			b.logger.Info("Timestamp queries are not supported by the graphics queue")
		}
	}

	extensions := []string{vk.KhrSwapchainExtensionName}
	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
	}

	var handle vk.Device
	if err := vk.Error(vk.CreateDevice(gpu, &dci, nil, &handle)); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, nil, errors.Wrap(err, "vk.CreateDevice()")
	}

	d := &device{
		instance: instance,
		gpu:      gpu,
		handle:   handle,
		adapter:  ci.Adapter,
		version:  ci.APIVersion,
		logger:   b.logger,
	}

	var contexts []gfx.DeviceContext
	for idx, desc := range ci.ImmediateContexts {
		c, err := d.newContext(desc, uint32(desc.QueueID), indexOf[idx])
		if err != nil {
			for _, created := range contexts {
				created.Release()
			}
			d.Release()
			return nil, nil, err
		}
		contexts = append(contexts, c)
	}
	return d, contexts, nil
}

func (d *device) Type() gfx.DeviceType {
	return gfx.DeviceTypeVulkan
}

func (d *device) APIVersion() gfx.Version {
	return d.version
}

func (d *device) Adapter() gfx.AdapterInfo {
	return d.adapter
}

func (d *device) Release() {
	if d.handle != nil {
		vk.DeviceWaitIdle(d.handle)
		vk.DestroyDevice(d.handle, nil)
		d.handle = nil
	}
	if d.instance != nil {
		vk.DestroyInstance(d.instance, nil)
		d.instance = nil
	}
}

func (d *device) memoryType(typeBits uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.gpu, &memoryProperties)
	memoryProperties.Deref()

	for idx := uint32(0); idx < memoryProperties.MemoryTypeCount; idx++ {
		if (typeBits & 1) == 1 {
			memoryProperties.MemoryTypes[idx].Deref()
			if (memoryProperties.MemoryTypes[idx].PropertyFlags & properties) == properties {
				return idx, nil
			}
		}
		typeBits >>= 1
	}
	return 0, errors.New("requested memory type not found")
}

// context records into one command buffer on its own queue. Clears are
// done by the render pass of the bound swap chain image, so the context
// only keeps the values.
type context struct {
	device *device
	desc   gfx.ContextCreateInfo
	family uint32
	queue  vk.Queue
	pool   vk.CommandPool
	cmd    vk.CommandBuffer
	fence  vk.Fence

	color, depth *imageView
	clearColor   glm.Vec4
	clearDepth   float32
	clearStencil uint8
}

func (d *device) newContext(desc gfx.ContextCreateInfo, family, index uint32) (*context, error) {
	c := &context{
		device:     d,
		desc:       desc,
		family:     family,
		clearColor: gfx.DefaultClearColor,
		clearDepth: 1,
	}
	vk.GetDeviceQueue(d.handle, family, index, &c.queue)

	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: family,
	}
	if err := vk.Error(vk.CreateCommandPool(d.handle, &cpci, nil, &c.pool)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateCommandPool()")
	}

	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	commandBuffers := make([]vk.CommandBuffer, 1)
	if err := vk.Error(vk.AllocateCommandBuffers(d.handle, &cbai, commandBuffers)); err != nil {
		vk.DestroyCommandPool(d.handle, c.pool, nil)
		return nil, errors.Wrap(err, "vk.AllocateCommandBuffers()")
	}
	c.cmd = commandBuffers[0]

	fci := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if err := vk.Error(vk.CreateFence(d.handle, &fci, nil, &c.fence)); err != nil {
		vk.DestroyCommandPool(d.handle, c.pool, nil)
		return nil, errors.Wrap(err, "vk.CreateFence()")
	}
	return c, nil
}

func (c *context) Desc() gfx.ContextCreateInfo {
	return c.desc
}

func (c *context) SetRenderTargets(color, depth gfx.TextureView) {
	c.color, _ = color.(*imageView)
	c.depth, _ = depth.(*imageView)
}

func (c *context) ClearRenderTarget(view gfx.TextureView, color glm.Vec4) {
	c.clearColor = color
}

func (c *context) ClearDepthStencil(view gfx.TextureView, depth float32, stencil uint8) {
	c.clearDepth = depth
	c.clearStencil = stencil
}

func (c *context) clearValues() []vk.ClearValue {
	values := make([]vk.ClearValue, 2)
	values[0].SetColor(c.clearColor[:])
	values[1].SetDepthStencil(c.clearDepth, uint32(c.clearStencil))
	return values
}

// submit runs the recorded command buffer and waits for it
func (c *context) submit(wait, signal vk.Semaphore) error {
	si := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{c.cmd},
	}
	if wait != nil {
		si.WaitSemaphoreCount = 1
		si.PWaitSemaphores = []vk.Semaphore{wait}
		si.PWaitDstStageMask = []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		}
	}
	if signal != nil {
		si.SignalSemaphoreCount = 1
		si.PSignalSemaphores = []vk.Semaphore{signal}
	}

	if err := vk.Error(vk.QueueSubmit(c.queue, 1, []vk.SubmitInfo{si}, c.fence)); err != nil {
		return errors.Wrap(err, "vk.QueueSubmit()")
	}
	return nil
}

// wait blocks until the last submission finished
func (c *context) wait() error {
	fences := []vk.Fence{c.fence}
	if err := vk.Error(vk.WaitForFences(c.device.handle, 1, fences, vk.True, math.MaxUint64)); err != nil {
		return errors.Wrap(err, "vk.WaitForFences()")
	}
	if err := vk.Error(vk.ResetFences(c.device.handle, 1, fences)); err != nil {
		return errors.Wrap(err, "vk.ResetFences()")
	}
	return nil
}

func (c *context) Flush() {
	vk.QueueWaitIdle(c.queue)
}

func (c *context) Release() {
	if c.device.handle == nil {
		return
	}
	vk.QueueWaitIdle(c.queue)
	vk.DestroyFence(c.device.handle, c.fence, nil)
	vk.FreeCommandBuffers(c.device.handle, c.pool, 1, []vk.CommandBuffer{c.cmd})
	vk.DestroyCommandPool(c.device.handle, c.pool, nil)
}
