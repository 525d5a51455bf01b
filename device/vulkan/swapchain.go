// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"math"

	"github.com/devblok/sage/gfx"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// imageView is a swap chain image or the depth buffer of a swap chain
type imageView struct {
	swapchain *swapChain
	index     uint32
	depth     bool
}

func (v *imageView) Size() (uint32, uint32) {
	return v.swapchain.extent.Width, v.swapchain.extent.Height
}

type swapChain struct {
	device   *device
	context  *context
	provider SurfaceProvider
	desc     gfx.SwapChainDesc

	surface      vk.Surface
	format       vk.SurfaceFormat
	depthFormat  vk.Format
	presentModes []vk.PresentMode
	presentMode  vk.PresentMode
	transform    gfx.SurfaceTransform
	extent       vk.Extent2D

	handle       vk.Swapchain
	images       []vk.Image
	views        []vk.ImageView
	framebuffers []vk.Framebuffer
	renderPass   vk.RenderPass

	depthImage  vk.Image
	depthView   vk.ImageView
	depthMemory vk.DeviceMemory

	imageAvailable vk.Semaphore
	renderFinished vk.Semaphore
	imageIndex     uint32
	acquired       bool
	acquireErr     error
}

// CreateSwapChain creates a swap chain for a window implementing
// SurfaceProvider
func (b *Backend) CreateSwapChain(dev gfx.Device, ctx gfx.DeviceContext, desc gfx.SwapChainDesc, window gfx.NativeWindow) (gfx.NativeSwapChain, error) {
	d, ok := dev.(*device)
	if !ok {
		return nil, errors.New("device was not created by the Vulkan backend")
	}
	c, ok := ctx.(*context)
	if !ok {
		return nil, errors.New("context was not created by the Vulkan backend")
	}
	provider, ok := window.Provider.(SurfaceProvider)
	if !ok {
		return nil, errors.New("window cannot create Vulkan surfaces")
	}

	s := &swapChain{
		device:      d,
		context:     c,
		provider:    provider,
		desc:        desc,
		presentMode: vk.PresentModeFifo,
		transform:   desc.PreTransform,
	}

	pSurface, err := provider.VulkanCreateSurface(d.instance)
	if err != nil {
		return nil, err
	}
	s.surface = vk.SurfaceFromPointer(uintptr(pSurface))

	if err := s.init(); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func (s *swapChain) init() error {
	var supported vk.Bool32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(s.device.gpu, s.context.family, s.surface, &supported)); err != nil {
		return errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceSupport()")
	}
	if !supported.B() {
		return errors.New("vk.GetPhysicalDeviceSurfaceSupport(): surface is not supported by the graphics queue")
	}

	var formatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(s.device.gpu, s.surface, &formatCount, nil)); err != nil {
		return errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	formats := make([]vk.SurfaceFormat, formatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(s.device.gpu, s.surface, &formatCount, formats)); err != nil {
		return errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	for idx := range formats {
		formats[idx].Deref()
	}
	s.format = chooseSurfaceFormat(formats, vkFormat(s.desc.ColorFormat))
	s.desc.ColorFormat = textureFormat(s.format.Format)

	var modeCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(s.device.gpu, s.surface, &modeCount, nil)); err != nil {
		return errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}
	s.presentModes = make([]vk.PresentMode, modeCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(s.device.gpu, s.surface, &modeCount, s.presentModes)); err != nil {
		return errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}

	if s.desc.DepthFormat != gfx.FormatUnknown {
		s.depthFormat = s.supportedDepthFormat(vkFormat(s.desc.DepthFormat))
		s.desc.DepthFormat = textureFormat(s.depthFormat)
	}

	if err := s.createRenderPass(); err != nil {
		return err
	}
	if err := s.createSynchronization(); err != nil {
		return err
	}

	width, height := s.desc.Width, s.desc.Height
	if width == 0 || height == 0 {
		width, height = s.provider.DrawableSize()
	}
	return s.create(width, height)
}

func (s *swapChain) supportedDepthFormat(want vk.Format) vk.Format {
	for _, format := range []vk.Format{want, vk.FormatD32Sfloat, vk.FormatD24UnormS8Uint, vk.FormatD16Unorm} {
		var properties vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(s.device.gpu, format, &properties)
		properties.Deref()
		if properties.OptimalTilingFeatures&vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit) != 0 {
			return format
		}
	}
	return vk.FormatD16Unorm
}

func (s *swapChain) createRenderPass() error {
	attachments := []vk.AttachmentDescription{{
		Format:         s.format.Format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments: []vk.AttachmentReference{{
			Attachment: 0,
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		}},
	}

	if s.depthFormat != vk.FormatUndefined {
		attachments = append(attachments, vk.AttachmentDescription{
			Format:         s.depthFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpClear,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		})
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: 1,
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
	}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}

	if err := vk.Error(vk.CreateRenderPass(s.device.handle, &rpci, nil, &s.renderPass)); err != nil {
		return errors.Wrap(err, "vk.CreateRenderPass()")
	}
	return nil
}

func (s *swapChain) createSynchronization() error {
	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	if err := vk.Error(vk.CreateSemaphore(s.device.handle, &sci, nil, &s.imageAvailable)); err != nil {
		return errors.Wrap(err, "vk.CreateSemaphore()")
	}
	if err := vk.Error(vk.CreateSemaphore(s.device.handle, &sci, nil, &s.renderFinished)); err != nil {
		return errors.Wrap(err, "vk.CreateSemaphore()")
	}
	return nil
}

func (s *swapChain) destroySynchronization() {
	if s.imageAvailable != nil {
		vk.DestroySemaphore(s.device.handle, s.imageAvailable, nil)
		s.imageAvailable = nil
	}
	if s.renderFinished != nil {
		vk.DestroySemaphore(s.device.handle, s.renderFinished, nil)
		s.renderFinished = nil
	}
}

// create builds the swap chain and its image resources, replacing the
// previous swap chain if there is one
func (s *swapChain) create(width, height uint32) error {
	var caps vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(s.device.gpu, s.surface, &caps)); err != nil {
		return errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceCapabilities()")
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	s.extent = clampExtent(caps.CurrentExtent, caps.MinImageExtent, caps.MaxImageExtent, width, height)
	if s.extent.Width == 0 || s.extent.Height == 0 {
		// minimized windows have no presentable area
		return nil
	}

	compositeAlpha := vk.CompositeAlphaOpaqueBit
	for _, flag := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(flag) != 0 {
			compositeAlpha = flag
			break
		}
	}

	preTransform := caps.CurrentTransform
	if s.transform == gfx.SurfaceTransformIdentity &&
		caps.SupportedTransforms&vk.SurfaceTransformFlags(vk.SurfaceTransformIdentityBit) != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	}

	oldSwapchain := s.handle
	scci := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          s.surface,
		MinImageCount:    imageCount(s.desc.BufferCount, caps.MinImageCount, caps.MaxImageCount),
		ImageFormat:      s.format.Format,
		ImageColorSpace:  s.format.ColorSpace,
		ImageExtent:      s.extent,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     preTransform,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      s.presentMode,
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		OldSwapchain:     oldSwapchain,
	}

	var handle vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(s.device.handle, &scci, nil, &handle)); err != nil {
		return errors.Wrap(err, "vk.CreateSwapchain()")
	}
	if oldSwapchain != nil {
		vk.DestroySwapchain(s.device.handle, oldSwapchain, nil)
	}
	s.handle = handle

	var numImages uint32
	if err := vk.Error(vk.GetSwapchainImages(s.device.handle, s.handle, &numImages, nil)); err != nil {
		return errors.Wrap(err, "vk.GetSwapchainImages()")
	}
	s.images = make([]vk.Image, numImages)
	if err := vk.Error(vk.GetSwapchainImages(s.device.handle, s.handle, &numImages, s.images)); err != nil {
		return errors.Wrap(err, "vk.GetSwapchainImages()")
	}
	s.desc.Width, s.desc.Height = s.extent.Width, s.extent.Height
	s.desc.BufferCount = numImages

	if err := s.createImageViews(); err != nil {
		return err
	}
	if s.depthFormat != vk.FormatUndefined {
		if err := s.createDepthImage(); err != nil {
			return err
		}
	}
	return s.createFramebuffers()
}

func (s *swapChain) createImageViews() error {
	for idx, image := range s.images {
		ivci := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   s.format.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}

		var view vk.ImageView
		if err := vk.Error(vk.CreateImageView(s.device.handle, &ivci, nil, &view)); err != nil {
			return errors.Wrapf(err, "vk.CreateImageView()[%d]", idx)
		}
		s.views = append(s.views, view)
	}
	return nil
}

func (s *swapChain) createDepthImage() error {
	ici := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    s.depthFormat,
		Extent: vk.Extent3D{
			Width:  s.extent.Width,
			Height: s.extent.Height,
			Depth:  1,
		},
		MipLevels:   1,
		ArrayLayers: 1,
		Samples:     vk.SampleCount1Bit,
		Tiling:      vk.ImageTilingOptimal,
		Usage:       vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
	}
	if err := vk.Error(vk.CreateImage(s.device.handle, &ici, nil, &s.depthImage)); err != nil {
		return errors.Wrap(err, "vk.CreateImage()")
	}

	var memoryRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(s.device.handle, s.depthImage, &memoryRequirements)
	memoryRequirements.Deref()

	memoryType, err := s.device.memoryType(memoryRequirements.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return err
	}

	mai := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memoryRequirements.Size,
		MemoryTypeIndex: memoryType,
	}
	if err := vk.Error(vk.AllocateMemory(s.device.handle, &mai, nil, &s.depthMemory)); err != nil {
		return errors.Wrap(err, "vk.AllocateMemory()")
	}
	if err := vk.Error(vk.BindImageMemory(s.device.handle, s.depthImage, s.depthMemory, 0)); err != nil {
		return errors.Wrap(err, "vk.BindImageMemory()")
	}

	ivci := vk.ImageViewCreateInfo{
		SType:  vk.StructureTypeImageViewCreateInfo,
		Format: s.depthFormat,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: depthAspect(s.depthFormat),
			LevelCount: 1,
			LayerCount: 1,
		},
		ViewType: vk.ImageViewType2d,
		Image:    s.depthImage,
	}
	if err := vk.Error(vk.CreateImageView(s.device.handle, &ivci, nil, &s.depthView)); err != nil {
		return errors.Wrap(err, "vk.CreateImageView()")
	}
	return nil
}

func (s *swapChain) createFramebuffers() error {
	for _, view := range s.views {
		attachments := []vk.ImageView{view}
		if s.depthView != nil {
			attachments = append(attachments, s.depthView)
		}
		fci := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      s.renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           s.extent.Width,
			Height:          s.extent.Height,
			Layers:          1,
		}

		var framebuffer vk.Framebuffer
		if err := vk.Error(vk.CreateFramebuffer(s.device.handle, &fci, nil, &framebuffer)); err != nil {
			return errors.Wrap(err, "vk.CreateFramebuffer()")
		}
		s.framebuffers = append(s.framebuffers, framebuffer)
	}
	return nil
}

// destroyImages releases everything create made except the swap chain
func (s *swapChain) destroyImages() {
	for _, fb := range s.framebuffers {
		vk.DestroyFramebuffer(s.device.handle, fb, nil)
	}
	s.framebuffers = nil

	for _, view := range s.views {
		vk.DestroyImageView(s.device.handle, view, nil)
	}
	s.views = nil
	s.images = nil

	if s.depthView != nil {
		vk.DestroyImageView(s.device.handle, s.depthView, nil)
		s.depthView = nil
	}
	if s.depthImage != nil {
		vk.DestroyImage(s.device.handle, s.depthImage, nil)
		s.depthImage = nil
	}
	if s.depthMemory != nil {
		vk.FreeMemory(s.device.handle, s.depthMemory, nil)
		s.depthMemory = nil
	}
}

// recreate rebuilds the swap chain after the surface changed. A pending
// acquire leaves its semaphore signaled, so the semaphores are renewed.
func (s *swapChain) recreate(width, height uint32) error {
	vk.DeviceWaitIdle(s.device.handle)
	s.destroyImages()
	s.destroySynchronization()
	s.acquired = false
	s.acquireErr = nil

	if err := s.createSynchronization(); err != nil {
		return err
	}
	return s.create(width, height)
}

func (s *swapChain) acquire() error {
	if s.acquired {
		return nil
	}
	if s.handle == nil || len(s.framebuffers) == 0 {
		return errors.New("swap chain has no presentable images")
	}

	result := vk.AcquireNextImage(s.device.handle, s.handle, math.MaxUint64, s.imageAvailable, nil, &s.imageIndex)
	if result == vk.ErrorOutOfDate {
		width, height := s.provider.DrawableSize()
		if err := s.recreate(width, height); err != nil {
			return err
		}
		result = vk.AcquireNextImage(s.device.handle, s.handle, math.MaxUint64, s.imageAvailable, nil, &s.imageIndex)
	}
	if result != vk.Suboptimal {
		if err := vk.Error(result); err != nil {
			return errors.Wrap(err, "vk.AcquireNextImage()")
		}
	}
	s.acquired = true
	return nil
}

func (s *swapChain) Desc() gfx.SwapChainDesc {
	return s.desc
}

func (s *swapChain) CurrentBackBuffer() gfx.TextureView {
	s.acquireErr = s.acquire()
	return &imageView{swapchain: s, index: s.imageIndex}
}

func (s *swapChain) DepthBuffer() gfx.TextureView {
	if s.depthView == nil {
		return nil
	}
	return &imageView{swapchain: s, depth: true}
}

// Present renders the clear of the bound context into the acquired image
// and queues it for presentation
func (s *swapChain) Present(syncInterval uint32) error {
	if mode := presentMode(syncInterval, s.presentModes); mode != s.presentMode {
		s.presentMode = mode
		if err := s.recreate(s.extent.Width, s.extent.Height); err != nil {
			return err
		}
	}
	if s.extent.Width == 0 || s.extent.Height == 0 {
		return nil
	}

	if err := s.acquireErr; err != nil {
		s.acquireErr = nil
		return err
	}
	if err := s.acquire(); err != nil {
		return err
	}
	s.acquired = false

	if err := s.record(); err != nil {
		return err
	}
	if err := s.context.submit(s.imageAvailable, s.renderFinished); err != nil {
		return err
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{s.renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.handle},
		PImageIndices:      []uint32{s.imageIndex},
	}
	presentResult := vk.QueuePresent(s.context.queue, &presentInfo)

	if err := s.context.wait(); err != nil {
		return err
	}

	switch presentResult {
	case vk.ErrorOutOfDate, vk.Suboptimal:
		width, height := s.provider.DrawableSize()
		return s.recreate(width, height)
	}
	if err := vk.Error(presentResult); err != nil {
		return errors.Wrap(err, "vk.QueuePresent()")
	}
	return nil
}

func (s *swapChain) record() error {
	cmd := s.context.cmd
	if err := vk.Error(vk.ResetCommandBuffer(cmd, 0)); err != nil {
		return errors.Wrap(err, "vk.ResetCommandBuffer()")
	}

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(vk.BeginCommandBuffer(cmd, &cbbi)); err != nil {
		return errors.Wrap(err, "vk.BeginCommandBuffer()")
	}

	clearValues := s.context.clearValues()
	if s.depthView == nil {
		clearValues = clearValues[:1]
	}
	rpbi := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  s.renderPass,
		Framebuffer: s.framebuffers[s.imageIndex],
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: s.extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(cmd, &rpbi, vk.SubpassContentsInline)
	vk.CmdEndRenderPass(cmd)

	if err := vk.Error(vk.EndCommandBuffer(cmd)); err != nil {
		return errors.Wrap(err, "vk.EndCommandBuffer()")
	}
	return nil
}

func (s *swapChain) Resize(width, height uint32, transform gfx.SurfaceTransform) error {
	if width == s.extent.Width && height == s.extent.Height && transform == s.transform {
		return nil
	}
	s.transform = transform
	s.desc.PreTransform = transform
	return s.recreate(width, height)
}

func (s *swapChain) Release() {
	if s.device.handle == nil {
		return
	}
	vk.DeviceWaitIdle(s.device.handle)
	s.destroyImages()
	s.destroySynchronization()

	if s.renderPass != nil {
		vk.DestroyRenderPass(s.device.handle, s.renderPass, nil)
		s.renderPass = nil
	}
	if s.handle != nil {
		vk.DestroySwapchain(s.device.handle, s.handle, nil)
		s.handle = nil
	}
	if s.surface != nil {
		vk.DestroySurface(s.device.instance, s.surface, nil)
		s.surface = nil
	}
}
