// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vulkan renders through the Vulkan API
package vulkan

import (
	"unsafe"

	"github.com/devblok/sage/gfx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// SurfaceProvider is implemented by windows Vulkan can present to
type SurfaceProvider interface {
	// VulkanCreateSurface creates a VkSurfaceKHR for the window
	VulkanCreateSurface(instance interface{}) (unsafe.Pointer, error)

	// DrawableSize returns the window size in pixels
	DrawableSize() (width, height uint32)
}

// Backend implements gfx.Backend for Vulkan
type Backend struct {
	appName string
	logger  logrus.FieldLogger
	loaded  bool
}

// New creates the Vulkan backend, appName is reported to the driver
func New(appName string, logger logrus.FieldLogger) *Backend {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Backend{
		appName: appName,
		logger:  logger.WithField("backend", gfx.DeviceTypeVulkan.String()),
	}
}

// LoadLibrary loads the Vulkan loader of the system
func (b *Backend) LoadLibrary() error {
	if b.loaded {
		return nil
	}
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
	}
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "vk.Init()")
	}
	b.loaded = true
	return nil
}

// EnumerateAdapters lists the physical devices supporting minVersion
func (b *Backend) EnumerateAdapters(minVersion gfx.Version) ([]gfx.AdapterInfo, error) {
	instance, err := b.createInstance(minVersion, gfx.ValidationDisabled)
	if err != nil {
		return nil, err
	}
	defer vk.DestroyInstance(instance, nil)

	gpus, err := physicalDevices(instance)
	if err != nil {
		return nil, err
	}

	infos := make([]gfx.AdapterInfo, len(gpus))
	for idx, gpu := range gpus {
		infos[idx] = adapterInfo(gpu)
	}

	indices := supportedAdapters(infos, minVersion)
	adapters := make([]gfx.AdapterInfo, 0, len(indices))
	for _, idx := range indices {
		adapters = append(adapters, infos[idx])
	}
	if skipped := len(infos) - len(adapters); skipped > 0 {
		b.logger.Infof("Skipped %d adapters below Vulkan %s", skipped, minVersion)
	}
	return adapters, nil
}

func (b *Backend) createInstance(version gfx.Version, validation gfx.ValidationLevel) (vk.Instance, error) {
	available, err := instanceExtensions()
	if err != nil {
		return nil, err
	}
	extensions := []string{vk.KhrSurfaceExtensionName}
	for _, ext := range platformSurfaceExtensions {
		if containsString(available, ext) {
			extensions = append(extensions, ext)
		}
	}

	var layers []string
	if validation != gfx.ValidationDisabled {
		if layer, ok := validationLayer(); ok {
			layers = append(layers, layer)
		} else {
			b.logger.Warn("Vulkan validation layers are not installed, validation is disabled")
		}
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         vk.MakeVersion(int(version.Major), int(version.Minor), 0),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PApplicationName:   safeString(b.appName),
		PEngineName:        safeString(b.appName),
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateInstance()")
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "vk.InitInstance()")
	}
	return instance, nil
}

func instanceExtensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceExtensionProperties()")
	}
	list := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, list)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceExtensionProperties()")
	}

	names := make([]string, 0, len(list))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// validationLayer returns the best validation layer installed
func validationLayer() (string, bool) {
	var count uint32
	if vk.EnumerateInstanceLayerProperties(&count, nil) != vk.Success {
		return "", false
	}
	list := make([]vk.LayerProperties, count)
	if vk.EnumerateInstanceLayerProperties(&count, list) != vk.Success {
		return "", false
	}

	var names []string
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	for _, layer := range validationLayers {
		if containsString(names, layer) {
			return layer, true
		}
	}
	return "", false
}
