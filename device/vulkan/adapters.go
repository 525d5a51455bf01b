// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"github.com/devblok/sage/gfx"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func physicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	gpus := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, gpus)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	return gpus[:deviceCount], nil
}

func queueFamilies(gpu vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, families)
	for idx := range families {
		families[idx].Deref()
	}
	return families
}

// adapterInfo describes a physical device, each queue family is one
// command queue that can host as many contexts as it has queues
func adapterInfo(gpu vk.PhysicalDevice) gfx.AdapterInfo {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &properties)
	properties.Deref()

	info := gfx.AdapterInfo{
		Description: vk.ToString(properties.DeviceName[:]),
		Type:        adapterType(properties.DeviceType),
		VendorID:    properties.VendorID,
		DeviceID:    properties.DeviceID,
		APIVersion:  apiVersion(properties.ApiVersion),
	}

	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(gpu, &memoryProperties)
	memoryProperties.Deref()
	for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
		memoryProperties.MemoryHeaps[iMem].Deref()
		heap := memoryProperties.MemoryHeaps[iMem]
		if heap.Flags&vk.MemoryHeapFlags(vk.MemoryHeapDeviceLocalBit) != 0 {
			info.DedicatedMemory += uint64(heap.Size)
		}
	}

	for _, family := range queueFamilies(gpu) {
		info.Queues = append(info.Queues, gfx.CommandQueueInfo{
			Type:              queueType(family.QueueFlags),
			MaxDeviceContexts: family.QueueCount,
		})
	}
	return info
}

// supportedAdapters returns the indices of the physical devices whose
// version is at least minVersion. Adapter ids handed out by
// EnumerateAdapters index this list.
func supportedAdapters(infos []gfx.AdapterInfo, minVersion gfx.Version) []int {
	var indices []int
	for idx, info := range infos {
		if info.APIVersion.AtLeast(minVersion) {
			indices = append(indices, idx)
		}
	}
	return indices
}
