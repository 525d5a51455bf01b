// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

var supportedDeviceTypes = map[DeviceType]struct{}{
	DeviceTypeGL:     {},
	DeviceTypeVulkan: {},
}

const (
	defaultDeviceType    = DeviceTypeVulkan
	swapChainBufferCount = 3
)
