// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

var supportedDeviceTypes = map[DeviceType]struct{}{
	DeviceTypeD3D11:  {},
	DeviceTypeD3D12:  {},
	DeviceTypeGL:     {},
	DeviceTypeVulkan: {},
}

const (
	defaultDeviceType    = DeviceTypeD3D11
	swapChainBufferCount = 2
)
