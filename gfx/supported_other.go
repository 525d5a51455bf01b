// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !windows && !darwin && (!linux || android)

package gfx

var supportedDeviceTypes = map[DeviceType]struct{}{}

const (
	defaultDeviceType    = DeviceTypeUndefined
	swapChainBufferCount = 2
)
