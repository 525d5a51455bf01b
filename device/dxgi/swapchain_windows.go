// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package dxgi

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Swap chain constants
const (
	UsageRenderTargetOutput = 1 << (1 + 4)
	SwapEffectFlipDiscard   = 4
)

var iidSwapChain3 = windows.GUID{Data1: 0x94d99bdb, Data2: 0xf1f8, Data3: 0x4ab0, Data4: [8]byte{0xb2, 0x36, 0x7d, 0xa0, 0x17, 0x0e, 0xda, 0xb1}}

// Rational is DXGI_RATIONAL
type Rational struct {
	Numerator   uint32
	Denominator uint32
}

// ModeDesc is DXGI_MODE_DESC
type ModeDesc struct {
	Width            uint32
	Height           uint32
	RefreshRate      Rational
	Format           uint32
	ScanlineOrdering uint32
	Scaling          uint32
}

// SampleDesc is DXGI_SAMPLE_DESC
type SampleDesc struct {
	Count   uint32
	Quality uint32
}

// SwapChainDesc is DXGI_SWAP_CHAIN_DESC
type SwapChainDesc struct {
	BufferDesc   ModeDesc
	SampleDesc   SampleDesc
	BufferUsage  uint32
	BufferCount  uint32
	OutputWindow uintptr
	Windowed     int32
	SwapEffect   uint32
	Flags        uint32
}

// SwapChain is IDXGISwapChain3
type SwapChain struct {
	Vtbl *struct {
		ObjectVtbl
		GetDevice           uintptr
		Present             uintptr
		GetBuffer           uintptr
		SetFullscreenState  uintptr
		GetFullscreenState  uintptr
		GetDesc             uintptr
		ResizeBuffers       uintptr
		ResizeTarget        uintptr
		GetContainingOutput uintptr
		GetFrameStatistics  uintptr
		GetLastPresentCount uintptr

		GetDesc1                 uintptr
		GetFullscreenDesc        uintptr
		GetHwnd                  uintptr
		GetCoreWindow            uintptr
		Present1                 uintptr
		IsTemporaryMonoSupported uintptr
		GetRestrictToOutput      uintptr
		SetBackgroundColor       uintptr
		GetBackgroundColor       uintptr
		SetRotation              uintptr
		GetRotation              uintptr

		SetSourceSize                 uintptr
		GetSourceSize                 uintptr
		SetMaximumFrameLatency        uintptr
		GetMaximumFrameLatency        uintptr
		GetFrameLatencyWaitableObject uintptr
		SetMatrixTransform            uintptr
		GetMatrixTransform            uintptr

		GetCurrentBackBufferIndex uintptr
		CheckColorSpaceSupport    uintptr
		SetColorSpace1            uintptr
		ResizeBuffers1            uintptr
	}
}

// CreateSwapChain creates a flip model swap chain for hwnd. device is the
// Direct3D 11 device or the Direct3D 12 command queue presenting into it.
func (f *Factory) CreateSwapChain(device unsafe.Pointer, hwnd uintptr, width, height, bufferCount, format uint32) (*SwapChain, error) {
	desc := SwapChainDesc{
		BufferDesc: ModeDesc{
			Width:  width,
			Height: height,
			Format: format,
		},
		SampleDesc:   SampleDesc{Count: 1},
		BufferUsage:  UsageRenderTargetOutput,
		BufferCount:  bufferCount,
		OutputWindow: hwnd,
		Windowed:     1,
		SwapEffect:   SwapEffectFlipDiscard,
	}

	var legacy unsafe.Pointer
	if err := Call("IDXGIFactory::CreateSwapChain", f.Vtbl.CreateSwapChain,
		uintptr(unsafe.Pointer(f)), uintptr(device), uintptr(unsafe.Pointer(&desc)), uintptr(unsafe.Pointer(&legacy))); err != nil {
		return nil, err
	}
	defer Release(legacy)

	swapchain, err := QueryInterface(legacy, &iidSwapChain3)
	if err != nil {
		return nil, err
	}
	if err := f.MakeWindowAssociation(hwnd); err != nil {
		Release(swapchain)
		return nil, err
	}
	return (*SwapChain)(swapchain), nil
}

// FactoryOf returns the factory that created an adapter
func FactoryOf(adapter *Adapter) (*Factory, error) {
	var factory *Factory
	if err := Call("IDXGIObject::GetParent", adapter.Vtbl.GetParent,
		uintptr(unsafe.Pointer(adapter)), uintptr(unsafe.Pointer(&iidFactory1)), uintptr(unsafe.Pointer(&factory))); err != nil {
		return nil, err
	}
	return factory, nil
}

// Present queues the back buffer, an occluded window is not an error
func (s *SwapChain) Present(syncInterval uint32) error {
	return Call("IDXGISwapChain::Present", s.Vtbl.Present,
		uintptr(unsafe.Pointer(s)), uintptr(SyncInterval(syncInterval)), 0)
}

// Buffer returns buffer index as the interface iid
func (s *SwapChain) Buffer(index uint32, iid *windows.GUID) (unsafe.Pointer, error) {
	var buffer unsafe.Pointer
	if err := Call("IDXGISwapChain::GetBuffer", s.Vtbl.GetBuffer,
		uintptr(unsafe.Pointer(s)), uintptr(index), uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&buffer))); err != nil {
		return nil, err
	}
	return buffer, nil
}

// Desc returns the current swap chain description
func (s *SwapChain) Desc() (SwapChainDesc, error) {
	var desc SwapChainDesc
	err := Call("IDXGISwapChain::GetDesc", s.Vtbl.GetDesc,
		uintptr(unsafe.Pointer(s)), uintptr(unsafe.Pointer(&desc)))
	return desc, err
}

// ResizeBuffers resizes all buffers, no buffer may be referenced
func (s *SwapChain) ResizeBuffers(bufferCount, width, height, format uint32) error {
	return Call("IDXGISwapChain::ResizeBuffers", s.Vtbl.ResizeBuffers,
		uintptr(unsafe.Pointer(s)), uintptr(bufferCount), uintptr(width), uintptr(height), uintptr(format), 0)
}

// CurrentBackBufferIndex returns the buffer the next frame renders into
func (s *SwapChain) CurrentBackBufferIndex() uint32 {
	index, _, _ := syscall.SyscallN(s.Vtbl.GetCurrentBackBufferIndex, uintptr(unsafe.Pointer(s)))
	return uint32(index)
}

// Release releases the swap chain
func (s *SwapChain) Release() {
	Release(unsafe.Pointer(s))
}
