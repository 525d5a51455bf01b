// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import glm "github.com/go-gl/mathgl/mgl32"

// Backend is the contract each rendering API implements. Backends are
// registered in a Backends table keyed by their device type.
type Backend interface {
	// LoadLibrary loads the runtime library of the API
	LoadLibrary() error

	// EnumerateAdapters lists adapters supporting at least minVersion
	EnumerateAdapters(minVersion Version) ([]AdapterInfo, error)

	// CreateDeviceAndContexts creates the device on the adapter chosen in
	// ci, with one immediate context per entry of ci.ImmediateContexts
	CreateDeviceAndContexts(ci EngineCreateInfo) (Device, []DeviceContext, error)

	// CreateSwapChain creates a swap chain for window bound to context
	CreateSwapChain(device Device, context DeviceContext, desc SwapChainDesc, window NativeWindow) (NativeSwapChain, error)
}

// Backends maps device types to their implementation
type Backends map[DeviceType]Backend

// Device is a created logical device
type Device interface {
	Type() DeviceType
	APIVersion() Version
	Adapter() AdapterInfo
	Release()
}

// DeviceContext records and submits commands to one queue
type DeviceContext interface {
	Desc() ContextCreateInfo
	SetRenderTargets(color, depth TextureView)
	ClearRenderTarget(view TextureView, color glm.Vec4)
	ClearDepthStencil(view TextureView, depth float32, stencil uint8)
	Flush()
	Release()
}

// TextureView is a backend view into a swap chain buffer
type TextureView interface {
	Size() (width, height uint32)
}

// NativeSwapChain is the backend side of a swap chain
type NativeSwapChain interface {
	Desc() SwapChainDesc
	CurrentBackBuffer() TextureView
	DepthBuffer() TextureView
	Present(syncInterval uint32) error
	Resize(width, height uint32, transform SurfaceTransform) error
	Release()
}

// TextureFormat is the pixel format of swap chain buffers
type TextureFormat int

// Texture formats
const (
	FormatUnknown TextureFormat = iota
	FormatRGBA8Unorm
	FormatRGBA8UnormSRGB
	FormatBGRA8Unorm
	FormatBGRA8UnormSRGB
	FormatD16Unorm
	FormatD24UnormS8Uint
	FormatD32Float
)

// SurfaceTransform is the orientation of the presented image
type SurfaceTransform int

// Surface transforms
const (
	SurfaceTransformOptimal SurfaceTransform = iota
	SurfaceTransformIdentity
)

// SwapChainDesc describes a swap chain. Zero sizes mean the window size.
type SwapChainDesc struct {
	Width          uint32
	Height         uint32
	ColorFormat    TextureFormat
	DepthFormat    TextureFormat
	BufferCount    uint32
	IsPrimary      bool
	DefaultDepth   float32
	DefaultStencil uint8
	PreTransform   SurfaceTransform
}

// DefaultSwapChainDesc is the description used for every window
func DefaultSwapChainDesc() SwapChainDesc {
	return SwapChainDesc{
		ColorFormat:  FormatRGBA8UnormSRGB,
		DepthFormat:  FormatD32Float,
		BufferCount:  swapChainBufferCount,
		IsPrimary:    true,
		DefaultDepth: 1.0,
	}
}

// Subsystem is the windowing system a native window belongs to
type Subsystem int

// Windowing subsystems
const (
	SubsystemUnknown Subsystem = iota
	SubsystemWindows
	SubsystemX11
	SubsystemWayland
	SubsystemCocoa
	SubsystemAndroid
	SubsystemUIKit
)

// NativeWindow holds the operating system handles of a window
type NativeWindow struct {
	Subsystem Subsystem

	// HWnd is the Win32 window handle
	HWnd uintptr

	// Display and WindowID identify an X11 window
	Display  uintptr
	WindowID uintptr

	// View is a Cocoa or UIKit window
	View uintptr

	// AWindow is an Android native window
	AWindow uintptr

	// Provider is the windowing library object behind the handles,
	// backends that create surfaces or contexts through it type assert
	// it to the interface they need.
	Provider interface{}
}

// NativeWindow returns the window itself, so a NativeWindow is a Surface
func (w NativeWindow) NativeWindow(DeviceType) (NativeWindow, error) {
	return w, nil
}

// Surface resolves the native window a backend renders into. Windowing
// layers which need per API window flags may rebuild the window here.
type Surface interface {
	NativeWindow(deviceType DeviceType) (NativeWindow, error)
}
