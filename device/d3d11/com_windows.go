// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package d3d11

import (
	"math"
	"syscall"
	"unsafe"

	"github.com/devblok/sage/device/dxgi"
	"golang.org/x/sys/windows"
)

var (
	d3d11DLL = windows.NewLazySystemDLL("d3d11.dll")

	procCreateDevice = d3d11DLL.NewProc("D3D11CreateDevice")
)

var iidTexture2D = windows.GUID{Data1: 0x6f15aaf2, Data2: 0xd208, Data3: 0x4e89, Data4: [8]byte{0x9a, 0xb4, 0x48, 0x95, 0x35, 0xd3, 0x4f, 0x9c}}

const (
	sdkVersion = 7

	driverTypeUnknown = 0

	createDeviceDebug       = 0x2
	createDeviceBGRASupport = 0x20

	bindDepthStencil = 0x40

	clearDepth   = 0x1
	clearStencil = 0x2

	// DXGI_ERROR_SDK_COMPONENT_MISSING, the debug layer is not installed
	errorSDKComponentMissing = 0x887A002D
)

type texture2DDesc struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         uint32
	SampleDesc     dxgi.SampleDesc
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type viewport struct {
	TopLeftX float32
	TopLeftY float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

// d3dDevice is ID3D11Device
type d3dDevice struct {
	Vtbl *struct {
		dxgi.UnknownVtbl
		CreateBuffer              uintptr
		CreateTexture1D           uintptr
		CreateTexture2D           uintptr
		CreateTexture3D           uintptr
		CreateShaderResourceView  uintptr
		CreateUnorderedAccessView uintptr
		CreateRenderTargetView    uintptr
		CreateDepthStencilView    uintptr
		_                         [26]uintptr // CreateInputLayout to SetPrivateDataInterface
		GetFeatureLevel           uintptr
	}
}

// deviceContext is ID3D11DeviceContext
type deviceContext struct {
	Vtbl *struct {
		dxgi.UnknownVtbl
		_                     [30]uintptr // GetDevice to GSSetSamplers
		OMSetRenderTargets    uintptr
		_                     [10]uintptr // OMSetRenderTargetsAndUnorderedAccessViews to RSSetState
		RSSetViewports        uintptr
		_                     [5]uintptr // RSSetScissorRects to CopyStructureCount
		ClearRenderTargetView uintptr
		_                     [2]uintptr // ClearUnorderedAccessView
		ClearDepthStencilView uintptr
		_                     [56]uintptr // GenerateMips to CSGetConstantBuffers
		ClearState            uintptr
		Flush                 uintptr
	}
}

// createDevice creates a device on adapter, without out pointers it only
// checks the adapter supports one of levels
func createDevice(adapter *dxgi.Adapter, flags uint32, levels []uint32, dev **d3dDevice, ctx **deviceContext) (uint32, error) {
	var level uint32
	hr, _, _ := procCreateDevice.Call(
		uintptr(unsafe.Pointer(adapter)),
		driverTypeUnknown,
		0,
		uintptr(flags),
		uintptr(unsafe.Pointer(&levels[0])),
		uintptr(len(levels)),
		sdkVersion,
		uintptr(unsafe.Pointer(dev)),
		uintptr(unsafe.Pointer(&level)),
		uintptr(unsafe.Pointer(ctx)),
	)
	if dxgi.Failed(hr) {
		return 0, dxgi.Error{Op: "D3D11CreateDevice", Code: uint32(hr)}
	}
	return level, nil
}

func (d *d3dDevice) createTexture2D(desc *texture2DDesc) (unsafe.Pointer, error) {
	var texture unsafe.Pointer
	err := dxgi.Call("ID3D11Device::CreateTexture2D", d.Vtbl.CreateTexture2D,
		uintptr(unsafe.Pointer(d)), uintptr(unsafe.Pointer(desc)), 0, uintptr(unsafe.Pointer(&texture)))
	return texture, err
}

func (d *d3dDevice) createRenderTargetView(resource unsafe.Pointer) (unsafe.Pointer, error) {
	var view unsafe.Pointer
	err := dxgi.Call("ID3D11Device::CreateRenderTargetView", d.Vtbl.CreateRenderTargetView,
		uintptr(unsafe.Pointer(d)), uintptr(resource), 0, uintptr(unsafe.Pointer(&view)))
	return view, err
}

func (d *d3dDevice) createDepthStencilView(resource unsafe.Pointer) (unsafe.Pointer, error) {
	var view unsafe.Pointer
	err := dxgi.Call("ID3D11Device::CreateDepthStencilView", d.Vtbl.CreateDepthStencilView,
		uintptr(unsafe.Pointer(d)), uintptr(resource), 0, uintptr(unsafe.Pointer(&view)))
	return view, err
}

func (d *d3dDevice) featureLevel() uint32 {
	level, _, _ := syscall.SyscallN(d.Vtbl.GetFeatureLevel, uintptr(unsafe.Pointer(d)))
	return uint32(level)
}

func (c *deviceContext) omSetRenderTargets(rtv, dsv unsafe.Pointer) {
	views := [1]unsafe.Pointer{rtv}
	count := uintptr(1)
	if rtv == nil {
		count = 0
	}
	syscall.SyscallN(c.Vtbl.OMSetRenderTargets,
		uintptr(unsafe.Pointer(c)), count, uintptr(unsafe.Pointer(&views[0])), uintptr(dsv))
}

func (c *deviceContext) rsSetViewports(vp *viewport) {
	syscall.SyscallN(c.Vtbl.RSSetViewports, uintptr(unsafe.Pointer(c)), 1, uintptr(unsafe.Pointer(vp)))
}

func (c *deviceContext) clearRenderTargetView(rtv unsafe.Pointer, color *[4]float32) {
	syscall.SyscallN(c.Vtbl.ClearRenderTargetView,
		uintptr(unsafe.Pointer(c)), uintptr(rtv), uintptr(unsafe.Pointer(color)))
}

func (c *deviceContext) clearDepthStencilView(dsv unsafe.Pointer, flags uint32, depth float32, stencil uint8) {
	syscall.SyscallN(c.Vtbl.ClearDepthStencilView,
		uintptr(unsafe.Pointer(c)), uintptr(dsv), uintptr(flags), uintptr(math.Float32bits(depth)), uintptr(stencil))
}

func (c *deviceContext) clearState() {
	syscall.SyscallN(c.Vtbl.ClearState, uintptr(unsafe.Pointer(c)))
}

func (c *deviceContext) flush() {
	syscall.SyscallN(c.Vtbl.Flush, uintptr(unsafe.Pointer(c)))
}
