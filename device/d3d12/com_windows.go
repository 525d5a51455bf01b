// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package d3d12

import (
	"math"
	"syscall"
	"unsafe"

	"github.com/devblok/sage/device/dxgi"
	"golang.org/x/sys/windows"
)

var (
	d3d12DLL = windows.NewLazySystemDLL("d3d12.dll")

	procCreateDevice      = d3d12DLL.NewProc("D3D12CreateDevice")
	procGetDebugInterface = d3d12DLL.NewProc("D3D12GetDebugInterface")
)

func guid(d1 uint32, d2, d3 uint16, d4 ...byte) windows.GUID {
	g := windows.GUID{Data1: d1, Data2: d2, Data3: d3}
	copy(g.Data4[:], d4)
	return g
}

var (
	iidDevice           = guid(0x189819f1, 0x1db6, 0x4b57, 0xbe, 0x54, 0x18, 0x21, 0x33, 0x9b, 0x85, 0xf7)
	iidCommandQueue     = guid(0x0ec870a6, 0x5d7e, 0x4c22, 0x8c, 0xfc, 0x5b, 0xaa, 0xe0, 0x76, 0x16, 0xed)
	iidCommandAllocator = guid(0x6102dee4, 0xaf59, 0x4b09, 0xb9, 0x99, 0xb4, 0x4d, 0x73, 0xf0, 0x9b, 0x24)
	iidCommandList      = guid(0x5b160d0f, 0xac1b, 0x4185, 0x8b, 0xa8, 0xb3, 0xae, 0x42, 0xa5, 0xa4, 0x55)
	iidDescriptorHeap   = guid(0x8efb471d, 0x616c, 0x4f49, 0x90, 0xf7, 0x12, 0x7b, 0xb7, 0x63, 0xfa, 0x51)
	iidResource         = guid(0x696442be, 0xa72e, 0x4059, 0xbc, 0x79, 0x5b, 0x5c, 0x98, 0x04, 0x0f, 0xad)
	iidFence            = guid(0x0a753dcf, 0xc4d8, 0x4b91, 0xad, 0xf6, 0xbe, 0x5a, 0x60, 0xd9, 0x5a, 0x76)
	iidDebug            = guid(0x344488b7, 0x6846, 0x474b, 0xb9, 0x89, 0xf0, 0x27, 0x44, 0x82, 0x45, 0xe0)
	iidDebug1           = guid(0xaffaa4ca, 0x63fe, 0x4d8e, 0xb8, 0xad, 0x15, 0x90, 0x00, 0xaf, 0x43, 0x04)
)

const (
	descriptorHeapTypeRTV = 2
	descriptorHeapTypeDSV = 3

	heapTypeDefault = 1

	resourceDimensionTexture2D = 3
	resourceFlagDepthStencil   = 0x2

	resourceStatePresent      = 0
	resourceStateRenderTarget = 0x4
	resourceStateDepthWrite   = 0x10

	resourceBarrierTypeTransition = 0
	resourceBarrierAllSubresource = 0xffffffff

	clearFlagDepth   = 0x1
	clearFlagStencil = 0x2
)

type commandQueueDesc struct {
	Type     uint32
	Priority int32
	Flags    uint32
	NodeMask uint32
}

type descriptorHeapDesc struct {
	Type           uint32
	NumDescriptors uint32
	Flags          uint32
	NodeMask       uint32
}

type heapProperties struct {
	Type                 uint32
	CPUPageProperty      uint32
	MemoryPoolPreference uint32
	CreationNodeMask     uint32
	VisibleNodeMask      uint32
}

type resourceDesc struct {
	Dimension        uint32
	Alignment        uint64
	Width            uint64
	Height           uint32
	DepthOrArraySize uint16
	MipLevels        uint16
	Format           uint32
	SampleDesc       dxgi.SampleDesc
	Layout           uint32
	Flags            uint32
}

// depthClearValue is D3D12_CLEAR_VALUE holding a depth stencil value
type depthClearValue struct {
	Format  uint32
	Depth   float32
	Stencil uint8
	_       [11]byte
}

type resourceBarrier struct {
	Type        uint32
	Flags       uint32
	Resource    uintptr
	Subresource uint32
	StateBefore uint32
	StateAfter  uint32
}

type debug struct {
	Vtbl *struct {
		dxgi.UnknownVtbl
		EnableDebugLayer            uintptr
		SetEnableGPUBasedValidation uintptr
	}
}

type d3dDevice struct {
	Vtbl *struct {
		dxgi.UnknownVtbl
		_                                [4]uintptr // ID3D12Object
		GetNodeCount                     uintptr
		CreateCommandQueue               uintptr
		CreateCommandAllocator           uintptr
		_                                [2]uintptr // pipeline states
		CreateCommandList                uintptr
		CheckFeatureSupport              uintptr
		CreateDescriptorHeap             uintptr
		GetDescriptorHandleIncrementSize uintptr
		_                                [4]uintptr // CreateRootSignature to CreateUnorderedAccessView
		CreateRenderTargetView           uintptr
		CreateDepthStencilView           uintptr
		_                                [5]uintptr // CreateSampler to GetCustomHeapProperties
		CreateCommittedResource          uintptr
		_                                [8]uintptr // CreateHeap to Evict
		CreateFence                      uintptr
	}
}

type commandQueue struct {
	Vtbl *struct {
		dxgi.UnknownVtbl
		_                   [7]uintptr // ID3D12DeviceChild to CopyTileMappings
		ExecuteCommandLists uintptr
		_                   [3]uintptr // SetMarker, BeginEvent, EndEvent
		Signal              uintptr
	}
}

type commandAllocator struct {
	Vtbl *struct {
		dxgi.UnknownVtbl
		_     [5]uintptr // ID3D12DeviceChild
		Reset uintptr
	}
}

type commandList struct {
	Vtbl *struct {
		dxgi.UnknownVtbl
		_                     [6]uintptr // ID3D12DeviceChild and GetType
		Close                 uintptr
		Reset                 uintptr
		_                     [15]uintptr // ClearState to SetPipelineState
		ResourceBarrier       uintptr
		_                     [19]uintptr // ExecuteBundle to SOSetTargets
		OMSetRenderTargets    uintptr
		ClearDepthStencilView uintptr
		ClearRenderTargetView uintptr
	}
}

type descriptorHeap struct {
	Vtbl *struct {
		dxgi.UnknownVtbl
		_                                  [6]uintptr // ID3D12DeviceChild and GetDesc
		GetCPUDescriptorHandleForHeapStart uintptr
	}
}

type fence struct {
	Vtbl *struct {
		dxgi.UnknownVtbl
		_                    [5]uintptr // ID3D12DeviceChild
		GetCompletedValue    uintptr
		SetEventOnCompletion uintptr
	}
}

// enableDebugLayer turns on the debug layer, level 2 adds GPU based
// validation. It has to run before the device is created.
func enableDebugLayer(gpuValidation bool) error {
	var dbg *debug
	hr, _, _ := procGetDebugInterface.Call(uintptr(unsafe.Pointer(&iidDebug)), uintptr(unsafe.Pointer(&dbg)))
	if dxgi.Failed(hr) {
		return dxgi.Error{Op: "D3D12GetDebugInterface", Code: uint32(hr)}
	}
	defer dxgi.Release(unsafe.Pointer(dbg))
	syscall.SyscallN(dbg.Vtbl.EnableDebugLayer, uintptr(unsafe.Pointer(dbg)))

	if gpuValidation {
		dbg1, err := dxgi.QueryInterface(unsafe.Pointer(dbg), &iidDebug1)
		if err != nil {
			return err
		}
		defer dxgi.Release(dbg1)
		syscall.SyscallN((*debug)(dbg1).Vtbl.SetEnableGPUBasedValidation, uintptr(dbg1), 1)
	}
	return nil
}

// createDevice creates a device on adapter, a nil out pointer only checks
// the adapter supports level
func createDevice(adapter *dxgi.Adapter, level uint32, out **d3dDevice) error {
	var iid *windows.GUID
	if out != nil {
		iid = &iidDevice
	}
	hr, _, _ := procCreateDevice.Call(
		uintptr(unsafe.Pointer(adapter)),
		uintptr(level),
		uintptr(unsafe.Pointer(iid)),
		uintptr(unsafe.Pointer(out)),
	)
	if dxgi.Failed(hr) {
		return dxgi.Error{Op: "D3D12CreateDevice", Code: uint32(hr)}
	}
	return nil
}

func (d *d3dDevice) createCommandQueue(desc *commandQueueDesc) (*commandQueue, error) {
	var queue *commandQueue
	err := dxgi.Call("ID3D12Device::CreateCommandQueue", d.Vtbl.CreateCommandQueue,
		uintptr(unsafe.Pointer(d)), uintptr(unsafe.Pointer(desc)),
		uintptr(unsafe.Pointer(&iidCommandQueue)), uintptr(unsafe.Pointer(&queue)))
	return queue, err
}

func (d *d3dDevice) createCommandAllocator(listType uint32) (*commandAllocator, error) {
	var allocator *commandAllocator
	err := dxgi.Call("ID3D12Device::CreateCommandAllocator", d.Vtbl.CreateCommandAllocator,
		uintptr(unsafe.Pointer(d)), uintptr(listType),
		uintptr(unsafe.Pointer(&iidCommandAllocator)), uintptr(unsafe.Pointer(&allocator)))
	return allocator, err
}

// createCommandList creates a list in the recording state
func (d *d3dDevice) createCommandList(listType uint32, allocator *commandAllocator) (*commandList, error) {
	var list *commandList
	err := dxgi.Call("ID3D12Device::CreateCommandList", d.Vtbl.CreateCommandList,
		uintptr(unsafe.Pointer(d)), 0, uintptr(listType), uintptr(unsafe.Pointer(allocator)), 0,
		uintptr(unsafe.Pointer(&iidCommandList)), uintptr(unsafe.Pointer(&list)))
	return list, err
}

func (d *d3dDevice) createDescriptorHeap(heapType, count uint32) (*descriptorHeap, error) {
	desc := descriptorHeapDesc{Type: heapType, NumDescriptors: count}
	var heap *descriptorHeap
	err := dxgi.Call("ID3D12Device::CreateDescriptorHeap", d.Vtbl.CreateDescriptorHeap,
		uintptr(unsafe.Pointer(d)), uintptr(unsafe.Pointer(&desc)),
		uintptr(unsafe.Pointer(&iidDescriptorHeap)), uintptr(unsafe.Pointer(&heap)))
	return heap, err
}

func (d *d3dDevice) descriptorHandleIncrementSize(heapType uint32) uintptr {
	size, _, _ := syscall.SyscallN(d.Vtbl.GetDescriptorHandleIncrementSize, uintptr(unsafe.Pointer(d)), uintptr(heapType))
	return uintptr(uint32(size))
}

func (d *d3dDevice) createRenderTargetView(resource unsafe.Pointer, handle uintptr) {
	syscall.SyscallN(d.Vtbl.CreateRenderTargetView, uintptr(unsafe.Pointer(d)), uintptr(resource), 0, handle)
}

func (d *d3dDevice) createDepthStencilView(resource unsafe.Pointer, handle uintptr) {
	syscall.SyscallN(d.Vtbl.CreateDepthStencilView, uintptr(unsafe.Pointer(d)), uintptr(resource), 0, handle)
}

// createDepthBuffer creates a committed depth texture in the depth write state
func (d *d3dDevice) createDepthBuffer(width, height, format uint32, depth float32, stencil uint8) (unsafe.Pointer, error) {
	props := heapProperties{Type: heapTypeDefault}
	desc := resourceDesc{
		Dimension:        resourceDimensionTexture2D,
		Width:            uint64(width),
		Height:           height,
		DepthOrArraySize: 1,
		MipLevels:        1,
		Format:           format,
		SampleDesc:       dxgi.SampleDesc{Count: 1},
		Flags:            resourceFlagDepthStencil,
	}
	clearValue := depthClearValue{Format: format, Depth: depth, Stencil: stencil}

	var resource unsafe.Pointer
	err := dxgi.Call("ID3D12Device::CreateCommittedResource", d.Vtbl.CreateCommittedResource,
		uintptr(unsafe.Pointer(d)), uintptr(unsafe.Pointer(&props)), 0, uintptr(unsafe.Pointer(&desc)),
		resourceStateDepthWrite, uintptr(unsafe.Pointer(&clearValue)),
		uintptr(unsafe.Pointer(&iidResource)), uintptr(unsafe.Pointer(&resource)))
	return resource, err
}

func (d *d3dDevice) createFence() (*fence, error) {
	var f *fence
	err := dxgi.Call("ID3D12Device::CreateFence", d.Vtbl.CreateFence,
		uintptr(unsafe.Pointer(d)), 0, 0, uintptr(unsafe.Pointer(&iidFence)), uintptr(unsafe.Pointer(&f)))
	return f, err
}

func (q *commandQueue) executeCommandList(list *commandList) {
	lists := [1]*commandList{list}
	syscall.SyscallN(q.Vtbl.ExecuteCommandLists, uintptr(unsafe.Pointer(q)), 1, uintptr(unsafe.Pointer(&lists[0])))
}

func (q *commandQueue) signal(f *fence, value uint64) error {
	return dxgi.Call("ID3D12CommandQueue::Signal", q.Vtbl.Signal,
		uintptr(unsafe.Pointer(q)), uintptr(unsafe.Pointer(f)), uintptr(value))
}

func (a *commandAllocator) reset() error {
	return dxgi.Call("ID3D12CommandAllocator::Reset", a.Vtbl.Reset, uintptr(unsafe.Pointer(a)))
}

func (l *commandList) close() error {
	return dxgi.Call("ID3D12GraphicsCommandList::Close", l.Vtbl.Close, uintptr(unsafe.Pointer(l)))
}

func (l *commandList) reset(allocator *commandAllocator) error {
	return dxgi.Call("ID3D12GraphicsCommandList::Reset", l.Vtbl.Reset,
		uintptr(unsafe.Pointer(l)), uintptr(unsafe.Pointer(allocator)), 0)
}

func (l *commandList) transition(resource unsafe.Pointer, before, after uint32) {
	barrier := resourceBarrier{
		Type:        resourceBarrierTypeTransition,
		Resource:    uintptr(resource),
		Subresource: resourceBarrierAllSubresource,
		StateBefore: before,
		StateAfter:  after,
	}
	syscall.SyscallN(l.Vtbl.ResourceBarrier, uintptr(unsafe.Pointer(l)), 1, uintptr(unsafe.Pointer(&barrier)))
}

func (l *commandList) omSetRenderTargets(rtv uintptr, dsv *uintptr) {
	rtvs := [1]uintptr{rtv}
	syscall.SyscallN(l.Vtbl.OMSetRenderTargets,
		uintptr(unsafe.Pointer(l)), 1, uintptr(unsafe.Pointer(&rtvs[0])), 0, uintptr(unsafe.Pointer(dsv)))
}

func (l *commandList) clearRenderTargetView(rtv uintptr, color *[4]float32) {
	syscall.SyscallN(l.Vtbl.ClearRenderTargetView,
		uintptr(unsafe.Pointer(l)), rtv, uintptr(unsafe.Pointer(color)), 0, 0)
}

func (l *commandList) clearDepthStencilView(dsv uintptr, depth float32, stencil uint8) {
	syscall.SyscallN(l.Vtbl.ClearDepthStencilView,
		uintptr(unsafe.Pointer(l)), dsv, clearFlagDepth|clearFlagStencil,
		uintptr(math.Float32bits(depth)), uintptr(stencil), 0, 0)
}

// cpuHandleStart returns the first CPU descriptor of the heap, the handle
// is returned through a hidden out parameter
func (h *descriptorHeap) cpuHandleStart() uintptr {
	var handle uintptr
	syscall.SyscallN(h.Vtbl.GetCPUDescriptorHandleForHeapStart, uintptr(unsafe.Pointer(h)), uintptr(unsafe.Pointer(&handle)))
	return handle
}

func (f *fence) completedValue() uint64 {
	value, _, _ := syscall.SyscallN(f.Vtbl.GetCompletedValue, uintptr(unsafe.Pointer(f)))
	return uint64(value)
}

func (f *fence) setEventOnCompletion(value uint64, event windows.Handle) error {
	return dxgi.Call("ID3D12Fence::SetEventOnCompletion", f.Vtbl.SetEventOnCompletion,
		uintptr(unsafe.Pointer(f)), uintptr(value), uintptr(event))
}
