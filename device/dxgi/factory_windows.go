// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package dxgi

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

var (
	dxgiDLL = windows.NewLazySystemDLL("dxgi.dll")

	procCreateDXGIFactory1 = dxgiDLL.NewProc("CreateDXGIFactory1")
)

var (
	iidFactory1 = windows.GUID{Data1: 0x770aae78, Data2: 0xf26f, Data3: 0x4dba, Data4: [8]byte{0xa8, 0x29, 0x25, 0x3c, 0x83, 0xd1, 0xb3, 0x87}}
)

// DXGI_MWA_NO_ALT_ENTER
const windowAssociationNoAltEnter = 2

// Load loads dxgi.dll
func Load() error {
	if err := dxgiDLL.Load(); err != nil {
		return errors.Wrap(err, "dxgi.dll")
	}
	return procCreateDXGIFactory1.Find()
}

// Factory is IDXGIFactory1
type Factory struct {
	Vtbl *struct {
		ObjectVtbl
		EnumAdapters          uintptr
		MakeWindowAssociation uintptr
		GetWindowAssociation  uintptr
		CreateSwapChain       uintptr
		CreateSoftwareAdapter uintptr
		EnumAdapters1         uintptr
		IsCurrent             uintptr
	}
}

// Adapter is IDXGIAdapter1
type Adapter struct {
	Vtbl *struct {
		ObjectVtbl
		EnumOutputs           uintptr
		GetDesc               uintptr
		CheckInterfaceSupport uintptr
		GetDesc1              uintptr
	}
}

// CreateFactory creates a DXGI factory
func CreateFactory() (*Factory, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	var factory *Factory
	hr, _, _ := procCreateDXGIFactory1.Call(
		uintptr(unsafe.Pointer(&iidFactory1)),
		uintptr(unsafe.Pointer(&factory)),
	)
	if Failed(hr) {
		return nil, Error{Op: "CreateDXGIFactory1", Code: uint32(hr)}
	}
	return factory, nil
}

// Release releases the factory
func (f *Factory) Release() {
	Release(unsafe.Pointer(f))
}

// EnumAdapters1 returns the adapter at index, ErrorNotFound past the last one
func (f *Factory) EnumAdapters1(index uint32) (*Adapter, error) {
	var adapter *Adapter
	if err := Call("IDXGIFactory1::EnumAdapters1", f.Vtbl.EnumAdapters1,
		uintptr(unsafe.Pointer(f)), uintptr(index), uintptr(unsafe.Pointer(&adapter))); err != nil {
		return nil, err
	}
	return adapter, nil
}

// Adapters lists all adapters in system order, the caller releases them
func (f *Factory) Adapters() ([]*Adapter, error) {
	var adapters []*Adapter
	for idx := uint32(0); ; idx++ {
		adapter, err := f.EnumAdapters1(idx)
		if e, ok := err.(Error); ok && e.Code == ErrorNotFound {
			return adapters, nil
		}
		if err != nil {
			for _, a := range adapters {
				a.Release()
			}
			return nil, err
		}
		adapters = append(adapters, adapter)
	}
}

// MakeWindowAssociation stops DXGI from handling Alt+Enter for hwnd, the
// window layer owns full screen switching
func (f *Factory) MakeWindowAssociation(hwnd uintptr) error {
	return Call("IDXGIFactory::MakeWindowAssociation", f.Vtbl.MakeWindowAssociation,
		uintptr(unsafe.Pointer(f)), hwnd, windowAssociationNoAltEnter)
}

// Desc1 returns the adapter description
func (a *Adapter) Desc1() (AdapterDesc1, error) {
	var desc AdapterDesc1
	err := Call("IDXGIAdapter1::GetDesc1", a.Vtbl.GetDesc1,
		uintptr(unsafe.Pointer(a)), uintptr(unsafe.Pointer(&desc)))
	return desc, err
}

// Release releases the adapter
func (a *Adapter) Release() {
	Release(unsafe.Pointer(a))
}
