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

// Unknown is the IUnknown every COM object starts with
type Unknown struct {
	Vtbl *UnknownVtbl
}

// UnknownVtbl is the start of every COM virtual table
type UnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

// ObjectVtbl is the IDXGIObject part of every DXGI virtual table
type ObjectVtbl struct {
	UnknownVtbl
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetPrivateData          uintptr
	GetParent               uintptr
}

// Call invokes a COM method returning an HRESULT
func Call(op string, method uintptr, args ...uintptr) error {
	hr, _, _ := syscall.SyscallN(method, args...)
	if Failed(hr) {
		return Error{Op: op, Code: uint32(hr)}
	}
	return nil
}

// Release drops a reference to any COM object
func Release(obj unsafe.Pointer) {
	if obj == nil {
		return
	}
	syscall.SyscallN((*Unknown)(obj).Vtbl.Release, uintptr(obj))
}

// QueryInterface asks obj for another of its interfaces
func QueryInterface(obj unsafe.Pointer, iid *windows.GUID) (unsafe.Pointer, error) {
	var out unsafe.Pointer
	if err := Call("QueryInterface", (*Unknown)(obj).Vtbl.QueryInterface,
		uintptr(obj), uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&out))); err != nil {
		return nil, err
	}
	return out, nil
}
