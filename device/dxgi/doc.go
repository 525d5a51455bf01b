// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package dxgi wraps the DirectX Graphics Infrastructure shared by the
// Direct3D backends: COM calls, adapter enumeration and swap chains.
// Everything calling into the system is only built on Windows.
package dxgi
