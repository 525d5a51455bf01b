// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package d3d12 renders through Direct3D 12. Each immediate context owns a
// command queue, so graphics, compute and copy work can overlap. The
// backend is only built on Windows.
package d3d12
