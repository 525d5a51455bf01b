// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package d3d11 renders through Direct3D 11. The backend is only built on
// Windows, the feature level helpers everywhere.
package d3d11
