// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !windows && !darwin && (!linux || android)

package platform

import "github.com/devblok/sage/gfx"

var nativeSubsystems = map[uint32]gfx.Subsystem{}
