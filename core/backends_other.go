// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !windows && !darwin && (!linux || android)

package core

import (
	"github.com/devblok/sage/gfx"
	"github.com/sirupsen/logrus"
)

// NewBackends returns an empty table, no backend runs on this platform
func NewBackends(cfg Configuration, logger logrus.FieldLogger) gfx.Backends {
	return gfx.Backends{}
}
