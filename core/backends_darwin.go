// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build darwin

package core

import (
	"github.com/devblok/sage/device/opengl"
	"github.com/devblok/sage/device/vulkan"
	"github.com/devblok/sage/gfx"
	"github.com/sirupsen/logrus"
)

// NewBackends creates the backends this platform links
func NewBackends(cfg Configuration, logger logrus.FieldLogger) gfx.Backends {
	return gfx.Backends{
		gfx.DeviceTypeGL:     opengl.New(logger),
		gfx.DeviceTypeVulkan: vulkan.New(cfg.Application, logger),
	}
}
