// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package platform creates windows and handles input with SDL
package platform

import (
	"path/filepath"

	"github.com/devblok/sage/gfx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// SDL is the initialized SDL library. Only one may exist at a time and
// it must be used from the thread that created it.
type SDL struct {
	logger logrus.FieldLogger
}

// Init initializes SDL video and events
func Init(logger logrus.FieldLogger) (*SDL, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	sdl.SetHint(sdl.HINT_VIDEO_MINIMIZE_ON_FOCUS_LOSS, "0")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.Wrap(err, "sdl.Init()")
	}

	var version sdl.Version
	sdl.GetVersion(&version)
	logger.Infof("Initialized SDL %d.%d.%d", version.Major, version.Minor, version.Patch)

	return &SDL{logger: logger}, nil
}

// Quit shuts SDL down. Every window must be destroyed before.
func (s *SDL) Quit() {
	sdl.Quit()
}

// BasePath returns the directory of the executable
func (s *SDL) BasePath() string {
	if path := sdl.GetBasePath(); path != "" {
		return path
	}
	return "." + string(filepath.Separator)
}

// PrefPath returns the per user writable directory of the application
func (s *SDL) PrefPath(org, app string) string {
	if path := sdl.GetPrefPath(org, app); path != "" {
		return path
	}
	s.logger.Warn("Failed to retrieve the user directory, using the working directory")
	return "." + string(filepath.Separator)
}

// DesktopDisplayMode implements gfx.Platform
func (s *SDL) DesktopDisplayMode(display int) (gfx.DisplayMode, error) {
	mode, err := sdl.GetDesktopDisplayMode(display)
	if err != nil {
		return gfx.DisplayMode{}, errors.Wrap(err, "sdl.GetDesktopDisplayMode()")
	}
	return gfx.DisplayMode{
		Width:       int(mode.W),
		Height:      int(mode.H),
		RefreshRate: int(mode.RefreshRate),
	}, nil
}

// CreateWindow implements gfx.Platform
func (s *SDL) CreateWindow(desc gfx.WindowDesc) (gfx.Window, error) {
	w := &Window{
		desc:   desc,
		logger: s.logger,
	}
	if err := w.create(sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, int32(desc.Width), int32(desc.Height), apiFlag(desc.DeviceType)); err != nil {
		return nil, err
	}
	return w, nil
}
