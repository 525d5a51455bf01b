// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/sage/console"
	"github.com/devblok/sage/gfx"
	"github.com/devblok/sage/platform"
	"github.com/devblok/sage/timer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Platform is the windowing system the engine runs on
type Platform interface {
	gfx.Platform
	PollEvents() []platform.Event
}

// identified windows report the id their events carry
type identified interface {
	ID() uint32
}

type titled interface {
	SetTitle(title string)
}

// window is an open engine window with its own volatile variables
type window struct {
	id      uint32
	title   string
	context console.ContextID
	cvars   *gfx.CVars
	gfx     *gfx.Context
}

// Engine owns the windows and renders into them
type Engine struct {
	cfg      Configuration
	console  *console.Console
	platform Platform
	backends gfx.Backends
	logger   logrus.FieldLogger

	cvars   gfx.CVars
	windows map[uint32]*window
	order   []uint32
	primary *window
	created int

	timer *timer.Timer
}

// New creates an engine. Nothing is opened until Start.
func New(cfg Configuration, con *console.Console, p Platform, backends gfx.Backends, logger logrus.FieldLogger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	t := timer.New()
	t.SetInterval(cfg.StatsInterval)
	return &Engine{
		cfg:      cfg,
		console:  con,
		platform: p,
		backends: backends,
		logger:   logger,
		windows:  make(map[uint32]*window),
		timer:    t,
	}
}

// LoadConfig registers the engine variables, brings the config file in
// sync using defaults for a new one and applies environment overrides.
func (e *Engine) LoadConfig(defaults []byte) error {
	if err := e.console.RegisterPersistent(&e.cvars); err != nil {
		return errors.Wrap(err, "failed to register graphics variables")
	}
	if err := e.console.SetDefaults(defaults); err != nil {
		return err
	}
	if err := e.console.SyncWithFile(); err != nil {
		return err
	}
	e.console.ApplyEnvironment(e.cfg.EnvPrefix)
	return nil
}

// Exec runs console commands against the persistent variables
func (e *Engine) Exec(commands []string) {
	for _, line := range commands {
		out, err := e.console.Exec(line)
		if err != nil {
			e.logger.WithError(err).Errorf("Command failed: %s", line)
			continue
		}
		if out != "" {
			e.logger.Info(out)
		}
	}
}

// CVars returns the persistent graphics variables
func (e *Engine) CVars() *gfx.CVars {
	return &e.cvars
}

// Start opens the primary window and initializes graphics for it.
// The backend it ends up with is saved as the configured one.
func (e *Engine) Start() error {
	w, err := e.open(e.cfg.Title, nil)
	if err != nil {
		return err
	}
	e.primary = w
	e.console.FinishInit()

	chosen := w.cvars.RenderDevice.Int()
	if e.cvars.RenderDevice.Int() != chosen {
		if err := e.cvars.RenderDevice.SetInt(chosen); err != nil {
			e.logger.WithError(err).Warn("Failed to store render device")
		} else if err := e.console.Save(e.console.Path()); err != nil {
			e.logger.WithError(err).Warn("Failed to save configuration")
		}
	}
	return nil
}

// open creates a window context, derived from base when given
func (e *Engine) open(title string, base *window) (*window, error) {
	id := e.console.CreateContext()
	cvars := &gfx.CVars{}
	if err := e.console.RegisterVolatile(id, cvars); err != nil {
		e.console.DestroyContext(id)
		return nil, errors.Wrap(err, "failed to register window variables")
	}

	var (
		ctx *gfx.Context
		err error
	)
	if base == nil {
		ctx, err = gfx.NewContext(title, cvars, e.platform, e.backends, e.logger)
	} else {
		ctx, err = gfx.NewDerivedContext(base.gfx, title, cvars, e.platform)
	}
	if err != nil {
		e.console.DestroyContext(id)
		return nil, err
	}

	w := &window{
		title:   title,
		context: id,
		cvars:   cvars,
		gfx:     ctx,
	}
	if win, ok := ctx.Window().(identified); ok {
		w.id = win.ID()
	}
	e.windows[w.id] = w
	e.order = append(e.order, w.id)
	e.created++
	e.logger.Infof("Opened window %d: %s", w.id, title)
	return w, nil
}

func (e *Engine) close(w *window) {
	w.gfx.Destroy()
	e.console.DestroyContext(w.context)
	delete(e.windows, w.id)
	for idx, id := range e.order {
		if id == w.id {
			e.order = append(e.order[:idx], e.order[idx+1:]...)
			break
		}
	}
	e.logger.Infof("Closed window %d", w.id)
}

// Windows returns the number of open windows
func (e *Engine) Windows() int {
	return len(e.windows)
}

// Context returns the graphics context of the window with id
func (e *Engine) Context(id uint32) *gfx.Context {
	if w, ok := e.windows[id]; ok {
		return w.gfx
	}
	return nil
}

// HandleEvents polls and handles platform events, it returns false once
// the engine should stop
func (e *Engine) HandleEvents() bool {
	for _, event := range e.platform.PollEvents() {
		if !e.HandleEvent(event) {
			return false
		}
	}
	return true
}

// HandleEvent reacts to one platform event, it returns false once the
// engine should stop
func (e *Engine) HandleEvent(event platform.Event) bool {
	switch event.Type {
	case platform.EventQuit:
		return false
	case platform.EventWindowClose:
		w, ok := e.windows[event.WindowID]
		if !ok {
			break
		}
		if w == e.primary {
			return false
		}
		e.close(w)
	case platform.EventWindowResize:
		if w, ok := e.windows[event.WindowID]; ok {
			if err := w.gfx.Resize(event.Width, event.Height); err != nil {
				e.logger.WithError(err).Errorf("Failed to resize window %d", w.id)
			}
		}
	case platform.EventNewWindow:
		title := fmt.Sprintf("%s #%d", e.cfg.Title, e.created+1)
		if _, err := e.open(title, e.primary); err != nil {
			e.logger.WithError(err).Error("Failed to open a new window")
		}
	}
	return true
}

// Frame clears and presents every window
func (e *Engine) Frame() {
	for _, id := range e.order {
		w := e.windows[id]
		w.gfx.Clear()
		if err := w.gfx.Present(); err != nil {
			e.logger.WithError(err).Errorf("Failed to present window %d", w.id)
		}
	}

	if e.timer.Update() {
		stats := e.timer.Stats()
		e.logger.Debugf("Frame time: %s", stats)
		for _, w := range e.windows {
			if win, ok := w.gfx.Window().(titled); ok {
				win.SetTitle(fmt.Sprintf("%s [%s] %s", w.title, w.gfx.Manager().DeviceType(), stats))
			}
		}
	}
}

// Shutdown closes every window, derived ones first, and saves the
// configuration
func (e *Engine) Shutdown() {
	for idx := len(e.order) - 1; idx >= 0; idx-- {
		if w := e.windows[e.order[idx]]; w != e.primary {
			e.close(w)
		}
	}
	if e.primary != nil {
		e.close(e.primary)
		e.primary = nil
	}

	if err := e.console.Save(e.console.Path()); err != nil {
		e.logger.WithError(err).Warn("Failed to save configuration")
	}
}
