// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/devblok/sage/console"
	"github.com/devblok/sage/core"
	"github.com/devblok/sage/gfx"
	"github.com/devblok/sage/platform"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	return logger
}

type fakeWindow struct {
	id        uint32
	title     string
	destroyed bool
}

func (w *fakeWindow) NativeWindow(gfx.DeviceType) (gfx.NativeWindow, error) {
	return gfx.NativeWindow{Provider: w}, nil
}

func (w *fakeWindow) Size() (int, int)      { return 800, 600 }
func (w *fakeWindow) Destroy()              { w.destroyed = true }
func (w *fakeWindow) ID() uint32            { return w.id }
func (w *fakeWindow) SetTitle(title string) { w.title = title }

type fakePlatform struct {
	windows []*fakeWindow
	events  []platform.Event
}

func (p *fakePlatform) DesktopDisplayMode(int) (gfx.DisplayMode, error) {
	return gfx.DisplayMode{Width: 1920, Height: 1080, RefreshRate: 60}, nil
}

func (p *fakePlatform) CreateWindow(desc gfx.WindowDesc) (gfx.Window, error) {
	w := &fakeWindow{id: uint32(len(p.windows) + 1), title: desc.Title}
	p.windows = append(p.windows, w)
	return w, nil
}

func (p *fakePlatform) PollEvents() []platform.Event {
	events := p.events
	p.events = nil
	return events
}

type fakeBackend struct {
	deviceType gfx.DeviceType
	swapchains []*fakeSwapChain
}

func (b *fakeBackend) LoadLibrary() error { return nil }

func (b *fakeBackend) EnumerateAdapters(minVersion gfx.Version) ([]gfx.AdapterInfo, error) {
	return []gfx.AdapterInfo{{
		Description: "Fake GPU",
		Type:        gfx.AdapterTypeDiscrete,
		APIVersion:  minVersion,
		Queues:      []gfx.CommandQueueInfo{{Type: gfx.QueueTypeGraphics, MaxDeviceContexts: 1}},
	}}, nil
}

func (b *fakeBackend) CreateDeviceAndContexts(ci gfx.EngineCreateInfo) (gfx.Device, []gfx.DeviceContext, error) {
	var contexts []gfx.DeviceContext
	for _, desc := range ci.ImmediateContexts {
		contexts = append(contexts, &fakeContext{desc: desc})
	}
	return &fakeDevice{deviceType: b.deviceType, adapter: ci.Adapter}, contexts, nil
}

func (b *fakeBackend) CreateSwapChain(device gfx.Device, context gfx.DeviceContext, desc gfx.SwapChainDesc, window gfx.NativeWindow) (gfx.NativeSwapChain, error) {
	sc := &fakeSwapChain{desc: desc, window: window.Provider.(*fakeWindow)}
	b.swapchains = append(b.swapchains, sc)
	return sc, nil
}

type fakeDevice struct {
	deviceType gfx.DeviceType
	adapter    gfx.AdapterInfo
}

func (d *fakeDevice) Type() gfx.DeviceType     { return d.deviceType }
func (d *fakeDevice) APIVersion() gfx.Version  { return gfx.APIVersion(d.deviceType) }
func (d *fakeDevice) Adapter() gfx.AdapterInfo { return d.adapter }
func (d *fakeDevice) Release()                 {}

type fakeView struct{}

func (fakeView) Size() (uint32, uint32) { return 800, 600 }

type fakeContext struct {
	desc gfx.ContextCreateInfo
}

func (c *fakeContext) Desc() gfx.ContextCreateInfo                       { return c.desc }
func (c *fakeContext) SetRenderTargets(color, depth gfx.TextureView)     {}
func (c *fakeContext) ClearRenderTarget(gfx.TextureView, glm.Vec4)       {}
func (c *fakeContext) ClearDepthStencil(gfx.TextureView, float32, uint8) {}
func (c *fakeContext) Flush()                                            {}
func (c *fakeContext) Release()                                          {}

type fakeSwapChain struct {
	desc     gfx.SwapChainDesc
	window   *fakeWindow
	presents int
	resizes  [][2]uint32
	released bool
}

func (s *fakeSwapChain) Desc() gfx.SwapChainDesc            { return s.desc }
func (s *fakeSwapChain) CurrentBackBuffer() gfx.TextureView { return fakeView{} }
func (s *fakeSwapChain) DepthBuffer() gfx.TextureView       { return fakeView{} }
func (s *fakeSwapChain) Release()                           { s.released = true }

func (s *fakeSwapChain) Present(uint32) error {
	s.presents++
	return nil
}

func (s *fakeSwapChain) Resize(width, height uint32, transform gfx.SurfaceTransform) error {
	s.resizes = append(s.resizes, [2]uint32{width, height})
	return nil
}

type fixture struct {
	engine   *core.Engine
	console  *console.Console
	platform *fakePlatform
	backend  *fakeBackend
	path     string
}

func newFixture(t *testing.T) *fixture {
	deviceType := gfx.DefaultDeviceType()
	if deviceType == gfx.DeviceTypeUndefined {
		t.Skip("no backend is supported on this platform")
	}

	cfg := core.DefaultConfiguration
	cfg.StatsInterval = 0

	f := &fixture{
		platform: &fakePlatform{},
		backend:  &fakeBackend{deviceType: deviceType},
		path:     filepath.Join(t.TempDir(), cfg.ConfigFile),
	}
	f.console = console.New(f.path, quietLogger())
	f.engine = core.New(cfg, f.console, f.platform, gfx.Backends{deviceType: f.backend}, quietLogger())

	defaults, err := core.DefaultConfig()
	assert.NoError(t, err)
	assert.NoError(t, f.engine.LoadConfig(defaults))
	return f
}

func TestDefaultConfig(t *testing.T) {
	data, err := core.DefaultConfig()
	assert.NoError(t, err)
	assert.Contains(t, string(data), "RetryRDInit=true")
	assert.Contains(t, string(data), "FullScreenMode=windowed")
}

func TestEngineLoadConfig(t *testing.T) {
	f := newFixture(t)

	cvars := f.engine.CVars()
	assert.True(t, cvars.RetryRDInit.Bool())
	assert.Equal(t, int64(1280), cvars.ResolutionX.Int())
	assert.Equal(t, int64(720), cvars.ResolutionY.Int())
	assert.FileExists(t, f.path)
}

func TestEngineExec(t *testing.T) {
	f := newFixture(t)

	f.engine.Exec([]string{"set SyncInterval 0", "set NoSuchVariable 1"})
	assert.Equal(t, int64(0), f.engine.CVars().SyncInterval.Int())
}

func TestEngineStartFallsBack(t *testing.T) {
	f := newFixture(t)

	var other gfx.DeviceType
	for _, dt := range gfx.SupportedDeviceTypes() {
		if dt != f.backend.deviceType {
			other = dt
		}
	}
	if other == gfx.DeviceTypeUndefined {
		t.Skip("only one backend is supported on this platform")
	}

	assert.NoError(t, f.engine.CVars().RenderDevice.SetInt(int64(other)))
	assert.NoError(t, f.engine.Start())
	defer f.engine.Shutdown()

	assert.Equal(t, int64(f.backend.deviceType), f.engine.CVars().RenderDevice.Int())
	assert.False(t, f.engine.CVars().RenderDevice.IsModified(), "saving the resolved backend clears its modified flag")
	reloaded := console.New(f.path, quietLogger())
	var cvars gfx.CVars
	assert.NoError(t, reloaded.RegisterPersistent(&cvars))
	assert.NoError(t, reloaded.Reload(f.path, true))
	assert.Equal(t, f.backend.deviceType, cvars.DeviceType())
}

func TestEngineWindows(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.engine.Start())
	assert.Equal(t, 1, f.engine.Windows())

	primary := f.platform.windows[0]
	assert.Equal(t, core.DefaultConfiguration.Title, primary.title)

	f.platform.events = []platform.Event{{Type: platform.EventNewWindow, WindowID: primary.id}}
	assert.True(t, f.engine.HandleEvents())
	assert.Equal(t, 2, f.engine.Windows())
	assert.Len(t, f.backend.swapchains, 2)
	assert.False(t, f.backend.swapchains[1].desc.IsPrimary)
	derived := f.platform.windows[1]

	f.engine.Frame()
	for _, sc := range f.backend.swapchains {
		assert.Equal(t, 1, sc.presents)
	}

	assert.True(t, f.engine.HandleEvent(platform.Event{Type: platform.EventWindowResize, WindowID: derived.id, Width: 1024, Height: 768}))
	assert.Equal(t, [][2]uint32{{1024, 768}}, f.backend.swapchains[1].resizes)

	assert.True(t, f.engine.HandleEvent(platform.Event{Type: platform.EventWindowClose, WindowID: derived.id}))
	assert.Equal(t, 1, f.engine.Windows())
	assert.True(t, derived.destroyed)
	assert.True(t, f.backend.swapchains[1].released)
	assert.Nil(t, f.engine.Context(derived.id))

	assert.True(t, f.engine.HandleEvent(platform.Event{Type: platform.EventWindowClose, WindowID: 42}))
	assert.False(t, f.engine.HandleEvent(platform.Event{Type: platform.EventWindowClose, WindowID: primary.id}))
	assert.NotNil(t, f.engine.Context(primary.id))

	f.engine.Shutdown()
	assert.Equal(t, 0, f.engine.Windows())
	assert.True(t, primary.destroyed)
	assert.True(t, f.backend.swapchains[0].released)
}

func TestEngineQuit(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.engine.Start())
	defer f.engine.Shutdown()

	f.platform.events = []platform.Event{{Type: platform.EventQuit}}
	assert.False(t, f.engine.HandleEvents())
}

type fakePaths struct{}

func (fakePaths) BasePath() string                { return "/opt/sage" }
func (fakePaths) PrefPath(org, app string) string { return filepath.Join("/home", org, app) }

func TestPaths(t *testing.T) {
	cfg := core.DefaultConfiguration
	paths := core.ResolvePaths(fakePaths{}, cfg)

	assert.Equal(t, "/opt/sage", paths.Base)
	assert.Equal(t, filepath.Join("/home", "devblok", "sage", "config.cfg"), paths.ConfigPath(cfg))
	assert.Equal(t, filepath.Join("/home", "devblok", "sage", "sage.log"), paths.LogPath(cfg))
}
