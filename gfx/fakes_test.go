// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx_test

import (
	"errors"
	"io/ioutil"

	"github.com/devblok/sage/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	return logger
}

// ledger counts objects created and released by fake backends and keeps
// the order of releases
type ledger struct {
	devices, contexts, swapchains int
	released                      []string
	attempts                      []gfx.DeviceType
}

func (l *ledger) count(kind string) int {
	n := 0
	for _, r := range l.released {
		if r == kind {
			n++
		}
	}
	return n
}

type fakeBackend struct {
	deviceType gfx.DeviceType
	ledger     *ledger

	loadErr   error
	enumErr   error
	deviceErr error
	swapErr   error
	adapters  []gfx.AdapterInfo

	loads, enumerations, deviceCreations, swapCreations int
	lastCreateInfo                                      gfx.EngineCreateInfo
	lastSwapDesc                                        gfx.SwapChainDesc
	lastWindow                                          gfx.NativeWindow
}

func discreteAdapter() gfx.AdapterInfo {
	return gfx.AdapterInfo{
		Description: "Fake discrete GPU",
		Type:        gfx.AdapterTypeDiscrete,
		Queues: []gfx.CommandQueueInfo{
			{Type: gfx.QueueTypeGraphics, MaxDeviceContexts: 1},
			{Type: gfx.QueueTypeCompute, MaxDeviceContexts: 2},
			{Type: gfx.QueueTypeTransfer, MaxDeviceContexts: 2},
		},
	}
}

func newFakeBackend(t gfx.DeviceType, l *ledger) *fakeBackend {
	return &fakeBackend{
		deviceType: t,
		ledger:     l,
		adapters:   []gfx.AdapterInfo{discreteAdapter()},
	}
}

func (b *fakeBackend) LoadLibrary() error {
	b.loads++
	b.ledger.attempts = append(b.ledger.attempts, b.deviceType)
	return b.loadErr
}

func (b *fakeBackend) EnumerateAdapters(minVersion gfx.Version) ([]gfx.AdapterInfo, error) {
	b.enumerations++
	if b.enumErr != nil {
		return nil, b.enumErr
	}
	adapters := make([]gfx.AdapterInfo, len(b.adapters))
	for idx, adapter := range b.adapters {
		adapter.Queues = append([]gfx.CommandQueueInfo(nil), adapter.Queues...)
		adapter.APIVersion = minVersion
		adapters[idx] = adapter
	}
	return adapters, nil
}

func (b *fakeBackend) CreateDeviceAndContexts(ci gfx.EngineCreateInfo) (gfx.Device, []gfx.DeviceContext, error) {
	b.deviceCreations++
	b.lastCreateInfo = ci
	if b.deviceErr != nil {
		return nil, nil, b.deviceErr
	}

	b.ledger.devices++
	device := &fakeDevice{deviceType: b.deviceType, version: ci.APIVersion, adapter: ci.Adapter, ledger: b.ledger}
	var contexts []gfx.DeviceContext
	for _, desc := range ci.ImmediateContexts {
		b.ledger.contexts++
		contexts = append(contexts, &fakeContext{desc: desc, ledger: b.ledger})
	}
	return device, contexts, nil
}

func (b *fakeBackend) CreateSwapChain(device gfx.Device, context gfx.DeviceContext, desc gfx.SwapChainDesc, window gfx.NativeWindow) (gfx.NativeSwapChain, error) {
	b.swapCreations++
	b.lastSwapDesc = desc
	b.lastWindow = window
	if b.swapErr != nil {
		return nil, b.swapErr
	}
	b.ledger.swapchains++
	if desc.Width == 0 {
		desc.Width, desc.Height = 640, 480
	}
	return &fakeSwapChain{desc: desc, context: context, ledger: b.ledger}, nil
}

type fakeDevice struct {
	deviceType gfx.DeviceType
	version    gfx.Version
	adapter    gfx.AdapterInfo
	ledger     *ledger
}

func (d *fakeDevice) Type() gfx.DeviceType     { return d.deviceType }
func (d *fakeDevice) APIVersion() gfx.Version  { return d.version }
func (d *fakeDevice) Adapter() gfx.AdapterInfo { return d.adapter }
func (d *fakeDevice) Release()                 { d.ledger.released = append(d.ledger.released, "device") }

type fakeView struct {
	name          string
	width, height uint32
}

func (v *fakeView) Size() (uint32, uint32) { return v.width, v.height }

type fakeContext struct {
	desc   gfx.ContextCreateInfo
	ledger *ledger

	ops        []string
	clearColor glm.Vec4
	clearDepth float32
}

func (c *fakeContext) Desc() gfx.ContextCreateInfo { return c.desc }

func (c *fakeContext) SetRenderTargets(color, depth gfx.TextureView) {
	c.ops = append(c.ops, "bind "+color.(*fakeView).name+" "+depth.(*fakeView).name)
}

func (c *fakeContext) ClearRenderTarget(view gfx.TextureView, color glm.Vec4) {
	c.ops = append(c.ops, "clear "+view.(*fakeView).name)
	c.clearColor = color
}

func (c *fakeContext) ClearDepthStencil(view gfx.TextureView, depth float32, stencil uint8) {
	c.ops = append(c.ops, "clear "+view.(*fakeView).name)
	c.clearDepth = depth
}

func (c *fakeContext) Flush()   { c.ops = append(c.ops, "flush") }
func (c *fakeContext) Release() { c.ledger.released = append(c.ledger.released, "context") }

type fakeSwapChain struct {
	desc    gfx.SwapChainDesc
	context gfx.DeviceContext
	ledger  *ledger

	presents []uint32
	resizes  [][2]uint32
}

func (s *fakeSwapChain) Desc() gfx.SwapChainDesc { return s.desc }

func (s *fakeSwapChain) CurrentBackBuffer() gfx.TextureView {
	return &fakeView{name: "back", width: s.desc.Width, height: s.desc.Height}
}

func (s *fakeSwapChain) DepthBuffer() gfx.TextureView {
	return &fakeView{name: "depth", width: s.desc.Width, height: s.desc.Height}
}

func (s *fakeSwapChain) Present(syncInterval uint32) error {
	s.presents = append(s.presents, syncInterval)
	return nil
}

func (s *fakeSwapChain) Resize(width, height uint32, transform gfx.SurfaceTransform) error {
	s.resizes = append(s.resizes, [2]uint32{width, height})
	s.desc.Width, s.desc.Height = width, height
	return nil
}

func (s *fakeSwapChain) Release() {
	name := "swapchain"
	if !s.desc.IsPrimary {
		name = "derived swapchain"
	}
	s.ledger.released = append(s.ledger.released, name)
}

// fakeBackends registers a working fake for every device type
func fakeBackends() (gfx.Backends, map[gfx.DeviceType]*fakeBackend, *ledger) {
	l := &ledger{}
	backends := gfx.Backends{}
	fakes := map[gfx.DeviceType]*fakeBackend{}
	for _, t := range gfx.DeviceTypes {
		fake := newFakeBackend(t, l)
		backends[t] = fake
		fakes[t] = fake
	}
	return backends, fakes, l
}

var errFake = errors.New("fake failure")

var testWindow = gfx.NativeWindow{Subsystem: gfx.SubsystemX11, WindowID: 42}

type fakeWindow struct {
	desc      gfx.WindowDesc
	width     int
	height    int
	destroyed bool
	nativeErr error
	requested []gfx.DeviceType
}

func (w *fakeWindow) NativeWindow(deviceType gfx.DeviceType) (gfx.NativeWindow, error) {
	w.requested = append(w.requested, deviceType)
	if w.nativeErr != nil {
		return gfx.NativeWindow{}, w.nativeErr
	}
	return gfx.NativeWindow{Subsystem: gfx.SubsystemX11, WindowID: 7, Provider: w}, nil
}

func (w *fakeWindow) Size() (int, int) { return w.width, w.height }
func (w *fakeWindow) Destroy()         { w.destroyed = true }

type fakePlatform struct {
	display    gfx.DisplayMode
	displayErr error
	createErr  error
	windows    []*fakeWindow
}

func (p *fakePlatform) DesktopDisplayMode(int) (gfx.DisplayMode, error) {
	return p.display, p.displayErr
}

func (p *fakePlatform) CreateWindow(desc gfx.WindowDesc) (gfx.Window, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	w := &fakeWindow{desc: desc, width: desc.Width, height: desc.Height}
	if desc.Mode == gfx.FullScreenDesktop {
		w.width, w.height = 3840, 2160
	}
	p.windows = append(p.windows, w)
	return w, nil
}
