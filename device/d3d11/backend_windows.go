// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package d3d11

import (
	"unsafe"

	"github.com/devblok/sage/device/dxgi"
	"github.com/devblok/sage/gfx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Backend implements gfx.Backend for Direct3D 11
type Backend struct {
	logger logrus.FieldLogger

	// indices maps enumerated adapters to DXGI adapter indices
	indices []uint32
}

// New creates the Direct3D 11 backend
func New(logger logrus.FieldLogger) *Backend {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Backend{
		logger: logger.WithField("backend", gfx.DeviceTypeD3D11.String()),
	}
}

// LoadLibrary loads d3d11.dll and dxgi.dll
func (b *Backend) LoadLibrary() error {
	if err := d3d11DLL.Load(); err != nil {
		return errors.Wrap(err, "d3d11.dll")
	}
	if err := procCreateDevice.Find(); err != nil {
		return err
	}
	return dxgi.Load()
}

func levelValues(levels []gfx.Version) []uint32 {
	values := make([]uint32, 0, len(levels))
	for _, level := range levels {
		values = append(values, dxgi.FeatureLevel(level))
	}
	return values
}

// EnumerateAdapters lists the adapters supporting feature level minVersion
func (b *Backend) EnumerateAdapters(minVersion gfx.Version) ([]gfx.AdapterInfo, error) {
	levels := levelValues(requestedLevels(minVersion))
	if len(levels) == 0 {
		return nil, errors.Errorf("feature level %s is not supported", minVersion)
	}

	factory, err := dxgi.CreateFactory()
	if err != nil {
		return nil, err
	}
	defer factory.Release()

	adapters, err := factory.Adapters()
	if err != nil {
		return nil, err
	}

	var infos []gfx.AdapterInfo
	b.indices = b.indices[:0]
	for idx, adapter := range adapters {
		desc, err := adapter.Desc1()
		if err == nil {
			var level uint32
			if level, err = createDevice(adapter, 0, levels, nil, nil); err == nil {
				infos = append(infos, desc.Info(dxgi.FeatureLevelVersion(level), []gfx.CommandQueueInfo{{
					Type:              gfx.QueueTypeGraphics,
					MaxDeviceContexts: 1,
				}}))
				b.indices = append(b.indices, uint32(idx))
			}
		}
		if err != nil {
			b.logger.WithError(err).Debugf("Skipping adapter %d", idx)
		}
		adapter.Release()
	}
	return infos, nil
}

// CreateDeviceAndContexts creates the device and its immediate context.
// Direct3D 11 has a single queue, so only one context can be requested.
func (b *Backend) CreateDeviceAndContexts(ci gfx.EngineCreateInfo) (gfx.Device, []gfx.DeviceContext, error) {
	if ci.AdapterID < 0 || ci.AdapterID >= len(b.indices) {
		return nil, nil, errors.Errorf("adapter %d does not exist", ci.AdapterID)
	}
	if len(ci.ImmediateContexts) != 1 {
		return nil, nil, errors.Errorf("Direct3D 11 supports one immediate context, %d requested", len(ci.ImmediateContexts))
	}

	factory, err := dxgi.CreateFactory()
	if err != nil {
		return nil, nil, err
	}
	adapter, err := factory.EnumAdapters1(b.indices[ci.AdapterID])
	if err != nil {
		factory.Release()
		return nil, nil, err
	}
	defer adapter.Release()

	flags := uint32(createDeviceBGRASupport)
	if ci.Validation > gfx.ValidationDisabled {
		flags |= createDeviceDebug
	}
	levels := levelValues(requestedLevels(ci.APIVersion))

	var (
		dev *d3dDevice
		ctx *deviceContext
	)
	_, err = createDevice(adapter, flags, levels, &dev, &ctx)
	if e, ok := err.(dxgi.Error); ok && e.Code == errorSDKComponentMissing {
		b.logger.Warn("Direct3D 11 debug layer is not installed, continuing without validation")
		flags &^= createDeviceDebug
		_, err = createDevice(adapter, flags, levels, &dev, &ctx)
	}
	if err != nil {
		factory.Release()
		return nil, nil, err
	}

	d := &device{
		handle:  dev,
		factory: factory,
		adapter: ci.Adapter,
		version: dxgi.FeatureLevelVersion(dev.featureLevel()),
		logger:  b.logger,
	}
	return d, []gfx.DeviceContext{&context{device: d, handle: ctx, desc: ci.ImmediateContexts[0]}}, nil
}

// CreateSwapChain creates a flip model swap chain for a Win32 window
func (b *Backend) CreateSwapChain(dev gfx.Device, ctx gfx.DeviceContext, desc gfx.SwapChainDesc, window gfx.NativeWindow) (gfx.NativeSwapChain, error) {
	d, ok := dev.(*device)
	if !ok {
		return nil, errors.New("device was not created by the Direct3D 11 backend")
	}
	c, ok := ctx.(*context)
	if !ok {
		return nil, errors.New("context was not created by the Direct3D 11 backend")
	}
	if window.Subsystem != gfx.SubsystemWindows || window.HWnd == 0 {
		return nil, errors.New("Direct3D 11 needs a Win32 window")
	}

	desc.ColorFormat = dxgi.PresentableFormat(desc.ColorFormat)
	desc.BufferCount = dxgi.BufferCount(desc.BufferCount)

	handle, err := d.factory.CreateSwapChain(unsafe.Pointer(d.handle), window.HWnd,
		desc.Width, desc.Height, desc.BufferCount, dxgi.Format(desc.ColorFormat))
	if err != nil {
		return nil, err
	}

	s := &swapChain{
		device:  d,
		context: c,
		handle:  handle,
		desc:    desc,
	}
	if err := s.createViews(); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}
