// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package d3d12

import (
	"unsafe"

	"github.com/devblok/sage/device/dxgi"
	"github.com/devblok/sage/gfx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Backend implements gfx.Backend for Direct3D 12
type Backend struct {
	logger logrus.FieldLogger

	// indices maps enumerated adapters to DXGI adapter indices
	indices []uint32
}

// New creates the Direct3D 12 backend
func New(logger logrus.FieldLogger) *Backend {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Backend{
		logger: logger.WithField("backend", gfx.DeviceTypeD3D12.String()),
	}
}

// LoadLibrary loads d3d12.dll and resolves its entry points, which are
// missing before Windows 10
func (b *Backend) LoadLibrary() error {
	if err := d3d12DLL.Load(); err != nil {
		return errors.Wrap(err, "d3d12.dll")
	}
	if err := procCreateDevice.Find(); err != nil {
		return err
	}
	if err := procGetDebugInterface.Find(); err != nil {
		return err
	}
	return dxgi.Load()
}

// maxLevel returns the best feature level of levels the adapter supports
func maxLevel(adapter *dxgi.Adapter, levels []gfx.Version) (gfx.Version, error) {
	var err error
	for _, level := range levels {
		if err = createDevice(adapter, dxgi.FeatureLevel(level), nil); err == nil {
			return level, nil
		}
	}
	return gfx.Version{}, err
}

// EnumerateAdapters lists the adapters supporting feature level minVersion
func (b *Backend) EnumerateAdapters(minVersion gfx.Version) ([]gfx.AdapterInfo, error) {
	levels := requestedLevels(minVersion)
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
			var level gfx.Version
			if level, err = maxLevel(adapter, levels); err == nil {
				infos = append(infos, desc.Info(level, adapterQueues()))
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

// CreateDeviceAndContexts creates the device and one command queue per
// requested context
func (b *Backend) CreateDeviceAndContexts(ci gfx.EngineCreateInfo) (gfx.Device, []gfx.DeviceContext, error) {
	if ci.AdapterID < 0 || ci.AdapterID >= len(b.indices) {
		return nil, nil, errors.Errorf("adapter %d does not exist", ci.AdapterID)
	}

	if ci.Validation > gfx.ValidationDisabled {
		if err := enableDebugLayer(ci.Validation >= gfx.ValidationLevel2); err != nil {
			b.logger.WithError(err).Warn("Direct3D 12 debug layer is not available, continuing without validation")
		}
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

	level, err := maxLevel(adapter, requestedLevels(ci.APIVersion))
	if err != nil {
		factory.Release()
		return nil, nil, err
	}
	var handle *d3dDevice
	if err := createDevice(adapter, dxgi.FeatureLevel(level), &handle); err != nil {
		factory.Release()
		return nil, nil, err
	}

	d := &device{
		handle:  handle,
		factory: factory,
		adapter: ci.Adapter,
		version: level,
		logger:  b.logger,
	}

	contexts := make([]gfx.DeviceContext, 0, len(ci.ImmediateContexts))
	for _, cci := range ci.ImmediateContexts {
		c, err := d.newContext(cci)
		if err != nil {
			for idx := len(contexts) - 1; idx >= 0; idx-- {
				contexts[idx].Release()
			}
			d.Release()
			return nil, nil, errors.Wrapf(err, "context %s", cci.Name)
		}
		contexts = append(contexts, c)
	}
	return d, contexts, nil
}

// CreateSwapChain creates a flip model swap chain presenting from the
// queue of ctx, which has to be a graphics context
func (b *Backend) CreateSwapChain(dev gfx.Device, ctx gfx.DeviceContext, desc gfx.SwapChainDesc, window gfx.NativeWindow) (gfx.NativeSwapChain, error) {
	d, ok := dev.(*device)
	if !ok {
		return nil, errors.New("device was not created by the Direct3D 12 backend")
	}
	c, ok := ctx.(*context)
	if !ok {
		return nil, errors.New("context was not created by the Direct3D 12 backend")
	}
	if c.listType != commandListTypeDirect {
		return nil, errors.Errorf("context %s cannot present", c.desc.Name)
	}
	if window.Subsystem != gfx.SubsystemWindows || window.HWnd == 0 {
		return nil, errors.New("Direct3D 12 needs a Win32 window")
	}

	desc.ColorFormat = dxgi.PresentableFormat(desc.ColorFormat)
	desc.BufferCount = dxgi.BufferCount(desc.BufferCount)

	handle, err := d.factory.CreateSwapChain(unsafe.Pointer(c.queue), window.HWnd,
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
	if err := s.createBuffers(); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}
