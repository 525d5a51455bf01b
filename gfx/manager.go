// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// State is the initialization state of a Manager
type State int

// Manager states
const (
	StateUninitialized State = iota
	StateInitialized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Manager owns the device, its immediate contexts and the swap chains
// created on it. Everything handed out by a Manager is valid until the
// next InitializeGraphics or Destroy.
type Manager struct {
	backends Backends
	logger   logrus.FieldLogger

	state      State
	deviceType DeviceType
	backend    Backend
	device     Device
	contexts   []DeviceContext
	swapchain  *SwapChain
	derived    []*SwapChain
}

// NewManager creates an uninitialized manager using the given backend table
func NewManager(backends Backends, logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		backends: backends,
		logger:   logger,
	}
}

// InitializeGraphics creates the device, its contexts and the primary swap
// chain for surface using deviceType. Anything created by an earlier call is
// released first. With retry set, a failure makes it try every other
// supported backend in DeviceTypes order until one succeeds; the error of
// the last attempt is returned when none does. A window that cannot provide
// native handles fails with ErrNativeWindowUnavailable and is never retried.
func (m *Manager) InitializeGraphics(surface Surface, deviceType DeviceType, validation ValidationLevel, retry bool) (*SwapChain, error) {
	err := m.initialize(surface, deviceType, validation)
	if err != nil && retry && !windowFailure(err) {
		attempted := map[DeviceType]bool{deviceType: true}
		for _, t := range DeviceTypes {
			if attempted[t] || !IsDeviceTypeSupported(t) {
				continue
			}
			attempted[t] = true

			m.logger.Warnf("Retrying graphics initialization, API: %s", t)
			if err = m.initialize(surface, t, validation); err == nil || windowFailure(err) {
				break
			}
		}
	}

	if err != nil {
		m.state = StateFailed
		return nil, err
	}
	return m.swapchain, nil
}

func (m *Manager) initialize(surface Surface, deviceType DeviceType, validation ValidationLevel) error {
	m.reset()

	err := m.createGraphics(surface, deviceType, validation)
	if err != nil {
		m.reset()
		m.logInitError(deviceType, err)
		return err
	}

	m.state = StateInitialized
	m.logger.Infof("Initialized graphics: %s %s", deviceType, m.device.APIVersion())
	m.logger.Infof("Initialized adapter: %s", m.device.Adapter().Description)
	return nil
}

func (m *Manager) createGraphics(surface Surface, deviceType DeviceType, validation ValidationLevel) error {
	if !IsDeviceTypeSupported(deviceType) {
		return initError(deviceType, ErrInvalidDeviceType, nil)
	}

	window, err := surface.NativeWindow(deviceType)
	if err != nil {
		return initError(deviceType, ErrNativeWindowUnavailable, err)
	}

	backend, ok := m.backends[deviceType]
	if !ok || backend == nil {
		return initError(deviceType, ErrFailedLibrary, errors.New("backend is not linked into this build"))
	}
	if err := backend.LoadLibrary(); err != nil {
		return initError(deviceType, ErrFailedLibrary, err)
	}

	version := APIVersion(deviceType)
	adapters, err := backend.EnumerateAdapters(version)
	if err != nil {
		return initError(deviceType, ErrNoAdapters, err)
	}
	if len(adapters) == 0 {
		return initError(deviceType, ErrNoAdapters, nil)
	}

	adapterID := SelectAdapter(adapters)
	adapter := adapters[adapterID]
	adapter.Queues = append([]CommandQueueInfo(nil), adapter.Queues...)

	plan := BuildContextPlan(deviceType, &adapter)
	if len(plan) == 0 || plan[0].Type != QueueTypeGraphics {
		return initError(deviceType, ErrFailedRenderDevice, errors.New("adapter has no graphics queue"))
	}

	ci := EngineCreateInfo{
		APIVersion:        version,
		Validation:        validation,
		Window:            window,
		AdapterID:         adapterID,
		Adapter:           adapters[adapterID],
		ImmediateContexts: plan,
		Features: DeviceFeatures{
			NativeFence:                   FeatureOptional,
			TimestampQueries:              FeatureOptional,
			TransferQueueTimestampQueries: FeatureOptional,
		},
	}

	device, contexts, err := backend.CreateDeviceAndContexts(ci)
	if err == nil && (device == nil || len(contexts) == 0) {
		err = errors.New("backend returned no device or contexts")
	}
	m.device, m.contexts = device, contexts
	if err != nil {
		return initError(deviceType, ErrFailedRenderDevice, err)
	}
	m.backend = backend
	m.deviceType = deviceType

	native, err := backend.CreateSwapChain(device, contexts[0], DefaultSwapChainDesc(), window)
	if err != nil {
		return initError(deviceType, ErrFailedSwapchain, err)
	}
	m.swapchain = newSwapChain(native, contexts[0])
	return nil
}

// windowFailure reports whether err came from the window rather than a backend
func windowFailure(err error) bool {
	var ie *InitError
	return errors.As(err, &ie) && ie.Kind == ErrNativeWindowUnavailable
}

func (m *Manager) logInitError(deviceType DeviceType, err error) {
	logger := m.logger
	var ie *InitError
	if errors.As(err, &ie) && ie.Cause != nil {
		logger = logger.WithError(ie.Cause)
	}

	switch {
	case errors.Is(err, ErrInvalidDeviceType):
		logger.Errorf("Requested device type %s is not valid or not supported on this platform", deviceType)
	case errors.Is(err, ErrFailedLibrary):
		logger.Errorf("Failed to initialize %s library", deviceType)
	case errors.Is(err, ErrNoAdapters):
		logger.Errorf("No available %s adapters", deviceType)
	case errors.Is(err, ErrFailedRenderDevice):
		logger.Errorf("Failed to create %s render device", deviceType)
	case errors.Is(err, ErrFailedSwapchain):
		logger.Errorf("Failed to create %s swapchain", deviceType)
	case errors.Is(err, ErrNativeWindowUnavailable):
		logger.Errorf("Window has no native handles usable by %s", deviceType)
	}
}

// reset releases swap chains before contexts and contexts before the device
func (m *Manager) reset() {
	for _, sc := range m.derived {
		sc.release()
	}
	m.derived = nil

	if m.swapchain != nil {
		m.swapchain.release()
		m.swapchain = nil
	}

	for idx := len(m.contexts) - 1; idx >= 0; idx-- {
		if m.contexts[idx] != nil {
			m.contexts[idx].Release()
		}
	}
	m.contexts = nil

	if m.device != nil {
		m.device.Release()
		m.device = nil
	}

	m.backend = nil
	m.deviceType = DeviceTypeUndefined
	m.state = StateUninitialized
}

// CreateDerivedContext creates a swap chain for another window on the
// manager's device and first immediate context. OpenGL backends cannot share
// their device between windows and fail with ErrInvalidDeviceType.
func (m *Manager) CreateDerivedContext(surface Surface) (*SwapChain, error) {
	m.mustBeInitialized()

	if m.deviceType == DeviceTypeGL || m.deviceType == DeviceTypeGLES {
		m.logger.Errorf("Derived contexts are not supported by %s", m.deviceType)
		return nil, initError(m.deviceType, ErrInvalidDeviceType, errors.New("device cannot be shared between windows"))
	}

	window, err := surface.NativeWindow(m.deviceType)
	if err != nil {
		ie := initError(m.deviceType, ErrNativeWindowUnavailable, err)
		m.logInitError(m.deviceType, ie)
		return nil, ie
	}

	desc := DefaultSwapChainDesc()
	desc.IsPrimary = false
	native, err := m.backend.CreateSwapChain(m.device, m.contexts[0], desc, window)
	if err != nil {
		ie := initError(m.deviceType, ErrFailedSwapchain, err)
		m.logInitError(m.deviceType, ie)
		return nil, ie
	}

	sc := newSwapChain(native, m.contexts[0])
	m.derived = append(m.derived, sc)
	return sc, nil
}

// ReleaseSwapChain releases a swap chain created by CreateDerivedContext
func (m *Manager) ReleaseSwapChain(sc *SwapChain) {
	for idx, derived := range m.derived {
		if derived == sc {
			m.derived = append(m.derived[:idx], m.derived[idx+1:]...)
			sc.release()
			return
		}
	}
}

func (m *Manager) mustBeInitialized() {
	if m.state != StateInitialized {
		panic("gfx.Manager: graphics are not initialized")
	}
}

// State returns the initialization state
func (m *Manager) State() State {
	return m.state
}

// DeviceType returns the backend in use, DeviceTypeUndefined before
// a successful initialization
func (m *Manager) DeviceType() DeviceType {
	return m.deviceType
}

// Device returns the device
func (m *Manager) Device() Device {
	m.mustBeInitialized()
	return m.device
}

// ImmediateContextsCount returns the number of immediate contexts
func (m *Manager) ImmediateContextsCount() int {
	return len(m.contexts)
}

// Context returns the immediate context at idx
func (m *Manager) Context(idx int) DeviceContext {
	m.mustBeInitialized()
	return m.contexts[idx]
}

// SwapChain returns the primary swap chain
func (m *Manager) SwapChain() *SwapChain {
	m.mustBeInitialized()
	return m.swapchain
}

// Clear clears the primary swap chain
func (m *Manager) Clear() {
	m.SwapChain().Clear()
}

// Present presents the primary swap chain
func (m *Manager) Present(syncInterval uint32) error {
	return m.SwapChain().Present(syncInterval)
}

// Resize resizes the primary swap chain
func (m *Manager) Resize(width, height uint32, transform SurfaceTransform) error {
	return m.SwapChain().Resize(width, height, transform)
}

// Destroy releases everything the manager owns
func (m *Manager) Destroy() {
	m.reset()
}
