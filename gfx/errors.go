// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "errors"

// Initialization error kinds, test with errors.Is
var (
	ErrInvalidDeviceType  = errors.New("invalid device type")
	ErrFailedLibrary      = errors.New("failed to load library")
	ErrNoAdapters         = errors.New("no available adapters")
	ErrFailedRenderDevice = errors.New("failed to create render device")
	ErrFailedSwapchain    = errors.New("failed to create swapchain")
)

// ErrNativeWindowUnavailable is the window error class. It is raised
// before any backend is touched and ends initialization without retrying.
var ErrNativeWindowUnavailable = errors.New("native window unavailable")

// InitError is returned when graphics initialization fails. DeviceType is
// the backend whose attempt produced the error.
type InitError struct {
	DeviceType DeviceType
	Kind       error
	Cause      error
}

func (e *InitError) Error() string {
	msg := e.DeviceType.String() + ": " + e.Kind.Error()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is matches the error kind
func (e *InitError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the native failure
func (e *InitError) Unwrap() error {
	return e.Cause
}

func initError(deviceType DeviceType, kind, cause error) *InitError {
	return &InitError{
		DeviceType: deviceType,
		Kind:       kind,
		Cause:      cause,
	}
}
