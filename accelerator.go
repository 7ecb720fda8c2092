package outline

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the GPU accelerator cannot handle this frame.
// The pipeline transparently falls back to the CPU passes.
var ErrFallbackToCPU = errors.New("outline: falling back to CPU rendering")

// Frame is everything an accelerator needs to run one pipeline execution.
// All fields are read-only for the duration of the call.
type Frame struct {
	// Mask is the object-ID mask, already validated against the pipeline size.
	Mask *Mask

	// Mode is the resolver variant chosen at pipeline setup.
	Mode ResolveMode

	// Steps is the jump-flood step-width sequence, largest first.
	Steps []int

	// Config is the per-frame outline configuration.
	Config Config
}

// Accelerator is an optional GPU backend for the outline pipeline.
//
// When registered via RegisterAccelerator, Pipeline.Render tries the
// accelerator first. If it returns ErrFallbackToCPU or any other error,
// the frame is rendered on the CPU instead.
//
// Implementations are provided by backend packages. Users opt in via
// blank import:
//
//	import _ "github.com/gogpu/outline/gpu"
type Accelerator interface {
	// Name returns the accelerator name (e.g., "jfa-gpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate is a fast check used to skip the GPU for frames it
	// cannot run (e.g., an unsupported resolver mode).
	CanAccelerate(mode ResolveMode) bool

	// Render runs the full pass sequence for frame and writes the
	// composited overlay to dst. dst has the mask's dimensions.
	Render(frame Frame, dst *Overlay) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share a GPU device with the host application.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator registers a GPU accelerator for the outline pipeline.
//
// Only one accelerator can be registered; a later call replaces and closes
// the previous one. The accelerator's Init method is called first. If Init
// fails, the accelerator is not registered and the error is returned.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("outline: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())

	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil && old != a {
		old.Close()
	}
	return nil
}

// RegisteredAccelerator returns the currently registered accelerator, or nil.
func RegisteredAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// UnregisterAccelerator closes and removes the registered accelerator.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator. It is a no-op when no accelerator is registered or the
// accelerator does not support device sharing.
func SetAcceleratorDeviceProvider(provider any) error {
	a := RegisteredAccelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
