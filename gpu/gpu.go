//go:build !nogpu

// Package gpu registers the wgpu compute accelerator for the outline
// pipeline.
//
// Import this package to run resolve, jump-flood and composite passes as
// GPU compute shaders:
//
//	import _ "github.com/gogpu/outline/gpu"
//
// If GPU initialization fails (no Vulkan device available), the accelerator
// stays registered but declines every frame and rendering falls back to the
// CPU passes.
package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/outline"
	gpuimpl "github.com/gogpu/outline/internal/gpu"
)

// ErrNilProvider is returned when a nil DeviceProvider is passed.
var ErrNilProvider = errors.New("outline/gpu: nil DeviceProvider")

func init() {
	accel := &gpuimpl.JFAAccelerator{}
	if err := outline.RegisterAccelerator(accel); err != nil {
		outline.Logger().Warn("outline: GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider makes the accelerator share the GPU device of a host
// application (e.g., gogpu) instead of opening its own.
//
// The provider must also expose HalDevice() any and HalQueue() any for
// direct HAL access; otherwise an error is returned and the accelerator
// keeps its own device.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return ErrNilProvider
	}
	return outline.SetAcceleratorDeviceProvider(provider)
}

// Enabled reports whether the registered accelerator renders on the GPU.
func Enabled() bool {
	type readier interface{ Ready() bool }
	r, ok := outline.RegisteredAccelerator().(readier)
	return ok && r.Ready()
}
