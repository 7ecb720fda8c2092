//go:build nogpu

package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"
)

// ErrNilProvider is returned when a nil DeviceProvider is passed.
var ErrNilProvider = errors.New("outline/gpu: nil DeviceProvider")

// errDisabled is returned by SetDeviceProvider in nogpu builds.
var errDisabled = errors.New("outline/gpu: built with nogpu")

// SetDeviceProvider fails in nogpu builds; rendering stays on the CPU.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return ErrNilProvider
	}
	return errDisabled
}

// Enabled always reports false in nogpu builds.
func Enabled() bool { return false }
