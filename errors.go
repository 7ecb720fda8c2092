package outline

import "errors"

// Setup errors. All of them are reported before any pass runs.
var (
	// ErrInvalidDimensions is returned when a width or height is not positive.
	ErrInvalidDimensions = errors.New("outline: invalid dimensions")

	// ErrSizeMismatch is returned when a buffer does not match the pipeline size.
	ErrSizeMismatch = errors.New("outline: buffer size mismatch")

	// ErrUnsupportedSamples is returned for mask sample counts other than 1 or 4,
	// or for a multisampled mask on a pipeline that cannot resolve it.
	ErrUnsupportedSamples = errors.New("outline: unsupported mask sample count")

	// ErrInvalidConfig is returned when an outline configuration fails validation.
	ErrInvalidConfig = errors.New("outline: invalid configuration")

	// ErrInvalidColor is returned for malformed hex color strings.
	ErrInvalidColor = errors.New("outline: invalid color")

	// ErrNilMask is returned when Render is called without a mask.
	ErrNilMask = errors.New("outline: mask is nil")

	// ErrPipelineClosed is returned when rendering on a closed pipeline.
	ErrPipelineClosed = errors.New("outline: pipeline is closed")
)
