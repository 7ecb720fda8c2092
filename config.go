package outline

import (
	"fmt"

	"github.com/chewxy/math32"
)

// MaxThickness bounds Config.Thickness far below the NoSeed distance, so a
// layer without seeds never gains intensity.
const MaxThickness = 1 << 20

// Config is the per-frame outline configuration. It is read-only while a
// frame renders.
type Config struct {
	// ColorA is the straight-alpha color of outline layer A.
	ColorA RGBA

	// ColorB is the straight-alpha color of outline layer B, drawn over A.
	ColorB RGBA

	// Thickness is the outline radius in pixels, measured from the detected
	// boundary. The stroke straddles the boundary.
	Thickness float32

	// Sharpness scales the antialiasing falloff. 1 gives a one pixel wide
	// ramp; larger values give a harder edge. Zero is treated as 1.
	Sharpness float32
}

// DefaultConfig returns an orange layer A, a white layer B and a two pixel
// thickness.
func DefaultConfig() Config {
	return Config{
		ColorA:    RGBA{R: 1, G: 0.5, B: 0, A: 1},
		ColorB:    RGBA{R: 1, G: 1, B: 1, A: 1},
		Thickness: 2,
		Sharpness: 1,
	}
}

// Validate reports whether the configuration can be rendered.
func (c Config) Validate() error {
	if math32.IsNaN(c.Thickness) || c.Thickness < 0 || c.Thickness > MaxThickness {
		return fmt.Errorf("%w: thickness %v", ErrInvalidConfig, c.Thickness)
	}
	if math32.IsNaN(c.Sharpness) || math32.IsInf(c.Sharpness, 0) || c.Sharpness < 0 {
		return fmt.Errorf("%w: sharpness %v", ErrInvalidConfig, c.Sharpness)
	}
	for _, col := range [...]RGBA{c.ColorA, c.ColorB} {
		for _, v := range [...]float32{col.R, col.G, col.B, col.A} {
			if math32.IsNaN(v) || v < 0 || v > 1 {
				return fmt.Errorf("%w: color %v out of range", ErrInvalidConfig, col)
			}
		}
	}
	return nil
}

// EffectiveSharpness returns Sharpness, with zero mapped to 1.
func (c Config) EffectiveSharpness() float32 {
	if c.Sharpness == 0 {
		return 1
	}
	return c.Sharpness
}
