package outline

import "github.com/chewxy/math32"

// Intensity converts a pixel-space distance to the nearest seed into outline
// coverage: clamp((thickness - distance) * sharpness, 0, 1).
// A NoSeed distance yields 0 for any finite thickness.
func Intensity(distance, thickness, sharpness float32) float32 {
	return saturate((thickness - distance) * sharpness)
}

// CompositeRows writes the outline overlay for rows [y0, y1) of seeds.
//
// For each layer the distance from the pixel's own center to its seed sets
// the intensity. Each layer color is premultiplied by its alpha times the
// intensity, layer B is blended over layer A, and the result is stored as
// straight alpha. Pixels inside and outside an object are treated alike, so
// the outline straddles the boundary.
func CompositeRows(dst *Overlay, seeds *SeedBuffer, cfg Config, y0, y1 int) {
	w := seeds.width
	sharp := cfg.EffectiveSharpness()
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			center := PixelCenter(x, y)
			s := seeds.data[y*w+x]

			a := cfg.ColorA.Premultiply(Intensity(s.A.Sub(center).Length(), cfg.Thickness, sharp))
			b := cfg.ColorB.Premultiply(Intensity(s.B.Sub(center).Length(), cfg.Thickness, sharp))

			dst.data[y*w+x] = Over(a, b).Unpremultiply()
		}
	}
}

func saturate(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
