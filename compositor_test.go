package outline

import (
	"context"
	"image/color"
	"testing"

	"github.com/chewxy/math32"
)

func approx(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		d, thick, sharp float32
		want            float32
	}{
		{0, 1, 1, 1},
		{0.5, 1, 1, 0.5},
		{1, 1, 1, 0},
		{3, 1, 1, 0},
		{0.75, 1, 4, 1},
		{0.9, 1, 4, 0.4},
		{0, 0, 1, 0},
		{NoSeed.Length(), MaxThickness, 1, 0},
	}
	for _, tt := range tests {
		if got := Intensity(tt.d, tt.thick, tt.sharp); !approx(got, tt.want) {
			t.Errorf("Intensity(%v, %v, %v) = %v, want %v", tt.d, tt.thick, tt.sharp, got, tt.want)
		}
	}
}

func TestCompositeOrder(t *testing.T) {
	seeds := NewSeedBuffer(1, 1)
	c := PixelCenter(0, 0)
	seeds.Set(0, 0, SeedPair{A: c, B: c})

	cfg := Config{
		ColorA:    RGBA{R: 1, A: 1},
		ColorB:    RGBA{G: 1, A: 0.5},
		Thickness: 1,
		Sharpness: 1,
	}
	dst := NewOverlay(1, 1)
	CompositeRows(dst, seeds, cfg, 0, 1)

	// Premultiplied: A*(1 - alpha_B) + B, stored straight.
	want := RGBA{R: 0.5, G: 0.5, B: 0, A: 1}
	if got := dst.At(0, 0); !colorNear(got, want) {
		t.Errorf("composite = %+v, want %+v", got, want)
	}
}

func TestCompositeHalfCoverageKeepsColor(t *testing.T) {
	seeds := NewSeedBuffer(1, 1)
	// Seed 0.5 from the pixel center: intensity 0.5 at thickness 1.
	seeds.Set(0, 0, SeedPair{A: V2(1, 0.5), B: NoSeed})

	cfg := Config{ColorA: White, ColorB: Red, Thickness: 1, Sharpness: 1}
	dst := NewOverlay(1, 1)
	CompositeRows(dst, seeds, cfg, 0, 1)

	want := RGBA{R: 1, G: 1, B: 1, A: 0.5}
	if got := dst.At(0, 0); !colorNear(got, want) {
		t.Errorf("half coverage = %+v, want %+v", got, want)
	}
	if got, want := dst.ToNRGBA().NRGBAAt(0, 0), (color.NRGBA{R: 255, G: 255, B: 255, A: 128}); got != want {
		t.Errorf("ToNRGBA = %v, want %v", got, want)
	}
}

func TestCompositeTranslucentLayers(t *testing.T) {
	seeds := NewSeedBuffer(1, 1)
	c := PixelCenter(0, 0)
	seeds.Set(0, 0, SeedPair{A: c, B: c})

	cfg := Config{
		ColorA:    RGBA{R: 1, A: 0.5},
		ColorB:    RGBA{B: 1, A: 0.5},
		Thickness: 1,
		Sharpness: 1,
	}
	dst := NewOverlay(1, 1)
	CompositeRows(dst, seeds, cfg, 0, 1)

	// Premultiplied (0.25, 0, 0.5, 0.75) stored straight.
	want := RGBA{R: 1.0 / 3, G: 0, B: 2.0 / 3, A: 0.75}
	if got := dst.At(0, 0); !colorNear(got, want) {
		t.Errorf("composite = %+v, want %+v", got, want)
	}
}

func TestCompositeNoSeedIsTransparent(t *testing.T) {
	seeds := NewSeedBuffer(4, 4)
	dst := NewOverlay(4, 4)
	cfg := DefaultConfig()
	cfg.Thickness = MaxThickness
	CompositeRows(dst, seeds, cfg, 0, 4)
	for i, px := range dst.Pix() {
		if px != Transparent {
			t.Fatalf("pixel %d = %+v, want transparent", i, px)
		}
	}
}

func TestCompositeZeroSharpnessIsOne(t *testing.T) {
	seeds := NewSeedBuffer(1, 1)
	seeds.Set(0, 0, SeedPair{A: V2(1, 0.5), B: NoSeed})

	a, b := NewOverlay(1, 1), NewOverlay(1, 1)
	cfg := Config{ColorA: White, Thickness: 1, Sharpness: 0}
	CompositeRows(a, seeds, cfg, 0, 1)
	cfg.Sharpness = 1
	CompositeRows(b, seeds, cfg, 0, 1)
	if a.At(0, 0) != b.At(0, 0) {
		t.Errorf("sharpness 0 = %+v, sharpness 1 = %+v", a.At(0, 0), b.At(0, 0))
	}
}

func TestThicknessMonotonic(t *testing.T) {
	m := NewMask(24, 24, 1)
	m.FillRect(6, 8, 10, 7, IDPair{A: 1, B: 2})
	m.FillRect(9, 2, 3, 3, IDPair{A: 3})

	p, err := NewPipeline(24, 24, WithCPUOnly())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	var prev *Overlay
	for _, thick := range []float32{0, 0.25, 0.5, 1, 1.5, 2, 3, 5, 8} {
		cfg := Config{ColorA: White, ColorB: RGBA{B: 1, A: 0.5}, Thickness: thick, Sharpness: 1}
		cur, err := p.Render(context.Background(), m, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if prev != nil {
			for i := range cur.Pix() {
				if cur.Pix()[i].A < prev.Pix()[i].A {
					t.Fatalf("thickness %v: pixel %d alpha dropped from %v to %v",
						thick, i, prev.Pix()[i].A, cur.Pix()[i].A)
				}
			}
		}
		prev = cur
	}
}

func TestQuadrantScenario(t *testing.T) {
	m := NewMask(4, 4, 1)
	m.FillRect(0, 0, 2, 2, IDPair{A: 1})

	p, err := NewPipeline(4, 4, WithCPUOnly(), WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	cfg := Config{ColorA: White, ColorB: Red, Thickness: 1, Sharpness: 1}
	out, err := p.Render(context.Background(), m, cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Pixel (1,1) has its seed at (1.7, 1.7), 0.283 from its center.
	if got := out.At(1, 1).A; !approx(got, 1-math32.Sqrt(0.08)) {
		t.Errorf("pixel (1,1) intensity = %v, want ~0.717", got)
	}
	// Pixel (2,2) has its seed at the shared corner (2, 2).
	if got := out.At(2, 2).A; !approx(got, 1-math32.Sqrt(0.5)) {
		t.Errorf("pixel (2,2) intensity = %v, want ~0.293", got)
	}
	for _, px := range [][2]int{{3, 3}, {3, 0}, {0, 3}} {
		if got := out.At(px[0], px[1]); got != Transparent {
			t.Errorf("pixel %v far from the boundary = %+v, want transparent", px, got)
		}
	}
	// Layer B has no objects, so every covered pixel is white.
	for i, px := range out.Pix() {
		if px.A == 0 {
			if px != Transparent {
				t.Fatalf("pixel %d = %+v, want transparent", i, px)
			}
			continue
		}
		if !approx(px.R, 1) || !approx(px.G, 1) || !approx(px.B, 1) {
			t.Fatalf("pixel %d = %+v, want white", i, px)
		}
	}
}
