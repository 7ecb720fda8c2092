package outline

import (
	"image"
	"image/color"
	"testing"
)

func TestNewMask(t *testing.T) {
	m := NewMask(5, 3, 4)
	if m.Width() != 5 || m.Height() != 3 || m.Samples() != 4 {
		t.Errorf("size = %dx%dx%d, want 5x3x4", m.Width(), m.Height(), m.Samples())
	}
	if m.Bounds() != image.Rect(0, 0, 5, 3) {
		t.Errorf("Bounds() = %v", m.Bounds())
	}
	if got := m.At(4, 2, 3); got != (IDPair{}) {
		t.Errorf("new mask sample = %v, want zero", got)
	}
}

func TestNewMaskPanicsOnSamples(t *testing.T) {
	for _, s := range []int{0, 2, 8} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewMask(samples=%d) should panic", s)
				}
			}()
			NewMask(4, 4, s)
		}()
	}
}

func TestMaskSetAt(t *testing.T) {
	m := NewMask(4, 4, 4)
	m.Set(1, 2, 3, IDPair{A: 7})
	if got := m.At(1, 2, 3); got.A != 7 {
		t.Errorf("At(1,2,3) = %v, want A=7", got)
	}
	if got := m.At(1, 2, 0); got.A != 0 {
		t.Errorf("other samples must be untouched, got %v", got)
	}

	// Out of bounds is ignored on write and zero on read.
	m.Set(-1, 0, 0, IDPair{A: 1})
	m.Set(0, 0, 4, IDPair{A: 1})
	if got := m.At(9, 9, 0); got != (IDPair{}) {
		t.Errorf("out-of-bounds At = %v", got)
	}

	m.SetPixel(0, 0, IDPair{A: 2, B: 3})
	for s := range 4 {
		if got := m.At(0, 0, s); got != (IDPair{A: 2, B: 3}) {
			t.Errorf("SetPixel sample %d = %v", s, got)
		}
	}
}

func TestMaskFillRectClips(t *testing.T) {
	m := NewMask(4, 4, 1)
	m.FillRect(2, 2, 10, 10, IDPair{A: 1})

	count := 0
	for y := range 4 {
		for x := range 4 {
			if m.At(x, y, 0).A == 1 {
				count++
			}
		}
	}
	if count != 4 {
		t.Errorf("filled %d pixels, want 4", count)
	}
}

func TestMaskResolve(t *testing.T) {
	m := NewMask(3, 1, 4)
	// Pixel 0: clear majority.
	m.Set(0, 0, 0, IDPair{A: 1, B: 5})
	m.Set(0, 0, 1, IDPair{A: 1})
	m.Set(0, 0, 2, IDPair{A: 2})
	m.Set(0, 0, 3, IDPair{A: 1})
	// Pixel 1: 2-2 tie goes to the lowest sample index.
	m.Set(1, 0, 0, IDPair{A: 4})
	m.Set(1, 0, 1, IDPair{A: 3})
	m.Set(1, 0, 2, IDPair{A: 3})
	m.Set(1, 0, 3, IDPair{A: 4})
	// Pixel 2: one stray sample loses.
	m.Set(2, 0, 3, IDPair{A: 9})

	r := m.Resolve()
	if r.Samples() != 1 {
		t.Fatalf("Resolve().Samples() = %d, want 1", r.Samples())
	}
	want := []IDPair{{A: 1}, {A: 4}, {}}
	for x, w := range want {
		if got := r.At(x, 0, 0); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func TestMaskResolveSingleSampleCopies(t *testing.T) {
	m := NewMask(2, 2, 1)
	m.SetPixel(1, 1, IDPair{A: 3})
	r := m.Resolve()
	m.SetPixel(1, 1, IDPair{})
	if r.At(1, 1, 0).A != 3 {
		t.Error("Resolve of a single-sample mask must return a copy")
	}
}

func TestMaskFingerprint(t *testing.T) {
	a := NewMask(8, 8, 1)
	b := NewMask(8, 8, 1)
	a.FillRect(1, 1, 3, 3, IDPair{A: 1})
	b.FillRect(1, 1, 3, 3, IDPair{A: 1})

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal masks must have equal fingerprints")
	}
	b.SetPixel(7, 7, IDPair{B: 1})
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("different masks should have different fingerprints")
	}
	if NewMask(4, 16, 1).Fingerprint() == NewMask(16, 4, 1).Fingerprint() {
		t.Error("fingerprint must include dimensions")
	}
}

func TestMaskFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 13, 12))
	img.SetNRGBA(11, 11, color.NRGBA{R: 5, G: 7, A: 255})

	m := MaskFromImage(img)
	if m.Width() != 3 || m.Height() != 2 || m.Samples() != 1 {
		t.Fatalf("size = %dx%dx%d", m.Width(), m.Height(), m.Samples())
	}
	if got := m.At(1, 1, 0); got != (IDPair{A: 5, B: 7}) {
		t.Errorf("At(1,1) = %v, want {5 7}", got)
	}
	if got := m.At(0, 0, 0); got != (IDPair{}) {
		t.Errorf("At(0,0) = %v, want zero", got)
	}
}
