package outline

import "testing"

func TestVec2(t *testing.T) {
	a, b := V2(3, 4), V2(1, 1)
	if got := a.Add(b); got != V2(4, 5) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != V2(2, 3) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Mul(2); got != V2(6, 8) {
		t.Errorf("Mul = %v", got)
	}
	if got := a.LengthSq(); got != 25 {
		t.Errorf("LengthSq = %v, want 25", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
}

func TestPixelCenter(t *testing.T) {
	if got := PixelCenter(0, 0); got != V2(0.5, 0.5) {
		t.Errorf("PixelCenter(0, 0) = %v", got)
	}
	if got := PixelCenter(7, 2); got != V2(7.5, 2.5) {
		t.Errorf("PixelCenter(7, 2) = %v", got)
	}
}

func TestNoSeed(t *testing.T) {
	if !IsSentinel(NoSeed) {
		t.Error("IsSentinel(NoSeed) = false")
	}
	for _, v := range []Vec2{V2(0, 0), V2(-3, 5), V2(65535, 65535)} {
		if IsSentinel(v) {
			t.Errorf("IsSentinel(%v) = true", v)
		}
	}

	// The sentinel loses against any seed in a maximal buffer.
	far := V2(65535, 65535)
	center := PixelCenter(0, 0)
	if NoSeed.Sub(center).LengthSq() <= far.Sub(center).LengthSq() {
		t.Error("NoSeed must be farther than any in-buffer seed")
	}
	if d := NoSeed.Sub(center).Length(); d <= MaxThickness {
		t.Errorf("NoSeed distance %v not above MaxThickness", d)
	}
}
