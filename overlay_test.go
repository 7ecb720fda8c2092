package outline

import (
	"image/color"
	"testing"
)

func TestOverlay(t *testing.T) {
	o := NewOverlay(3, 2)
	if o.Width() != 3 || o.Height() != 2 || len(o.Pix()) != 6 {
		t.Fatalf("size = %dx%d, %d pixels", o.Width(), o.Height(), len(o.Pix()))
	}
	o.Pix()[1*3+2] = Red
	if got := o.At(2, 1); got != Red {
		t.Errorf("At(2,1) = %v, want red", got)
	}
	if got := o.At(-1, 0); got != Transparent {
		t.Errorf("out-of-bounds At = %v", got)
	}

	c := o.Clone()
	o.Pix()[0] = Blue
	if c.At(0, 0) != Transparent {
		t.Error("Clone must not share storage")
	}
	c.CopyFrom(o)
	if c.At(0, 0) != Blue {
		t.Error("CopyFrom did not copy")
	}
}

func TestOverlayImage(t *testing.T) {
	o := NewOverlay(2, 2)
	o.Pix()[3] = RGBA{R: 1, A: 0.5}

	img := o.ToNRGBA()
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{R: 255, A: 128}) {
		t.Errorf("ToNRGBA pixel = %v", got)
	}

	view := o.Image()
	if view.Bounds() != o.Bounds() {
		t.Errorf("Image().Bounds() = %v", view.Bounds())
	}
	if got := view.At(1, 1); got != (color.NRGBA{R: 255, A: 128}) {
		t.Errorf("Image().At(1,1) = %v", got)
	}
}
