package outline

import (
	"image"
	"image/color"
)

// Overlay is the composited outline output: one straight-alpha RGBA value
// per pixel, meant to be blended over the scene by the host compositor.
type Overlay struct {
	width  int
	height int
	data   []RGBA
}

// NewOverlay creates a transparent overlay.
func NewOverlay(width, height int) *Overlay {
	return &Overlay{
		width:  width,
		height: height,
		data:   make([]RGBA, width*height),
	}
}

// Width returns the overlay width.
func (o *Overlay) Width() int { return o.width }

// Height returns the overlay height.
func (o *Overlay) Height() int { return o.height }

// Bounds returns the overlay dimensions as an image.Rectangle.
func (o *Overlay) Bounds() image.Rectangle {
	return image.Rect(0, 0, o.width, o.height)
}

// At returns the color of pixel (x, y). Out-of-bounds reads are transparent.
func (o *Overlay) At(x, y int) RGBA {
	if x < 0 || x >= o.width || y < 0 || y >= o.height {
		return Transparent
	}
	return o.data[y*o.width+x]
}

// Pix returns the underlying row-major pixel slice.
func (o *Overlay) Pix() []RGBA { return o.data }

// Clone returns a deep copy of the overlay.
func (o *Overlay) Clone() *Overlay {
	c := NewOverlay(o.width, o.height)
	copy(c.data, o.data)
	return c
}

// CopyFrom copies src into o. Both must have the same size.
func (o *Overlay) CopyFrom(src *Overlay) {
	copy(o.data, src.data)
}

// ToNRGBA converts the overlay to an 8-bit straight-alpha image.
func (o *Overlay) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(o.Bounds())
	for y := 0; y < o.height; y++ {
		for x := 0; x < o.width; x++ {
			img.SetNRGBA(x, y, o.data[y*o.width+x].NRGBA())
		}
	}
	return img
}

// Image returns the overlay as an image.Image without copying.
func (o *Overlay) Image() image.Image { return overlayImage{o} }

// overlayImage adapts Overlay to image.Image; Overlay.At has a different
// signature so the adapter is a separate type.
type overlayImage struct{ o *Overlay }

func (im overlayImage) ColorModel() color.Model { return color.NRGBAModel }
func (im overlayImage) Bounds() image.Rectangle { return im.o.Bounds() }
func (im overlayImage) At(x, y int) color.Color { return im.o.At(x, y).NRGBA() }
