package outline

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/cespare/xxhash/v2"
)

// IDPair holds the outline group identifiers of one mask sample, one per
// layer. Zero means the sample belongs to no outline group on that layer.
type IDPair struct {
	A, B uint16
}

// Mask is a per-pixel object-ID buffer with one or four samples per pixel.
// It is produced by the scene renderer and read-only for the pipeline.
//
// Samples of a pixel are stored contiguously; sample s of pixel (x, y) is at
// index (y*width+x)*samples + s. For four samples the sub-pixel positions
// follow SamplePositions4x.
type Mask struct {
	width   int
	height  int
	samples int
	data    []IDPair
}

// NewMask creates an empty mask. samples must be 1 or 4; any other value
// panics since it is a programming error at setup time.
func NewMask(width, height, samples int) *Mask {
	if samples != 1 && samples != MultisampleCount {
		panic(fmt.Sprintf("outline: NewMask: unsupported sample count %d", samples))
	}
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("outline: NewMask: negative size %dx%d", width, height))
	}
	return &Mask{
		width:   width,
		height:  height,
		samples: samples,
		data:    make([]IDPair, width*height*samples),
	}
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// Samples returns the number of samples per pixel (1 or 4).
func (m *Mask) Samples() int { return m.samples }

// Bounds returns the mask dimensions as an image.Rectangle.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// At returns sample s of pixel (x, y). Out-of-bounds reads return the
// zero IDPair.
func (m *Mask) At(x, y, s int) IDPair {
	if x < 0 || x >= m.width || y < 0 || y >= m.height || s < 0 || s >= m.samples {
		return IDPair{}
	}
	return m.data[(y*m.width+x)*m.samples+s]
}

// Set stores id into sample s of pixel (x, y). Out-of-bounds writes are ignored.
func (m *Mask) Set(x, y, s int, id IDPair) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height || s < 0 || s >= m.samples {
		return
	}
	m.data[(y*m.width+x)*m.samples+s] = id
}

// SetPixel stores id into every sample of pixel (x, y).
func (m *Mask) SetPixel(x, y int, id IDPair) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	base := (y*m.width + x) * m.samples
	for s := 0; s < m.samples; s++ {
		m.data[base+s] = id
	}
}

// FillRect stores id into every sample of the w x h rectangle at (x, y),
// clipped to the mask.
func (m *Mask) FillRect(x, y, w, h int, id IDPair) {
	r := image.Rect(x, y, x+w, y+h).Intersect(m.Bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			m.SetPixel(px, py, id)
		}
	}
}

// pixel returns the samples of an in-bounds pixel without copying.
func (m *Mask) pixel(x, y int) []IDPair {
	base := (y*m.width + x) * m.samples
	return m.data[base : base+m.samples]
}

// Resolve returns a single-sample copy of the mask. Each layer takes the
// most common ID among the pixel's samples; ties go to the lowest sample
// index. A single-sample mask is returned as a copy.
func (m *Mask) Resolve() *Mask {
	out := NewMask(m.width, m.height, 1)
	if m.samples == 1 {
		copy(out.data, m.data)
		return out
	}
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			px := m.pixel(x, y)
			out.data[y*m.width+x] = IDPair{
				A: majority(px, func(p IDPair) uint16 { return p.A }),
				B: majority(px, func(p IDPair) uint16 { return p.B }),
			}
		}
	}
	return out
}

func majority(px []IDPair, layer func(IDPair) uint16) uint16 {
	best, bestCount := layer(px[0]), 0
	for i := range px {
		v := layer(px[i])
		n := 0
		for j := range px {
			if layer(px[j]) == v {
				n++
			}
		}
		if n > bestCount {
			best, bestCount = v, n
		}
	}
	return best
}

// Fingerprint returns a 64-bit xxhash of the mask size and contents.
// Equal masks have equal fingerprints.
func (m *Mask) Fingerprint() uint64 {
	d := xxhash.New()
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(m.width))   //nolint:gosec // dimensions fit uint32
	binary.LittleEndian.PutUint32(hdr[4:], uint32(m.height))  //nolint:gosec // dimensions fit uint32
	binary.LittleEndian.PutUint32(hdr[8:], uint32(m.samples)) //nolint:gosec // 1 or 4
	_, _ = d.Write(hdr[:])

	buf := make([]byte, 0, 4096)
	for _, id := range m.data {
		buf = binary.LittleEndian.AppendUint16(buf, id.A)
		buf = binary.LittleEndian.AppendUint16(buf, id.B)
		if len(buf) >= 4092 {
			_, _ = d.Write(buf)
			buf = buf[:0]
		}
	}
	_, _ = d.Write(buf)
	return d.Sum64()
}

// MaskFromImage builds a single-sample mask from an ID image: the red
// channel's 8-bit value is the layer A ID and the green channel's is the
// layer B ID.
func MaskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy(), 1)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			m.data[y*m.width+x] = IDPair{A: uint16(r >> 8), B: uint16(g >> 8)} //nolint:gosec // 8-bit channel
		}
	}
	return m
}
