//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/outline"
)

// paramsSize is the size of the WGSL Params uniform. vec4 members are
// 16-byte aligned, so the eight scalars are followed by the two colors.
const paramsSize = 64

// Per-pixel sizes of the storage buffers.
const (
	maskSampleSize = 4
	seedPixelSize  = 16
	overlayPxSize  = 16
)

// maxStorageBinding is the largest storage binding the accelerator uses;
// it matches the WebGPU default limit. Larger frames fall back to the CPU.
const maxStorageBinding = 128 << 20

// passParams mirrors the WGSL Params uniform.
type passParams struct {
	Width     uint32
	Height    uint32
	StepWidth uint32
	Samples   uint32
	Thickness float32
	Sharpness float32
	ColorA    [4]float32
	ColorB    [4]float32
}

func newPassParams(frame outline.Frame, step int) passParams {
	cfg := frame.Config
	return passParams{
		Width:     uint32(frame.Mask.Width()),   //nolint:gosec // bounded by pipeline setup
		Height:    uint32(frame.Mask.Height()),  //nolint:gosec // bounded by pipeline setup
		StepWidth: uint32(step),                 //nolint:gosec // step widths are below the buffer size
		Samples:   uint32(frame.Mask.Samples()), //nolint:gosec // 1 or 4
		Thickness: cfg.Thickness,
		Sharpness: cfg.EffectiveSharpness(),
		ColorA:    [4]float32{cfg.ColorA.R, cfg.ColorA.G, cfg.ColorA.B, cfg.ColorA.A},
		ColorB:    [4]float32{cfg.ColorB.R, cfg.ColorB.G, cfg.ColorB.B, cfg.ColorB.A},
	}
}

// bytes serializes the params in the uniform layout.
func (p passParams) bytes() []byte {
	buf := make([]byte, paramsSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], p.Width)
	le.PutUint32(buf[4:], p.Height)
	le.PutUint32(buf[8:], p.StepWidth)
	le.PutUint32(buf[12:], p.Samples)
	le.PutUint32(buf[16:], math.Float32bits(p.Thickness))
	le.PutUint32(buf[20:], math.Float32bits(p.Sharpness))
	// 24..32 is padding.
	for i := range 4 {
		le.PutUint32(buf[32+i*4:], math.Float32bits(p.ColorA[i]))
		le.PutUint32(buf[48+i*4:], math.Float32bits(p.ColorB[i]))
	}
	return buf
}

// packMask serializes the mask one u32 per sample: A | B<<16.
func packMask(m *outline.Mask) []byte {
	w, h, n := m.Width(), m.Height(), m.Samples()
	buf := make([]byte, 0, w*h*n*maskSampleSize)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for s := 0; s < n; s++ {
				id := m.At(x, y, s)
				buf = binary.LittleEndian.AppendUint32(buf, uint32(id.A)|uint32(id.B)<<16)
			}
		}
	}
	return buf
}

// unpackOverlay copies vec4<f32> pixels read back from the GPU into dst.
func unpackOverlay(data []byte, dst *outline.Overlay) {
	pix := dst.Pix()
	le := binary.LittleEndian
	for i := range pix {
		off := i * overlayPxSize
		if off+overlayPxSize > len(data) {
			return
		}
		pix[i] = outline.RGBA{
			R: math.Float32frombits(le.Uint32(data[off:])),
			G: math.Float32frombits(le.Uint32(data[off+4:])),
			B: math.Float32frombits(le.Uint32(data[off+8:])),
			A: math.Float32frombits(le.Uint32(data[off+12:])),
		}
	}
}

// bufferSlot names the storage buffers of a frame.
type bufferSlot int

const (
	slotMask bufferSlot = iota
	slotSeeds0
	slotSeeds1
	slotOverlay

	slotCount
)

// passPlan is one compute pass: the program it runs, its step width and
// the buffers bound as input (binding 1) and output (binding 2).
type passPlan struct {
	program program
	step    int
	src     bufferSlot
	dst     bufferSlot
}

// planPasses lays out the passes of one frame. The resolver writes seeds0;
// each jump-flood pass reads the buffer the previous pass wrote and writes
// the other one; the composite reads the last written seed buffer.
func planPasses(mode outline.ResolveMode, steps []int) []passPlan {
	resolve := programResolve
	if mode == outline.ResolveMultisample {
		resolve = programResolveMSAA
	}

	plan := make([]passPlan, 0, len(steps)+2)
	plan = append(plan, passPlan{program: resolve, src: slotMask, dst: slotSeeds0})

	read, write := slotSeeds0, slotSeeds1
	for _, s := range steps {
		plan = append(plan, passPlan{program: programStep, step: s, src: read, dst: write})
		read, write = write, read
	}
	return append(plan, passPlan{program: programComposite, src: read, dst: slotOverlay})
}

// bufferSizes returns the byte size of every storage buffer of a frame.
func bufferSizes(m *outline.Mask) [slotCount]uint64 {
	pixels := uint64(m.Width()) * uint64(m.Height()) //nolint:gosec // non-negative dimensions
	return [slotCount]uint64{
		slotMask:    pixels * uint64(m.Samples()) * maskSampleSize, //nolint:gosec // 1 or 4
		slotSeeds0:  pixels * seedPixelSize,
		slotSeeds1:  pixels * seedPixelSize,
		slotOverlay: pixels * overlayPxSize,
	}
}

// fitsLimits reports whether every buffer of the frame can be bound.
func fitsLimits(sizes [slotCount]uint64) bool {
	for _, s := range sizes {
		if s == 0 || s > maxStorageBinding {
			return false
		}
	}
	return true
}
