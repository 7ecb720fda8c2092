package outline

import "fmt"

// MultisampleCount is the number of samples per pixel of a multisampled mask.
const MultisampleCount = 4

// SamplePositions4x are the standard 4x MSAA sample positions in unit-pixel
// coordinates (y down), indexed by sample: s0 top, s1 right, s2 left,
// s3 bottom. They equal (6,2), (14,6), (2,10), (10,14) in 1/16 pixel units.
var SamplePositions4x = [MultisampleCount]Vec2{
	{X: 0.375, Y: 0.125},
	{X: 0.875, Y: 0.375},
	{X: 0.125, Y: 0.625},
	{X: 0.625, Y: 0.875},
}

// neighborEdge describes one of the 8 neighbor comparisons of the resolver.
// edge is the canonical unit-pixel position recorded when the IDs differ.
// In multisampled mode sample own of the center pixel is compared against
// sample other of the neighbor: the pair of samples closest to the shared
// edge or corner.
type neighborEdge struct {
	dx, dy int
	edge   Vec2
	own    int
	other  int
}

// neighborEdges is shared by both resolver modes so their edge conventions
// cannot diverge.
var neighborEdges = [8]neighborEdge{
	{dx: 1, dy: 0, edge: Vec2{X: 1, Y: 0.5}, own: 1, other: 2},  // right
	{dx: -1, dy: 0, edge: Vec2{X: 0, Y: 0.5}, own: 2, other: 1}, // left
	{dx: 0, dy: -1, edge: Vec2{X: 0.5, Y: 0}, own: 0, other: 3}, // top
	{dx: 0, dy: 1, edge: Vec2{X: 0.5, Y: 1}, own: 3, other: 0},  // bottom
	{dx: 1, dy: -1, edge: Vec2{X: 1, Y: 0}, own: 1, other: 2},   // top-right
	{dx: -1, dy: 1, edge: Vec2{X: 0, Y: 1}, own: 2, other: 1},   // bottom-left
	{dx: -1, dy: -1, edge: Vec2{X: 0, Y: 0}, own: 0, other: 3},  // top-left
	{dx: 1, dy: 1, edge: Vec2{X: 1, Y: 1}, own: 3, other: 0},    // bottom-right
}

// internalEdge is a pair of adjacent samples inside one pixel. A mismatch
// records the midpoint of the two sample positions.
type internalEdge struct {
	a, b int
	edge Vec2
}

var internalEdges = [4]internalEdge{
	{a: 0, b: 1, edge: Vec2{X: 0.625, Y: 0.25}},
	{a: 1, b: 3, edge: Vec2{X: 0.75, Y: 0.625}},
	{a: 3, b: 2, edge: Vec2{X: 0.375, Y: 0.75}},
	{a: 2, b: 0, edge: Vec2{X: 0.25, Y: 0.375}},
}

// ResolveMode selects the Mask Resolver variant.
type ResolveMode int

const (
	// ResolveAuto picks multisampled resolve when the mask has four samples
	// and the platform supports multisampled masks, single-sample otherwise.
	ResolveAuto ResolveMode = iota

	// ResolveSingleSample compares each pixel against its 8 neighbors.
	ResolveSingleSample

	// ResolveMultisample reads all four samples of each pixel and the
	// matching samples of its neighbors.
	ResolveMultisample
)

// String returns the mode name.
func (m ResolveMode) String() string {
	switch m {
	case ResolveAuto:
		return "auto"
	case ResolveSingleSample:
		return "single-sample"
	case ResolveMultisample:
		return "multisample"
	default:
		return fmt.Sprintf("ResolveMode(%d)", int(m))
	}
}

// Capabilities describes what the platform can provide to the resolver.
type Capabilities struct {
	// MultisampledMask reports whether multisampled mask storage is available.
	MultisampledMask bool
}

// DefaultCapabilities returns the capabilities of the CPU implementation,
// which can read multisampled masks directly.
func DefaultCapabilities() Capabilities {
	return Capabilities{MultisampledMask: true}
}

// SelectResolveMode resolves requested into a concrete mode for masks with
// the given sample count. A four-sample mask on a platform without
// multisampled mask storage selects ResolveSingleSample; the pipeline then
// resolves the mask to one sample before the first pass.
func SelectResolveMode(requested ResolveMode, samples int, caps Capabilities) (ResolveMode, error) {
	if samples != 1 && samples != MultisampleCount {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedSamples, samples)
	}
	switch requested {
	case ResolveAuto:
		if samples == MultisampleCount && caps.MultisampledMask {
			return ResolveMultisample, nil
		}
		return ResolveSingleSample, nil
	case ResolveSingleSample:
		return ResolveSingleSample, nil
	case ResolveMultisample:
		if samples != MultisampleCount {
			return 0, fmt.Errorf("%w: multisample resolve needs %d samples, mask has %d",
				ErrUnsupportedSamples, MultisampleCount, samples)
		}
		if !caps.MultisampledMask {
			return 0, fmt.Errorf("%w: platform has no multisampled mask storage", ErrUnsupportedSamples)
		}
		return ResolveMultisample, nil
	default:
		return 0, fmt.Errorf("%w: unknown resolve mode %d", ErrInvalidConfig, int(requested))
	}
}

// Resolver is one Mask Resolver pass over rows [y0, y1) of dst.
// Rows are independent, so disjoint row ranges may run concurrently.
type Resolver func(dst *SeedBuffer, mask *Mask, y0, y1 int)

// Resolver returns the pass function for a concrete mode.
// ResolveAuto has no pass function of its own and returns nil.
func (m ResolveMode) Resolver() Resolver {
	switch m {
	case ResolveSingleSample:
		return ResolveSingleSampleRows
	case ResolveMultisample:
		return ResolveMultisampleRows
	default:
		return nil
	}
}

// edgeAccum accumulates edge contributions of one pixel for both layers.
type edgeAccum struct {
	sumA, sumB Vec2
	nA, nB     int
}

func (e *edgeAccum) add(a, b IDPair, pos Vec2) {
	if a.A != b.A {
		e.sumA = e.sumA.Add(pos)
		e.nA++
	}
	if a.B != b.B {
		e.sumB = e.sumB.Add(pos)
		e.nB++
	}
}

func (e *edgeAccum) seeds(x, y int) SeedPair {
	center := PixelCenter(x, y)
	return SeedPair{
		A: edgeSeed(e.sumA, e.nA, center),
		B: edgeSeed(e.sumB, e.nB, center),
	}
}

// edgeSeed averages n unit-pixel edge positions, re-centers the average
// from [0,1] to [-0.5,0.5] and offsets it by the pixel center. With no
// edges the result is NoSeed.
func edgeSeed(sum Vec2, n int, center Vec2) Vec2 {
	if n == 0 {
		return NoSeed
	}
	avg := sum.Mul(1 / float32(n))
	return Vec2{X: avg.X - 0.5 + center.X, Y: avg.Y - 0.5 + center.Y}
}

// ResolveSingleSampleRows compares every pixel of rows [y0, y1) against its 8
// neighbors in a single-sample mask. Neighbor coordinates are clamped to
// the buffer, so pixels on the border see themselves beyond the edge.
func ResolveSingleSampleRows(dst *SeedBuffer, mask *Mask, y0, y1 int) {
	w, h := mask.width, mask.height
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			center := mask.data[y*w+x]
			var acc edgeAccum
			for i := range neighborEdges {
				nb := &neighborEdges[i]
				nx := clampIndex(x+nb.dx, w)
				ny := clampIndex(y+nb.dy, h)
				acc.add(center, mask.data[ny*w+nx], nb.edge)
			}
			dst.data[y*w+x] = acc.seeds(x, y)
		}
	}
}

// ResolveMultisampleRows resolves rows [y0, y1) of a four-sample mask. Internal
// sample pairs are compared first, then each neighbor pair from
// neighborEdges. Neighbor coordinates are clamped like in single-sample mode.
func ResolveMultisampleRows(dst *SeedBuffer, mask *Mask, y0, y1 int) {
	w, h := mask.width, mask.height
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			own := mask.pixel(x, y)
			var acc edgeAccum
			for i := range internalEdges {
				ie := &internalEdges[i]
				acc.add(own[ie.a], own[ie.b], ie.edge)
			}
			for i := range neighborEdges {
				nb := &neighborEdges[i]
				other := mask.pixel(clampIndex(x+nb.dx, w), clampIndex(y+nb.dy, h))
				acc.add(own[nb.own], other[nb.other], nb.edge)
			}
			dst.data[y*w+x] = acc.seeds(x, y)
		}
	}
}
