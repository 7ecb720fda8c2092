package outline

// sentinelCoord is the coordinate of NoSeed. Its squared distance to any
// pixel of a buffer up to 65535 pixels wide stays finite in float32 (~2e32)
// and is larger than any in-buffer distance.
const sentinelCoord = -1e16

// sentinelThreshold separates NoSeed from real positions, which are never
// more than a few pixels outside the buffer.
const sentinelThreshold = -1e15

// NoSeed is the seed value of a pixel for which no edge was found.
// It loses every nearest-seed comparison against a real seed.
var NoSeed = Vec2{X: sentinelCoord, Y: sentinelCoord}

// IsSentinel reports whether v is the NoSeed value.
func IsSentinel(v Vec2) bool {
	return v.X <= sentinelThreshold
}

// SeedPair holds the nearest known seed of a pixel for both outline layers.
type SeedPair struct {
	A, B Vec2
}

// emptySeeds is the SeedPair of a pixel with no seed on either layer.
var emptySeeds = SeedPair{A: NoSeed, B: NoSeed}

// SeedBuffer is a width x height buffer of seed positions (the jump-flood
// texture).
type SeedBuffer struct {
	width  int
	height int
	data   []SeedPair
}

// NewSeedBuffer creates a seed buffer with every pixel set to NoSeed.
func NewSeedBuffer(width, height int) *SeedBuffer {
	b := &SeedBuffer{
		width:  width,
		height: height,
		data:   make([]SeedPair, width*height),
	}
	b.Clear()
	return b
}

// Width returns the buffer width.
func (b *SeedBuffer) Width() int { return b.width }

// Height returns the buffer height.
func (b *SeedBuffer) Height() int { return b.height }

// At returns the seeds of pixel (x, y). Coordinates are clamped to the buffer.
func (b *SeedBuffer) At(x, y int) SeedPair {
	return b.data[clampIndex(y, b.height)*b.width+clampIndex(x, b.width)]
}

// Set stores the seeds of pixel (x, y). Out-of-bounds writes are ignored.
func (b *SeedBuffer) Set(x, y int, s SeedPair) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.data[y*b.width+x] = s
}

// Clear resets every pixel to NoSeed on both layers.
func (b *SeedBuffer) Clear() {
	for i := range b.data {
		b.data[i] = emptySeeds
	}
}

// Clone returns a deep copy of the buffer.
func (b *SeedBuffer) Clone() *SeedBuffer {
	c := &SeedBuffer{width: b.width, height: b.height, data: make([]SeedPair, len(b.data))}
	copy(c.data, b.data)
	return c
}

// Equal reports whether two buffers have the same size and identical seeds.
func (b *SeedBuffer) Equal(o *SeedBuffer) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i := range b.data {
		if b.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// SeedPingPong is the pair of seed buffers the jump-flood passes alternate
// between. A pass reads Read() and writes Write(); Swap exchanges the roles.
// The same buffer is never read and written by one pass.
type SeedPingPong struct {
	bufs [2]*SeedBuffer
	pass int
}

// NewSeedPingPong allocates both buffers.
func NewSeedPingPong(width, height int) *SeedPingPong {
	return &SeedPingPong{
		bufs: [2]*SeedBuffer{NewSeedBuffer(width, height), NewSeedBuffer(width, height)},
	}
}

// Read returns the buffer the current pass reads from.
func (pp *SeedPingPong) Read() *SeedBuffer { return pp.bufs[pp.pass&1] }

// Write returns the buffer the current pass writes to.
func (pp *SeedPingPong) Write() *SeedBuffer { return pp.bufs[(pp.pass+1)&1] }

// Swap makes the last written buffer the next read buffer.
func (pp *SeedPingPong) Swap() { pp.pass++ }

// Pass returns the number of swaps since the last Reset.
func (pp *SeedPingPong) Pass() int { return pp.pass }

// Reset restores the initial roles without clearing contents.
func (pp *SeedPingPong) Reset() { pp.pass = 0 }

// clampIndex clamps i into [0, n-1].
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
