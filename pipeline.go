package outline

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/gogpu/outline/internal/cache"
	"github.com/gogpu/outline/internal/parallel"
)

// Pipeline owns the buffers of one outline renderer and sequences its passes:
// resolve, one jump-flood pass per step width, composite.
//
// Every pass covers the whole buffer and completes before the next starts.
// The two seed buffers alternate roles between jump-flood passes and are
// never read and written by the same pass.
//
// A Pipeline renders one frame at a time; Render calls from several
// goroutines are serialized.
type Pipeline struct {
	mu sync.Mutex

	width   int
	height  int
	samples int

	mode    ResolveMode
	resolve Resolver
	steps   []int

	seeds *SeedPingPong
	pool  *parallel.WorkerPool

	accel   Accelerator
	cpuOnly bool

	frames *cache.Cache[*Overlay]

	closed bool
}

// NewPipeline creates a pipeline for masks of width x height pixels.
//
// The resolver variant and the step-width sequence are fixed here. Setup
// fails with ErrInvalidDimensions, ErrUnsupportedSamples or
// ErrInvalidConfig; no pass runs with unchecked preconditions.
func NewPipeline(width, height int, opts ...Option) (*Pipeline, error) {
	if width <= 0 || height <= 0 || width > math.MaxUint16 || height > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	mode, err := SelectResolveMode(o.mode, o.samples, o.caps)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		width:   width,
		height:  height,
		samples: o.samples,
		mode:    mode,
		resolve: mode.Resolver(),
		steps:   StepWidths(width, height),
		seeds:   NewSeedPingPong(width, height),
		accel:   o.accel,
		cpuOnly: o.cpuOnly,
	}
	if o.workers != 1 {
		p.pool = parallel.NewWorkerPool(o.workers)
	}
	if o.cacheSize > 0 {
		p.frames = cache.New[*Overlay](o.cacheSize)
	}

	Logger().Debug("outline: pipeline created",
		"width", width, "height", height,
		"samples", o.samples, "mode", mode.String(),
		"passes", len(p.steps))
	return p, nil
}

// Width returns the pipeline width in pixels.
func (p *Pipeline) Width() int { return p.width }

// Height returns the pipeline height in pixels.
func (p *Pipeline) Height() int { return p.height }

// Mode returns the resolver variant selected at setup.
func (p *Pipeline) Mode() ResolveMode { return p.mode }

// Steps returns a copy of the jump-flood step-width sequence.
func (p *Pipeline) Steps() []int {
	return append([]int(nil), p.steps...)
}

// Close releases the worker pool. Close is safe to call multiple times.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.pool != nil {
		p.pool.Close()
	}
	if p.frames != nil {
		p.frames.Clear()
	}
}

// Render runs the full pass sequence for mask and returns the composited
// overlay.
//
// ctx is checked between passes. If it is done the frame is abandoned and
// the context error is returned; there is no partial result.
func (p *Pipeline) Render(ctx context.Context, mask *Mask, cfg Config) (*Overlay, error) {
	dst := NewOverlay(p.width, p.height)
	if err := p.RenderInto(ctx, dst, mask, cfg); err != nil {
		return nil, err
	}
	return dst, nil
}

// RenderInto is like Render but writes into an existing overlay of the
// pipeline's size. dst is left untouched when an error is returned.
func (p *Pipeline) RenderInto(ctx context.Context, dst *Overlay, mask *Mask, cfg Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.check(mask); err != nil {
		return err
	}
	if dst == nil || dst.width != p.width || dst.height != p.height {
		return fmt.Errorf("%w: overlay does not match pipeline %dx%d", ErrSizeMismatch, p.width, p.height)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("outline: frame abandoned: %w", err)
	}

	start := time.Now()

	var key cache.Key
	if p.frames != nil {
		key = frameKey(mask, cfg)
		if hit, ok := p.frames.Get(key); ok {
			dst.CopyFrom(hit)
			Logger().Debug("outline: frame cache hit", "key", key)
			return nil
		}
	}

	mask = p.prepare(mask)

	backend := p.renderGPU(dst, mask, cfg)
	if backend == "" {
		if err := p.renderCPU(ctx, dst, mask, cfg); err != nil {
			return err
		}
		backend = "cpu"
	}

	if p.frames != nil {
		p.frames.Set(key, dst.Clone())
	}

	Logger().Debug("outline: frame rendered",
		"backend", backend,
		"passes", len(p.steps)+2,
		"elapsed", time.Since(start))
	return nil
}

// Seeds runs the resolver and every jump-flood pass and returns a copy of
// the converged seed buffer.
func (p *Pipeline) Seeds(ctx context.Context, mask *Mask) (*SeedBuffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.check(mask); err != nil {
		return nil, err
	}
	seeds, err := p.flood(ctx, p.prepare(mask))
	if err != nil {
		return nil, err
	}
	return seeds.Clone(), nil
}

// check validates a mask against the pipeline. The caller must hold p.mu.
func (p *Pipeline) check(mask *Mask) error {
	if p.closed {
		return ErrPipelineClosed
	}
	if mask == nil {
		return ErrNilMask
	}
	if mask.width != p.width || mask.height != p.height {
		return fmt.Errorf("%w: mask %dx%d, pipeline %dx%d",
			ErrSizeMismatch, mask.width, mask.height, p.width, p.height)
	}
	if mask.samples != p.samples {
		return fmt.Errorf("%w: mask has %d samples, pipeline expects %d",
			ErrUnsupportedSamples, mask.samples, p.samples)
	}
	return nil
}

// prepare returns the mask the selected resolver reads: multisampled masks
// on a single-sample pipeline are resolved to one sample first.
func (p *Pipeline) prepare(mask *Mask) *Mask {
	if p.mode == ResolveSingleSample && mask.samples != 1 {
		return mask.Resolve()
	}
	return mask
}

// renderGPU tries the accelerator. It returns the backend name on success,
// "" when the frame must be rendered on the CPU.
func (p *Pipeline) renderGPU(dst *Overlay, mask *Mask, cfg Config) string {
	if p.cpuOnly {
		return ""
	}
	a := p.accel
	if a == nil {
		a = RegisteredAccelerator()
	}
	if a == nil || !a.CanAccelerate(p.mode) {
		return ""
	}

	// The accelerator writes into a scratch overlay so that a failed GPU
	// frame cannot leave dst half written.
	scratch := NewOverlay(p.width, p.height)
	err := a.Render(Frame{Mask: mask, Mode: p.mode, Steps: p.steps, Config: cfg}, scratch)
	switch {
	case err == nil:
		dst.CopyFrom(scratch)
		return a.Name()
	case errors.Is(err, ErrFallbackToCPU):
		return ""
	default:
		Logger().Warn("outline: accelerator failed, using CPU", "accelerator", a.Name(), "err", err)
		return ""
	}
}

// renderCPU runs every pass over the worker pool.
func (p *Pipeline) renderCPU(ctx context.Context, dst *Overlay, mask *Mask, cfg Config) error {
	seeds, err := p.flood(ctx, mask)
	if err != nil {
		return err
	}
	parallel.ForRows(p.pool, p.height, func(y0, y1 int) {
		CompositeRows(dst, seeds, cfg, y0, y1)
	})
	return nil
}

// flood runs the resolver pass followed by one jump-flood pass per step
// width and returns the buffer holding the converged seeds.
func (p *Pipeline) flood(ctx context.Context, mask *Mask) (*SeedBuffer, error) {
	pp := p.seeds
	pp.Reset()

	first := pp.Read()
	parallel.ForRows(p.pool, p.height, func(y0, y1 int) {
		p.resolve(first, mask, y0, y1)
	})

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("outline: frame abandoned: %w", err)
		}
		src, dst := pp.Read(), pp.Write()
		parallel.ForRows(p.pool, p.height, func(y0, y1 int) {
			JumpFloodRows(dst, src, step, y0, y1)
		})
		pp.Swap()
	}
	return pp.Read(), nil
}

// frameKey fingerprints everything that determines a frame's overlay.
func frameKey(mask *Mask, cfg Config) cache.Key {
	var buf [8 + 10*4]byte
	binary.LittleEndian.PutUint64(buf[0:], mask.Fingerprint())
	fields := [...]float32{
		cfg.ColorA.R, cfg.ColorA.G, cfg.ColorA.B, cfg.ColorA.A,
		cfg.ColorB.R, cfg.ColorB.G, cfg.ColorB.B, cfg.ColorB.A,
		cfg.Thickness, cfg.EffectiveSharpness(),
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[8+i*4:], math.Float32bits(f))
	}
	return xxhash.Sum64(buf[:])
}
