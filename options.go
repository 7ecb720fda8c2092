package outline

// Option configures a Pipeline during creation.
//
// Example:
//
//	// Default: single-sample masks, registered accelerator, GOMAXPROCS workers
//	p, err := outline.NewPipeline(1280, 720)
//
//	// Multisampled masks, CPU only, 4 workers
//	p, err := outline.NewPipeline(1280, 720,
//	    outline.WithMaskSamples(4),
//	    outline.WithCPUOnly(),
//	    outline.WithWorkers(4),
//	)
type Option func(*pipelineOptions)

// pipelineOptions holds optional configuration for Pipeline creation.
type pipelineOptions struct {
	workers   int
	samples   int
	mode      ResolveMode
	caps      Capabilities
	accel     Accelerator
	cpuOnly   bool
	cacheSize int
}

// defaultOptions returns the default pipeline options.
func defaultOptions() pipelineOptions {
	return pipelineOptions{
		workers: 0, // GOMAXPROCS
		samples: 1,
		mode:    ResolveAuto,
		caps:    DefaultCapabilities(),
	}
}

// WithWorkers sets the number of CPU workers. Zero or negative uses
// GOMAXPROCS; 1 runs every pass on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *pipelineOptions) {
		o.workers = n
	}
}

// WithMaskSamples sets the sample count of the masks the pipeline will be
// given (1 or 4). Render rejects masks with a different count.
func WithMaskSamples(n int) Option {
	return func(o *pipelineOptions) {
		o.samples = n
	}
}

// WithResolveMode forces a resolver variant instead of ResolveAuto.
func WithResolveMode(m ResolveMode) Option {
	return func(o *pipelineOptions) {
		o.mode = m
	}
}

// WithCapabilities overrides the platform capabilities used to select the
// resolver. Passing Capabilities{} selects single-sample resolve for
// multisampled masks, which are then resolved to one sample per frame.
func WithCapabilities(c Capabilities) Option {
	return func(o *pipelineOptions) {
		o.caps = c
	}
}

// WithAccelerator uses a instead of the globally registered accelerator.
func WithAccelerator(a Accelerator) Option {
	return func(o *pipelineOptions) {
		o.accel = a
	}
}

// WithCPUOnly disables GPU acceleration for the pipeline.
func WithCPUOnly() Option {
	return func(o *pipelineOptions) {
		o.cpuOnly = true
	}
}

// WithFrameCache keeps the overlays of the last n distinct frames and
// returns a copy without re-running the passes when the same mask and
// configuration are rendered again. Zero disables the cache.
func WithFrameCache(n int) Option {
	return func(o *pipelineOptions) {
		o.cacheSize = n
	}
}
