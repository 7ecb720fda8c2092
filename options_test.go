package outline

import (
	"errors"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.samples != 1 {
		t.Errorf("samples = %d, want 1", o.samples)
	}
	if o.mode != ResolveAuto {
		t.Errorf("mode = %v, want auto", o.mode)
	}
	if !o.caps.MultisampledMask {
		t.Error("default capabilities should include multisampled masks")
	}
	if o.cpuOnly || o.accel != nil || o.cacheSize != 0 {
		t.Error("defaults should not force CPU, set an accelerator or enable the cache")
	}
}

func TestOptionsApply(t *testing.T) {
	mock := &mockAccelerator{name: "opt"}
	o := defaultOptions()
	for _, opt := range []Option{
		WithWorkers(3),
		WithMaskSamples(4),
		WithResolveMode(ResolveMultisample),
		WithCapabilities(Capabilities{}),
		WithAccelerator(mock),
		WithCPUOnly(),
		WithFrameCache(8),
	} {
		opt(&o)
	}

	if o.workers != 3 || o.samples != 4 || o.mode != ResolveMultisample {
		t.Errorf("workers/samples/mode = %d/%d/%v", o.workers, o.samples, o.mode)
	}
	if o.caps.MultisampledMask {
		t.Error("capabilities not overridden")
	}
	if o.accel != mock || !o.cpuOnly || o.cacheSize != 8 {
		t.Error("accelerator, cpuOnly or cache size not applied")
	}
}

func TestNewPipelineModeSelection(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want ResolveMode
	}{
		{"default", nil, ResolveSingleSample},
		{"4x auto", []Option{WithMaskSamples(4)}, ResolveMultisample},
		{"4x without msaa storage", []Option{WithMaskSamples(4), WithCapabilities(Capabilities{})}, ResolveSingleSample},
		{"4x forced single", []Option{WithMaskSamples(4), WithResolveMode(ResolveSingleSample)}, ResolveSingleSample},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPipeline(16, 16, append(tt.opts, WithCPUOnly())...)
			if err != nil {
				t.Fatal(err)
			}
			defer p.Close()
			if p.Mode() != tt.want {
				t.Errorf("Mode() = %v, want %v", p.Mode(), tt.want)
			}
		})
	}
}

func TestNewPipelineRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{"two samples", []Option{WithMaskSamples(2)}, ErrUnsupportedSamples},
		{"msaa on 1x", []Option{WithResolveMode(ResolveMultisample)}, ErrUnsupportedSamples},
		{"msaa without storage", []Option{
			WithMaskSamples(4), WithResolveMode(ResolveMultisample), WithCapabilities(Capabilities{}),
		}, ErrUnsupportedSamples},
		{"unknown mode", []Option{WithResolveMode(ResolveMode(42))}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPipeline(16, 16, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewPipeline() = %v, want %v", err, tt.want)
			}
		})
	}
}
