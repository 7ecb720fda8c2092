//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/outline"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// fenceTimeout bounds the wait for one frame.
const fenceTimeout = 5 * time.Second

// JFAAccelerator runs the outline pipeline as wgpu/hal compute passes.
// It implements outline.Accelerator.
//
// All passes of a frame are recorded into one command encoder and
// submitted with a single fence wait. If no GPU is available, Init still
// succeeds and Render returns outline.ErrFallbackToCPU.
type JFAAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	modules    [programCount]hal.ShaderModule
	pipelines  [programCount]hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // shared device; not destroyed on Close
}

var _ outline.Accelerator = (*JFAAccelerator)(nil)

func (a *JFAAccelerator) Name() string { return "jfa-gpu" }

// CanAccelerate reports whether the accelerator has a pipeline for mode.
func (a *JFAAccelerator) CanAccelerate(mode outline.ResolveMode) bool {
	return mode == outline.ResolveSingleSample || mode == outline.ResolveMultisample
}

// Init opens a GPU device. A missing GPU is not an error: it is logged and
// every frame falls back to the CPU.
func (a *JFAAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		slogger().Warn("outline: GPU init failed, using CPU passes", "err", err)
	}
	return nil
}

// Ready reports whether frames run on the GPU.
func (a *JFAAccelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// SetLogger implements the logger propagation of outline.SetLogger.
func (a *JFAAccelerator) SetLogger(l *slog.Logger) {
	setLogger(l)
}

func (a *JFAAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()
}

func (a *JFAAccelerator) releaseLocked() {
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to a shared GPU device. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func (a *JFAAccelerator) SetDeviceProvider(provider any) error {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseLocked()
	if err := a.adoptDevice(device, queue, true); err != nil {
		return fmt.Errorf("outline/gpu: create pipelines with shared device: %w", err)
	}
	slogger().Info("outline: switched to shared GPU device")
	return nil
}

// adoptDevice builds the pipelines on device. On failure every object
// created so far is destroyed, an owned device is destroyed too, and the
// accelerator is left without a device.
func (a *JFAAccelerator) adoptDevice(device hal.Device, queue hal.Queue, external bool) error {
	a.device = device
	a.queue = queue
	a.externalDevice = external
	if err := a.createPipelines(); err != nil {
		a.destroyPipelines()
		if !external {
			a.device.Destroy()
		}
		a.device = nil
		a.queue = nil
		a.externalDevice = false
		a.gpuReady = false
		return err
	}
	a.gpuReady = true
	return nil
}

// halFromProvider extracts HAL handles from a device provider.
func halFromProvider(provider any) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, errors.New("outline/gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, errors.New("outline/gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, errors.New("outline/gpu: provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}

// Render runs every pass of frame on the GPU and writes the overlay to dst.
func (a *JFAAccelerator) Render(frame outline.Frame, dst *outline.Overlay) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady || frame.Mask == nil {
		return outline.ErrFallbackToCPU
	}
	sizes := bufferSizes(frame.Mask)
	if !fitsLimits(sizes) {
		return outline.ErrFallbackToCPU
	}

	start := time.Now()
	if err := a.dispatch(frame, sizes, dst); err != nil {
		return fmt.Errorf("outline/gpu: %w", err)
	}
	slogger().Debug("outline: GPU frame",
		"width", frame.Mask.Width(), "height", frame.Mask.Height(),
		"passes", len(frame.Steps)+2, "elapsed", time.Since(start))
	return nil
}

func (a *JFAAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	if err := a.adoptDevice(openDev.Device, openDev.Queue, false); err != nil {
		return fmt.Errorf("create pipelines: %w", err)
	}
	slogger().Info("outline: GPU accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *JFAAccelerator) createPipelines() error {
	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "outline_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "outline_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	for p := program(0); p < programCount; p++ {
		spirv, err := compileSPIRV(p.source())
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  p.String(),
			Source: hal.ShaderSource{SPIRV: spirv},
		})
		if err != nil {
			return fmt.Errorf("create %s shader module: %w", p, err)
		}
		a.modules[p] = module

		pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
			Label: p.String(), Layout: a.pipeLayout,
			Compute: hal.ComputeState{Module: module, EntryPoint: "main"},
		})
		if err != nil {
			return fmt.Errorf("create %s pipeline: %w", p, err)
		}
		a.pipelines[p] = pipeline
	}
	return nil
}

func (a *JFAAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	for p := range a.pipelines {
		if a.pipelines[p] != nil {
			a.device.DestroyComputePipeline(a.pipelines[p])
			a.pipelines[p] = nil
		}
		if a.modules[p] != nil {
			a.device.DestroyShaderModule(a.modules[p])
			a.modules[p] = nil
		}
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
}
