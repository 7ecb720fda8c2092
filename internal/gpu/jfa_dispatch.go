//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/outline"
)

// frameBuffers holds the GPU buffers of one frame.
type frameBuffers struct {
	storage [slotCount]hal.Buffer
	sizes   [slotCount]uint64
	staging hal.Buffer
}

// dispatch uploads the mask, records every pass of the frame into one
// command encoder, submits it and reads the overlay back into dst.
// The caller must hold a.mu.
func (a *JFAAccelerator) dispatch(frame outline.Frame, sizes [slotCount]uint64, dst *outline.Overlay) error {
	bufs, err := a.createFrameBuffers(sizes)
	defer a.destroyFrameBuffers(bufs)
	if err != nil {
		return err
	}
	a.queue.WriteBuffer(bufs.storage[slotMask], 0, packMask(frame.Mask))

	plan := planPasses(frame.Mode, frame.Steps)
	uniforms, groups, err := a.createPassBindings(plan, frame, bufs)
	defer a.cleanupBindings(uniforms, groups)
	if err != nil {
		return err
	}

	w := uint32(frame.Mask.Width())  //nolint:gosec // bounded by pipeline setup
	h := uint32(frame.Mask.Height()) //nolint:gosec // bounded by pipeline setup
	readback, err := a.encodeAndSubmit(plan, groups, bufs, w, h)
	if err != nil {
		return err
	}
	unpackOverlay(readback, dst)
	return nil
}

func (a *JFAAccelerator) createFrameBuffers(sizes [slotCount]uint64) (*frameBuffers, error) {
	bufs := &frameBuffers{sizes: sizes}
	labels := [slotCount]string{
		slotMask:    "outline_mask",
		slotSeeds0:  "outline_seeds0",
		slotSeeds1:  "outline_seeds1",
		slotOverlay: "outline_overlay",
	}
	for slot := bufferSlot(0); slot < slotCount; slot++ {
		buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
			Label: labels[slot], Size: sizes[slot],
			Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return bufs, fmt.Errorf("create %s buffer: %w", labels[slot], err)
		}
		bufs.storage[slot] = buf
	}

	staging, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "outline_staging", Size: sizes[slotOverlay],
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return bufs, fmt.Errorf("create staging buffer: %w", err)
	}
	bufs.staging = staging
	return bufs, nil
}

func (a *JFAAccelerator) destroyFrameBuffers(bufs *frameBuffers) {
	if bufs == nil {
		return
	}
	for _, b := range bufs.storage {
		if b != nil {
			a.device.DestroyBuffer(b)
		}
	}
	if bufs.staging != nil {
		a.device.DestroyBuffer(bufs.staging)
	}
}

// createPassBindings creates one uniform buffer and one bind group per pass.
func (a *JFAAccelerator) createPassBindings(
	plan []passPlan, frame outline.Frame, bufs *frameBuffers,
) ([]hal.Buffer, []hal.BindGroup, error) {
	uniforms := make([]hal.Buffer, 0, len(plan))
	groups := make([]hal.BindGroup, 0, len(plan))

	for i, pass := range plan {
		ub, err := a.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "outline_params", Size: paramsSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return uniforms, groups, fmt.Errorf("create uniform buffer %d: %w", i, err)
		}
		uniforms = append(uniforms, ub)
		a.queue.WriteBuffer(ub, 0, newPassParams(frame, pass.step).bytes())

		src, dst := bufs.storage[pass.src], bufs.storage[pass.dst]
		bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: pass.program.String(), Layout: a.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: paramsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: src.NativeHandle(), Offset: 0, Size: bufs.sizes[pass.src]}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: dst.NativeHandle(), Offset: 0, Size: bufs.sizes[pass.dst]}},
			},
		})
		if err != nil {
			return uniforms, groups, fmt.Errorf("create bind group %d: %w", i, err)
		}
		groups = append(groups, bg)
	}
	return uniforms, groups, nil
}

// cleanupBindings destroys bind groups and uniform buffers.
func (a *JFAAccelerator) cleanupBindings(uniforms []hal.Buffer, groups []hal.BindGroup) {
	for _, bg := range groups {
		if bg != nil {
			a.device.DestroyBindGroup(bg)
		}
	}
	for _, ub := range uniforms {
		if ub != nil {
			a.device.DestroyBuffer(ub)
		}
	}
}

// encodeAndSubmit records one compute pass per planned pass followed by
// the overlay readback copy, then waits for the GPU.
func (a *JFAAccelerator) encodeAndSubmit(
	plan []passPlan, groups []hal.BindGroup, bufs *frameBuffers, w, h uint32,
) ([]byte, error) {
	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "outline_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("outline_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	for i, pass := range plan {
		cp := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: pass.program.String()})
		cp.SetPipeline(a.pipelines[pass.program])
		cp.SetBindGroup(0, groups[i], nil)
		cp.Dispatch((w+7)/8, (h+7)/8, 1)
		cp.End()
	}

	size := bufs.sizes[slotOverlay]
	encoder.CopyBufferToBuffer(bufs.storage[slotOverlay], bufs.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	ok, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return nil, fmt.Errorf("wait for GPU: ok=%v err=%w", ok, err)
	}

	readback := make([]byte, size)
	if err := a.queue.ReadBuffer(bufs.staging, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return readback, nil
}
