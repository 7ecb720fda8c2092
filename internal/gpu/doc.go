// Package gpu implements the outline pipeline as wgpu/hal compute passes.
//
// A frame is encoded as one command buffer holding one compute pass per
// pipeline stage:
//
//	resolve (mask -> seeds0) -> step 2^(k-1) -> ... -> step 1 -> composite (seeds -> overlay)
//
// Consecutive passes act as barriers, so every pass sees the complete
// output of the previous one. The two seed buffers alternate between read
// and write bindings; a pass never binds the same buffer twice.
//
// Buffer layouts:
//
//   - mask: one u32 per sample, layer A ID in the low 16 bits, layer B in the high 16
//   - seeds: one vec4<f32> per pixel, xy the layer A seed, zw the layer B seed
//   - overlay: one straight-alpha vec4<f32> per pixel
//
// Shaders are WGSL compiled to SPIR-V with naga. The package is internal;
// applications enable it with a blank import of github.com/gogpu/outline/gpu.
package gpu
