// Package outline renders anti-aliased object outlines from object-ID masks
// using the jump-flood algorithm.
//
// # Overview
//
// The pipeline is a fixed sequence of full-buffer passes run once per frame:
//
//	Mask -> Resolve -> JumpFlood (N passes, ping-pong) -> Composite -> Overlay
//
// The passes:
//
//   - Resolve reads a per-pixel object-ID mask (one or four samples per
//     pixel, two layer IDs per sample) and places a sub-pixel seed on every
//     pixel whose neighborhood crosses an object boundary.
//   - JumpFlood propagates seeds with halving step widths until every pixel
//     holds the nearest seed, independently for layer A and layer B.
//   - Composite turns seed distances into outline intensity and blends the
//     two colored layers, B over A.
//
// Layers A and B never interact before the final blend.
//
// # Quick Start
//
//	mask := outline.NewMask(640, 480, 1)
//	mask.FillRect(100, 100, 200, 150, outline.IDPair{A: 1})
//
//	p, err := outline.NewPipeline(640, 480)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	overlay, err := p.Render(context.Background(), mask, outline.DefaultConfig())
//
// # GPU Acceleration
//
// By default all passes run on the CPU over a worker pool. Importing the gpu
// sub-package registers a wgpu compute backend that runs the same passes as
// WGSL shaders:
//
//	import _ "github.com/gogpu/outline/gpu"
//
// When no GPU is available the pipeline falls back to the CPU transparently.
//
// # Coordinates
//
// Seeds are stored in pixel space. The center of pixel (x, y) is
// (x+0.5, y+0.5) and y grows downward. Pixels without a seed hold [NoSeed],
// which loses every nearest-seed comparison.
package outline
