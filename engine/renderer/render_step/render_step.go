// Package render_step defines the per-frame render step contract and its
// concrete implementations. A render step owns a slice of frame work: the
// frame driver calls Update, Prepare, and Record on every active step in that
// order each frame, threading one command buffer through all of them.
//
// Prepare may open and close its own render passes on the command buffer
// (auxiliary work such as shadow map faces); Record draws into the
// caller-provided primary pass and must not open or close passes itself.
package render_step

import (
	"github.com/AyanamiKaine/stella-render/engine/renderer/device"
)

// ViewContext carries the camera matrices for the frame being rendered.
// Both matrices are 16-element column-major slices.
type ViewContext struct {
	// View is the world-to-camera matrix.
	View []float32

	// Projection is the camera-to-clip matrix.
	Projection []float32
}

// MeshProvider returns the mesh to draw for one entry. Providers are invoked
// once per draw, so the mesh may change between frames.
type MeshProvider func() device.Mesh

// ModelProvider returns the current model-to-world matrix (16 floats,
// column-major) for one entry. Invoked once per draw.
type ModelProvider func() []float32

// MatrixProvider returns an arbitrary 16-element column-major matrix.
// Used where the caller supplies a fully composed transform.
type MatrixProvider func() []float32

// RenderStep is one unit of frame work managed by the frame driver.
//
// Lifecycle per frame, in strict order: Update, Prepare, Record. Initialize
// runs once before the first frame; Dispose at shutdown or step replacement.
// Steps are single-threaded: no phase of one instance may run concurrently
// with another phase of the same instance.
type RenderStep interface {
	// Initialize performs one-time GPU resource allocation. Allocation
	// failure is fatal to the step and propagates to the caller; no partial
	// recovery is attempted. Calling Initialize again after success is a
	// no-op.
	//
	// Parameters:
	//   - dev: the device to allocate resources on
	//
	// Returns:
	//   - error: an error if allocation fails
	Initialize(dev device.Device) error

	// Update advances per-frame non-GPU state, such as animating a light
	// position. No GPU calls are permitted here.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Update(deltaTime float32)

	// Prepare issues GPU work that must occur outside the primary render
	// pass. It may open and close its own render passes on the command
	// buffer.
	//
	// Parameters:
	//   - cmd: the frame command buffer
	//   - view: the frame's camera matrices
	Prepare(cmd device.CommandBuffer, view *ViewContext)

	// Record issues draw calls inside the caller-provided primary render
	// pass. It must not open or close passes.
	//
	// Parameters:
	//   - cmd: the frame command buffer
	//   - pass: the open primary render pass
	//   - view: the frame's camera matrices
	Record(cmd device.CommandBuffer, pass device.RenderPass, view *ViewContext)

	// Dispose releases GPU resources and clears cached instance lists.
	// Safe to call multiple times and on a never-initialized step.
	Dispose()
}
