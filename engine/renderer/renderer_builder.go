package renderer

import (
	"github.com/AyanamiKaine/stella-render/engine/camera"
	"github.com/AyanamiKaine/stella-render/engine/renderer/device"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*rendererImpl)

// WithCamera sets the camera whose view and projection matrices feed the
// per-frame ViewContext. When not provided a default camera is used.
//
// Parameters:
//   - cam: the camera to attach
//
// Returns:
//   - RendererBuilderOption: a function that applies the camera option to a renderer
func WithCamera(cam camera.Camera) RendererBuilderOption {
	return func(r *rendererImpl) {
		if cam != nil {
			r.cam = cam
		}
	}
}

// WithSurfaceDevice supplies a pre-built surface device instead of letting the
// renderer create one from the surface descriptor. Useful for tests that
// substitute a mock device, and for sharing one device across renderers.
//
// Parameters:
//   - dev: the surface device to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the device option to a renderer
func WithSurfaceDevice(dev device.SurfaceDevice) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.dev = dev
	}
}

// WithClearColor sets the clear color of the primary render pass.
//
// Parameters:
//   - color: the RGBA clear color (components in [0, 1])
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(color device.Color) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.clearColor = color
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (PresentModeVSync or PresentModeUncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode device.PresentMode) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.pendingPresentMode = &mode
	}
}

// WithUpdateWorkers sets the number of workers in the Update fan-out pool.
// Defaults to NumCPU-1 (minimum 1). Values below 1 are clamped to 1, which
// still preserves the barrier between the Update and Prepare phases.
//
// Parameters:
//   - count: the number of pool workers
//
// Returns:
//   - RendererBuilderOption: a function that applies the worker count option to a renderer
func WithUpdateWorkers(count int) RendererBuilderOption {
	return func(r *rendererImpl) {
		if count < 1 {
			count = 1
		}
		r.updateWorkers = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe). Useful for benchmarking CPU vs GPU rendering performance.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.forceFallbackAdapter = force
	}
}
