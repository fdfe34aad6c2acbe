// Package device exposes the graphics device surface consumed by render
// steps and the frame driver. Render steps depend only on the interfaces in
// this file, which keeps them testable without a GPU; the WebGPU
// implementation lives alongside in wgpu_device.go.
package device

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/AyanamiKaine/stella-render/engine/renderer/pipeline"
)

// CubeFaceCount is the number of faces in a cube texture. Cube textures
// always carry exactly this many layers.
const CubeFaceCount = 6

var (
	// ErrSurfaceNotConfigured is returned when an operation needs the surface
	// format or size before ConfigureSurface has been called.
	ErrSurfaceNotConfigured = errors.New("device: surface not configured")

	// ErrMissingShaderSource is returned when a pipeline is registered without
	// WGSL source code.
	ErrMissingShaderSource = errors.New("device: pipeline has no shader source")

	// ErrFrameInFlight is returned when a new surface view is acquired while a
	// previously acquired one has not been presented yet.
	ErrFrameInFlight = errors.New("device: previous frame surface not yet presented")

	// ErrDeviceReleased is returned when a released device is asked to create
	// resources or submit work.
	ErrDeviceReleased = errors.New("device: device already released")
)

// PresentMode controls how finished frames are delivered to the display.
type PresentMode int

const (
	// PresentModeUncapped presents frames as fast as possible (immediate mode, allows tearing).
	PresentModeUncapped PresentMode = iota

	// PresentModeVSync synchronizes presentation with the display refresh rate.
	PresentModeVSync
)

// Color is an RGBA clear color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RenderPassConfig describes a render pass opened on a command buffer.
// The color attachment is always cleared to ClearColor at the start of the
// pass; when DepthView is set the depth attachment is cleared to 1.0.
type RenderPassConfig struct {
	// Label identifies the pass in captures and error messages.
	Label string

	// ColorView is the color attachment target. Required.
	ColorView TextureView

	// ClearColor is the value the color attachment is cleared to.
	ClearColor Color

	// DepthView is the depth attachment target, or nil for a color-only pass.
	DepthView TextureView
}

// TextureView is a handle to a single subresource view of a GPU texture.
type TextureView interface {
	// Label returns the debug label the view was created with.
	//
	// Returns:
	//   - string: the view label
	Label() string

	// Release frees the view. Safe to call multiple times.
	Release()
}

// Sampler is a handle to a GPU sampler object.
type Sampler interface {
	// Label returns the debug label the sampler was created with.
	//
	// Returns:
	//   - string: the sampler label
	Label() string

	// Release frees the sampler. Safe to call multiple times.
	Release()
}

// Texture2D is a handle to a single-layer 2D texture and its only view.
type Texture2D interface {
	// Label returns the debug label the texture was created with.
	//
	// Returns:
	//   - string: the texture label
	Label() string

	// View returns the texture's view, usable as a render pass attachment.
	//
	// Returns:
	//   - TextureView: the texture view
	View() TextureView

	// Release frees the texture and its view. Safe to call multiple times.
	Release()
}

// CubeTexture is a six-face square GPU texture. Each face is addressable as
// its own render target through FaceView, and the whole texture is sampled
// through CubeView.
type CubeTexture interface {
	// Label returns the debug label the texture was created with.
	//
	// Returns:
	//   - string: the texture label
	Label() string

	// Resolution returns the edge length of each square face in pixels.
	//
	// Returns:
	//   - uint32: the face resolution
	Resolution() uint32

	// FaceView returns the render-target view for one face layer.
	//
	// Parameters:
	//   - face: the face index in [0, CubeFaceCount)
	//
	// Returns:
	//   - TextureView: the 2D view of that face, or nil if face is out of range
	FaceView(face int) TextureView

	// CubeView returns the cube-dimension view used for sampling in shaders.
	//
	// Returns:
	//   - TextureView: the cube view over all six faces
	CubeView() TextureView

	// Release frees the texture and all of its views. Safe to call multiple times.
	Release()
}

// Mesh is a handle to GPU vertex and index buffers for one drawable mesh.
type Mesh interface {
	// Label returns the debug label the mesh was created with.
	//
	// Returns:
	//   - string: the mesh label
	Label() string

	// VertexBuffer returns the GPU vertex buffer, or nil for a mock mesh.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer handle
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the GPU index buffer (uint32 indices), or nil for a mock mesh.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer handle
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices to draw.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Release frees both buffers. Safe to call multiple times.
	Release()
}

// RenderPass records draw state and draw calls between BeginRenderPass and End.
type RenderPass interface {
	// SetPipeline binds a registered render pipeline for subsequent draws.
	// An unregistered pipeline (nil handle) leaves the pass without a valid
	// pipeline and subsequent draws are dropped with a warning.
	//
	// Parameters:
	//   - p: the pipeline to bind
	SetPipeline(p pipeline.Pipeline)

	// SetViewport restricts rendering to the given rectangle with the full [0, 1] depth range.
	//
	// Parameters:
	//   - x, y: the viewport origin in pixels
	//   - width, height: the viewport size in pixels
	SetViewport(x, y, width, height float32)

	// PushVertexUniforms uploads a fresh per-draw uniform blob and binds it to
	// the vertex uniform slot. Each call receives its own region of uniform
	// memory, so multiple draws in one pass each see the values pushed for them.
	//
	// Parameters:
	//   - data: the packed uniform bytes (at most MaxVertexUniformSize)
	PushVertexUniforms(data []byte)

	// BindShadowCube binds the shadow cubemap view and its sampler at the
	// fragment shadow slot. Only valid with pipelines built with a shadow
	// cube binding.
	//
	// Parameters:
	//   - view: the cube-dimension view of the shadow texture
	//   - sampler: the sampler to read it with
	BindShadowCube(view TextureView, sampler Sampler)

	// DrawMesh issues one indexed draw of the given mesh using the current
	// pipeline, viewport, and pushed uniforms.
	//
	// Parameters:
	//   - m: the mesh to draw
	DrawMesh(m Mesh)

	// End closes the pass. The pass must not be used afterwards.
	End()
}

// CommandBuffer accumulates render passes for one submission.
type CommandBuffer interface {
	// BeginRenderPass opens a render pass on this command buffer. The caller
	// must End the pass before opening another one or submitting.
	//
	// Parameters:
	//   - cfg: the pass configuration (attachments and clear values)
	//
	// Returns:
	//   - RenderPass: the recording pass
	BeginRenderPass(cfg RenderPassConfig) RenderPass
}

// Device creates GPU resources and accepts command buffer submissions.
// This is the surface render steps are written against.
type Device interface {
	// CreateCubeTexture allocates a six-face square color texture renderable
	// per face and sampleable as a cube. The format is R32Float (one float
	// channel per texel).
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - resolution: the edge length of each face in pixels
	//
	// Returns:
	//   - CubeTexture: the allocated texture
	//   - error: an error if allocation fails
	CreateCubeTexture(label string, resolution uint32) (CubeTexture, error)

	// CreateDepthTexture allocates a Depth24Plus texture usable as the depth
	// attachment of a render pass.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//
	// Returns:
	//   - Texture2D: the allocated depth texture
	//   - error: an error if allocation fails
	CreateDepthTexture(label string, width, height uint32) (Texture2D, error)

	// CreateSampler creates a clamp-to-edge nearest-filter sampler, suitable
	// for reading unfilterable float formats such as the shadow cubemap.
	//
	// Parameters:
	//   - label: debug label for the sampler
	//
	// Returns:
	//   - Sampler: the created sampler
	//   - error: an error if creation fails
	CreateSampler(label string) (Sampler, error)

	// CreateMesh uploads vertex and index data into GPU buffers.
	//
	// Parameters:
	//   - label: debug label for the mesh buffers
	//   - vertexData: raw vertex bytes
	//   - indexData: raw uint32 index bytes
	//   - indexCount: the number of indices to draw
	//
	// Returns:
	//   - Mesh: the uploaded mesh
	//   - error: an error if buffer creation fails
	CreateMesh(label string, vertexData, indexData []byte, indexCount int) (Mesh, error)

	// CreateRenderPipeline compiles the pipeline's WGSL source and builds the
	// GPU render pipeline, storing the handle on the pipeline. Pipelines whose
	// color format is unset resolve to the surface format, which requires the
	// surface to be configured first.
	//
	// Parameters:
	//   - p: the pipeline configuration to register
	//
	// Returns:
	//   - error: an error if shader compilation or pipeline creation fails
	CreateRenderPipeline(p pipeline.Pipeline) error

	// CreateCommandBuffer opens a new command buffer for one frame's work.
	//
	// Parameters:
	//   - label: debug label for the command encoder
	//
	// Returns:
	//   - CommandBuffer: the recording command buffer
	//   - error: an error if the encoder cannot be created
	CreateCommandBuffer(label string) (CommandBuffer, error)

	// Submit finishes the command buffer and submits it to the GPU queue.
	// The command buffer must not be used afterwards.
	//
	// Parameters:
	//   - cb: the command buffer to submit
	//
	// Returns:
	//   - error: an error if the command buffer cannot be finished
	Submit(cb CommandBuffer) error

	// Release frees all device-owned resources. Safe to call multiple times.
	Release()
}

// SurfaceDevice extends Device with the window-surface management used by the
// frame driver: surface configuration, per-frame surface view acquisition,
// the shared depth attachment, and presentation.
type SurfaceDevice interface {
	Device

	// ConfigureSurface (re)configures the window surface and rebuilds the
	// depth attachment for the given size. Must be called before the first
	// frame and after every resize.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: an error if surface textures cannot be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets how frames are delivered to the display. Takes
	// effect at the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the present mode to use
	SetPresentMode(mode PresentMode)

	// AcquireSurfaceView acquires the next swapchain image and returns a view
	// of it. The view stays valid until Present is called.
	//
	// Returns:
	//   - TextureView: the current surface view
	//   - error: an error if acquisition fails or a frame is still in flight
	AcquireSurfaceView() (TextureView, error)

	// DepthView returns the depth attachment matching the configured surface
	// size, or nil before ConfigureSurface.
	//
	// Returns:
	//   - TextureView: the shared depth attachment view
	DepthView() TextureView

	// Present presents the most recently acquired surface view and releases
	// it. A no-op when no surface view is held.
	Present()
}
