package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the WGSL source, fixed-function state, and the WebGPU render
// pipeline handle once the pipeline has been registered with a device.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// source is the complete WGSL module containing both entry points
	source             string
	vertexEntryPoint   string
	fragmentEntryPoint string

	// vertexLayouts describe the vertex buffers consumed by the vertex stage
	vertexLayouts []wgpu.VertexBufferLayout

	// renderPipeline is set by the device when the pipeline is registered, nil before that
	renderPipeline *wgpu.RenderPipeline

	// The following properties are used to configure the pipeline during creation
	// and can be toggled/set with the builder options.

	colorFormat       wgpu.TextureFormat // TextureFormatUndefined resolves to the surface format at registration
	depthFormat       wgpu.TextureFormat // TextureFormatUndefined means the pipeline renders without a depth attachment
	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
	shadowCubeBinding bool
}

// Pipeline defines the interface for a GPU render pipeline configuration.
// A Pipeline starts as pure configuration (shader source plus fixed-function
// state) and receives its WebGPU handle when registered through a device.
// Unregistered pipelines are still valid values, which keeps render steps
// testable without a GPU.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Source returns the WGSL module source containing the vertex and fragment entry points.
	//
	// Returns:
	//   - string: the WGSL source code
	Source() string

	// VertexEntryPoint returns the name of the vertex entry point in the WGSL module.
	//
	// Returns:
	//   - string: the vertex entry point name (default "vs_main")
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the fragment entry point in the WGSL module.
	//
	// Returns:
	//   - string: the fragment entry point name (default "fs_main")
	FragmentEntryPoint() string

	// VertexLayouts returns the vertex buffer layouts consumed by the vertex stage.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the configured vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// ColorFormat returns the color target format for this pipeline.
	// TextureFormatUndefined means the surface format is used at registration time.
	//
	// Returns:
	//   - wgpu.TextureFormat: the color target format
	ColorFormat() wgpu.TextureFormat

	// DepthFormat returns the depth attachment format for this pipeline.
	// TextureFormatUndefined means the pipeline is created without a depth-stencil state
	// and must only be used in passes that have no depth attachment.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth attachment format
	DepthFormat() wgpu.TextureFormat

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state applied when blending is enabled
	BlendState() *wgpu.BlendState

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// ShadowCubeBinding returns whether the fragment stage samples the shadow
	// cubemap. When true, the device adds a second bind group (cube texture +
	// non-filtering sampler) to the pipeline layout.
	//
	// Returns:
	//   - bool: true if the fragment stage binds the shadow cube
	ShadowCubeBinding() bool

	// Pipeline returns the underlying WebGPU render pipeline, or nil if the
	// pipeline has not been registered with a device yet.
	//
	// Returns:
	//   - any: the *wgpu.RenderPipeline handle, or nil
	Pipeline() any

	// SetRenderPipeline sets the render pipeline handle. Called by the device
	// during registration.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline configuration.
// The returned pipeline carries no GPU handle until it is registered with a device.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:        pipelineKey,
		vertexEntryPoint:   "vs_main",
		fragmentEntryPoint: "fs_main",
		colorFormat:        wgpu.TextureFormatUndefined,
		depthFormat:        wgpu.TextureFormatDepth24Plus,
		depthTestEnabled:   true,
		depthWriteEnabled:  true,
		blendEnabled:       false,
		cullMode:           wgpu.CullModeNone,
		topology:           wgpu.PrimitiveTopologyTriangleList,
		frontFace:          wgpu.FrontFaceCCW,
		writeMask:          wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Source() string {
	return p.source
}

func (p *pipeline) VertexEntryPoint() string {
	return p.vertexEntryPoint
}

func (p *pipeline) FragmentEntryPoint() string {
	return p.fragmentEntryPoint
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *pipeline) ColorFormat() wgpu.TextureFormat {
	return p.colorFormat
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) ShadowCubeBinding() bool {
	return p.shadowCubeBinding
}

func (p *pipeline) Pipeline() any {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
