package render_step

import (
	"github.com/AyanamiKaine/stella-render/common"
	"github.com/AyanamiKaine/stella-render/engine/renderer/device"
	"github.com/AyanamiKaine/stella-render/engine/renderer/pipeline"
)

// rectStepImpl is the minimal reference render step: no owned resources, no
// auxiliary passes, one draw in the primary pass.
type rectStepImpl struct {
	pipeline pipeline.Pipeline
	mesh     MeshProvider
	mvp      MatrixProvider
}

var _ RenderStep = &rectStepImpl{}

// NewRectStep creates a render step that binds the given pipeline, pushes the
// provided MVP matrix as the vertex uniform, and draws the provided mesh in
// the primary pass. It holds no state beyond the three injected providers.
//
// Parameters:
//   - p: the pipeline to draw with, registered with the device by the caller
//   - mesh: provider for the mesh to draw, invoked once per frame
//   - mvp: provider for the combined model-view-projection matrix, invoked once per frame
//
// Returns:
//   - RenderStep: a new rect step
func NewRectStep(p pipeline.Pipeline, mesh MeshProvider, mvp MatrixProvider) RenderStep {
	if p == nil {
		panic("render_step: rect step requires a pipeline")
	}
	if mesh == nil || mvp == nil {
		panic("render_step: rect step requires mesh and mvp providers")
	}

	return &rectStepImpl{
		pipeline: p,
		mesh:     mesh,
		mvp:      mvp,
	}
}

func (s *rectStepImpl) Initialize(dev device.Device) error {
	return nil
}

func (s *rectStepImpl) Update(deltaTime float32) {}

func (s *rectStepImpl) Prepare(cmd device.CommandBuffer, view *ViewContext) {}

func (s *rectStepImpl) Record(cmd device.CommandBuffer, pass device.RenderPass, view *ViewContext) {
	mesh := s.mesh()
	if mesh == nil {
		return
	}

	pass.SetPipeline(s.pipeline)
	pass.PushVertexUniforms(common.SliceToBytes(s.mvp()))
	pass.DrawMesh(mesh)
}

func (s *rectStepImpl) Dispose() {}
