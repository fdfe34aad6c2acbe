package render_step

import (
	"github.com/AyanamiKaine/stella-render/common"
	"github.com/AyanamiKaine/stella-render/engine/light"
	"github.com/AyanamiKaine/stella-render/engine/renderer/device"
	"github.com/AyanamiKaine/stella-render/engine/renderer/pipeline"
)

type litInstance struct {
	mesh  device.Mesh
	model ModelProvider
}

// litInstancesStepImpl is the implementation of the LitInstancesStep interface.
type litInstancesStepImpl struct {
	pipeline  pipeline.Pipeline
	material  light.Material
	instances []litInstance
}

// LitInstancesStep draws a list of mesh instances with the shared lit
// material inside the primary render pass.
//
// The instance list is per-frame: callers clear and repopulate it every frame,
// and the step keeps no notion of instance identity across frames. When the
// material carries a shadow binding the shadow cubemap is bound once for all
// instances; otherwise lighting proceeds unshadowed.
type LitInstancesStep interface {
	RenderStep

	// AddInstance appends a mesh and model-provider pair to the per-frame
	// instance list.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	//   - model: provider for the instance's model matrix, invoked once per draw
	AddInstance(mesh device.Mesh, model ModelProvider)

	// ClearInstances empties the instance list.
	ClearInstances()

	// InstanceCount returns the number of queued instances.
	//
	// Returns:
	//   - int: the instance count
	InstanceCount() int
}

var _ LitInstancesStep = &litInstancesStepImpl{}

// NewLitInstancesStep creates a lit mesh instances step drawing with the
// given pipeline and reading light and shadow state from the given material.
//
// Parameters:
//   - p: the lit pipeline, registered with the device by the caller
//   - material: the shared light material, typically also fed by a shadow cube step
//
// Returns:
//   - LitInstancesStep: a new lit instances step
func NewLitInstancesStep(p pipeline.Pipeline, material light.Material) LitInstancesStep {
	if p == nil {
		panic("render_step: lit instances step requires a pipeline")
	}
	if material == nil {
		panic("render_step: lit instances step requires a material")
	}

	return &litInstancesStepImpl{
		pipeline: p,
		material: material,
	}
}

func (s *litInstancesStepImpl) Initialize(dev device.Device) error {
	return nil
}

func (s *litInstancesStepImpl) Update(deltaTime float32) {}

func (s *litInstancesStepImpl) Prepare(cmd device.CommandBuffer, view *ViewContext) {}

func (s *litInstancesStepImpl) Record(cmd device.CommandBuffer, pass device.RenderPass, view *ViewContext) {
	// Empty list: nothing is bound and nothing is drawn.
	if len(s.instances) == 0 || view == nil {
		return
	}

	pass.SetPipeline(s.pipeline)

	if binding, ok := s.material.ShadowBinding(); ok {
		pass.BindShadowCube(binding.View, binding.Sampler)
	}

	viewProj := make([]float32, 16)
	common.Mul4(viewProj, view.Projection, view.View)

	mvp := make([]float32, 16)
	for _, inst := range s.instances {
		model := inst.model()
		common.Mul4(mvp, viewProj, model)

		params := s.material.BuildVSParams(mvp, model)
		pass.PushVertexUniforms(params.Marshal())
		pass.DrawMesh(inst.mesh)
	}
}

func (s *litInstancesStepImpl) Dispose() {
	s.instances = nil
}

func (s *litInstancesStepImpl) AddInstance(mesh device.Mesh, model ModelProvider) {
	s.instances = append(s.instances, litInstance{mesh: mesh, model: model})
}

func (s *litInstancesStepImpl) ClearInstances() {
	s.instances = s.instances[:0]
}

func (s *litInstancesStepImpl) InstanceCount() int {
	return len(s.instances)
}
