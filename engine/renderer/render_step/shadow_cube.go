package render_step

import (
	"fmt"
	"math"

	"github.com/AyanamiKaine/stella-render/common"
	"github.com/AyanamiKaine/stella-render/engine/light"
	"github.com/AyanamiKaine/stella-render/engine/renderer/device"
	"github.com/AyanamiKaine/stella-render/engine/renderer/pipeline"
)

// MinShadowResolution is the smallest allowed shadow cube face resolution.
// Smaller requested resolutions are clamped up at construction.
const MinShadowResolution = 16

// Fixed cube face order: +X, -X, +Y, -Y, +Z, -Z. The up vectors are chosen
// per face to avoid degenerate look-at configurations and to match the cube
// map face orientation the sampler expects.
var (
	shadowFaceDirections = [device.CubeFaceCount][3]float32{
		{1, 0, 0},
		{-1, 0, 0},
		{0, 1, 0},
		{0, -1, 0},
		{0, 0, 1},
		{0, 0, -1},
	}
	shadowFaceUps = [device.CubeFaceCount][3]float32{
		{0, -1, 0},
		{0, -1, 0},
		{0, 0, 1},
		{0, 0, -1},
		{0, -1, 0},
		{0, -1, 0},
	}
)

type shadowCaster struct {
	mesh  device.Mesh
	model ModelProvider
}

// shadowCubeStepImpl is the implementation of the ShadowCubeStep interface.
type shadowCubeStepImpl struct {
	pipeline   pipeline.Pipeline
	resolution uint32

	lightPos [3]float32
	near     float32
	far      float32
	bias     float32

	casters []shadowCaster

	cube    device.CubeTexture
	sampler device.Sampler
	depth   device.Texture2D

	initialized bool
}

// ShadowCubeStep renders the scene into a six-face shadow cubemap from the
// light's point of view, one face per render pass.
//
// Each face pass clears the color target to white (the far value) and writes
// the normalized light-to-fragment distance into the red channel. The depth
// proxy lives in a color texture rather than a depth cube because cube depth
// sampling is not portable across backends; consumers read it through the
// CubeView and ShadowSampler accessors.
//
// All GPU work happens in Prepare. With zero casters the six passes still
// run, leaving a fully cleared and valid cubemap.
type ShadowCubeStep interface {
	RenderStep

	// SetSettings updates the projection near and far planes and the depth
	// bias used by subsequent Prepare calls.
	//
	// Parameters:
	//   - near: near plane distance (must be > 0)
	//   - far: far plane distance (must be > near)
	//   - bias: small positive bias added during depth comparison
	SetSettings(near, far, bias float32)

	// SetLightPosition updates the light origin used for all six face view
	// matrices.
	//
	// Parameters:
	//   - x, y, z: world-space light position
	SetLightPosition(x, y, z float32)

	// AddCaster registers a mesh and model-provider pair to render into the
	// shadow map every frame.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	//   - model: provider for the mesh's model matrix, invoked once per face
	AddCaster(mesh device.Mesh, model ModelProvider)

	// ClearCasters empties the caster list.
	ClearCasters()

	// CasterCount returns the number of registered casters.
	//
	// Returns:
	//   - int: the caster count
	CasterCount() int

	// CubeView returns the cube-dimension view of the shadow texture for
	// sampling, or nil before Initialize.
	//
	// Returns:
	//   - device.TextureView: the cube view
	CubeView() device.TextureView

	// ShadowSampler returns the sampler paired with the cube view, or nil
	// before Initialize.
	//
	// Returns:
	//   - device.Sampler: the shadow sampler
	ShadowSampler() device.Sampler

	// Resolution returns the clamped face resolution in pixels.
	//
	// Returns:
	//   - uint32: the face resolution
	Resolution() uint32

	// FaceViewProjection computes the view-projection matrix for one face
	// from the current light position and near/far settings.
	//
	// Parameters:
	//   - face: the face index in [0, 6)
	//
	// Returns:
	//   - []float32: the 16-element column-major matrix, or nil if face is out of range
	FaceViewProjection(face int) []float32
}

var _ ShadowCubeStep = &shadowCubeStepImpl{}

// NewShadowCubeStep creates a shadow cube render step drawing with the given
// pipeline into a cubemap of the given face resolution. The resolution is
// clamped to MinShadowResolution. Defaults: light at the origin, near
// light.DefaultShadowNear, far light.DefaultShadowFar, bias
// light.DefaultShadowBias.
//
// Parameters:
//   - p: the shadow pipeline, registered with the device by the caller
//   - resolution: requested face resolution in pixels
//   - opts: variadic list of ShadowCubeBuilderOption functions to configure the step
//
// Returns:
//   - ShadowCubeStep: a new shadow cube step; GPU resources are allocated in Initialize
func NewShadowCubeStep(p pipeline.Pipeline, resolution uint32, opts ...ShadowCubeBuilderOption) ShadowCubeStep {
	if p == nil {
		panic("render_step: shadow cube step requires a pipeline")
	}
	if resolution < MinShadowResolution {
		resolution = MinShadowResolution
	}

	s := &shadowCubeStepImpl{
		pipeline:   p,
		resolution: resolution,
		near:       light.DefaultShadowNear,
		far:        light.DefaultShadowFar,
		bias:       light.DefaultShadowBias,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *shadowCubeStepImpl) Initialize(dev device.Device) error {
	if s.initialized {
		return nil
	}

	cube, err := dev.CreateCubeTexture("Shadow Cube", s.resolution)
	if err != nil {
		return fmt.Errorf("shadow cube step: %w", err)
	}

	sampler, err := dev.CreateSampler("Shadow Cube Sampler")
	if err != nil {
		cube.Release()
		return fmt.Errorf("shadow cube step: %w", err)
	}

	depth, err := dev.CreateDepthTexture("Shadow Cube Depth", s.resolution, s.resolution)
	if err != nil {
		sampler.Release()
		cube.Release()
		return fmt.Errorf("shadow cube step: %w", err)
	}

	s.cube = cube
	s.sampler = sampler
	s.depth = depth
	s.initialized = true

	return nil
}

func (s *shadowCubeStepImpl) Update(deltaTime float32) {}

func (s *shadowCubeStepImpl) Prepare(cmd device.CommandBuffer, view *ViewContext) {
	if s.cube == nil {
		return
	}

	for face := 0; face < device.CubeFaceCount; face++ {
		pass := cmd.BeginRenderPass(device.RenderPassConfig{
			Label:      fmt.Sprintf("Shadow Cube Face %d", face),
			ColorView:  s.cube.FaceView(face),
			ClearColor: device.Color{R: 1, G: 1, B: 1, A: 1},
			DepthView:  s.depth.View(),
		})
		pass.SetPipeline(s.pipeline)
		pass.SetViewport(0, 0, float32(s.resolution), float32(s.resolution))

		viewProj := s.FaceViewProjection(face)
		for _, caster := range s.casters {
			params := GPUShadowVSParams{
				LightPos:  s.lightPos,
				FarPlane:  s.far,
				DepthBias: s.bias,
			}
			copy(params.ViewProj[:], viewProj)
			copy(params.Model[:], caster.model())

			pass.PushVertexUniforms(params.Marshal())
			pass.DrawMesh(caster.mesh)
		}

		pass.End()
	}
}

func (s *shadowCubeStepImpl) Record(cmd device.CommandBuffer, pass device.RenderPass, view *ViewContext) {
}

func (s *shadowCubeStepImpl) Dispose() {
	s.casters = nil

	if s.cube != nil {
		s.cube.Release()
		s.cube = nil
	}
	if s.sampler != nil {
		s.sampler.Release()
		s.sampler = nil
	}
	if s.depth != nil {
		s.depth.Release()
		s.depth = nil
	}
	s.initialized = false
}

func (s *shadowCubeStepImpl) SetSettings(near, far, bias float32) {
	s.near = near
	s.far = far
	s.bias = bias
}

func (s *shadowCubeStepImpl) SetLightPosition(x, y, z float32) {
	s.lightPos = [3]float32{x, y, z}
}

func (s *shadowCubeStepImpl) AddCaster(mesh device.Mesh, model ModelProvider) {
	s.casters = append(s.casters, shadowCaster{mesh: mesh, model: model})
}

func (s *shadowCubeStepImpl) ClearCasters() {
	s.casters = s.casters[:0]
}

func (s *shadowCubeStepImpl) CasterCount() int {
	return len(s.casters)
}

func (s *shadowCubeStepImpl) CubeView() device.TextureView {
	if s.cube == nil {
		return nil
	}
	return s.cube.CubeView()
}

func (s *shadowCubeStepImpl) ShadowSampler() device.Sampler {
	return s.sampler
}

func (s *shadowCubeStepImpl) Resolution() uint32 {
	return s.resolution
}

func (s *shadowCubeStepImpl) FaceViewProjection(face int) []float32 {
	if face < 0 || face >= device.CubeFaceCount {
		return nil
	}

	dir := shadowFaceDirections[face]
	up := shadowFaceUps[face]

	view := make([]float32, 16)
	common.LookAt(view,
		s.lightPos[0], s.lightPos[1], s.lightPos[2],
		s.lightPos[0]+dir[0], s.lightPos[1]+dir[1], s.lightPos[2]+dir[2],
		up[0], up[1], up[2],
	)

	proj := make([]float32, 16)
	common.Perspective(proj, math.Pi/2, 1, s.near, s.far)

	out := make([]float32, 16)
	common.Mul4(out, proj, view)
	return out
}
