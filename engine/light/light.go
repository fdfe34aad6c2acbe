// Package light holds the shared point-light material state for lit
// rendering: light position, color, ambient term, and the shadow mapping
// parameters and bindings produced by the shadow cube pass.
package light

import (
	"github.com/AyanamiKaine/stella-render/engine/renderer/device"
)

// ShadowBinding is the texture and sampler pair a lit pipeline binds to read
// the shadow cubemap. Both fields are always non-nil when obtained through
// Material.ShadowBinding.
type ShadowBinding struct {
	View    device.TextureView
	Sampler device.Sampler
}

// materialImpl is the implementation of the Material interface.
type materialImpl struct {
	position  [3]float32
	color     [3]float32
	ambient   float32
	farPlane  float32
	depthBias float32

	shadowView    device.TextureView
	shadowSampler device.Sampler
}

// Material is the shared light and shadow state for lit rendering.
//
// A single Material is typically shared between the shadow cube step that
// renders the shadow map and the lit mesh steps that consume it. All state is
// read once per draw call to build a uniform snapshot, so mutations made
// between frames take effect on the next draw.
//
// Material is not safe for concurrent mutation; update it from the frame
// loop only.
type Material interface {
	// SetLight overwrites the light position, color, and ambient intensity.
	// Shadow-related fields are left untouched.
	//
	// Parameters:
	//   - position: world-space light position
	//   - color: light color in linear RGB, unclamped
	//   - ambient: ambient light intensity in [0, 1]
	SetLight(position, color [3]float32, ambient float32)

	// SetShadowParams overwrites the shadow far plane and depth bias.
	//
	// Parameters:
	//   - farPlane: the far plane distance used to normalize shadow depth
	//   - depthBias: small positive bias applied during shadow comparison
	SetShadowParams(farPlane, depthBias float32)

	// SetShadowMap stores the shadow cubemap view and sampler for later
	// binding. Both must be supplied together; if either is nil the material
	// reports no usable binding.
	//
	// Parameters:
	//   - view: the cube view of the shadow texture
	//   - sampler: the sampler to read it with
	SetShadowMap(view device.TextureView, sampler device.Sampler)

	// ShadowBinding returns the shadow texture and sampler pair when both
	// were previously set. The boolean is the sole signal; callers must check
	// it before using the binding.
	//
	// Returns:
	//   - ShadowBinding: the texture and sampler pair
	//   - bool: true if both view and sampler are set
	ShadowBinding() (ShadowBinding, bool)

	// BuildVSParams snapshots the current light and shadow scalar state plus
	// the two caller-supplied matrices into a flat vertex uniform struct.
	// Pure except for reading material state; the matrices are copied as
	// given with no validation.
	//
	// Parameters:
	//   - mvp: the combined model-view-projection matrix (16 floats, column-major)
	//   - model: the model-to-world matrix (16 floats, column-major)
	//
	// Returns:
	//   - GPULitVSParams: the packed uniform snapshot
	BuildVSParams(mvp, model []float32) GPULitVSParams

	// Position returns the world-space light position.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Color returns the light color in linear RGB.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Ambient returns the ambient light intensity.
	//
	// Returns:
	//   - float32: the ambient value in [0, 1]
	Ambient() float32

	// FarPlane returns the shadow far plane distance.
	//
	// Returns:
	//   - float32: the far plane value
	FarPlane() float32

	// DepthBias returns the shadow depth comparison bias.
	//
	// Returns:
	//   - float32: the depth bias value
	DepthBias() float32
}

var _ Material = &materialImpl{}

// NewMaterial creates a new Material with sensible defaults and any provided
// options applied. Defaults: light at the origin, white light, ambient 0.2,
// far plane DefaultShadowFar, depth bias DefaultShadowBias, no shadow map
// bound.
//
// Parameters:
//   - opts: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(opts ...MaterialBuilderOption) Material {
	m := &materialImpl{
		position:  [3]float32{0, 0, 0},
		color:     [3]float32{1, 1, 1},
		ambient:   0.2,
		farPlane:  DefaultShadowFar,
		depthBias: DefaultShadowBias,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *materialImpl) SetLight(position, color [3]float32, ambient float32) {
	m.position = position
	m.color = color
	m.ambient = ambient
}

func (m *materialImpl) SetShadowParams(farPlane, depthBias float32) {
	m.farPlane = farPlane
	m.depthBias = depthBias
}

func (m *materialImpl) SetShadowMap(view device.TextureView, sampler device.Sampler) {
	m.shadowView = view
	m.shadowSampler = sampler
}

func (m *materialImpl) ShadowBinding() (ShadowBinding, bool) {
	if m.shadowView == nil || m.shadowSampler == nil {
		return ShadowBinding{}, false
	}
	return ShadowBinding{View: m.shadowView, Sampler: m.shadowSampler}, true
}

func (m *materialImpl) BuildVSParams(mvp, model []float32) GPULitVSParams {
	p := GPULitVSParams{
		LightPos:   m.position,
		Ambient:    m.ambient,
		LightColor: m.color,
		FarPlane:   m.farPlane,
		DepthBias:  m.depthBias,
	}
	copy(p.MVP[:], mvp)
	copy(p.Model[:], model)
	return p
}

func (m *materialImpl) Position() [3]float32 {
	return m.position
}

func (m *materialImpl) Color() [3]float32 {
	return m.color
}

func (m *materialImpl) Ambient() float32 {
	return m.ambient
}

func (m *materialImpl) FarPlane() float32 {
	return m.farPlane
}

func (m *materialImpl) DepthBias() float32 {
	return m.depthBias
}
