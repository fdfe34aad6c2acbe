package light

import "github.com/AyanamiKaine/stella-render/engine/renderer/device"

// MaterialBuilderOption is a function that configures a Material instance during construction.
type MaterialBuilderOption func(*materialImpl)

// WithLightPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - MaterialBuilderOption: a function that applies the position option to a materialImpl
func WithLightPosition(x, y, z float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.position = [3]float32{x, y, z}
	}
}

// WithLightColor is an option builder that sets the light color in linear RGB.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a materialImpl
func WithLightColor(r, g, b float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.color = [3]float32{r, g, b}
	}
}

// WithAmbient is an option builder that sets the ambient light intensity.
//
// Parameters:
//   - ambient: the ambient intensity in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the ambient option to a materialImpl
func WithAmbient(ambient float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.ambient = ambient
	}
}

// WithShadowParams is an option builder that sets the shadow far plane and depth bias.
//
// Parameters:
//   - farPlane: the far plane distance used to normalize shadow depth
//   - depthBias: small positive bias applied during shadow comparison
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shadow params option to a materialImpl
func WithShadowParams(farPlane, depthBias float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.farPlane = farPlane
		m.depthBias = depthBias
	}
}

// WithShadowMap is an option builder that stores the shadow cubemap view and
// sampler pair for later binding.
//
// Parameters:
//   - view: the cube view of the shadow texture
//   - sampler: the sampler to read it with
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shadow map option to a materialImpl
func WithShadowMap(view device.TextureView, sampler device.Sampler) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.shadowView = view
		m.shadowSampler = sampler
	}
}
