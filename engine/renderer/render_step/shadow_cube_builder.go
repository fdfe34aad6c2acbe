package render_step

// ShadowCubeBuilderOption is a function that configures a ShadowCubeStep instance during construction.
type ShadowCubeBuilderOption func(*shadowCubeStepImpl)

// WithShadowSettings is an option builder that sets the projection near and
// far planes and the depth bias.
//
// Parameters:
//   - near: near plane distance (must be > 0)
//   - far: far plane distance (must be > near)
//   - bias: small positive bias added during depth comparison
//
// Returns:
//   - ShadowCubeBuilderOption: a function that applies the settings to a shadowCubeStepImpl
func WithShadowSettings(near, far, bias float32) ShadowCubeBuilderOption {
	return func(s *shadowCubeStepImpl) {
		s.near = near
		s.far = far
		s.bias = bias
	}
}

// WithLightPosition is an option builder that sets the initial light origin
// used for the six face view matrices.
//
// Parameters:
//   - x, y, z: world-space light position
//
// Returns:
//   - ShadowCubeBuilderOption: a function that applies the position to a shadowCubeStepImpl
func WithLightPosition(x, y, z float32) ShadowCubeBuilderOption {
	return func(s *shadowCubeStepImpl) {
		s.lightPos = [3]float32{x, y, z}
	}
}
