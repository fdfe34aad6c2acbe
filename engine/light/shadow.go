package light

// DefaultShadowResolution is the default width and height in texels of one
// shadow cubemap face. Callers pass this (or their own value) when creating a
// shadow cube step; the step clamps values below its minimum.
const DefaultShadowResolution uint32 = 1024

// DefaultShadowNear is the default near plane for the per-face perspective
// projection used when rendering the shadow cubemap.
const DefaultShadowNear float32 = 0.05

// DefaultShadowFar is the default far plane for the shadow cubemap
// projection. Distances are normalized against this value when written to the
// map, so it bounds the light's shadow reach in world units.
const DefaultShadowFar float32 = 25.0

// DefaultShadowBias is the constant bias applied to shadow distance
// comparisons to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.01
