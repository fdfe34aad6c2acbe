// Package shader bundles the module's WGSL programs. Program bodies are
// embedded without their uniform/vertex struct definitions; the canonical
// struct sources are embedded next to their Go mirror types (model.GPUVertex,
// light.GPULitVSParams, render_step.GPUShadowVSParams) and prepended here, so
// a layout change in one place propagates to every consumer.
package shader

import (
	_ "embed"
	"strings"

	"github.com/AyanamiKaine/stella-render/engine/light"
	"github.com/AyanamiKaine/stella-render/engine/model"
	"github.com/AyanamiKaine/stella-render/engine/renderer/render_step"
)

//go:embed assets/rect.wgsl
var rectBody string

//go:embed assets/shadow_cube.wgsl
var shadowCubeBody string

//go:embed assets/lit_mesh.wgsl
var litMeshBody string

// Compose joins WGSL fragments into a single compilable source. Each fragment
// is trimmed and the results are separated by blank lines; empty fragments
// are dropped.
//
// Parameters:
//   - parts: WGSL source fragments, typically struct sources followed by a program body
//
// Returns:
//   - string: the combined WGSL source
func Compose(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return strings.Join(trimmed, "\n\n") + "\n"
}

// RectSource returns the complete WGSL program for the rect pipeline:
// vertex input struct plus the rect body.
//
// Returns:
//   - string: compilable WGSL source with vs_main and fs_main entry points
func RectSource() string {
	return Compose(model.GPUVertexSource, rectBody)
}

// ShadowCubeSource returns the complete WGSL program for shadow cube face
// passes: vertex input struct, shadow uniform struct, and the pass body that
// writes normalized light distance to the red channel.
//
// Returns:
//   - string: compilable WGSL source with vs_main and fs_main entry points
func ShadowCubeSource() string {
	return Compose(model.GPUVertexSource, render_step.GPUShadowVSParamsSource, shadowCubeBody)
}

// LitMeshSource returns the complete WGSL program for the lit mesh pipeline:
// vertex input struct, lit uniform struct, and the Lambert-plus-shadow body.
//
// Returns:
//   - string: compilable WGSL source with vs_main and fs_main entry points
func LitMeshSource() string {
	return Compose(model.GPUVertexSource, light.GPULitVSParamsSource, litMeshBody)
}
