package model

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/AyanamiKaine/stella-render/engine/renderer/device"
)

// VertexLayout returns the wgpu vertex buffer layout matching GPUVertex.
// Pipelines drawing meshes built by this package must use this layout.
//
// Returns:
//   - wgpu.VertexBufferLayout: position/normal/color at locations 0/1/2
func VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 40,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},
		},
	}
}

// CubeGeometry builds the vertex and index lists for an axis-aligned cube
// centered at the origin. Each face carries its own four vertices so normals
// stay flat, 24 vertices and 36 indices total. Triangles wind counterclockwise
// when viewed from outside the cube.
//
// Parameters:
//   - halfExtent: half the cube edge length
//   - color: RGBA color applied to every vertex
//
// Returns:
//   - []GPUVertex: 24 vertices, four per face
//   - []uint32: 36 triangle indices
func CubeGeometry(halfExtent float32, color [4]float32) ([]GPUVertex, []uint32) {
	h := halfExtent
	faces := []struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
	}

	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for f, face := range faces {
		for _, corner := range face.corners {
			vertices = append(vertices, GPUVertex{
				Position: corner,
				Normal:   face.normal,
				Color:    color,
			})
		}
		base := uint32(f * 4)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// QuadGeometry builds the vertex and index lists for a flat quad in the XZ
// plane at y=0, facing +Y. Useful as a ground plane for shadow receivers.
//
// Parameters:
//   - extent: half the quad edge length
//   - color: RGBA color applied to every vertex
//
// Returns:
//   - []GPUVertex: 4 vertices
//   - []uint32: 6 triangle indices
func QuadGeometry(extent float32, color [4]float32) ([]GPUVertex, []uint32) {
	s := extent
	up := [3]float32{0, 1, 0}
	vertices := []GPUVertex{
		{Position: [3]float32{-s, 0, -s}, Normal: up, Color: color},
		{Position: [3]float32{-s, 0, s}, Normal: up, Color: color},
		{Position: [3]float32{s, 0, s}, Normal: up, Color: color},
		{Position: [3]float32{s, 0, -s}, Normal: up, Color: color},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	return vertices, indices
}

// NewCubeMesh uploads a cube built by CubeGeometry to the device.
//
// Parameters:
//   - dev: the device to upload through
//   - label: debug label for the mesh buffers
//   - halfExtent: half the cube edge length
//   - color: RGBA color applied to every vertex
//
// Returns:
//   - device.Mesh: the uploaded mesh
//   - error: an error if buffer creation failed
func NewCubeMesh(dev device.Device, label string, halfExtent float32, color [4]float32) (device.Mesh, error) {
	vertices, indices := CubeGeometry(halfExtent, color)
	return dev.CreateMesh(label, MarshalVertices(vertices), MarshalIndices(indices), len(indices))
}

// NewQuadMesh uploads a ground quad built by QuadGeometry to the device.
//
// Parameters:
//   - dev: the device to upload through
//   - label: debug label for the mesh buffers
//   - extent: half the quad edge length
//   - color: RGBA color applied to every vertex
//
// Returns:
//   - device.Mesh: the uploaded mesh
//   - error: an error if buffer creation failed
func NewQuadMesh(dev device.Device, label string, extent float32, color [4]float32) (device.Mesh, error) {
	vertices, indices := QuadGeometry(extent, color)
	return dev.CreateMesh(label, MarshalVertices(vertices), MarshalIndices(indices), len(indices))
}
