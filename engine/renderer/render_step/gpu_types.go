package render_step

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUShadowVSParamsSource is the canonical WGSL definition of the ShadowVSParams struct for the shadow cube pipeline.
// Matches GPUShadowVSParams layout exactly (160 bytes, std140 aligned).
//
//go:embed assets/shadow_vs_params.wgsl
var GPUShadowVSParamsSource string

// GPUShadowVSParams is the GPU-aligned per-draw vertex uniform for shadow cube face passes.
// Matches the WGSL ShadowVSParams struct layout exactly (see GPUShadowVSParamsSource).
// Size: 160 bytes (std140 aligned, trailing 12-byte pad to the 16-byte struct boundary).
type GPUShadowVSParams struct {
	Model     [16]float32 // offset   0: model-to-world transform matrix (64 bytes)
	ViewProj  [16]float32 // offset  64: face view-projection matrix (64 bytes)
	LightPos  [3]float32  // offset 128: point light position in world space (12 bytes)
	FarPlane  float32     // offset 140: far plane distance for depth normalization (4 bytes)
	DepthBias float32     // offset 144: bias added to the stored depth proxy (4 bytes)
	Pad       [3]float32  // offset 148: alignment filler (12 bytes)
}

// Size returns the size of the GPUShadowVSParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUShadowVSParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUShadowVSParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 160-byte buffer ready for GPU upload.
func (g *GPUShadowVSParams) Marshal() []byte {
	buf := make([]byte, 160)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.Model[i]))
	}
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[64+i*4:64+(i+1)*4], math.Float32bits(g.ViewProj[i]))
	}
	binary.LittleEndian.PutUint32(buf[128:132], math.Float32bits(g.LightPos[0]))
	binary.LittleEndian.PutUint32(buf[132:136], math.Float32bits(g.LightPos[1]))
	binary.LittleEndian.PutUint32(buf[136:140], math.Float32bits(g.LightPos[2]))
	binary.LittleEndian.PutUint32(buf[140:144], math.Float32bits(g.FarPlane))
	binary.LittleEndian.PutUint32(buf[144:148], math.Float32bits(g.DepthBias))
	return buf
}
