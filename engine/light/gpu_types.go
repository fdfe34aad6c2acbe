package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULitVSParamsSource is the canonical WGSL definition of the VSParams struct for lit mesh pipelines.
// Matches GPULitVSParams layout exactly (176 bytes, std140 aligned).
//
//go:embed assets/lit_vs_params.wgsl
var GPULitVSParamsSource string

// GPULitVSParams is the GPU-aligned per-draw vertex uniform for lit mesh pipelines.
// Matches the WGSL VSParams struct layout exactly (see GPULitVSParamsSource).
// Size: 176 bytes (std140 aligned, trailing 12-byte pad to the 16-byte struct boundary).
type GPULitVSParams struct {
	MVP        [16]float32 // offset   0: combined model-view-projection matrix (64 bytes)
	Model      [16]float32 // offset  64: model-to-world transform matrix (64 bytes)
	LightPos   [3]float32  // offset 128: point light position in world space (12 bytes)
	Ambient    float32     // offset 140: ambient light intensity [0,1] (4 bytes)
	LightColor [3]float32  // offset 144: light color in linear RGB (12 bytes)
	FarPlane   float32     // offset 156: shadow far plane distance (4 bytes)
	DepthBias  float32     // offset 160: shadow depth comparison bias (4 bytes)
	Pad        [3]float32  // offset 164: alignment filler (12 bytes)
}

// Size returns the size of the GPULitVSParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPULitVSParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULitVSParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 176-byte buffer ready for GPU upload.
func (g *GPULitVSParams) Marshal() []byte {
	buf := make([]byte, 176)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.MVP[i]))
	}
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[64+i*4:64+(i+1)*4], math.Float32bits(g.Model[i]))
	}
	binary.LittleEndian.PutUint32(buf[128:132], math.Float32bits(g.LightPos[0]))
	binary.LittleEndian.PutUint32(buf[132:136], math.Float32bits(g.LightPos[1]))
	binary.LittleEndian.PutUint32(buf[136:140], math.Float32bits(g.LightPos[2]))
	binary.LittleEndian.PutUint32(buf[140:144], math.Float32bits(g.Ambient))
	binary.LittleEndian.PutUint32(buf[144:148], math.Float32bits(g.LightColor[0]))
	binary.LittleEndian.PutUint32(buf[148:152], math.Float32bits(g.LightColor[1]))
	binary.LittleEndian.PutUint32(buf[152:156], math.Float32bits(g.LightColor[2]))
	binary.LittleEndian.PutUint32(buf[156:160], math.Float32bits(g.FarPlane))
	binary.LittleEndian.PutUint32(buf[160:164], math.Float32bits(g.DepthBias))
	return buf
}
