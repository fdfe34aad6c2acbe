package device

import (
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuTextureView struct {
	label string
	view  *wgpu.TextureView
}

var _ TextureView = &wgpuTextureView{}

func (v *wgpuTextureView) Label() string {
	return v.label
}

func (v *wgpuTextureView) Release() {
	if v.view != nil {
		v.view.Release()
		v.view = nil
	}
}

type wgpuSampler struct {
	label   string
	sampler *wgpu.Sampler
}

var _ Sampler = &wgpuSampler{}

func (s *wgpuSampler) Label() string {
	return s.label
}

func (s *wgpuSampler) Release() {
	if s.sampler != nil {
		s.sampler.Release()
		s.sampler = nil
	}
}

type wgpuTexture2D struct {
	label   string
	texture *wgpu.Texture
	view    *wgpuTextureView
}

var _ Texture2D = &wgpuTexture2D{}

func (t *wgpuTexture2D) Label() string {
	return t.label
}

func (t *wgpuTexture2D) View() TextureView {
	if t.view == nil {
		return nil
	}
	return t.view
}

func (t *wgpuTexture2D) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

type wgpuCubeTexture struct {
	dev        *wgpuDevice
	label      string
	resolution uint32
	texture    *wgpu.Texture
	faces      [CubeFaceCount]*wgpuTextureView
	cube       *wgpuTextureView
}

var _ CubeTexture = &wgpuCubeTexture{}

func (c *wgpuCubeTexture) Label() string {
	return c.label
}

func (c *wgpuCubeTexture) Resolution() uint32 {
	return c.resolution
}

func (c *wgpuCubeTexture) FaceView(face int) TextureView {
	if face < 0 || face >= CubeFaceCount {
		return nil
	}
	if c.faces[face] == nil {
		return nil
	}
	return c.faces[face]
}

func (c *wgpuCubeTexture) CubeView() TextureView {
	if c.cube == nil {
		return nil
	}
	return c.cube
}

func (c *wgpuCubeTexture) Release() {
	// Cached shadow bind groups reference the cube view and must go first.
	if c.cube != nil && c.dev != nil {
		c.dev.evictShadowGroups(c.cube)
	}
	c.releaseLocked()
}

// releaseLocked frees views and the texture without touching the device's
// bind group cache. Used directly for partially constructed textures.
func (c *wgpuCubeTexture) releaseLocked() {
	for i, face := range c.faces {
		if face != nil {
			face.Release()
			c.faces[i] = nil
		}
	}
	if c.cube != nil {
		c.cube.Release()
		c.cube = nil
	}
	if c.texture != nil {
		c.texture.Release()
		c.texture = nil
	}
}

type wgpuMesh struct {
	label        string
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

var _ Mesh = &wgpuMesh{}

func (m *wgpuMesh) Label() string {
	return m.label
}

func (m *wgpuMesh) VertexBuffer() *wgpu.Buffer {
	return m.vertexBuffer
}

func (m *wgpuMesh) IndexBuffer() *wgpu.Buffer {
	return m.indexBuffer
}

func (m *wgpuMesh) IndexCount() int {
	return m.indexCount
}

func (m *wgpuMesh) Release() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
}
