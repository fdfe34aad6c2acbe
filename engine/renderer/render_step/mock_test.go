package render_step

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/AyanamiKaine/stella-render/engine/renderer/device"
	"github.com/AyanamiKaine/stella-render/engine/renderer/pipeline"
)

// Mock device implementations that count invocations and capture pushed
// uniform bytes, so step behavior is observable without a GPU.

type mockView struct{ label string }

func (v *mockView) Label() string { return v.label }
func (v *mockView) Release()      {}

type mockSampler struct {
	label    string
	released int
}

func (s *mockSampler) Label() string { return s.label }
func (s *mockSampler) Release()      { s.released++ }

type mockCubeTexture struct {
	label      string
	resolution uint32
	faces      [device.CubeFaceCount]*mockView
	cube       *mockView
	released   int
}

func newMockCubeTexture(label string, resolution uint32) *mockCubeTexture {
	c := &mockCubeTexture{label: label, resolution: resolution}
	for i := range c.faces {
		c.faces[i] = &mockView{label: fmt.Sprintf("%s face %d", label, i)}
	}
	c.cube = &mockView{label: label + " cube"}
	return c
}

func (c *mockCubeTexture) Label() string      { return c.label }
func (c *mockCubeTexture) Resolution() uint32 { return c.resolution }
func (c *mockCubeTexture) Release()           { c.released++ }

func (c *mockCubeTexture) FaceView(face int) device.TextureView {
	if face < 0 || face >= device.CubeFaceCount {
		return nil
	}
	return c.faces[face]
}

func (c *mockCubeTexture) CubeView() device.TextureView { return c.cube }

type mockTexture2D struct {
	label    string
	view     *mockView
	released int
}

func (t *mockTexture2D) Label() string            { return t.label }
func (t *mockTexture2D) View() device.TextureView { return t.view }
func (t *mockTexture2D) Release()                 { t.released++ }

type mockMesh struct {
	label      string
	indexCount int
	released   int
}

func (m *mockMesh) Label() string              { return m.label }
func (m *mockMesh) VertexBuffer() *wgpu.Buffer { return nil }
func (m *mockMesh) IndexBuffer() *wgpu.Buffer  { return nil }
func (m *mockMesh) IndexCount() int            { return m.indexCount }
func (m *mockMesh) Release()                   { m.released++ }

type mockDevice struct {
	cubes    []*mockCubeTexture
	samplers []*mockSampler
	depths   []*mockTexture2D
	meshes   []*mockMesh

	failCubeTexture  bool
	failSampler      bool
	failDepthTexture bool
}

func (d *mockDevice) CreateCubeTexture(label string, resolution uint32) (device.CubeTexture, error) {
	if d.failCubeTexture {
		return nil, errors.New("mock cube texture failure")
	}
	c := newMockCubeTexture(label, resolution)
	d.cubes = append(d.cubes, c)
	return c, nil
}

func (d *mockDevice) CreateDepthTexture(label string, width, height uint32) (device.Texture2D, error) {
	if d.failDepthTexture {
		return nil, errors.New("mock depth texture failure")
	}
	t := &mockTexture2D{label: label, view: &mockView{label: label + " view"}}
	d.depths = append(d.depths, t)
	return t, nil
}

func (d *mockDevice) CreateSampler(label string) (device.Sampler, error) {
	if d.failSampler {
		return nil, errors.New("mock sampler failure")
	}
	s := &mockSampler{label: label}
	d.samplers = append(d.samplers, s)
	return s, nil
}

func (d *mockDevice) CreateMesh(label string, vertexData, indexData []byte, indexCount int) (device.Mesh, error) {
	m := &mockMesh{label: label, indexCount: indexCount}
	d.meshes = append(d.meshes, m)
	return m, nil
}

func (d *mockDevice) CreateRenderPipeline(p pipeline.Pipeline) error { return nil }

func (d *mockDevice) CreateCommandBuffer(label string) (device.CommandBuffer, error) {
	return &mockCommandBuffer{label: label}, nil
}

func (d *mockDevice) Submit(cb device.CommandBuffer) error { return nil }

func (d *mockDevice) Release() {}

type mockCommandBuffer struct {
	label  string
	passes []*mockRenderPass
}

func (cb *mockCommandBuffer) BeginRenderPass(cfg device.RenderPassConfig) device.RenderPass {
	p := &mockRenderPass{cfg: cfg}
	cb.passes = append(cb.passes, p)
	return p
}

type mockRenderPass struct {
	cfg device.RenderPassConfig

	pipelines   []pipeline.Pipeline
	viewports   [][4]float32
	uniforms    [][]byte
	shadowViews []device.TextureView
	draws       []device.Mesh
	ended       int
}

func (p *mockRenderPass) SetPipeline(pl pipeline.Pipeline) {
	p.pipelines = append(p.pipelines, pl)
}

func (p *mockRenderPass) SetViewport(x, y, width, height float32) {
	p.viewports = append(p.viewports, [4]float32{x, y, width, height})
}

func (p *mockRenderPass) PushVertexUniforms(data []byte) {
	p.uniforms = append(p.uniforms, append([]byte(nil), data...))
}

func (p *mockRenderPass) BindShadowCube(view device.TextureView, sampler device.Sampler) {
	p.shadowViews = append(p.shadowViews, view)
}

func (p *mockRenderPass) DrawMesh(m device.Mesh) {
	p.draws = append(p.draws, m)
}

func (p *mockRenderPass) End() {
	p.ended++
}

var (
	_ device.Device        = &mockDevice{}
	_ device.CommandBuffer = &mockCommandBuffer{}
	_ device.RenderPass    = &mockRenderPass{}
	_ device.CubeTexture   = &mockCubeTexture{}
	_ device.Texture2D     = &mockTexture2D{}
	_ device.Mesh          = &mockMesh{}
	_ device.TextureView   = &mockView{}
	_ device.Sampler       = &mockSampler{}
)
