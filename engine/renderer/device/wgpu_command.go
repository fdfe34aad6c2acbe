package device

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/AyanamiKaine/stella-render/common"
	"github.com/AyanamiKaine/stella-render/engine/renderer/pipeline"
)

type wgpuCommandBuffer struct {
	dev     *wgpuDevice
	label   string
	encoder *wgpu.CommandEncoder
	pass    *wgpuRenderPass
}

var _ CommandBuffer = &wgpuCommandBuffer{}

func (cb *wgpuCommandBuffer) BeginRenderPass(cfg RenderPassConfig) RenderPass {
	if cb.encoder == nil {
		common.Logger().Warn("render pass on submitted command buffer", "commandBuffer", cb.label, "pass", cfg.Label)
		return &wgpuRenderPass{}
	}
	if cb.pass != nil {
		common.Logger().Warn("render pass opened while previous pass still open", "commandBuffer", cb.label, "pass", cfg.Label)
		cb.pass.End()
	}

	colorView, ok := cfg.ColorView.(*wgpuTextureView)
	if !ok || colorView.view == nil {
		common.Logger().Warn("render pass has no usable color attachment", "commandBuffer", cb.label, "pass", cfg.Label)
		return &wgpuRenderPass{}
	}

	descriptor := &wgpu.RenderPassDescriptor{
		Label: cfg.Label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    colorView.view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: cfg.ClearColor.R,
					G: cfg.ClearColor.G,
					B: cfg.ClearColor.B,
					A: cfg.ClearColor.A,
				},
			},
		},
	}

	if cfg.DepthView != nil {
		depthView, okDepth := cfg.DepthView.(*wgpuTextureView)
		if !okDepth || depthView.view == nil {
			common.Logger().Warn("render pass has no usable depth attachment", "commandBuffer", cb.label, "pass", cfg.Label)
			return &wgpuRenderPass{}
		}
		descriptor.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            depthView.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		}
	}

	pass := cb.encoder.BeginRenderPass(descriptor)

	cb.pass = &wgpuRenderPass{dev: cb.dev, cb: cb, pass: pass}
	return cb.pass
}

// wgpuRenderPass records into an open wgpu render pass. A zero value acts as
// an inert pass so that attachment failures degrade to dropped draws instead
// of nil dereferences mid-frame.
type wgpuRenderPass struct {
	dev  *wgpuDevice
	cb   *wgpuCommandBuffer
	pass *wgpu.RenderPassEncoder

	pipelineBound bool
	uniformBound  bool
	skipDraw      bool
}

var _ RenderPass = &wgpuRenderPass{}

func (p *wgpuRenderPass) SetPipeline(pl pipeline.Pipeline) {
	if p.pass == nil {
		return
	}

	p.pipelineBound = false
	if pl == nil {
		common.Logger().Warn("nil pipeline bound to render pass")
		return
	}
	renderPipeline, ok := pl.Pipeline().(*wgpu.RenderPipeline)
	if !ok || renderPipeline == nil {
		common.Logger().Warn("pipeline not registered with device", "pipeline", pl.PipelineKey())
		return
	}

	p.pass.SetPipeline(renderPipeline)
	p.pipelineBound = true
}

func (p *wgpuRenderPass) SetViewport(x, y, width, height float32) {
	if p.pass == nil {
		return
	}
	p.pass.SetViewport(x, y, width, height, 0, 1)
}

func (p *wgpuRenderPass) PushVertexUniforms(data []byte) {
	if p.pass == nil {
		return
	}

	group, offset, ok := p.dev.pushUniform(data)
	if !ok {
		p.skipDraw = true
		return
	}

	p.pass.SetBindGroup(0, group, []uint32{offset})
	p.uniformBound = true
	p.skipDraw = false
}

func (p *wgpuRenderPass) BindShadowCube(view TextureView, sampler Sampler) {
	if p.pass == nil {
		return
	}

	group := p.dev.shadowBindGroup(view, sampler)
	if group == nil {
		p.skipDraw = true
		return
	}

	p.pass.SetBindGroup(1, group, nil)
}

func (p *wgpuRenderPass) DrawMesh(m Mesh) {
	if p.pass == nil {
		return
	}
	if !p.pipelineBound || !p.uniformBound {
		common.Logger().Warn("draw without pipeline or uniforms, dropping",
			"pipelineBound", p.pipelineBound, "uniformBound", p.uniformBound)
		return
	}
	if p.skipDraw {
		p.skipDraw = false
		return
	}
	if m == nil || m.VertexBuffer() == nil || m.IndexBuffer() == nil {
		common.Logger().Warn("draw with incomplete mesh, dropping")
		return
	}

	p.pass.SetVertexBuffer(0, m.VertexBuffer(), 0, wgpu.WholeSize)
	p.pass.SetIndexBuffer(m.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	p.pass.DrawIndexed(uint32(m.IndexCount()), 1, 0, 0, 0)
}

func (p *wgpuRenderPass) End() {
	if p.pass == nil {
		return
	}

	p.pass.End()
	p.pass = nil

	if p.cb != nil && p.cb.pass == p {
		p.cb.pass = nil
	}
}
