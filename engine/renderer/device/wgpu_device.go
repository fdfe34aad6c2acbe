package device

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/AyanamiKaine/stella-render/common"
	"github.com/AyanamiKaine/stella-render/engine/renderer/pipeline"
)

// MaxVertexUniformSize is the largest uniform blob PushVertexUniforms
// accepts. Each draw's uniforms occupy one 256-byte slot in the shared
// uniform ring, matching the WebGPU default uniform offset alignment.
const MaxVertexUniformSize = 256

// uniformSlotAlignment is the WebGPU default minUniformBufferOffsetAlignment.
const uniformSlotAlignment = 256

// uniformChunkSlots is the number of draw slots per ring buffer chunk (64 KiB
// each). Chunks are allocated on demand up to maxUniformChunks; beyond that
// draws are dropped rather than growing without bound.
const (
	uniformChunkSlots = 256
	maxUniformChunks  = 256
)

type uniformChunk struct {
	buffer *wgpu.Buffer
	group  *wgpu.BindGroup
}

type shadowGroupKey struct {
	view    TextureView
	sampler Sampler
}

type wgpuDevice struct {
	mu *sync.Mutex

	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	depthTexture  *wgpu.Texture
	depthView     *wgpuTextureView
	presentMode   wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)

	// Fixed pipeline interface: group 0 is the per-draw uniform slot, group 1
	// is the optional shadow cubemap binding.
	uniformLayout *wgpu.BindGroupLayout
	shadowLayout  *wgpu.BindGroupLayout

	chunks     []*uniformChunk
	chunkIndex int
	slotIndex  int

	shadowGroups map[shadowGroupKey]*wgpu.BindGroup

	frameSurface *wgpu.Texture
	frameView    *wgpuTextureView

	released bool
}

var _ SurfaceDevice = &wgpuDevice{}

// New creates a WebGPU device bound to the given window surface. The calling
// goroutine is locked to its OS thread for the lifetime of the device, since
// surface acquisition and presentation must happen on the thread that owns
// the window.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor for the window
//   - opts: optional DeviceBuilderOption overrides
//
// Returns:
//   - SurfaceDevice: the initialized device
//   - error: an error if no suitable adapter or device is available
func New(surfaceDescriptor *wgpu.SurfaceDescriptor, opts ...DeviceBuilderOption) (SurfaceDevice, error) {
	runtime.LockOSThread()

	options := &deviceBuilderOptions{
		presentMode: wgpu.PresentModeImmediate,
	}
	for _, opt := range opts {
		opt(options)
	}

	d := &wgpuDevice{
		mu:           &sync.Mutex{},
		instance:     wgpu.CreateInstance(nil),
		presentMode:  options.presentMode,
		shadowGroups: make(map[shadowGroupKey]*wgpu.BindGroup),
	}
	d.surface = d.instance.CreateSurface(surfaceDescriptor)

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: options.forceFallbackAdapter,
		CompatibleSurface:    d.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	d.adapter = adapter

	limits := wgpu.DefaultLimits()

	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	if err := d.createBindGroupLayouts(); err != nil {
		return nil, err
	}

	return d, nil
}

// createBindGroupLayouts builds the two layouts every pipeline is registered
// against: a single dynamic-offset uniform at group 0, and the shadow cubemap
// texture plus sampler at group 1. R32Float is not filterable, so the cube is
// declared unfilterable-float and read through a non-filtering sampler.
func (d *wgpuDevice) createBindGroupLayouts() error {
	uniformLayout, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Per-Draw Uniform Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create uniform bind group layout: %w", err)
	}
	d.uniformLayout = uniformLayout

	shadowLayout, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Shadow Cube Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
					ViewDimension: wgpu.TextureViewDimensionCube,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeNonFiltering,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shadow bind group layout: %w", err)
	}
	d.shadowLayout = shadowLayout

	return nil
}

func (d *wgpuDevice) ConfigureSurface(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return ErrDeviceReleased
	}

	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surfaceFormat = &capabilities.Formats[0]

	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *d.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: d.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	// Rebuild the depth attachment at the new surface size.
	if d.depthView != nil {
		d.depthView.Release()
		d.depthView = nil
	}
	if d.depthTexture != nil {
		d.depthTexture.Release()
		d.depthTexture = nil
	}

	depthTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}

	view, err := depthTexture.CreateView(nil)
	if err != nil {
		depthTexture.Release()
		return fmt.Errorf("failed to create depth texture view: %w", err)
	}

	d.depthTexture = depthTexture
	d.depthView = &wgpuTextureView{label: "Depth Texture View", view: view}

	return nil
}

func (d *wgpuDevice) SetPresentMode(mode PresentMode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		d.presentMode = wgpu.PresentModeFifo
	default:
		d.presentMode = wgpu.PresentModeImmediate
	}
}

func (d *wgpuDevice) AcquireSurfaceView() (TextureView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil, ErrDeviceReleased
	}
	if d.surfaceFormat == nil {
		return nil, ErrSurfaceNotConfigured
	}

	// Refuse to acquire a second swapchain image while one is outstanding.
	// This prevents wgpu-native validation errors like "Surface image is
	// already acquired" when frames overlap.
	if d.frameSurface != nil {
		return nil, ErrFrameInFlight
	}

	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire surface texture: %w", err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, fmt.Errorf("failed to create surface view: %w", err)
	}

	d.frameSurface = surfaceTexture
	d.frameView = &wgpuTextureView{label: "Surface View", view: view}

	return d.frameView, nil
}

func (d *wgpuDevice) DepthView() TextureView {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.depthView == nil {
		return nil
	}
	return d.depthView
}

func (d *wgpuDevice) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if d.frameSurface == nil {
		return
	}

	d.surface.Present()

	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	d.frameSurface.Release()
	d.frameSurface = nil
}

func (d *wgpuDevice) CreateCubeTexture(label string, resolution uint32) (CubeTexture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil, ErrDeviceReleased
	}
	if resolution == 0 {
		return nil, fmt.Errorf("cube texture %q: resolution must be positive", label)
	}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              resolution,
			Height:             resolution,
			DepthOrArrayLayers: CubeFaceCount,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatR32Float,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cube texture %q: %w", label, err)
	}

	cube := &wgpuCubeTexture{
		dev:        d,
		label:      label,
		resolution: resolution,
		texture:    tex,
	}

	for face := 0; face < CubeFaceCount; face++ {
		view, viewErr := tex.CreateView(&wgpu.TextureViewDescriptor{
			Label:           fmt.Sprintf("%s Face %d", label, face),
			Format:          wgpu.TextureFormatR32Float,
			Dimension:       wgpu.TextureViewDimension2D,
			BaseMipLevel:    0,
			MipLevelCount:   1,
			BaseArrayLayer:  uint32(face),
			ArrayLayerCount: 1,
			Aspect:          wgpu.TextureAspectAll,
		})
		if viewErr != nil {
			cube.releaseLocked()
			return nil, fmt.Errorf("failed to create face view %d of %q: %w", face, label, viewErr)
		}
		cube.faces[face] = &wgpuTextureView{label: fmt.Sprintf("%s Face %d", label, face), view: view}
	}

	cubeView, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           label + " Cube View",
		Format:          wgpu.TextureFormatR32Float,
		Dimension:       wgpu.TextureViewDimensionCube,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: CubeFaceCount,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		cube.releaseLocked()
		return nil, fmt.Errorf("failed to create cube view of %q: %w", label, err)
	}
	cube.cube = &wgpuTextureView{label: label + " Cube View", view: cubeView}

	return cube, nil
}

func (d *wgpuDevice) CreateDepthTexture(label string, width, height uint32) (Texture2D, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil, ErrDeviceReleased
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("depth texture %q: size must be positive", label)
	}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create depth texture %q: %w", label, err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create depth texture view %q: %w", label, err)
	}

	return &wgpuTexture2D{
		label:   label,
		texture: tex,
		view:    &wgpuTextureView{label: label + " View", view: view},
	}, nil
}

func (d *wgpuDevice) CreateSampler(label string) (Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil, ErrDeviceReleased
	}

	samp, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler %q: %w", label, err)
	}

	return &wgpuSampler{label: label, sampler: samp}, nil
}

func (d *wgpuDevice) CreateMesh(label string, vertexData, indexData []byte, indexCount int) (Mesh, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil, ErrDeviceReleased
	}
	if len(vertexData) == 0 || len(indexData) == 0 {
		return nil, fmt.Errorf("mesh %q: vertex and index data must be non-empty", label)
	}

	vertexBuffer, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " Vertex Buffer",
		Size:             uint64(len(vertexData)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex buffer for %q: %w", label, err)
	}

	indexBuffer, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " Index Buffer",
		Size:             uint64(len(indexData)),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		vertexBuffer.Release()
		return nil, fmt.Errorf("failed to create index buffer for %q: %w", label, err)
	}

	d.queue.WriteBuffer(vertexBuffer, 0, vertexData)
	d.queue.WriteBuffer(indexBuffer, 0, indexData)

	return &wgpuMesh{
		label:        label,
		vertexBuffer: vertexBuffer,
		indexBuffer:  indexBuffer,
		indexCount:   indexCount,
	}, nil
}

func (d *wgpuDevice) CreateRenderPipeline(p pipeline.Pipeline) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return ErrDeviceReleased
	}
	if p.Source() == "" {
		return fmt.Errorf("pipeline %q: %w", p.PipelineKey(), ErrMissingShaderSource)
	}

	colorFormat := p.ColorFormat()
	if colorFormat == wgpu.TextureFormatUndefined {
		if d.surfaceFormat == nil {
			return fmt.Errorf("pipeline %q: %w", p.PipelineKey(), ErrSurfaceNotConfigured)
		}
		colorFormat = *d.surfaceFormat
	}

	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Source(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shader module for %q: %w", p.PipelineKey(), err)
	}

	bindGroupLayouts := []*wgpu.BindGroupLayout{d.uniformLayout}
	if p.ShadowCubeBinding() {
		bindGroupLayouts = append(bindGroupLayouts, d.shadowLayout)
	}

	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout for %q: %w", p.PipelineKey(), err)
	}

	created, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.VertexEntryPoint(),
			Buffers:    p.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{
				func() wgpu.ColorTargetState {
					state := wgpu.ColorTargetState{
						Format:    colorFormat,
						WriteMask: p.WriteMask(),
					}
					if p.BlendEnabled() {
						state.Blend = p.BlendState()
					}
					return state
				}(),
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: func() *wgpu.DepthStencilState {
			if p.DepthFormat() == wgpu.TextureFormatUndefined {
				return nil
			}
			depthCompare := wgpu.CompareFunctionLess
			if !p.DepthTestEnabled() {
				depthCompare = wgpu.CompareFunctionAlways
			}
			return &wgpu.DepthStencilState{
				Format:            p.DepthFormat(),
				DepthWriteEnabled: p.DepthWriteEnabled(),
				DepthCompare:      depthCompare,
				StencilFront: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
				StencilBack: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
			}
		}(),
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline for %q: %w", p.PipelineKey(), err)
	}

	p.SetRenderPipeline(created)

	return nil
}

func (d *wgpuDevice) CreateCommandBuffer(label string) (CommandBuffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil, ErrDeviceReleased
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder %q: %w", label, err)
	}

	// Opening a command buffer recycles the per-draw uniform ring, so the
	// previous buffer must be submitted before a new one is opened.
	d.chunkIndex = 0
	d.slotIndex = 0

	return &wgpuCommandBuffer{dev: d, label: label, encoder: encoder}, nil
}

func (d *wgpuDevice) Submit(cb CommandBuffer) error {
	wcb, ok := cb.(*wgpuCommandBuffer)
	if !ok {
		return fmt.Errorf("cannot submit foreign command buffer %T", cb)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return ErrDeviceReleased
	}
	if wcb.encoder == nil {
		return fmt.Errorf("command buffer %q already submitted", wcb.label)
	}
	if wcb.pass != nil {
		return fmt.Errorf("command buffer %q has an open render pass", wcb.label)
	}

	commandBuffer, err := wcb.encoder.Finish(nil)
	if err != nil {
		wcb.encoder.Release()
		wcb.encoder = nil
		return fmt.Errorf("failed to finish command buffer %q: %w", wcb.label, err)
	}

	d.queue.Submit(commandBuffer)

	commandBuffer.Release()
	wcb.encoder.Release()
	wcb.encoder = nil

	return nil
}

func (d *wgpuDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return
	}
	d.released = true

	for key, group := range d.shadowGroups {
		group.Release()
		delete(d.shadowGroups, key)
	}
	for _, chunk := range d.chunks {
		chunk.group.Release()
		chunk.buffer.Release()
	}
	d.chunks = nil

	if d.uniformLayout != nil {
		d.uniformLayout.Release()
		d.uniformLayout = nil
	}
	if d.shadowLayout != nil {
		d.shadowLayout.Release()
		d.shadowLayout = nil
	}

	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	if d.frameSurface != nil {
		d.frameSurface.Release()
		d.frameSurface = nil
	}
	if d.depthView != nil {
		d.depthView.Release()
		d.depthView = nil
	}
	if d.depthTexture != nil {
		d.depthTexture.Release()
		d.depthTexture = nil
	}

	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// pushUniform writes one draw's uniform bytes into the next free ring slot
// and returns the chunk's bind group with the slot's dynamic offset.
func (d *wgpuDevice) pushUniform(data []byte) (*wgpu.BindGroup, uint32, bool) {
	if len(data) == 0 || len(data) > MaxVertexUniformSize {
		common.Logger().Warn("uniform push rejected", "size", len(data), "max", MaxVertexUniformSize)
		return nil, 0, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil, 0, false
	}

	if d.slotIndex == uniformChunkSlots {
		d.chunkIndex++
		d.slotIndex = 0
	}

	if d.chunkIndex == len(d.chunks) {
		if len(d.chunks) == maxUniformChunks {
			common.Logger().Warn("uniform ring exhausted, dropping draw",
				"chunks", len(d.chunks), "slotsPerChunk", uniformChunkSlots)
			return nil, 0, false
		}
		chunk, err := d.growUniformRing()
		if err != nil {
			common.Logger().Warn("failed to grow uniform ring", "error", err)
			return nil, 0, false
		}
		d.chunks = append(d.chunks, chunk)
	}

	chunk := d.chunks[d.chunkIndex]
	offset := uint32(d.slotIndex * uniformSlotAlignment)
	d.queue.WriteBuffer(chunk.buffer, uint64(offset), data)
	d.slotIndex++

	return chunk.group, offset, true
}

func (d *wgpuDevice) growUniformRing() (*uniformChunk, error) {
	buffer, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: fmt.Sprintf("Uniform Ring Chunk %d", len(d.chunks)),
		Size:  uniformChunkSlots * uniformSlotAlignment,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create uniform ring buffer: %w", err)
	}

	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  fmt.Sprintf("Uniform Ring Bind Group %d", len(d.chunks)),
		Layout: d.uniformLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buffer,
				Offset:  0,
				Size:    MaxVertexUniformSize,
			},
		},
	})
	if err != nil {
		buffer.Release()
		return nil, fmt.Errorf("failed to create uniform ring bind group: %w", err)
	}

	return &uniformChunk{buffer: buffer, group: group}, nil
}

// shadowBindGroup returns the cached bind group for a cube view and sampler
// pair, creating it on first use. Entries are evicted when the owning cube
// texture is released.
func (d *wgpuDevice) shadowBindGroup(view TextureView, sampler Sampler) *wgpu.BindGroup {
	wv, okView := view.(*wgpuTextureView)
	ws, okSampler := sampler.(*wgpuSampler)
	if !okView || !okSampler || wv.view == nil || ws.sampler == nil {
		common.Logger().Warn("shadow cube binding rejected", "view", view, "sampler", sampler)
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil
	}

	key := shadowGroupKey{view: view, sampler: sampler}
	if group, ok := d.shadowGroups[key]; ok {
		return group
	}

	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Shadow Cube Bind Group",
		Layout: d.shadowLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding:     0,
				TextureView: wv.view,
			},
			{
				Binding: 1,
				Sampler: ws.sampler,
			},
		},
	})
	if err != nil {
		common.Logger().Warn("failed to create shadow cube bind group", "error", err)
		return nil
	}

	d.shadowGroups[key] = group
	return group
}

// evictShadowGroups drops cached bind groups referencing the given view.
func (d *wgpuDevice) evictShadowGroups(view TextureView) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, group := range d.shadowGroups {
		if key.view == view {
			group.Release()
			delete(d.shadowGroups, key)
		}
	}
}
