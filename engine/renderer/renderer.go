package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/AyanamiKaine/stella-render/common"
	"github.com/AyanamiKaine/stella-render/engine/camera"
	"github.com/AyanamiKaine/stella-render/engine/renderer/device"
	"github.com/AyanamiKaine/stella-render/engine/renderer/pipeline"
	"github.com/AyanamiKaine/stella-render/engine/renderer/render_step"
)

// ErrRendererReleased is returned when a frame is requested after Release.
var ErrRendererReleased = errors.New("renderer: renderer has been released")

// rendererImpl is the implementation of the Renderer interface.
type rendererImpl struct {
	mu *sync.Mutex

	dev device.SurfaceDevice
	cam camera.Camera

	pipelineCache map[string]pipeline.Pipeline
	steps         []render_step.RenderStep

	clearColor device.Color

	// updatePool fans Update out across a bounded set of reusable goroutines.
	// Workers idle-exit after a second of inactivity, so no explicit shutdown
	// is needed.
	updatePool    worker.DynamicWorkerPool
	updateWorkers int

	// Pre-creation config collected from builder options.
	forceFallbackAdapter bool
	pendingPresentMode   *device.PresentMode

	released bool
}

// Renderer drives frames through a list of render steps over a shared surface
// device. Each frame runs the step lifecycle in phase order: Update for every
// step (fanned out across the worker pool with a barrier), then Prepare for
// every step in registration order, then one primary pass in which every step
// Records, then submit and present.
//
// Steps are initialized when added and disposed when removed; the renderer
// disposes all remaining steps and releases the device on Release. Shared
// textures produced in Prepare (such as a shadow cube) are safe to consume in
// Record because the phases never interleave within a frame.
type Renderer interface {
	// Device retrieves the surface device the renderer draws through.
	//
	// Returns:
	//   - device.SurfaceDevice: the device
	Device() device.SurfaceDevice

	// Camera retrieves the camera whose view and projection matrices feed the
	// per-frame ViewContext.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// SetCamera replaces the renderer's camera.
	//
	// Parameters:
	//   - cam: the camera to use for subsequent frames
	SetCamera(cam camera.Camera)

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the
	// corresponding GPU pipeline objects via the device, then caching them by
	// PipelineKey. Pipelines whose keys are already registered are skipped to
	// avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// AddStep initializes a render step against the device and appends it to
	// the frame order. Steps run in the order they were added.
	//
	// Parameters:
	//   - step: the render step to add
	//
	// Returns:
	//   - error: an error if the step's Initialize fails
	AddStep(step render_step.RenderStep) error

	// RemoveStep disposes a previously added step and removes it from the
	// frame order. Unknown steps are ignored.
	//
	// Parameters:
	//   - step: the render step to remove
	RemoveStep(step render_step.RenderStep)

	// Steps returns the current frame order.
	//
	// Returns:
	//   - []render_step.RenderStep: the registered steps in execution order
	Steps() []render_step.RenderStep

	// SetClearColor sets the primary pass clear color.
	//
	// Parameters:
	//   - color: the clear color for subsequent frames
	SetClearColor(color device.Color)

	// RenderFrame runs one full frame: Update fan-out, serial Prepare,
	// primary pass Record, submit, present. A frame whose surface texture
	// cannot be acquired (for example mid-resize) is skipped without error.
	//
	// Parameters:
	//   - deltaTime: seconds elapsed since the previous frame
	//
	// Returns:
	//   - error: an error if command recording or submission fails
	RenderFrame(deltaTime float32) error

	// Resize reconfigures the surface and updates the camera aspect ratio.
	// This should be called when the window or surface size changes.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Release disposes all remaining steps and releases the device.
	// Safe to call multiple times.
	Release()
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates a Renderer over a new surface device built from the
// given surface descriptor. A default camera is attached; replace it with
// WithCamera or SetCamera. When WithSurfaceDevice supplies a device the
// descriptor is ignored and may be nil.
//
// Parameters:
//   - surfaceDescriptor: the platform surface to create the device on
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if device creation fails
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...RendererBuilderOption) (Renderer, error) {
	r := &rendererImpl{
		mu:            &sync.Mutex{},
		cam:           camera.NewCamera(),
		pipelineCache: make(map[string]pipeline.Pipeline),
		clearColor:    device.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
		updateWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(r)
	}

	if r.dev == nil {
		var deviceOptions []device.DeviceBuilderOption
		if r.forceFallbackAdapter {
			deviceOptions = append(deviceOptions, device.WithForceFallbackAdapter())
		}
		if r.pendingPresentMode != nil {
			deviceOptions = append(deviceOptions, device.WithPresentMode(*r.pendingPresentMode))
		}
		dev, err := device.New(surfaceDescriptor, deviceOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to create surface device: %w", err)
		}
		r.dev = dev
	} else if r.pendingPresentMode != nil {
		r.dev.SetPresentMode(*r.pendingPresentMode)
	}

	r.updatePool = worker.NewDynamicWorkerPool(r.updateWorkers, 256, 1*time.Second)
	return r, nil
}

func (r *rendererImpl) Device() device.SurfaceDevice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dev
}

func (r *rendererImpl) Camera() camera.Camera {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cam
}

func (r *rendererImpl) SetCamera(cam camera.Camera) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cam != nil {
		r.cam = cam
	}
}

func (r *rendererImpl) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *rendererImpl) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		if p == nil {
			continue
		}
		if _, ok := r.pipelineCache[p.PipelineKey()]; ok {
			continue
		}
		if err := r.dev.CreateRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %q: %w", p.PipelineKey(), err)
		}
		r.pipelineCache[p.PipelineKey()] = p
	}
	return nil
}

func (r *rendererImpl) AddStep(step render_step.RenderStep) error {
	if step == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := step.Initialize(r.dev); err != nil {
		return fmt.Errorf("failed to initialize render step: %w", err)
	}
	r.steps = append(r.steps, step)
	return nil
}

func (r *rendererImpl) RemoveStep(step render_step.RenderStep) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.steps {
		if s == step {
			r.steps = append(r.steps[:i], r.steps[i+1:]...)
			step.Dispose()
			return
		}
	}
}

func (r *rendererImpl) Steps() []render_step.RenderStep {
	r.mu.Lock()
	defer r.mu.Unlock()
	steps := make([]render_step.RenderStep, len(r.steps))
	copy(steps, r.steps)
	return steps
}

func (r *rendererImpl) SetClearColor(color device.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearColor = color
}

func (r *rendererImpl) RenderFrame(deltaTime float32) error {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return ErrRendererReleased
	}
	dev := r.dev
	cam := r.cam
	clearColor := r.clearColor
	pool := r.updatePool
	steps := make([]render_step.RenderStep, len(r.steps))
	copy(steps, r.steps)
	r.mu.Unlock()

	surfaceView, err := dev.AcquireSurfaceView()
	if err != nil {
		common.Logger().Warn("skipping frame, surface texture unavailable", "error", err)
		return nil
	}

	cmd, err := dev.CreateCommandBuffer("Frame")
	if err != nil {
		dev.Present()
		return fmt.Errorf("failed to open frame command buffer: %w", err)
	}

	// Phase 1: parallel Update fan-out. Workers are reused across frames; a
	// WaitGroup provides the per-frame barrier since pool.Wait() blocks until
	// workers idle-exit which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	for i, step := range steps {
		wg.Add(1)
		stepCap := step // capture for closure
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				stepCap.Update(deltaTime)
				return nil, nil
			},
		})
	}
	wg.Wait()

	viewMatrix := cam.ViewMatrix()
	projectionMatrix := cam.ProjectionMatrix()
	viewContext := &render_step.ViewContext{
		View:       viewMatrix[:],
		Projection: projectionMatrix[:],
	}

	// Phase 2: serial Prepare. Steps may open and close their own auxiliary
	// passes here (the shadow cube does), so this must finish before the
	// primary pass opens.
	for _, step := range steps {
		step.Prepare(cmd, viewContext)
	}

	// Phase 3: one primary pass, every step records into it in order.
	pass := cmd.BeginRenderPass(device.RenderPassConfig{
		Label:      "Main Pass",
		ColorView:  surfaceView,
		ClearColor: clearColor,
		DepthView:  dev.DepthView(),
	})
	for _, step := range steps {
		step.Record(cmd, pass, viewContext)
	}
	pass.End()

	if err := dev.Submit(cmd); err != nil {
		return fmt.Errorf("failed to submit frame: %w", err)
	}
	dev.Present()
	return nil
}

func (r *rendererImpl) Resize(width, height int) {
	r.mu.Lock()
	dev := r.dev
	cam := r.cam
	r.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}
	if err := dev.ConfigureSurface(width, height); err != nil {
		common.Logger().Error("failed to reconfigure surface", "width", width, "height", height, "error", err)
		return
	}
	cam.SetAspect(float32(width) / float32(height))
}

func (r *rendererImpl) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	for _, step := range r.steps {
		step.Dispose()
	}
	r.steps = nil
	r.pipelineCache = nil
	r.dev.Release()
}
