package renderer

import (
	"errors"
	"sync"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/AyanamiKaine/stella-render/engine/camera"
	"github.com/AyanamiKaine/stella-render/engine/renderer/device"
	"github.com/AyanamiKaine/stella-render/engine/renderer/pipeline"
	"github.com/AyanamiKaine/stella-render/engine/renderer/render_step"
)

// Mock surface device and recording steps so frame sequencing is observable
// without a GPU. The mock counts invocations and captures pass configs.

type mockView struct{ label string }

func (v *mockView) Label() string { return v.label }
func (v *mockView) Release()      {}

type mockSampler struct{ label string }

func (s *mockSampler) Label() string { return s.label }
func (s *mockSampler) Release()      {}

type mockMesh struct{ label string }

func (m *mockMesh) Label() string              { return m.label }
func (m *mockMesh) VertexBuffer() *wgpu.Buffer { return nil }
func (m *mockMesh) IndexBuffer() *wgpu.Buffer  { return nil }
func (m *mockMesh) IndexCount() int            { return 0 }
func (m *mockMesh) Release()                   {}

type mockTexture2D struct {
	label string
	view  *mockView
}

func (t *mockTexture2D) Label() string            { return t.label }
func (t *mockTexture2D) View() device.TextureView { return t.view }
func (t *mockTexture2D) Release()                 {}

type mockCubeTexture struct {
	label      string
	resolution uint32
	faces      [device.CubeFaceCount]*mockView
	cube       *mockView
}

func (c *mockCubeTexture) Label() string      { return c.label }
func (c *mockCubeTexture) Resolution() uint32 { return c.resolution }
func (c *mockCubeTexture) Release()           {}

func (c *mockCubeTexture) FaceView(face int) device.TextureView {
	if face < 0 || face >= device.CubeFaceCount {
		return nil
	}
	return c.faces[face]
}

func (c *mockCubeTexture) CubeView() device.TextureView { return c.cube }

type mockRenderPass struct {
	cfg   device.RenderPassConfig
	draws []device.Mesh
	ended int
}

func (p *mockRenderPass) SetPipeline(pl pipeline.Pipeline)        {}
func (p *mockRenderPass) SetViewport(x, y, width, height float32) {}
func (p *mockRenderPass) PushVertexUniforms(data []byte)          {}

func (p *mockRenderPass) BindShadowCube(view device.TextureView, s device.Sampler) {}

func (p *mockRenderPass) DrawMesh(m device.Mesh) {
	p.draws = append(p.draws, m)
}

func (p *mockRenderPass) End() {
	p.ended++
}

type mockCommandBuffer struct {
	label  string
	passes []*mockRenderPass
}

func (cb *mockCommandBuffer) BeginRenderPass(cfg device.RenderPassConfig) device.RenderPass {
	p := &mockRenderPass{cfg: cfg}
	cb.passes = append(cb.passes, p)
	return p
}

type mockSurfaceDevice struct {
	surface *mockView
	depth   *mockView

	failAcquire bool
	failCommand bool
	failConfig  bool

	commands     []*mockCommandBuffer
	pipelineKeys []string
	configures   [][2]int
	presentModes []device.PresentMode
	acquires     int
	submits      int
	presents     int
	released     int
}

func newMockSurfaceDevice() *mockSurfaceDevice {
	return &mockSurfaceDevice{
		surface: &mockView{label: "surface"},
		depth:   &mockView{label: "depth"},
	}
}

func (d *mockSurfaceDevice) CreateCubeTexture(label string, resolution uint32) (device.CubeTexture, error) {
	c := &mockCubeTexture{label: label, resolution: resolution, cube: &mockView{label: label + " cube"}}
	for i := range c.faces {
		c.faces[i] = &mockView{label: label + " face"}
	}
	return c, nil
}

func (d *mockSurfaceDevice) CreateDepthTexture(label string, width, height uint32) (device.Texture2D, error) {
	return &mockTexture2D{label: label, view: &mockView{label: label + " view"}}, nil
}

func (d *mockSurfaceDevice) CreateSampler(label string) (device.Sampler, error) {
	return &mockSampler{label: label}, nil
}

func (d *mockSurfaceDevice) CreateMesh(label string, vertexData, indexData []byte, indexCount int) (device.Mesh, error) {
	return &mockMesh{label: label}, nil
}

func (d *mockSurfaceDevice) CreateRenderPipeline(p pipeline.Pipeline) error {
	d.pipelineKeys = append(d.pipelineKeys, p.PipelineKey())
	return nil
}

func (d *mockSurfaceDevice) CreateCommandBuffer(label string) (device.CommandBuffer, error) {
	if d.failCommand {
		return nil, errors.New("mock command buffer failure")
	}
	cb := &mockCommandBuffer{label: label}
	d.commands = append(d.commands, cb)
	return cb, nil
}

func (d *mockSurfaceDevice) Submit(cb device.CommandBuffer) error {
	d.submits++
	return nil
}

func (d *mockSurfaceDevice) Release() { d.released++ }

func (d *mockSurfaceDevice) ConfigureSurface(width, height int) error {
	if d.failConfig {
		return errors.New("mock configure failure")
	}
	d.configures = append(d.configures, [2]int{width, height})
	return nil
}

func (d *mockSurfaceDevice) SetPresentMode(mode device.PresentMode) {
	d.presentModes = append(d.presentModes, mode)
}

func (d *mockSurfaceDevice) AcquireSurfaceView() (device.TextureView, error) {
	if d.failAcquire {
		return nil, errors.New("mock surface unavailable")
	}
	d.acquires++
	return d.surface, nil
}

func (d *mockSurfaceDevice) DepthView() device.TextureView { return d.depth }

func (d *mockSurfaceDevice) Present() { d.presents++ }

var _ device.SurfaceDevice = &mockSurfaceDevice{}

// phaseEvent is one lifecycle call observed by a recording step.
type phaseEvent struct {
	phase string
	step  string
}

// frameLog collects phase events from all steps of a frame. Update fan-out
// runs steps concurrently, so appends are mutex-guarded.
type frameLog struct {
	mu     sync.Mutex
	events []phaseEvent
}

func (l *frameLog) add(phase, step string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, phaseEvent{phase: phase, step: step})
}

func (l *frameLog) snapshot() []phaseEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]phaseEvent(nil), l.events...)
}

type recordingStep struct {
	name string
	log  *frameLog

	initErr     error
	initialized int
	disposed    int
}

func (s *recordingStep) Initialize(dev device.Device) error {
	if s.initErr != nil {
		return s.initErr
	}
	s.initialized++
	return nil
}

func (s *recordingStep) Update(deltaTime float32) {
	s.log.add("update", s.name)
}

func (s *recordingStep) Prepare(cmd device.CommandBuffer, view *render_step.ViewContext) {
	s.log.add("prepare", s.name)
}

func (s *recordingStep) Record(cmd device.CommandBuffer, pass device.RenderPass, view *render_step.ViewContext) {
	s.log.add("record", s.name)
}

func (s *recordingStep) Dispose() {
	s.disposed++
}

var _ render_step.RenderStep = &recordingStep{}

func newTestRenderer(t *testing.T, dev *mockSurfaceDevice, opts ...RendererBuilderOption) Renderer {
	t.Helper()
	r, err := NewRenderer(nil, append([]RendererBuilderOption{WithSurfaceDevice(dev)}, opts...)...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}

func stepsInPhase(events []phaseEvent, phase string) []string {
	var names []string
	for _, e := range events {
		if e.phase == phase {
			names = append(names, e.step)
		}
	}
	return names
}

func lastIndexOfPhase(events []phaseEvent, phase string) int {
	last := -1
	for i, e := range events {
		if e.phase == phase {
			last = i
		}
	}
	return last
}

func firstIndexOfPhase(events []phaseEvent, phase string) int {
	for i, e := range events {
		if e.phase == phase {
			return i
		}
	}
	return -1
}

func TestRenderFramePhaseOrder(t *testing.T) {
	dev := newMockSurfaceDevice()
	clear := device.Color{R: 0.5, G: 0.25, B: 0.125, A: 1}
	r := newTestRenderer(t, dev, WithClearColor(clear), WithUpdateWorkers(2))

	log := &frameLog{}
	a := &recordingStep{name: "a", log: log}
	b := &recordingStep{name: "b", log: log}
	c := &recordingStep{name: "c", log: log}
	for _, s := range []render_step.RenderStep{a, b, c} {
		if err := r.AddStep(s); err != nil {
			t.Fatalf("AddStep() error = %v", err)
		}
	}

	if err := r.RenderFrame(0.016); err != nil {
		t.Fatalf("RenderFrame() error = %v", err)
	}

	events := log.snapshot()
	if got, want := len(events), 9; got != want {
		t.Fatalf("len(events) = %v, want %v", got, want)
	}

	// Update order across steps is unspecified (parallel fan-out), but every
	// Update must complete before the first Prepare.
	if got, want := len(stepsInPhase(events, "update")), 3; got != want {
		t.Errorf("update count = %v, want %v", got, want)
	}
	if last, first := lastIndexOfPhase(events, "update"), firstIndexOfPhase(events, "prepare"); last > first {
		t.Errorf("last update at index %v, after first prepare at index %v", last, first)
	}

	// Prepare and Record run serially in registration order, and every
	// Prepare completes before the first Record.
	wantOrder := []string{"a", "b", "c"}
	for _, phase := range []string{"prepare", "record"} {
		got := stepsInPhase(events, phase)
		if len(got) != len(wantOrder) {
			t.Fatalf("%s count = %v, want %v", phase, len(got), len(wantOrder))
		}
		for i := range wantOrder {
			if got[i] != wantOrder[i] {
				t.Errorf("%s order = %v, want %v", phase, got, wantOrder)
				break
			}
		}
	}
	if last, first := lastIndexOfPhase(events, "prepare"), firstIndexOfPhase(events, "record"); last > first {
		t.Errorf("last prepare at index %v, after first record at index %v", last, first)
	}

	// One command buffer, one primary pass against the surface and shared
	// depth attachment, one submit, one present.
	if got, want := len(dev.commands), 1; got != want {
		t.Fatalf("command buffers = %v, want %v", got, want)
	}
	if got, want := dev.submits, 1; got != want {
		t.Errorf("submits = %v, want %v", got, want)
	}
	if got, want := dev.presents, 1; got != want {
		t.Errorf("presents = %v, want %v", got, want)
	}
	passes := dev.commands[0].passes
	if got, want := len(passes), 1; got != want {
		t.Fatalf("render passes = %v, want %v", got, want)
	}
	pass := passes[0]
	if pass.cfg.ColorView != dev.surface {
		t.Errorf("primary pass color view = %v, want surface view", pass.cfg.ColorView)
	}
	if pass.cfg.DepthView != dev.depth {
		t.Errorf("primary pass depth view = %v, want device depth view", pass.cfg.DepthView)
	}
	if pass.cfg.ClearColor != clear {
		t.Errorf("primary pass clear color = %v, want %v", pass.cfg.ClearColor, clear)
	}
	if got, want := pass.ended, 1; got != want {
		t.Errorf("primary pass End() calls = %v, want %v", got, want)
	}
}

func TestRenderFrameSkipsWhenSurfaceUnavailable(t *testing.T) {
	dev := newMockSurfaceDevice()
	dev.failAcquire = true
	r := newTestRenderer(t, dev)

	log := &frameLog{}
	step := &recordingStep{name: "s", log: log}
	if err := r.AddStep(step); err != nil {
		t.Fatalf("AddStep() error = %v", err)
	}

	if err := r.RenderFrame(0.016); err != nil {
		t.Fatalf("RenderFrame() with unavailable surface error = %v, want nil", err)
	}
	if got := len(log.snapshot()); got != 0 {
		t.Errorf("phase events after skipped frame = %v, want 0", got)
	}
	if got := len(dev.commands); got != 0 {
		t.Errorf("command buffers after skipped frame = %v, want 0", got)
	}
	if dev.submits != 0 || dev.presents != 0 {
		t.Errorf("submits, presents = %v, %v, want 0, 0", dev.submits, dev.presents)
	}

	// The next frame renders normally once the surface comes back.
	dev.failAcquire = false
	if err := r.RenderFrame(0.016); err != nil {
		t.Fatalf("RenderFrame() after recovery error = %v", err)
	}
	if got, want := dev.presents, 1; got != want {
		t.Errorf("presents after recovery = %v, want %v", got, want)
	}
}

func TestRenderFramePresentsWhenCommandBufferFails(t *testing.T) {
	dev := newMockSurfaceDevice()
	dev.failCommand = true
	r := newTestRenderer(t, dev)

	if err := r.RenderFrame(0.016); err == nil {
		t.Fatal("RenderFrame() error = nil, want command buffer error")
	}
	// The acquired surface must still be handed back.
	if got, want := dev.presents, 1; got != want {
		t.Errorf("presents = %v, want %v", got, want)
	}
}

func TestAddStepInitializesAndRemoveStepDisposes(t *testing.T) {
	dev := newMockSurfaceDevice()
	r := newTestRenderer(t, dev)

	log := &frameLog{}
	step := &recordingStep{name: "s", log: log}
	if err := r.AddStep(step); err != nil {
		t.Fatalf("AddStep() error = %v", err)
	}
	if got, want := step.initialized, 1; got != want {
		t.Errorf("initialized = %v, want %v", got, want)
	}
	if got, want := len(r.Steps()), 1; got != want {
		t.Errorf("len(Steps()) = %v, want %v", got, want)
	}

	r.RemoveStep(step)
	if got, want := step.disposed, 1; got != want {
		t.Errorf("disposed = %v, want %v", got, want)
	}
	if got, want := len(r.Steps()), 0; got != want {
		t.Errorf("len(Steps()) after remove = %v, want %v", got, want)
	}

	// Removing an unknown step is a no-op.
	r.RemoveStep(step)
	if got, want := step.disposed, 1; got != want {
		t.Errorf("disposed after duplicate remove = %v, want %v", got, want)
	}

	if err := r.AddStep(nil); err != nil {
		t.Errorf("AddStep(nil) error = %v, want nil", err)
	}
	if got, want := len(r.Steps()), 0; got != want {
		t.Errorf("len(Steps()) after AddStep(nil) = %v, want %v", got, want)
	}
}

func TestAddStepPropagatesInitializeFailure(t *testing.T) {
	dev := newMockSurfaceDevice()
	r := newTestRenderer(t, dev)

	boom := errors.New("boom")
	step := &recordingStep{name: "s", log: &frameLog{}, initErr: boom}
	if err := r.AddStep(step); !errors.Is(err, boom) {
		t.Fatalf("AddStep() error = %v, want wrapped %v", err, boom)
	}
	if got, want := len(r.Steps()), 0; got != want {
		t.Errorf("len(Steps()) after failed add = %v, want %v", got, want)
	}
}

func TestRegisterPipelinesSkipsDuplicateKeys(t *testing.T) {
	dev := newMockSurfaceDevice()
	r := newTestRenderer(t, dev)

	lit := pipeline.NewPipeline("lit")
	litAgain := pipeline.NewPipeline("lit")
	shadow := pipeline.NewPipeline("shadow")
	if err := r.RegisterPipelines(lit, litAgain, shadow, nil); err != nil {
		t.Fatalf("RegisterPipelines() error = %v", err)
	}

	if got, want := len(dev.pipelineKeys), 2; got != want {
		t.Fatalf("device pipeline creations = %v, want %v", got, want)
	}
	if dev.pipelineKeys[0] != "lit" || dev.pipelineKeys[1] != "shadow" {
		t.Errorf("created pipeline keys = %v, want [lit shadow]", dev.pipelineKeys)
	}
	if got := r.Pipeline("lit"); got != lit {
		t.Errorf("Pipeline(\"lit\") = %v, want first registered pipeline", got)
	}
	if got := r.Pipeline("missing"); got != nil {
		t.Errorf("Pipeline(\"missing\") = %v, want nil", got)
	}

	// Re-registering an existing key creates nothing.
	if err := r.RegisterPipelines(shadow); err != nil {
		t.Fatalf("RegisterPipelines() error = %v", err)
	}
	if got, want := len(dev.pipelineKeys), 2; got != want {
		t.Errorf("device pipeline creations after re-register = %v, want %v", got, want)
	}
}

func TestReleaseDisposesStepsAndDevice(t *testing.T) {
	dev := newMockSurfaceDevice()
	r := newTestRenderer(t, dev)

	log := &frameLog{}
	a := &recordingStep{name: "a", log: log}
	b := &recordingStep{name: "b", log: log}
	if err := r.AddStep(a); err != nil {
		t.Fatalf("AddStep() error = %v", err)
	}
	if err := r.AddStep(b); err != nil {
		t.Fatalf("AddStep() error = %v", err)
	}

	r.Release()
	if a.disposed != 1 || b.disposed != 1 {
		t.Errorf("disposed = %v, %v, want 1, 1", a.disposed, b.disposed)
	}
	if got, want := dev.released, 1; got != want {
		t.Errorf("device released = %v, want %v", got, want)
	}

	r.Release()
	if a.disposed != 1 || b.disposed != 1 || dev.released != 1 {
		t.Errorf("release counts after second Release = %v, %v, %v, want 1, 1, 1",
			a.disposed, b.disposed, dev.released)
	}

	if err := r.RenderFrame(0.016); !errors.Is(err, ErrRendererReleased) {
		t.Errorf("RenderFrame() after Release error = %v, want %v", err, ErrRendererReleased)
	}
}

func TestResizeConfiguresSurfaceAndCamera(t *testing.T) {
	dev := newMockSurfaceDevice()
	r := newTestRenderer(t, dev)

	r.Resize(800, 400)
	if got, want := len(dev.configures), 1; got != want {
		t.Fatalf("surface configurations = %v, want %v", got, want)
	}
	if dev.configures[0] != [2]int{800, 400} {
		t.Errorf("ConfigureSurface size = %v, want [800 400]", dev.configures[0])
	}
	if got, want := r.Camera().Aspect(), float32(2); got != want {
		t.Errorf("camera Aspect() = %v, want %v", got, want)
	}

	// Degenerate sizes are ignored.
	r.Resize(0, 400)
	r.Resize(800, -1)
	if got, want := len(dev.configures), 1; got != want {
		t.Errorf("surface configurations after degenerate resizes = %v, want %v", got, want)
	}

	// A failed reconfigure leaves the camera untouched.
	dev.failConfig = true
	r.Resize(100, 100)
	if got, want := r.Camera().Aspect(), float32(2); got != want {
		t.Errorf("camera Aspect() after failed resize = %v, want %v", got, want)
	}
}

func TestSetCameraReplacesAndIgnoresNil(t *testing.T) {
	dev := newMockSurfaceDevice()
	r := newTestRenderer(t, dev)

	original := r.Camera()
	if original == nil {
		t.Fatal("Camera() = nil, want default camera")
	}

	replacement := camera.NewCamera(camera.WithAspect(2))
	r.SetCamera(replacement)
	if got := r.Camera(); got != replacement {
		t.Errorf("Camera() after SetCamera = %v, want replacement", got)
	}

	r.SetCamera(nil)
	if got := r.Camera(); got != replacement {
		t.Errorf("Camera() after SetCamera(nil) = %v, want replacement kept", got)
	}
}

func TestWithPresentModeOnSuppliedDevice(t *testing.T) {
	dev := newMockSurfaceDevice()
	newTestRenderer(t, dev, WithPresentMode(device.PresentModeVSync))

	if got, want := len(dev.presentModes), 1; got != want {
		t.Fatalf("SetPresentMode calls = %v, want %v", got, want)
	}
	if got, want := dev.presentModes[0], device.PresentModeVSync; got != want {
		t.Errorf("present mode = %v, want %v", got, want)
	}
}

func TestWithUpdateWorkersClampsToOne(t *testing.T) {
	dev := newMockSurfaceDevice()
	r := newTestRenderer(t, dev, WithUpdateWorkers(0))

	impl, ok := r.(*rendererImpl)
	if !ok {
		t.Fatalf("renderer concrete type = %T, want *rendererImpl", r)
	}
	if got, want := impl.updateWorkers, 1; got != want {
		t.Errorf("updateWorkers = %v, want %v", got, want)
	}
}
