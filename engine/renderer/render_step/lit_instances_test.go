package render_step

import (
	"math"
	"testing"

	"github.com/AyanamiKaine/stella-render/common"
	"github.com/AyanamiKaine/stella-render/engine/light"
	"github.com/AyanamiKaine/stella-render/engine/renderer/pipeline"
)

func translation(x, y, z float32) []float32 {
	m := common.NewIdentity()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

func identityView() *ViewContext {
	return &ViewContext{View: common.NewIdentity(), Projection: common.NewIdentity()}
}

func TestLitRecordEmptyTouchesNothing(t *testing.T) {
	step := NewLitInstancesStep(pipeline.NewPipeline("lit"), light.NewMaterial())
	pass := &mockRenderPass{}
	step.Record(&mockCommandBuffer{}, pass, identityView())

	if len(pass.pipelines) != 0 {
		t.Errorf("pipeline binds = %d, want 0", len(pass.pipelines))
	}
	if len(pass.uniforms) != 0 {
		t.Errorf("uniform pushes = %d, want 0", len(pass.uniforms))
	}
	if len(pass.draws) != 0 {
		t.Errorf("draws = %d, want 0", len(pass.draws))
	}
}

func TestLitRecordNilViewTouchesNothing(t *testing.T) {
	step := NewLitInstancesStep(pipeline.NewPipeline("lit"), light.NewMaterial())
	step.AddInstance(&mockMesh{indexCount: 36}, func() []float32 { return common.NewIdentity() })

	pass := &mockRenderPass{}
	step.Record(&mockCommandBuffer{}, pass, nil)
	if len(pass.draws) != 0 {
		t.Errorf("draws with nil view context = %d, want 0", len(pass.draws))
	}
}

func TestLitRecordBindsPipelineOnceDrawsEach(t *testing.T) {
	step := NewLitInstancesStep(pipeline.NewPipeline("lit"), light.NewMaterial())
	meshes := []*mockMesh{
		{label: "a", indexCount: 36},
		{label: "b", indexCount: 36},
		{label: "c", indexCount: 36},
	}
	for _, m := range meshes {
		step.AddInstance(m, func() []float32 { return common.NewIdentity() })
	}
	if got := step.InstanceCount(); got != 3 {
		t.Fatalf("InstanceCount() = %d, want 3", got)
	}

	pass := &mockRenderPass{}
	step.Record(&mockCommandBuffer{}, pass, identityView())

	if len(pass.pipelines) != 1 {
		t.Errorf("pipeline binds = %d, want 1", len(pass.pipelines))
	}
	if len(pass.shadowViews) != 0 {
		t.Errorf("shadow cube binds = %d, want 0 without a shadow map", len(pass.shadowViews))
	}
	if len(pass.draws) != 3 {
		t.Fatalf("draws = %d, want 3", len(pass.draws))
	}
	for i, m := range meshes {
		if pass.draws[i] != m {
			t.Errorf("draw %d = %v, want mesh %q", i, pass.draws[i], m.label)
		}
	}
	for i, blob := range pass.uniforms {
		if len(blob) != 176 {
			t.Errorf("uniform %d size = %d, want 176", i, len(blob))
		}
	}
}

func TestLitRecordBindsShadowCubeWhenMaterialHasOne(t *testing.T) {
	view := &mockView{label: "shadow cube view"}
	sampler := &mockSampler{label: "shadow sampler"}
	material := light.NewMaterial(light.WithShadowMap(view, sampler))

	step := NewLitInstancesStep(pipeline.NewPipeline("lit"), material)
	step.AddInstance(&mockMesh{indexCount: 36}, func() []float32 { return common.NewIdentity() })

	pass := &mockRenderPass{}
	step.Record(&mockCommandBuffer{}, pass, identityView())

	if len(pass.shadowViews) != 1 {
		t.Fatalf("shadow cube binds = %d, want 1", len(pass.shadowViews))
	}
	if pass.shadowViews[0] != view {
		t.Errorf("shadow cube bind view = %v, want the material's view", pass.shadowViews[0])
	}
}

func TestLitRecordComposesModelViewProjection(t *testing.T) {
	material := light.NewMaterial(
		light.WithLightPosition(1, 2, 3),
		light.WithLightColor(0.5, 0.6, 0.7),
		light.WithAmbient(0.25),
		light.WithShadowParams(25, 0.01))
	step := NewLitInstancesStep(pipeline.NewPipeline("lit"), material)
	step.AddInstance(&mockMesh{indexCount: 36}, func() []float32 { return translation(5, 0, 0) })

	view := &ViewContext{View: translation(2, 3, 4), Projection: common.NewIdentity()}
	pass := &mockRenderPass{}
	step.Record(&mockCommandBuffer{}, pass, view)

	if len(pass.uniforms) != 1 {
		t.Fatalf("uniform pushes = %d, want 1", len(pass.uniforms))
	}
	blob := pass.uniforms[0]

	wantMVP := translation(7, 3, 4)
	for i := 0; i < 16; i++ {
		if got := float32At(t, blob, i*4); got != wantMVP[i] {
			t.Errorf("mvp[%d] = %v, want %v", i, got, wantMVP[i])
		}
	}
	wantModel := translation(5, 0, 0)
	for i := 0; i < 16; i++ {
		if got := float32At(t, blob, 64+i*4); got != wantModel[i] {
			t.Errorf("model[%d] = %v, want %v", i, got, wantModel[i])
		}
	}

	scalars := []struct {
		name   string
		offset int
		want   float32
	}{
		{"light_pos.x", 128, 1},
		{"light_pos.y", 132, 2},
		{"light_pos.z", 136, 3},
		{"ambient", 140, 0.25},
		{"light_color.r", 144, 0.5},
		{"light_color.g", 148, 0.6},
		{"light_color.b", 152, 0.7},
		{"far_plane", 156, 25},
		{"depth_bias", 160, 0.01},
	}
	for _, s := range scalars {
		if got := float32At(t, blob, s.offset); got != s.want {
			t.Errorf("%s at offset %d = %v, want %v", s.name, s.offset, got, s.want)
		}
	}
}

func TestLitRecordMatchesDirectComposition(t *testing.T) {
	material := light.NewMaterial()
	step := NewLitInstancesStep(pipeline.NewPipeline("lit"), material)

	model := make([]float32, 16)
	common.BuildModelMatrix(model, 1, -2, 3, 0.3, 0.7, 0.1, 2, 2, 2)
	step.AddInstance(&mockMesh{indexCount: 36}, func() []float32 { return model })

	projection := make([]float32, 16)
	common.Perspective(projection, math.Pi/3, 16.0/9.0, 0.1, 100)
	viewMatrix := make([]float32, 16)
	common.LookAt(viewMatrix, 0, 5, 10, 0, 0, 0, 0, 1, 0)

	pass := &mockRenderPass{}
	step.Record(&mockCommandBuffer{}, pass, &ViewContext{View: viewMatrix, Projection: projection})

	if len(pass.uniforms) != 1 {
		t.Fatalf("uniform pushes = %d, want 1", len(pass.uniforms))
	}

	viewProj := make([]float32, 16)
	common.Mul4(viewProj, projection, viewMatrix)
	want := make([]float32, 16)
	common.Mul4(want, viewProj, model)

	blob := pass.uniforms[0]
	for i := 0; i < 16; i++ {
		got := float32At(t, blob, i*4)
		if math.Abs(float64(got-want[i])) > matrixEpsilon {
			t.Errorf("mvp[%d] = %v, want %v", i, got, want[i])
		}
	}
}

func TestLitClearInstances(t *testing.T) {
	step := NewLitInstancesStep(pipeline.NewPipeline("lit"), light.NewMaterial())
	step.AddInstance(&mockMesh{indexCount: 36}, func() []float32 { return common.NewIdentity() })
	step.AddInstance(&mockMesh{indexCount: 36}, func() []float32 { return common.NewIdentity() })
	step.ClearInstances()
	if got := step.InstanceCount(); got != 0 {
		t.Errorf("InstanceCount() after ClearInstances = %d, want 0", got)
	}

	pass := &mockRenderPass{}
	step.Record(&mockCommandBuffer{}, pass, identityView())
	if len(pass.pipelines) != 0 {
		t.Errorf("pipeline binds after ClearInstances = %d, want 0", len(pass.pipelines))
	}
}

func TestLitDisposeDropsInstances(t *testing.T) {
	step := NewLitInstancesStep(pipeline.NewPipeline("lit"), light.NewMaterial())
	step.AddInstance(&mockMesh{indexCount: 36}, func() []float32 { return common.NewIdentity() })
	step.Dispose()
	step.Dispose()
	if got := step.InstanceCount(); got != 0 {
		t.Errorf("InstanceCount() after Dispose = %d, want 0", got)
	}
}
