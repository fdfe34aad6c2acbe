package camera

import (
	"math"
	"testing"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	if x, y, z := c.Position(); x != 0 || y != 0 || z != 5 {
		t.Errorf("Position() = (%v, %v, %v), want (0, 0, 5)", x, y, z)
	}
	if x, y, z := c.Target(); x != 0 || y != 0 || z != 0 {
		t.Errorf("Target() = (%v, %v, %v), want origin", x, y, z)
	}
	if x, y, z := c.Up(); x != 0 || y != 1 || z != 0 {
		t.Errorf("Up() = (%v, %v, %v), want (0, 1, 0)", x, y, z)
	}
	if got, want := c.Fov(), float32(45.0*(math.Pi/180.0)); got != want {
		t.Errorf("Fov() = %v, want %v", got, want)
	}
	if got := c.Near(); got != 0.1 {
		t.Errorf("Near() = %v, want 0.1", got)
	}
	if got := c.Far(); got != 100 {
		t.Errorf("Far() = %v, want 100", got)
	}
}

func TestCameraBuilderOptions(t *testing.T) {
	c := NewCamera(
		WithPosition(1, 2, 3),
		WithTarget(4, 5, 6),
		WithUp(0, 0, 1),
		WithFov(math.Pi/2),
		WithAspect(16.0/9.0),
		WithNear(0.5),
		WithFar(50),
	)
	if x, y, z := c.Position(); x != 1 || y != 2 || z != 3 {
		t.Errorf("Position() = (%v, %v, %v), want (1, 2, 3)", x, y, z)
	}
	if x, y, z := c.Target(); x != 4 || y != 5 || z != 6 {
		t.Errorf("Target() = (%v, %v, %v), want (4, 5, 6)", x, y, z)
	}
	if got := c.Aspect(); got != 16.0/9.0 {
		t.Errorf("Aspect() = %v, want 16/9", got)
	}
	if got := c.Far(); got != 50 {
		t.Errorf("Far() = %v, want 50", got)
	}
}

func TestViewMatrixLooksDownNegativeZ(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 5), WithTarget(0, 0, 0))
	view := c.ViewMatrix()

	// Looking down -Z from (0,0,5): rotation stays identity, translation
	// moves the eye to the origin.
	want := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, -5, 1,
	}
	for i := range want {
		if math.Abs(float64(view[i]-want[i])) > 1e-6 {
			t.Errorf("view[%d] = %v, want %v", i, view[i], want[i])
		}
	}
}

func TestProjectionMatrixMapsDepthToZeroOne(t *testing.T) {
	c := NewCamera(WithFov(math.Pi/2), WithAspect(1), WithNear(1), WithFar(10))
	proj := c.ProjectionMatrix()

	// fov 90deg, aspect 1: f = 1.
	if math.Abs(float64(proj[0]-1)) > 1e-6 || math.Abs(float64(proj[5]-1)) > 1e-6 {
		t.Errorf("proj scale = (%v, %v), want (1, 1)", proj[0], proj[5])
	}
	// zscale = far/(near-far), zoffset = near*far/(near-far).
	if got, want := proj[10], float32(10.0/(1.0-10.0)); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("proj[10] = %v, want %v", got, want)
	}
	if got, want := proj[14], float32(10.0/(1.0-10.0)); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("proj[14] = %v, want %v", got, want)
	}
	if proj[11] != -1 {
		t.Errorf("proj[11] = %v, want -1", proj[11])
	}
}

func TestSettersRecomputeMatrices(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 5))
	before := c.ViewMatrix()
	c.SetPosition(0, 0, 8)
	after := c.ViewMatrix()
	if before == after {
		t.Error("ViewMatrix() unchanged after SetPosition")
	}
	if got := after[14]; math.Abs(float64(got+8)) > 1e-6 {
		t.Errorf("view[14] = %v, want -8", got)
	}

	projBefore := c.ProjectionMatrix()
	c.SetAspect(2)
	projAfter := c.ProjectionMatrix()
	if projBefore == projAfter {
		t.Error("ProjectionMatrix() unchanged after SetAspect")
	}
	if got, want := projAfter[0], projBefore[0]/2; math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("proj[0] = %v, want %v after doubling aspect", got, want)
	}
}

func TestViewProjectionIsProduct(t *testing.T) {
	c := NewCamera(WithPosition(3, 4, 5), WithTarget(0, 1, 0), WithAspect(1.5))
	view := c.ViewMatrix()
	proj := c.ProjectionMatrix()
	got := c.ViewProjectionMatrix()

	// Column-vector convention: vp = projection * view.
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var want float32
			for k := 0; k < 4; k++ {
				want += proj[k*4+row] * view[col*4+k]
			}
			if math.Abs(float64(got[col*4+row]-want)) > 1e-5 {
				t.Errorf("vp[%d] = %v, want %v", col*4+row, got[col*4+row], want)
			}
		}
	}
}
