package view

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewOrbitReproducesEye(t *testing.T) {
	eye := mgl32.Vec3{0, 2, 5}
	o := NewOrbit(eye, mgl32.Vec3{})
	if got := o.Eye(); !got.ApproxEqualThreshold(eye, 1e-4) {
		t.Fatalf("eye = %v, want %v", got, eye)
	}
}

func TestPolarIsClamped(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{0, 2, 5}, mgl32.Vec3{})
	// Dragging upward tilts the camera down toward the horizon.
	for i := 0; i < 500; i++ {
		o.Drag(0, -400)
		o.Update()
	}
	if o.Polar != o.MaxPolar {
		t.Fatalf("polar = %g, want max %g", o.Polar, o.MaxPolar)
	}
	for i := 0; i < 500; i++ {
		o.Drag(0, 400)
		o.Update()
	}
	if o.Polar != o.MinPolar {
		t.Fatalf("polar = %g, want min %g", o.Polar, o.MinPolar)
	}
}

func TestDampingEasesOut(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{0, 2, 5}, mgl32.Vec3{})
	o.Drag(100, 0)
	o.Update()
	first := o.Azimuth
	o.Update()
	step2 := o.Azimuth - first
	if math.Abs(step2) >= math.Abs(first) || step2 == 0 {
		t.Fatalf("second step %g should be smaller than first %g", step2, first)
	}
}

func TestScrollZoomIsBounded(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{0, 2, 5}, mgl32.Vec3{})
	o.Scroll(1000)
	o.Update()
	if o.Distance != MinDistance {
		t.Fatalf("distance = %g, want %g", o.Distance, MinDistance)
	}
	o.Scroll(-1000)
	o.Update()
	if o.Distance != MaxDistance {
		t.Fatalf("distance = %g, want %g", o.Distance, MaxDistance)
	}
	if m := o.ViewProj(0, 0); m == (mgl32.Mat4{}) {
		t.Fatalf("zero matrix for empty framebuffer")
	}
}
