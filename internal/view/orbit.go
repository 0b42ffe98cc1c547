// Package view holds the orbit camera used by the desktop host.
package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFOV      = 75.0
	DefaultNear     = 0.1
	DefaultFar      = 2000.0
	DefaultDamping  = 0.05
	DefaultMinPolar = 0.4
	DefaultMaxPolar = 1.4
	MinDistance     = 1.5
	MaxDistance     = 80.0

	rotateSpeed = 0.005 // radians per cursor pixel
	zoomStep    = 0.95  // distance factor per scroll notch
)

// Orbit is a damped spherical camera around Target. Input accumulates
// pending deltas that Update feeds in at the damping rate.
type Orbit struct {
	Target   mgl32.Vec3
	Distance float64
	Azimuth  float64 // around +Y
	Polar    float64 // from +Y

	Damping            float64
	MinPolar, MaxPolar float64

	dAzimuth, dPolar float64
	zoom             float64
}

// NewOrbit places the camera at eye looking at target.
func NewOrbit(eye, target mgl32.Vec3) *Orbit {
	d := eye.Sub(target)
	dist := float64(d.Len())
	o := &Orbit{
		Target:   target,
		Distance: dist,
		Damping:  DefaultDamping,
		MinPolar: DefaultMinPolar,
		MaxPolar: DefaultMaxPolar,
		zoom:     1,
	}
	if dist > 0 {
		o.Azimuth = math.Atan2(float64(d.X()), float64(d.Z()))
		o.Polar = math.Acos(float64(d.Y()) / dist)
	}
	o.clamp()
	return o
}

// Drag rotates by a cursor movement in pixels.
func (o *Orbit) Drag(dx, dy float64) {
	o.dAzimuth -= dx * rotateSpeed
	o.dPolar -= dy * rotateSpeed
}

// Scroll zooms in for positive notches.
func (o *Orbit) Scroll(notches float64) {
	o.zoom *= math.Pow(zoomStep, notches)
}

// Update applies a damping fraction of the pending rotation, the way an
// orbit control with damping eases out after the pointer stops.
func (o *Orbit) Update() {
	o.Azimuth += o.dAzimuth * o.Damping
	o.Polar += o.dPolar * o.Damping
	o.dAzimuth *= 1 - o.Damping
	o.dPolar *= 1 - o.Damping
	o.Distance *= o.zoom
	o.zoom = 1
	o.clamp()
}

func (o *Orbit) clamp() {
	o.Polar = math.Max(o.MinPolar, math.Min(o.MaxPolar, o.Polar))
	o.Distance = math.Max(MinDistance, math.Min(MaxDistance, o.Distance))
}

// Eye returns the camera position.
func (o *Orbit) Eye() mgl32.Vec3 {
	sp, cp := math.Sincos(o.Polar)
	sa, ca := math.Sincos(o.Azimuth)
	return o.Target.Add(mgl32.Vec3{
		float32(o.Distance * sp * sa),
		float32(o.Distance * cp),
		float32(o.Distance * sp * ca),
	})
}

// ViewProj returns projection*view for a framebuffer of w x h pixels.
func (o *Orbit) ViewProj(w, h int) mgl32.Mat4 {
	aspect := float32(1)
	if w > 0 && h > 0 {
		aspect = float32(w) / float32(h)
	}
	proj := mgl32.Perspective(mgl32.DegToRad(DefaultFOV), aspect, DefaultNear, DefaultFar)
	view := mgl32.LookAtV(o.Eye(), o.Target, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}
