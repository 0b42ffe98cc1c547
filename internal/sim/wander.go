package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WanderAgent walks under its own velocity inside a square of half-width
// Bound centred on the origin.
type WanderAgent struct {
	Pos   mgl64.Vec3
	Vel   mgl64.Vec3
	Bound float64
}

// reflectAxis flips v only while it still carries the agent further out, so
// an agent that overshoots the bound turns once instead of jittering.
func reflectAxis(pos, vel, bound float64) float64 {
	if (pos > bound && vel > 0) || (pos < -bound && vel < 0) {
		return -vel
	}
	return vel
}

// Step moves the agent by k reference frames and reflects per axis.
func (a *WanderAgent) Step(k float64) {
	a.Pos = a.Pos.Add(a.Vel.Mul(k))
	a.Vel[0] = reflectAxis(a.Pos[0], a.Vel[0], a.Bound)
	a.Vel[2] = reflectAxis(a.Pos[2], a.Vel[2], a.Bound)
}

// Crowd is the pedestrian population. It is empty until Seed is called with
// the loaded scene's extent.
type Crowd struct {
	A    []WanderAgent
	mode MotionMode
	r    *Rand
}

func NewCrowd(mode MotionMode, r *Rand) *Crowd {
	return &Crowd{mode: mode, r: r}
}

// Seed replaces the crowd with n agents spread over the central square of
// half-width bound, each with a random heading and a slow walking speed.
func (c *Crowd) Seed(n int, bound float64) {
	if n < 0 {
		n = 0
	}
	c.A = make([]WanderAgent, n)
	for i := range c.A {
		speed := PedestrianMinSpeed + c.r.RangeF(0, PedestrianSpeedVar)
		angle := c.r.RangeF(0, 2*math.Pi)
		c.A[i] = WanderAgent{
			Pos:   mgl64.Vec3{c.r.Centered(2 * bound), PedestrianHeight, c.r.Centered(2 * bound)},
			Vel:   mgl64.Vec3{math.Cos(angle) * speed, 0, math.Sin(angle) * speed},
			Bound: bound,
		}
	}
}

func (c *Crowd) Advance(dt float64) {
	k := stepScale(c.mode, clampDelta(dt))
	for i := range c.A {
		c.A[i].Step(k)
	}
}
