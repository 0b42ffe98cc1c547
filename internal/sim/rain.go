package sim

import "github.com/go-gl/mathgl/mgl64"

// Rain drop material (#99ccff, 70% opacity).
const (
	rainR     = 0x99 / 255.0
	rainG     = 0xcc / 255.0
	rainB     = 0xff / 255.0
	rainAlpha = 0.7
)

// Drop is one rain particle. Velocity is in distance per reference frame.
type Drop struct {
	Pos mgl64.Vec3
	Vel mgl64.Vec3
}

// RainPool holds a fixed set of drops that are recycled to the top of the
// rain column when they reach the ground.
type RainPool struct {
	D      []Drop
	Buf    *InstanceBuffer
	Height float64
	Area   float64

	mode   MotionMode
	r      *Rand
	landed uint64
}

func NewRainPool(n int, mode MotionMode, r *Rand) *RainPool {
	if n <= 0 {
		n = RainCount
	}
	rp := &RainPool{
		D:      make([]Drop, n),
		Buf:    NewInstanceBuffer(n),
		Height: RainHeight,
		Area:   RainArea,
		mode:   mode,
		r:      r,
	}
	for i := range rp.D {
		rp.D[i] = Drop{
			Pos: mgl64.Vec3{r.Centered(rp.Area), r.RangeF(0, rp.Height), r.Centered(rp.Area)},
			Vel: mgl64.Vec3{0, -rainMinFall - r.RangeF(0, rainFallVar), 0},
		}
		rp.write(i)
	}
	rp.Buf.Dirty = true
	return rp
}

func (rp *RainPool) write(i int) {
	p := rp.D[i].Pos
	rp.Buf.Set(i, p[0], p[1], p[2], 1, rainR, rainG, rainB, rainAlpha)
}

// Advance integrates every drop. A drop that falls below the ground asks
// splashes for one slot at its landing point (skipped if none are free)
// and is reset to the top with a new x/z.
func (rp *RainPool) Advance(dt float64, splashes *SplashPool) {
	k := stepScale(rp.mode, clampDelta(dt))
	for i := range rp.D {
		d := &rp.D[i]
		d.Pos = d.Pos.Add(d.Vel.Mul(k))
		if d.Pos[1] < 0 {
			if splashes != nil {
				splashes.Activate(d.Pos[0], SplashGroundY, d.Pos[2])
			}
			rp.reset(d)
			rp.landed++
		}
		rp.write(i)
	}
	rp.Buf.Dirty = true
}

func (rp *RainPool) reset(d *Drop) {
	d.Pos = mgl64.Vec3{rp.r.Centered(rp.Area), rp.Height, rp.r.Centered(rp.Area)}
}

// Landed counts drops that have reached the ground since construction.
func (rp *RainPool) Landed() uint64 { return rp.landed }
