package sim

import "github.com/go-gl/mathgl/mgl64"

// Splash colour (#99ccff).
const (
	splashR = 0x99 / 255.0
	splashG = 0xcc / 255.0
	splashB = 0xff / 255.0
)

// Splash is one ground ripple slot.
type Splash struct {
	Active  bool
	Age     float64
	MaxAge  float64
	Pos     mgl64.Vec3
	Scale   float64
	Opacity float64
}

// SplashPool is a fixed set of splash slots. Slots are claimed first-fit and
// never reallocated.
type SplashPool struct {
	S       []Splash
	Buf     *InstanceBuffer
	mode    MotionMode
	active  int
	dropped uint64
}

func NewSplashPool(n int, mode MotionMode, r *Rand) *SplashPool {
	if n <= 0 {
		n = SplashCount
	}
	sp := &SplashPool{
		S:    make([]Splash, n),
		Buf:  NewInstanceBuffer(n),
		mode: mode,
	}
	for i := range sp.S {
		sp.S[i] = Splash{MaxAge: SplashMinAge + r.RangeF(0, SplashAgeVar), Scale: SplashStartScale}
		sp.hide(i)
	}
	sp.Buf.Dirty = true
	return sp
}

func (sp *SplashPool) hide(i int) {
	p := sp.S[i].Pos
	sp.Buf.Set(i, p[0], p[1], p[2], SplashHiddenScale, splashR, splashG, splashB, 0)
}

// Activate claims the first inactive slot at (x,y,z). It returns false and
// leaves every slot untouched when the pool is exhausted.
func (sp *SplashPool) Activate(x, y, z float64) bool {
	for i := range sp.S {
		s := &sp.S[i]
		if s.Active {
			continue
		}
		s.Active = true
		s.Age = 0
		s.Scale = SplashStartScale
		s.Opacity = SplashStartOpacity
		s.Pos = mgl64.Vec3{x, y, z}
		sp.active++
		return true
	}
	sp.dropped++
	return false
}

// Advance ages every active splash, growing it and fading its opacity.
func (sp *SplashPool) Advance(dt float64) {
	k := stepScale(sp.mode, clampDelta(dt))
	for i := range sp.S {
		s := &sp.S[i]
		if !s.Active {
			continue
		}
		s.Age += k
		s.Scale += SplashGrowth * k
		s.Opacity = clampF(lerp(SplashStartOpacity, 0, s.Age/s.MaxAge), 0, SplashStartOpacity)
		if s.Age >= s.MaxAge {
			s.Active = false
			s.Opacity = 0
			sp.active--
			sp.hide(i)
			continue
		}
		sp.Buf.Set(i, s.Pos[0], s.Pos[1], s.Pos[2], s.Scale, splashR, splashG, splashB, float32(s.Opacity))
	}
	sp.Buf.Dirty = true
}

// ActiveCount returns the number of splashes currently animating.
func (sp *SplashPool) ActiveCount() int { return sp.active }

// Cap returns the fixed pool size.
func (sp *SplashPool) Cap() int { return len(sp.S) }

// Dropped counts activation requests refused because the pool was full.
func (sp *SplashPool) Dropped() uint64 { return sp.dropped }
