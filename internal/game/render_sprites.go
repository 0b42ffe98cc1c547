//go:build !android

package game

import (
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"cityscape/internal/sim"
)

var (
	pedestrianColor = sim.MustHex("#3333ff")
	sunDiscColor    = sim.MustHex("#ffdd88")
	sunGlowColor    = sim.MustHex("#ffaa44")
)

const (
	sunDiscSize     = 3.6
	sunGlowSize     = 14.0
	pedestrianWidth = 0.4
	lampHaloSize    = 4.0
)

func appendSprite(buf []float32, p mgl64.Vec3, size float64, c colorful.Color, a float32) []float32 {
	r, g, b := rgb32(c)
	return append(buf, float32(p[0]), float32(p[1]), float32(p[2]), float32(size), r, g, b, a)
}

// appendSceneSprites emits clouds, the sun disc and pedestrians in the
// sim.InstanceStride layout. Far things first so blending layers correctly
// without a depth buffer.
func appendSceneSprites(buf []float32, s *sim.SceneState) []float32 {
	buf = appendSprite(buf, s.Sky.SunPosition, sunDiscSize, sunDiscColor, 1)

	for i := range s.Clouds.C {
		c := &s.Clouds.C[i]
		for j, p := range c.Puffs {
			buf = appendSprite(buf, c.PuffWorld(j), 2*p.Radius, s.CloudTint, float32(p.Opacity))
		}
	}

	for _, a := range s.Crowd.A {
		// Capsule: two stacked discs.
		buf = appendSprite(buf, a.Pos, pedestrianWidth, pedestrianColor, 1)
		buf = appendSprite(buf, a.Pos.Add(mgl64.Vec3{0, 0.4, 0}), pedestrianWidth, pedestrianColor, 1)
	}
	return buf
}

// lampGlowCache avoids rebuilding lamp glow sprites every frame.
// Glow changes gradually; it is quantized to 1/200 steps.
type lampGlowCache struct {
	glow  float32
	lamps *sim.LampSet
	buf   []float32
}

// sprites appends additive glow sprites (pre-multiplied by brightness) for
// every lamp and for the sun.
func (lc *lampGlowCache) sprites(buf []float32, s *sim.SceneState) []float32 {
	var glow float64
	if len(s.Lamps.L) > 0 {
		glow = s.Lamps.L[0].Glow
	}
	q := float32(int(glow*200)) / 200.0
	if lc.buf == nil || lc.glow != q || lc.lamps != s.Lamps {
		lc.buf = lc.buf[:0]
		for _, l := range s.Lamps.L {
			k := float32(l.Glow * l.Light.Intensity / sim.LampIntensity)
			lr, lg, lb := rgb32(l.Light.Color)
			// Outer warm halo.
			lc.buf = append(lc.buf, float32(l.Pos[0]), float32(l.Pos[1]), float32(l.Pos[2]), lampHaloSize,
				0.5*lr*k, 0.42*lg*k, 0.3*lb*k, 1)
			// Bright bulb core.
			br, bg, bb := rgb32(sim.LampBulbColor)
			e := k * sim.LampBulbEmissive / 2.5
			lc.buf = append(lc.buf, float32(l.Pos[0]), float32(l.Pos[1]), float32(l.Pos[2]), 2*sim.LampBulbRadius*4,
				br*e, bg*e, bb*e, 1)
		}
		lc.glow = q
		lc.lamps = s.Lamps
	}
	buf = append(buf, lc.buf...)

	e := float32(s.Sky.SunEmissive / (0.5 * sim.SunMaxIntensity))
	sr, sg, sb := rgb32(sunGlowColor)
	p := s.Sky.SunPosition
	return append(buf, float32(p[0]), float32(p[1]), float32(p[2]), sunGlowSize, sr*e, sg*e, sb*e, 1)
}
