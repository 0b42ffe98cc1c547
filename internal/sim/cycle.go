package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Keyframe colours for the sky background and fog.
var (
	DaySky    = MustHex("#87ceeb")
	SunsetSky = MustHex("#ffb380")
	NightSky  = MustHex("#08090f")

	DayFog    = MustHex("#bfd1e5")
	SunsetFog = MustHex("#ffc9a6")
	NightFog  = MustHex("#0a0c12")
)

// Phase thresholds separating the colour segments.
const (
	phaseNightEnd  = 0.25
	phaseSunsetEnd = 0.40
	phaseDayEnd    = 0.75
)

// SkyState is everything the renderer needs from the day/night cycle.
// It is a pure function of the accumulated cycle time.
type SkyState struct {
	Phase        float64
	Background   colorful.Color
	Fog          colorful.Color
	SunIntensity float64
	SunEmissive  float64
	SunPosition  mgl64.Vec3
}

// NightFactor maps sun intensity to 0 (full day) .. 1 (sun below horizon).
func (s SkyState) NightFactor() float64 {
	return clampF(1-s.SunIntensity/SunMaxIntensity, 0, 1)
}

// CycleController owns the day/night clock. No other component derives a
// phase of its own.
type CycleController struct {
	t         float64
	timeScale float64
	last      SkyState
}

func NewCycleController(timeScale float64) *CycleController {
	if timeScale <= 0 {
		timeScale = DefaultTimeScale
	}
	c := &CycleController{timeScale: timeScale}
	c.last = SkyAt(0)
	return c
}

// Advance moves the cycle forward by dt seconds (clamped to MaxDelta).
func (c *CycleController) Advance(dt float64) SkyState {
	c.t += clampDelta(dt) * c.timeScale
	c.last = SkyAt(c.t)
	return c.last
}

// Time returns the accumulated cycle angle in radians.
func (c *CycleController) Time() float64 { return c.t }

// SetTime jumps the cycle to angle t, e.g. for a random start time of day.
func (c *CycleController) SetTime(t float64) {
	c.t = t
	c.last = SkyAt(t)
}

// Sky returns the state computed by the last Advance.
func (c *CycleController) Sky() SkyState { return c.last }

// Period is the wall-clock length of one full cycle in seconds.
func (c *CycleController) Period() float64 { return 2 * math.Pi / c.timeScale }

// PhaseAt returns (sin t + 1)/2.
func PhaseAt(t float64) float64 {
	return (math.Sin(t) + 1) / 2
}

// SkyAt evaluates the sky for cycle angle t.
func SkyAt(t float64) SkyState {
	phase := PhaseAt(t)
	intensity := lerp(0, SunMaxIntensity, phase)
	bg, fog := SkyColors(phase)
	return SkyState{
		Phase:        phase,
		Background:   bg,
		Fog:          fog,
		SunIntensity: intensity,
		SunEmissive:  intensity * 0.5,
		SunPosition:  mgl64.Vec3{math.Sin(t) * SunOrbitX, math.Cos(t) * SunOrbitY, SunOrbitZ},
	}
}

// SkyColors interpolates background and fog colours for a phase in [0,1].
func SkyColors(phase float64) (bg, fog colorful.Color) {
	phase = clampF(phase, 0, 1)
	switch {
	case phase < phaseNightEnd:
		return NightSky, NightFog
	case phase < phaseSunsetEnd:
		f := (phase - phaseNightEnd) / (phaseSunsetEnd - phaseNightEnd)
		return NightSky.BlendRgb(SunsetSky, f), NightFog.BlendRgb(SunsetFog, f)
	case phase < phaseDayEnd:
		f := (phase - phaseSunsetEnd) / (phaseDayEnd - phaseSunsetEnd)
		return SunsetSky.BlendRgb(DaySky, f), SunsetFog.BlendRgb(DayFog, f)
	default:
		f := (phase - phaseDayEnd) / (1 - phaseDayEnd)
		return DaySky.BlendRgb(SunsetSky, f), DayFog.BlendRgb(SunsetFog, f)
	}
}

// CloudTint returns the puff colour for a given sun intensity.
// Lightness saturates at 1 once intensity passes 1.6.
func CloudTint(sunIntensity float64) colorful.Color {
	l := clampF(CloudTintScale*sunIntensity+CloudTintBase, 0, 1)
	return colorful.Hsl(CloudTintHue, CloudTintSat, l).Clamped()
}
