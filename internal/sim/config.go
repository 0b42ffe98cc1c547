package sim

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Frame timing.
const (
	MaxDelta     = 0.1  // seconds; larger gaps (tab resume, debugger) are clamped
	ReferenceFPS = 60.0 // frame rate the per-frame rates were tuned for
)

// Day/night cycle.
const (
	DefaultTimeScale = 0.05 // 2π/0.05 ≈ 126 s per full cycle
	SunOrbitX        = 60.0
	SunOrbitY        = 35.0
	SunOrbitZ        = -20.0
	SunMaxIntensity  = 4.0
)

// Rain.
const (
	RainCount  = 900
	RainArea   = 30.0
	RainHeight = 25.0

	rainMinFall = 1.2
	rainFallVar = 0.5
)

// Splashes.
const (
	SplashCount        = 300
	SplashGroundY      = 0.01
	SplashStartScale   = 0.05
	SplashGrowth       = 0.025
	SplashStartOpacity = 0.5
	SplashMinAge       = 12.0
	SplashAgeVar       = 6.0
	SplashHiddenScale  = 0.0001
)

// Pedestrians.
const (
	DefaultSceneExtent     = 20.0
	PedestrianAreaFraction = 0.3
	PedestrianCount        = 8
	PedestrianHeight       = 0.4
	PedestrianMinSpeed     = 0.02
	PedestrianSpeedVar     = 0.01
)

// Clouds.
const (
	CloudCount     = 30
	CloudBound     = 25.0
	CloudBaseY     = 12.0
	CloudDriftX    = 0.5
	CloudDriftZ    = 0.2
	CloudYawRate   = 0.02
	CloudMinPuffs  = 3
	CloudPuffVar   = 3
	CloudTintHue   = 0.6 * 360
	CloudTintSat   = 0.3
	CloudTintScale = 0.5
	CloudTintBase  = 0.2
)

// MotionMode selects how per-frame rates are applied.
type MotionMode uint8

const (
	// MotionTime scales every per-frame rate by dt*ReferenceFPS so motion is
	// independent of the display refresh rate.
	MotionTime MotionMode = iota
	// MotionFrame applies every rate once per Step regardless of dt.
	MotionFrame
)

func (m MotionMode) String() string {
	switch m {
	case MotionTime:
		return "time"
	case MotionFrame:
		return "frame"
	default:
		return fmt.Sprintf("MotionMode(%d)", uint8(m))
	}
}

// ParseMotionMode accepts "time" or "frame".
func ParseMotionMode(s string) (MotionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time", "":
		return MotionTime, nil
	case "frame":
		return MotionFrame, nil
	default:
		return 0, fmt.Errorf("unknown motion mode %q", s)
	}
}

// Config holds the tunables a scene is built from.
type Config struct {
	Seed        uint64
	TimeScale   float64
	SceneExtent float64 // world units across the city; pedestrians stay in its centre
	Motion      MotionMode

	RainCount   int
	SplashCount int
	Pedestrians int
	Clouds      int

	ScenePath string
	Mute      bool
}

func DefaultConfig() Config {
	return Config{
		Seed:        1,
		TimeScale:   DefaultTimeScale,
		SceneExtent: DefaultSceneExtent,
		Motion:      MotionTime,
		RainCount:   RainCount,
		SplashCount: SplashCount,
		Pedestrians: PedestrianCount,
		Clouds:      CloudCount,
		ScenePath:   "static/models/city.gltf",
	}
}

// ApplyEnv overrides fields from CITY_* environment variables. Unparseable
// values are reported but leave the field unchanged.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var errs []error
	if s, ok := lookup("CITY_SEED"); ok {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			c.Seed = v
		} else {
			errs = append(errs, fmt.Errorf("CITY_SEED: %w", err))
		}
	}
	if s, ok := lookup("CITY_TIME_SCALE"); ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			c.TimeScale = v
		} else {
			errs = append(errs, fmt.Errorf("CITY_TIME_SCALE: %w", err))
		}
	}
	if s, ok := lookup("CITY_EXTENT"); ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			c.SceneExtent = v
		} else {
			errs = append(errs, fmt.Errorf("CITY_EXTENT: %w", err))
		}
	}
	if s, ok := lookup("CITY_MOTION"); ok {
		if m, err := ParseMotionMode(s); err == nil {
			c.Motion = m
		} else {
			errs = append(errs, fmt.Errorf("CITY_MOTION: %w", err))
		}
	}
	if s, ok := lookup("CITY_SCENE"); ok && s != "" {
		c.ScenePath = s
	}
	return errors.Join(errs...)
}

// Validate reports every field that would make a scene unusable.
func (c Config) Validate() error {
	var errs []error
	if !positiveFinite(c.TimeScale) {
		errs = append(errs, fmt.Errorf("time scale must be positive and finite, got %g", c.TimeScale))
	}
	if !positiveFinite(c.SceneExtent) {
		errs = append(errs, fmt.Errorf("scene extent must be positive and finite, got %g", c.SceneExtent))
	}
	if c.RainCount <= 0 {
		errs = append(errs, fmt.Errorf("rain count must be positive, got %d", c.RainCount))
	}
	if c.SplashCount <= 0 {
		errs = append(errs, fmt.Errorf("splash count must be positive, got %d", c.SplashCount))
	}
	if c.Pedestrians < 0 {
		errs = append(errs, fmt.Errorf("pedestrian count must not be negative, got %d", c.Pedestrians))
	}
	if c.Clouds < 0 {
		errs = append(errs, fmt.Errorf("cloud count must not be negative, got %d", c.Clouds))
	}
	if c.Motion != MotionTime && c.Motion != MotionFrame {
		errs = append(errs, fmt.Errorf("invalid motion mode %v", c.Motion))
	}
	return errors.Join(errs...)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// PedestrianBound is the half-width of the square pedestrians wander in.
func (c Config) PedestrianBound() float64 {
	return 0.5 * PedestrianAreaFraction * c.SceneExtent
}

// stepScale converts a frame delta into the number of reference frames the
// per-frame rates should be applied for.
func stepScale(mode MotionMode, dt float64) float64 {
	if mode == MotionFrame {
		return 1
	}
	return dt * ReferenceFPS
}
