package sim

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Clock supplies monotonic wall time in seconds.
type Clock interface {
	Now() float64
}

// ManualClock is a Clock advanced by hand.
type ManualClock struct {
	T float64
}

func (c *ManualClock) Now() float64 { return c.T }

func (c *ManualClock) Add(dt float64) { c.T += dt }

// MeshInstance is a named mesh placed in the loaded scene.
type MeshInstance struct {
	Name string
	Pos  mgl64.Vec3
}

// GeometryStride is the number of floats per vertex in SceneAssets.Geometry:
// world position, face normal, base colour.
const GeometryStride = 9

// SceneAssets is what the asset loader hands to the simulation once the
// scene has been imported.
type SceneAssets struct {
	Meshes          []MeshInstance
	Extent          float64 // larger of the scene's X and Z spans; 0 if unknown
	EnvironmentPath string

	// Geometry is flat-shaded, non-indexed triangles in world space for the
	// renderer. The simulation ignores it.
	Geometry []float32
}

// SceneState is the simulation's output for one frame.
type SceneState struct {
	Sky       SkyState
	CloudTint colorful.Color

	Rain     *RainPool
	Splashes *SplashPool
	Crowd    *Crowd
	Clouds   *CloudField
	Lamps    *LampSet

	SceneLoaded bool
}

// FrameDriver advances every simulated system once per rendered frame with
// the same delta, in a fixed order.
type FrameDriver struct {
	cfg   Config
	cycle *CycleController
	state *SceneState
	log   *slog.Logger

	last    float64
	started bool
	frame   uint64
}

func NewFrameDriver(cfg Config, log *slog.Logger) *FrameDriver {
	if log == nil {
		log = slog.Default()
	}
	r := NewRand(cfg.Seed)
	fd := &FrameDriver{
		cfg:   cfg,
		cycle: NewCycleController(cfg.TimeScale),
		log:   log,
	}
	fd.state = &SceneState{
		Rain:     NewRainPool(cfg.RainCount, cfg.Motion, NewRand(r.NextU64())),
		Splashes: NewSplashPool(cfg.SplashCount, cfg.Motion, NewRand(r.NextU64())),
		Crowd:    NewCrowd(cfg.Motion, NewRand(r.NextU64())),
		Clouds:   NewCloudField(cfg.Clouds, NewRand(r.NextU64())),
		Lamps:    &LampSet{},
	}
	fd.state.Sky = fd.cycle.Sky()
	fd.state.CloudTint = fd.state.Clouds.Tint
	return fd
}

// Cycle exposes the day/night controller.
func (fd *FrameDriver) Cycle() *CycleController { return fd.cycle }

// State returns the scene state updated by Step.
func (fd *FrameDriver) State() *SceneState { return fd.state }

// Frame returns the number of completed steps.
func (fd *FrameDriver) Frame() uint64 { return fd.frame }

// Tick reads the clock and steps by the elapsed time since the previous
// Tick. The first Tick steps with a zero delta.
func (fd *FrameDriver) Tick(c Clock) {
	now := c.Now()
	if !fd.started {
		fd.last = now
		fd.started = true
	}
	dt := now - fd.last
	fd.last = now
	fd.Step(dt)
}

// Step advances the cycle, rain, splashes, pedestrians, clouds and lamps.
func (fd *FrameDriver) Step(dt float64) {
	if dt > MaxDelta {
		fd.log.Debug("frame delta clamped", "dt", dt, "max", MaxDelta)
	}
	dt = clampDelta(dt)
	s := fd.state

	s.Sky = fd.cycle.Advance(dt)
	s.Rain.Advance(dt, s.Splashes)
	s.Splashes.Advance(dt)
	s.Crowd.Advance(dt)
	s.Clouds.Advance(dt, s.Sky.SunIntensity)
	s.CloudTint = s.Clouds.Tint
	s.Lamps.Advance(s.Sky)

	fd.frame++
}

// AttachScene seeds lamps and pedestrians from a loaded scene. It may be
// called after any number of frames have been stepped.
func (fd *FrameDriver) AttachScene(a *SceneAssets) {
	if a == nil {
		return
	}
	s := fd.state
	lamps := &LampSet{}
	for _, m := range a.Meshes {
		lamps.Add(m.Name, m.Pos)
	}
	lamps.Advance(s.Sky)
	s.Lamps = lamps

	extent := fd.cfg.SceneExtent
	if a.Extent > 0 {
		extent = a.Extent
	}
	cfg := fd.cfg
	cfg.SceneExtent = extent
	s.Crowd.Seed(cfg.Pedestrians, cfg.PedestrianBound())
	s.SceneLoaded = true

	fd.log.Info("scene attached",
		"meshes", len(a.Meshes),
		"lamps", len(lamps.L),
		"pedestrians", len(s.Crowd.A),
		"extent", extent,
		"frame", fd.frame)
}
