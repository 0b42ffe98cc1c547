package sim

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFirstTickHasZeroDelta(t *testing.T) {
	fd := NewFrameDriver(DefaultConfig(), quietLogger())
	clock := &ManualClock{T: 1000}

	fd.Tick(clock)
	if fd.Cycle().Time() != 0 {
		t.Fatalf("first tick advanced the cycle to %g", fd.Cycle().Time())
	}
	clock.Add(0.05)
	fd.Tick(clock)
	if want := 0.05 * DefaultTimeScale; math.Abs(fd.Cycle().Time()-want) > 1e-12 {
		t.Fatalf("cycle time = %g, want %g", fd.Cycle().Time(), want)
	}
	clock.Add(30)
	fd.Tick(clock)
	if want := 0.15 * DefaultTimeScale; math.Abs(fd.Cycle().Time()-want) > 1e-12 {
		t.Fatalf("resume after pause advanced cycle to %g, want %g", fd.Cycle().Time(), want)
	}
	if fd.Frame() != 3 {
		t.Fatalf("frame = %d, want 3", fd.Frame())
	}
}

func TestStepRunsWithoutScene(t *testing.T) {
	fd := NewFrameDriver(DefaultConfig(), quietLogger())
	for i := 0; i < 120; i++ {
		fd.Step(1.0 / 60)
	}
	s := fd.State()
	if s.SceneLoaded || len(s.Crowd.A) != 0 || len(s.Lamps.L) != 0 {
		t.Fatalf("scene-dependent effects present before load: loaded=%v peds=%d lamps=%d",
			s.SceneLoaded, len(s.Crowd.A), len(s.Lamps.L))
	}
	if s.Rain.Landed() == 0 || s.Splashes.ActiveCount() == 0 {
		t.Fatalf("rain did not run: landed=%d splashes=%d", s.Rain.Landed(), s.Splashes.ActiveCount())
	}
	if !colorClose(s.CloudTint, CloudTint(s.Sky.SunIntensity), 1e-12) {
		t.Fatalf("cloud tint not derived from the cycle's sun intensity")
	}
}

func TestAttachSceneAfterFrames(t *testing.T) {
	fd := NewFrameDriver(DefaultConfig(), quietLogger())
	for i := 0; i < 10; i++ {
		fd.Step(1.0 / 60)
	}
	fd.AttachScene(&SceneAssets{
		Meshes: []MeshInstance{
			{Name: "StreetLamp.001", Pos: mgl64.Vec3{1, 3, 1}},
			{Name: "Building_A", Pos: mgl64.Vec3{4, 0, 4}},
			{Name: "lamp_lowercase", Pos: mgl64.Vec3{0, 0, 0}},
			{Name: "Bulb", Pos: mgl64.Vec3{-2, 3, 0}},
		},
		Extent: 40,
	})
	s := fd.State()
	if !s.SceneLoaded {
		t.Fatalf("scene not marked loaded")
	}
	if len(s.Lamps.L) != 2 {
		t.Fatalf("lamps = %d, want 2", len(s.Lamps.L))
	}
	if len(s.Crowd.A) != PedestrianCount {
		t.Fatalf("pedestrians = %d, want %d", len(s.Crowd.A), PedestrianCount)
	}
	if b := s.Crowd.A[0].Bound; b != 6 {
		t.Fatalf("pedestrian bound from extent 40 = %g, want 6", b)
	}
	fd.Step(1.0 / 60)
	if fd.Frame() != 11 {
		t.Fatalf("frame = %d, want 11", fd.Frame())
	}
}

func TestAttachSceneFallsBackToConfiguredExtent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SceneExtent = 10
	fd := NewFrameDriver(cfg, quietLogger())
	fd.AttachScene(&SceneAssets{})
	if b := fd.State().Crowd.A[0].Bound; b != 1.5 {
		t.Fatalf("bound = %g, want 1.5", b)
	}
	fd.AttachScene(nil)
}

func TestDriversWithSameSeedAgree(t *testing.T) {
	a := NewFrameDriver(DefaultConfig(), quietLogger())
	b := NewFrameDriver(DefaultConfig(), quietLogger())
	for i := 0; i < 30; i++ {
		a.Step(1.0 / 60)
		b.Step(1.0 / 60)
	}
	for i := range a.State().Rain.D {
		if a.State().Rain.D[i] != b.State().Rain.D[i] {
			t.Fatalf("drop %d diverged", i)
		}
	}
}

func TestLampGlowFollowsNight(t *testing.T) {
	ls := &LampSet{}
	if ls.Add("Tree", mgl64.Vec3{}) {
		t.Fatalf("non-lamp mesh accepted")
	}
	ls.Add("LightPost_3", mgl64.Vec3{})
	ls.Advance(SkyAt(-math.Pi / 2))
	if g := ls.L[0].Glow; g != 1 {
		t.Fatalf("midnight glow = %g, want 1", g)
	}
	ls.Advance(SkyAt(math.Pi / 2))
	if g := ls.L[0].Glow; math.Abs(g-lampDayGlow) > 1e-12 {
		t.Fatalf("noon glow = %g, want %g", g, lampDayGlow)
	}
	l := ls.L[0].Light
	if l.Intensity != LampIntensity || l.Distance != LampDistance || l.Decay != LampDecay {
		t.Fatalf("light = %+v", l)
	}
}

func TestNegativeCountsYieldEmptySystems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Clouds = -1
	cfg.Pedestrians = -2
	fd := NewFrameDriver(cfg, quietLogger())
	fd.AttachScene(&SceneAssets{Extent: 20})
	fd.Step(1.0 / 60)
	s := fd.State()
	if len(s.Clouds.C) != 0 || len(s.Crowd.A) != 0 {
		t.Fatalf("clouds = %d, pedestrians = %d, want 0 and 0", len(s.Clouds.C), len(s.Crowd.A))
	}
}
