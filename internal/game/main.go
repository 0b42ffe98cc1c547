//go:build !android

package game

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"cityscape/internal/assets"
	"cityscape/internal/sim"
	"cityscape/internal/view"
)

// DefaultEnvironmentPath is checked for an environment texture next to the
// scene. Its absence is not an error.
const DefaultEnvironmentPath = "static/textures/environment.hdr"

var (
	cameraStart  = mgl32.Vec3{0, 2, 5}
	cameraTarget = mgl32.Vec3{0, 0, 0}
)

// RunDesktop opens a window and runs the scene until it is closed.
func RunDesktop(cfg sim.Config, log *slog.Logger) error {
	runtime.LockOSThread()

	window, err := initWindow()
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	var audio *AudioSystem
	if !cfg.Mute {
		audio, err = InitAudio(cfg.Seed)
		if err != nil {
			log.Warn("audio init failed, continuing without sound", "err", err)
		}
	}
	defer audio.Close()

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	rend, err := NewRenderer(cfg.RainCount, cfg.SplashCount)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	fd := sim.NewFrameDriver(cfg, log)
	cam := view.NewOrbit(cameraStart, cameraTarget)
	input := NewInput(window)
	clock := GLFWClock{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loading := assets.LoadAsync(ctx, cfg.ScenePath, DefaultEnvironmentPath)

	for !window.ShouldClose() {
		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		select {
		case res, ok := <-loading:
			if ok {
				if res.Err != nil {
					log.Warn("scene load failed, continuing without it", "path", cfg.ScenePath, "err", res.Err)
				} else {
					fd.AttachScene(res.Assets)
					rend.SetCity(res.Assets.Geometry)
				}
			}
			loading = nil
		default:
		}

		fd.Tick(clock)
		if input.JustPressed(window, glfw.KeyP) {
			s := fd.State()
			log.Info("frame",
				"n", fd.Frame(),
				"phase", s.Sky.Phase,
				"splashes", s.Splashes.ActiveCount(),
				"dropped", s.Splashes.Dropped(),
				"landed", s.Rain.Landed())
		}

		input.UpdateOrbit(window, cam)
		cam.Update()

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		s := fd.State()
		rend.Render(s, cam, fbW, fbH)
		audio.SetRainLevel(float64(s.Splashes.ActiveCount()) / float64(s.Splashes.Cap()))

		window.SwapBuffers()
	}
	return nil
}
