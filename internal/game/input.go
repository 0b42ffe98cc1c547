//go:build !android

package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"cityscape/internal/view"
)

// GLFWClock reads the GLFW timer.
type GLFWClock struct{}

func (GLFWClock) Now() float64 { return glfw.GetTime() }

// Input turns mouse drags and scrolling into orbit camera motion.
type Input struct {
	dragging    bool
	prevCursorX float64
	prevCursorY float64
	scroll      float64
	prevKeys    map[glfw.Key]bool
}

func NewInput(window *glfw.Window) *Input {
	in := &Input{prevKeys: make(map[glfw.Key]bool)}
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		in.scroll += yoff
	})
	return in
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// UpdateOrbit feeds this frame's drag and scroll into the camera.
func (in *Input) UpdateOrbit(window *glfw.Window, cam *view.Orbit) {
	cx, cy := window.GetCursorPos()
	down := window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	if down && in.dragging {
		cam.Drag(cx-in.prevCursorX, cy-in.prevCursorY)
	}
	in.dragging = down
	in.prevCursorX, in.prevCursorY = cx, cy

	if in.scroll != 0 {
		cam.Scroll(in.scroll)
		in.scroll = 0
	}
}
