//go:build !android

package game

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"

	"cityscape/internal/sim"
	"cityscape/internal/view"
)

// Render tuning.
const (
	FogDensity     = 0.035
	MaxDynSprites  = 4096
	rainDropSize   = 0.08 // world units; a 0.5 tall streak seen mostly end-on
	splashDiskSize = 0.1  // diameter of a unit-scale splash disc
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// spriteBatch is a VAO/VBO pair holding sim.InstanceStride floats per sprite.
type spriteBatch struct {
	vao, vbo uint32
	cap      int
}

func newSpriteBatch(capacity int, usage uint32) spriteBatch {
	var b spriteBatch
	b.cap = capacity
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

	stride := int32(sim.InstanceStride * 4)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*int(stride), nil, usage)
	// aPos (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	// aSize (float)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, stride, glOffset(3*4))
	// aColor (vec4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, glOffset(4*4))
	gl.BindVertexArray(0)
	return b
}

// upload replaces the buffer contents and returns the sprite count.
func (b *spriteBatch) upload(buf []float32) int32 {
	count := len(buf) / sim.InstanceStride
	if count > b.cap {
		count = b.cap
	}
	if count == 0 {
		return 0
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, count*sim.InstanceStride*4, gl.Ptr(buf))
	return int32(count)
}

func (b *spriteBatch) destroy() {
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
}

type programLocs struct {
	viewProj, pointScale, sizeScale, fogDensity, fogColor int32
}

func lookupLocs(prog uint32) programLocs {
	return programLocs{
		viewProj:   gl.GetUniformLocation(prog, gl.Str("uViewProj\x00")),
		pointScale: gl.GetUniformLocation(prog, gl.Str("uPointScale\x00")),
		sizeScale:  gl.GetUniformLocation(prog, gl.Str("uSizeScale\x00")),
		fogDensity: gl.GetUniformLocation(prog, gl.Str("uFogDensity\x00")),
		fogColor:   gl.GetUniformLocation(prog, gl.Str("uFogColor\x00")),
	}
}

type Renderer struct {
	spriteProg uint32
	glowProg   uint32
	sp, gp     programLocs

	rain, splash, dyn, glow spriteBatch
	rainCount, splashCount  int32

	city *cityMesh

	// Reusable per-frame buffers.
	dynBuf  []float32
	glowBuf []float32
	lamps   lampGlowCache
}

func NewRenderer(rainCap, splashCap int) (*Renderer, error) {
	spriteProg, err := linkProgram(spriteVertSrc, spriteFragSrc)
	if err != nil {
		return nil, fmt.Errorf("sprite program: %w", err)
	}
	glowProg, err := linkProgram(spriteVertSrc, glowFragSrc)
	if err != nil {
		gl.DeleteProgram(spriteProg)
		return nil, fmt.Errorf("glow program: %w", err)
	}
	city, err := newCityMesh()
	if err != nil {
		gl.DeleteProgram(spriteProg)
		gl.DeleteProgram(glowProg)
		return nil, err
	}
	r := &Renderer{
		city:       city,
		spriteProg: spriteProg,
		glowProg:   glowProg,
		sp:         lookupLocs(spriteProg),
		gp:         lookupLocs(glowProg),
		rain:       newSpriteBatch(rainCap, gl.DYNAMIC_DRAW),
		splash:     newSpriteBatch(splashCap, gl.DYNAMIC_DRAW),
		dyn:        newSpriteBatch(MaxDynSprites, gl.STREAM_DRAW),
		glow:       newSpriteBatch(MaxDynSprites, gl.STREAM_DRAW),
	}
	return r, nil
}

func (r *Renderer) Destroy() {
	r.city.destroy()
	for _, b := range []*spriteBatch{&r.rain, &r.splash, &r.dyn, &r.glow} {
		b.destroy()
	}
	for _, id := range []uint32{r.spriteProg, r.glowProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

// SetCity uploads the loaded scene's triangles (sim.GeometryStride floats
// per vertex).
func (r *Renderer) SetCity(geom []float32) {
	r.city.upload(geom)
}

func rgb32(c colorful.Color) (float32, float32, float32) {
	c = c.Clamped()
	return float32(c.R), float32(c.G), float32(c.B)
}

func (r *Renderer) setFrameUniforms(prog uint32, l programLocs, vp mgl32.Mat4, pointScale float32, fog colorful.Color) {
	gl.UseProgram(prog)
	gl.UniformMatrix4fv(l.viewProj, 1, false, &vp[0])
	gl.Uniform1f(l.pointScale, pointScale)
	gl.Uniform1f(l.fogDensity, FogDensity)
	fr, fg, fb := rgb32(fog)
	gl.Uniform3f(l.fogColor, fr, fg, fb)
}

func (r *Renderer) draw(b *spriteBatch, count int32, sizeScale float32, l programLocs) {
	if count <= 0 {
		return
	}
	gl.Uniform1f(l.sizeScale, sizeScale)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.POINTS, 0, count)
}

// Render draws one frame of the scene state. Instance buffers are only
// re-uploaded when the simulation marked them dirty.
func (r *Renderer) Render(s *sim.SceneState, cam *view.Orbit, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	br, bg, bb := rgb32(s.Sky.Background)
	gl.ClearColor(br, bg, bb, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	vp := cam.ViewProj(fbW, fbH)
	pointScale := float32(float64(fbH) / (2 * math.Tan(float64(mgl32.DegToRad(view.DefaultFOV))/2)))

	if s.Rain.Buf.Consume() {
		r.rainCount = r.rain.upload(s.Rain.Buf.Data)
	}
	if s.Splashes.Buf.Consume() {
		r.splashCount = r.splash.upload(s.Splashes.Buf.Data)
	}
	r.dynBuf = appendSceneSprites(r.dynBuf[:0], s)
	dynCount := r.dyn.upload(r.dynBuf)
	r.glowBuf = r.lamps.sprites(r.glowBuf[:0], s)
	glowCount := r.glow.upload(r.glowBuf)

	r.city.draw(s, vp)

	// Sprites are depth tested against the city but do not write depth.
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(false)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.setFrameUniforms(r.spriteProg, r.sp, vp, pointScale, s.Sky.Fog)
	r.draw(&r.dyn, dynCount, 1, r.sp)
	r.draw(&r.rain, r.rainCount, rainDropSize, r.sp)
	r.draw(&r.splash, r.splashCount, splashDiskSize, r.sp)

	gl.BlendFunc(gl.ONE, gl.ONE)
	r.setFrameUniforms(r.glowProg, r.gp, vp, pointScale, s.Sky.Fog)
	r.draw(&r.glow, glowCount, 1, r.gp)

	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(0)
}
