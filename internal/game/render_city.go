//go:build !android

package game

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"cityscape/internal/sim"
)

const (
	cityNightAmbient = 0.12
	cityDayAmbient   = 0.45
)

// cityMesh is the static scene geometry, uploaded once after loading.
type cityMesh struct {
	prog  uint32
	vao   uint32
	vbo   uint32
	count int32

	viewProj, sunDir, sunLight, ambient, fogDensity, fogColor int32
}

func newCityMesh() (*cityMesh, error) {
	prog, err := linkProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	m := &cityMesh{
		prog:       prog,
		viewProj:   gl.GetUniformLocation(prog, gl.Str("uViewProj\x00")),
		sunDir:     gl.GetUniformLocation(prog, gl.Str("uSunDir\x00")),
		sunLight:   gl.GetUniformLocation(prog, gl.Str("uSunLight\x00")),
		ambient:    gl.GetUniformLocation(prog, gl.Str("uAmbient\x00")),
		fogDensity: gl.GetUniformLocation(prog, gl.Str("uFogDensity\x00")),
		fogColor:   gl.GetUniformLocation(prog, gl.Str("uFogColor\x00")),
	}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	stride := int32(sim.GeometryStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, glOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, glOffset(6*4))
	gl.BindVertexArray(0)
	return m, nil
}

// upload replaces the geometry. Called once when the scene arrives.
func (m *cityMesh) upload(geom []float32) {
	m.count = int32(len(geom) / sim.GeometryStride)
	if m.count == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, int(m.count)*sim.GeometryStride*4, gl.Ptr(geom), gl.STATIC_DRAW)
}

func (m *cityMesh) draw(s *sim.SceneState, vp mgl32.Mat4) {
	if m.count == 0 {
		return
	}
	night := float32(s.Sky.NightFactor())
	sun := s.Sky.SunPosition
	dir := mgl32.Vec3{float32(sun[0]), float32(sun[1]), float32(sun[2])}
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.UseProgram(m.prog)
	gl.UniformMatrix4fv(m.viewProj, 1, false, &vp[0])
	gl.Uniform3f(m.sunDir, dir[0], dir[1], dir[2])
	gl.Uniform1f(m.sunLight, float32(s.Sky.SunIntensity/sim.SunMaxIntensity))
	gl.Uniform1f(m.ambient, cityNightAmbient+(cityDayAmbient-cityNightAmbient)*(1-night))
	gl.Uniform1f(m.fogDensity, FogDensity)
	fr, fg, fb := rgb32(s.Sky.Fog)
	gl.Uniform3f(m.fogColor, fr, fg, fb)
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
}

func (m *cityMesh) destroy() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteProgram(m.prog)
}
