//go:build !android

package game

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Sprite vertex shader: one perspective-scaled point per instance.
// Layout matches sim.InstanceStride: position, size, colour.
const spriteVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in float aSize;
layout(location = 2) in vec4 aColor;

uniform mat4 uViewProj;
uniform float uPointScale; // framebuffer height / (2*tan(fov/2))
uniform float uSizeScale;  // world size of a unit-scale instance
uniform float uFogDensity;

out vec4 vColor;
out float vFog;

void main() {
    gl_Position = uViewProj * vec4(aPos, 1.0);
    float w = max(gl_Position.w, 0.0001);
    gl_PointSize = max(1.0, aSize * uSizeScale * uPointScale / w);
    float f = uFogDensity * w;
    vFog = 1.0 - clamp(exp(-f * f), 0.0, 1.0); // exp2 fog
    vColor = aColor;
}
` + "\x00"

// Sprite fragment shader: soft round disc, fogged toward uFogColor.
const spriteFragSrc = `#version 410 core

uniform vec3 uFogColor;

in vec4 vColor;
in float vFog;
out vec4 FragColor;

void main() {
    float d = length(gl_PointCoord - vec2(0.5)) * 2.0;
    if (d > 1.0) discard;
    float edge = 1.0 - smoothstep(0.7, 1.0, d);
    FragColor = vec4(mix(vColor.rgb, uFogColor, vFog), vColor.a * edge);
}
` + "\x00"

// Glow fragment shader: additive radial falloff for lamp bulbs and the sun.
// vColor.rgb should be pre-multiplied by brightness.
const glowFragSrc = `#version 410 core

in vec4 vColor;
in float vFog;
out vec4 FragColor;

void main() {
    float dist = length(gl_PointCoord - vec2(0.5)) * 2.0;
    float falloff = clamp(1.0 - dist, 0.0, 1.0);
    falloff = falloff * falloff;
    FragColor = vec4(vColor.rgb * falloff * (1.0 - vFog), 1.0);
}
` + "\x00"

// Mesh shaders: flat-shaded city geometry lit by the sun with a floor of
// ambient light, fogged like the sprites.
const meshVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec3 aColor;

uniform mat4 uViewProj;
uniform vec3 uSunDir;
uniform float uSunLight; // 0..1
uniform float uAmbient;
uniform float uFogDensity;

out vec3 vColor;
out float vFog;

void main() {
    gl_Position = uViewProj * vec4(aPos, 1.0);
    float diffuse = max(dot(aNormal, uSunDir), 0.0) * uSunLight;
    vColor = aColor * (uAmbient + diffuse);
    float f = uFogDensity * gl_Position.w;
    vFog = 1.0 - clamp(exp(-f * f), 0.0, 1.0);
}
` + "\x00"

const meshFragSrc = `#version 410 core

uniform vec3 uFogColor;

in vec3 vColor;
in float vFog;
out vec4 FragColor;

void main() {
    FragColor = vec4(mix(vColor, uFogColor, vFog), 1.0);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
