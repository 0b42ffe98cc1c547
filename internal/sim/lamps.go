package sim

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// LampNameHints are the substrings that mark a mesh as a street lamp.
var LampNameHints = []string{"Lamp", "StreetLamp", "Light", "Post", "Bulb"}

var (
	LampLightColor = MustHex("#fff2cc")
	LampBulbColor  = MustHex("#ffcc00")
)

const (
	LampIntensity    = 3.2
	LampDistance     = 14.0
	LampDecay        = 1.4
	LampBulbRadius   = 0.08
	LampBulbEmissive = 2.5

	// Lamps stay faintly lit during the day.
	lampDayGlow = 0.15
)

// IsLampName reports whether a mesh name follows the lamp naming convention.
// Matching is case sensitive.
func IsLampName(name string) bool {
	for _, h := range LampNameHints {
		if strings.Contains(name, h) {
			return true
		}
	}
	return false
}

// PointLight describes a light the renderer attaches at a lamp.
type PointLight struct {
	Color     colorful.Color
	Intensity float64
	Distance  float64
	Decay     float64
}

type Lamp struct {
	Name  string
	Pos   mgl64.Vec3
	Light PointLight
	Glow  float64 // 0..1 multiplier for light intensity and bulb emissive
}

// LampSet is the lamps found in the loaded scene.
type LampSet struct {
	L []Lamp
}

// Add registers a lamp at pos if name matches the naming convention.
func (ls *LampSet) Add(name string, pos mgl64.Vec3) bool {
	if !IsLampName(name) {
		return false
	}
	ls.L = append(ls.L, Lamp{
		Name: name,
		Pos:  pos,
		Light: PointLight{
			Color:     LampLightColor,
			Intensity: LampIntensity,
			Distance:  LampDistance,
			Decay:     LampDecay,
		},
		Glow: 1,
	})
	return true
}

// Advance dims lamps as the sun comes up.
func (ls *LampSet) Advance(sky SkyState) {
	g := lampDayGlow + (1-lampDayGlow)*sky.NightFactor()
	for i := range ls.L {
		ls.L[i].Glow = g
	}
}
