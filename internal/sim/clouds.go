package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Puff is one soft sphere of a cloud, positioned relative to its parent.
type Puff struct {
	Offset  mgl64.Vec3
	Radius  float64
	Opacity float64
}

type Cloud struct {
	Pos   mgl64.Vec3
	Yaw   float64
	Puffs []Puff
}

// PuffWorld returns the world position of puff i, rotated by the cloud yaw.
func (c *Cloud) PuffWorld(i int) mgl64.Vec3 {
	o := c.Puffs[i].Offset
	s, co := math.Sincos(c.Yaw)
	return mgl64.Vec3{
		c.Pos[0] + o[0]*co + o[2]*s,
		c.Pos[1] + o[1],
		c.Pos[2] - o[0]*s + o[2]*co,
	}
}

// CloudField drifts clouds at a constant velocity and wraps them around the
// square of half-width Bound.
type CloudField struct {
	C     []Cloud
	Bound float64
	Tint  colorful.Color
}

func NewCloudField(n int, r *Rand) *CloudField {
	if n < 0 {
		n = 0
	}
	cf := &CloudField{
		C:     make([]Cloud, n),
		Bound: CloudBound,
		Tint:  CloudTint(0),
	}
	for i := range cf.C {
		puffs := make([]Puff, CloudMinPuffs+r.Intn(CloudPuffVar))
		for j := range puffs {
			puffs[j] = Puff{
				Offset:  mgl64.Vec3{r.Centered(3), r.Centered(1), r.Centered(3)},
				Radius:  2 + r.RangeF(0, 1.5),
				Opacity: 0.3 + r.RangeF(0, 0.2),
			}
		}
		cf.C[i] = Cloud{
			Pos:   mgl64.Vec3{r.Centered(2 * cf.Bound), CloudBaseY + r.Float64(), r.Centered(2 * cf.Bound)},
			Yaw:   r.RangeF(0, 2*math.Pi),
			Puffs: puffs,
		}
	}
	return cf
}

// wrap teleports v to the opposite edge once it leaves [-bound, bound].
func wrap(v, bound float64) float64 {
	if v > bound {
		return -bound
	}
	if v < -bound {
		return bound
	}
	return v
}

// Advance drifts every cloud by dt seconds and recolours the puffs from the
// current sun intensity.
func (cf *CloudField) Advance(dt, sunIntensity float64) {
	dt = clampDelta(dt)
	for i := range cf.C {
		c := &cf.C[i]
		c.Pos[0] = wrap(c.Pos[0]+CloudDriftX*dt, cf.Bound)
		c.Pos[2] = wrap(c.Pos[2]+CloudDriftZ*dt, cf.Bound)
		c.Yaw = math.Mod(c.Yaw+CloudYawRate*dt, 2*math.Pi)
	}
	cf.Tint = CloudTint(sunIntensity)
}
