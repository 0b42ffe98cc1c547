package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCloudFieldShape(t *testing.T) {
	cf := NewCloudField(CloudCount, NewRand(2))
	if len(cf.C) != CloudCount {
		t.Fatalf("clouds = %d, want %d", len(cf.C), CloudCount)
	}
	for i, c := range cf.C {
		if n := len(c.Puffs); n < CloudMinPuffs || n >= CloudMinPuffs+CloudPuffVar {
			t.Fatalf("cloud %d has %d puffs", i, n)
		}
		if c.Pos[1] < CloudBaseY || c.Pos[1] >= CloudBaseY+1 {
			t.Fatalf("cloud %d altitude %g", i, c.Pos[1])
		}
		for j, p := range c.Puffs {
			if p.Radius < 2 || p.Radius >= 3.5 || p.Opacity < 0.3 || p.Opacity >= 0.5 {
				t.Fatalf("cloud %d puff %d out of range: %+v", i, j, p)
			}
		}
	}
}

func TestCloudWrapsToOppositeEdge(t *testing.T) {
	cf := &CloudField{Bound: CloudBound, C: []Cloud{{Pos: mgl64.Vec3{24.99, 12, 0}}}}
	cf.Advance(0.1, 0)
	if got := cf.C[0].Pos[0]; got != -CloudBound {
		t.Fatalf("x after crossing +bound = %g, want %g", got, -CloudBound)
	}
	if got := cf.C[0].Pos[2]; math.Abs(got-0.02) > 1e-12 {
		t.Fatalf("z drift = %g, want 0.02", got)
	}
	if got := cf.C[0].Yaw; math.Abs(got-0.002) > 1e-12 {
		t.Fatalf("yaw = %g, want 0.002", got)
	}

	cf.C[0].Pos = mgl64.Vec3{0, 12, -25.5}
	cf.Advance(0, 0)
	if got := cf.C[0].Pos[2]; got != CloudBound {
		t.Fatalf("z below -bound wrapped to %g, want %g", got, CloudBound)
	}
}

func TestPuffsMoveRigidly(t *testing.T) {
	cf := NewCloudField(1, NewRand(8))
	c := &cf.C[0]
	dist := make([]float64, len(c.Puffs))
	for i := range c.Puffs {
		dist[i] = c.PuffWorld(i).Sub(c.Pos).Len()
	}
	for frame := 0; frame < 300; frame++ {
		cf.Advance(1.0/60, 2)
	}
	for i := range c.Puffs {
		if d := c.PuffWorld(i).Sub(c.Pos).Len(); math.Abs(d-dist[i]) > 1e-9 {
			t.Fatalf("puff %d distance changed %g -> %g", i, dist[i], d)
		}
	}
	if !colorClose(cf.Tint, CloudTint(2), 1e-12) {
		t.Fatalf("tint not refreshed from sun intensity")
	}
}
