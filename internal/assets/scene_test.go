package assets

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"cityscape/internal/sim"
)

func idx(i int) *int { return &i }

func cityDoc() *gltf.Document {
	return &gltf.Document{
		Scene:  idx(0),
		Scenes: []*gltf.Scene{{Name: "City", Nodes: []int{0}}},
		Nodes: []*gltf.Node{
			{Name: "Root", Children: []int{1, 2, 3}, Translation: [3]float64{0, 0, 0}},
			{Name: "Ground", Mesh: idx(0)},
			{Name: "Block_A", Translation: [3]float64{5, 0, 5}, Children: []int{4}},
			{Name: "", Mesh: idx(1), Translation: [3]float64{-3, 0, 2}},
			{Name: "StreetLamp.002", Mesh: idx(1), Translation: [3]float64{0, 2, 0}},
		},
		Meshes: []*gltf.Mesh{
			{Name: "ground_mesh", Primitives: []*gltf.Primitive{{Attributes: map[string]int{"POSITION": 0}}}},
			{Name: "Post_mesh", Primitives: []*gltf.Primitive{{Attributes: map[string]int{"POSITION": 1}}}},
		},
		Accessors: []*gltf.Accessor{
			{Min: []float64{-12, 0, -8}, Max: []float64{12, 0, 8}},
			{Min: []float64{-0.1, 0, -0.1}, Max: []float64{0.1, 3, 0.1}},
		},
	}
}

func TestFromDocumentCollectsMeshes(t *testing.T) {
	a, err := FromDocument(cityDoc())
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(a.Meshes) != 3 {
		t.Fatalf("meshes = %d, want 3", len(a.Meshes))
	}
	got := map[string]mgl64.Vec3{}
	for _, m := range a.Meshes {
		got[m.Name] = m.Pos
	}
	if p, ok := got["StreetLamp.002"]; !ok || !p.ApproxEqual(mgl64.Vec3{5, 2, 5}) {
		t.Fatalf("lamp world position = %v (found %v)", p, ok)
	}
	if p, ok := got["Post_mesh"]; !ok || !p.ApproxEqual(mgl64.Vec3{-3, 0, 2}) {
		t.Fatalf("unnamed node should fall back to mesh name, got %v", got)
	}
	if math.Abs(a.Extent-24) > 1e-9 {
		t.Fatalf("extent = %g, want 24", a.Extent)
	}
}

func TestLocalMatrixAppliesTRS(t *testing.T) {
	n := &gltf.Node{
		Translation: [3]float64{1, 0, 0},
		Rotation:    [4]float64{0, math.Sin(math.Pi / 4), 0, math.Cos(math.Pi / 4)},
		Scale:       [3]float64{2, 2, 2},
	}
	v := mgl64.TransformCoordinate(mgl64.Vec3{1, 0, 0}, localMatrix(n))
	if !v.ApproxEqualThreshold(mgl64.Vec3{1, 0, -2}, 1e-9) {
		t.Fatalf("transformed point = %v, want (1,0,-2)", v)
	}
}

func TestFromDocumentRejectsEmptyAndCycles(t *testing.T) {
	if _, err := FromDocument(&gltf.Document{}); !errors.Is(err, ErrNoScene) {
		t.Fatalf("empty document error = %v, want ErrNoScene", err)
	}
	doc := &gltf.Document{
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
		Nodes:  []*gltf.Node{{Children: []int{1}}, {Children: []int{0}}},
	}
	if _, err := FromDocument(doc); !errors.Is(err, ErrCycle) {
		t.Fatalf("cyclic document error = %v, want ErrCycle", err)
	}
}

func TestFromDocumentWithoutSceneList(t *testing.T) {
	doc := cityDoc()
	doc.Scene = nil
	doc.Scenes = nil
	a, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(a.Meshes) != 3 {
		t.Fatalf("meshes = %d, want 3", len(a.Meshes))
	}
}

func TestLoadAsyncReportsFailure(t *testing.T) {
	ch := LoadAsync(context.Background(), filepath.Join(t.TempDir(), "missing.gltf"), "")
	res, ok := <-ch
	if !ok {
		t.Fatalf("channel closed without a result")
	}
	if res.Err == nil || res.Assets != nil {
		t.Fatalf("result = %+v, want an error", res)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("second result delivered")
	}
}

func TestLoadHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, "unused.gltf", ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestFromDocumentFlattensTriangles(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}})
	ind := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Materials = []*gltf.Material{{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 0, 0, 1}},
	}}
	doc.Meshes = []*gltf.Mesh{{Name: "Block", Primitives: []*gltf.Primitive{{
		Indices:    idx(ind),
		Attributes: map[string]int{"POSITION": pos},
		Material:   idx(0),
	}}}}
	doc.Nodes = []*gltf.Node{{Name: "Block", Mesh: idx(0), Translation: [3]float64{1, 0, 0}}}
	doc.Scenes[0].Nodes = []int{0}

	a, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(a.Geometry) != 3*sim.GeometryStride {
		t.Fatalf("geometry floats = %d, want %d", len(a.Geometry), 3*sim.GeometryStride)
	}
	v := a.Geometry[:sim.GeometryStride]
	want := []float32{1, 0, 0, 0, 1, 0, 1, 0, 0}
	for i := range want {
		if math.Abs(float64(v[i]-want[i])) > 1e-6 {
			t.Fatalf("first vertex = %v, want %v", v, want)
		}
	}
	if math.Abs(a.Extent-1) > 1e-9 {
		t.Fatalf("extent = %g, want 1", a.Extent)
	}
}

func TestFromDocumentSkipsUnreadablePrimitives(t *testing.T) {
	a, err := FromDocument(cityDoc())
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(a.Geometry) != 0 {
		t.Fatalf("geometry = %d floats, want none for accessors without buffer views", len(a.Geometry))
	}
}
