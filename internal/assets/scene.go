// Package assets imports the city scene and reduces it to what the
// simulation needs: named mesh placements and the scene's ground extent.
package assets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"cityscape/internal/sim"
)

var (
	ErrNoScene = errors.New("document has no scene")
	ErrCycle   = errors.New("node hierarchy contains a cycle")
)

// Result is delivered once per LoadAsync call.
type Result struct {
	Assets *sim.SceneAssets
	Err    error
}

// LoadAsync imports the scene on its own goroutine. The returned channel
// receives exactly one Result and is then closed.
func LoadAsync(ctx context.Context, path, envPath string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		a, err := Load(ctx, path, envPath)
		ch <- Result{Assets: a, Err: err}
	}()
	return ch
}

// Load opens a glTF/GLB file and extracts mesh placements. A missing
// environment texture is not an error; EnvironmentPath is left empty.
func Load(ctx context.Context, path, envPath string) (*sim.SceneAssets, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			a.EnvironmentPath = envPath
		}
	}
	return a, nil
}

// FromDocument walks the default scene (or the first one) and records every
// node carrying a mesh with its world position.
func FromDocument(doc *gltf.Document) (*sim.SceneAssets, error) {
	roots, err := sceneRoots(doc)
	if err != nil {
		return nil, err
	}
	w := walker{
		doc:     doc,
		out:     &sim.SceneAssets{},
		visited: make(map[int]bool, len(doc.Nodes)),
		min:     mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		max:     mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for _, r := range roots {
		if err := w.visit(r, mgl64.Ident4()); err != nil {
			return nil, err
		}
	}
	if w.min[0] <= w.max[0] {
		w.out.Extent = math.Max(w.max[0]-w.min[0], w.max[2]-w.min[2])
	}
	return w.out, nil
}

func sceneRoots(doc *gltf.Document) ([]int, error) {
	if doc == nil {
		return nil, ErrNoScene
	}
	if len(doc.Scenes) == 0 {
		if len(doc.Nodes) == 0 {
			return nil, ErrNoScene
		}
		// No scene list: treat every node that is nobody's child as a root.
		child := make(map[int]bool)
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				child[c] = true
			}
		}
		var roots []int
		for i := range doc.Nodes {
			if !child[i] {
				roots = append(roots, i)
			}
		}
		return roots, nil
	}
	idx := 0
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		idx = *doc.Scene
	}
	return doc.Scenes[idx].Nodes, nil
}

type walker struct {
	doc      *gltf.Document
	out      *sim.SceneAssets
	visited  map[int]bool
	min, max mgl64.Vec3
}

func (w *walker) visit(i int, parent mgl64.Mat4) error {
	if i < 0 || i >= len(w.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", i)
	}
	if w.visited[i] {
		return fmt.Errorf("node %d: %w", i, ErrCycle)
	}
	w.visited[i] = true
	n := w.doc.Nodes[i]
	world := parent.Mul4(localMatrix(n))

	if n.Mesh != nil && *n.Mesh >= 0 && *n.Mesh < len(w.doc.Meshes) {
		mesh := w.doc.Meshes[*n.Mesh]
		name := n.Name
		if name == "" {
			name = mesh.Name
		}
		w.out.Meshes = append(w.out.Meshes, sim.MeshInstance{
			Name: name,
			Pos:  world.Col(3).Vec3(),
		})
		w.growBounds(mesh, world)
		w.appendGeometry(mesh, world)
	}
	for _, c := range n.Children {
		if err := w.visit(c, world); err != nil {
			return err
		}
	}
	return nil
}

// growBounds extends the scene box by the transformed POSITION bounds of
// every primitive. Primitives without min/max are skipped.
func (w *walker) growBounds(mesh *gltf.Mesh, world mgl64.Mat4) {
	for _, p := range mesh.Primitives {
		ai, ok := p.Attributes["POSITION"]
		if !ok || ai < 0 || ai >= len(w.doc.Accessors) {
			continue
		}
		acc := w.doc.Accessors[ai]
		if len(acc.Min) < 3 || len(acc.Max) < 3 {
			continue
		}
		for c := 0; c < 8; c++ {
			corner := mgl64.Vec3{acc.Min[0], acc.Min[1], acc.Min[2]}
			if c&1 != 0 {
				corner[0] = acc.Max[0]
			}
			if c&2 != 0 {
				corner[1] = acc.Max[1]
			}
			if c&4 != 0 {
				corner[2] = acc.Max[2]
			}
			v := mgl64.TransformCoordinate(corner, world)
			for k := 0; k < 3; k++ {
				w.min[k] = math.Min(w.min[k], v[k])
				w.max[k] = math.Max(w.max[k], v[k])
			}
		}
	}
}

// defaultMeshColor is used for primitives without a base colour factor.
var defaultMeshColor = [3]float32{0.55, 0.55, 0.58}

// appendGeometry flattens the triangle primitives of mesh into world-space
// vertices with face normals. Primitives whose data cannot be read (no
// buffer view, unsupported mode or malformed accessors) are skipped; they
// still count toward the bounds.
func (w *walker) appendGeometry(mesh *gltf.Mesh, world mgl64.Mat4) {
	for _, p := range mesh.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		ai, ok := p.Attributes["POSITION"]
		if !ok || ai < 0 || ai >= len(w.doc.Accessors) || w.doc.Accessors[ai].BufferView == nil {
			continue
		}
		pos, err := modeler.ReadPosition(w.doc, w.doc.Accessors[ai], nil)
		if err != nil {
			continue
		}
		var indices []uint32
		if p.Indices != nil {
			ii := *p.Indices
			if ii < 0 || ii >= len(w.doc.Accessors) || w.doc.Accessors[ii].BufferView == nil {
				continue
			}
			if indices, err = modeler.ReadIndices(w.doc, w.doc.Accessors[ii], nil); err != nil {
				continue
			}
		} else {
			indices = make([]uint32, len(pos))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		col := w.baseColor(p)
		for t := 0; t+2 < len(indices); t += 3 {
			var tri [3]mgl64.Vec3
			valid := true
			for k := 0; k < 3; k++ {
				i := int(indices[t+k])
				if i >= len(pos) {
					valid = false
					break
				}
				v := pos[i]
				tri[k] = mgl64.TransformCoordinate(mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}, world)
			}
			if !valid {
				continue
			}
			n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
			if l := n.Len(); l > 1e-12 {
				n = n.Mul(1 / l)
			} else {
				n = mgl64.Vec3{0, 1, 0}
			}
			for _, v := range tri {
				w.out.Geometry = append(w.out.Geometry,
					float32(v[0]), float32(v[1]), float32(v[2]),
					float32(n[0]), float32(n[1]), float32(n[2]),
					col[0], col[1], col[2])
			}
		}
	}
}

func (w *walker) baseColor(p *gltf.Primitive) [3]float32 {
	if p.Material == nil || *p.Material < 0 || *p.Material >= len(w.doc.Materials) {
		return defaultMeshColor
	}
	pbr := w.doc.Materials[*p.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return defaultMeshColor
	}
	f := *pbr.BaseColorFactor
	return [3]float32{float32(f[0]), float32(f[1]), float32(f[2])}
}

// localMatrix returns the node transform. A non-identity matrix wins over
// TRS; zero-valued scale and rotation fields mean "unset".
func localMatrix(n *gltf.Node) mgl64.Mat4 {
	if m := mgl64.Mat4(n.Matrix); m != (mgl64.Mat4{}) && m != mgl64.Ident4() {
		return m
	}
	t := n.Translation
	m := mgl64.Translate3D(t[0], t[1], t[2])

	if r := n.Rotation; r != ([4]float64{}) {
		q := mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}
		m = m.Mul4(q.Normalize().Mat4())
	}
	if s := n.Scale; s != ([3]float64{}) {
		m = m.Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
	}
	return m
}
