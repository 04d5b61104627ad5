// Package importer instantiates glTF/GLB assets as scene nodes.
package importer

import (
	"context"
	"errors"
	"fmt"

	"housedev/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// RootName is the name of the placeholder node injected above the asset's scene roots.
const RootName = "__root__"

// ErrNoScene is returned when the asset has no scene to instantiate.
var ErrNoScene = errors.New("importer: asset has no scene")

// Result is what one import added to the scene.
type Result struct {
	// Root is the injected placeholder parent of every asset root node.
	Root *scene.Node
	// Meshes lists Root first, then every node that carries a mesh, depth-first.
	Meshes []*scene.Node
	// Nodes lists every node created, including transform-only ones.
	Nodes []*scene.Node
}

// Importer loads glTF 2.0 assets (.gltf or .glb).
type Importer struct{}

// New returns an Importer.
func New() *Importer {
	return &Importer{}
}

// Import reads the asset at path and instantiates its default scene into scn.
// Nothing is added to scn when an error is returned.
func (im *Importer) Import(ctx context.Context, path string, scn *scene.Scene) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Instantiate(doc, scn)
}

// Instantiate adds the default scene of doc to scn.
func Instantiate(doc *gltf.Document, scn *scene.Scene) (*Result, error) {
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
		return nil, ErrNoScene
	}

	// Build all geometry first so a bad accessor leaves scn untouched.
	geoms := make(map[int]*scene.Geometry)
	var walkErr error
	var collect func(idx int, depth int)
	collect = func(idx int, depth int) {
		if walkErr != nil {
			return
		}
		if idx < 0 || idx >= len(doc.Nodes) || depth > len(doc.Nodes) {
			walkErr = fmt.Errorf("node %d: index out of range or cyclic hierarchy", idx)
			return
		}
		n := doc.Nodes[idx]
		if n.Mesh != nil {
			if _, ok := geoms[idx]; !ok {
				g, err := readMesh(doc, *n.Mesh)
				if err != nil {
					walkErr = fmt.Errorf("node %d (%s): %w", idx, n.Name, err)
					return
				}
				geoms[idx] = g
			}
		}
		for _, c := range n.Children {
			collect(c, depth+1)
		}
	}
	for _, idx := range doc.Scenes[sceneIdx].Nodes {
		collect(idx, 0)
	}
	if walkErr != nil {
		return nil, walkErr
	}

	res := &Result{}
	res.Root = scn.NewNode(RootName, scene.KindTransform)
	res.Meshes = append(res.Meshes, res.Root)
	res.Nodes = append(res.Nodes, res.Root)

	var build func(idx int, parent *scene.Node)
	build = func(idx int, parent *scene.Node) {
		n := doc.Nodes[idx]
		var node *scene.Node
		if g, ok := geoms[idx]; ok {
			// Instanced meshes get their own copy so baking one never moves the other.
			node = scn.NewMesh(nodeName(n, idx), cloneGeometry(g))
			res.Meshes = append(res.Meshes, node)
		} else {
			node = scn.NewNode(nodeName(n, idx), scene.KindTransform)
		}
		node.Parent = parent
		node.Transform = localTransform(n)
		res.Nodes = append(res.Nodes, node)
		for _, c := range n.Children {
			build(c, node)
		}
	}
	for _, idx := range doc.Scenes[sceneIdx].Nodes {
		build(idx, res.Root)
	}
	return res, nil
}

func nodeName(n *gltf.Node, idx int) string {
	if n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("node%d", idx)
}

// localTransform prefers an explicit non-identity matrix over TRS, as glTF allows only one of them.
func localTransform(n *gltf.Node) scene.Transform {
	var zero [16]float64
	if n.Matrix != zero && n.Matrix != gltf.DefaultMatrix {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return scene.DecomposeTransform(m)
	}
	t := scene.IdentityTransform()
	t.Position = mgl32.Vec3{float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2])}
	if n.Rotation != [4]float64{} {
		t.Rotation = mgl32.Quat{
			W: float32(n.Rotation[3]),
			V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
		}
	}
	if n.Scale != [3]float64{} {
		t.Scale = mgl32.Vec3{float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2])}
	}
	return t
}

// readMesh merges every triangle primitive of the mesh into one indexed geometry.
func readMesh(doc *gltf.Document, meshIdx int) (*scene.Geometry, error) {
	if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh %d: index out of range", meshIdx)
	}
	g := &scene.Geometry{}
	missingNormals := false
	for pi, p := range doc.Meshes[meshIdx].Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := p.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3(doc, posIdx, modeler.ReadPosition)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d positions: %w", meshIdx, pi, err)
		}
		var normals [][3]float32
		if nIdx, ok := p.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3(doc, nIdx, modeler.ReadNormal)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d normals: %w", meshIdx, pi, err)
			}
		}
		if len(normals) != len(positions) {
			missingNormals = true
			normals = nil
		}

		var indices []uint32
		if p.Indices != nil {
			if *p.Indices < 0 || *p.Indices >= len(doc.Accessors) {
				return nil, fmt.Errorf("mesh %d primitive %d indices: accessor out of range", meshIdx, pi)
			}
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*p.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d indices: %w", meshIdx, pi, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		base := uint32(len(g.Positions))
		for i, v := range positions {
			g.Positions = append(g.Positions, mgl32.Vec3(v))
			if normals != nil {
				g.Normals = append(g.Normals, mgl32.Vec3(normals[i]))
			}
		}
		for _, i := range indices {
			if int(i) >= len(positions) {
				return nil, fmt.Errorf("mesh %d primitive %d: index %d out of range", meshIdx, pi, i)
			}
			g.Indices = append(g.Indices, base+i)
		}
	}
	if missingNormals || len(g.Normals) != len(g.Positions) {
		g.ComputeNormals()
	}
	return g, nil
}

type vec3Reader func(*gltf.Document, *gltf.Accessor, [][3]float32) ([][3]float32, error)

func readVec3(doc *gltf.Document, accIdx int, read vec3Reader) ([][3]float32, error) {
	if accIdx < 0 || accIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accIdx)
	}
	return read(doc, doc.Accessors[accIdx], nil)
}

func cloneGeometry(g *scene.Geometry) *scene.Geometry {
	return &scene.Geometry{
		Positions: append([]mgl32.Vec3(nil), g.Positions...),
		Normals:   append([]mgl32.Vec3(nil), g.Normals...),
		Indices:   append([]uint32(nil), g.Indices...),
	}
}
