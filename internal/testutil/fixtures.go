// Package testutil builds glTF fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/require"
)

// Fixture node transforms, shared with the assertions in tests.
var (
	ParentTranslation = [3]float64{0, 1, 0}
	ParentScale       = [3]float64{2, 2, 2}
	HouseTranslation  = [3]float64{1, 0, 0}
	CrateTranslation  = [3]float64{0, 0, -1}
	// CrateRotation is a quarter turn around +Y (x, y, z, w).
	CrateRotation = [4]float64{0, 0.7071068, 0, 0.7071068}
)

// CubePositions are the corners of a unit cube centered on the origin.
var CubePositions = [][3]float32{
	{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
	{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
}

// CubeIndices triangulates CubePositions with outward winding.
var CubeIndices = []uint16{
	0, 2, 1, 0, 3, 2, // back
	4, 5, 6, 4, 6, 7, // front
	0, 4, 7, 0, 7, 3, // left
	1, 2, 6, 1, 6, 5, // right
	3, 7, 6, 3, 6, 2, // top
	0, 1, 5, 0, 5, 4, // bottom
}

// HouseDocument returns a document with the hierarchy
// scene → "parent" (transform) → {"house" (mesh), "crate" (mesh)}.
func HouseDocument() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, CubePositions)
	idx := modeler.WriteIndices(doc, CubeIndices)
	doc.Meshes = []*gltf.Mesh{
		{Name: "houseMesh", Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}}},
		{Name: "crateMesh", Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}}},
	}
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Children: []int{1, 2}, Translation: ParentTranslation, Scale: ParentScale},
		{Name: "house", Mesh: gltf.Index(0), Translation: HouseTranslation},
		{Name: "crate", Mesh: gltf.Index(1), Translation: CrateTranslation, Rotation: CrateRotation},
	}
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

// WriteHouseGLB saves HouseDocument as a binary glTF under a temp dir and returns its path.
func WriteHouseGLB(t testing.TB) string {
	t.Helper()
	return WriteGLB(t, HouseDocument())
}

// WriteGLB saves doc as a binary glTF under a temp dir and returns its path.
func WriteGLB(t testing.TB, doc *gltf.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "house.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}
