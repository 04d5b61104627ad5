package scene

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

// near compares with an absolute tolerance; ApproxEqualThreshold is relative and too strict around zero.
func near(a, b float32) bool {
	return mgl32.Abs(a-b) < eps
}

func TestNewNodeDefaults(t *testing.T) {
	s := New()
	a := s.NewNode("a", KindTransform)
	b := s.NewBox("b", 1, 1, 1)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, DefaultLayerMask, a.LayerMask)
	assert.True(t, a.Visible)
	assert.False(t, a.Drawable())
	assert.True(t, b.Drawable())
	assert.Equal(t, 24, len(b.Geometry.Positions))
	assert.Equal(t, 12, b.Geometry.Triangles())
	assert.Equal(t, []*Node{b}, s.Meshes())
}

func TestNodeByNameReturnsFirstMatch(t *testing.T) {
	s := New()
	first := s.NewNode("dup", KindTransform)
	s.NewNode("dup", KindTransform)

	assert.Same(t, first, s.NodeByName("dup"))
	assert.Nil(t, s.NodeByName("missing"))
}

func TestDisposeRemovesDescendants(t *testing.T) {
	s := New()
	root := s.NewNode("__root__", KindTransform)
	mid := s.NewNode("parent", KindTransform)
	mid.Parent = root
	leaf := s.NewBox("leaf", 1, 1, 1)
	leaf.Parent = mid
	other := s.NewBox("other", 1, 1, 1)

	s.Dispose(root)

	assert.Equal(t, []*Node{other}, s.Nodes())
	assert.True(t, root.Disposed())
	assert.True(t, mid.Disposed())
	assert.True(t, leaf.Disposed())
	assert.False(t, other.Disposed())

	s.Dispose(root)
	s.Dispose(nil)
	assert.Equal(t, 1, s.Len())
}

func TestDetachKeepsNodeInScene(t *testing.T) {
	s := New()
	p := s.NewNode("p", KindTransform)
	c := s.NewBox("c", 1, 1, 1)
	c.Parent = p

	c.Parent = nil
	assert.Equal(t, 2, s.Len())
	assert.Empty(t, s.Children(p))
}

func TestWorldMatrixComposesAncestors(t *testing.T) {
	s := New()
	p := s.NewNode("p", KindTransform)
	p.Transform.Position = mgl32.Vec3{1, 0, 0}
	p.Transform.Scale = mgl32.Vec3{2, 2, 2}
	c := s.NewNode("c", KindTransform)
	c.Parent = p
	c.Transform.Position = mgl32.Vec3{0, 1, 0}

	got := mgl32.TransformCoordinate(mgl32.Vec3{}, c.WorldMatrix())
	assert.True(t, got.ApproxFuncEqual(mgl32.Vec3{1, 2, 0}, near), "got %v", got)
}

func TestDecomposeTransformRoundTrips(t *testing.T) {
	want := Transform{
		Position: mgl32.Vec3{1, -2, 3},
		Rotation: mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0}),
		Scale:    mgl32.Vec3{2, 1, 0.5},
	}
	got := DecomposeTransform(want.Local())
	assert.True(t, got.Local().ApproxFuncEqual(want.Local(), near))
	assert.True(t, got.Scale.ApproxFuncEqual(want.Scale, near))
}

func TestBakePreservesWorldPositions(t *testing.T) {
	g := NewBoxGeometry(1, 2, 3)
	before := append([]mgl32.Vec3(nil), g.Positions...)
	m := mgl32.Translate3D(0, 5, 0).Mul4(mgl32.HomogRotate3DY(math32.Pi / 3))

	g.Bake(m)

	for i, p := range before {
		want := mgl32.TransformCoordinate(p, m)
		require.True(t, g.Positions[i].ApproxFuncEqual(want, near))
	}
	for _, n := range g.Normals {
		assert.InDelta(t, 1, n.Len(), eps)
	}
	assert.Equal(t, 1, g.Version)
}

func TestBakeMirrorFlipsWinding(t *testing.T) {
	g := &Geometry{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:   []uint32{0, 1, 2},
	}
	g.Bake(mgl32.Scale3D(1, 1, -1))
	assert.Equal(t, []uint32{0, 2, 1}, g.Indices)
}

func TestComputeNormals(t *testing.T) {
	g := &Geometry{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:   []uint32{0, 1, 2},
	}
	g.ComputeNormals()
	for _, n := range g.Normals {
		assert.True(t, n.ApproxFuncEqual(mgl32.Vec3{0, 0, 1}, near))
	}
}

func TestOrbitCameraStartPosition(t *testing.T) {
	c := NewOrbitCamera()
	got := c.Position()
	assert.InDelta(t, 3, got.X(), eps)
	assert.InDelta(t, 1, got.Y(), eps)
	assert.InDelta(t, 0, got.Z(), eps)
	assert.InDelta(t, 57.2958, c.FovDegrees(), 1e-3)
}

func TestOrbitCameraClamps(t *testing.T) {
	c := NewOrbitCamera()
	c.Orbit(0, -1e6)
	assert.InDelta(t, math32.Pi-betaEpsilon, c.Beta, eps)
	c.Orbit(0, 1e6)
	assert.InDelta(t, betaEpsilon, c.Beta, eps)
	c.Zoom(1000)
	assert.Equal(t, float32(minRadius), c.Radius)
}

func TestCameraLayerMask(t *testing.T) {
	c := NewOrbitCamera()
	assert.True(t, c.Sees(DefaultLayerMask))
	assert.False(t, c.Sees(0x10000000))
}

func TestNewClearsDepthOnly(t *testing.T) {
	s := New()
	assert.False(t, s.AutoClear)
	assert.True(t, s.AutoClearDepth)
}

func TestAddSky(t *testing.T) {
	s := New()
	sky := s.AddSky()
	assert.Equal(t, SkyName, sky.Name)
	assert.False(t, sky.Material.BackFaceCulling)
	assert.Equal(t, SkyColor, sky.Material.Diffuse)
	assert.InDelta(t, SkySize/2, sky.Geometry.Positions[0].Len()/math32.Sqrt(3), eps)
}
