package colliders

import (
	"context"
	"testing"

	"housedev/internal/importer"
	"housedev/internal/physics"
	"housedev/internal/scene"
	"housedev/internal/testutil"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

// near compares with an absolute tolerance; ApproxEqualThreshold is relative and too strict around zero.
func near(a, b float32) bool {
	return mgl32.Abs(a-b) < eps
}

func importHouse(t *testing.T) (*scene.Scene, *importer.Result) {
	t.Helper()
	scn := scene.New()
	res, err := importer.New().Import(context.Background(), testutil.WriteHouseGLB(t), scn)
	require.NoError(t, err)
	return scn, res
}

func requireSamePositions(t *testing.T, want, got []mgl32.Vec3) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.True(t, want[i].ApproxFuncEqual(got[i], near), "vertex %d: want %v got %v", i, want[i], got[i])
	}
}

func TestFlattenPreservesWorldPositions(t *testing.T) {
	_, res := importHouse(t)
	before := map[string][]mgl32.Vec3{}
	for _, n := range res.Meshes[1:] {
		before[n.Name] = n.WorldPositions()
	}

	done := New(physics.NewWorld()).Flatten(res.Meshes)

	require.Len(t, done, 2)
	for _, n := range done {
		assert.Nil(t, n.Parent, n.Name)
		assert.False(t, n.CheckCollisions, n.Name)
		requireSamePositions(t, before[n.Name], n.WorldPositions())
	}
}

func TestFlattenAssignsByName(t *testing.T) {
	scn, res := importHouse(t)
	world := physics.NewWorld()
	New(world).Flatten(res.Meshes)

	house := scn.NodeByName("house")
	require.NotNil(t, house.Impostor)
	assert.Equal(t, physics.ShapeMesh, house.Impostor.Shape)
	assert.Equal(t, float32(0), house.Impostor.Params.Mass)
	assert.True(t, house.Impostor.Static())
	assert.Equal(t, 12, house.Impostor.Body.Triangles())

	crate := scn.NodeByName("crate")
	require.NotNil(t, crate.Impostor)
	assert.Equal(t, physics.ShapeBox, crate.Impostor.Shape)
	assert.Equal(t, physics.Params{Mass: 1, Friction: 0.5, Restitution: 0}, crate.Impostor.Params)
	assert.False(t, crate.Impostor.Static())

	assert.Len(t, world.Impostors, 2)
}

func TestFlattenSkipsUnparented(t *testing.T) {
	_, res := importHouse(t)
	New(nil).Flatten(res.Meshes)

	root := res.Meshes[0]
	assert.Nil(t, root.Impostor)
	assert.Nil(t, root.Parent)
}

func TestFlattenUnparentedMeshGetsNoCollider(t *testing.T) {
	scn := scene.New()
	loose := scn.NewBox("loose", 1, 1, 1)
	loose.CheckCollisions = true

	done := New(nil).Flatten([]*scene.Node{loose, nil})

	assert.Empty(t, done)
	assert.Nil(t, loose.Impostor)
	assert.True(t, loose.CheckCollisions)
}

func TestFlattenNestedMeshesOrderIndependent(t *testing.T) {
	scn := scene.New()
	outer := scn.NewNode("outer", scene.KindTransform)
	outer.Transform.Position = mgl32.Vec3{0, 3, 0}
	mid := scn.NewBox("mid", 1, 1, 1)
	mid.Parent = outer
	mid.Transform.Scale = mgl32.Vec3{2, 1, 1}
	leaf := scn.NewBox("leaf", 1, 1, 1)
	leaf.Parent = mid
	leaf.Transform.Position = mgl32.Vec3{1, 0, 0}
	leaf.Transform.Rotation = mgl32.QuatRotate(0.5, mgl32.Vec3{0, 0, 1})

	wantMid, wantLeaf := mid.WorldPositions(), leaf.WorldPositions()
	New(nil).Flatten([]*scene.Node{mid, leaf})

	requireSamePositions(t, wantMid, mid.WorldPositions())
	requireSamePositions(t, wantLeaf, leaf.WorldPositions())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, leaf.Transform.Position, "node keeps its own transform")
}

func TestFlattenDegenerateLocalTransform(t *testing.T) {
	scn := scene.New()
	p := scn.NewNode("p", scene.KindTransform)
	p.Transform.Position = mgl32.Vec3{1, 1, 1}
	flat := scn.NewBox("flat", 1, 1, 1)
	flat.Parent = p
	flat.Transform.Scale = mgl32.Vec3{1, 0, 1}

	want := flat.WorldPositions()
	New(nil).Flatten([]*scene.Node{flat})

	requireSamePositions(t, want, flat.WorldPositions())
	assert.Equal(t, scene.IdentityTransform(), flat.Transform)
}

func TestFlattenTransformNodeKeepsWorld(t *testing.T) {
	scn := scene.New()
	p := scn.NewNode("p", scene.KindTransform)
	p.Transform.Position = mgl32.Vec3{0, 2, 0}
	c := scn.NewNode("c", scene.KindTransform)
	c.Parent = p
	c.Transform.Position = mgl32.Vec3{1, 0, 0}

	New(nil).Flatten([]*scene.Node{c})

	assert.Nil(t, c.Parent)
	assert.True(t, c.Transform.Position.ApproxFuncEqual(mgl32.Vec3{1, 2, 0}, near))
	require.NotNil(t, c.Impostor)
	assert.Equal(t, physics.ShapeBox, c.Impostor.Shape)
}

func TestAddImpostorNilIsNoop(t *testing.T) {
	world := physics.NewWorld()
	assert.NotPanics(t, func() {
		assert.Nil(t, New(world).AddImpostor(nil, physics.ShapeBox, BoxParams))
	})
	assert.Empty(t, world.Impostors)
}

func TestBoundaryWall(t *testing.T) {
	scn := scene.New()
	world := physics.NewWorld()
	wall := New(world).BoundaryWall(scn)

	require.NotNil(t, wall.Impostor)
	assert.Equal(t, WallName, wall.Name)
	assert.Equal(t, float32(0), wall.Impostor.Params.Mass)
	assert.Equal(t, physics.ShapeBox, wall.Impostor.Shape)
	assert.Equal(t, WallLayerMask, wall.LayerMask)
	assert.False(t, scn.Camera.Sees(wall.LayerMask))
	assert.Equal(t, []*physics.Impostor{wall.Impostor}, world.Impostors)

	// Rotated a quarter turn: thin along X, wide along Z.
	half := wall.Impostor.Body.HalfExtents
	assert.InDelta(t, WallDepth/2, half.X(), eps)
	assert.InDelta(t, WallHeight/2, half.Y(), eps)
	assert.InDelta(t, WallWidth/2, half.Z(), eps)
	assert.True(t, wall.Impostor.Body.Position.ApproxFuncEqual(WallPosition, near))
}

func TestTrackerSyncMovesDynamicNodes(t *testing.T) {
	scn := scene.New()
	world := physics.NewWorld()
	a := New(world)
	box := scn.NewBox("box", 1, 1, 1)
	box.Transform.Position = mgl32.Vec3{0, 5, 0}
	a.AddImpostor(box, physics.ShapeBox, BoxParams)
	wall := a.BoundaryWall(scn)

	tr := Track(scn.Nodes())
	assert.Equal(t, 1, tr.Len())

	world.Step(0.1)
	tr.Sync()

	assert.True(t, box.Transform.Position.ApproxFuncEqual(box.Impostor.Body.Position, near))
	assert.Less(t, box.Transform.Position.Y(), float32(5))
	assert.Equal(t, WallPosition, wall.Transform.Position)
}
