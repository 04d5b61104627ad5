package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubeCorners(center mgl32.Vec3, half float32) []mgl32.Vec3 {
	return []mgl32.Vec3{
		center.Add(mgl32.Vec3{-half, -half, -half}),
		center.Add(mgl32.Vec3{half, half, half}),
	}
}

func floorTriangles(size float32) ([]mgl32.Vec3, []uint32) {
	return []mgl32.Vec3{
		{-size, 0, -size},
		{size, 0, -size},
		{size, 0, size},
		{-size, 0, size},
	}, []uint32{0, 1, 2, 0, 2, 3}
}

func TestNewImpostorStaticFromMass(t *testing.T) {
	static := NewImpostor(ShapeBox, Params{Mass: 0}, cubeCorners(mgl32.Vec3{}, 1), nil)
	dynamic := NewImpostor(ShapeBox, Params{Mass: 1, Friction: 0.5}, cubeCorners(mgl32.Vec3{}, 1), nil)

	assert.True(t, static.Static())
	assert.True(t, static.Body.Static)
	assert.False(t, dynamic.Static())
	assert.False(t, dynamic.Body.Static)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, dynamic.Body.HalfExtents)
}

func TestNewImpostorMeshKeepsTrianglesOnlyWhenStatic(t *testing.T) {
	pos, idx := floorTriangles(5)
	assert.Equal(t, 2, NewImpostor(ShapeMesh, DefaultParams(0), pos, idx).Body.Triangles())
	assert.Equal(t, 0, NewImpostor(ShapeMesh, DefaultParams(1), pos, idx).Body.Triangles())
	assert.Equal(t, 0, NewImpostor(ShapeBox, DefaultParams(0), pos, idx).Body.Triangles())
}

func TestStepStaticBodiesNeverMove(t *testing.T) {
	w := NewWorld()
	wall := NewImpostor(ShapeBox, Params{Mass: 0}, cubeCorners(mgl32.Vec3{0, 0, 0}, 1), nil)
	box := NewImpostor(ShapeBox, Params{Mass: 1}, cubeCorners(mgl32.Vec3{0, 1.5, 0}, 1), nil)
	w.AddImpostor(wall)
	w.AddImpostor(box)

	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60)
	}
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, wall.Body.Position)
	assert.Equal(t, mgl32.Vec3{}, wall.Body.Velocity)
	assert.InDelta(t, 2.0, box.Body.Position.Y(), 0.05)
}

func TestStepBoxRestsOnMeshFloor(t *testing.T) {
	w := NewWorld()
	pos, idx := floorTriangles(5)
	floor := NewImpostor(ShapeMesh, DefaultParams(0), pos, idx)
	box := NewImpostor(ShapeBox, Params{Mass: 1, Friction: 0.5}, cubeCorners(mgl32.Vec3{0, 2, 0}, 0.5), nil)
	w.AddImpostor(floor)
	w.AddImpostor(box)

	for i := 0; i < 240; i++ {
		w.Step(1.0 / 60)
	}
	require.Greater(t, box.Body.Position.Y(), float32(0.45))
	assert.Less(t, box.Body.Position.Y(), float32(0.6))
}

func TestStepDynamicPairSeparates(t *testing.T) {
	w := NewWorld()
	w.SetGravity(mgl32.Vec3{})
	a := NewImpostor(ShapeBox, Params{Mass: 1}, cubeCorners(mgl32.Vec3{0, 0, 0}, 0.5), nil)
	b := NewImpostor(ShapeBox, Params{Mass: 1}, cubeCorners(mgl32.Vec3{0.8, 0, 0}, 0.5), nil)
	w.AddImpostor(a)
	w.AddImpostor(b)

	w.Step(1.0 / 60)
	assert.InDelta(t, 1.0, b.Body.Position.X()-a.Body.Position.X(), 1e-4)
	assert.InDelta(t, 0.4, (a.Body.Position.X()+b.Body.Position.X())/2, 1e-4)
}

func TestStepIgnoresNonPositiveDt(t *testing.T) {
	w := NewWorld()
	box := NewImpostor(ShapeBox, Params{Mass: 1}, cubeCorners(mgl32.Vec3{0, 3, 0}, 0.5), nil)
	w.AddImpostor(box)
	w.Step(0)
	w.Step(-1)
	assert.Equal(t, mgl32.Vec3{0, 3, 0}, box.Body.Position)
}

func TestAddImpostorSkipsNil(t *testing.T) {
	w := NewWorld()
	w.AddImpostor(nil)
	w.AddImpostor(&Impostor{})
	assert.Empty(t, w.Impostors)
}
