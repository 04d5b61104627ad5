package physics

import "github.com/go-gl/mathgl/mgl32"

// Shape is the collider kind used by the physics world.
type Shape int

const (
	// ShapeBox collides as the axis-aligned box around the body.
	ShapeBox Shape = iota
	// ShapeMesh collides against the individual triangles of the mesh.
	// Only static mesh impostors use their triangles; a dynamic one falls back to its box.
	ShapeMesh
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Params are the material parameters of an impostor. Mass 0 makes it static.
type Params struct {
	Mass        float32
	Friction    float32
	Restitution float32
}

// DefaultParams matches the defaults applied when only a mass is given.
func DefaultParams(mass float32) Params {
	return Params{Mass: mass, Friction: 0.2, Restitution: 0.2}
}

// Body is a rigid body with a center position, velocity and AABB half extents.
// Static bodies do not move and are not affected by gravity.
type Body struct {
	Position    mgl32.Vec3
	Velocity    mgl32.Vec3
	HalfExtents mgl32.Vec3
	Mass        float32
	Static      bool

	// triangles holds world-space triangle bounds for static mesh bodies.
	triangles []aabb
}

// Impostor is the collider attached to one scene node.
type Impostor struct {
	Shape  Shape
	Params Params
	Body   *Body
}

// Static reports whether the impostor never moves.
func (imp *Impostor) Static() bool {
	return imp.Params.Mass <= 0
}

// NewImpostor builds an impostor for the given world-space triangle soup.
// positions are world-space vertices, indices index them in triples.
func NewImpostor(shape Shape, params Params, positions []mgl32.Vec3, indices []uint32) *Impostor {
	box := boundsOf(positions)
	b := &Body{
		Position:    box.center(),
		HalfExtents: box.half(),
		Mass:        params.Mass,
		Static:      params.Mass <= 0,
	}
	if shape == ShapeMesh && b.Static {
		b.triangles = triangleBounds(positions, indices)
	}
	return &Impostor{Shape: shape, Params: params, Body: b}
}

// Triangles returns the number of triangle bounds the body collides with (0 for boxes).
func (b *Body) Triangles() int {
	return len(b.triangles)
}

func (b *Body) bounds() aabb {
	return aabb{min: b.Position.Sub(b.HalfExtents), max: b.Position.Add(b.HalfExtents)}
}
