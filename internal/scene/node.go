package scene

import (
	"housedev/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind tells drawable meshes apart from transform-only placeholder nodes. It is decided at import time.
type Kind int

const (
	// KindTransform is a node with a transform and no geometry (e.g. the injected import root).
	KindTransform Kind = iota
	// KindMesh is a drawable node that owns vertex data.
	KindMesh
)

func (k Kind) String() string {
	if k == KindMesh {
		return "mesh"
	}
	return "transform"
}

// DefaultLayerMask is the layer every new node is on. Cameras render nodes whose mask intersects theirs.
const DefaultLayerMask uint32 = 0x0FFFFFFF

// Transform is a local position/rotation/scale. Local() composes it as T * R * S.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Local returns the local transform matrix.
func (t Transform) Local() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	sc := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return tr.Mul4(t.Rotation.Normalize().Mat4()).Mul4(sc)
}

// DecomposeTransform splits an affine matrix into translation, rotation and scale. Shear is dropped.
func DecomposeTransform(m mgl32.Mat4) Transform {
	t := IdentityTransform()
	t.Position = m.Col(3).Vec3()
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Det() < 0 {
		sx = -sx
	}
	t.Scale = mgl32.Vec3{sx, sy, sz}
	if sx == 0 || sy == 0 || sz == 0 {
		return t
	}
	rot := mgl32.Mat4FromCols(
		m.Col(0).Mul(1/sx),
		m.Col(1).Mul(1/sy),
		m.Col(2).Mul(1/sz),
		mgl32.Vec4{0, 0, 0, 1},
	)
	t.Rotation = mgl32.Mat4ToQuat(rot).Normalize()
	return t
}

// Color is a linear RGB color in [0, 1].
type Color struct {
	R, G, B float32
}

// Material is the flat surface description used by the renderer.
type Material struct {
	Diffuse         Color
	BackFaceCulling bool
}

// DefaultMaterial is white with back-face culling.
func DefaultMaterial() Material {
	return Material{Diffuse: Color{1, 1, 1}, BackFaceCulling: true}
}

// Node is an object in the scene graph. Parent is a hierarchy relation only:
// clearing it never removes the node from its scene.
type Node struct {
	ID        int
	Name      string
	Kind      Kind
	Transform Transform
	Parent    *Node
	// Geometry is set for KindMesh nodes only.
	Geometry *Geometry
	Material Material
	// LayerMask selects which cameras draw the node.
	LayerMask uint32
	Visible   bool
	// CheckCollisions enables the engine's built-in collision test; physics impostors replace it.
	CheckCollisions bool
	Impostor        *physics.Impostor

	scene    *Scene
	disposed bool
}

// Drawable reports whether the node carries bakeable, renderable vertex data.
func (n *Node) Drawable() bool {
	return n.Kind == KindMesh && n.Geometry != nil
}

// Disposed reports whether the node has been removed from its scene.
func (n *Node) Disposed() bool {
	return n.disposed
}

// WorldMatrix returns the node's local transform composed with all of its ancestors.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Transform.Local()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.Transform.Local().Mul4(m)
	}
	return m
}

// WorldPositions returns the node's vertices in world space. Nil for transform nodes.
func (n *Node) WorldPositions() []mgl32.Vec3 {
	if !n.Drawable() {
		return nil
	}
	w := n.WorldMatrix()
	out := make([]mgl32.Vec3, len(n.Geometry.Positions))
	for i, p := range n.Geometry.Positions {
		out[i] = mgl32.TransformCoordinate(p, w)
	}
	return out
}
