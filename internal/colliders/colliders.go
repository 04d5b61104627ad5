// Package colliders flattens imported hierarchies and gives the resulting meshes physics impostors.
package colliders

import (
	"housedev/internal/physics"
	"housedev/internal/scene"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshColliderName is the node that gets a mesh-accurate static collider instead of a box.
const MeshColliderName = "house"

// Boundary wall placement: a thin static box closing the open front of the scene.
const (
	WallName   = "invisWallFront"
	WallHeight = 2
	WallWidth  = 2
	WallDepth  = 0.05
	// WallLayerMask is outside every camera's default mask, so the wall is never drawn.
	WallLayerMask uint32 = 0x10000000
)

// WallPosition is the center of the boundary wall.
var WallPosition = mgl32.Vec3{0.5, 1, 0}

// BoxParams are given to every parented mesh except MeshColliderName.
var BoxParams = physics.Params{Mass: 1, Friction: 0.5, Restitution: 0}

// Assigner attaches impostors to nodes and registers them with a physics world.
type Assigner struct {
	world *physics.World
}

// New returns an Assigner registering into world. A nil world only attaches impostors to nodes.
func New(world *physics.World) *Assigner {
	return &Assigner{world: world}
}

// Flatten bakes each parented node's former parent transform into its vertices, detaches it
// and gives it an impostor. Parent world matrices are taken before any node is touched so
// nested meshes keep their place regardless of order. Returns the nodes that were processed.
func (a *Assigner) Flatten(nodes []*scene.Node) []*scene.Node {
	parents := make(map[*scene.Node]mgl32.Mat4)
	for _, n := range nodes {
		if n == nil || n.Parent == nil {
			continue
		}
		parents[n] = n.Parent.WorldMatrix()
	}

	var done []*scene.Node
	for _, n := range nodes {
		pw, ok := parents[n]
		if !ok {
			continue
		}
		if n.Drawable() {
			bake(n, pw)
		} else {
			n.Transform = scene.DecomposeTransform(pw.Mul4(n.Transform.Local()))
		}
		n.Parent = nil

		if n.Name == MeshColliderName {
			a.AddImpostor(n, physics.ShapeMesh, physics.DefaultParams(0))
		} else {
			a.AddImpostor(n, physics.ShapeBox, BoxParams)
		}
		done = append(done, n)
	}
	return done
}

// bake rewrites n's vertices so that, with pw removed from above it, world positions are unchanged.
// The node keeps its own transform: vertices get L⁻¹·P·L. A non-invertible local transform
// is folded into the vertices instead and reset to identity.
func bake(n *scene.Node, pw mgl32.Mat4) {
	local := n.Transform.Local()
	if local.Det() == 0 {
		n.Geometry.Bake(pw.Mul4(local))
		n.Transform = scene.IdentityTransform()
		return
	}
	n.Geometry.Bake(local.Inv().Mul4(pw).Mul4(local))
}

// AddImpostor disables n's built-in collision check and attaches an impostor of the given shape.
// A nil node is ignored.
func (a *Assigner) AddImpostor(n *scene.Node, shape physics.Shape, params physics.Params) *physics.Impostor {
	if n == nil {
		return nil
	}
	n.CheckCollisions = false
	var indices []uint32
	if n.Geometry != nil {
		indices = n.Geometry.Indices
	}
	positions := n.WorldPositions()
	if len(positions) == 0 {
		positions = []mgl32.Vec3{mgl32.TransformCoordinate(mgl32.Vec3{}, n.WorldMatrix())}
	}
	imp := physics.NewImpostor(shape, params, positions, indices)
	n.Impostor = imp
	if a.world != nil {
		a.world.AddImpostor(imp)
	}
	return imp
}

// BoundaryWall creates the invisible static wall. It does not depend on any imported asset.
func (a *Assigner) BoundaryWall(scn *scene.Scene) *scene.Node {
	wall := scn.NewBox(WallName, WallWidth, WallHeight, WallDepth)
	wall.Transform.Rotation = mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0})
	wall.Transform.Position = WallPosition
	a.AddImpostor(wall, physics.ShapeBox, physics.DefaultParams(0))
	wall.LayerMask = WallLayerMask
	return wall
}

// Tracker copies body motion back onto the nodes that own dynamic impostors.
type Tracker struct {
	last map[*scene.Node]mgl32.Vec3
}

// Track records the current body positions of the dynamic nodes among nodes.
func Track(nodes []*scene.Node) *Tracker {
	t := &Tracker{last: make(map[*scene.Node]mgl32.Vec3)}
	for _, n := range nodes {
		if n.Impostor != nil && !n.Impostor.Static() {
			t.last[n] = n.Impostor.Body.Position
		}
	}
	return t
}

// Sync moves each tracked node by how far its body moved since the previous Sync.
func (t *Tracker) Sync() {
	for n, prev := range t.last {
		if n.Disposed() {
			delete(t.last, n)
			continue
		}
		pos := n.Impostor.Body.Position
		n.Transform.Position = n.Transform.Position.Add(pos.Sub(prev))
		t.last[n] = pos
	}
}

// Len returns the number of tracked nodes.
func (t *Tracker) Len() int {
	return len(t.last)
}
