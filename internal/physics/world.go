package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// World holds a set of impostors and runs a simple 3D physics step: gravity, integration, AABB collision.
type World struct {
	Gravity   mgl32.Vec3
	Impostors []*Impostor
}

// NewWorld returns a new physics world with default gravity (0, -9.81, 0). The scene is Y-up.
func NewWorld() *World {
	return &World{Gravity: mgl32.Vec3{0, -9.81, 0}}
}

// SetGravity sets the gravity vector.
func (w *World) SetGravity(g mgl32.Vec3) {
	w.Gravity = g
}

// AddImpostor registers an impostor. Order is preserved for syncing with scene nodes.
func (w *World) AddImpostor(imp *Impostor) {
	if imp == nil || imp.Body == nil {
		return
	}
	w.Impostors = append(w.Impostors, imp)
}

// Step advances the simulation by dt seconds: apply gravity, integrate, then resolve collisions.
// There is no global floor: dynamic bodies fall until they hit a static body.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	for _, imp := range w.Impostors {
		b := imp.Body
		if b.Static {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Mul(dt))
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	}

	g := w.Gravity.Len()
	for i := 0; i < len(w.Impostors); i++ {
		for j := i + 1; j < len(w.Impostors); j++ {
			w.resolve(w.Impostors[i], w.Impostors[j], g, dt)
		}
	}
}

func (w *World) resolve(a, b *Impostor, g, dt float32) {
	if a.Body.Static && b.Body.Static {
		return
	}
	// Keep the static body (if any) second.
	if a.Body.Static {
		a, b = b, a
	}
	friction := a.Params.Friction * b.Params.Friction
	restitution := a.Params.Restitution * b.Params.Restitution

	if b.Body.Static && len(b.Body.triangles) > 0 {
		for _, tri := range b.Body.triangles {
			box := a.Body.bounds()
			if !box.overlaps(tri) {
				continue
			}
			depth, axis, sign := penetration(box, tri)
			if axis < 0 {
				continue
			}
			a.Body.Position[axis] += sign * depth
			respond(a.Body, axis, sign, friction, restitution, g, dt)
		}
		return
	}

	boxA, boxB := a.Body.bounds(), b.Body.bounds()
	if !boxA.overlaps(boxB) {
		return
	}
	depth, axis, sign := penetration(boxA, boxB)
	if axis < 0 {
		return
	}
	if b.Body.Static {
		a.Body.Position[axis] += sign * depth
		respond(a.Body, axis, sign, friction, restitution, g, dt)
		return
	}
	total := a.Body.Mass + b.Body.Mass
	a.Body.Position[axis] += sign * depth * (b.Body.Mass / total)
	b.Body.Position[axis] -= sign * depth * (a.Body.Mass / total)
	respond(a.Body, axis, sign, friction, restitution, g, dt)
	respond(b.Body, axis, -sign, friction, restitution, g, dt)
}

// respond reflects the velocity component moving into the contact and damps the tangential ones.
func respond(b *Body, axis int, sign, friction, restitution, g, dt float32) {
	if b.Velocity[axis]*sign < 0 {
		b.Velocity[axis] = -b.Velocity[axis] * restitution
	}
	if friction <= 0 {
		return
	}
	decel := friction * g * dt
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		v := b.Velocity[i]
		switch {
		case v > decel:
			b.Velocity[i] = v - decel
		case v < -decel:
			b.Velocity[i] = v + decel
		default:
			b.Velocity[i] = 0
		}
	}
}
