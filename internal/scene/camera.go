package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// betaEpsilon keeps the camera off the poles where the up vector degenerates.
	betaEpsilon = 0.01
	// minRadius is the closest the camera zooms to its target.
	minRadius = 0.1
	// angularSensibility is pixels of mouse travel per radian.
	angularSensibility = 1000
	// wheelPrecision is wheel notches per world unit of zoom.
	wheelPrecision = 3
)

// OrbitCamera orbits Target on a sphere. Alpha is the longitude around +Y measured from +X,
// Beta the latitude measured from +Y, Radius the distance to Target.
type OrbitCamera struct {
	Alpha  float32
	Beta   float32
	Radius float32
	Target mgl32.Vec3
	// Fov is the vertical field of view in radians.
	Fov       float32
	LayerMask uint32
}

// NewOrbitCamera returns the startup camera: looking at (0,1,0) from 3 units along +X with a 1 rad field of view.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Alpha:     2 * math32.Pi,
		Beta:      math32.Pi / 2,
		Radius:    3,
		Target:    mgl32.Vec3{0, 1, 0},
		Fov:       1,
		LayerMask: DefaultLayerMask,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	sinB := math32.Sin(c.Beta)
	offset := mgl32.Vec3{
		c.Radius * math32.Cos(c.Alpha) * sinB,
		c.Radius * math32.Cos(c.Beta),
		c.Radius * math32.Sin(c.Alpha) * sinB,
	}
	return c.Target.Add(offset)
}

// FovDegrees returns the vertical field of view in degrees.
func (c *OrbitCamera) FovDegrees() float32 {
	return c.Fov * 180 / math32.Pi
}

// Sees reports whether a node on the given layer mask is rendered by this camera.
func (c *OrbitCamera) Sees(mask uint32) bool {
	return c.LayerMask&mask != 0
}

// Orbit applies a mouse drag of dx, dy pixels.
func (c *OrbitCamera) Orbit(dx, dy float32) {
	c.Alpha -= dx / angularSensibility
	c.Beta -= dy / angularSensibility
	c.Beta = min(max(c.Beta, betaEpsilon), math32.Pi-betaEpsilon)
}

// Zoom applies wheel movement; positive values move toward the target.
func (c *OrbitCamera) Zoom(wheel float32) {
	c.Radius = max(c.Radius-wheel/wheelPrecision, minRadius)
}
