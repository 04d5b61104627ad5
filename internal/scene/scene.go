package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// SkyName is the name of the background box created by AddSky.
	SkyName = "sky"
	// SkySize is the edge length of the background box.
	SkySize = 1000
)

// SkyColor is the flat dark gray (#313131) of the background box.
var SkyColor = Color{0.192, 0.192, 0.192}

// Scene holds the nodes, the camera and the lights. Nodes keep insertion order, which is also draw order.
type Scene struct {
	Camera *OrbitCamera
	Lights []HemisphericLight
	// AutoClear clears the color buffer before each frame.
	AutoClear bool
	// AutoClearDepth clears the depth buffer before each frame. Without it moving geometry
	// is depth-tested against the previous frame.
	AutoClearDepth bool

	nodes  []*Node
	nextID int
}

// New returns an empty scene with the default orbit camera and no lights.
// Only the depth buffer is cleared by default.
func New() *Scene {
	return &Scene{Camera: NewOrbitCamera(), AutoClearDepth: true}
}

// NewNode creates a node of the given kind, adds it to the scene and returns it.
func (s *Scene) NewNode(name string, kind Kind) *Node {
	s.nextID++
	n := &Node{
		ID:        s.nextID,
		Name:      name,
		Kind:      kind,
		Transform: IdentityTransform(),
		Material:  DefaultMaterial(),
		LayerMask: DefaultLayerMask,
		Visible:   true,
		scene:     s,
	}
	s.nodes = append(s.nodes, n)
	return n
}

// NewMesh creates a drawable node owning g.
func (s *Scene) NewMesh(name string, g *Geometry) *Node {
	n := s.NewNode(name, KindMesh)
	n.Geometry = g
	return n
}

// NewBox creates a drawable box node centered on its local origin.
func (s *Scene) NewBox(name string, width, height, depth float32) *Node {
	return s.NewMesh(name, NewBoxGeometry(width, height, depth))
}

// AddSky adds the large flat-colored background box, visible from the inside.
func (s *Scene) AddSky() *Node {
	sky := s.NewBox(SkyName, SkySize, SkySize, SkySize)
	sky.Material = Material{Diffuse: SkyColor, BackFaceCulling: false}
	return sky
}

// AddLight appends a hemispheric light.
func (s *Scene) AddLight(l HemisphericLight) {
	s.Lights = append(s.Lights, l)
}

// Nodes returns a copy of the live nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Meshes returns the live drawable nodes in insertion order.
func (s *Scene) Meshes() []*Node {
	var out []*Node
	for _, n := range s.nodes {
		if n.Drawable() {
			out = append(out, n)
		}
	}
	return out
}

// NodeByName returns the first live node with the given name, or nil.
func (s *Scene) NodeByName(name string) *Node {
	for _, n := range s.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Children returns the direct children of n in insertion order.
func (s *Scene) Children(n *Node) []*Node {
	var out []*Node
	for _, c := range s.nodes {
		if c.Parent == n {
			out = append(out, c)
		}
	}
	return out
}

// Dispose removes n and all of its descendants from the scene. Disposing nil or an
// already disposed node does nothing.
func (s *Scene) Dispose(n *Node) {
	if n == nil || n.disposed || n.scene != s {
		return
	}
	for _, c := range s.Children(n) {
		s.Dispose(c)
	}
	n.disposed = true
	n.Parent = nil
	for i, c := range s.nodes {
		if c == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
}

// Len returns the number of live nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// HemisphericLight is a non-directional light: surfaces facing Direction get the full
// diffuse color, surfaces facing away get the ground color.
type HemisphericLight struct {
	Name      string
	Direction mgl32.Vec3
	Intensity float32
	Diffuse   Color
	Ground    Color
}

// NewHemisphericLight returns a white light with a black ground color.
func NewHemisphericLight(name string, direction mgl32.Vec3, intensity float32) HemisphericLight {
	return HemisphericLight{
		Name:      name,
		Direction: direction,
		Intensity: intensity,
		Diffuse:   Color{1, 1, 1},
	}
}
