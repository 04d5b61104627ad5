package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is indexed triangle data. Version is bumped on every in-place rewrite so
// GPU copies know to re-upload.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
	Version   int
}

// Triangles returns the number of triangles.
func (g *Geometry) Triangles() int {
	return len(g.Indices) / 3
}

// Bake rewrites the vertex data in place by m. Normals use the inverse-transpose of m.
// A mirroring matrix also flips triangle winding so faces keep pointing outward.
func (g *Geometry) Bake(m mgl32.Mat4) {
	for i, p := range g.Positions {
		g.Positions[i] = mgl32.TransformCoordinate(p, m)
	}
	if len(g.Normals) > 0 {
		nm := m.Mat3()
		if nm.Det() != 0 {
			nm = nm.Inv().Transpose()
		}
		for i, n := range g.Normals {
			v := nm.Mul3x1(n)
			if v.Len() > 0 {
				v = v.Normalize()
			}
			g.Normals[i] = v
		}
	}
	if m.Det() < 0 {
		g.flipFaces()
	}
	g.Version++
}

func (g *Geometry) flipFaces() {
	for t := 0; t+2 < len(g.Indices); t += 3 {
		g.Indices[t+1], g.Indices[t+2] = g.Indices[t+2], g.Indices[t+1]
	}
}

// ComputeNormals sets smooth per-vertex normals from the triangle faces.
func (g *Geometry) ComputeNormals() {
	normals := make([]mgl32.Vec3, len(g.Positions))
	for t := 0; t+2 < len(g.Indices); t += 3 {
		i0, i1, i2 := g.Indices[t], g.Indices[t+1], g.Indices[t+2]
		if int(i0) >= len(g.Positions) || int(i1) >= len(g.Positions) || int(i2) >= len(g.Positions) {
			continue
		}
		e1 := g.Positions[i1].Sub(g.Positions[i0])
		e2 := g.Positions[i2].Sub(g.Positions[i0])
		face := e1.Cross(e2)
		normals[i0] = normals[i0].Add(face)
		normals[i1] = normals[i1].Add(face)
		normals[i2] = normals[i2].Add(face)
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	g.Normals = normals
	g.Version++
}

// NewBoxGeometry returns an axis-aligned box centered on the origin with flat normals.
func NewBoxGeometry(width, height, depth float32) *Geometry {
	w, h, d := width/2, height/2, depth/2
	type face struct {
		normal  mgl32.Vec3
		corners [4]mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-w, -h, d}, {w, -h, d}, {w, h, d}, {-w, h, d}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{w, -h, -d}, {-w, -h, -d}, {-w, h, -d}, {w, h, -d}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{w, -h, d}, {w, -h, -d}, {w, h, -d}, {w, h, d}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-w, -h, -d}, {-w, -h, d}, {-w, h, d}, {-w, h, -d}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-w, h, d}, {w, h, d}, {w, h, -d}, {-w, h, -d}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-w, -h, -d}, {w, -h, -d}, {w, -h, d}, {-w, -h, d}}},
	}
	g := &Geometry{}
	for _, f := range faces {
		base := uint32(len(g.Positions))
		for _, c := range f.corners {
			g.Positions = append(g.Positions, c)
			g.Normals = append(g.Normals, f.normal)
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}
