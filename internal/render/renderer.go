// Package render draws a scene with raylib and implements the app's rendering surface.
package render

import (
	"runtime"

	"housedev/internal/config"
	"housedev/internal/debug"
	"housedev/internal/graphics"
	"housedev/internal/logger"
	"housedev/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// maxIndexed is the largest vertex count raylib can address with 16-bit indices.
const maxIndexed = 1 << 16

var clearColor = rl.NewColor(49, 49, 49, 255)

// gpuMesh is one uploaded node. Vertex data stays Go-owned and pinned while the GPU copy lives.
type gpuMesh struct {
	mesh    rl.Mesh
	version int
	frame   uint64
	pinner  runtime.Pinner
	// keep the backing arrays reachable for the pinner
	vertices, normals []float32
	indices           []uint16
}

// Renderer owns the window and the GPU copies of scene meshes.
type Renderer struct {
	cfg     config.Config
	log     *logger.Logger
	overlay *debug.Overlay

	shader   lightShader
	mtl      rl.Material
	meshes   map[int]*gpuMesh
	frame    uint64
	dragging bool
}

// New returns a Renderer. The window opens in Init.
func New(cfg config.Config, log *logger.Logger) *Renderer {
	overlay := debug.New()
	overlay.Show = cfg.ShowFPS
	return &Renderer{
		cfg:     cfg,
		log:     log,
		overlay: overlay,
		meshes:  make(map[int]*gpuMesh),
	}
}

// Init opens the window. GPU resources for meshes are created lazily on first Render.
func (r *Renderer) Init() error {
	if err := graphics.Open(r.cfg.Window); err != nil {
		return err
	}
	r.mtl = rl.LoadMaterialDefault()
	if sh, ok := loadLightShader(); ok {
		r.shader = sh
		r.mtl.Shader = sh.shader
	} else {
		r.log.Log("render: light shader failed to compile, using raylib default")
	}
	return nil
}

// ShouldClose reports whether the window was closed.
func (r *Renderer) ShouldClose() bool {
	return graphics.ShouldClose()
}

// Resized reports a framebuffer size change.
func (r *Renderer) Resized() (int, int, bool) {
	return graphics.Resized()
}

// Resize is a no-op: raylib recomputes the viewport and projection aspect on resize.
func (r *Renderer) Resize(width, height int) {}

// Input orbits the camera while the left mouse button is held and zooms with the wheel.
func (r *Renderer) Input(cam *scene.OrbitCamera) {
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		if r.dragging {
			cam.Orbit(d.X, d.Y)
		}
		r.dragging = true
	} else {
		r.dragging = false
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.Zoom(wheel)
	}
}

// Render draws one frame of scn.
func (r *Renderer) Render(scn *scene.Scene) {
	r.frame++
	cam := scn.Camera
	rl.BeginDrawing()
	switch {
	case scn.AutoClear:
		rl.ClearBackground(clearColor)
	case scn.AutoClearDepth:
		// raylib has no depth-only clear; color goes to the last clear color, which the sky covers.
		rl.ClearScreenBuffers()
	}
	rl.BeginMode3D(camera3D(cam))
	if r.shader.shader.ID != 0 {
		r.shader.setLights(scn.Lights)
	}

	var stats debug.Stats
	for _, n := range scn.Meshes() {
		stats.Meshes++
		if !n.Visible || !cam.Sees(n.LayerMask) {
			continue
		}
		gm := r.upload(n)
		if gm == nil {
			continue
		}
		gm.frame = r.frame
		r.draw(n, gm)
		stats.Drawn++
		stats.Triangles += int(gm.mesh.TriangleCount)
	}
	rl.EndMode3D()
	r.overlay.Draw(stats)
	rl.EndDrawing()

	r.evict()
}

func (r *Renderer) draw(n *scene.Node, gm *gpuMesh) {
	if albedo := r.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = toColor(n.Material.Diffuse)
	}
	if !n.Material.BackFaceCulling {
		rl.DisableBackfaceCulling()
	}
	rl.DrawMesh(gm.mesh, r.mtl, toMatrix(n.WorldMatrix()))
	if !n.Material.BackFaceCulling {
		rl.EnableBackfaceCulling()
	}
}

// upload returns the GPU copy of n, creating or refreshing it when the geometry changed.
func (r *Renderer) upload(n *scene.Node) *gpuMesh {
	g := n.Geometry
	if gm, ok := r.meshes[n.ID]; ok {
		if gm.version == g.Version {
			return gm
		}
		r.unload(n.ID, gm)
	}
	if len(g.Positions) == 0 || len(g.Indices) < 3 {
		return nil
	}

	gm := &gpuMesh{version: g.Version}
	if len(g.Positions) <= maxIndexed {
		gm.vertices = flatten(g.Positions)
		gm.normals = flatten(g.Normals)
		gm.indices = make([]uint16, len(g.Indices))
		for i, idx := range g.Indices {
			gm.indices[i] = uint16(idx)
		}
	} else {
		// Too many vertices for 16-bit indices: expand to a plain triangle list.
		pos := make([]mgl32.Vec3, len(g.Indices))
		nrm := make([]mgl32.Vec3, len(g.Indices))
		for i, idx := range g.Indices {
			pos[i] = g.Positions[idx]
			if int(idx) < len(g.Normals) {
				nrm[i] = g.Normals[idx]
			}
		}
		gm.vertices = flatten(pos)
		gm.normals = flatten(nrm)
	}

	gm.mesh.VertexCount = int32(len(gm.vertices) / 3)
	gm.mesh.TriangleCount = int32(g.Triangles())
	gm.pinner.Pin(&gm.vertices[0])
	gm.mesh.Vertices = &gm.vertices[0]
	if len(gm.normals) == len(gm.vertices) {
		gm.pinner.Pin(&gm.normals[0])
		gm.mesh.Normals = &gm.normals[0]
	}
	if len(gm.indices) > 0 {
		gm.pinner.Pin(&gm.indices[0])
		gm.mesh.Indices = &gm.indices[0]
	}
	rl.UploadMesh(&gm.mesh, false)
	r.meshes[n.ID] = gm
	return gm
}

// evict drops GPU copies of nodes that were not drawn this frame (disposed or hidden).
func (r *Renderer) evict() {
	for id, gm := range r.meshes {
		if gm.frame != r.frame {
			r.unload(id, gm)
		}
	}
}

// unload releases the vertex array, its buffers and the C-allocated buffer id array.
// UnloadMesh gets a copy without data pointers so it does not free the Go-owned vertex memory.
func (r *Renderer) unload(id int, gm *gpuMesh) {
	rl.UnloadMesh(&rl.Mesh{VaoID: gm.mesh.VaoID, VboID: gm.mesh.VboID})
	gm.pinner.Unpin()
	delete(r.meshes, id)
}

// Close releases GPU resources and the window.
func (r *Renderer) Close() {
	for id, gm := range r.meshes {
		r.unload(id, gm)
	}
	if r.shader.shader.ID != 0 {
		rl.UnloadShader(r.shader.shader)
		r.shader = lightShader{}
	}
	graphics.Close()
}

func camera3D(c *scene.OrbitCamera) rl.Camera3D {
	pos := c.Position()
	return rl.Camera3D{
		Position:   rl.NewVector3(pos[0], pos[1], pos[2]),
		Target:     rl.NewVector3(c.Target[0], c.Target[1], c.Target[2]),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       c.FovDegrees(),
		Projection: rl.CameraPerspective,
	}
}

func toColor(c scene.Color) rl.Color {
	return rl.NewColor(channel(c.R), channel(c.G), channel(c.B), 255)
}

func channel(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

// toMatrix converts a column-major mgl32 matrix to raylib's layout (also column-major in memory).
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

func flatten(vs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}
