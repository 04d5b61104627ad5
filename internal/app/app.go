// Package app wires scene setup, asset import, collider assignment and the render loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"housedev/internal/colliders"
	"housedev/internal/config"
	"housedev/internal/importer"
	"housedev/internal/logger"
	"housedev/internal/physics"
	"housedev/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrSurface wraps rendering surface initialization failures.
	ErrSurface = errors.New("rendering surface init failed")
	// ErrAssetLoad wraps model import failures.
	ErrAssetLoad = errors.New("asset load failed")
	// ErrNotInitialized is returned by Run before a successful Init.
	ErrNotInitialized = errors.New("app not initialized")
)

// Surface is the window and renderer. All calls happen on the goroutine running the loop.
type Surface interface {
	Init() error
	ShouldClose() bool
	// Resized reports a new framebuffer size since the last call.
	Resized() (width, height int, ok bool)
	Resize(width, height int)
	// Input applies user input to the camera.
	Input(cam *scene.OrbitCamera)
	Render(scn *scene.Scene)
	Close()
}

// Importer instantiates an asset into a scene.
type Importer interface {
	Import(ctx context.Context, path string, scn *scene.Scene) (*importer.Result, error)
}

// State is the render loop state.
type State int

const (
	// Stopped is the state before Run and after the loop ends.
	Stopped State = iota
	// Running is the state while the loop ticks.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Light setup: two opposed hemispheric lights stand in for global illumination.
var (
	LightA = scene.NewHemisphericLight("GlobalLightA", mgl32.Vec3{0, 2, 2}, 2)
	LightB = scene.NewHemisphericLight("GlobalLightB", mgl32.Vec3{0, -2, -2}, 0.2)
)

// App owns everything the scene needs for its lifetime.
type App struct {
	cfg      config.Config
	log      *logger.Logger
	surface  Surface
	importer Importer

	Scene   *scene.Scene
	Physics *physics.World
	// Imported holds the nodes produced by the last Init.
	Imported *importer.Result
	Wall     *scene.Node

	tracker     *colliders.Tracker
	state       State
	initialized bool
}

// New returns an App. Nothing is created until Init.
func New(cfg config.Config, log *logger.Logger, surface Surface, imp Importer) *App {
	if imp == nil {
		imp = importer.New()
	}
	return &App{cfg: cfg, log: log, surface: surface, importer: imp}
}

// Init opens the surface, builds the scene, imports the asset, flattens it and places the
// boundary wall. Either everything succeeds or nothing is left to render.
func (a *App) Init(ctx context.Context) error {
	if err := a.surface.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrSurface, err)
	}
	a.log.Log("surface ready")

	a.Scene = a.bootstrap()
	a.Physics = physics.NewWorld()
	a.Physics.SetGravity(mgl32.Vec3(a.cfg.Physics.Gravity))

	res, err := a.importer.Import(ctx, a.cfg.AssetPath, a.Scene)
	if err != nil {
		a.surface.Close()
		return fmt.Errorf("%w: %w", ErrAssetLoad, err)
	}
	a.Imported = res
	a.log.Logf("imported %s: %d nodes, %d meshes", a.cfg.AssetPath, len(res.Nodes), len(res.Meshes))

	assigner := colliders.New(a.Physics)
	done := assigner.Flatten(res.Meshes)
	a.Wall = assigner.BoundaryWall(a.Scene)
	a.Scene.Dispose(a.Scene.NodeByName(importer.RootName))
	a.log.Logf("flattened %d meshes, %d impostors", len(done), len(a.Physics.Impostors))

	a.tracker = colliders.Track(a.Scene.Nodes())
	a.initialized = true
	return nil
}

// bootstrap creates the camera, the lights and the sky.
func (a *App) bootstrap() *scene.Scene {
	scn := scene.New()
	scn.AutoClear = a.cfg.AutoClear
	scn.AddLight(LightA)
	scn.AddLight(LightB)
	scn.AddSky()
	return scn
}

// Run ticks until the surface asks to close or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if !a.initialized {
		return ErrNotInitialized
	}
	a.state = Running
	defer func() { a.state = Stopped }()

	last := time.Now()
	for !a.surface.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := time.Now()
		a.Tick(float32(now.Sub(last).Seconds()))
		last = now
	}
	return nil
}

// maxStep caps the physics step after a stalled frame.
const maxStep = 0.1

// Tick runs one frame: resize, input, physics, render.
func (a *App) Tick(dt float32) {
	if w, h, ok := a.surface.Resized(); ok {
		a.surface.Resize(w, h)
		a.log.Logf("resized to %dx%d", w, h)
	}
	a.surface.Input(a.Scene.Camera)
	if a.cfg.Physics.Enabled {
		a.Physics.Step(min(dt, maxStep))
		a.tracker.Sync()
	}
	a.surface.Render(a.Scene)
}

// State returns the loop state.
func (a *App) State() State {
	return a.state
}

// Dispose releases the surface. The app cannot be run again.
func (a *App) Dispose() {
	if !a.initialized {
		return
	}
	a.surface.Close()
	a.initialized = false
	a.log.Log("disposed")
}
