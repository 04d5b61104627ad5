package debug

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

// Stats are the numbers shown under the FPS counter.
type Stats struct {
	Meshes    int
	Drawn     int
	Triangles int
}

// Overlay draws the FPS counter and draw stats at the top-right. Hidden by default.
type Overlay struct {
	Show       bool
	frameCount uint32
	lines      [2]string
}

// New returns a hidden overlay.
func New() *Overlay {
	return &Overlay{}
}

// Draw renders the overlay in 2D. Call after EndMode3D.
func (o *Overlay) Draw(s Stats) {
	if !o.Show {
		return
	}
	o.frameCount++
	if o.frameCount%updateInterval == 0 || o.lines[0] == "" {
		o.lines[0] = fmt.Sprintf("FPS: %d", rl.GetFPS())
		o.lines[1] = fmt.Sprintf("Meshes: %d/%d  Tris: %d", s.Drawn, s.Meshes, s.Triangles)
	}
	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	for _, text := range o.lines {
		w := rl.MeasureText(text, fontSize)
		rl.DrawText(text, screenW-w-padding, y, fontSize, rl.Green)
		y += lineHeight
	}
}
