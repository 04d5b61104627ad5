package graphics

import (
	"errors"

	"housedev/internal/config"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrNoContext is returned when raylib could not create a window with a GL context.
var ErrNoContext = errors.New("graphics: window or GL context unavailable")

// Flags translates the window options to raylib config flags.
func Flags(w config.Window) uint32 {
	var flags uint32
	if w.Resizable {
		flags |= rl.FlagWindowResizable
	}
	if w.Antialias {
		flags |= rl.FlagMsaa4xHint
	}
	if w.HighDPI {
		flags |= rl.FlagWindowHighdpi
	}
	if w.VSync {
		flags |= rl.FlagVsyncHint
	}
	return flags
}

// Open creates the window and GL context. It must run on the main OS thread.
func Open(w config.Window) error {
	rl.SetConfigFlags(Flags(w))
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	if !rl.IsWindowReady() {
		return ErrNoContext
	}
	if w.TargetFPS > 0 {
		rl.SetTargetFPS(int32(w.TargetFPS))
	}
	return nil
}

// ShouldClose reports whether the user asked to close the window.
func ShouldClose() bool {
	return rl.WindowShouldClose()
}

// Resized reports the render size when the window was resized since the last frame.
func Resized() (width, height int, ok bool) {
	if !rl.IsWindowResized() {
		return 0, 0, false
	}
	return rl.GetRenderWidth(), rl.GetRenderHeight(), true
}

// Close destroys the window and its GL context.
func Close() {
	if rl.IsWindowReady() {
		rl.CloseWindow()
	}
}
