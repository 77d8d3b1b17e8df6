// Package display is the raylib front end: a vsync window that drives the
// frame scheduler, turns mouse input into picks and draws the scene and HUD.
package display

import (
	"context"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"raypick/internal/camera"
	"raypick/internal/config"
	"raypick/internal/game"
)

// Window implements game.Display on top of raylib's swap interval. Everything,
// including frame callbacks, runs on the goroutine that called Open.
type Window struct {
	Renderer *Renderer
	HUD      *HUD

	scheduler *game.Scheduler
	log       *slog.Logger

	pending   func(time.Time)
	lastMouse rl.Vector2
}

// NewWindow prepares a window. Open creates it.
func NewWindow(log *slog.Logger) *Window {
	if log == nil {
		log = slog.Default()
	}
	return &Window{Renderer: NewRenderer(), log: log}
}

func (win *Window) RequestFrame(cb func(now time.Time)) {
	win.pending = cb
}

// Open creates the OS window and GL context. The scheduler must have been
// built with this window as its display and renderer.
func (win *Window) Open(cfg config.Window, s *game.Scheduler) {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable | rl.FlagVsyncHint | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), cfg.Title)
	rl.SetTargetFPS(int32(cfg.TargetFPS))

	win.scheduler = s
	win.HUD = NewHUD(s, win.Renderer, win.log)
	win.HUD.initStyle(cfg.Font)
	s.World.Camera.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	win.log.Info("window opened", "width", rl.GetScreenWidth(), "height", rl.GetScreenHeight())
}

// Run delivers frames until the window closes, ctx is done or the scheduler
// stops re-arming.
func (win *Window) Run(ctx context.Context) error {
	for !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		win.input()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

		cb := win.pending
		win.pending = nil
		now := time.Now()
		if cb != nil {
			cb(now)
		}
		if win.HUD.Draw(now) {
			win.scheduler.World.Start(now)
		}
		rl.EndDrawing()

		if cb == nil {
			return nil
		}
	}
	return nil
}

func (win *Window) input() {
	w := win.scheduler.World
	width, height := rl.GetScreenWidth(), rl.GetScreenHeight()
	if rl.IsWindowResized() {
		w.Camera.Resize(width, height)
	}

	if rl.IsKeyPressed(rl.KeyF1) {
		win.HUD.Debug = !win.HUD.Debug
	}

	dt := rl.GetFrameTime()
	var yaw, pitch float32
	if rl.IsKeyDown(rl.KeyLeft) {
		yaw -= w.Camera.LookSpeed * dt
	}
	if rl.IsKeyDown(rl.KeyRight) {
		yaw += w.Camera.LookSpeed * dt
	}
	if rl.IsKeyDown(rl.KeyUp) {
		pitch += w.Camera.LookSpeed * dt
	}
	if rl.IsKeyDown(rl.KeyDown) {
		pitch -= w.Camera.LookSpeed * dt
	}
	if yaw != 0 || pitch != 0 {
		w.Camera.Look(yaw, pitch)
	}

	mouse := rl.GetMousePosition()
	if win.HUD.captures(mouse) {
		return
	}
	ndc := camera.PixelToNDC(mouse.X, mouse.Y, width, height)

	// Camera motion moves the scene under a still pointer too.
	if mouse != win.lastMouse || yaw != 0 || pitch != 0 {
		w.Controller.PointerMove(ndc)
		win.lastMouse = mouse
	}
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		w.Controller.PointerDown(ndc)
	}
}

// Close releases GPU resources and destroys the window.
func (win *Window) Close() {
	win.Renderer.Unload()
	if win.HUD != nil {
		win.HUD.Unload()
	}
	rl.CloseWindow()
}
