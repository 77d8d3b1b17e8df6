package display

import (
	"fmt"
	"log/slog"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"raypick/internal/game"
)

// Theme colors
var (
	colorBgDark    = rl.NewColor(10, 10, 15, 255)
	colorBgPanel   = rl.NewColor(18, 18, 24, 245)
	colorBgElement = rl.NewColor(28, 28, 38, 255)
	colorBgHover   = rl.NewColor(38, 38, 52, 255)
	colorAccent    = rl.NewColor(108, 99, 255, 255)

	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
)

// HUD draws the round counters, the timer and the game over banner.
type HUD struct {
	scheduler *game.Scheduler
	renderer  *Renderer
	log       *slog.Logger

	font  rl.Font
	Debug bool
}

func NewHUD(s *game.Scheduler, r *Renderer, log *slog.Logger) *HUD {
	return &HUD{scheduler: s, renderer: r, log: log}
}

// initStyle loads the HUD font, if one is configured, and applies the dark
// theme. It needs a window.
func (h *HUD) initStyle(fontPath string) {
	if fontPath != "" {
		h.font = rl.LoadFontEx(fontPath, 48, nil)
		if h.font.Texture.ID > 0 {
			rl.SetTextureFilter(h.font.Texture, rl.FilterBilinear)
			gui.SetFont(h.font)
		} else {
			h.log.Warn("hud font failed to load, using default", "path", fontPath)
		}
	}

	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 18)
}

// Draw renders the overlay. It returns true when the restart button was pressed.
func (h *HUD) Draw(now time.Time) (restart bool) {
	session := h.scheduler.World.Session

	rl.DrawRectangle(8, 8, 236, 118, colorBgPanel)
	gui.Label(rl.Rectangle{X: 20, Y: 14, Width: 220, Height: 24}, fmt.Sprintf("Score: %d", session.Score()))
	gui.Label(rl.Rectangle{X: 20, Y: 40, Width: 220, Height: 24}, fmt.Sprintf("Remaining: %d", session.Remaining()))

	left := session.TimeLeft(now)
	gui.ProgressBar(rl.Rectangle{X: 20, Y: 72, Width: 150, Height: 18}, "",
		fmt.Sprintf("%.1fs", left.Seconds()), float32(left.Seconds()), 0, float32(session.Length.Seconds()))
	rl.DrawFPS(20, 98)

	if h.Debug {
		h.drawDebug()
	}

	if !session.Ended() {
		return false
	}

	w, hgt := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	banner := rl.Rectangle{X: w/2 - 160, Y: hgt/2 - 70, Width: 320, Height: 140}
	rl.DrawRectangleRec(banner, colorBgPanel)
	rl.DrawRectangleLinesEx(banner, 1, colorAccent)
	h.drawText(fmt.Sprintf("Final score: %d", session.Score()), int32(banner.X)+24, int32(banner.Y)+20, 28, colorTextPrimary)
	return gui.Button(rl.Rectangle{X: banner.X + 24, Y: banner.Y + 80, Width: banner.Width - 48, Height: 36}, "Play again")
}

func (h *HUD) drawDebug() {
	stats := h.scheduler.Stats()
	x := int32(rl.GetScreenWidth()) - 220
	h.drawText(fmt.Sprintf("Frames: %d", stats.Frames), x, 14, 16, rl.Green)
	h.drawText(fmt.Sprintf("Step:   %.2f ms", stats.StepMs), x, 34, 16, rl.Green)
	h.drawText(fmt.Sprintf("Draw:   %.2f ms", stats.DrawMs), x, 54, 16, rl.Green)
	h.drawText(fmt.Sprintf("Drawn %d / culled %d", h.renderer.Drawn, h.renderer.Culled), x, 74, 16, rl.Lime)
}

// drawText uses the HUD font when it loaded and raylib's default otherwise.
func (h *HUD) drawText(text string, x, y int32, size float32, color rl.Color) {
	if h.font.Texture.ID > 0 {
		rl.DrawTextEx(h.font, text, rl.Vector2{X: float32(x), Y: float32(y)}, size, 0, color)
	} else {
		rl.DrawText(text, x, y, int32(size), color)
	}
}

// Bounds the pointer should not pick through.
func (h *HUD) captures(p rl.Vector2) bool {
	if rl.CheckCollisionPointRec(p, rl.Rectangle{X: 8, Y: 8, Width: 236, Height: 118}) {
		return true
	}
	if !h.scheduler.World.Session.Ended() {
		return false
	}
	w, hgt := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	return rl.CheckCollisionPointRec(p, rl.Rectangle{X: w/2 - 160, Y: hgt/2 - 70, Width: 320, Height: 140})
}

func (h *HUD) Unload() {
	if h.font.Texture.ID > 0 {
		rl.UnloadFont(h.font)
	}
}
