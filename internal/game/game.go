package game

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"raypick/internal/camera"
	"raypick/internal/engine"
	"raypick/internal/world"
)

// ErrStopped is returned by Start once the scheduler has been stopped.
var ErrStopped = errors.New("game: scheduler stopped")

// Display delivers the refresh signal. RequestFrame registers cb for the next
// refresh only; a callback must re-register to keep the loop going.
type Display interface {
	RequestFrame(cb func(now time.Time))
}

// Renderer draws a snapshot of live objects from the camera's point of view.
type Renderer interface {
	Render(objs []*engine.Object, cam *camera.Camera)
}

// Stats holds per-phase timings of the most recent frame.
type Stats struct {
	Frames uint64
	StepMs float64
	DrawMs float64
}

// Scheduler runs one world step and one render per display refresh. It never
// blocks: each tick does its work and re-arms itself through the display.
// Ticks and Stop run on the display's goroutine.
type Scheduler struct {
	World    *world.World
	display  Display
	renderer Renderer
	log      *slog.Logger

	armed   atomic.Bool
	stopped atomic.Bool

	mu    sync.Mutex
	stats Stats
}

func New(w *world.World, display Display, renderer Renderer, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{World: w, display: display, renderer: renderer, log: log}
}

// Start arms the first frame. Starting twice is a no-op; starting after Stop
// fails with ErrStopped.
func (s *Scheduler) Start() error {
	if s.stopped.Load() {
		return ErrStopped
	}
	if !s.armed.CompareAndSwap(false, true) {
		return nil
	}
	s.display.RequestFrame(s.tick)
	return nil
}

// Stop clears the world and stops re-arming. It is final.
func (s *Scheduler) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	s.World.Stop()
	s.log.Info("scheduler stopped", "frames", s.Stats().Frames)
}

func (s *Scheduler) Stopped() bool {
	return s.stopped.Load()
}

func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Scheduler) tick(now time.Time) {
	if s.stopped.Load() {
		s.armed.Store(false)
		return
	}

	stepStart := time.Now()
	if err := s.guard("step", func() { s.World.Step(now) }); err != nil {
		s.log.Error("frame step failed", "err", err)
	}
	stepMs := float64(time.Since(stepStart).Microseconds()) / 1000.0

	drawStart := time.Now()
	if s.renderer != nil {
		if err := s.guard("render", func() { s.renderer.Render(s.World.Registry.Snapshot(), s.World.Camera) }); err != nil {
			s.log.Error("frame render failed", "err", err)
		}
	}
	drawMs := float64(time.Since(drawStart).Microseconds()) / 1000.0

	s.mu.Lock()
	s.stats.Frames++
	s.stats.StepMs, s.stats.DrawMs = stepMs, drawMs
	s.mu.Unlock()

	// Stop may have been called by a listener during this tick.
	if s.stopped.Load() {
		s.armed.Store(false)
		return
	}
	s.display.RequestFrame(s.tick)
}

// guard keeps a panic inside one phase of one tick.
func (s *Scheduler) guard(phase string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", phase, r)
		}
	}()
	fn()
	return nil
}
