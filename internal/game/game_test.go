package game

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raypick/internal/assets"
	"raypick/internal/camera"
	"raypick/internal/config"
	"raypick/internal/engine"
	"raypick/internal/world"
)

// manualDisplay holds at most one pending callback and fires it on demand.
type manualDisplay struct {
	pending  func(time.Time)
	requests int
}

func (d *manualDisplay) RequestFrame(cb func(time.Time)) {
	d.requests++
	d.pending = cb
}

// frame fires the pending callback and reports whether there was one.
func (d *manualDisplay) frame(now time.Time) bool {
	cb := d.pending
	d.pending = nil
	if cb == nil {
		return false
	}
	cb(now)
	return true
}

type recordingRenderer struct {
	frames []int
	panicAt int
}

func (r *recordingRenderer) Render(objs []*engine.Object, cam *camera.Camera) {
	r.frames = append(r.frames, len(objs))
	if r.panicAt > 0 && len(r.frames) == r.panicAt {
		panic("renderer exploded")
	}
}

const boxYAML = "name: Box\nparts:\n  - shape: box\n    size: [10, 10, 10]\n"

func newWorld(t *testing.T, initial int) *world.World {
	t.Helper()
	cfg := config.Default()
	cfg.Spawn.Prefab = "box.yaml"
	cfg.Spawn.Seed = 7
	cfg.Session.InitialObjects = initial
	w, err := world.New(cfg, assets.NewManager(fstest.MapFS{"box.yaml": {Data: []byte(boxYAML)}}), nil)
	require.NoError(t, err)
	t.Cleanup(w.Stop)
	return w
}

func TestSchedulerRearmsEveryFrame(t *testing.T) {
	w := newWorld(t, 0)
	display := &manualDisplay{}
	renderer := &recordingRenderer{}
	s := New(w, display, renderer, nil)

	require.NoError(t, s.Start())
	require.NoError(t, s.Start(), "second start is a no-op")
	assert.Equal(t, 1, display.requests)

	now := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		require.True(t, display.frame(now.Add(time.Duration(i)*time.Second/60)))
	}

	assert.Equal(t, []int{0, 0, 0, 0, 0}, renderer.frames, "empty registry renders fine")
	assert.Equal(t, uint64(5), s.Stats().Frames)
	assert.Equal(t, uint64(5), w.Driver.Ticks())
	assert.NotNil(t, display.pending)
}

func TestSchedulerRendersSpawnedObjects(t *testing.T) {
	w := newWorld(t, 3)
	display := &manualDisplay{}
	renderer := &recordingRenderer{}
	s := New(w, display, renderer, nil)

	now := time.Unix(0, 0)
	w.Start(now)
	require.NoError(t, s.Start())

	require.Eventually(t, func() bool {
		display.frame(now)
		return w.Registry.Len() == 3
	}, 2*time.Second, time.Millisecond)

	display.frame(now)
	assert.Equal(t, 3, renderer.frames[len(renderer.frames)-1])
}

func TestSchedulerSurvivesPanics(t *testing.T) {
	w := newWorld(t, 0)
	display := &manualDisplay{}
	renderer := &recordingRenderer{panicAt: 2}
	s := New(w, display, renderer, nil)
	require.NoError(t, s.Start())

	now := time.Unix(0, 0)
	for i := 0; i < 4; i++ {
		require.True(t, display.frame(now), "frame %d", i)
	}
	assert.Len(t, renderer.frames, 4)
	assert.Equal(t, uint64(4), s.Stats().Frames)
}

func TestSchedulerStopIsFinal(t *testing.T) {
	w := newWorld(t, 0)
	display := &manualDisplay{}
	renderer := &recordingRenderer{}
	s := New(w, display, renderer, nil)
	require.NoError(t, s.Start())

	now := time.Unix(0, 0)
	require.True(t, display.frame(now))

	s.Stop()
	s.Stop()
	assert.True(t, s.Stopped())
	assert.True(t, w.Stopped())
	assert.ErrorIs(t, s.Start(), ErrStopped)

	// The frame already requested fires once and does not re-arm.
	require.True(t, display.frame(now))
	assert.False(t, display.frame(now))
	assert.Len(t, renderer.frames, 1)
}

func TestSchedulerStopFromListener(t *testing.T) {
	w := newWorld(t, 0)
	display := &manualDisplay{}
	s := New(w, display, nil, nil)
	w.OnGameOver.AddListener(func(int) { s.Stop() })
	require.NoError(t, s.Start())

	now := time.Unix(0, 0)
	w.Start(now)
	require.True(t, display.frame(now))
	require.True(t, display.frame(now.Add(time.Minute)))

	assert.True(t, s.Stopped())
	assert.False(t, display.frame(now.Add(2*time.Minute)))
}

func TestTickerDisplayRuns(t *testing.T) {
	w := newWorld(t, 0)
	display := NewTickerDisplay(time.Millisecond)
	s := New(w, display, nil, nil)
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := display.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, s.Stats().Frames)
}

func TestTickerDisplayReturnsWhenIdle(t *testing.T) {
	display := NewTickerDisplay(time.Millisecond)
	assert.NoError(t, display.Run(context.Background()))
}
