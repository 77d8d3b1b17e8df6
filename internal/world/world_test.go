package world

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raypick/internal/assets"
	"raypick/internal/config"
	"raypick/internal/engine"
)

const figureYAML = `
name: Figure
parts:
  - name: Body
    shape: box
    size: [20, 30, 20]
  - name: Head
    shape: sphere
    radius: 8
    offset: [0, 24, 0]
`

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Spawn.Prefab = "figure.yaml"
	cfg.Spawn.Seed = 42
	return cfg
}

func newWorld(t *testing.T, cfg config.Config, loader assets.Loader) *World {
	t.Helper()
	if loader == nil {
		loader = assets.NewManager(fstest.MapFS{"figure.yaml": {Data: []byte(figureYAML)}})
	}
	w, err := New(cfg, loader, nil)
	require.NoError(t, err)
	t.Cleanup(w.Stop)
	return w
}

// settle steps at now until every pending spawn has been applied.
func settle(t *testing.T, w *World, now time.Time) {
	t.Helper()
	require.Eventually(t, func() bool {
		w.Step(now)
		return w.PendingSpawns() == 0
	}, 2*time.Second, time.Millisecond)
}

func TestStartSpawnsInitialPopulation(t *testing.T) {
	w := newWorld(t, testConfig(), nil)
	now := time.Unix(100, 0)

	var spawned []*engine.Object
	w.OnSpawned.AddListener(func(o *engine.Object) { spawned = append(spawned, o) })

	w.Start(now)
	settle(t, w, now)

	assert.Equal(t, 10, w.Registry.Len())
	assert.Equal(t, 10, w.Session.Spawned())
	assert.Len(t, spawned, 10)

	for o := range w.Registry.All() {
		p := o.Position()
		assert.Contains(t, []float32{-250, 250}, p.X())
		assert.GreaterOrEqual(t, p.Y(), float32(-100))
		assert.Less(t, p.Y(), float32(200))
		assert.Equal(t, float32(-200), p.Z())
		assert.Len(t, o.Drawables(), 2)
		assert.Len(t, o.Rules, 3)
		assert.Equal(t, now, o.SpawnedAt)
	}
}

func TestObjectsDriftOutAndEscape(t *testing.T) {
	w := newWorld(t, testConfig(), nil)
	now := time.Unix(100, 0)
	w.Start(now)
	settle(t, w, now)

	var escaped int
	w.OnEscaped.AddListener(func(*engine.Object) { escaped++ })

	// 250 units at 60 units/s takes a little over four seconds.
	w.Step(now.Add(2 * time.Second))
	assert.Equal(t, 10, w.Registry.Len())

	w.Step(now.Add(5 * time.Second))
	assert.Equal(t, 0, w.Registry.Len())
	assert.Equal(t, 10, escaped)
	assert.Equal(t, 10, w.Session.Escaped())
	assert.Equal(t, 10, w.Session.Remaining())
}

func TestClickRemovesAndRespawns(t *testing.T) {
	cfg := testConfig()
	cfg.Session.InitialObjects = 1
	cfg.Spawn.Lanes = []float32{0}
	cfg.Spawn.YMin, cfg.Spawn.YMax = 0, 0
	cfg.Rules = nil
	w := newWorld(t, cfg, nil)

	now := time.Unix(100, 0)
	w.Start(now)
	settle(t, w, now)
	require.Equal(t, 1, w.Registry.Len())

	// Aim at the head, a leaf of the figure; the whole figure goes.
	head := mgl32.Vec3{0, 24, -200}
	clip := w.Camera.ViewProjection().Mul4x1(head.Vec4(1))
	removed := w.Controller.PointerDown(mgl32.Vec2{clip.X() / clip.W(), clip.Y() / clip.W()})
	require.NotNil(t, removed)
	assert.False(t, w.Registry.Contains(removed))
	assert.Equal(t, 1, w.Session.Clicked())

	settle(t, w, now)
	assert.Equal(t, 1, w.Registry.Len(), "a replacement was spawned")
	assert.Equal(t, 2, w.Session.Spawned())
	assert.Equal(t, 0, w.Session.Score())
}

func TestSessionEndClearsAndStopsRespawns(t *testing.T) {
	cfg := testConfig()
	cfg.Session.Length = time.Second
	w := newWorld(t, cfg, nil)

	var final []int
	w.OnGameOver.AddListener(func(score int) { final = append(final, score) })

	now := time.Unix(100, 0)
	w.Start(now)
	settle(t, w, now)

	w.Step(now.Add(time.Second))
	assert.True(t, w.Session.Ended())
	assert.Equal(t, 0, w.Registry.Len())
	assert.Equal(t, []int{-10}, final)

	w.RequestSpawn()
	assert.Equal(t, 0, w.PendingSpawns())

	// The loop keeps stepping an empty scene.
	w.Step(now.Add(2 * time.Second))
	assert.Equal(t, 0, w.Registry.Len())
	assert.Len(t, final, 1)
}

type failingLoader struct{}

func (failingLoader) Load(context.Context, string) (*assets.Prefab, error) {
	return nil, errors.New("network unreachable")
}

func TestFailedLoadsAreSkipped(t *testing.T) {
	w := newWorld(t, testConfig(), failingLoader{})
	now := time.Unix(100, 0)
	w.Start(now)
	settle(t, w, now)

	assert.Equal(t, 0, w.Registry.Len())
	assert.Equal(t, 0, w.Session.Spawned())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Rules = append(cfg.Rules, config.RuleConfig{Name: "rotate", Props: map[string]any{"duration": 0}})
	_, err := New(cfg, failingLoader{}, nil)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestStopTearsDown(t *testing.T) {
	w := newWorld(t, testConfig(), nil)
	now := time.Unix(100, 0)
	w.Start(now)
	settle(t, w, now)

	w.Stop()
	assert.True(t, w.Stopped())
	assert.Equal(t, 0, w.Registry.Len())

	w.RequestSpawn()
	w.Step(now.Add(time.Second))
	assert.Equal(t, 0, w.Registry.Len())
}
