package world

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"raypick/internal/anim"
	"raypick/internal/assets"
	"raypick/internal/camera"
	"raypick/internal/config"
	"raypick/internal/engine"
	"raypick/internal/interact"
	"raypick/internal/picking"
)

// World is the scene context for one game: it owns the registry, the camera,
// the animation driver, the interaction controller and the spawn tasks. All
// registry mutation happens on the frame loop through Step and the controller.
type World struct {
	Registry   *engine.Registry
	Camera     *camera.Camera
	Driver     *anim.Driver
	Controller *interact.Controller
	Session    *interact.Session

	OnSpawned  engine.Event[*engine.Object]
	OnEscaped  engine.Event[*engine.Object]
	OnGameOver engine.Event[int] // final score

	cfg     config.Config
	tasks   *assets.Tasks
	rng     *rand.Rand
	log     *slog.Logger
	spawned int
	stopped bool
}

func New(cfg config.Config, loader assets.Loader, log *slog.Logger) (*World, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hover, _ := picking.ParsePolicy(cfg.Picking.HoverPolicy)
	click, _ := picking.ParsePolicy(cfg.Picking.ClickPolicy)

	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	cam := camera.New(mgl32.Vec3(cfg.Camera.Position), cfg.Camera.FovY, aspect, cfg.Camera.Near, cfg.Camera.Far)
	if err := cam.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Spawn.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	w := &World{
		Registry: engine.NewRegistry("Main"),
		Camera:   cam,
		Driver:   anim.NewDriver(log.With("component", "anim")),
		Session:  interact.NewSession(cfg.Session.Length),
		cfg:      cfg,
		tasks:    assets.NewTasks(loader, cfg.Assets.LoadTimeout),
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		log:      log,
	}
	w.Controller = interact.NewController(w.Registry, w.Camera, w.Session, w, log.With("component", "interact"))
	w.Controller.HoverPolicy = hover
	w.Controller.ClickPolicy = click
	w.Controller.Highlight = cfg.Picking.HighlightColor()
	return w, nil
}

// Start begins a round at now: the registry is emptied and the initial
// population is requested.
func (w *World) Start(now time.Time) {
	w.Registry.Clear()
	w.Controller.Reset()
	w.Session.Start(now)
	for range w.cfg.Session.InitialObjects {
		w.RequestSpawn()
	}
	w.log.Info("session started", "length", w.Session.Length, "objects", w.cfg.Session.InitialObjects)
}

// RequestSpawn starts loading one more object. Requests made after the round
// ended or the world stopped are ignored.
func (w *World) RequestSpawn() {
	if w.stopped || w.Session.Ended() {
		return
	}
	w.tasks.Start(w.cfg.Spawn.Prefab)
}

// PendingSpawns counts loads that have not been applied yet.
func (w *World) PendingSpawns() int {
	return w.tasks.Pending()
}

// Step runs one tick: finished loads enter the registry, every object is
// animated, objects that drifted out are removed and the round timer is checked.
func (w *World) Step(now time.Time) {
	if w.stopped {
		return
	}
	w.applyLoads(now)

	for _, o := range w.Driver.Tick(now, w.Registry.All()) {
		w.escape(o)
	}

	if w.Session.Expired(now) {
		w.endSession()
	}
}

func (w *World) applyLoads(now time.Time) {
	for _, res := range w.tasks.Drain() {
		if res.Err != nil {
			w.log.Warn("spawn skipped", "url", res.URL, "err", res.Err)
			continue
		}
		if w.Session.Ended() {
			continue
		}
		if _, err := w.Spawn(res.Prefab, now); err != nil {
			w.log.Error("spawn failed", "prefab", res.Prefab.Name, "err", err)
		}
	}
}

// Spawn builds one instance of prefab at a random lane and adds it. An object
// whose rules fail to build never enters the registry.
func (w *World) Spawn(prefab *assets.Prefab, now time.Time) (*engine.Object, error) {
	w.spawned++
	o := engine.NewObject(fmt.Sprintf("%s_%d", prefab.Name, w.spawned), prefab.Build(), now)
	o.Transform = engine.TranslationOf(w.spawnPosition())

	for _, rc := range w.cfg.Rules {
		r, err := anim.CreateRule(rc.Name, rc.Props)
		if err != nil {
			return nil, err
		}
		o.AddRule(r)
	}

	if err := w.Registry.Add(o); err != nil {
		return nil, err
	}
	w.Session.RecordSpawn()
	w.OnSpawned.Invoke(o)
	return o, nil
}

func (w *World) spawnPosition() mgl32.Vec3 {
	s := w.cfg.Spawn
	x := s.Lanes[w.rng.IntN(len(s.Lanes))]
	y := s.YMin + w.rng.Float32()*(s.YMax-s.YMin)
	return mgl32.Vec3{x, y, s.Z}
}

func (w *World) escape(o *engine.Object) {
	if _, err := w.Registry.Remove(o.ID); err != nil {
		w.log.Warn("escaped object already gone", "object", o.Name, "err", err)
		return
	}
	w.Session.RecordEscape()
	w.log.Debug("object escaped", "object", o.Name)
	w.OnEscaped.Invoke(o)
}

func (w *World) endSession() {
	w.Session.End()
	w.Registry.Clear()
	w.Controller.Reset()
	score := w.Session.Score()
	w.log.Info("session over", "score", score,
		"spawned", w.Session.Spawned(), "clicked", w.Session.Clicked(), "escaped", w.Session.Escaped())
	w.OnGameOver.Invoke(score)
}

// Stop tears the scene down. A stopped world does not step or spawn again.
func (w *World) Stop() {
	if w.stopped {
		return
	}
	w.stopped = true
	w.tasks.Close()
	w.Registry.Clear()
	w.Controller.Reset()
}

func (w *World) Stopped() bool {
	return w.stopped
}
