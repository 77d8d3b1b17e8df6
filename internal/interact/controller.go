package interact

import (
	"errors"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"raypick/internal/camera"
	"raypick/internal/engine"
	"raypick/internal/picking"
)

// DefaultHighlight is the emissive colour of the hovered object.
const DefaultHighlight uint32 = 0xff0000

type State uint8

const (
	Idle State = iota
	Hovering
	Clicked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	case Clicked:
		return "clicked"
	}
	return "unknown"
}

// Spawner queues a replacement object. The request is served on a later tick.
type Spawner interface {
	RequestSpawn()
}

// baseline is the emissive colour of each drawable before it was emphasised.
type baseline map[*engine.Node]uint32

func snapshot(o *engine.Object) baseline {
	b := make(baseline)
	for _, n := range o.Drawables() {
		b[n] = n.Material.Emissive
	}
	return b
}

func (b baseline) restore() {
	for n, c := range b {
		n.Material.Emissive = c
	}
}

func emphasize(o *engine.Object, color uint32) {
	for _, n := range o.Drawables() {
		n.Material.Emissive = color
	}
}

// Controller turns pointer events into hover emphasis, clicks and registry
// removals. It runs on the frame loop's thread.
type Controller struct {
	HoverPolicy picking.Policy
	ClickPolicy picking.Policy
	Highlight   uint32

	// OnHoverChanged fires with the newly hovered object, or nil when the
	// pointer leaves every object.
	OnHoverChanged engine.Event[*engine.Object]
	// OnClicked fires with the object removed by a click.
	OnClicked engine.Event[*engine.Object]

	reg     *engine.Registry
	cam     *camera.Camera
	session *Session
	spawner Spawner
	log     *slog.Logger

	state         State
	hovered       engine.ObjectRef
	hoverBaseline baseline
	clicked       engine.ObjectRef
	clickBaseline baseline
}

func NewController(reg *engine.Registry, cam *camera.Camera, session *Session, spawner Spawner, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		HoverPolicy: picking.Nearest,
		ClickPolicy: picking.Nearest,
		Highlight:   DefaultHighlight,
		reg:         reg,
		cam:         cam,
		session:     session,
		spawner:     spawner,
		log:         log,
	}
}

func (c *Controller) State() State { return c.state }

// Hovered returns the emphasised object if it is still live.
func (c *Controller) Hovered() *engine.Object { return c.hovered.Get(c.reg) }

func (c *Controller) Session() *Session { return c.session }

// PointerMove re-evaluates hover at ndc against whole objects.
func (c *Controller) PointerMove(ndc mgl32.Vec2) *engine.Object {
	hits := c.pick(ndc, false)
	hit, ok := c.HoverPolicy.Choose(hits)
	if !ok {
		if c.leaveHover() {
			c.OnHoverChanged.Invoke(nil)
		}
		c.state = Idle
		return nil
	}

	if hit.Object.ID != c.hovered.ID {
		c.leaveHover()
		c.hovered.Set(hit.Object)
		c.hoverBaseline = snapshot(hit.Object)
		emphasize(hit.Object, c.Highlight)
		c.OnHoverChanged.Invoke(hit.Object)
	}
	c.state = Hovering
	return hit.Object
}

// PointerDown picks through composite objects and removes the topmost owner
// of the chosen part. It returns the removed object, or nil on a miss.
func (c *Controller) PointerDown(ndc mgl32.Vec2) *engine.Object {
	hits := c.pick(ndc, true)
	hit, ok := c.ClickPolicy.Choose(hits)
	if !ok {
		if c.clicked.Get(c.reg) != nil {
			c.clickBaseline.restore()
		}
		c.clicked.Clear()
		c.clickBaseline = nil
		if c.hovered.Get(c.reg) != nil {
			c.state = Hovering
		} else {
			c.state = Idle
		}
		return nil
	}

	owner := hit.Object
	if !owner.Owns(hit.Node) {
		c.log.Warn("picked part has a foreign root", "object", owner.Name, "part", hit.Node.Name)
	}

	// The hovered baseline is the pre-emphasis state of the clicked object.
	if owner.ID == c.hovered.ID {
		c.clickBaseline = c.hoverBaseline
		c.hovered.Clear()
		c.hoverBaseline = nil
	} else {
		c.clickBaseline = snapshot(owner)
	}
	c.clicked.Set(owner)
	c.state = Clicked

	if _, err := c.reg.Remove(owner.ID); err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			c.log.Warn("clicked object already gone", "object", owner.Name, "err", err)
			return nil
		}
		c.log.Error("remove clicked object", "object", owner.Name, "err", err)
		return nil
	}

	c.session.RecordClick()
	c.log.Debug("object clicked", "object", owner.Name, "id", owner.ID,
		"distance", hit.Distance, "part", hit.Node.Name)
	if !c.session.Ended() && c.spawner != nil {
		c.spawner.RequestSpawn()
	}
	c.OnClicked.Invoke(owner)
	return owner
}

// Reset drops hover and click state without touching emphasis, for when the
// scene is cleared wholesale.
func (c *Controller) Reset() {
	c.hovered.Clear()
	c.hoverBaseline = nil
	c.clicked.Clear()
	c.clickBaseline = nil
	c.state = Idle
}

// leaveHover restores the hovered object's baseline and reports whether
// something was hovered.
func (c *Controller) leaveHover() bool {
	if !c.hovered.IsValid() {
		return false
	}
	if c.hovered.Get(c.reg) != nil {
		c.hoverBaseline.restore()
	}
	c.hovered.Clear()
	c.hoverBaseline = nil
	return true
}

func (c *Controller) pick(ndc mgl32.Vec2, recursive bool) []picking.Hit {
	return picking.PickNDC(ndc, c.cam, c.reg, picking.Options{Recursive: recursive, MaxDistance: c.cam.Far})
}
