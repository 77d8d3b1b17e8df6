package engine

import (
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// ID is the stable identity of a scene object.
type ID uint64

var nextID atomic.Uint64

// Rule mutates an object's transform (and its explicit animation fields) for
// the time that passed since the object's previous tick.
type Rule interface {
	Apply(o *Object, elapsed time.Duration)
}

// RuleFunc adapts a plain function to a Rule.
type RuleFunc func(o *Object, elapsed time.Duration)

func (f RuleFunc) Apply(o *Object, elapsed time.Duration) { f(o, elapsed) }

// Object is a live scene record: a named graph of nodes placed by Transform.
type Object struct {
	ID        ID
	Name      string
	Root      *Node
	Transform Transform

	SpawnedAt time.Time
	LastTick  time.Time
	Rules     []Rule

	// Animation state kept on the record so it can be inspected between ticks.
	Spin         float32 // accumulated rotation in radians
	BobPosition  float32
	BobDirection float32 // +1 or -1
	Expired      bool
}

// NewObject creates a record spawned at now. The first tick measures elapsed
// time from now, not from whenever the scene started.
func NewObject(name string, root *Node, now time.Time) *Object {
	return &Object{
		ID:           ID(nextID.Add(1)),
		Name:         name,
		Root:         root,
		Transform:    Identity(),
		SpawnedAt:    now,
		LastTick:     now,
		BobDirection: 1,
	}
}

func (o *Object) AddRule(r Rule) {
	o.Rules = append(o.Rules, r)
}

// Update runs every rule in order with the same elapsed time.
func (o *Object) Update(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	for _, r := range o.Rules {
		r.Apply(o, elapsed)
	}
}

func (o *Object) Position() mgl32.Vec3 {
	return o.Transform.Translation()
}

// Walk visits the object's nodes with their world matrices.
func (o *Object) Walk(visit func(n *Node, world mgl32.Mat4)) {
	if o.Root == nil {
		return
	}
	o.Root.Walk(o.Transform.Matrix(), visit)
}

func (o *Object) Drawables() []*Node {
	if o.Root == nil {
		return nil
	}
	return o.Root.Drawables()
}

// Owns reports whether n belongs to this object's graph.
func (o *Object) Owns(n *Node) bool {
	return o.Root != nil && n != nil && n.Root() == o.Root
}
