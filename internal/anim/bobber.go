package anim

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"raypick/internal/engine"
)

// Bobber moves an object up and down along a triangle wave. Each tick the
// object's BobPosition advances by Step in BobDirection, clamps to
// [-Bound, Bound], and flips direction at either bound. The transform's Y
// translation moves by the same delta scaled by Ratio.
//
// Step is per tick, not per second.
type Bobber struct {
	Bound float32
	Step  float32
	Ratio float32
}

func NewBobber(bound, step, ratio float32) (*Bobber, error) {
	if bound <= 0 || step <= 0 {
		return nil, fmt.Errorf("bob bound %v and step %v must be positive: %w", bound, step, engine.ErrConfiguration)
	}
	return &Bobber{Bound: bound, Step: step, Ratio: ratio}, nil
}

func (b *Bobber) Apply(o *engine.Object, elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	dir := o.BobDirection
	if dir == 0 {
		dir = 1
	}
	next := o.BobPosition + dir*b.Step
	if next >= b.Bound {
		next = b.Bound
		dir = -1
	} else if next <= -b.Bound {
		next = -b.Bound
		dir = 1
	}
	delta := next - o.BobPosition
	o.BobPosition = next
	o.BobDirection = dir
	o.Transform.Translate(mgl32.Vec3{0, delta * b.Ratio, 0})
}

func init() {
	RegisterRule("bob", func(props map[string]any) (engine.Rule, error) {
		return NewBobber(
			propFloat(props, "bound", 12),
			propFloat(props, "step", 0.5),
			propFloat(props, "ratio", 0.5),
		)
	})
}
