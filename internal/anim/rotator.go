package anim

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"raypick/internal/engine"
)

// Rotator spins an object one full turn about Axis every Duration. The angle is
// applied incrementally each tick, so the total depends on the actual frame
// timing rather than being recomputed from the spawn time.
type Rotator struct {
	Axis     mgl32.Vec3
	Duration time.Duration
}

func NewRotator(axis mgl32.Vec3, duration time.Duration) (*Rotator, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("rotation duration %v must be positive: %w", duration, engine.ErrConfiguration)
	}
	if axis.Len() == 0 {
		return nil, fmt.Errorf("rotation axis must be non-zero: %w", engine.ErrConfiguration)
	}
	return &Rotator{Axis: axis.Normalize(), Duration: duration}, nil
}

// Angle returns the rotation in radians for elapsed.
func (r *Rotator) Angle(elapsed time.Duration) float32 {
	fract := float64(elapsed) / float64(r.Duration)
	return 2 * math32.Pi * float32(fract)
}

func (r *Rotator) Apply(o *engine.Object, elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	angle := r.Angle(elapsed)
	o.Transform.Rotate(r.Axis, angle)
	o.Spin += angle
}

func init() {
	RegisterRule("rotate", rotatorFactory)
}

func rotatorFactory(props map[string]any) (engine.Rule, error) {
	d, err := propDuration(props, "duration", 5*time.Second)
	if err != nil {
		return nil, err
	}
	axis := propVec3(props, "axis", [3]float32{0, 1, 0})
	return NewRotator(axis, d)
}
