package anim

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"raypick/internal/engine"
)

// Drifter pulls an object toward the vertical axis (x = 0) at Speed.X units per
// second, and toward y = 0 at Speed.Y. Once it reaches x = 0 the object is
// marked expired and the scene removes it after the tick.
type Drifter struct {
	Speed mgl32.Vec2
}

func NewDrifter(speed mgl32.Vec2) (*Drifter, error) {
	if speed.X() <= 0 || speed.Y() < 0 {
		return nil, fmt.Errorf("drift speed %v: %w", speed, engine.ErrConfiguration)
	}
	return &Drifter{Speed: speed}, nil
}

func (d *Drifter) Apply(o *engine.Object, elapsed time.Duration) {
	if elapsed <= 0 || o.Expired {
		return
	}
	secs := float32(elapsed.Seconds())
	p := o.Transform.Translation()
	x := approach(p.X(), d.Speed.X()*secs)
	y := approach(p.Y(), d.Speed.Y()*secs)
	o.Transform.Translate(mgl32.Vec3{x - p.X(), y - p.Y(), 0})
	if x == 0 {
		o.Expired = true
	}
}

// approach moves v toward zero by at most step without overshooting.
func approach(v, step float32) float32 {
	if math32.Abs(v) <= step {
		return 0
	}
	if v > 0 {
		return v - step
	}
	return v + step
}

func init() {
	RegisterRule("drift", func(props map[string]any) (engine.Rule, error) {
		return NewDrifter(mgl32.Vec2{
			propFloat(props, "speed_x", 60),
			propFloat(props, "speed_y", 3),
		})
	})
}
