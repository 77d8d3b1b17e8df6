package anim

import (
	"fmt"
	"iter"
	"log/slog"
	"time"

	"raypick/internal/engine"
)

// Driver advances every live object once per tick.
type Driver struct {
	log       *slog.Logger
	last      time.Time
	started   bool
	elapsed   time.Duration
	ticks     uint64
	anomalies uint64
}

func NewDriver(log *slog.Logger) *Driver {
	if log == nil {
		log = slog.Default()
	}
	return &Driver{log: log}
}

// Tick measures the time since the previous tick and runs each object's rules
// with the time since that object's own previous tick. A backwards clock step
// counts as zero elapsed. Objects whose rules panic are logged and skipped for
// this tick only. Tick returns the objects that expired during this pass; the
// caller removes them once iteration is over.
func (d *Driver) Tick(now time.Time, objs iter.Seq[*engine.Object]) []*engine.Object {
	if d.started {
		d.elapsed = d.clamp(now.Sub(d.last), "driver")
	} else {
		d.started = true
		d.elapsed = 0
	}
	d.last = now
	d.ticks++

	var expired []*engine.Object
	for o := range objs {
		elapsed := d.clamp(now.Sub(o.LastTick), o.Name)
		o.LastTick = now
		if err := d.update(o, elapsed); err != nil {
			d.log.Error("animation update failed", "object", o.Name, "id", o.ID, "err", err)
			continue
		}
		if o.Expired {
			expired = append(expired, o)
		}
	}
	return expired
}

// Elapsed is the driver-level elapsed time of the most recent tick.
func (d *Driver) Elapsed() time.Duration {
	return d.elapsed
}

func (d *Driver) Ticks() uint64 {
	return d.ticks
}

// Anomalies counts how many backwards clock steps were clamped.
func (d *Driver) Anomalies() uint64 {
	return d.anomalies
}

func (d *Driver) clamp(elapsed time.Duration, who string) time.Duration {
	if elapsed >= 0 {
		return elapsed
	}
	d.anomalies++
	d.log.Warn("clock stepped backwards, treating as zero",
		"who", who, "elapsed", elapsed, "err", engine.ErrClockAnomaly)
	return 0
}

func (d *Driver) update(o *engine.Object, elapsed time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule panicked: %v", r)
		}
	}()
	o.Update(elapsed)
	return nil
}
