package anim

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raypick/internal/engine"
)

var epoch = time.Unix(1_700_000_000, 0)

func newRotating(t *testing.T, axis mgl32.Vec3, d time.Duration) *engine.Object {
	t.Helper()
	r, err := NewRotator(axis, d)
	require.NoError(t, err)
	o := engine.NewObject("Spinner", nil, epoch)
	o.AddRule(r)
	return o
}

func TestRotatorZeroDurationIsConfigurationError(t *testing.T) {
	_, err := NewRotator(mgl32.Vec3{0, 1, 0}, 0)
	assert.ErrorIs(t, err, engine.ErrConfiguration)

	_, err = NewRotator(mgl32.Vec3{}, time.Second)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestRotatorFullTurnAccrues(t *testing.T) {
	const duration = 5 * time.Second
	for _, n := range []int{1, 4, 60, 300} {
		o := newRotating(t, mgl32.Vec3{0, 1, 0}, duration)
		step := duration / time.Duration(n)
		for i := 0; i < n; i++ {
			o.Update(step)
		}

		assert.InDelta(t, 2*math32.Pi, o.Spin, 1e-3, "n=%d", n)
		// A whole turn brings the basis back to where it started.
		assert.True(t, o.Transform.Matrix().ApproxEqualThreshold(mgl32.Ident4(), 1e-3),
			"n=%d: %v", n, o.Transform.Matrix())
	}
}

func TestRotatorAngleIsLinearInElapsed(t *testing.T) {
	r, err := NewRotator(mgl32.Vec3{1, 0, 0}, 10*time.Second)
	require.NoError(t, err)

	assert.InDelta(t, r.Angle(time.Second)*3, r.Angle(3*time.Second), 1e-6)
	assert.InDelta(t, math32.Pi, r.Angle(5*time.Second), 1e-6)
}

func TestRotatorQuarterTurnAboutAxis(t *testing.T) {
	o := newRotating(t, mgl32.Vec3{0, 0, 1}, 4*time.Second)
	o.Update(time.Second)

	got := o.Transform.Vector(mgl32.Vec3{1, 0, 0})
	assert.True(t, got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6), "got %v", got)
}

func TestZeroElapsedTicksAreIdempotent(t *testing.T) {
	rot, err := NewRotator(mgl32.Vec3{0, 1, 0}, 5*time.Second)
	require.NoError(t, err)
	bob, err := NewBobber(12, 0.5, 0.5)
	require.NoError(t, err)
	drift, err := NewDrifter(mgl32.Vec2{60, 3})
	require.NoError(t, err)

	o := engine.NewObject("Penguin", nil, epoch)
	o.Transform = engine.TranslationOf(mgl32.Vec3{250, 40, -200})
	o.AddRule(rot)
	o.AddRule(bob)
	o.AddRule(drift)

	// Move it somewhere first so the check isn't against identity.
	o.Update(100 * time.Millisecond)
	before := *o

	d := NewDriver(nil)
	for i := 0; i < 10; i++ {
		d.Tick(o.LastTick, seqOf(o))
	}

	assert.Equal(t, before.Transform.Matrix(), o.Transform.Matrix())
	assert.Equal(t, before.BobPosition, o.BobPosition)
	assert.Equal(t, before.BobDirection, o.BobDirection)
	assert.Equal(t, before.Spin, o.Spin)
}

func TestBobberStaysBoundedAndReversesAtBounds(t *testing.T) {
	const bound, step, ratio = 12, 0.5, 0.5
	b, err := NewBobber(bound, step, ratio)
	require.NoError(t, err)

	o := engine.NewObject("Bob", nil, epoch)
	startY := o.Transform.Translation().Y()

	var reversals []float32
	prevDir := o.BobDirection
	for i := 0; i < 500; i++ {
		b.Apply(o, time.Millisecond)
		require.LessOrEqual(t, o.BobPosition, float32(bound))
		require.GreaterOrEqual(t, o.BobPosition, float32(-bound))
		if o.BobDirection != prevDir {
			reversals = append(reversals, o.BobPosition)
			prevDir = o.BobDirection
		}
		// Translation tracks position at the fixed ratio.
		require.InDelta(t, o.BobPosition*ratio, o.Transform.Translation().Y()-startY, 1e-4)
	}

	require.NotEmpty(t, reversals)
	for i, p := range reversals {
		if i%2 == 0 {
			assert.Equal(t, float32(bound), p)
		} else {
			assert.Equal(t, float32(-bound), p)
		}
	}
}

func TestBobberIsPeriodic(t *testing.T) {
	b, err := NewBobber(12, 0.5, 0.5)
	require.NoError(t, err)
	o := engine.NewObject("Bob", nil, epoch)

	// 0 -> 12 -> -12 -> 0 is 24 + 48 + 24 steps.
	for i := 0; i < 96; i++ {
		b.Apply(o, time.Millisecond)
	}
	assert.Equal(t, float32(0), o.BobPosition)
	assert.Equal(t, float32(1), o.BobDirection)
	assert.InDelta(t, 0, o.Transform.Translation().Y(), 1e-5)
}

func TestDrifterReachesAxisAndExpires(t *testing.T) {
	d, err := NewDrifter(mgl32.Vec2{60, 3})
	require.NoError(t, err)

	o := engine.NewObject("Drift", nil, epoch)
	o.Transform = engine.TranslationOf(mgl32.Vec3{-250, 90, -200})

	d.Apply(o, time.Second)
	p := o.Transform.Translation()
	assert.InDelta(t, -190, p.X(), 1e-4)
	assert.InDelta(t, 87, p.Y(), 1e-4)
	assert.False(t, o.Expired)

	d.Apply(o, 10*time.Second)
	p = o.Transform.Translation()
	assert.Equal(t, float32(0), p.X())
	assert.Equal(t, float32(57), p.Y())
	assert.Equal(t, float32(-200), p.Z())
	assert.True(t, o.Expired)
}
