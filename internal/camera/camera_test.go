package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"raypick/internal/engine"
)

func TestDefaultCameraLooksDownNegativeZ(t *testing.T) {
	c := New(mgl32.Vec3{}, 70, 16.0/9, 1, 10000)
	assert.True(t, c.Forward().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-6), "got %v", c.Forward())
	assert.NoError(t, c.Validate())
}

func TestCenterRayGoesStraightAhead(t *testing.T) {
	c := New(mgl32.Vec3{0, 0, 0}, 70, 1.5, 1, 10000)
	r := c.Ray(mgl32.Vec2{0, 0})

	assert.True(t, r.Dir.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4), "dir %v", r.Dir)
	assert.True(t, r.Origin.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-3), "origin %v", r.Origin)
	assert.InDelta(t, 1, r.Dir.Len(), 1e-5)
}

func TestEdgeRayMatchesFieldOfView(t *testing.T) {
	c := New(mgl32.Vec3{0, 0, 0}, 90, 2, 0.5, 1000)

	up := c.Ray(mgl32.Vec2{0, 1})
	// Vertical half-angle is 45 degrees.
	assert.InDelta(t, up.Dir.Y(), -up.Dir.Z(), 1e-4)

	right := c.Ray(mgl32.Vec2{1, 0})
	// Horizontal half-extent is aspect * tan(45) = 2.
	assert.InDelta(t, 2, right.Dir.X()/-right.Dir.Z(), 1e-3)
}

func TestRayFollowsOrientation(t *testing.T) {
	c := New(mgl32.Vec3{10, 5, 0}, 60, 1, 1, 500)
	c.Look(90, 0) // yaw 0 looks down +X
	r := c.Ray(mgl32.Vec2{0, 0})

	assert.True(t, r.Dir.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-4), "dir %v", r.Dir)
	assert.True(t, r.At(9).ApproxEqualThreshold(mgl32.Vec3{20, 5, 0}, 1e-2), "at %v", r.At(9))
}

func TestResize(t *testing.T) {
	c := New(mgl32.Vec3{}, 70, 1, 1, 100)
	c.Resize(1280, 720)
	assert.InDelta(t, 1280.0/720.0, c.Aspect, 1e-6)

	c.Resize(0, 0)
	assert.InDelta(t, 1280.0/720.0, c.Aspect, 1e-6, "degenerate sizes are ignored")
}

func TestLookClampsPitch(t *testing.T) {
	c := New(mgl32.Vec3{}, 70, 1, 1, 100)
	c.Look(0, 200)
	assert.Equal(t, float32(89), c.Pitch)
	c.Look(0, -500)
	assert.Equal(t, float32(-89), c.Pitch)
}

func TestValidate(t *testing.T) {
	for name, c := range map[string]*Camera{
		"fov":    New(mgl32.Vec3{}, 0, 1, 1, 100),
		"aspect": New(mgl32.Vec3{}, 70, 0, 1, 100),
		"near":   New(mgl32.Vec3{}, 70, 1, 0, 100),
		"far":    New(mgl32.Vec3{}, 70, 1, 10, 5),
	} {
		assert.ErrorIs(t, c.Validate(), engine.ErrConfiguration, name)
	}
}

func TestPixelToNDC(t *testing.T) {
	assert.Equal(t, mgl32.Vec2{-1, 1}, PixelToNDC(0, 0, 800, 600))
	assert.Equal(t, mgl32.Vec2{0, 0}, PixelToNDC(400, 300, 800, 600))
	assert.Equal(t, mgl32.Vec2{1, -1}, PixelToNDC(800, 600, 800, 600))
	assert.Equal(t, mgl32.Vec2{}, PixelToNDC(10, 10, 0, 0))
	assert.InDelta(t, math32.Sqrt(2), PixelToNDC(800, 0, 800, 600).Len(), 1e-6)
}

func TestFrustum(t *testing.T) {
	c := New(mgl32.Vec3{0, 0, 0}, 70, 1, 1, 10000)
	f := c.Frustum()

	assert.True(t, f.ContainsPoint(mgl32.Vec3{0, 0, -200}))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, 200}), "behind the camera")
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, -20000}), "past the far plane")
	assert.False(t, f.ContainsPoint(mgl32.Vec3{500, 0, -200}), "outside the side planes")

	// Half width at z=-200 is 200*tan(35deg), about 140.
	assert.False(t, f.ContainsSphere(mgl32.Vec3{250, 0, -200}, 20))
	assert.True(t, f.ContainsSphere(mgl32.Vec3{150, 0, -200}, 20), "straddles the right plane")
}
