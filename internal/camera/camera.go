package camera

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"raypick/internal/engine"
)

// Camera is a perspective camera oriented by yaw/pitch in degrees. Yaw -90
// looks down -Z.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	FovY   float32 // vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32

	LookSpeed float32 // degrees per second of orbit input
}

func New(pos mgl32.Vec3, fovY, aspect, near, far float32) *Camera {
	return &Camera{
		Position:  pos,
		Yaw:       -90,
		Pitch:     0,
		FovY:      fovY,
		Aspect:    aspect,
		Near:      near,
		Far:       far,
		LookSpeed: 45,
	}
}

func (c *Camera) Validate() error {
	switch {
	case c.FovY <= 0 || c.FovY >= 180:
		return fmt.Errorf("camera fov %v out of range: %w", c.FovY, engine.ErrConfiguration)
	case c.Aspect <= 0:
		return fmt.Errorf("camera aspect %v must be positive: %w", c.Aspect, engine.ErrConfiguration)
	case c.Near <= 0 || c.Far <= c.Near:
		return fmt.Errorf("camera clip range [%v, %v] invalid: %w", c.Near, c.Far, engine.ErrConfiguration)
	}
	return nil
}

// Resize recomputes the aspect ratio for a new viewport. Degenerate sizes
// (minimised windows) keep the previous aspect.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Look turns the camera by the given yaw/pitch deltas in degrees.
func (c *Camera) Look(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch += dPitch

	// Clamp pitch
	if c.Pitch > 89 {
		c.Pitch = 89
	}
	if c.Pitch < -89 {
		c.Pitch = -89
	}
}

func (c *Camera) Forward() mgl32.Vec3 {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(c.Pitch)
	return mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}
}

func (c *Camera) Target() mgl32.Vec3 {
	return c.Position.Add(c.Forward())
}

func (c *Camera) Up() mgl32.Vec3 {
	return mgl32.Vec3{0, 1, 0}
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target(), c.Up())
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}
