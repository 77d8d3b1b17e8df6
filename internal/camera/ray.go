package camera

import "github.com/go-gl/mathgl/mgl32"

// Ray is a half-line. Dir is unit length, so t values are world distances.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Ray casts from the near plane through the point at ndc ([-1, 1] on both axes,
// +Y up) by unprojecting through the inverse of projection*view.
func (c *Camera) Ray(ndc mgl32.Vec2) Ray {
	inv := c.ViewProjection().Inv()
	near := unproject(inv, mgl32.Vec4{ndc.X(), ndc.Y(), -1, 1})
	far := unproject(inv, mgl32.Vec4{ndc.X(), ndc.Y(), 1, 1})
	return Ray{Origin: near, Dir: far.Sub(near).Normalize()}
}

func unproject(inv mgl32.Mat4, clip mgl32.Vec4) mgl32.Vec3 {
	p := inv.Mul4x1(clip)
	return p.Vec3().Mul(1 / p.W())
}

// PixelToNDC maps a pixel position in a width x height viewport to NDC.
func PixelToNDC(x, y float32, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		x/float32(width)*2 - 1,
		-(y/float32(height))*2 + 1,
	}
}
