package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"raypick/internal/engine"
)

type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size mgl32.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// EmptyAABB returns a box that contains nothing; extending it with any point
// yields that point.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func (a AABB) IsEmpty() bool {
	return a.Min.X() > a.Max.X() || a.Min.Y() > a.Max.Y() || a.Min.Z() > a.Max.Z()
}

func (a AABB) Extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		a.Min[i] = math32.Min(a.Min[i], p[i])
		a.Max[i] = math32.Max(a.Max[i], p[i])
	}
	return a
}

func (a AABB) Union(b AABB) AABB {
	if b.IsEmpty() {
		return a
	}
	return a.Extend(b.Min).Extend(b.Max)
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

// Transformed returns the box enclosing a's eight corners mapped through m.
func (a AABB) Transformed(m mgl32.Mat4) AABB {
	if a.IsEmpty() {
		return a
	}
	out := EmptyAABB()
	for i := 0; i < 8; i++ {
		c := a.Min
		if i&1 != 0 {
			c[0] = a.Max.X()
		}
		if i&2 != 0 {
			c[1] = a.Max.Y()
		}
		if i&4 != 0 {
			c[2] = a.Max.Z()
		}
		out = out.Extend(m.Mul4x1(c.Vec4(1)).Vec3())
	}
	return out
}

// ShapeBounds returns the local-space box around a bounding shape.
func ShapeBounds(s engine.Shape) AABB {
	switch s.Kind {
	case engine.ShapeSphere:
		r := math32.Abs(s.Radius)
		return AABB{Min: mgl32.Vec3{-r, -r, -r}, Max: mgl32.Vec3{r, r, r}}
	default:
		half := mgl32.Vec3{math32.Abs(s.Size.X()), math32.Abs(s.Size.Y()), math32.Abs(s.Size.Z())}.Mul(0.5)
		return AABB{Min: half.Mul(-1), Max: half}
	}
}
