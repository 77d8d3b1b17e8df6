package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"raypick/internal/engine"
)

// raycastAABB is a slab test. It returns the entry distance, or the exit
// distance when the origin is inside the box.
func raycastAABB(origin, dir mgl32.Vec3, box AABB, maxDistance float32) (float32, bool) {
	tmin := math32.Inf(-1)
	tmax := math32.Inf(1)

	for axis := 0; axis < 3; axis++ {
		if dir[axis] != 0 {
			t1 := (box.Min[axis] - origin[axis]) / dir[axis]
			t2 := (box.Max[axis] - origin[axis]) / dir[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
			if tmin > tmax {
				return 0, false
			}
		} else if origin[axis] < box.Min[axis] || origin[axis] > box.Max[axis] {
			return 0, false
		}
	}

	t := tmin
	if t < 0 {
		t = tmax
	}
	if t < 0 || t > maxDistance {
		return 0, false
	}
	return t, true
}

// raycastSphere intersects a sphere centred on the local origin.
func raycastSphere(origin, dir mgl32.Vec3, radius, maxDistance float32) (float32, bool) {
	a := dir.Dot(dir)
	if a == 0 {
		return 0, false
	}
	b := 2.0 * origin.Dot(dir)
	c := origin.Dot(origin) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	sq := math32.Sqrt(discriminant)
	t := (-b - sq) / (2 * a)
	if t < 0 {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 || t > maxDistance {
		return 0, false
	}
	return t, true
}

// raycastShape tests a ray already expressed in the shape's local space.
func raycastShape(origin, dir mgl32.Vec3, s engine.Shape, maxDistance float32) (float32, bool) {
	switch s.Kind {
	case engine.ShapeSphere:
		return raycastSphere(origin, dir, math32.Abs(s.Radius), maxDistance)
	default:
		return raycastAABB(origin, dir, ShapeBounds(s), maxDistance)
	}
}

// toLocal maps a world ray through the inverse of a rigid world matrix. Rigid
// maps preserve length, so distances found in local space are world distances.
func toLocal(world mgl32.Mat4, origin, dir mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	inv := world.Inv()
	return inv.Mul4x1(origin.Vec4(1)).Vec3(), inv.Mul4x1(dir.Vec4(0)).Vec3()
}
