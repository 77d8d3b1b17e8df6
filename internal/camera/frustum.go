package camera

import "github.com/go-gl/mathgl/mgl32"

// Frustum represents the 6 planes of a view frustum for culling
type Frustum struct {
	planes [6]Plane // left, right, bottom, top, near, far
}

// Plane represents a plane in 3D space (ax + by + cz + d = 0)
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Frustum extracts the camera's frustum planes from projection*view
// (Gribb/Hartmann). Plane normals point inwards.
func (c *Camera) Frustum() Frustum {
	vp := c.ViewProjection()
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.planes[0] = planeOf(r3.Add(r0))
	f.planes[1] = planeOf(r3.Sub(r0))
	f.planes[2] = planeOf(r3.Add(r1))
	f.planes[3] = planeOf(r3.Sub(r1))
	f.planes[4] = planeOf(r3.Add(r2))
	f.planes[5] = planeOf(r3.Sub(r2))
	return f
}

// planeOf normalizes a plane equation
func planeOf(v mgl32.Vec4) Plane {
	p := Plane{Normal: v.Vec3(), Distance: v.W()}
	length := p.Normal.Len()
	if length == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1 / length), Distance: p.Distance / length}
}

// ContainsSphere tests if a sphere is inside or intersects the frustum
func (f *Frustum) ContainsSphere(center mgl32.Vec3, radius float32) bool {
	for i := range f.planes {
		// If sphere is completely behind any plane, it's outside
		if f.planes[i].Normal.Dot(center)+f.planes[i].Distance < -radius {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum
func (f *Frustum) ContainsPoint(point mgl32.Vec3) bool {
	for i := range f.planes {
		if f.planes[i].Normal.Dot(point)+f.planes[i].Distance < 0 {
			return false
		}
	}
	return true
}
