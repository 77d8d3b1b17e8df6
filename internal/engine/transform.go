package engine

import "github.com/go-gl/mathgl/mgl32"

// Transform is a rigid 4x4 column-major matrix. Only rotations and translations
// are ever applied, so it always decomposes into translation + rotation.
type Transform struct {
	m mgl32.Mat4
}

func Identity() Transform {
	return Transform{m: mgl32.Ident4()}
}

// TranslationOf returns a transform that only moves by v.
func TranslationOf(v mgl32.Vec3) Transform {
	return Transform{m: mgl32.Translate3D(v.X(), v.Y(), v.Z())}
}

// Matrix returns the raw matrix. A zero Transform reads as identity.
func (t Transform) Matrix() mgl32.Mat4 {
	if t.m == (mgl32.Mat4{}) {
		return mgl32.Ident4()
	}
	return t.m
}

// Rotate composes an incremental rotation about axis (in local space) onto t.
// A zero axis is a no-op. The rotation block is re-orthonormalised after each
// step so float32 error cannot accumulate into skew.
func (t *Transform) Rotate(axis mgl32.Vec3, angle float32) {
	if angle == 0 || axis.Len() == 0 {
		return
	}
	t.m = orthonormalize(t.Matrix().Mul4(mgl32.HomogRotate3D(angle, axis.Normalize())))
}

// orthonormalize rebuilds the rotation columns of m with Gram-Schmidt,
// keeping the translation column.
func orthonormalize(m mgl32.Mat4) mgl32.Mat4 {
	x := mgl32.Vec3{m[0], m[1], m[2]}.Normalize()
	y := mgl32.Vec3{m[4], m[5], m[6]}
	y = y.Sub(x.Mul(x.Dot(y))).Normalize()
	z := x.Cross(y)

	m[0], m[1], m[2] = x.X(), x.Y(), x.Z()
	m[4], m[5], m[6] = y.X(), y.Y(), y.Z()
	m[8], m[9], m[10] = z.X(), z.Y(), z.Z()
	return m
}

// Translate moves t by v in world space. Only the translation column changes.
func (t *Transform) Translate(v mgl32.Vec3) {
	m := t.Matrix()
	m[12] += v.X()
	m[13] += v.Y()
	m[14] += v.Z()
	t.m = m
}

// Compose post-multiplies o onto t, so o is applied in t's local space.
func (t *Transform) Compose(o Transform) {
	t.m = t.Matrix().Mul4(o.Matrix())
}

func (t Transform) Translation() mgl32.Vec3 {
	m := t.Matrix()
	return mgl32.Vec3{m[12], m[13], m[14]}
}

func (t *Transform) SetTranslation(v mgl32.Vec3) {
	m := t.Matrix()
	m[12], m[13], m[14] = v.X(), v.Y(), v.Z()
	t.m = m
}

// Inverse returns the rigid inverse: transposed rotation, negated rotated translation.
func (t Transform) Inverse() Transform {
	m := t.Matrix()
	rt := m.Mat3().Transpose()
	p := rt.Mul3x1(mgl32.Vec3{m[12], m[13], m[14]}).Mul(-1)
	inv := rt.Mat4()
	inv[12], inv[13], inv[14] = p.X(), p.Y(), p.Z()
	return Transform{m: inv}
}

// Point maps a point through t.
func (t Transform) Point(p mgl32.Vec3) mgl32.Vec3 {
	return t.Matrix().Mul4x1(p.Vec4(1)).Vec3()
}

// Vector maps a direction through t, ignoring translation.
func (t Transform) Vector(v mgl32.Vec3) mgl32.Vec3 {
	return t.Matrix().Mul4x1(v.Vec4(0)).Vec3()
}

func (t Transform) ApproxEqual(o Transform, eps float32) bool {
	return t.Matrix().ApproxEqualThreshold(o.Matrix(), eps)
}
