package display

import (
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"raypick/internal/camera"
	"raypick/internal/engine"
)

// toMatrix converts a column-major mgl32 matrix to raylib's layout. Both store
// columns contiguously, so elements map one to one.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M4: m[4], M8: m[8], M12: m[12],
		M1: m[1], M5: m[5], M9: m[9], M13: m[13],
		M2: m[2], M6: m[6], M10: m[10], M14: m[14],
		M3: m[3], M7: m[7], M11: m[11], M15: m[15],
	}
}

func toVector3(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// toColor converts 0xRRGGBB to an opaque raylib colour.
func toColor(rgb uint32) rl.Color {
	return rl.NewColor(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb), 255)
}

// shade adds the emissive term to the base colour, saturating per channel.
func shade(mat engine.Material) uint32 {
	var out uint32
	for shift := 16; shift >= 0; shift -= 8 {
		c := (mat.Color>>shift)&0xff + (mat.Emissive>>shift)&0xff
		if c > 0xff {
			c = 0xff
		}
		out |= c << shift
	}
	return out
}

func toCamera3D(cam *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   toVector3(cam.Position),
		Target:     toVector3(cam.Target()),
		Up:         toVector3(cam.Up()),
		Fovy:       cam.FovY,
		Projection: rl.CameraPerspective,
	}
}
