// Package audio plays short synthesized cues panned and attenuated by where
// they happen relative to the camera.
package audio

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"raypick/internal/camera"
)

// Listener represents the audio listener position and orientation
type Listener struct {
	Position mgl32.Vec3
	Forward  mgl32.Vec3
	Right    mgl32.Vec3
}

// ListenerFrom places the listener at the camera.
func ListenerFrom(cam *camera.Camera) Listener {
	l := Listener{Position: cam.Position}

	// Normalize forward, default to -Z if zero
	fwd := cam.Forward()
	if fwd.Len() > 0.001 {
		l.Forward = fwd.Normalize()
	} else {
		l.Forward = mgl32.Vec3{0, 0, -1}
	}

	right := l.Forward.Cross(cam.Up())
	if right.Len() > 0.001 {
		l.Right = right.Normalize()
	} else {
		l.Right = mgl32.Vec3{1, 0, 0}
	}
	return l
}

// Spatialize returns the gain and pan (0 full left, 0.5 centre, 1 full right)
// for a source at pos. Gain falls off linearly to zero at maxDistance and
// sounds behind the listener are slightly quieter.
func Spatialize(l Listener, pos mgl32.Vec3, volume, maxDistance float32) (gain, pan float32) {
	toSource := pos.Sub(l.Position)
	distance := toSource.Len()
	if distance >= maxDistance {
		return 0, 0.5
	}
	gain = volume * (1 - distance/maxDistance)
	pan = 0.5

	if distance > 0.001 {
		direction := toSource.Mul(1 / distance)
		pan = mgl32.Clamp(0.5+direction.Dot(l.Right)*0.5, 0, 1)

		if front := direction.Dot(l.Forward); front < 0 {
			gain *= 0.7 + 0.3*math32.Abs(front)
		}
	}
	return gain, pan
}
