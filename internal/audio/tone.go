package audio

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/chewxy/math32"
)

const (
	SampleRate    = 44100
	channelCount  = 2
	bytesPerFrame = channelCount * 4 // float32 LE per channel
)

// Cue is a named sound effect.
type Cue uint8

const (
	CueClick Cue = iota
	CueEscape
	CueGameOver
)

type toneShape struct {
	freq     float32
	duration time.Duration
}

var cueTones = map[Cue]toneShape{
	CueClick:    {freq: 880, duration: 120 * time.Millisecond},
	CueEscape:   {freq: 220, duration: 250 * time.Millisecond},
	CueGameOver: {freq: 440, duration: 600 * time.Millisecond},
}

func (c Cue) String() string {
	switch c {
	case CueClick:
		return "click"
	case CueEscape:
		return "escape"
	case CueGameOver:
		return "game_over"
	}
	return "unknown"
}

// Tone renders a decaying sine as interleaved stereo float32 LE frames.
// Channels use constant-power panning.
func Tone(freq float32, d time.Duration, gain, pan float32) []byte {
	frames := int(d.Seconds() * SampleRate)
	buf := make([]byte, frames*bytesPerFrame)

	left := gain * math32.Cos(pan*math32.Pi/2)
	right := gain * math32.Sin(pan*math32.Pi/2)
	decay := 5 / float32(max(frames, 1))

	for i := range frames {
		s := math32.Sin(2*math32.Pi*freq*float32(i)/SampleRate) * math32.Exp(-decay*float32(i))
		writeFloat32LE(buf[i*bytesPerFrame:], s*left)
		writeFloat32LE(buf[i*bytesPerFrame+4:], s*right)
	}
	return buf
}

func writeFloat32LE(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}
