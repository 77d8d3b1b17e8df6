package audio

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/go-gl/mathgl/mgl32"
)

// One oto context per process, shared by every Player.
var (
	otoContext     *oto.Context
	otoContextOnce sync.Once
	otoContextErr  error
)

func initOtoContext() (*oto.Context, error) {
	otoContextOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatFloat32LE,
		}
		var ready chan struct{}
		otoContext, ready, otoContextErr = oto.NewContext(op)
		if otoContextErr != nil {
			return
		}
		<-ready
	})
	return otoContext, otoContextErr
}

// Player fires cues at positions in the scene.
type Player struct {
	Volume      float32
	MaxDistance float32

	ctx *oto.Context
	log *slog.Logger

	mu     sync.Mutex
	active []*oto.Player
}

func NewPlayer(volume, maxDistance float32, log *slog.Logger) (*Player, error) {
	if log == nil {
		log = slog.Default()
	}
	ctx, err := initOtoContext()
	if err != nil {
		return nil, fmt.Errorf("audio: open output: %w", err)
	}
	log.Info("audio context initialized", "sample_rate", SampleRate)
	return &Player{Volume: volume, MaxDistance: maxDistance, ctx: ctx, log: log}, nil
}

// Play starts cue at pos as heard by l. Inaudible cues are skipped.
func (p *Player) Play(cue Cue, l Listener, pos mgl32.Vec3) {
	tone, ok := cueTones[cue]
	if !ok {
		return
	}
	gain, pan := Spatialize(l, pos, p.Volume, p.MaxDistance)
	if gain <= 0 {
		return
	}

	pl := p.ctx.NewPlayer(bytes.NewReader(Tone(tone.freq, tone.duration, gain, pan)))
	pl.Play()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = slices.DeleteFunc(p.active, func(old *oto.Player) bool {
		if old.IsPlaying() {
			return false
		}
		p.closePlayer(old)
		return true
	})
	p.active = append(p.active, pl)
}

func (p *Player) closePlayer(pl *oto.Player) {
	if err := pl.Close(); err != nil {
		p.log.Debug("close audio player", "err", err)
	}
}

// Close stops every cue still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pl := range p.active {
		p.closePlayer(pl)
	}
	p.active = nil
}
