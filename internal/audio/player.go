package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tricky-turns/internal/core"
)

// DefaultSampleRate is the output rate of the speaker.
const DefaultSampleRate = beep.SampleRate(44100)

// Player mixes sound cues into the system speaker. Until Init succeeds
// every cue is dropped, so a machine without audio still plays silently.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	volume      float64
	muted       bool
	initialized bool
}

// NewPlayer creates a player. Volume is linear, 1 is unchanged.
func NewPlayer(volume float64, muted bool) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		rate:   DefaultSampleRate,
		volume: volume,
		muted:  muted,
	}
}

// Init opens the speaker and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: cannot open speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play implements core.Audio. It never blocks on the device.
func (p *Player) Play(s core.Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return
	}
	st := Effect(s, p.rate, p.volume)
	if st == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(st)
	speaker.Unlock()
}

// Muted reports whether cues are dropped.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// SetMuted switches sound off or on. Muting also cuts cues in flight.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.muted = muted
	if muted && p.initialized {
		speaker.Lock()
		p.mixer.Clear()
		speaker.Unlock()
	}
}

// ToggleMute flips the mute switch and returns the new state.
func (p *Player) ToggleMute() bool {
	muted := !p.Muted()
	p.SetMuted(muted)
	return muted
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

var _ core.Audio = (*Player)(nil)
