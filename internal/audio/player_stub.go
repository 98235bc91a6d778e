//go:build headless

package audio

import (
	"errors"
	"time"
)

// ErrNoDevice is returned by NewPlayer in headless builds.
var ErrNoDevice = errors.New("audio playback not available in headless build")

// Player is unavailable in headless builds.
type Player struct{}

func NewPlayer(src Source, sampleRate int, bufferSize time.Duration) (*Player, error) {
	return nil, ErrNoDevice
}

func (p *Player) Tap(sink Sink) {}
func (p *Player) SetVolume(volume float64) {}
func (p *Player) Start() {}
func (p *Player) Underruns() uint64 { return 0 }
func (p *Player) Close() error { return nil }
