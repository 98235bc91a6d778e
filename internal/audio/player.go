//go:build !headless

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"nesdot/internal/logger"
)

// Player streams queued samples to the sound card. Missing samples are
// played as silence.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	src    Source
	taps   []Sink

	mu      sync.Mutex
	buf     []float32
	started bool
	under   uint64
}

// NewPlayer opens the audio device for mono float samples.
func NewPlayer(src Source, sampleRate int, bufferSize time.Duration) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	p := &Player{ctx: ctx, src: src}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Tap forwards everything played to sink as well, for recording.
func (p *Player) Tap(sink Sink) {
	p.mu.Lock()
	p.taps = append(p.taps, sink)
	p.mu.Unlock()
}

// Read implements io.Reader for oto. It never blocks.
func (p *Player) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	want := len(b) / 4
	if cap(p.buf) < want {
		p.buf = make([]float32, want)
	}
	samples := p.buf[:want]

	n, err := Pump(p.src, samples, p.taps...)
	if err != nil {
		logger.Logf("AUDIO", "tap: %v", err)
	}
	if n < want && p.started {
		p.under++
	}
	for i := n; i < want; i++ {
		samples[i] = 0
	}
	for i, s := range samples {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(s))
	}
	return want * 4, nil
}

// SetVolume sets the output gain in [0, 1].
func (p *Player) SetVolume(volume float64) {
	p.player.SetVolume(max(0, min(1, volume)))
}

// Start begins playback.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		p.player.Play()
		p.started = true
	}
}

// Underruns returns how many device reads found the queue short.
func (p *Player) Underruns() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.under
}

// Close stops playback.
func (p *Player) Close() error {
	p.mu.Lock()
	p.started = false
	p.mu.Unlock()
	return p.player.Close()
}
