// Package alert plays a short audio chirp when the zoomer's resolution
// limit is reached, so a user driving the zoom purely by eye also gets an
// audible cue to stop.
package alert

import (
	"io"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate = 44100
	duration   = 150 // ms
	toneHz     = 880
)

// Chirp owns one oto.Context and a pre-rendered sine-wave buffer. Limit
// fires playback asynchronously and returns immediately; it never blocks
// the scheduler that calls it.
type Chirp struct {
	ctx    *oto.Context
	buf    []byte
	mu     sync.Mutex
	player *oto.Player
}

// New opens the default audio device and pre-renders the chirp waveform.
func New() (*Chirp, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &Chirp{ctx: ctx, buf: renderSine()}, nil
}

func renderSine() []byte {
	n := sampleRate * duration / 1000
	samples := make([]float32, n)
	for i := range samples {
		t := float64(i) / sampleRate
		envelope := 1.0
		if i < n/10 {
			envelope = float64(i) / float64(n/10)
		} else if i > n-n/10 {
			envelope = float64(n-i) / float64(n/10)
		}
		samples[i] = float32(math.Sin(2*math.Pi*toneHz*t) * 0.5 * envelope)
	}
	buf := make([]byte, n*4)
	for i, s := range samples {
		bits := math.Float32bits(s)
		buf[i*4] = byte(bits)
		buf[i*4+1] = byte(bits >> 8)
		buf[i*4+2] = byte(bits >> 16)
		buf[i*4+3] = byte(bits >> 24)
	}
	return buf
}

// Limit plays the chirp once, fire-and-forget. Concurrent calls replace
// whichever playback is in flight rather than overlapping it.
func (c *Chirp) Limit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player != nil {
		c.player.Close()
	}
	c.player = c.ctx.NewPlayer(newByteReader(c.buf))
	c.player.Play()
}

// Close releases the underlying player, if any.
func (c *Chirp) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player != nil {
		c.player.Close()
		c.player = nil
	}
}

type byteReader struct {
	data []byte
	pos  int
}

func newByteReader(data []byte) *byteReader { return &byteReader{data: data} }

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
