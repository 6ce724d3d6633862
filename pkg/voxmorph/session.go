// ABOUTME: High-level Session API wrapping the transform pipeline
// ABOUTME: Builds the pitch and filter chain from a flat config
package voxmorph

import (
	"fmt"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
	"github.com/voxmorph/voxmorph-go/pkg/audio/stream"
	"github.com/voxmorph/voxmorph-go/pkg/dsp"
)

// Config holds session configuration
type Config struct {
	// SampleRate in Hz; 0 means 44100
	SampleRate int

	// PitchRatio shifts the voice down for ratios below 1.0
	PitchRatio float64

	// CutoffHz is the low-pass corner frequency
	CutoffHz float64

	// MaxBufferedBytes caps the output queue; 0 disables the cap and the
	// queue grows without bound when reads lag writes
	MaxBufferedBytes int
}

// Session is a duplex voice transform: feed captured PCM blocks in with
// Consume, pull transformed blocks out with Produce. Blocks are 16-bit
// little-endian mono PCM.
type Session struct {
	transform *stream.Transform
	format    audio.Format
}

// NewSession builds the pipeline and transform from config. The session
// starts closed; call Open before streaming.
func NewSession(config Config) (*Session, error) {
	format := audio.DefaultFormat
	if config.SampleRate != 0 {
		format.SampleRate = config.SampleRate
	}

	pitch, err := dsp.NewPitchShift(config.PitchRatio, format.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("voxmorph: %w", err)
	}
	lowpass, err := dsp.NewLowPass(config.CutoffHz, float64(format.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("voxmorph: %w", err)
	}

	transform, err := stream.New(stream.Config{
		Format:      format,
		Pipeline:    dsp.NewChain(pitch, lowpass),
		MaxBuffered: config.MaxBufferedBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("voxmorph: %w", err)
	}

	return &Session{transform: transform, format: format}, nil
}

// Open readies the session for streaming, resetting all pipeline state
func (s *Session) Open() {
	s.transform.Open()
}

// Close stops the session and discards queued output. A closed session can
// be reopened.
func (s *Session) Close() {
	s.transform.Close()
}

// Consume transforms one captured block and queues the result
func (s *Session) Consume(block []byte) error {
	return s.transform.Consume(block)
}

// Produce returns up to max queued output bytes
func (s *Session) Produce(max int) []byte {
	return s.transform.Produce(max)
}

// Available returns the number of queued output bytes
func (s *Session) Available() int {
	return s.transform.Available()
}

// Stats returns a snapshot of the session counters
func (s *Session) Stats() stream.Stats {
	return s.transform.Stats()
}

// Format returns the session's PCM format
func (s *Session) Format() audio.Format {
	return s.format
}

// Process transforms a complete PCM buffer in one call, opening a fresh
// session state and draining everything the pipeline emits. Convenient for
// file processing; live paths should use Consume and Produce.
func (s *Session) Process(pcm []byte) ([]byte, error) {
	s.transform.Open()
	if err := s.transform.Consume(pcm); err != nil {
		return nil, err
	}
	out := s.transform.Produce(s.transform.Available())
	s.transform.Close()
	return out, nil
}
