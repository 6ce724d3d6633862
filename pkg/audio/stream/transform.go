// ABOUTME: Duplex streaming transform between capture and playback
// ABOUTME: Consumes raw PCM blocks, transforms per sample, queues output bytes
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
	"github.com/voxmorph/voxmorph-go/pkg/dsp"
)

var (
	// ErrClosed is returned when writing to a transform that is not open
	ErrClosed = errors.New("stream: transform is closed")

	// ErrBadFormat is returned when a consumed block is not aligned to the
	// sample stride
	ErrBadFormat = errors.New("stream: misaligned block")
)

// Config holds transform configuration
type Config struct {
	// Format is the fixed session format (mono 16-bit little-endian)
	Format audio.Format

	// Pipeline is the per-sample transform applied between decode and encode
	Pipeline dsp.Processor

	// MaxBuffered caps the output queue in bytes. When a Consume would push
	// the queue past the cap, the oldest queued output is dropped (rounded
	// up to whole samples) and counted in Stats. Zero disables the cap and
	// lets the queue grow without bound.
	MaxBuffered int
}

// Stats is a snapshot of transform counters
type Stats struct {
	BytesIn      int64
	BytesOut     int64
	Samples      int64
	DroppedBytes int64
	Buffered     int
}

// Transform is the duplex block processor. The write path (Consume) and the
// read path (Produce) share one instance and may run on different
// goroutines; a single mutex covers every call. Closed -> Open -> Closed,
// re-openable.
type Transform struct {
	mu    sync.Mutex
	cfg   Config
	open  bool
	queue []byte
	stats Stats
}

// New creates a transform. Configuration errors are fatal to the session
// and never partially applied.
func New(cfg Config) (*Transform, error) {
	if err := cfg.Format.Validate(); err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}
	if cfg.Pipeline == nil {
		return nil, errors.New("stream: nil pipeline")
	}
	if cfg.MaxBuffered < 0 {
		return nil, fmt.Errorf("stream: invalid buffer cap: %d", cfg.MaxBuffered)
	}

	return &Transform{cfg: cfg}, nil
}

// Open readies the transform for a fresh session: empty output queue,
// pipeline state reset. Idempotent while already open.
func (t *Transform) Open() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.open {
		return
	}

	t.cfg.Pipeline.Reset()
	t.queue = nil
	t.stats = Stats{}
	t.open = true
}

// Close discards the output queue and rejects subsequent writes. Safe to
// call concurrently with in-flight Consume/Produce calls and while already
// closed.
func (t *Transform) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.open = false
	t.queue = nil
}

// IsOpen reports whether the transform accepts data
func (t *Transform) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open
}

// Consume decodes a raw PCM block, runs every sample through the pipeline,
// and appends the encoded result to the output queue. The block length must
// be a multiple of the sample stride; misaligned blocks are rejected before
// any state mutates. A zero-length block is a successful no-op. Never
// blocks; cost is proportional to the block size.
func (t *Transform) Consume(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.open {
		return ErrClosed
	}

	stride := t.cfg.Format.Stride()
	if len(data)%stride != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte sample stride",
			ErrBadFormat, len(data), stride)
	}
	if len(data) == 0 {
		return nil
	}

	out := make([]byte, len(data))
	for i := 0; i < len(data); i += stride {
		in := int16(binary.LittleEndian.Uint16(data[i:]))
		v := t.cfg.Pipeline.Process(audio.SampleToFloat(in))
		binary.LittleEndian.PutUint16(out[i:], uint16(audio.FloatToSample(v)))
	}

	t.queue = append(t.queue, out...)
	t.stats.BytesIn += int64(len(data))
	t.stats.Samples += int64(len(data) / stride)

	if t.cfg.MaxBuffered > 0 && len(t.queue) > t.cfg.MaxBuffered {
		drop := len(t.queue) - t.cfg.MaxBuffered
		// Drop whole samples so the queue never desyncs mid-sample
		if rem := drop % stride; rem != 0 {
			drop += stride - rem
		}
		t.queue = t.queue[drop:]
		t.stats.DroppedBytes += int64(drop)
	}

	return nil
}

// Produce removes and returns up to max bytes from the head of the output
// queue, in the exact order Consume appended them. An empty queue or a
// closed transform yields nil ("no data yet", not end-of-stream). Never
// blocks, never over-returns.
func (t *Transform) Produce(max int) []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.open || max <= 0 || len(t.queue) == 0 {
		return nil
	}

	n := max
	if n > len(t.queue) {
		n = len(t.queue)
	}

	out := make([]byte, n)
	copy(out, t.queue)
	t.queue = t.queue[n:]
	t.stats.BytesOut += int64(n)

	return out
}

// Available returns the current output queue length in bytes
func (t *Transform) Available() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

// Stats returns a snapshot of the transform counters
func (t *Transform) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stats
	s.Buffered = len(t.queue)
	return s
}

// Format returns the fixed session format
func (t *Transform) Format() audio.Format {
	return t.cfg.Format
}
