// ABOUTME: Tests for the duplex streaming transform
// ABOUTME: Tests alignment rejection, FIFO order, state machine, and drop policy
package stream

import (
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
	"github.com/voxmorph/voxmorph-go/pkg/dsp"
)

func identityTransform(t *testing.T, maxBuffered int) *Transform {
	t.Helper()

	tr, err := New(Config{
		Format:      audio.DefaultFormat,
		Pipeline:    dsp.ProcessorFunc(func(x float64) float64 { return x }),
		MaxBuffered: maxBuffered,
	})
	if err != nil {
		t.Fatalf("failed to create transform: %v", err)
	}
	return tr
}

func pcmBytes(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestNewInvalidConfig(t *testing.T) {
	identity := dsp.ProcessorFunc(func(x float64) float64 { return x })

	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad format", Config{Format: audio.Format{SampleRate: 0, Channels: 1, BitDepth: 16}, Pipeline: identity}},
		{"stereo format", Config{Format: audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16}, Pipeline: identity}},
		{"nil pipeline", Config{Format: audio.DefaultFormat}},
		{"negative cap", Config{Format: audio.DefaultFormat, Pipeline: identity, MaxBuffered: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}

func TestConsumeMisaligned(t *testing.T) {
	tr := identityTransform(t, 0)
	tr.Open()

	if err := tr.Consume(pcmBytes(100, 200)); err != nil {
		t.Fatalf("aligned consume failed: %v", err)
	}
	before := tr.Stats()

	err := tr.Consume([]byte{0x01, 0x02, 0x03})
	if !errors.Is(err, ErrBadFormat) {
		t.Fatalf("expected ErrBadFormat, got %v", err)
	}

	// A rejected block must not mutate any state
	after := tr.Stats()
	if after != before {
		t.Errorf("stats changed after rejected block: %+v -> %+v", before, after)
	}
	if tr.Available() != 4 {
		t.Errorf("expected queue length 4, got %d", tr.Available())
	}
}

func TestConsumeEmptyIsNoOp(t *testing.T) {
	tr := identityTransform(t, 0)
	tr.Open()

	if err := tr.Consume(nil); err != nil {
		t.Errorf("expected nil error for empty block, got %v", err)
	}
	if tr.Available() != 0 {
		t.Errorf("expected empty queue, got %d bytes", tr.Available())
	}
}

func TestProduceNeverOverReturns(t *testing.T) {
	tr := identityTransform(t, 0)
	tr.Open()

	if err := tr.Consume(pcmBytes(1, 2, 3, 4)); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	if out := tr.Produce(3); len(out) != 3 {
		t.Errorf("expected 3 bytes, got %d", len(out))
	}
	if out := tr.Produce(100); len(out) != 5 {
		t.Errorf("expected remaining 5 bytes, got %d", len(out))
	}
	if out := tr.Produce(100); out != nil {
		t.Errorf("expected nil from empty queue, got %d bytes", len(out))
	}
}

func TestProduceDrainsInOrder(t *testing.T) {
	tr := identityTransform(t, 0)
	tr.Open()

	want := pcmBytes(10, -20, 30, -40, 50, -60)
	if err := tr.Consume(want[:4]); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if err := tr.Consume(want[4:]); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	// Drain in odd chunk sizes; byte order must match append order exactly
	var got []byte
	for tr.Available() > 0 {
		got = append(got, tr.Produce(5)...)
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: expected %#x, got %#x", i, want[i], got[i])
		}
	}
}

func TestClosedBehavior(t *testing.T) {
	tr := identityTransform(t, 0)

	// Never opened: write path rejected, read path yields nothing
	if err := tr.Consume(pcmBytes(1)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed before open, got %v", err)
	}
	if out := tr.Produce(10); out != nil {
		t.Errorf("expected nil produce before open, got %d bytes", len(out))
	}

	tr.Open()
	if err := tr.Consume(pcmBytes(1, 2)); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	tr.Close()
	if err := tr.Consume(pcmBytes(3)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}
	if out := tr.Produce(10); out != nil {
		t.Errorf("expected nil produce after close, got %d bytes", len(out))
	}
	if tr.Available() != 0 {
		t.Errorf("expected queue discarded on close, got %d bytes", tr.Available())
	}

	// Close is idempotent
	tr.Close()
}

func TestReopenResetsState(t *testing.T) {
	shifter, err := dsp.NewPitchShift(2.0, 10)
	if err != nil {
		t.Fatalf("failed to create shifter: %v", err)
	}

	tr, err := New(Config{Format: audio.DefaultFormat, Pipeline: shifter})
	if err != nil {
		t.Fatalf("failed to create transform: %v", err)
	}

	tr.Open()
	if err := tr.Consume(pcmBytes(1000, 2000, 3000)); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	tr.Close()
	tr.Open()

	if shifter.Pending() != 0 {
		t.Error("expected pipeline reset on reopen")
	}
	if tr.Available() != 0 {
		t.Errorf("expected fresh queue on reopen, got %d bytes", tr.Available())
	}
	if tr.Stats().BytesIn != 0 {
		t.Error("expected fresh stats on reopen")
	}
}

func TestOpenIdempotent(t *testing.T) {
	tr := identityTransform(t, 0)
	tr.Open()

	if err := tr.Consume(pcmBytes(7, 8)); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	// A second open while already open must not discard queued output
	tr.Open()
	if tr.Available() != 4 {
		t.Errorf("expected queue preserved across redundant open, got %d bytes", tr.Available())
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	// Identity settings: a pitch ratio large enough for a zero threshold
	// and a cutoff high enough that alpha is effectively 1
	shifter, err := dsp.NewPitchShift(100000, 44100)
	if err != nil {
		t.Fatalf("failed to create shifter: %v", err)
	}
	if shifter.Threshold() != 0 {
		t.Fatalf("expected threshold 0, got %d", shifter.Threshold())
	}
	filter, err := dsp.NewLowPass(1e9, 44100)
	if err != nil {
		t.Fatalf("failed to create filter: %v", err)
	}

	tr, err := New(Config{
		Format:   audio.DefaultFormat,
		Pipeline: dsp.NewChain(shifter, filter),
	})
	if err != nil {
		t.Fatalf("failed to create transform: %v", err)
	}
	tr.Open()

	input := []int16{0, 1000, -1000, 12345, -12345, 32767, -32768}
	if err := tr.Consume(pcmBytes(input...)); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	out := tr.Produce(len(input) * 2)
	if len(out) != len(input)*2 {
		t.Fatalf("expected %d bytes, got %d", len(input)*2, len(out))
	}

	for i, want := range input {
		got := int16(binary.LittleEndian.Uint16(out[i*2:]))
		diff := int(got) - int(want)
		if diff < -1 || diff > 1 {
			t.Errorf("sample %d: expected %d within 1 LSB, got %d", i, want, got)
		}
	}
}

func TestVoiceSessionScenario(t *testing.T) {
	// Session at 44100 Hz, ratio 0.8, cutoff 300 Hz. The shifter threshold
	// (55125) exceeds the block, so a 4096-sample block sits entirely in
	// the startup fill: the output is exactly 4096 samples, all silent.
	shifter, err := dsp.NewPitchShift(0.8, 44100)
	if err != nil {
		t.Fatalf("failed to create shifter: %v", err)
	}
	filter, err := dsp.NewLowPass(300.0, 44100)
	if err != nil {
		t.Fatalf("failed to create filter: %v", err)
	}

	tr, err := New(Config{
		Format:   audio.DefaultFormat,
		Pipeline: dsp.NewChain(shifter, filter),
	})
	if err != nil {
		t.Fatalf("failed to create transform: %v", err)
	}
	tr.Open()

	// Unit impulse followed by silence
	block := make([]byte, 8192)
	binary.LittleEndian.PutUint16(block, uint16(int16(32767)))
	if err := tr.Consume(block); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	var out []byte
	for tr.Available() > 0 {
		out = append(out, tr.Produce(1000)...)
	}

	if len(out) != 8192 {
		t.Fatalf("expected 8192 bytes (4096 samples), got %d", len(out))
	}
	for i := 0; i < len(out); i += 2 {
		v := audio.SampleToFloat(int16(binary.LittleEndian.Uint16(out[i:])))
		if v < -1.0 || v > 1.0 {
			t.Fatalf("sample %d out of range: %v", i/2, v)
		}
		if v != 0.0 {
			t.Fatalf("sample %d: expected startup silence, got %v", i/2, v)
		}
	}
}

func TestImpulseResponseSmallThreshold(t *testing.T) {
	// A small threshold lets the impulse emerge from the shifter so the
	// filter's response is observable: alpha*(1-alpha)^k after the delay
	const rate = 100
	shifter, err := dsp.NewPitchShift(10.0, rate)
	if err != nil {
		t.Fatalf("failed to create shifter: %v", err)
	}
	threshold := shifter.Threshold() // floor(100/10) = 10
	filter, err := dsp.NewLowPass(5.0, rate)
	if err != nil {
		t.Fatalf("failed to create filter: %v", err)
	}
	alpha := filter.Alpha()

	tr, err := New(Config{
		Format:   audio.Format{SampleRate: rate, Channels: 1, BitDepth: 16},
		Pipeline: dsp.NewChain(shifter, filter),
	})
	if err != nil {
		t.Fatalf("failed to create transform: %v", err)
	}
	tr.Open()

	const samples = 40
	block := make([]byte, samples*2)
	binary.LittleEndian.PutUint16(block, uint16(int16(32767)))
	if err := tr.Consume(block); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	out := tr.Produce(samples * 2)
	if len(out) != samples*2 {
		t.Fatalf("expected %d bytes, got %d", samples*2, len(out))
	}

	impulse := 32767.0 / 32768.0
	decay := 0.0
	for i := 0; i < samples; i++ {
		got := int16(binary.LittleEndian.Uint16(out[i*2:]))

		var want float64
		switch {
		case i < threshold:
			want = 0.0
		case i == threshold:
			decay = alpha * impulse
			want = decay
		default:
			decay += alpha * (0.0 - decay)
			want = decay
		}

		wantSample := audio.FloatToSample(want)
		diff := int(got) - int(wantSample)
		if diff < -1 || diff > 1 {
			t.Fatalf("sample %d: expected %d within 1 LSB, got %d", i, wantSample, got)
		}
	}
}

func TestDropOldestPolicy(t *testing.T) {
	tr := identityTransform(t, 6)
	tr.Open()

	if err := tr.Consume(pcmBytes(1, 2, 3)); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	// 6 bytes queued, at the cap; the next block pushes out the oldest
	if err := tr.Consume(pcmBytes(4)); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	if tr.Available() != 6 {
		t.Errorf("expected queue capped at 6 bytes, got %d", tr.Available())
	}
	if got := tr.Stats().DroppedBytes; got != 2 {
		t.Errorf("expected 2 dropped bytes, got %d", got)
	}

	// Head of the queue is now sample 2; sample 1 was dropped
	out := tr.Produce(2)
	if got := int16(binary.LittleEndian.Uint16(out)); got != 2 {
		t.Errorf("expected oldest surviving sample 2, got %d", got)
	}
}

func TestConcurrentConsumeProduce(t *testing.T) {
	tr := identityTransform(t, 0)
	tr.Open()

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		block := pcmBytes(1, 2, 3, 4, 5, 6, 7, 8)
		for i := 0; i < 500; i++ {
			if err := tr.Consume(block); err != nil && !errors.Is(err, ErrClosed) {
				t.Errorf("consume failed: %v", err)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			out := tr.Produce(12)
			if len(out) > 12 {
				t.Errorf("produce over-returned: %d bytes", len(out))
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			tr.Available()
			tr.Stats()
		}
	}()

	wg.Wait()
	tr.Close()
}

func TestReaderSilenceFill(t *testing.T) {
	tr := identityTransform(t, 0)
	tr.Open()

	if err := tr.Consume(pcmBytes(100, 200)); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	r := tr.Reader()
	buf := make([]byte, 8)
	for i := range buf {
		buf[i] = 0xFF
	}

	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n != 8 {
		t.Errorf("expected full read of 8, got %d", n)
	}

	// First two samples are real output, the rest is silence
	if got := int16(binary.LittleEndian.Uint16(buf)); got != 100 {
		t.Errorf("expected sample 100, got %d", got)
	}
	for i := 4; i < 8; i++ {
		if buf[i] != 0 {
			t.Errorf("byte %d: expected silence fill, got %#x", i, buf[i])
		}
	}
}

func TestReaderEOFAfterClose(t *testing.T) {
	tr := identityTransform(t, 0)
	tr.Open()
	r := tr.Reader()
	tr.Close()

	if _, err := r.Read(make([]byte, 4)); err == nil {
		t.Error("expected EOF after close")
	}
}
