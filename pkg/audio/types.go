// ABOUTME: Audio format descriptor and sample conversion helpers
// ABOUTME: Defines the PCM contract shared by capture, transform, and playback
package audio

import (
	"fmt"
	"math"
)

const (
	// 16-bit sample range
	MaxSample = 32767
	MinSample = -32768
)

// Format describes a PCM stream format. Samples are signed little-endian
// integers; every buffer exchanged with the transform is an integral
// multiple of Stride() bytes. Fixed for the lifetime of a session.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat is the session format the live changer uses
var DefaultFormat = Format{
	SampleRate: 44100,
	Channels:   1,
	BitDepth:   16,
}

// Stride returns bytes per one channel-sample unit
func (f Format) Stride() int {
	return f.BitDepth / 8 * f.Channels
}

// Validate checks that the format is one the transform supports
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d (must be > 0)", f.SampleRate)
	}
	if f.Channels != 1 {
		return fmt.Errorf("unsupported channel count: %d (supported: 1)", f.Channels)
	}
	if f.BitDepth != 16 {
		return fmt.Errorf("unsupported bit depth: %d (supported: 16)", f.BitDepth)
	}
	return nil
}

// BytesPerSecond returns the raw PCM data rate for the format
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.Stride()
}

// SampleToFloat normalizes a 16-bit sample into [-1, 1)
func SampleToFloat(sample int16) float64 {
	return float64(sample) / 32768.0
}

// FloatToSample converts a normalized value back to a 16-bit sample,
// rounding and clamping. The DSP math does not guarantee [-1, 1], so the
// clamp is required to avoid wraparound on hot signals.
func FloatToSample(value float64) int16 {
	scaled := math.Round(value * 32767.0)
	if scaled > MaxSample {
		return MaxSample
	}
	if scaled < MinSample {
		return MinSample
	}
	return int16(scaled)
}
