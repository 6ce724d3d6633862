// ABOUTME: Single-pole IIR low-pass filter
// ABOUTME: Smooths a sample stream using one prior output value
package dsp

import (
	"fmt"
	"math"
)

// LowPass is a single-pole IIR low-pass filter. The smoothing coefficient
// is derived once from the cutoff frequency; only the previous output
// mutates during processing.
type LowPass struct {
	alpha float64
	prev  float64
}

// NewLowPass creates a low-pass filter for the given cutoff frequency
func NewLowPass(cutoffHz, sampleRate float64) (*LowPass, error) {
	if cutoffHz <= 0 {
		return nil, fmt.Errorf("invalid cutoff frequency: %v (must be > 0)", cutoffHz)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %v (must be > 0)", sampleRate)
	}

	rc := 1.0 / (2 * math.Pi * cutoffHz)

	return &LowPass{
		alpha: 1.0 / (rc*sampleRate + 1.0),
	}, nil
}

// Process filters one sample. Must be called once per sample, in stream
// order; skipping or reordering samples corrupts the time response.
func (f *LowPass) Process(sample float64) float64 {
	out := f.prev + f.alpha*(sample-f.prev)
	f.prev = out
	return out
}

// Reset clears the filter history
func (f *LowPass) Reset() {
	f.prev = 0
}

// Alpha returns the smoothing coefficient
func (f *LowPass) Alpha() float64 {
	return f.alpha
}
