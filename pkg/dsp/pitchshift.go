// ABOUTME: Naive pitch shifter using a growing/draining delay buffer
// ABOUTME: Converts a rate change into a time delay, not a windowed resample
package dsp

import "fmt"

// PitchShift lowers or raises pitch by queueing samples and replaying them
// once the queue exceeds a fixed threshold of floor((1/ratio)*sampleRate)
// samples. Until the queue fills it emits silence, so a stream starts with
// exactly threshold silent samples. A ratio below 1 grows the queue (and
// the output latency); a ratio above 1 drains it. Both are inherent to the
// algorithm and left as-is.
type PitchShift struct {
	ratio     float64
	threshold int
	pending   []float64
}

// NewPitchShift creates a pitch shifter. ratio > 1 raises pitch, < 1 lowers it.
func NewPitchShift(ratio float64, sampleRate int) (*PitchShift, error) {
	if ratio <= 0 {
		return nil, fmt.Errorf("invalid pitch ratio: %v (must be > 0)", ratio)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d (must be > 0)", sampleRate)
	}

	return &PitchShift{
		ratio:     ratio,
		threshold: int(1.0 / ratio * float64(sampleRate)),
	}, nil
}

// Process queues one sample and returns the oldest queued sample once the
// queue is past the threshold, silence otherwise.
func (p *PitchShift) Process(sample float64) float64 {
	p.pending = append(p.pending, sample)
	if len(p.pending) > p.threshold {
		out := p.pending[0]
		p.pending = p.pending[1:]
		return out
	}
	return 0.0
}

// Reset discards all queued samples
func (p *PitchShift) Reset() {
	p.pending = nil
}

// Threshold returns the queue length at which output starts
func (p *PitchShift) Threshold() int {
	return p.threshold
}

// Pending returns the number of queued samples
func (p *PitchShift) Pending() int {
	return len(p.pending)
}
