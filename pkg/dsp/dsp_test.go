// ABOUTME: Tests for the processor chain
// ABOUTME: Tests stage ordering, reset fan-out, and function adapters
package dsp

import "testing"

func TestChainOrder(t *testing.T) {
	// (x + 1) * 2, not (x * 2) + 1
	add := ProcessorFunc(func(x float64) float64 { return x + 1 })
	double := ProcessorFunc(func(x float64) float64 { return x * 2 })

	c := NewChain(add, double)
	if got := c.Process(3.0); got != 8.0 {
		t.Errorf("expected 8.0, got %v", got)
	}
}

func TestChainEmpty(t *testing.T) {
	c := NewChain()
	if got := c.Process(0.5); got != 0.5 {
		t.Errorf("expected identity for empty chain, got %v", got)
	}
	if c.Len() != 0 {
		t.Errorf("expected 0 stages, got %d", c.Len())
	}
}

func TestChainReset(t *testing.T) {
	p, err := NewPitchShift(2.0, 10)
	if err != nil {
		t.Fatalf("failed to create shifter: %v", err)
	}
	f, err := NewLowPass(300.0, 44100)
	if err != nil {
		t.Fatalf("failed to create filter: %v", err)
	}

	c := NewChain(p, f)
	for i := 0; i < 20; i++ {
		c.Process(1.0)
	}

	c.Reset()

	if p.Pending() != 0 {
		t.Error("expected chain reset to reach the shifter")
	}
	if out := f.Process(0.0); out != 0.0 {
		t.Errorf("expected chain reset to reach the filter, got %v", out)
	}
}

func TestVoicePipeline(t *testing.T) {
	// The live pipeline: shifter feeds the filter, in that order
	p, err := NewPitchShift(2.0, 4)
	if err != nil {
		t.Fatalf("failed to create shifter: %v", err)
	}
	f, err := NewLowPass(300.0, 44100)
	if err != nil {
		t.Fatalf("failed to create filter: %v", err)
	}

	c := NewChain(p, f)

	// Reference recurrence run against the same inputs
	alpha := f.Alpha()
	threshold := p.Threshold()
	var queue []float64
	prev := 0.0

	input := []float64{0.1, -0.2, 0.3, -0.4, 0.5, -0.6, 0.7, -0.8}
	for i, x := range input {
		got := c.Process(x)

		queue = append(queue, x)
		shifted := 0.0
		if len(queue) > threshold {
			shifted = queue[0]
			queue = queue[1:]
		}
		want := prev + alpha*(shifted-prev)
		prev = want

		if got != want {
			t.Fatalf("step %d: expected %v, got %v", i, want, got)
		}
	}
}
