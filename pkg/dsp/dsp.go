// ABOUTME: Sample processor interface and processing chain
// ABOUTME: Lets pipeline stages be composed and swapped without touching the stream layer
package dsp

// Processor transforms one normalized sample at a time, keeping whatever
// internal state it needs between calls. Implementations must be called
// once per sample, in stream order.
type Processor interface {
	// Process transforms a single sample
	Process(sample float64) float64

	// Reset clears internal state for a fresh stream
	Reset()
}

// ProcessorFunc allows using a stateless function as a Processor.
type ProcessorFunc func(float64) float64

func (f ProcessorFunc) Process(sample float64) float64 {
	return f(sample)
}

func (f ProcessorFunc) Reset() {}

// Chain runs samples through a fixed sequence of processors, in order.
type Chain struct {
	stages []Processor
}

// NewChain creates a chain from the given stages
func NewChain(stages ...Processor) *Chain {
	return &Chain{stages: stages}
}

// Process runs one sample through every stage
func (c *Chain) Process(sample float64) float64 {
	for _, s := range c.stages {
		sample = s.Process(sample)
	}
	return sample
}

// Reset resets every stage in the chain
func (c *Chain) Reset() {
	for _, s := range c.stages {
		s.Reset()
	}
}

// Len returns the number of stages
func (c *Chain) Len() int {
	return len(c.stages)
}
