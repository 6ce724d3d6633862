// ABOUTME: DSP primitives package providing per-sample processors
// ABOUTME: Defines Processor interface, Chain, LowPass, and PitchShift
// Package dsp provides the per-sample processors used by the voice pipeline.
//
// Processors operate on normalized float64 samples (one call per sample,
// in stream order) and keep whatever state they need between calls:
//   - LowPass: single-pole IIR smoother
//   - PitchShift: naive delay-buffer pitch shifter
//   - Chain: runs samples through a fixed sequence of processors
//
// Example:
//
//	shift, _ := dsp.NewPitchShift(0.8, 44100)
//	lp, _ := dsp.NewLowPass(300.0, 44100)
//	pipeline := dsp.NewChain(shift, lp)
//	out := pipeline.Process(in)
package dsp
