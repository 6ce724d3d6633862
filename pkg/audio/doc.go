// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the Format descriptor and sample conversion functions
// Package audio provides fundamental audio types and utilities for the
// voice pipeline.
//
// This package defines the Format descriptor shared by every stage of the
// pipeline and the conversions between wire samples (signed 16-bit
// little-endian PCM) and the normalized float64 samples the DSP layer
// operates on.
//
// Example:
//
//	format := audio.Format{
//	    SampleRate: 44100,
//	    Channels:   1,
//	    BitDepth:   16,
//	}
//
//	v := audio.SampleToFloat(sample16) // [-1, 1)
//	s := audio.FloatToSample(v)        // rounded and clamped
package audio
