// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts file audio to the session sample rate
// Package resample provides sample rate conversion for the offline path.
//
// Uses linear interpolation for converting between sample rates. Handles
// both upsampling and downsampling of interleaved int16 PCM.
//
// Example:
//
//	r := resample.New(48000, 44100, 1)
//	n := r.Resample(input, output)
package resample
