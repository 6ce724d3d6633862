// ABOUTME: Audio file decoder package for the offline processing path
// ABOUTME: Provides Source interface and MP3, FLAC, WAV, raw PCM readers
// Package decode provides file decoders for the offline processing mode.
//
// Supports: MP3, FLAC, WAV (16-bit PCM), raw 16-bit PCM.
//
// All sources yield interleaved int16 samples at their native rate and
// channel count; Downmix folds multi-channel audio to the mono stream the
// transform expects.
//
// Example:
//
//	src, err := decode.Open("voice.mp3")
//	buf := make([]int16, 4096)
//	n, err := src.Read(buf)
//	mono := decode.Downmix(buf[:n], src.Channels())
package decode
