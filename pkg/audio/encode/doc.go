// ABOUTME: Audio encoder package for writing processed output
// ABOUTME: Provides a WAV writer for the offline processing path
// Package encode provides encoders for writing processed audio to disk.
//
// Currently supports WAV (16-bit PCM). The writer streams sample data and
// patches the RIFF sizes on Close, so the total length does not need to be
// known up front.
//
// Example:
//
//	w, err := encode.NewWAVWriter(f, format)
//	w.Write(pcmBytes)
//	w.Close()
package encode
