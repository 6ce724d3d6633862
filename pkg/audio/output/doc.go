// ABOUTME: Audio playback backends for the split live mode
// ABOUTME: Provides oto, malgo, and PortAudio implementations of Output
// Package output provides playback backends that pull PCM from a reader.
//
// Backends:
//   - Oto: default cross-platform playback via ebitengine/oto
//   - Malgo: miniaudio playback with a pull callback
//   - PortAudio: optional, behind the "portaudio" build tag
//
// A backend pulls 16-bit little-endian PCM from the supplied io.Reader on
// its own schedule; the reader is expected to substitute silence when no
// data is buffered (see stream.Reader).
package output
