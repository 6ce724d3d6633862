// ABOUTME: High-level Voxmorph library API
// ABOUTME: Provides a simple Session API for embedding the voice transform
// Package voxmorph provides a high-level API for the Voxmorph voice
// transform.
//
// This is the main entry point for library users, providing:
//   - Session: a block-oriented duplex voice transform
//   - Process: one-shot batch transformation of PCM buffers
//
// For lower-level control, see the audio, audio/stream, and dsp packages.
//
// Example:
//
//	session, err := voxmorph.NewSession(voxmorph.Config{
//	    SampleRate: 44100,
//	    PitchRatio: 0.8,
//	    CutoffHz:   300,
//	})
//	session.Open()
//	err = session.Consume(micBlock)
//	out := session.Produce(len(speakerBlock))
package voxmorph
