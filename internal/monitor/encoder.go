// ABOUTME: Opus audio encoder for bandwidth-efficient monitor streaming
// ABOUTME: Wraps libopus to encode PCM frames to Opus packets
package monitor

import (
	"fmt"
	"log"

	"gopkg.in/hraban/opus.v2"
)

// OpusEncoder wraps the Opus encoder
type OpusEncoder struct {
	encoder    *opus.Encoder
	sampleRate int
	channels   int
	frameSize  int // samples per channel per frame
}

// opusRates are the sample rates libopus accepts
var opusRates = map[int]bool{
	8000:  true,
	12000: true,
	16000: true,
	24000: true,
	48000: true,
}

// OpusSupportsRate reports whether libopus can encode at the given rate
func OpusSupportsRate(sampleRate int) bool {
	return opusRates[sampleRate]
}

// NewOpusEncoder creates a new Opus encoder.
// frameSize is in samples per channel (e.g. 960 for 20ms at 48kHz).
func NewOpusEncoder(sampleRate, channels, frameSize int) (*OpusEncoder, error) {
	encoder, err := opus.NewEncoder(sampleRate, channels, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}

	bitrate := 64000 * channels
	if err := encoder.SetBitrate(bitrate); err != nil {
		log.Printf("Warning: failed to set Opus bitrate: %v", err)
	}

	return &OpusEncoder{
		encoder:    encoder,
		sampleRate: sampleRate,
		channels:   channels,
		frameSize:  frameSize,
	}, nil
}

// Encode encodes one PCM frame to an Opus packet.
// pcm must hold exactly frameSize*channels samples.
func (e *OpusEncoder) Encode(pcm []int16) ([]byte, error) {
	// Opus packets never exceed 4000 bytes
	output := make([]byte, 4000)

	n, err := e.encoder.Encode(pcm, output)
	if err != nil {
		return nil, fmt.Errorf("opus encode failed: %w", err)
	}

	return output[:n], nil
}

// FrameSize returns samples per channel per frame
func (e *OpusEncoder) FrameSize() int {
	return e.frameSize
}
