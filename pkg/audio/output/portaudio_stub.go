//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"fmt"
	"io"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
)

// PortAudio stub implementation
type PortAudio struct{}

// NewPortAudio creates a stub PortAudio output
func NewPortAudio() Output {
	return &PortAudio{}
}

// Open always fails: build with -tags portaudio for the real backend
func (p *PortAudio) Open(format audio.Format, src io.Reader) error {
	return fmt.Errorf("portaudio support not compiled in (build with -tags portaudio)")
}

// Close is a no-op
func (p *PortAudio) Close() error {
	return nil
}
