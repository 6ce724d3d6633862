// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for pull-based playback backends
package output

import (
	"fmt"
	"io"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
)

// Output is a playback sink that pulls PCM bytes from a reader on its own
// schedule
type Output interface {
	// Open starts playback, pulling 16-bit little-endian PCM from src
	Open(format audio.Format, src io.Reader) error

	// Close stops playback and releases the device
	Close() error
}

// New creates a backend by name ("oto", "malgo", or "portaudio")
func New(name string) (Output, error) {
	switch name {
	case "oto":
		return NewOto(), nil
	case "malgo":
		return NewMalgo(), nil
	case "portaudio":
		return NewPortAudio(), nil
	default:
		return nil, fmt.Errorf("unknown output backend: %s (supported: oto, malgo, portaudio)", name)
	}
}
