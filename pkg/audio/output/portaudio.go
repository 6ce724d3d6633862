//go:build portaudio

// ABOUTME: PortAudio playback implementation
// ABOUTME: Cross-platform audio output using PortAudio callbacks
package output

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gordonklaus/portaudio"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
)

// PortAudio playback implementation
type PortAudio struct {
	stream *portaudio.Stream
	src    io.Reader
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() Output {
	return &PortAudio{}
}

// Open initializes PortAudio and starts the callback stream
func (p *PortAudio) Open(format audio.Format, src io.Reader) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	p.src = src

	stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), 0, p.fill)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}

	p.stream = stream
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start stream: %w", err)
	}
	return nil
}

// fill pulls PCM bytes for one callback period
func (p *PortAudio) fill(out []int16) {
	buf := make([]byte, len(out)*2)
	n, _ := io.ReadFull(p.src, buf)

	for i := range out {
		if i*2+1 < n {
			out[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
		} else {
			out[i] = 0
		}
	}
}

// Close releases resources
func (p *PortAudio) Close() error {
	if p.stream != nil {
		if err := p.stream.Stop(); err != nil {
			return fmt.Errorf("failed to stop stream: %w", err)
		}
		if err := p.stream.Close(); err != nil {
			return fmt.Errorf("failed to close stream: %w", err)
		}
		p.stream = nil
	}
	return portaudio.Terminate()
}
