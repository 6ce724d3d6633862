// ABOUTME: Headerless PCM file source
// ABOUTME: Reads raw 16-bit little-endian samples at an assumed format
package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Raw reads headerless 16-bit little-endian PCM. The file carries no format
// information, so rate and channel count come from the caller.
type Raw struct {
	file       *os.File
	sampleRate int
	channels   int
}

// NewRaw opens a raw PCM file with the given format
func NewRaw(path string, sampleRate, channels int) (*Raw, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid raw PCM format: %d Hz, %d channels", sampleRate, channels)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw PCM file: %w", err)
	}

	return &Raw{file: f, sampleRate: sampleRate, channels: channels}, nil
}

// Read fills samples with PCM from the file
func (r *Raw) Read(samples []int16) (int, error) {
	buf := make([]byte, len(samples)*2)
	n, err := io.ReadFull(r.file, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("failed to read raw PCM: %w", err)
	}

	count := n / 2
	for i := 0; i < count; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}

	if count == 0 {
		return 0, io.EOF
	}
	return count, nil
}

func (r *Raw) SampleRate() int { return r.sampleRate }
func (r *Raw) Channels() int   { return r.channels }
func (r *Raw) Close() error    { return r.file.Close() }
