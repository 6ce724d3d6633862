// ABOUTME: MP3 file source
// ABOUTME: Decodes MP3 to interleaved int16 samples via go-mp3
package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// MP3 reads samples from an MP3 file. go-mp3 always yields 16-bit stereo
// at the file's sample rate.
type MP3 struct {
	file    *os.File
	decoder *mp3.Decoder
}

// NewMP3 opens an MP3 file
func NewMP3(path string) (*MP3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	return &MP3{file: f, decoder: decoder}, nil
}

// Read fills samples with decoded PCM
func (s *MP3) Read(samples []int16) (int, error) {
	buf := make([]byte, len(samples)*2)

	n, err := io.ReadFull(s.decoder, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("mp3 decode error: %w", err)
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

func (s *MP3) SampleRate() int { return s.decoder.SampleRate() }

// Channels is always 2: go-mp3 upmixes mono files
func (s *MP3) Channels() int { return 2 }

func (s *MP3) Close() error { return s.file.Close() }
