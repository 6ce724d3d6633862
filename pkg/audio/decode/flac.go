// ABOUTME: FLAC file source
// ABOUTME: Decodes FLAC frames to interleaved int16 samples via mewkiz/flac
package decode

import (
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
)

// FLAC reads samples from a FLAC file, converting whatever bit depth the
// stream carries down to 16-bit.
type FLAC struct {
	file       *os.File
	stream     *flac.Stream
	sampleRate int
	channels   int
	bitDepth   int

	// Carry-over samples from a partially drained frame
	leftover []int16
}

// NewFLAC opens a FLAC file
func NewFLAC(path string) (*FLAC, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file: %w", err)
	}

	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	return &FLAC{
		file:       f,
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}, nil
}

// Read fills samples with decoded PCM
func (s *FLAC) Read(samples []int16) (int, error) {
	written := 0

	for written < len(samples) {
		if len(s.leftover) > 0 {
			n := copy(samples[written:], s.leftover)
			s.leftover = s.leftover[n:]
			written += n
			continue
		}

		frame, err := s.stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				if written == 0 {
					return 0, io.EOF
				}
				return written, nil
			}
			return written, fmt.Errorf("flac decode error: %w", err)
		}

		// Interleave the frame's per-channel subframes
		block := int(frame.BlockSize)
		s.leftover = make([]int16, 0, block*s.channels)
		for i := 0; i < block; i++ {
			for ch := 0; ch < s.channels; ch++ {
				s.leftover = append(s.leftover, s.toInt16(frame.Subframes[ch].Samples[i]))
			}
		}
	}

	return written, nil
}

// toInt16 converts a sample at the stream's bit depth to 16-bit
func (s *FLAC) toInt16(sample int32) int16 {
	switch {
	case s.bitDepth > 16:
		return int16(sample >> uint(s.bitDepth-16))
	case s.bitDepth < 16:
		return int16(sample << uint(16-s.bitDepth))
	default:
		return int16(sample)
	}
}

func (s *FLAC) SampleRate() int { return s.sampleRate }
func (s *FLAC) Channels() int   { return s.channels }
func (s *FLAC) Close() error    { return s.file.Close() }
