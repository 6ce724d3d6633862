// ABOUTME: WAV file source
// ABOUTME: Parses RIFF chunks and reads 16-bit PCM sample data
package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// WAV reads samples from a 16-bit PCM WAV file
type WAV struct {
	file       *os.File
	sampleRate int
	channels   int
	remaining  uint32 // unread bytes in the data chunk
}

// NewWAV opens a WAV file and seeks to its data chunk
func NewWAV(path string) (*WAV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}

	w := &WAV{file: f}
	if err := w.parseHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// parseHeader walks the RIFF chunk list up to the data chunk
func (w *WAV) parseHeader() error {
	var riff [12]byte
	if _, err := io.ReadFull(w.file, riff[:]); err != nil {
		return fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return fmt.Errorf("not a WAV file")
	}

	sawFmt := false
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(w.file, chunk[:]); err != nil {
			return fmt.Errorf("failed to read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			var fmtData [16]byte
			if size < 16 {
				return fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			if _, err := io.ReadFull(w.file, fmtData[:]); err != nil {
				return fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			audioFormat := binary.LittleEndian.Uint16(fmtData[0:2])
			if audioFormat != 1 {
				return fmt.Errorf("unsupported WAV encoding: %d (supported: PCM)", audioFormat)
			}
			w.channels = int(binary.LittleEndian.Uint16(fmtData[2:4]))
			w.sampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
			bits := binary.LittleEndian.Uint16(fmtData[14:16])
			if bits != 16 {
				return fmt.Errorf("unsupported WAV bit depth: %d (supported: 16)", bits)
			}
			// Skip any fmt extension bytes
			if size > 16 {
				if _, err := w.file.Seek(int64(size-16), io.SeekCurrent); err != nil {
					return err
				}
			}
			sawFmt = true

		case "data":
			if !sawFmt {
				return fmt.Errorf("data chunk before fmt chunk")
			}
			w.remaining = size
			return nil

		default:
			// Skip unknown chunks (LIST, INFO, ...). RIFF pads odd-sized
			// chunks to an even byte boundary.
			if _, err := w.file.Seek(int64(size+size%2), io.SeekCurrent); err != nil {
				return err
			}
		}
	}
}

// Read fills samples with PCM from the data chunk
func (w *WAV) Read(samples []int16) (int, error) {
	if w.remaining == 0 {
		return 0, io.EOF
	}

	want := len(samples) * 2
	if uint32(want) > w.remaining {
		want = int(w.remaining)
	}

	buf := make([]byte, want)
	n, err := io.ReadFull(w.file, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("failed to read WAV data: %w", err)
	}
	w.remaining -= uint32(n)

	count := n / 2
	for i := 0; i < count; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}

	if count == 0 {
		return 0, io.EOF
	}
	return count, nil
}

func (w *WAV) SampleRate() int { return w.sampleRate }
func (w *WAV) Channels() int   { return w.channels }
func (w *WAV) Close() error    { return w.file.Close() }
