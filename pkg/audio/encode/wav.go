// ABOUTME: Streaming WAV writer
// ABOUTME: Writes a RIFF header up front and patches sizes on Close
package encode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
)

// WAVWriter writes 16-bit PCM WAV. The destination must support seeking so
// the RIFF and data sizes can be patched once the stream length is known.
type WAVWriter struct {
	dst      io.WriteSeeker
	format   audio.Format
	written  uint32
	finished bool
}

// NewWAVWriter writes the WAV header and returns a writer for sample data
func NewWAVWriter(dst io.WriteSeeker, format audio.Format) (*WAVWriter, error) {
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("invalid format: %d Hz, %d channels", format.SampleRate, format.Channels)
	}

	w := &WAVWriter{dst: dst, format: format}
	if err := w.writeHeader(0); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	return w, nil
}

// writeHeader emits the 44-byte canonical PCM header with the given data size
func (w *WAVWriter) writeHeader(dataSize uint32) error {
	stride := w.format.Stride()
	header := make([]byte, 44)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(w.format.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(w.format.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(w.format.SampleRate*stride))
	binary.LittleEndian.PutUint16(header[32:34], uint16(stride))
	binary.LittleEndian.PutUint16(header[34:36], uint16(w.format.BitDepth))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	_, err := w.dst.Write(header)
	return err
}

// Write appends raw little-endian PCM bytes to the data chunk
func (w *WAVWriter) Write(p []byte) (int, error) {
	if w.finished {
		return 0, fmt.Errorf("write after close")
	}

	n, err := w.dst.Write(p)
	w.written += uint32(n)
	return n, err
}

// Close patches the header sizes. The writer is unusable afterwards.
func (w *WAVWriter) Close() error {
	if w.finished {
		return nil
	}
	w.finished = true

	if _, err := w.dst.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek for header patch: %w", err)
	}
	if err := w.writeHeader(w.written); err != nil {
		return fmt.Errorf("failed to patch WAV header: %w", err)
	}
	return nil
}
