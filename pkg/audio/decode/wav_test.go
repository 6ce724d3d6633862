// ABOUTME: Tests for the WAV source
// ABOUTME: Tests header parsing, sample reads, and format rejection
package decode

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// writeTestWAV builds a minimal PCM WAV file for tests
func writeTestWAV(t *testing.T, sampleRate, channels int, samples []int16) string {
	t.Helper()

	dataSize := len(samples) * 2
	buf := make([]byte, 0, 44+dataSize)

	u16 := func(v uint16) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	}
	u32 := func(v uint32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	}

	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, u32(uint32(36+dataSize))...)
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, u32(16)...)
	buf = append(buf, u16(1)...) // PCM
	buf = append(buf, u16(uint16(channels))...)
	buf = append(buf, u32(uint32(sampleRate))...)
	buf = append(buf, u32(uint32(sampleRate*channels*2))...)
	buf = append(buf, u16(uint16(channels*2))...)
	buf = append(buf, u16(16)...)
	buf = append(buf, []byte("data")...)
	buf = append(buf, u32(uint32(dataSize))...)
	for _, s := range samples {
		buf = append(buf, u16(uint16(s))...)
	}

	path := filepath.Join(t.TempDir(), "test.wav")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatalf("failed to write test WAV: %v", err)
	}
	return path
}

func TestWAVRead(t *testing.T) {
	want := []int16{100, -200, 300, -400, 500, -600}
	path := writeTestWAV(t, 44100, 1, want)

	src, err := NewWAV(path)
	if err != nil {
		t.Fatalf("failed to open WAV: %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 44100 {
		t.Errorf("expected sample rate 44100, got %d", src.SampleRate())
	}
	if src.Channels() != 1 {
		t.Errorf("expected 1 channel, got %d", src.Channels())
	}

	got := make([]int16, 10)
	n, err := src.Read(got)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), n)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}

	if _, err := src.Read(got); err != io.EOF {
		t.Errorf("expected EOF after data chunk, got %v", err)
	}
}

func TestWAVPartialReads(t *testing.T) {
	want := []int16{1, 2, 3, 4, 5}
	path := writeTestWAV(t, 8000, 1, want)

	src, err := NewWAV(path)
	if err != nil {
		t.Fatalf("failed to open WAV: %v", err)
	}
	defer src.Close()

	var got []int16
	buf := make([]int16, 2)
	for {
		n, err := src.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestWAVSkipsOddSizedChunks(t *testing.T) {
	// LIST/INFO text chunks can have odd sizes; RIFF pads them to an even
	// boundary, so the parser must skip the pad byte to stay aligned
	u16 := func(v uint16) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	}
	u32 := func(v uint32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	}

	want := []int16{700, -800}
	comment := []byte("vox") // odd size, padded with one zero byte

	var buf []byte
	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, u32(uint32(36+len(comment)+1+8+len(want)*2))...)
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, u32(16)...)
	buf = append(buf, u16(1)...)
	buf = append(buf, u16(1)...)
	buf = append(buf, u32(8000)...)
	buf = append(buf, u32(16000)...)
	buf = append(buf, u16(2)...)
	buf = append(buf, u16(16)...)
	buf = append(buf, []byte("LIST")...)
	buf = append(buf, u32(uint32(len(comment)))...)
	buf = append(buf, comment...)
	buf = append(buf, 0) // pad byte
	buf = append(buf, []byte("data")...)
	buf = append(buf, u32(uint32(len(want)*2))...)
	for _, s := range want {
		buf = append(buf, u16(uint16(s))...)
	}

	path := filepath.Join(t.TempDir(), "odd-chunk.wav")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatalf("failed to write test WAV: %v", err)
	}

	src, err := NewWAV(path)
	if err != nil {
		t.Fatalf("failed to open WAV with odd-sized chunk: %v", err)
	}
	defer src.Close()

	got := make([]int16, 4)
	n, err := src.Read(got)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), n)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestWAVRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	if err := os.WriteFile(path, []byte("definitely not a RIFF file"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := NewWAV(path); err == nil {
		t.Error("expected error for non-WAV file")
	}
}
