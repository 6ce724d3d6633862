// ABOUTME: Source interface and file-type dispatch for audio decoding
// ABOUTME: Picks a decoder by extension and folds channels down to mono
package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source provides interleaved int16 PCM samples decoded from a file.
// Read returns the number of samples written and io.EOF once the file is
// exhausted.
type Source interface {
	Read(samples []int16) (int, error)
	SampleRate() int
	Channels() int
	Close() error
}

// Open creates a source for the given file, dispatching on extension
func Open(path string) (Source, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return NewMP3(path)
	case ".flac":
		return NewFLAC(path)
	case ".wav":
		return NewWAV(path)
	case ".pcm", ".raw":
		// Headerless files carry no format info; assume the session default
		return NewRaw(path, 44100, 1)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .flac, .wav, .pcm, .raw)", ext)
	}
}

// Downmix folds interleaved multi-channel samples to mono by averaging.
// len(samples) must be a multiple of channels. Mono input is returned
// unchanged.
func Downmix(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]int16, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += int(samples[i*channels+ch])
		}
		mono[i] = int16(sum / channels)
	}
	return mono
}
