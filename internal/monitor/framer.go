// ABOUTME: PCM byte accumulator producing fixed-size sample frames
// ABOUTME: Bridges arbitrary transform blocks to the codec's frame size
package monitor

import "encoding/binary"

// framer accumulates little-endian PCM bytes and emits fixed-size int16
// frames for the Opus encoder. Blocks from the transform have arbitrary
// sizes; Opus needs exact frames.
type framer struct {
	frameSize int // samples per frame
	pending   []int16
}

func newFramer(frameSize int) *framer {
	return &framer{frameSize: frameSize}
}

// push appends a PCM block and returns every complete frame now available.
// A trailing odd byte is impossible: the transform only emits whole samples.
func (f *framer) push(block []byte) [][]int16 {
	for i := 0; i+1 < len(block); i += 2 {
		f.pending = append(f.pending, int16(binary.LittleEndian.Uint16(block[i:])))
	}

	var frames [][]int16
	for len(f.pending) >= f.frameSize {
		frame := make([]int16, f.frameSize)
		copy(frame, f.pending)
		f.pending = f.pending[f.frameSize:]
		frames = append(frames, frame)
	}
	return frames
}

// buffered returns the number of samples waiting for a complete frame
func (f *framer) buffered() int {
	return len(f.pending)
}
