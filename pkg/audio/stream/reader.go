// ABOUTME: io.Reader adapter over the transform's read path
// ABOUTME: Feeds pull-based playback sinks, substituting silence on underrun
package stream

import "io"

// Reader adapts Produce to io.Reader for pull-based playback sinks such as
// an oto player. Underruns are filled with silence so the sink never
// stalls; a closed transform reads as EOF.
type Reader struct {
	t *Transform
}

// Reader returns an io.Reader view of the transform's read path
func (t *Transform) Reader() *Reader {
	return &Reader{t: t}
}

// Read fills p with queued output bytes, zero-padding whatever the queue
// cannot cover. Returns io.EOF once the transform is closed.
func (r *Reader) Read(p []byte) (int, error) {
	if !r.t.IsOpen() {
		return 0, io.EOF
	}

	out := r.t.Produce(len(p))
	n := copy(p, out)
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}
