// ABOUTME: Offline file processor for the Voxmorph voice transform
// ABOUTME: Decodes an audio file, runs the pipeline, and writes a WAV
package main

import (
	"encoding/binary"
	"flag"
	"io"
	"log"
	"os"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
	"github.com/voxmorph/voxmorph-go/pkg/audio/decode"
	"github.com/voxmorph/voxmorph-go/pkg/audio/encode"
	"github.com/voxmorph/voxmorph-go/pkg/audio/resample"
	"github.com/voxmorph/voxmorph-go/pkg/voxmorph"
)

var (
	input  = flag.String("in", "", "Input audio file (.mp3, .flac, .wav)")
	output = flag.String("out", "voxmorph-out.wav", "Output WAV file")
	rate   = flag.Int("rate", 44100, "Processing sample rate in Hz")
	pitch  = flag.Float64("pitch", 0.8, "Pitch ratio (below 1.0 deepens the voice)")
	cutoff = flag.Float64("cutoff", 300, "Low-pass cutoff in Hz")
)

func main() {
	flag.Parse()

	if *input == "" {
		log.Fatalf("no input file (use -in)")
	}

	src, err := decode.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	defer src.Close()

	log.Printf("Decoding %s: %dHz, %d channel(s)", *input, src.SampleRate(), src.Channels())

	mono, err := readMono(src)
	if err != nil {
		log.Fatalf("Decode failed: %v", err)
	}

	if src.SampleRate() != *rate {
		log.Printf("Resampling %dHz -> %dHz", src.SampleRate(), *rate)
		r := resample.New(src.SampleRate(), *rate, 1)
		out := make([]int16, r.OutputLen(len(mono)))
		n := r.Resample(mono, out)
		mono = out[:n]
	}

	session, err := voxmorph.NewSession(voxmorph.Config{
		SampleRate: *rate,
		PitchRatio: *pitch,
		CutoffHz:   *cutoff,
	})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	processed, err := session.Process(samplesToBytes(mono))
	if err != nil {
		log.Fatalf("Processing failed: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer f.Close()

	format := audio.Format{SampleRate: *rate, Channels: 1, BitDepth: 16}
	w, err := encode.NewWAVWriter(f, format)
	if err != nil {
		log.Fatalf("Failed to create WAV writer: %v", err)
	}

	if _, err := w.Write(processed); err != nil {
		log.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		log.Fatalf("Failed to finish WAV: %v", err)
	}

	stats := session.Stats()
	log.Printf("Wrote %s: %d samples processed, %d bytes out",
		*output, stats.Samples, stats.BytesOut)
}

// readMono decodes the whole source and folds it to mono
func readMono(src decode.Source) ([]int16, error) {
	var all []int16
	buf := make([]int16, 4096)

	for {
		n, err := src.Read(buf)
		if n > 0 {
			all = append(all, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return decode.Downmix(all, src.Channels()), nil
}

// samplesToBytes packs int16 samples as little-endian PCM
func samplesToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}
