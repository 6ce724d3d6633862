// ABOUTME: Streaming transform package bridging capture and playback
// ABOUTME: Provides the duplex block processor at the heart of the changer
// Package stream provides the duplex block transform between an audio
// capture source and a playback sink.
//
// A Transform accepts raw PCM blocks of arbitrary size on its write path
// (Consume), runs every sample through a dsp.Processor pipeline, and queues
// the encoded result for the read path (Produce) to drain in caller-chosen
// chunk sizes. Both paths are synchronous, bounded, and safe to call from
// different goroutines; neither ever blocks on I/O.
//
// Example:
//
//	tr, _ := stream.New(stream.Config{
//	    Format:   audio.DefaultFormat,
//	    Pipeline: dsp.NewChain(shifter, filter),
//	})
//	tr.Open()
//	tr.Consume(captureBlock)
//	out := tr.Produce(4096)
package stream
