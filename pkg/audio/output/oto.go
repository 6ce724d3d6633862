// ABOUTME: Oto-based audio playback implementation
// ABOUTME: Streams PCM from a reader through a persistent oto player
package output

import (
	"fmt"
	"io"
	"log"

	"github.com/ebitengine/oto/v3"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
)

// Oto playback implementation using the oto library
type Oto struct {
	otoCtx *oto.Context
	player *oto.Player
}

// NewOto creates a new oto output
func NewOto() *Oto {
	return &Oto{}
}

// Open initializes the playback device and starts pulling from src.
// oto allows only one context per process, so a second Open with a
// different format is rejected.
func (o *Oto) Open(format audio.Format, src io.Reader) error {
	if o.otoCtx != nil {
		return fmt.Errorf("oto output already open")
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.player = ctx.NewPlayer(src)
	o.player.Play()

	log.Printf("Audio output initialized: %dHz, %d channels (oto)",
		format.SampleRate, format.Channels)

	return nil
}

// Close stops playback. The oto context itself cannot be torn down, only
// suspended.
func (o *Oto) Close() error {
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			return fmt.Errorf("failed to close oto player: %w", err)
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend oto context: %w", err)
		}
	}
	return nil
}
