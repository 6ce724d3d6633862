// ABOUTME: Full-duplex audio device session built on malgo/miniaudio
// ABOUTME: Drives the stream transform from the device's data callback
package device

import (
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
	"github.com/voxmorph/voxmorph-go/pkg/audio/stream"
)

// Config holds duplex session configuration
type Config struct {
	Format    audio.Format
	Transform *stream.Transform

	// OnOutput, when set, receives a copy of every produced playback block.
	// Called from the audio callback; it must not block.
	OnOutput func([]byte)
}

// Duplex owns one miniaudio full-duplex device. The capture side of the
// data callback pushes blocks into the transform; the playback side pulls
// from it, padding underruns with silence.
type Duplex struct {
	mu       sync.Mutex
	cfg      Config
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	running  bool
}

// New creates a duplex session around an open transform
func New(cfg Config) (*Duplex, error) {
	if cfg.Transform == nil {
		return nil, fmt.Errorf("device: nil transform")
	}
	if err := cfg.Format.Validate(); err != nil {
		return nil, fmt.Errorf("device: %w", err)
	}
	return &Duplex{cfg: cfg}, nil
}

// Start opens the default capture and playback devices and begins streaming
func (d *Duplex) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return nil
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(d.cfg.Format.Channels)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(d.cfg.Format.Channels)
	deviceConfig.SampleRate = uint32(d.cfg.Format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: d.onData,
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to initialize duplex device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to start duplex device: %w", err)
	}

	d.malgoCtx = ctx
	d.device = device
	d.running = true

	log.Printf("Duplex device started: %dHz, %d channel(s), 16-bit (malgo)",
		d.cfg.Format.SampleRate, d.cfg.Format.Channels)

	return nil
}

// onData runs on the device's audio thread for every period
func (d *Duplex) onData(pOutput, pInput []byte, frameCount uint32) {
	if len(pInput) > 0 {
		if err := d.cfg.Transform.Consume(pInput); err != nil {
			log.Printf("Capture block rejected: %v", err)
		}
	}

	if len(pOutput) > 0 {
		out := d.cfg.Transform.Produce(len(pOutput))
		n := copy(pOutput, out)
		for i := n; i < len(pOutput); i++ {
			pOutput[i] = 0
		}

		if d.cfg.OnOutput != nil && n > 0 {
			d.cfg.OnOutput(out[:n])
		}
	}
}

// Stop tears down the device and its context
func (d *Duplex) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}

	d.device.Uninit()
	_ = d.malgoCtx.Uninit()
	d.malgoCtx.Free()

	d.device = nil
	d.malgoCtx = nil
	d.running = false

	log.Printf("Duplex device stopped")
}

// Running reports whether the device is streaming
func (d *Duplex) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}
