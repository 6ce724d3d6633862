// ABOUTME: Malgo-based audio playback implementation
// ABOUTME: Pulls PCM from a reader inside the miniaudio playback callback
package output

import (
	"fmt"
	"io"
	"log"

	"github.com/gen2brain/malgo"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
)

// Malgo playback implementation using miniaudio
type Malgo struct {
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
}

// NewMalgo creates a new malgo output
func NewMalgo() *Malgo {
	return &Malgo{}
}

// Open initializes the playback device. The device callback pulls from src;
// short reads are padded with silence so the device never starves.
func (m *Malgo) Open(format audio.Format, src io.Reader) error {
	if m.device != nil {
		return fmt.Errorf("malgo output already open")
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	onData := func(pOutput, pInput []byte, frameCount uint32) {
		n, _ := src.Read(pOutput)
		for i := n; i < len(pOutput); i++ {
			pOutput[i] = 0
		}
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	m.malgoCtx = ctx
	m.device = device

	log.Printf("Audio output initialized: %dHz, %d channels (malgo)",
		format.SampleRate, format.Channels)

	return nil
}

// Close stops playback and releases the device
func (m *Malgo) Close() error {
	if m.device != nil {
		m.device.Uninit()
		m.device = nil
	}
	if m.malgoCtx != nil {
		_ = m.malgoCtx.Uninit()
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}
