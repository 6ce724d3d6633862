// ABOUTME: Capture-only audio device built on malgo/miniaudio
// ABOUTME: Pushes raw microphone blocks into a caller-supplied sink
package capture

import (
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/voxmorph/voxmorph-go/pkg/audio"
)

// Capture owns one miniaudio capture device and pushes every captured
// block into a sink. Used by the split live mode, where playback runs on a
// separate backend.
type Capture struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	running  bool
}

// New creates a capture device
func New() *Capture {
	return &Capture{}
}

// Start opens the default capture device. sink receives raw 16-bit LE PCM
// blocks on the device's audio thread and must not block; push errors are
// logged, not fatal.
func (c *Capture) Start(format audio.Format, sink func([]byte) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}
	if sink == nil {
		return fmt.Errorf("capture: nil sink")
	}
	if err := format.Validate(); err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	onData := func(pOutput, pInput []byte, frameCount uint32) {
		if len(pInput) == 0 {
			return
		}
		if err := sink(pInput); err != nil {
			log.Printf("Capture block rejected: %v", err)
		}
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	c.malgoCtx = ctx
	c.device = device
	c.running = true

	log.Printf("Capture device started: %dHz, %d channel(s), 16-bit (malgo)",
		format.SampleRate, format.Channels)

	return nil
}

// Stop tears down the device and its context
func (c *Capture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	c.device.Uninit()
	_ = c.malgoCtx.Uninit()
	c.malgoCtx.Free()

	c.device = nil
	c.malgoCtx = nil
	c.running = false

	log.Printf("Capture device stopped")
}

// Running reports whether the device is streaming
func (c *Capture) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
