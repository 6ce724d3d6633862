// ABOUTME: Main voice changer application orchestration
// ABOUTME: Coordinates devices, the transform pipeline, and the monitor server
package app

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/voxmorph/voxmorph-go/internal/capture"
	"github.com/voxmorph/voxmorph-go/internal/device"
	"github.com/voxmorph/voxmorph-go/internal/monitor"
	"github.com/voxmorph/voxmorph-go/pkg/audio"
	"github.com/voxmorph/voxmorph-go/pkg/audio/output"
	"github.com/voxmorph/voxmorph-go/pkg/audio/stream"
	"github.com/voxmorph/voxmorph-go/pkg/dsp"
)

// Device modes
const (
	ModeDuplex = "duplex"
	ModeSplit  = "split"
)

// Config holds voice changer configuration
type Config struct {
	Format     audio.Format
	PitchRatio float64
	CutoffHz   float64

	// Mode selects the device topology: "duplex" runs capture and playback
	// on one miniaudio device, "split" pairs a capture device with a
	// pull-based output backend.
	Mode          string
	OutputBackend string

	// MaxBufferedMs caps the transform queue; 0 disables the cap
	MaxBufferedMs int

	// MonitorPort enables the WebSocket monitor when non-zero
	MonitorPort  int
	MonitorCodec string
	MonitorName  string
	EnableMDNS   bool
}

// Changer is the main application: microphone in, transformed voice out,
// with an optional network monitor tap on the processed stream.
type Changer struct {
	mu     sync.Mutex
	config Config

	transform *stream.Transform
	duplex    *device.Duplex
	capture   *capture.Capture
	playback  output.Output
	monitor   *monitor.Server

	running bool
}

// New builds the pipeline and transform from config. The monitor server is
// created here but not started.
func New(config Config) (*Changer, error) {
	if config.Mode == "" {
		config.Mode = ModeDuplex
	}
	if config.Mode != ModeDuplex && config.Mode != ModeSplit {
		return nil, fmt.Errorf("unknown device mode: %s (supported: duplex, split)", config.Mode)
	}
	if config.OutputBackend == "" {
		config.OutputBackend = "oto"
	}
	if config.MaxBufferedMs < 0 {
		return nil, fmt.Errorf("buffer cap must not be negative: %d", config.MaxBufferedMs)
	}

	pitch, err := dsp.NewPitchShift(config.PitchRatio, config.Format.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("invalid pitch config: %w", err)
	}
	lowpass, err := dsp.NewLowPass(config.CutoffHz, float64(config.Format.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("invalid filter config: %w", err)
	}

	maxBuffered := config.MaxBufferedMs * config.Format.BytesPerSecond() / 1000

	transform, err := stream.New(stream.Config{
		Format:      config.Format,
		Pipeline:    dsp.NewChain(pitch, lowpass),
		MaxBuffered: maxBuffered,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transform: %w", err)
	}

	c := &Changer{
		config:    config,
		transform: transform,
	}

	if config.MonitorPort != 0 {
		mon, err := monitor.New(monitor.Config{
			Port:       config.MonitorPort,
			Name:       config.MonitorName,
			Codec:      config.MonitorCodec,
			Format:     config.Format,
			EnableMDNS: config.EnableMDNS,
		})
		if err != nil {
			return nil, err
		}
		c.monitor = mon
	}

	return c, nil
}

// Start opens the transform, starts the audio devices, and brings up the
// monitor server if configured.
func (c *Changer) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	if c.monitor != nil {
		if err := c.monitor.Start(); err != nil {
			return fmt.Errorf("failed to start monitor: %w", err)
		}
	}

	if err := c.startAudio(); err != nil {
		return err
	}

	c.running = true
	log.Printf("Voice changer started: ratio=%.2f cutoff=%.0fHz mode=%s",
		c.config.PitchRatio, c.config.CutoffHz, c.config.Mode)
	return nil
}

// startAudio opens the transform and the configured device topology.
// Caller holds the lock.
func (c *Changer) startAudio() error {
	c.transform.Open()

	switch c.config.Mode {
	case ModeDuplex:
		dup, err := device.New(device.Config{
			Format:    c.config.Format,
			Transform: c.transform,
			OnOutput:  c.feedMonitor,
		})
		if err != nil {
			c.transform.Close()
			return err
		}
		if err := dup.Start(); err != nil {
			c.transform.Close()
			return err
		}
		c.duplex = dup

	case ModeSplit:
		play, err := output.New(c.config.OutputBackend)
		if err != nil {
			c.transform.Close()
			return err
		}

		var src io.Reader = c.transform.Reader()
		if c.monitor != nil {
			src = &teeReader{r: src, feed: c.feedMonitor}
		}
		if err := play.Open(c.config.Format, src); err != nil {
			c.transform.Close()
			return fmt.Errorf("failed to open playback: %w", err)
		}

		mic := capture.New()
		if err := mic.Start(c.config.Format, c.transform.Consume); err != nil {
			play.Close()
			c.transform.Close()
			return err
		}

		c.playback = play
		c.capture = mic
	}

	return nil
}

// stopAudio tears down the devices and closes the transform, discarding any
// queued output. Caller holds the lock.
func (c *Changer) stopAudio() {
	if c.duplex != nil {
		c.duplex.Stop()
		c.duplex = nil
	}
	if c.capture != nil {
		c.capture.Stop()
		c.capture = nil
	}
	if c.playback != nil {
		if err := c.playback.Close(); err != nil {
			log.Printf("Playback close error: %v", err)
		}
		c.playback = nil
	}
	c.transform.Close()
}

// Stop shuts down the devices, the transform, and the monitor
func (c *Changer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.stopAudio()
		c.running = false
	}

	if c.monitor != nil {
		c.monitor.Stop()
	}

	log.Printf("Voice changer stopped")
}

// Toggle pauses or resumes the audio session. The monitor server stays up
// across pauses; pausing discards queued output and resets the pipeline, so
// resuming starts from a clean state.
func (c *Changer) Toggle() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	if c.duplex != nil || c.capture != nil {
		c.stopAudio()
		log.Printf("Session paused")
		return nil
	}

	if err := c.startAudio(); err != nil {
		return err
	}
	log.Printf("Session resumed")
	return nil
}

// Live reports whether audio is currently flowing
func (c *Changer) Live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && (c.duplex != nil || c.capture != nil)
}

// Stats returns a snapshot of the transform counters
func (c *Changer) Stats() stream.Stats {
	return c.transform.Stats()
}

// MonitorClients returns connected monitor listeners, 0 when disabled
func (c *Changer) MonitorClients() int {
	if c.monitor == nil {
		return 0
	}
	return c.monitor.Clients()
}

// MonitorCodec returns the codec the monitor settled on, "" when disabled
func (c *Changer) MonitorCodec() string {
	if c.monitor == nil {
		return ""
	}
	return c.monitor.Codec()
}

// Transform exposes the underlying transform for file processing paths
func (c *Changer) Transform() *stream.Transform {
	return c.transform
}

// feedMonitor forwards a processed block to the monitor, if enabled
func (c *Changer) feedMonitor(block []byte) {
	if c.monitor != nil {
		c.monitor.Feed(block)
	}
}

// teeReader copies everything read through it into the monitor feed
type teeReader struct {
	r    io.Reader
	feed func([]byte)
}

func (t *teeReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n > 0 {
		t.feed(p[:n])
	}
	return n, err
}
