// ABOUTME: Entry point for the Voxmorph live voice changer
// ABOUTME: Parses CLI flags and starts the duplex audio session
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voxmorph/voxmorph-go/internal/app"
	"github.com/voxmorph/voxmorph-go/internal/ui"
	"github.com/voxmorph/voxmorph-go/pkg/audio"
)

var (
	rate         = flag.Int("rate", 44100, "Sample rate in Hz")
	pitch        = flag.Float64("pitch", 0.8, "Pitch ratio (below 1.0 deepens the voice)")
	cutoff       = flag.Float64("cutoff", 300, "Low-pass cutoff in Hz")
	mode         = flag.String("mode", "duplex", "Device mode: duplex or split")
	outBackend   = flag.String("output", "oto", "Playback backend for split mode: oto, malgo, or portaudio")
	bufferCapMs  = flag.Int("buffer-cap-ms", 0, "Output queue cap in milliseconds (0 = unbounded)")
	monitorPort  = flag.Int("monitor-port", 0, "WebSocket monitor port (0 = disabled)")
	monitorCodec = flag.String("monitor-codec", "pcm", "Monitor codec: pcm or opus")
	name         = flag.String("name", "", "Monitor service name (default: hostname-voxmorph)")
	enableMDNS   = flag.Bool("mdns", false, "Advertise the monitor via mDNS")
	logFile      = flag.String("log-file", "voxmorph.log", "Log file path")
	noTUI        = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs   = flag.Bool("stream-logs", false, "Alias for -no-tui")
)

func main() {
	flag.Parse()

	useTUI := !(*noTUI || *streamLogs)

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		multiWriter := io.MultiWriter(os.Stdout, f)
		log.SetOutput(multiWriter)
	}

	serviceName := *name
	if serviceName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serviceName = fmt.Sprintf("%s-voxmorph", hostname)
	}

	format := audio.DefaultFormat
	format.SampleRate = *rate

	changer, err := app.New(app.Config{
		Format:        format,
		PitchRatio:    *pitch,
		CutoffHz:      *cutoff,
		Mode:          *mode,
		OutputBackend: *outBackend,
		MaxBufferedMs: *bufferCapMs,
		MonitorPort:   *monitorPort,
		MonitorCodec:  *monitorCodec,
		MonitorName:   serviceName,
		EnableMDNS:    *enableMDNS,
	})
	if err != nil {
		log.Fatalf("Failed to create voice changer: %v", err)
	}

	if !useTUI {
		log.Printf("Starting Voxmorph: ratio=%.2f cutoff=%.0fHz rate=%dHz", *pitch, *cutoff, *rate)
		log.Printf("TUI disabled - logging to file for debugging")
	}

	// TUI setup
	var tuiProg *tea.Program
	var ctrl *ui.Control

	if useTUI {
		ctrl = ui.NewControl()
		tuiProg, err = ui.Run(ctrl)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go tuiProg.Run()
	}

	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	if err := changer.Start(); err != nil {
		log.Fatalf("Failed to start voice changer: %v", err)
	}

	running := true
	updateTUI(ui.StatusMsg{
		Running:      &running,
		DeviceMode:   *mode,
		PitchRatio:   *pitch,
		CutoffHz:     *cutoff,
		SampleRate:   format.SampleRate,
		Channels:     format.Channels,
		BitDepth:     format.BitDepth,
		MonitorPort:  *monitorPort,
		MonitorCodec: changer.MonitorCodec(),
	})

	if ctrl != nil {
		go handleControl(changer, ctrl, updateTUI)
	}

	if tuiProg != nil {
		go statsUpdateLoop(changer, updateTUI)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if ctrl != nil {
		select {
		case <-ctrl.Quit:
			log.Printf("Received quit signal from TUI")
		case <-sigChan:
			log.Printf("Shutdown signal received")
		}
	} else {
		<-sigChan
		log.Printf("Shutdown signal received")
	}

	changer.Stop()
}

// handleControl processes start/stop toggles from the TUI
func handleControl(changer *app.Changer, ctrl *ui.Control, updateTUI func(ui.StatusMsg)) {
	for {
		select {
		case <-ctrl.Toggle:
			if err := changer.Toggle(); err != nil {
				log.Printf("Toggle failed: %v", err)
				continue
			}
			live := changer.Live()
			updateTUI(ui.StatusMsg{Running: &live})
		case <-ctrl.Quit:
			return
		}
	}
}

// statsUpdateLoop periodically updates the TUI with transform statistics
func statsUpdateLoop(changer *app.Changer, updateTUI func(ui.StatusMsg)) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	// Use a slower ticker for expensive runtime stats to avoid GC pauses
	runtimeStatsTicker := time.NewTicker(2 * time.Second)
	defer runtimeStatsTicker.Stop()

	var lastGoroutines int
	var lastMemAlloc, lastMemSys uint64

	for {
		select {
		case <-runtimeStatsTicker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			lastGoroutines = runtime.NumGoroutine()
			lastMemAlloc = m.Alloc
			lastMemSys = m.Sys

		case <-ticker.C:
			stats := changer.Stats()

			updateTUI(ui.StatusMsg{
				HasStats:       true,
				BytesIn:        stats.BytesIn,
				BytesOut:       stats.BytesOut,
				Samples:        stats.Samples,
				Dropped:        stats.DroppedBytes,
				Buffered:       stats.Buffered,
				MonitorClients: changer.MonitorClients(),
				Goroutines:     lastGoroutines,
				MemAlloc:       lastMemAlloc,
				MemSys:         lastMemSys,
			})
		}
	}
}
