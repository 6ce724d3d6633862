// ABOUTME: Bubbletea model for the voice changer TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state
type Model struct {
	// Session
	running    bool
	deviceMode string

	// Effect
	pitchRatio float64
	cutoffHz   float64

	// Stream
	sampleRate int
	channels   int
	bitDepth   int

	// Stats
	bytesIn   int64
	bytesOut  int64
	samples   int64
	dropped   int64
	buffered  int

	// Monitor
	monitorPort    int
	monitorCodec   string
	monitorClients int

	// Runtime
	goroutines int
	memAlloc   uint64
	memSys     uint64

	// Debug
	showDebug bool

	// Dimensions
	width  int
	height int

	control *Control
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderEffect()
	s += m.renderMonitor()
	s += m.renderStats()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders session status
func (m Model) renderHeader() string {
	status := "Paused (mic muted)"
	icon := "⏸"
	if m.running {
		status = "Live"
		icon = "●"
	}

	return fmt.Sprintf(`┌─ Voxmorph Voice Changer ─────────────────────────────┐
│ Status: %s %-43s │
│ Device: %-45s │
├──────────────────────────────────────────────────────┤
`, icon, status, m.deviceMode)
}

// renderEffect renders the active effect parameters
func (m Model) renderEffect() string {
	s := fmt.Sprintf("│ Pitch ratio: %-39.2f │\n", m.pitchRatio)
	s += fmt.Sprintf("│ Low-pass cutoff: %-32.0fHz │\n", m.cutoffHz)
	s += fmt.Sprintf("│ Format: %dHz %s %d-bit%-25s │\n",
		m.sampleRate, channelName(m.channels), m.bitDepth, "")
	return s
}

// renderMonitor renders the monitor server state
func (m Model) renderMonitor() string {
	if m.monitorPort == 0 {
		return "│ Monitor: disabled                                    │\n"
	}

	return fmt.Sprintf("│ Monitor: port %d (%s), %d listener(s)%-9s │\n",
		m.monitorPort, m.monitorCodec, m.monitorClients, "")
}

// renderStats renders transform statistics
func (m Model) renderStats() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ In: %s  Out: %s  Dropped: %s%-6s │
│ Samples: %d  Buffered: %d bytes%-14s │
`, formatBytes(m.bytesIn), formatBytes(m.bytesOut), formatBytes(m.dropped), "",
		m.samples, m.buffered, "")
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ s:Start/Stop  d:Debug  q:Quit                        │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders runtime information
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Goroutines: %-38d │
│   Mem: %s alloc / %s sys%-20s │
`, m.goroutines, formatBytes(int64(m.memAlloc)), formatBytes(int64(m.memSys)), "")
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.control != nil {
			select {
			case m.control.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case "s":
		if m.control != nil {
			select {
			case m.control.Toggle <- ToggleMsg{}:
			default:
			}
		}
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Running != nil {
		m.running = *msg.Running
	}
	if msg.DeviceMode != "" {
		m.deviceMode = msg.DeviceMode
	}
	if msg.PitchRatio != 0 {
		m.pitchRatio = msg.PitchRatio
		m.cutoffHz = msg.CutoffHz
	}
	if msg.SampleRate != 0 {
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
		m.bitDepth = msg.BitDepth
	}
	if msg.MonitorPort != 0 {
		m.monitorPort = msg.MonitorPort
		m.monitorCodec = msg.MonitorCodec
	}
	if msg.HasStats {
		m.bytesIn = msg.BytesIn
		m.bytesOut = msg.BytesOut
		m.samples = msg.Samples
		m.dropped = msg.Dropped
		m.buffered = msg.Buffered
		m.monitorClients = msg.MonitorClients
	}
	if msg.Goroutines != 0 {
		m.goroutines = msg.Goroutines
		m.memAlloc = msg.MemAlloc
		m.memSys = msg.MemSys
	}
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Running        *bool
	DeviceMode     string
	PitchRatio     float64
	CutoffHz       float64
	SampleRate     int
	Channels       int
	BitDepth       int
	MonitorPort    int
	MonitorCodec   string
	MonitorClients int
	HasStats       bool
	BytesIn        int64
	BytesOut       int64
	Samples        int64
	Dropped        int64
	Buffered       int
	Goroutines     int
	MemAlloc       uint64
	MemSys         uint64
}

// Utility functions
func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
