// ABOUTME: WebSocket monitor server for the processed voice stream
// ABOUTME: Manages client connections and fans out PCM or Opus audio
package monitor

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/voxmorph/voxmorph-go/internal/discovery"
	"github.com/voxmorph/voxmorph-go/internal/version"
	"github.com/voxmorph/voxmorph-go/pkg/audio"
)

// Codec names accepted by the monitor
const (
	CodecPCM  = "pcm"
	CodecOpus = "opus"
)

// Opus frame duration for the monitor stream
const frameDurationMs = 20

// Config holds monitor server configuration
type Config struct {
	Port       int
	Name       string
	Codec      string // "pcm" or "opus"
	Format     audio.Format
	EnableMDNS bool
}

// Hello is the JSON handshake sent to every client before audio flows
type Hello struct {
	Product    string `json:"product"`
	Version    string `json:"version"`
	SessionID  string `json:"session_id"`
	Codec      string `json:"codec"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	BitDepth   int    `json:"bit_depth"`
}

// Server streams the processed voice to WebSocket clients. Audio enters
// through Feed, which never blocks the audio path; slow clients drop
// frames instead of applying backpressure upstream.
type Server struct {
	config    Config
	sessionID string

	upgrader   websocket.Upgrader
	httpServer *http.Server

	clients   map[string]*client
	clientsMu sync.RWMutex
	stopped   bool // guarded by clientsMu; blocks new client goroutines

	encoder *OpusEncoder
	frames  *framer

	feed     chan []byte
	dropped  int64
	statsMu  sync.Mutex

	mdnsManager *discovery.Manager

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// client is one connected monitor listener
type client struct {
	id       string
	conn     *websocket.Conn
	sendChan chan []byte
}

// New creates a monitor server. When the session rate is not one libopus
// supports, an opus request falls back to pcm with a log line rather than
// failing the session.
func New(config Config) (*Server, error) {
	if err := config.Format.Validate(); err != nil {
		return nil, fmt.Errorf("monitor: %w", err)
	}

	switch config.Codec {
	case CodecPCM:
	case CodecOpus:
		if !OpusSupportsRate(config.Format.SampleRate) {
			log.Printf("Opus does not support %d Hz, monitor falling back to pcm",
				config.Format.SampleRate)
			config.Codec = CodecPCM
		}
	default:
		return nil, fmt.Errorf("monitor: unknown codec: %s (supported: pcm, opus)", config.Codec)
	}

	s := &Server{
		config:    config,
		sessionID: uuid.New().String(),
		upgrader: websocket.Upgrader{
			// Local-network tool: accept any origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:  make(map[string]*client),
		feed:     make(chan []byte, 64),
		stopChan: make(chan struct{}),
	}

	if config.Codec == CodecOpus {
		frameSize := config.Format.SampleRate * frameDurationMs / 1000
		encoder, err := NewOpusEncoder(config.Format.SampleRate, config.Format.Channels, frameSize)
		if err != nil {
			return nil, fmt.Errorf("monitor: %w", err)
		}
		s.encoder = encoder
		s.frames = newFramer(frameSize * config.Format.Channels)
	}

	return s, nil
}

// Start begins serving on the configured port
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/monitor", s.handleWebSocket)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
		})
		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Warning: mDNS advertisement failed: %v", err)
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run()
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Monitor server error: %v", err)
		}
	}()

	log.Printf("Monitor server listening on port %d (codec: %s, session %s)",
		s.config.Port, s.config.Codec, s.sessionID)

	return nil
}

// Feed hands a processed PCM block to the monitor. Never blocks: when the
// fan-out loop is behind, the block is dropped and counted.
func (s *Server) Feed(block []byte) {
	if len(block) == 0 {
		return
	}

	clone := make([]byte, len(block))
	copy(clone, block)

	select {
	case s.feed <- clone:
	default:
		s.statsMu.Lock()
		s.dropped++
		s.statsMu.Unlock()
	}
}

// run fans audio out from the feed channel to all clients
func (s *Server) run() {
	for {
		select {
		case <-s.stopChan:
			return
		case block := <-s.feed:
			if s.config.Codec == CodecOpus {
				s.sendOpus(block)
			} else {
				s.broadcast(block)
			}
		}
	}
}

// sendOpus frames and encodes a PCM block, broadcasting each packet
func (s *Server) sendOpus(block []byte) {
	for _, frame := range s.frames.push(block) {
		packet, err := s.encoder.Encode(frame)
		if err != nil {
			log.Printf("Opus encode error: %v", err)
			continue
		}
		s.broadcast(packet)
	}
}

// broadcast sends one binary message to every client, dropping on full
// send queues
func (s *Server) broadcast(data []byte) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		select {
		case c.sendChan <- data:
		default:
			// Slow client: skip this message
		}
	}
}

// handleWebSocket upgrades a connection and registers the client
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{
		id:       uuid.New().String(),
		conn:     conn,
		sendChan: make(chan []byte, 32),
	}

	hello := Hello{
		Product:    version.Product,
		Version:    version.Version,
		SessionID:  s.sessionID,
		Codec:      s.config.Codec,
		SampleRate: s.config.Format.SampleRate,
		Channels:   s.config.Format.Channels,
		BitDepth:   s.config.Format.BitDepth,
	}
	payload, err := json.Marshal(hello)
	if err == nil {
		err = conn.WriteMessage(websocket.TextMessage, payload)
	}
	if err != nil {
		log.Printf("Failed to send hello to %s: %v", c.id, err)
		conn.Close()
		return
	}

	// Register and reserve the goroutines under one lock so an upgrade
	// racing Stop can never call wg.Add after wg.Wait has started
	s.clientsMu.Lock()
	if s.stopped {
		s.clientsMu.Unlock()
		conn.Close()
		return
	}
	s.clients[c.id] = c
	s.wg.Add(2)
	s.clientsMu.Unlock()

	log.Printf("Monitor client connected: %s (%s)", c.id, conn.RemoteAddr())

	go func() {
		defer s.wg.Done()
		s.writeLoop(c)
	}()

	go func() {
		defer s.wg.Done()
		s.readLoop(c)
	}()
}

// writeLoop drains a client's send queue
func (s *Server) writeLoop(c *client) {
	for {
		select {
		case <-s.stopChan:
			return
		case data := <-c.sendChan:
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				s.removeClient(c)
				return
			}
		}
	}
}

// readLoop discards inbound messages and detects disconnects
func (s *Server) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.removeClient(c)
			return
		}
	}
}

// removeClient drops a client and closes its connection
func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	_, present := s.clients[c.id]
	delete(s.clients, c.id)
	s.clientsMu.Unlock()

	if present {
		c.conn.Close()
		log.Printf("Monitor client disconnected: %s", c.id)
	}
}

// Clients returns the number of connected listeners
func (s *Server) Clients() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Dropped returns the number of feed blocks dropped under load
func (s *Server) Dropped() int64 {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.dropped
}

// Codec returns the codec actually in use after any fallback
func (s *Server) Codec() string {
	return s.config.Codec
}

// Stop shuts the server down and disconnects every client
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)

		if s.mdnsManager != nil {
			s.mdnsManager.Stop()
		}

		if s.httpServer != nil {
			s.httpServer.Close()
		}

		s.clientsMu.Lock()
		s.stopped = true
		for _, c := range s.clients {
			c.conn.Close()
		}
		s.clients = make(map[string]*client)
		s.clientsMu.Unlock()

		s.wg.Wait()
		log.Printf("Monitor server stopped")
	})
}
