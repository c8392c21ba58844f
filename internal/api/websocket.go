package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"air-hockey/internal/game"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// MaxWSConnectionsTotal is the default maximum number of WebSocket connections
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the default maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10

	wsWriteTimeout = 2 * time.Second
	wsMaxMessage   = 4096
)

// Server push events
const (
	EventMatchState    = "match:state"
	EventMatchGoal     = "match:goal"
	EventMatchFinished = "match:finished"
	EventError         = "error"
)

// HubConfig sets the hub's connection caps and command limits.
type HubConfig struct {
	MaxConnections    int
	MaxPerIP          int
	CommandsPerSecond float64 // Inbound commands per connection; 0 disables limiting
	CommandBurst      int
	AllowedOrigins    []string // Browser origins; nil uses DefaultAllowedOrigins
}

// DefaultHubConfig returns the production caps.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		MaxConnections:    MaxWSConnectionsTotal,
		MaxPerIP:          MaxWSConnectionsPerIP,
		CommandsPerSecond: 120,
		CommandBurst:      60,
	}
}

// wsCommand is an inbound client command.
//
//	{"type":"paddle","side":"bottom","x":140,"y":500}
//	{"type":"mode","mode":"timed"}
//	{"type":"restart"}
type wsCommand struct {
	Type string   `json:"type"`
	Side string   `json:"side,omitempty"`
	Mode string   `json:"mode,omitempty"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
}

var errCommandRejected = errors.New("command rejected")

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	id      string
	conn    *websocket.Conn
	ip      string
	proto   bool // binary protobuf frames instead of JSON text
	limiter *rate.Limiter

	writeMu sync.Mutex
}

// write serializes writes; gorilla allows one concurrent writer.
func (c *wsClient) write(text, binary []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if c.proto {
		return c.conn.WriteMessage(websocket.BinaryMessage, binary)
	}
	return c.conn.WriteMessage(websocket.TextMessage, text)
}

// wsFrame is one broadcast, pre-encoded for both client kinds
type wsFrame struct {
	text   []byte
	binary []byte
}

func newFrame(event string, data interface{}) (wsFrame, error) {
	text, err := encodeJSONEnvelope(event, data)
	if err != nil {
		return wsFrame{}, err
	}
	binary, err := EncodeProtoEnvelope(text)
	if err != nil {
		return wsFrame{}, err
	}
	return wsFrame{text: text, binary: binary}, nil
}

// WebSocketHub manages all WebSocket connections with DoS protection
type WebSocketHub struct {
	engine   EngineInterface
	config   HubConfig
	upgrader websocket.Upgrader

	clients    map[*websocket.Conn]*wsClient
	broadcast  chan wsFrame
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	stopChan chan struct{}
	stopOnce sync.Once

	// Connection limiting per IP
	wsLimiter *WebSocketRateLimiter
}

// NewWebSocketHub creates a new hub with connection limiting. Nothing runs
// until Run is called.
func NewWebSocketHub(engine EngineInterface, cfg HubConfig) *WebSocketHub {
	defaults := DefaultHubConfig()
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = defaults.MaxConnections
	}
	if cfg.MaxPerIP <= 0 {
		cfg.MaxPerIP = defaults.MaxPerIP
	}
	if cfg.AllowedOrigins == nil {
		cfg.AllowedOrigins = DefaultAllowedOrigins
	}

	h := &WebSocketHub{
		engine:     engine,
		config:     cfg,
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan wsFrame, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		stopChan:   make(chan struct{}),
		wsLimiter:  NewWebSocketRateLimiter(cfg.MaxPerIP),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin allows non-browser clients (no Origin header) and browsers
// from the configured origins.
func (h *WebSocketHub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || IsAllowedOrigin(origin, h.config.AllowedOrigins) {
		return true
	}

	// Log rejected origin for security monitoring
	log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
	RecordConnectionRejected("origin")
	return false
}

// Run starts the hub and blocks until Stop
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.stopChan:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client %s connected from %s (%d total)", client.id[:8], client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.removeClient(conn)

		case frame := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*wsClient, 0, len(h.clients))
			for _, c := range h.clients {
				clients = append(clients, c)
			}
			h.mu.RUnlock()

			for _, c := range clients {
				if err := c.write(frame.text, frame.binary); err != nil {
					h.removeClient(c.conn)
				}
			}
			IncrementWSMessages()
		}
	}
}

// Stop closes every connection and ends Run and the broadcast loop
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
	})
}

func (h *WebSocketHub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	client, ok := h.clients[conn]
	if ok {
		// Release the connection slot for this IP
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	conn.Close()
	log.Printf("📱 Client %s disconnected (%d remaining)", client.id[:8], count)
	UpdateWSConnections(count)
}

func (h *WebSocketHub) closeAll() {
	h.mu.Lock()
	for conn, client := range h.clients {
		h.wsLimiter.Release(client.ip)
		conn.Close()
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	UpdateWSConnections(0)
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	frame, err := newFrame(event, data)
	if err != nil {
		log.Printf("⚠️ Broadcast %s dropped: %v", event, err)
		return
	}

	select {
	case h.broadcast <- frame:
	default:
		// Channel full, skip (backpressure)
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop pushes the match snapshot to every client on a fixed
// cadence. Unchanged snapshots are not resent; new clients get the current
// snapshot when they connect.
func (h *WebSocketHub) StartBroadcastLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		var lastSequence uint64
		for {
			select {
			case <-h.stopChan:
				return
			case <-ticker.C:
			}

			if h.ClientCount() == 0 {
				continue
			}
			snap := h.engine.GetSnapshot()
			if snap.Sequence == lastSequence {
				continue
			}
			lastSequence = snap.Sequence
			h.Broadcast(EventMatchState, snap)
		}
	}()
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection.
// Add ?format=proto to receive binary protobuf frames.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Get client IP for rate limiting
	ip := GetClientIP(r)

	// Check total connection limit
	h.mu.RLock()
	totalConnections := len(h.clients)
	h.mu.RUnlock()

	if totalConnections >= h.config.MaxConnections {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", totalConnections)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	// Check per-IP connection limit
	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	// Upgrade to WebSocket
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip) // Release the slot we reserved
		return
	}
	conn.SetReadLimit(wsMaxMessage)

	client := &wsClient{
		id:      uuid.NewString(),
		conn:    conn,
		ip:      ip,
		proto:   r.URL.Query().Get("format") == "proto",
		limiter: NewCommandLimiter(h.config.CommandsPerSecond, h.config.CommandBurst),
	}

	select {
	case h.register <- client:
	case <-h.stopChan:
		h.wsLimiter.Release(ip)
		conn.Close()
		return
	}

	// Current state straight away, the broadcast loop only sends changes
	if frame, err := newFrame(EventMatchState, h.engine.GetSnapshot()); err == nil {
		client.write(frame.text, frame.binary)
	}

	// Read commands from client
	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.stopChan:
			}
		}()

		for {
			msgType, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			h.handleMessage(client, msgType == websocket.BinaryMessage, message)
		}
	}()
}

// handleMessage applies one inbound command. Commands over the rate limit
// are dropped silently; bad or refused commands get an error reply.
func (h *WebSocketHub) handleMessage(client *wsClient, binary bool, message []byte) {
	if !client.limiter.Allow() {
		RecordWSCommand("rate_limited")
		return
	}

	cmd, err := decodeCommand(binary, message)
	if err == nil {
		err = h.applyCommand(cmd)
	}

	switch {
	case err == nil:
		RecordWSCommand("applied")
		return
	case errors.Is(err, errCommandRejected):
		RecordWSCommand("rejected")
	default:
		RecordWSCommand("invalid")
	}

	if frame, ferr := newFrame(EventError, map[string]string{"message": err.Error()}); ferr == nil {
		client.write(frame.text, frame.binary)
	}
}

func (h *WebSocketHub) applyCommand(cmd wsCommand) error {
	switch cmd.Type {
	case "paddle":
		side, err := game.ParseSide(cmd.Side)
		if err != nil {
			return err
		}
		if cmd.X == nil || cmd.Y == nil {
			return fmt.Errorf("paddle command needs x and y")
		}
		if _, ok := h.engine.SetPaddlePosition(side, *cmd.X, *cmd.Y); !ok {
			return fmt.Errorf("paddle coordinates must be finite")
		}
		return nil

	case "mode":
		mode, err := game.ParseMode(cmd.Mode)
		if err != nil {
			return err
		}
		if !selectMode(h.engine, mode) {
			return fmt.Errorf("%w: mode can only be selected from the menu", errCommandRejected)
		}
		return nil

	case "restart":
		if !h.engine.Restart() {
			return fmt.Errorf("%w: only a finished match can be restarted", errCommandRejected)
		}
		return nil

	default:
		return fmt.Errorf("unknown command type %q", cmd.Type)
	}
}
