package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"air-hockey/internal/game"

	"github.com/go-chi/chi/v5"
)

// ServerConfig holds the server's adapter settings.
type ServerConfig struct {
	CORSOrigins       []string
	BroadcastInterval time.Duration
	RateLimit         RateLimitConfig
	Hub               HubConfig
	DisableLogging    bool
}

// DefaultServerConfig returns production defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		BroadcastInterval: 33 * time.Millisecond,
		RateLimit:         DefaultRateLimitConfig,
		Hub:               DefaultHubConfig(),
	}
}

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with WebSocket hub for real-time updates.
type Server struct {
	engine      *game.Engine
	config      ServerConfig
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
}

// NewServer creates a new API server.
//
// IMPORTANT: Background workers do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// starting goroutines or opening network listeners.
//
// frames and streamer may be nil to disable the image endpoints.
func NewServer(engine *game.Engine, frames FrameRenderer, streamer StreamerInterface, cfg ServerConfig) *Server {
	if cfg.Hub.AllowedOrigins == nil {
		cfg.Hub.AllowedOrigins = cfg.CORSOrigins
	}

	s := &Server{
		engine:      engine,
		config:      cfg,
		wsHub:       NewWebSocketHub(engine, cfg.Hub),
		rateLimiter: NewIPRateLimiter(cfg.RateLimit),
	}

	s.router = NewRouter(RouterConfig{
		Engine:         engine,
		Frames:         frames,
		Streamer:       streamer,
		RateLimiter:    s.rateLimiter,
		CORSOrigins:    cfg.CORSOrigins,
		DisableLogging: cfg.DisableLogging,
	})

	// WebSocket endpoint needs the hub instance, so it can't be part of
	// the generic NewRouter factory.
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	return s
}

// Start wires engine events to the hub, starts background workers, and
// serves HTTP until Stop. It returns nil after a clean shutdown.
//
// Call this method only once.
func (s *Server) Start(addr string) error {
	s.engine.SetCallbacks(s.onGoal, s.onFinish)

	// Start background workers NOW, not in constructor
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.config.BroadcastInterval)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("🏒 WebSocket: ws://localhost%s/ws", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return nil
}

func (s *Server) onGoal(ev game.GoalEvent) {
	RecordGoal(ev)
	s.wsHub.Broadcast(EventMatchGoal, ev)
}

func (s *Server) onFinish(snap *game.GameSnapshot) {
	RecordMatchFinished(snap)
	s.wsHub.Broadcast(EventMatchFinished, snap)
}

// Router returns the HTTP handler for use with httptest.
// Use this in integration tests instead of calling Start().
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Stop performs graceful shutdown of the listener and background workers.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		if serr := s.httpServer.Shutdown(ctx); serr != nil {
			err = fmt.Errorf("shutdown: %w", serr)
		}
	}
	s.engine.SetCallbacks(nil, nil)
	s.wsHub.Stop()
	s.rateLimiter.Stop()
	return err
}
