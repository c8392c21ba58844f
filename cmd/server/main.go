package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"air-hockey/internal/api"
	"air-hockey/internal/config"
	"air-hockey/internal/game"
	"air-hockey/internal/streaming"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  AIR HOCKEY - GO ENGINE")
	log.Println("🎮 ================================")

	// Defaults < hockey.toml < environment
	configPath := getEnvWithDefault("CONFIG_PATH", "hockey.toml")
	appConfig, err := config.LoadFile(configPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	serverCfg := appConfig.Server
	limits := appConfig.Limits

	arena := appConfig.Arena.Game()
	log.Printf("🎮 Arena: %vx%v, broadcast every %v", arena.Width, arena.Height, serverCfg.BroadcastInterval)

	engine := game.NewEngine(game.EngineConfig{Arena: arena})
	api.InstrumentEngine(engine)

	// Start event log
	if path := appConfig.Journal.Path; path != "" {
		if err := engine.StartEventLog(path); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", path)
		}
	} else {
		log.Println("📝 Event log disabled")
	}

	// Start debug server
	debugServer := api.StartDebugServer(api.ObservabilityConfig{
		Enabled:       appConfig.Observability.Enabled,
		ListenAddr:    appConfig.Observability.ListenAddr,
		BasicAuthUser: appConfig.Observability.BasicAuthUser,
		BasicAuthPass: appConfig.Observability.BasicAuthPass,
	})

	// Frame rendering for /api/frame.png and /api/stream.mjpeg
	renderer := streaming.NewRenderer(arena, streaming.RenderConfig{
		Scale:       appConfig.Render.Scale,
		JPEGQuality: appConfig.Render.JPEGQuality,
		FontPath:    os.Getenv("FONT_PATH"),
	})
	streamer := streaming.NewMJPEGStreamer(engine, renderer, appConfig.Render.StreamFPS)
	streamer.Start()

	server := api.NewServer(engine, renderer, streamer, api.ServerConfig{
		CORSOrigins:       serverCfg.CORSOrigins,
		BroadcastInterval: serverCfg.BroadcastInterval,
		RateLimit: api.RateLimitConfig{
			RequestsPerSecond: limits.RequestsPerSecond,
			Burst:             limits.Burst,
			CleanupInterval:   api.DefaultRateLimitConfig.CleanupInterval,
		},
		Hub: api.HubConfig{
			MaxConnections:    limits.MaxWSConnections,
			MaxPerIP:          limits.MaxWSPerIP,
			CommandsPerSecond: limits.WSCommandsPerSecond,
			CommandBurst:      limits.WSCommandBurst,
			AllowedOrigins:    serverCfg.CORSOrigins,
		},
	})

	// Start game engine
	engine.Start()
	log.Println("✅ Game Engine started")

	// Start API server in goroutine
	go func() {
		addr := serverCfg.Addr()
		log.Printf("🌐 API server on http://localhost%s", addr)
		log.Printf("🖼️ Frame: http://localhost%s/api/frame.png", addr)
		log.Printf("🎥 Stream: http://localhost%s/api/stream.mjpeg", addr)

		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stream handlers exit once the streamer stops, so stop it before the listener
	streamer.Stop()
	if err := server.Stop(ctx); err != nil {
		log.Printf("⚠️ %v", err)
	}
	api.StopDebugServer(ctx, debugServer)
	engine.Stop()
	engine.StopEventLog()
	log.Println("👋 Goodbye!")
}

func getEnvWithDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
