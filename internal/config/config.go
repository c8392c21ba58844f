// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for server, arena and adapter settings.
//
// Values are resolved in three layers: built-in defaults, an optional TOML
// file (see LoadFile), then environment variables. Game rule constants such
// as puck size or the win score live in internal/game and are not
// configurable here.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"air-hockey/internal/game"
)

// =============================================================================
// ARENA CONFIGURATION
// =============================================================================

// ArenaConfig holds the board dimensions in arena pixels.
type ArenaConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// DefaultArena returns the 360x600 board.
func DefaultArena() ArenaConfig {
	return ArenaConfig{
		Width:  game.DefaultArenaWidth,
		Height: game.DefaultArenaHeight,
	}
}

// ArenaFromEnv returns arena configuration with environment variable overrides.
func ArenaFromEnv() ArenaConfig {
	cfg := DefaultArena()
	cfg.applyEnv()
	return cfg
}

func (c *ArenaConfig) applyEnv() {
	if w := getEnvFloat("ARENA_WIDTH", 0); w > 0 {
		c.Width = w
	}
	if h := getEnvFloat("ARENA_HEIGHT", 0); h > 0 {
		c.Height = h
	}
}

// Game converts the section into the engine's arena type.
func (c ArenaConfig) Game() game.Arena {
	return game.Arena{Width: c.Width, Height: c.Height}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port              int           `toml:"port"`
	CORSOrigins       []string      `toml:"cors_origins"`
	BroadcastInterval time.Duration `toml:"broadcast_interval"` // WebSocket state push cadence
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port: 3000,
		CORSOrigins: []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		},
		BroadcastInterval: 33 * time.Millisecond, // ~30 updates per second
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()
	cfg.applyEnv()
	return cfg
}

func (c *ServerConfig) applyEnv() {
	if p := getEnvInt("PORT", 0); p > 0 {
		c.Port = p
	}
	if origins := getEnvList("CORS_ORIGINS"); len(origins) > 0 {
		c.CORSOrigins = origins
	}
	if ms := getEnvInt("BROADCAST_INTERVAL_MS", 0); ms > 0 {
		c.BroadcastInterval = time.Duration(ms) * time.Millisecond
	}
}

// Addr returns the listen address for the API server.
func (c ServerConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection on the public surfaces.
type ResourceLimits struct {
	RequestsPerSecond   float64 `toml:"requests_per_second"`    // HTTP requests per IP
	Burst               int     `toml:"burst"`                  // HTTP burst per IP
	MaxWSConnections    int     `toml:"max_ws_connections"`     // Hard cap on WebSocket clients
	MaxWSPerIP          int     `toml:"max_ws_per_ip"`          // WebSocket clients per IP
	WSCommandsPerSecond float64 `toml:"ws_commands_per_second"` // Inbound commands per connection
	WSCommandBurst      int     `toml:"ws_command_burst"`
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		RequestsPerSecond:   10,
		Burst:               20,
		MaxWSConnections:    500,
		MaxWSPerIP:          10,
		WSCommandsPerSecond: 120, // paddle drags arrive at pointer-move rate
		WSCommandBurst:      60,
	}
}

// LimitsFromEnv returns resource limits with environment variable overrides.
func LimitsFromEnv() ResourceLimits {
	cfg := DefaultLimits()
	cfg.applyEnv()
	return cfg
}

func (c *ResourceLimits) applyEnv() {
	if v := getEnvFloat("RATE_LIMIT_RPS", 0); v > 0 {
		c.RequestsPerSecond = v
	}
	if v := getEnvInt("RATE_LIMIT_BURST", 0); v > 0 {
		c.Burst = v
	}
	if v := getEnvInt("MAX_WS_CONNECTIONS", 0); v > 0 {
		c.MaxWSConnections = v
	}
	if v := getEnvInt("MAX_WS_PER_IP", 0); v > 0 {
		c.MaxWSPerIP = v
	}
	if v := getEnvFloat("WS_COMMANDS_PER_SECOND", 0); v > 0 {
		c.WSCommandsPerSecond = v
	}
	if v := getEnvInt("WS_COMMAND_BURST", 0); v > 0 {
		c.WSCommandBurst = v
	}
}

// =============================================================================
// OBSERVABILITY CONFIGURATION
// =============================================================================

// ObservabilityConfig controls the localhost debug server.
type ObservabilityConfig struct {
	Enabled       bool   `toml:"enabled"`
	ListenAddr    string `toml:"listen_addr"`
	BasicAuthUser string `toml:"basic_auth_user"` // Optional; empty disables auth
	BasicAuthPass string `toml:"basic_auth_pass"`
}

// DefaultObservability returns safe defaults (localhost only).
func DefaultObservability() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

func (c *ObservabilityConfig) applyEnv() {
	if getEnvBool("DISABLE_DEBUG_SERVER", false) {
		c.Enabled = false
	}
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
	if user := os.Getenv("DEBUG_USER"); user != "" {
		c.BasicAuthUser = user
		c.BasicAuthPass = os.Getenv("DEBUG_PASSWORD")
	}
}

// =============================================================================
// JOURNAL CONFIGURATION
// =============================================================================

// JournalConfig controls the match event journal. An empty path disables it.
type JournalConfig struct {
	Path string `toml:"path"`
}

// DefaultJournal returns the default journal configuration.
func DefaultJournal() JournalConfig {
	return JournalConfig{Path: "events.jsonl"}
}

func (c *JournalConfig) applyEnv() {
	if v, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		c.Path = strings.TrimSpace(v)
	}
}

// =============================================================================
// RENDER CONFIGURATION
// =============================================================================

// RenderConfig holds settings for the PNG/MJPEG frame endpoints.
type RenderConfig struct {
	Scale       float64 `toml:"scale"`        // Output pixels per arena pixel
	JPEGQuality int     `toml:"jpeg_quality"` // 1-100
	StreamFPS   int     `toml:"stream_fps"`   // MJPEG frames per second
}

// DefaultRender returns the default render configuration.
func DefaultRender() RenderConfig {
	return RenderConfig{
		Scale:       1,
		JPEGQuality: 75,
		StreamFPS:   30,
	}
}

func (c *RenderConfig) applyEnv() {
	if v := getEnvFloat("RENDER_SCALE", 0); v > 0 {
		c.Scale = v
	}
	if v := getEnvInt("JPEG_QUALITY", 0); v > 0 {
		c.JPEGQuality = v
	}
	if v := getEnvInt("STREAM_FPS", 0); v > 0 {
		c.StreamFPS = v
	}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Arena         ArenaConfig         `toml:"arena"`
	Server        ServerConfig        `toml:"server"`
	Limits        ResourceLimits      `toml:"limits"`
	Observability ObservabilityConfig `toml:"observability"`
	Journal       JournalConfig       `toml:"journal"`
	Render        RenderConfig        `toml:"render"`
}

// Defaults returns the complete configuration with no overrides applied.
func Defaults() AppConfig {
	return AppConfig{
		Arena:         DefaultArena(),
		Server:        DefaultServer(),
		Limits:        DefaultLimits(),
		Observability: DefaultObservability(),
		Journal:       DefaultJournal(),
		Render:        DefaultRender(),
	}
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	cfg := Defaults()
	cfg.applyEnv()
	return cfg
}

func (c *AppConfig) applyEnv() {
	c.Arena.applyEnv()
	c.Server.applyEnv()
	c.Limits.applyEnv()
	c.Observability.applyEnv()
	c.Journal.applyEnv()
	c.Render.applyEnv()
}

// Validate rejects settings the server cannot run with.
func (c AppConfig) Validate() error {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("arena %vx%v: dimensions must be positive", c.Arena.Width, c.Arena.Height)
	}
	if !c.Arena.Game().Valid() {
		return fmt.Errorf("arena %vx%v: too small for both paddle regions", c.Arena.Width, c.Arena.Height)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("broadcast interval must be positive")
	}
	if c.Limits.RequestsPerSecond <= 0 || c.Limits.Burst <= 0 {
		return fmt.Errorf("http rate limit must be positive")
	}
	if c.Limits.MaxWSConnections <= 0 || c.Limits.MaxWSPerIP <= 0 {
		return fmt.Errorf("websocket connection caps must be positive")
	}
	if c.Render.JPEGQuality < 1 || c.Render.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality %d out of range 1-100", c.Render.JPEGQuality)
	}
	if c.Render.Scale <= 0 || c.Render.StreamFPS <= 0 {
		return fmt.Errorf("render scale and stream fps must be positive")
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
