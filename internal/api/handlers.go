package api

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"air-hockey/internal/game"

	"github.com/go-chi/chi/v5"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.GetSnapshot())
}

func (h *routerHandlers) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	arena := h.engine.Arena()
	writeJSON(w, map[string]interface{}{
		"arena":           arena,
		"puckSize":        game.PuckSize,
		"paddleSize":      game.PaddleSize,
		"puckSpeed":       game.PuckSpeed,
		"winScore":        game.WinScore,
		"roundSeconds":    game.RoundSeconds,
		"tickIntervalMs":  game.TickInterval.Milliseconds(),
		"clockIntervalMs": game.ClockInterval.Milliseconds(),
		"paddleRegions": map[string]game.Region{
			"bottom": arena.PaddleRegion(game.SideBottom),
			"top":    arena.PaddleRegion(game.SideTop),
		},
	})
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	snapshot := h.engine.GetSnapshot()
	stats := map[string]interface{}{
		"matchId":    snapshot.MatchID,
		"phase":      snapshot.Phase,
		"mode":       snapshot.Mode,
		"tickNumber": snapshot.TickNumber,
		"sequence":   snapshot.Sequence,
		"streaming":  false,
	}
	if h.streamer != nil {
		stats["streaming"] = h.streamer.IsStreaming()
		stats["streamStats"] = h.streamer.GetStats()
	}
	writeJSON(w, stats)
}

func (h *routerHandlers) handleSelectMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !selectMode(h.engine, mode) {
		writeError(w, "Mode can only be selected from the menu", http.StatusConflict)
		return
	}
	writeJSON(w, h.engine.GetSnapshot())
}

func (h *routerHandlers) handleRestart(w http.ResponseWriter, r *http.Request) {
	if !h.engine.Restart() {
		writeError(w, "Only a finished match can be restarted", http.StatusConflict)
		return
	}
	log.Println("🔄 Match restarted via API")
	writeJSON(w, h.engine.GetSnapshot())
}

func (h *routerHandlers) handleSetPaddle(w http.ResponseWriter, r *http.Request) {
	side, err := game.ParseSide(chi.URLParam(r, "side"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.X == nil || req.Y == nil {
		writeError(w, "x and y are required", http.StatusBadRequest)
		return
	}

	pos, ok := h.engine.SetPaddlePosition(side, *req.X, *req.Y)
	if !ok {
		writeError(w, "Coordinates must be finite", http.StatusBadRequest)
		return
	}

	writeJSON(w, game.PaddleSnapshot{Side: side, X: pos.X, Y: pos.Y})
}

func (h *routerHandlers) handleFrame(w http.ResponseWriter, r *http.Request) {
	if h.frames == nil {
		writeError(w, "Frame rendering disabled", http.StatusServiceUnavailable)
		return
	}

	// Encode fully before writing so a failure can still become a 500
	var buf bytes.Buffer
	if err := h.frames.WritePNG(&buf, h.engine.GetSnapshot()); err != nil {
		log.Printf("❌ Frame render failed: %v", err)
		writeError(w, "Render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *routerHandlers) handleStream(w http.ResponseWriter, r *http.Request) {
	if h.streamer == nil {
		writeError(w, "Streaming disabled", http.StatusServiceUnavailable)
		return
	}
	h.streamer.ServeHTTP(w, r)
}

// selectMode starts a match and counts it. Shared by HTTP and WebSocket.
func selectMode(engine EngineInterface, mode game.Mode) bool {
	if !engine.SelectMode(mode) {
		return false
	}
	RecordMatchStarted(mode)
	return true
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
