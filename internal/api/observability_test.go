package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"air-hockey/internal/game"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIsLoopbackAddr(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:6060", true},
		{"localhost:6060", true},
		{"[::1]:6060", true},
		{"0.0.0.0:6060", false},
		{":6060", false},
		{"10.1.2.3:6060", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		if got := isLoopbackAddr(tt.addr); got != tt.want {
			t.Errorf("isLoopbackAddr(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestDebugHandler(t *testing.T) {
	handler := NewDebugHandler(DefaultObservabilityConfig())

	for _, path := range []string{"/health", "/metrics"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestDebugHandlerBasicAuth(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.BasicAuthUser = "ops"
	cfg.BasicAuthPass = "secret"
	handler := NewDebugHandler(cfg)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without credentials, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.SetBasicAuth("ops", "secret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with credentials, got %d", rec.Code)
	}
}

func TestStartDebugServerDisabled(t *testing.T) {
	if srv := StartDebugServer(ObservabilityConfig{Enabled: false}); srv != nil {
		t.Error("Disabled debug server should return nil")
	}
}

func TestInstrumentEngine(t *testing.T) {
	engine := game.NewEngine(game.EngineConfig{Seed: 1})
	InstrumentEngine(engine)

	clamped := paddleClamped.WithLabelValues("bottom")
	before := testutil.ToFloat64(clamped)

	engine.SetPaddlePosition(game.SideBottom, -100, 0)
	engine.SetPaddlePosition(game.SideBottom, 100, 400) // inside, not counted

	if got := testutil.ToFloat64(clamped) - before; got != 1 {
		t.Errorf("Expected one clamp counted, got %v", got)
	}
}

func TestRecordHelpers(t *testing.T) {
	started := matchesStarted.WithLabelValues("first_to_10")
	before := testutil.ToFloat64(started)
	RecordMatchStarted(game.ModeFirstTo10)
	if got := testutil.ToFloat64(started) - before; got != 1 {
		t.Errorf("Expected match start counted, got %v", got)
	}

	clamps := paddleClamped.WithLabelValues("top")
	before = testutil.ToFloat64(clamps)
	RecordPaddleClamped(game.SideTop)
	if got := testutil.ToFloat64(clamps) - before; got != 1 {
		t.Errorf("Expected top clamp counted, got %v", got)
	}
}
