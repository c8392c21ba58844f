package api

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsAllowedOrigin(t *testing.T) {
	allowed := []string{"http://localhost:*", "https://*.rink.example", "https://rink.example"}

	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"http://localhost:", true},
		{"https://rink.example", true},
		{"https://play.rink.example", true},
		{"https://rink.example.evil", false},
		{"https://evilrink.example", false},
		{"http://127.0.0.1:3000", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsAllowedOrigin(tt.origin, allowed); got != tt.want {
			t.Errorf("IsAllowedOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}

	if !IsAllowedOrigin("https://anything.example", []string{"*"}) {
		t.Error("Bare wildcard should allow every origin")
	}
}

func TestIPRateLimiterBurst(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 3})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("Request %d within burst should pass", i)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Request past burst should be rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("Other IPs have their own bucket")
	}

	stats := rl.GetStats()
	if stats["allowed"] != 4 || stats["rejected"] != 1 {
		t.Errorf("Unexpected stats %v", stats)
	}
}

func TestIPRateLimiterCleanup(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Millisecond})
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	time.Sleep(5 * time.Millisecond)
	rl.cleanup()

	if _, ok := rl.limiters.Load("10.0.0.1"); ok {
		t.Error("Stale limiter should be removed")
	}
}

func TestWebSocketRateLimiter(t *testing.T) {
	wrl := NewWebSocketRateLimiter(2)

	if !wrl.Allow("ip") || !wrl.Allow("ip") {
		t.Fatal("First two connections should be allowed")
	}
	if wrl.Allow("ip") {
		t.Error("Third connection should be rejected")
	}
	wrl.Release("ip")
	if wrl.GetConnectionCount("ip") != 1 {
		t.Errorf("Expected 1 after release, got %d", wrl.GetConnectionCount("ip"))
	}
	if !wrl.Allow("ip") {
		t.Error("Released slot should be reusable")
	}
	if wrl.GetStats()["rejected"] != 1 {
		t.Errorf("Expected 1 rejection, got %v", wrl.GetStats())
	}
}

func TestCommandLimiter(t *testing.T) {
	unlimited := NewCommandLimiter(0, 0)
	for i := 0; i < 1000; i++ {
		if !unlimited.Allow() {
			t.Fatal("Zero rate should disable limiting")
		}
	}

	limited := NewCommandLimiter(1, 0)
	if !limited.Allow() {
		t.Error("First command should pass with minimum burst")
	}
	if limited.Allow() {
		t.Error("Second immediate command should be limited")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.1:80", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.7 "}, "10.0.0.1:80", "198.51.100.7"},
		{"no port", nil, "192.0.2.9", "192.0.2.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
