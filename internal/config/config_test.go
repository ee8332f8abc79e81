package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("WS_WRITE_TIMEOUT", "2s")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Fatalf("expected port override, got %s", cfg.Port)
	}
	if cfg.WSWriteTimeout != 2*time.Second {
		t.Fatalf("expected 2s write timeout, got %s", cfg.WSWriteTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.SessionCookie != "session_id" {
		t.Fatalf("expected default session cookie, got %s", cfg.SessionCookie)
	}
	if cfg.SessionMaxAge != 30*24*time.Hour {
		t.Fatalf("expected 30 day session, got %s", cfg.SessionMaxAge)
	}
}

func TestPongWaitExceedsPingInterval(t *testing.T) {
	t.Setenv("WS_PING_INTERVAL", "30s")
	t.Setenv("WS_PONG_WAIT", "10s")

	cfg := Load()
	if cfg.WSPongWait != time.Minute {
		t.Fatalf("expected pong wait raised to 1m, got %s", cfg.WSPongWait)
	}
}
