package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Maps.Provider != ProviderMock {
		t.Errorf("provider = %q", cfg.Maps.Provider)
	}
	if cfg.Agent.OffTopicWarn != 5 || cfg.Agent.OffTopicStop != 8 {
		t.Errorf("thresholds = %d/%d", cfg.Agent.OffTopicWarn, cfg.Agent.OffTopicStop)
	}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Errorf("ttl = %v", cfg.SessionTTL())
	}
	if _, err := cfg.Location(); err != nil {
		t.Errorf("default timezone: %v", err)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Error("missing gemini key should fail")
	}

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ROVIS_PROVIDER", "google")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Error("google provider without key should fail")
	}

	t.Setenv("ROVIS_PROVIDER", "mock")
	t.Setenv("ROVIS_OFFTOPIC_WARN", "9")
	t.Setenv("ROVIS_OFFTOPIC_STOP", "8")
	if _, err := Load(); err == nil {
		t.Error("warn above stop should fail")
	}
}
