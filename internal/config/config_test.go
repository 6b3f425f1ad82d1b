package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if cfg.DiscordToken != "test-token" {
		t.Errorf("DiscordToken = %q", cfg.DiscordToken)
	}
	if cfg.StoragePath != "data/sounds.json" {
		t.Errorf("StoragePath = %q", cfg.StoragePath)
	}
	if cfg.CacheTTL != 168*time.Hour {
		t.Errorf("CacheTTL = %v, want 168h", cfg.CacheTTL)
	}
	if cfg.IdleTimeout != 15*time.Minute {
		t.Errorf("IdleTimeout = %v, want 15m", cfg.IdleTimeout)
	}
	if cfg.JoinTimeout != 30*time.Second {
		t.Errorf("JoinTimeout = %v, want 30s", cfg.JoinTimeout)
	}
	if cfg.ReconnectWindow != 5*time.Second {
		t.Errorf("ReconnectWindow = %v, want 5s", cfg.ReconnectWindow)
	}
	if cfg.MaxSoundsPerGuild != 100 {
		t.Errorf("MaxSoundsPerGuild = %d, want 100", cfg.MaxSoundsPerGuild)
	}
	if cfg.TempDir == "" {
		t.Error("TempDir should fall back to the system temp directory")
	}
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("IDLE_TIMEOUT", "90s")
	t.Setenv("MAX_SOUNDS_PER_GUILD", "5")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.IdleTimeout != 90*time.Second {
		t.Errorf("IdleTimeout = %v, want 90s", cfg.IdleTimeout)
	}
	if cfg.MaxSoundsPerGuild != 5 {
		t.Errorf("MaxSoundsPerGuild = %d, want 5", cfg.MaxSoundsPerGuild)
	}
}

func TestNewMissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	if _, err := New(); err == nil {
		t.Error("expected error when DISCORD_TOKEN is missing")
	}
}
