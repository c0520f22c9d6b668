package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

const validConfig = `
imessage:
  bridge_url: "http://localhost:3001"
  phone: "5083970277"
  poll_interval: 3s
  fetch_limit: 15
  freshness_window: 1m
  min_send_gap: 5s

discord:
  token: "test_token"
  bridge_channel: "imessage"
  response_channel: "response"

relay:
  settle_window: 1s
  pending_ttl: 2m
  sweep_interval: 3m

sources:
  yahoo_base_url: "https://query1.finance.yahoo.com"
  cache_ttl: 15m

dashboard:
  enabled: true
  listen_addr: ":3000"
  db_path: "./data/test.db"

telegram:
  enabled: false

logging:
  level: "info"
  format: "text"
`

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.Discord.Token != "test_token" {
		t.Errorf("Expected discord token 'test_token', got '%s'", cfg.Discord.Token)
	}
	if cfg.IMessage.Phone != "5083970277" {
		t.Errorf("Expected phone '5083970277', got '%s'", cfg.IMessage.Phone)
	}
	if cfg.Relay.SettleWindow != time.Second {
		t.Errorf("Expected settle window 1s, got %v", cfg.Relay.SettleWindow)
	}
	if cfg.Sources.CacheTTL != 15*time.Minute {
		t.Errorf("Expected cache TTL 15m, got %v", cfg.Sources.CacheTTL)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Minimal file; everything else should come from defaults.
	path := writeConfig(t, `
discord:
  token: "t"
imessage:
  phone: "p"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.IMessage.PollInterval != 3*time.Second {
		t.Errorf("Expected default poll interval 3s, got %v", cfg.IMessage.PollInterval)
	}
	if cfg.IMessage.FreshnessWindow != time.Minute {
		t.Errorf("Expected default freshness window 1m, got %v", cfg.IMessage.FreshnessWindow)
	}
	if cfg.Relay.PendingTTL != 2*time.Minute {
		t.Errorf("Expected default pending TTL 2m, got %v", cfg.Relay.PendingTTL)
	}
	if cfg.Discord.ResponseChannel != "response" {
		t.Errorf("Expected default response channel 'response', got '%s'", cfg.Discord.ResponseChannel)
	}
	if cfg.Discord.BridgeChannel != "imessage" {
		t.Errorf("Expected default bridge channel 'imessage', got '%s'", cfg.Discord.BridgeChannel)
	}
	if cfg.Sources.HuggingFaceModel == "" {
		t.Error("Expected default Hugging Face model to be set")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate, got: %v", err)
	}
}

func TestValidateMissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "missing discord token",
			mutate:  func(c *Config) { c.Discord.Token = "" },
			wantErr: "discord.token",
		},
		{
			name:    "missing phone",
			mutate:  func(c *Config) { c.IMessage.Phone = "" },
			wantErr: "imessage.phone",
		},
		{
			name:    "telegram enabled without token",
			mutate:  func(c *Config) { c.Telegram.Enabled = true; c.Telegram.ChatID = "1" },
			wantErr: "telegram.bot_token",
		},
		{
			name:    "pending ttl below settle window",
			mutate:  func(c *Config) { c.Relay.PendingTTL = 500 * time.Millisecond },
			wantErr: "relay.pending_ttl",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, validConfig)
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
