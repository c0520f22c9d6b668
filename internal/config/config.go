package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	IMessage  IMessageConfig  `mapstructure:"imessage"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// IMessageConfig holds phone-bridge configuration
type IMessageConfig struct {
	BridgeURL       string        `mapstructure:"bridge_url"`
	Phone           string        `mapstructure:"phone"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	FetchLimit      int           `mapstructure:"fetch_limit"`
	FreshnessWindow time.Duration `mapstructure:"freshness_window"`
	MinSendGap      time.Duration `mapstructure:"min_send_gap"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// DiscordConfig holds chat-platform configuration
type DiscordConfig struct {
	Token string `mapstructure:"token"`
	// BridgeChannel carries relayed phone messages and the bot replies the
	// correlator watches; ResponseChannel receives analysis summaries.
	BridgeChannel   string `mapstructure:"bridge_channel"`
	ResponseChannel string `mapstructure:"response_channel"`
}

// RelayConfig holds correlation timing configuration.
// The settle window and pending TTL are deliberately tunable: the reference
// behavior varied between deployments, so neither value is hard-coded.
type RelayConfig struct {
	SettleWindow  time.Duration `mapstructure:"settle_window"`
	PendingTTL    time.Duration `mapstructure:"pending_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// SourcesConfig holds the analysis data-source configuration.
// A source with an empty API key is disabled and skipped by the chain.
type SourcesConfig struct {
	YahooBaseURL       string        `mapstructure:"yahoo_base_url"`
	MarketAuxBaseURL   string        `mapstructure:"marketaux_base_url"`
	MarketAuxAPIKey    string        `mapstructure:"marketaux_api_key"`
	HuggingFaceBaseURL string        `mapstructure:"huggingface_base_url"`
	HuggingFaceAPIKey  string        `mapstructure:"huggingface_api_key"`
	HuggingFaceModel   string        `mapstructure:"huggingface_model"`
	Timeout            time.Duration `mapstructure:"timeout"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
}

// DashboardConfig holds the web dashboard configuration
type DashboardConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
	IngestURL  string `mapstructure:"ingest_url"`
	DBPath     string `mapstructure:"db_path"`
}

// TelegramConfig holds operator alert configuration
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// A .env file in the working directory is loaded first so that secrets can
// stay out of the config file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("BLOOMY")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Phone bridge defaults
	v.SetDefault("imessage.bridge_url", "http://localhost:3001")
	v.SetDefault("imessage.poll_interval", "3s")
	v.SetDefault("imessage.fetch_limit", 15)
	v.SetDefault("imessage.freshness_window", "1m")
	v.SetDefault("imessage.min_send_gap", "5s")
	v.SetDefault("imessage.timeout", "10s")

	// Discord defaults
	v.SetDefault("discord.bridge_channel", "imessage")
	v.SetDefault("discord.response_channel", "response")

	// Relay defaults
	v.SetDefault("relay.settle_window", "1s")
	v.SetDefault("relay.pending_ttl", "2m")
	v.SetDefault("relay.sweep_interval", "3m")

	// Source defaults
	v.SetDefault("sources.yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("sources.marketaux_base_url", "https://api.marketaux.com")
	v.SetDefault("sources.huggingface_base_url", "https://api-inference.huggingface.co")
	v.SetDefault("sources.huggingface_model", "mrm8488/distilroberta-finetuned-financial-news-sentiment-analysis")
	v.SetDefault("sources.timeout", "30s")
	v.SetDefault("sources.cache_ttl", "15m")

	// Dashboard defaults
	v.SetDefault("dashboard.enabled", true)
	v.SetDefault("dashboard.listen_addr", ":3000")
	v.SetDefault("dashboard.ingest_url", "http://localhost:3000/api/analysis")
	v.SetDefault("dashboard.db_path", "./data/analyses.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// The Discord token and the phone identifier are the two required
	// credentials; their absence is a startup failure, not a degraded mode.
	if c.Discord.Token == "" {
		return fmt.Errorf("discord.token is required")
	}
	if c.Discord.BridgeChannel == "" {
		return fmt.Errorf("discord.bridge_channel is required")
	}
	if c.Discord.ResponseChannel == "" {
		return fmt.Errorf("discord.response_channel is required")
	}
	if c.IMessage.Phone == "" {
		return fmt.Errorf("imessage.phone is required")
	}
	if c.IMessage.BridgeURL == "" {
		return fmt.Errorf("imessage.bridge_url is required")
	}
	if c.IMessage.PollInterval < time.Second {
		return fmt.Errorf("imessage.poll_interval must be at least 1 second")
	}
	if c.IMessage.FetchLimit < 1 {
		return fmt.Errorf("imessage.fetch_limit must be at least 1")
	}
	if c.IMessage.FreshnessWindow < time.Second {
		return fmt.Errorf("imessage.freshness_window must be at least 1 second")
	}

	if c.Relay.SettleWindow <= 0 {
		return fmt.Errorf("relay.settle_window must be positive")
	}
	if c.Relay.PendingTTL < c.Relay.SettleWindow {
		return fmt.Errorf("relay.pending_ttl must be at least the settle window")
	}
	if c.Relay.SweepInterval < time.Minute {
		return fmt.Errorf("relay.sweep_interval must be at least 1 minute")
	}

	if c.Sources.YahooBaseURL == "" {
		return fmt.Errorf("sources.yahoo_base_url is required")
	}
	if c.Sources.CacheTTL <= 0 {
		return fmt.Errorf("sources.cache_ttl must be positive")
	}

	if c.Dashboard.Enabled {
		if c.Dashboard.ListenAddr == "" {
			return fmt.Errorf("dashboard.listen_addr is required when dashboard is enabled")
		}
		if c.Dashboard.DBPath == "" {
			return fmt.Errorf("dashboard.db_path is required when dashboard is enabled")
		}
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
