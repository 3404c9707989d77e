// Package config loads and validates the Serika configuration.
// Values come from a TOML file with secrets overridable from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath   = "config.toml"
	DefaultHTTPAddr     = ":8080"
	DefaultModelName    = "gemini-pro"
	DefaultPromptPath   = "prompt.txt"
	DefaultKeyword      = "Serika"
	DefaultPageMaxChars = 4000
	DefaultPGHost       = "127.0.0.1"
	DefaultPGPort       = 5432
	DefaultPGUser       = "postgres"
	DefaultPGDatabase   = "serika"
	DefaultPGSSLMode    = "disable"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Gateway  GatewayConfig  `toml:"gateway"`
	Discord  DiscordConfig  `toml:"discord"`
	Telegram TelegramConfig `toml:"telegram"`
	Model    ModelConfig    `toml:"model"`
	Prompt   PromptConfig   `toml:"prompt"`
	Trigger  TriggerConfig  `toml:"trigger"`
	Session  SessionConfig  `toml:"session"`
	Enrich   EnrichConfig   `toml:"enrich"`
	Postgres PostgresConfig `toml:"postgres"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// GatewayConfig selects the chat platform the agent connects to.
type GatewayConfig struct {
	Platform string `toml:"platform" validate:"oneof=discord telegram"`
}

type DiscordConfig struct {
	BotToken string `toml:"bot_token"`
}

type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
}

// ModelConfig carries the generation parameters sent with every model call.
type ModelConfig struct {
	Name            string  `toml:"name"`
	APIKey          string  `toml:"api_key"`
	MaxOutputTokens int32   `toml:"max_output_tokens" validate:"gt=0"`
	Temperature     float32 `toml:"temperature" validate:"gte=0,lte=1"`
	TopP            float32 `toml:"top_p" validate:"gte=0,lte=1"`
	// SafetyThreshold applies to all harm categories:
	// block_none, block_only_high, block_medium_and_above, block_low_and_above.
	SafetyThreshold string `toml:"safety_threshold" validate:"oneof=block_none block_only_high block_medium_and_above block_low_and_above"`
	TimeoutSeconds  int    `toml:"timeout_seconds" validate:"gt=0"`
}

type PromptConfig struct {
	Path string `toml:"path"`
}

// TriggerConfig controls when an incoming message warrants a model call.
type TriggerConfig struct {
	Keyword string `toml:"keyword"`
	// RandomPercent is the chance (0-100) of replying to an arbitrary message.
	RandomPercent int `toml:"random_percent" validate:"gte=0,lte=100"`
	// ReplyOnBlocked substitutes a neutral notice when the model refuses.
	ReplyOnBlocked bool `toml:"reply_on_blocked"`
}

// SessionConfig controls session eviction. IdleTTLMinutes 0 keeps sessions
// for the process lifetime.
type SessionConfig struct {
	IdleTTLMinutes int    `toml:"idle_ttl_minutes" validate:"gte=0"`
	SweepSchedule  string `toml:"sweep_schedule"`
}

type EnrichConfig struct {
	YouTubeAPIKey       string `toml:"youtube_api_key"`
	SpotifyClientID     string `toml:"spotify_client_id"`
	SpotifyClientSecret string `toml:"spotify_client_secret"`
	PageMaxChars        int    `toml:"page_max_chars" validate:"gt=0"`
	TimeoutSeconds      int    `toml:"timeout_seconds" validate:"gt=0"`
}

type PostgresConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// ConnString renders a pgx-compatible connection string.
func (c PostgresConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Load reads the config file at path (DefaultConfigPath if empty), applies
// defaults first and environment overrides last. A missing file is not an
// error: defaults plus environment are enough to run.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Gateway: GatewayConfig{
			Platform: "discord",
		},
		Model: ModelConfig{
			Name:            DefaultModelName,
			MaxOutputTokens: 1280,
			Temperature:     0.7,
			TopP:            1.0,
			SafetyThreshold: "block_none",
			TimeoutSeconds:  60,
		},
		Prompt: PromptConfig{
			Path: DefaultPromptPath,
		},
		Trigger: TriggerConfig{
			Keyword:       DefaultKeyword,
			RandomPercent: 0,
		},
		Session: SessionConfig{
			IdleTTLMinutes: 0,
			SweepSchedule:  "@every 10m",
		},
		Enrich: EnrichConfig{
			PageMaxChars:   DefaultPageMaxChars,
			TimeoutSeconds: 10,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints declared on the config structs.
func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		env string
		dst *string
	}{
		{"DISCORD_BOT_TOKEN", &cfg.Discord.BotToken},
		{"TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken},
		{"GEMINI_API_KEY", &cfg.Model.APIKey},
		{"YOUTUBE_API_KEY", &cfg.Enrich.YouTubeAPIKey},
		{"SPOTIFY_CLIENT_ID", &cfg.Enrich.SpotifyClientID},
		{"SPOTIFY_CLIENT_SECRET", &cfg.Enrich.SpotifyClientSecret},
		{"POSTGRES_PASSWORD", &cfg.Postgres.Password},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}
