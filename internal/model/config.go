package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full service configuration, populated by viper from flags,
// WATCHDESK_* environment variables, the config file, and defaults.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Report  ReportConfig  `mapstructure:"report" yaml:"report"`
	Sources SourcesConfig `mapstructure:"sources" yaml:"sources"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
	I18n    I18nConfig    `mapstructure:"i18n" yaml:"i18n"`
	DataDir string        `mapstructure:"data_dir" yaml:"data_dir" validate:"required"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ReportConfig configures the submission pipeline.
type ReportConfig struct {
	Recipient  string        `mapstructure:"recipient" yaml:"recipient" validate:"required,email"`
	PageURL    string        `mapstructure:"page_url" yaml:"page_url" validate:"required,url"`
	ProfileURL string        `mapstructure:"profile_url" yaml:"profile_url" validate:"required,url"`
	Cooldown   time.Duration `mapstructure:"cooldown" yaml:"cooldown" validate:"min=0"`
}

// SourcesConfig configures the polled JSON documents.
type SourcesConfig struct {
	ReportsURL   string        `mapstructure:"reports_url" yaml:"reports_url" validate:"required,url"`
	MarketURL    string        `mapstructure:"market_url" yaml:"market_url" validate:"required,url"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" validate:"gt=0"`
	SnapshotTTL  time.Duration `mapstructure:"snapshot_ttl" yaml:"snapshot_ttl" validate:"gt=0"`
}

// HTTPConfig configures outbound fetches.
type HTTPConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent    string        `mapstructure:"user_agent" yaml:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes" validate:"min=1024"`
	HTTPProxy    string        `mapstructure:"http_proxy" yaml:"http_proxy"`
	HTTPSProxy   string        `mapstructure:"https_proxy" yaml:"https_proxy"`
	NoProxy      string        `mapstructure:"no_proxy" yaml:"no_proxy"`
	RatePerHost  float64       `mapstructure:"rate_per_host" yaml:"rate_per_host"`
}

// I18nConfig configures message catalog overlays.
type I18nConfig struct {
	OverlayDir string `mapstructure:"overlay_dir" yaml:"overlay_dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8787",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Report: ReportConfig{
			Recipient:  "whalebreaker2025@gmail.com",
			PageURL:    "https://whaleprotocol.org/report",
			ProfileURL: "https://x.com/Protocol_WPO",
			Cooldown:   30 * time.Second,
		},
		Sources: SourcesConfig{
			ReportsURL:   "https://whaleprotocol.org/reports.json",
			MarketURL:    "https://whaleprotocol.org/data/top20.json",
			PollInterval: 5 * time.Minute,
			SnapshotTTL:  30 * time.Minute,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "watchdesk/0.1 (+https://github.com/whaleprotocol/watchdesk)",
			MaxBodyBytes: 2_000_000,
			RatePerHost:  1,
		},
		DataDir: ".watchdesk",
	}
}

// Validate checks structural constraints on the configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
