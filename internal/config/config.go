package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type HIDConfig struct {
	VendorID  uint16 `mapstructure:"vendor_id"`
	ProductID uint16 `mapstructure:"product_id"`
	UsagePage uint16 `mapstructure:"usage_page"`
	Usage     uint16 `mapstructure:"usage"`
}

type SessionConfig struct {
	TickMs           int `mapstructure:"tick_ms"`
	ReconnectSeconds int `mapstructure:"reconnect_seconds"`
	LivenessSeconds  int `mapstructure:"liveness_seconds"`
	ReadTimeoutMs    int `mapstructure:"read_timeout_ms"`
}

type CadenceConfig struct {
	MediaSeconds    int `mapstructure:"media_seconds"`
	DateTimeSeconds int `mapstructure:"datetime_seconds"`
	WeatherSeconds  int `mapstructure:"weather_seconds"`
}

type WeatherConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

type ScoresConfig struct {
	Path string `mapstructure:"path"`
}

type Config struct {
	HID     HIDConfig     `mapstructure:"hid"`
	Session SessionConfig `mapstructure:"session"`
	Cadence CadenceConfig `mapstructure:"cadence"`
	Weather WeatherConfig `mapstructure:"weather"`
	Scores  ScoresConfig  `mapstructure:"scores"`
	Logging LoggingConfig `mapstructure:"logging"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// env overrides: KEYBRIDGE_WEATHER_LATITUDE etc. (optional)
	v.SetEnvPrefix("keybridge")
	v.AutomaticEnv()

	// Defaults: the QMK Raw HID identifiers and the original cadences
	v.SetDefault("hid.vendor_id", 0xFEED)
	v.SetDefault("hid.product_id", 0x1805)
	v.SetDefault("hid.usage_page", 0xFF60)
	v.SetDefault("hid.usage", 0x61)
	v.SetDefault("session.tick_ms", 50)
	v.SetDefault("session.reconnect_seconds", 2)
	v.SetDefault("session.liveness_seconds", 1)
	v.SetDefault("session.read_timeout_ms", 10)
	v.SetDefault("cadence.media_seconds", 1)
	v.SetDefault("cadence.datetime_seconds", 60)
	v.SetDefault("cadence.weather_seconds", 600)
	v.SetDefault("weather.enabled", false)
	v.SetDefault("scores.path", "highscores.json")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// quick sanity checks
	if cfg.Session.TickMs < 10 {
		cfg.Session.TickMs = 50
	}
	if cfg.Session.ReconnectSeconds < 1 {
		cfg.Session.ReconnectSeconds = 2
	}
	if cfg.Session.ReadTimeoutMs < 1 {
		cfg.Session.ReadTimeoutMs = 10
	}
	if cfg.Cadence.WeatherSeconds < 60 {
		cfg.Cadence.WeatherSeconds = 600
	}

	return &cfg, nil
}
