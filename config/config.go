// Package config loads halo settings from the environment.
//
// Variables are read from the process environment after loading an optional
// .env file, all prefixed with HALO_:
//
//	HALO_RADIUS            indicator radius in surface units (40)
//	HALO_MARGIN            extra damage margin around the indicator (10)
//	HALO_BACKGROUND_COLOR  overlay color, #rrggbbaa (#000000bf)
//	HALO_INDICATOR_COLOR   indicator color, #rrggbbaa (#ffffff3f)
//	HALO_BACKGROUND        image painted instead of the overlay color
//	HALO_BUFFER_TIMEOUT    idle time before a buffer is freed (3s)
//	HALO_LOG_LEVEL         debug, info, warn or error (warn)
//	HALO_DISPLAY           Wayland display, defaults to $WAYLAND_DISPLAY
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"

	"github.com/gogpu/halo"
)

// Prefix is prepended to every environment variable name.
const Prefix = "HALO"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Config holds every runtime setting.
type Config struct {
	Radius          int           `envconfig:"RADIUS" default:"40"`
	Margin          int           `envconfig:"MARGIN" default:"10"`
	BackgroundColor Color         `envconfig:"BACKGROUND_COLOR" default:"#000000bf"`
	IndicatorColor  Color         `envconfig:"INDICATOR_COLOR" default:"#ffffff3f"`
	Background      string        `envconfig:"BACKGROUND"`
	BufferTimeout   time.Duration `envconfig:"BUFFER_TIMEOUT" default:"3s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"warn"`
	Display         string        `envconfig:"DISPLAY"`
}

// Load reads the given .env files (".env" when none are named; missing
// files are ignored), then the environment, and validates the result.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Radius <= 0 {
		return fmt.Errorf("%w: radius must be positive, got %d", ErrInvalid, c.Radius)
	}
	if c.Margin < 0 {
		return fmt.Errorf("%w: margin must not be negative, got %d", ErrInvalid, c.Margin)
	}
	if c.BufferTimeout <= 0 {
		return fmt.Errorf("%w: buffer timeout must be positive, got %s", ErrInvalid, c.BufferTimeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel parses a slog level name such as "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}
	return l, nil
}

// Color is a halo.RGBA settable from "#rrggbbaa" strings by envconfig and
// by command-line flags.
type Color struct {
	halo.RGBA
}

// Decode implements envconfig.Decoder.
func (c *Color) Decode(value string) error {
	return c.Set(value)
}

// Set implements pflag.Value.
func (c *Color) Set(value string) error {
	rgba, err := halo.ParseHex(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	c.RGBA = rgba
	return nil
}

// Type implements pflag.Value.
func (c *Color) Type() string { return "color" }

var (
	_ envconfig.Decoder = (*Color)(nil)
	_ pflag.Value       = (*Color)(nil)
)
