// Package config loads container settings from .env files, the process
// environment and TOML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables read by Load and LoadFile.
const (
	EnvLogLevel        = "TOKENDI_LOG_LEVEL"
	EnvLogFormat       = "TOKENDI_LOG_FORMAT"
	EnvApp             = "TOKENDI_APP"
	EnvEagerSingletons = "TOKENDI_EAGER_SINGLETONS"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds the settings applied by tokendi.WithConfig.
type Config struct {
	Log             LogConfig `toml:"log"`
	EagerSingletons bool      `toml:"eager_singletons"`
}

type LogConfig struct {
	Level  string `toml:"level"`  // zerolog level name; "disabled" silences output
	Format string `toml:"format"` // console | json
	App    string `toml:"app"`
}

// Default returns the built-in settings: logging disabled, lazy singletons.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "disabled",
			Format: FormatConsole,
			App:    "tokendi",
		},
	}
}

// Load reads the given .env files (".env" when none are given) and builds
// a Config from the environment. Missing .env files are not an error;
// malformed ones are.
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		// .env is optional outside development
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("env file %s: %w", file, err)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFile decodes the TOML file at path over the defaults, then applies
// environment overrides.
//
//	eager_singletons = true
//
//	[log]
//	level = "debug"
//	format = "json"
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the level and format values.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.TrimSpace(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}

	switch c.Log.Format {
	case FormatConsole, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid log format %q (want %s or %s)", c.Log.Format, FormatConsole, FormatJSON)
	}
}

// Logger builds a zerolog logger writing to w. A nil w writes to stderr.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.TrimSpace(c.Log.Level))
	if err != nil {
		level = zerolog.Disabled
	}

	if c.Log.Format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(w).Level(level).With().Timestamp()
	if c.Log.App != "" {
		logger = logger.Str("app", c.Log.App)
	}
	return logger.Logger()
}

func (c *Config) applyEnv() error {
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Log.Format = strings.ToLower(v)
	}
	if v, ok := lookup(EnvApp); ok {
		c.Log.App = v
	}
	if v, ok := lookup(EnvEagerSingletons); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvEagerSingletons, err)
		}
		c.EagerSingletons = b
	}
	return nil
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}
