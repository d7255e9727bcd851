// Package config loads the YAML configuration of the zbewalgo command.
//
// A file only needs the keys it changes; everything else keeps the values
// of Default. Unknown keys are rejected.
//
//	max_output_size: 3248
//	early_abort_size: 400
//	bwt_max_alphabet: 90
//	search_retry_interval: 256
//	page_size: 4096
//	log_level: info
//	combinations:
//	  - bwt-mtf-huffman-jbe-rle
//	  - bitshuffle-rle
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/zbewalgo/compress"
	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/pagefile"
)

// EnvConfig names the environment variable Load reads the file path from.
const EnvConfig = "ZBEWALGO_CONFIG"

// Config is the command configuration.
type Config struct {
	// MaxOutputSize is the largest payload a record may carry.
	MaxOutputSize int `yaml:"max_output_size"`

	// EarlyAbortSize stops the combination search once a result is smaller.
	EarlyAbortSize int `yaml:"early_abort_size"`

	// BWTMaxAlphabet is the alphabet limit of the bwt transform.
	BWTMaxAlphabet int `yaml:"bwt_max_alphabet"`

	// SearchRetryInterval is the number of calls between search start
	// rotations.
	SearchRetryInterval int `yaml:"search_retry_interval"`

	// PageSize is the page size of written page files.
	PageSize int `yaml:"page_size"`

	// LogLevel is one of debug, info, warn and error.
	LogLevel string `yaml:"log_level"`

	// Combinations replaces the default combination set when not empty.
	Combinations []string `yaml:"combinations"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxOutputSize:       engine.DefaultMaxOutputSize,
		EarlyAbortSize:      engine.DefaultEarlyAbortSize,
		BWTMaxAlphabet:      compress.DefaultBWTMaxAlphabet,
		SearchRetryInterval: engine.DefaultRetryInterval,
		PageSize:            pagefile.DefaultPageSize,
		LogLevel:            "info",
	}
}

// Load loads the file named by ZBEWALGO_CONFIG, or returns Default when the
// variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		return Default(), nil
	}

	return LoadFile(path)
}

// LoadFile loads and validates a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML data over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.EarlyAbortSize = -1

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	// An unset early abort size follows a lowered max output size.
	if cfg.EarlyAbortSize == -1 {
		cfg.EarlyAbortSize = engine.DefaultEarlyAbortSize
		if cfg.MaxOutputSize < cfg.EarlyAbortSize {
			cfg.EarlyAbortSize = cfg.MaxOutputSize >> 1
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges. Combination names are checked when the
// engine is built.
func (c *Config) Validate() error {
	switch {
	case c.MaxOutputSize < 1 || c.MaxOutputSize > format.MaxPayloadSize:
		return fmt.Errorf("%w: max_output_size %d not in [1, %d]", errs.ErrInvalidConfig, c.MaxOutputSize, format.MaxPayloadSize)
	case c.EarlyAbortSize < 0 || c.EarlyAbortSize > c.MaxOutputSize:
		return fmt.Errorf("%w: early_abort_size %d not in [0, max_output_size]", errs.ErrInvalidConfig, c.EarlyAbortSize)
	case c.BWTMaxAlphabet < 1 || c.BWTMaxAlphabet > 256:
		return fmt.Errorf("%w: bwt_max_alphabet %d not in [1, 256]", errs.ErrInvalidConfig, c.BWTMaxAlphabet)
	case c.SearchRetryInterval < 1 || c.SearchRetryInterval > engine.MaxRetryInterval:
		return fmt.Errorf("%w: search_retry_interval %d not in [1, %d]", errs.ErrInvalidConfig, c.SearchRetryInterval, engine.MaxRetryInterval)
	case c.PageSize < 1 || c.PageSize > format.MaxInputSize:
		return fmt.Errorf("%w: page_size %d not in [1, %d]", errs.ErrInvalidConfig, c.PageSize, format.MaxInputSize)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// EngineOptions translates the configuration into engine options.
func (c *Config) EngineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithMaxOutputSize(c.MaxOutputSize),
		engine.WithEarlyAbortSize(c.EarlyAbortSize),
		engine.WithBWTMaxAlphabet(c.BWTMaxAlphabet),
		engine.WithRetryInterval(c.SearchRetryInterval),
	}
	if len(c.Combinations) > 0 {
		opts = append(opts, engine.WithCombinations(c.Combinations...))
	}

	return opts
}

// Level returns the parsed log level.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel parses debug, info, warn or error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", errs.ErrInvalidConfig, s)
	}
}
