package engine

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/zbewalgo/combination"
	"github.com/arloliu/zbewalgo/compress"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/internal/options"
)

const (
	// DefaultMaxOutputSize is the default upper bound for a record payload.
	DefaultMaxOutputSize = compress.DefaultMaxOutputSize

	// DefaultEarlyAbortSize is the default size below which the search stops.
	DefaultEarlyAbortSize = 400

	// DefaultRetryInterval is the default number of calls between two
	// rotations of the search start.
	DefaultRetryInterval = 256

	// MaxRetryInterval is the largest interval SearchHistory can count.
	MaxRetryInterval = 256
)

// Config holds the engine settings collected from options.
type Config struct {
	maxOutputSize  int
	earlyAbortSize int
	bwtMaxAlphabet int // 0 keeps the registry's value
	retryInterval  int
	logger         *slog.Logger
	observer       Observer
	registry       *compress.Registry
	table          *combination.Table
	combinations   []string
}

// Option configures an Engine.
type Option = options.Option[*Config]

func newConfig() *Config {
	return &Config{
		maxOutputSize:  DefaultMaxOutputSize,
		earlyAbortSize: DefaultEarlyAbortSize,
		retryInterval:  DefaultRetryInterval,
	}
}

// WithMaxOutputSize sets the largest payload a record may carry.
// Valid values are 1 to format.MaxPayloadSize.
func WithMaxOutputSize(n int) Option {
	return options.New(func(c *Config) error {
		if err := checkMaxOutputSize(n); err != nil {
			return err
		}
		c.maxOutputSize = n

		return nil
	})
}

// WithEarlyAbortSize sets the size below which the search stops at once.
// It must not exceed the maximum output size, which is checked by New.
func WithEarlyAbortSize(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: early abort size %d", errs.ErrInvalidConfig, n)
		}
		c.earlyAbortSize = n

		return nil
	})
}

// WithBWTMaxAlphabet sets the alphabet limit of the BWT transform.
func WithBWTMaxAlphabet(n int) Option {
	return options.New(func(c *Config) error {
		if n < 1 || n > 256 {
			return fmt.Errorf("%w: bwt max alphabet %d not in [1, 256]", errs.ErrInvalidConfig, n)
		}
		c.bwtMaxAlphabet = n

		return nil
	})
}

// WithRetryInterval sets how many calls a worker keeps starting at its cached
// best combination before it rotates the start by one.
func WithRetryInterval(n int) Option {
	return options.New(func(c *Config) error {
		if n < 1 || n > MaxRetryInterval {
			return fmt.Errorf("%w: retry interval %d not in [1, %d]", errs.ErrInvalidConfig, n, MaxRetryInterval)
		}
		c.retryInterval = n

		return nil
	})
}

// WithLogger sets the logger for administrative events. The compress and
// decompress paths never log. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = logger
	})
}

// WithObserver registers an observer for per-call events.
func WithObserver(o Observer) Option {
	return options.NoError(func(c *Config) {
		c.observer = o
	})
}

// WithRegistry uses reg instead of the default registry. The engine claims
// reg because knob changes retune its algorithms; a registry already claimed
// by another engine is rejected with errs.ErrInvalidConfig.
func WithRegistry(reg *compress.Registry) Option {
	return options.NoError(func(c *Config) {
		c.registry = reg
	})
}

// WithTable uses an existing combination table, for example to share one
// table between engines.
func WithTable(t *combination.Table) Option {
	return options.NoError(func(c *Config) {
		c.table = t
	})
}

// WithCombinations installs the given "name-name-..." pipelines instead of
// the default set. They also become the set restored by "reset".
func WithCombinations(texts ...string) Option {
	return options.NoError(func(c *Config) {
		c.combinations = append([]string(nil), texts...)
	})
}

func checkMaxOutputSize(n int) error {
	if n < 1 || n > format.MaxPayloadSize {
		return fmt.Errorf("%w: max output size %d not in [1, %d]", errs.ErrInvalidConfig, n, format.MaxPayloadSize)
	}

	return nil
}
