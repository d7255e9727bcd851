package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/arloliu/zbewalgo/combination"
	"github.com/arloliu/zbewalgo/compress"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/internal/options"
)

// Engine holds the state shared by all workers: the registry, the
// combination table and the size knobs.
//
// All methods are safe for concurrent use. Knob changes and table commands
// are visible to workers from their next call on.
type Engine struct {
	registry      *compress.Registry
	table         *combination.Table
	logger        *slog.Logger
	observer      Observer
	retryInterval int

	mu             sync.Mutex // serializes knob writers
	maxOutputSize  atomic.Int32
	earlyAbortSize atomic.Int32
}

// New creates an engine.
//
// Parameters:
//   - opts: Engine options
//
// Returns:
//   - *Engine: The engine
//   - error: errs.ErrInvalidConfig for invalid knobs, or a combination error
//     when the configured table does not match the registry
func New(opts ...Option) (*Engine, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.earlyAbortSize > cfg.maxOutputSize {
		return nil, fmt.Errorf("%w: early abort size %d exceeds max output size %d",
			errs.ErrInvalidConfig, cfg.earlyAbortSize, cfg.maxOutputSize)
	}

	reg := cfg.registry
	if reg == nil {
		var err error
		if reg, err = defaultRegistry(cfg); err != nil {
			return nil, err
		}
	}
	table, err := buildTable(cfg, reg)
	if err != nil {
		return nil, err
	}
	if cfg.registry != nil {
		if err := claimRegistry(cfg, reg); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		registry:      reg,
		table:         table,
		logger:        cfg.logger,
		observer:      cfg.observer,
		retryInterval: cfg.retryInterval,
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}
	e.maxOutputSize.Store(int32(cfg.maxOutputSize))   //nolint: gosec
	e.earlyAbortSize.Store(int32(cfg.earlyAbortSize)) //nolint: gosec

	return e, nil
}

func defaultRegistry(cfg *Config) (*compress.Registry, error) {
	regOpts := []compress.RegistryOption{compress.WithMaxOutputSize(cfg.maxOutputSize)}
	if cfg.bwtMaxAlphabet > 0 {
		regOpts = append(regOpts, compress.WithBWTMaxAlphabet(cfg.bwtMaxAlphabet))
	}

	return compress.NewDefaultRegistry(regOpts...)
}

// claimRegistry takes ownership of a caller-supplied registry and applies
// the engine's knobs to it. The claim is dropped again when a knob is
// rejected.
func claimRegistry(cfg *Config, reg *compress.Registry) error {
	if err := reg.Claim(); err != nil {
		return err
	}
	if err := reg.SetMaxOutputSize(cfg.maxOutputSize); err != nil {
		reg.Release()
		return err
	}
	if cfg.bwtMaxAlphabet > 0 {
		if err := reg.SetMaxAlphabet(cfg.bwtMaxAlphabet); err != nil {
			reg.Release()
			return err
		}
	}

	return nil
}

func buildTable(cfg *Config, reg *compress.Registry) (*combination.Table, error) {
	if cfg.table != nil {
		for i, c := range cfg.table.Snapshot().All() {
			if err := c.Validate(reg.Count()); err != nil {
				return nil, fmt.Errorf("combination %d: %w", i, err)
			}
		}

		return cfg.table, nil
	}
	if len(cfg.combinations) == 0 {
		return combination.NewDefaultTable(reg)
	}

	combos, err := combination.ParseAll(reg, cfg.combinations)
	if err != nil {
		return nil, err
	}

	return combination.NewTable(combos)
}

// Registry returns the algorithm registry.
func (e *Engine) Registry() *compress.Registry {
	return e.registry
}

// Table returns the combination table.
func (e *Engine) Table() *combination.Table {
	return e.table
}

// MaxOutputSize returns the largest payload a record may carry.
func (e *Engine) MaxOutputSize() int {
	return int(e.maxOutputSize.Load())
}

// EarlyAbortSize returns the size below which the search stops at once.
func (e *Engine) EarlyAbortSize() int {
	return int(e.earlyAbortSize.Load())
}

// RetryInterval returns the number of calls between search start rotations.
func (e *Engine) RetryInterval() int {
	return e.retryInterval
}

// RequiredScratchSize returns the number of bytes a Workspace occupies:
// three staging buffers plus the largest algorithm scratch area.
func (e *Engine) RequiredScratchSize() int {
	return 3*format.BufferSize + e.registry.MaxScratchSize()
}

// SetMaxOutputSize changes the largest accepted payload. When n drops below
// the early-abort size, the early-abort size becomes n/2.
//
// Returns errs.ErrInvalidConfig when n is not in [1, format.MaxPayloadSize]
// or an algorithm cannot derive its limits from n.
func (e *Engine) SetMaxOutputSize(n int) error {
	if err := checkMaxOutputSize(n); err != nil {
		e.logger.Warn("rejected max output size", "value", n, "error", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.registry.SetMaxOutputSize(n); err != nil {
		e.logger.Warn("rejected max output size", "value", n, "error", err)
		return err
	}
	e.maxOutputSize.Store(int32(n)) //nolint: gosec
	if early := e.EarlyAbortSize(); n < early {
		e.earlyAbortSize.Store(int32(n >> 1)) //nolint: gosec
		e.logger.Info("early abort size lowered", "from", early, "to", n>>1)
	}
	e.logger.Info("max output size changed", "value", n)

	return nil
}

// SetEarlyAbortSize changes the early-abort size. It must not exceed the
// current maximum output size.
func (e *Engine) SetEarlyAbortSize(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if maxOut := e.MaxOutputSize(); n < 0 || n > maxOut {
		err := fmt.Errorf("%w: early abort size %d not in [0, %d]", errs.ErrInvalidConfig, n, maxOut)
		e.logger.Warn("rejected early abort size", "value", n, "error", err)

		return err
	}
	e.earlyAbortSize.Store(int32(n)) //nolint: gosec
	e.logger.Info("early abort size changed", "value", n)

	return nil
}

// SetBWTMaxAlphabet changes the alphabet limit of the BWT transform.
func (e *Engine) SetBWTMaxAlphabet(n int) error {
	if err := e.registry.SetMaxAlphabet(n); err != nil {
		e.logger.Warn("rejected bwt max alphabet", "value", n, "error", err)
		return err
	}
	e.logger.Info("bwt max alphabet changed", "value", n)

	return nil
}

// Exec runs one administrative table command: "add a-b-c", "set a-b-c" or
// "reset".
//
// Returns:
//   - bool: Whether the table changed
//   - error: errs.ErrInvalidCommand, errs.ErrUnknownAlgorithm,
//     errs.ErrInvalidCombination or errs.ErrTableFull
func (e *Engine) Exec(line string) (bool, error) {
	cmd, changed, err := combination.Exec(e.table, e.registry, line)
	if err != nil {
		e.logger.Warn("rejected combination command", "command", line, "error", err)
		return false, err
	}
	e.logger.Info("combination command applied",
		"command", cmd.Format(e.registry),
		"changed", changed,
		"combinations", e.table.Count())

	return changed, nil
}

// NewWorker creates a worker with a freshly allocated workspace.
func (e *Engine) NewWorker() *Worker {
	return &Worker{engine: e, ws: NewWorkspace(e.registry.MaxScratchWords())}
}

// NewWorkerWithWorkspace creates a worker on a caller-owned workspace.
//
// Returns errs.ErrScratchTooSmall when ws is smaller than the engine needs.
func (e *Engine) NewWorkerWithWorkspace(ws *Workspace) (*Worker, error) {
	if ws == nil || ws.Size() < e.RequiredScratchSize() {
		return nil, fmt.Errorf("%w: need %d bytes", errs.ErrScratchTooSmall, e.RequiredScratchSize())
	}

	return &Worker{engine: e, ws: ws}, nil
}
