package compress

import (
	"fmt"
	"sync/atomic"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/internal/options"
)

// DefaultMaxOutputSize is the default upper bound for a record payload:
// a page minus the space a swap slot reserves for its own metadata.
const DefaultMaxOutputSize = 3264 - 8 - 8

// Registry is an ordered, immutable list of algorithms. The position of an
// algorithm is its identifier inside combinations and record headers.
//
// The tuning knobs of its algorithms are shared by every user, so a registry
// serves one engine at a time; see Claim.
type Registry struct {
	algs            []Algorithm
	byName          map[string]format.AlgorithmID
	maxScratchWords int
	claimed         atomic.Bool
}

// NewRegistry creates a registry from algs, assigning identifiers in order.
//
// Parameters:
//   - algs: Algorithms to register, at most format.MaxAlgorithms
//
// Returns:
//   - *Registry: The registry
//   - error: errs.ErrTooManyAlgorithms, errs.ErrDuplicateAlgorithm
func NewRegistry(algs ...Algorithm) (*Registry, error) {
	if len(algs) == 0 || len(algs) > format.MaxAlgorithms {
		return nil, fmt.Errorf("%w: %d algorithms", errs.ErrTooManyAlgorithms, len(algs))
	}

	r := &Registry{
		algs:   make([]Algorithm, len(algs)),
		byName: make(map[string]format.AlgorithmID, len(algs)),
	}
	for i, alg := range algs {
		name := alg.Name()
		if _, ok := r.byName[name]; ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateAlgorithm, name)
		}
		r.algs[i] = alg
		r.byName[name] = format.AlgorithmID(i) //nolint: gosec
		r.maxScratchWords = max(r.maxScratchWords, alg.ScratchWords())
	}

	return r, nil
}

// RegistryConfig holds the tuning knobs of the default algorithms.
type RegistryConfig struct {
	bwtMaxAlphabet int
	maxOutputSize  int
}

// RegistryOption configures NewDefaultRegistry.
type RegistryOption = options.Option[*RegistryConfig]

// WithBWTMaxAlphabet sets the alphabet limit of the BWT transform.
func WithBWTMaxAlphabet(n int) RegistryOption {
	return options.NoError(func(c *RegistryConfig) {
		c.bwtMaxAlphabet = n
	})
}

// WithMaxOutputSize sets the maximum output size that size-aware algorithms
// derive their internal limits from.
func WithMaxOutputSize(n int) RegistryOption {
	return options.NoError(func(c *RegistryConfig) {
		c.maxOutputSize = n
	})
}

// NewDefaultRegistry creates the standard nine-algorithm registry:
// bewalgo, bewalgo2, bitshuffle, bwt, jbe, jbe2, mtf, rle and huffman.
func NewDefaultRegistry(opts ...RegistryOption) (*Registry, error) {
	cfg := &RegistryConfig{
		bwtMaxAlphabet: DefaultBWTMaxAlphabet,
		maxOutputSize:  DefaultMaxOutputSize,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	bwt, err := NewBWT(cfg.bwtMaxAlphabet)
	if err != nil {
		return nil, err
	}
	bewalgo2, err := NewBewalgo2(cfg.maxOutputSize)
	if err != nil {
		return nil, err
	}

	return NewRegistry(
		NewBewalgo(),
		bewalgo2,
		NewBitShuffle(),
		bwt,
		NewJBE(),
		NewJBE2(),
		NewMTF(),
		NewRLE(),
		NewHuffman(),
	)
}

// Count returns the number of registered algorithms.
func (r *Registry) Count() int {
	return len(r.algs)
}

// ByID returns the algorithm registered under id.
func (r *Registry) ByID(id format.AlgorithmID) (Algorithm, bool) {
	if int(id) >= len(r.algs) {
		return nil, false
	}

	return r.algs[id], true
}

// FindByName returns the identifier of the algorithm called name.
func (r *Registry) FindByName(name string) (format.AlgorithmID, error) {
	id, ok := r.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownAlgorithm, name)
	}

	return id, nil
}

// Name returns the name of id, or the generic identifier rendering when id
// is not registered.
func (r *Registry) Name(id format.AlgorithmID) string {
	if alg, ok := r.ByID(id); ok {
		return alg.Name()
	}

	return id.String()
}

// Names returns the algorithm names in identifier order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.algs))
	for i, alg := range r.algs {
		names[i] = alg.Name()
	}

	return names
}

// MaxScratchWords returns the largest ScratchWords of all algorithms.
func (r *Registry) MaxScratchWords() int {
	return r.maxScratchWords
}

// MaxScratchSize returns MaxScratchWords in bytes.
func (r *Registry) MaxScratchSize() int {
	return 2 * r.maxScratchWords
}

// Claim marks the registry as owned by one engine.
//
// Returns:
//   - error: errs.ErrInvalidConfig when the registry is already claimed
func (r *Registry) Claim() error {
	if !r.claimed.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: registry already used by another engine", errs.ErrInvalidConfig)
	}

	return nil
}

// Release gives up a claim so another engine can use the registry.
func (r *Registry) Release() {
	r.claimed.Store(false)
}

// SetMaxOutputSize forwards a new maximum output size to every algorithm
// implementing MaxOutputTuner.
func (r *Registry) SetMaxOutputSize(n int) error {
	for _, alg := range r.algs {
		if t, ok := alg.(MaxOutputTuner); ok {
			if err := t.SetMaxOutputSize(n); err != nil {
				return err
			}
		}
	}

	return nil
}

// SetMaxAlphabet forwards a new alphabet limit to every algorithm
// implementing AlphabetTuner.
func (r *Registry) SetMaxAlphabet(n int) error {
	for _, alg := range r.algs {
		if t, ok := alg.(AlphabetTuner); ok {
			if err := t.SetMaxAlphabet(n); err != nil {
				return err
			}
		}
	}

	return nil
}
