package combination

import (
	"fmt"
	"strings"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// Namer renders algorithm identifiers.
type Namer interface {
	Name(id format.AlgorithmID) string
}

// Resolver maps algorithm names to identifiers and back.
// *compress.Registry implements it.
type Resolver interface {
	Namer
	FindByName(name string) (format.AlgorithmID, error)
	Count() int
}

// Combination is an ordered pipeline of algorithm identifiers.
// The zero value is empty and is never accepted by a Table.
type Combination struct {
	ids   [format.MaxSteps]format.AlgorithmID
	steps uint8
}

// New creates a combination from 1 to format.MaxSteps identifiers.
func New(ids ...format.AlgorithmID) (Combination, error) {
	var c Combination
	if len(ids) == 0 || len(ids) > format.MaxSteps {
		return c, fmt.Errorf("%w: %d steps", errs.ErrInvalidCombination, len(ids))
	}
	copy(c.ids[:], ids)
	c.steps = uint8(len(ids)) //nolint: gosec

	return c, nil
}

// MustNew is like New but panics on error. It is meant for tests and
// package-level tables.
func MustNew(ids ...format.AlgorithmID) Combination {
	c, err := New(ids...)
	if err != nil {
		panic(err)
	}

	return c
}

// Len returns the number of steps.
func (c Combination) Len() int {
	return int(c.steps)
}

// IsEmpty reports whether c has no steps.
func (c Combination) IsEmpty() bool {
	return c.steps == 0
}

// Step returns the identifier of step i.
func (c Combination) Step(i int) format.AlgorithmID {
	return c.ids[i]
}

// IDs returns the identifiers in application order.
func (c Combination) IDs() []format.AlgorithmID {
	ids := make([]format.AlgorithmID, c.steps)
	copy(ids, c.ids[:c.steps])

	return ids
}

// Format renders c as "name-name-...".
func (c Combination) Format(n Namer) string {
	var sb strings.Builder
	for i := range c.Len() {
		if i > 0 {
			sb.WriteByte('-')
		}
		sb.WriteString(n.Name(c.ids[i]))
	}

	return sb.String()
}

// Parse resolves a "name-name-..." pipeline. Empty segments are skipped, so
// "rle--mtf-" equals "rle-mtf".
//
// Returns:
//   - Combination: The parsed pipeline
//   - error: errs.ErrUnknownAlgorithm for an unknown name,
//     errs.ErrInvalidCombination for an empty or too long pipeline
func Parse(r Resolver, text string) (Combination, error) {
	var c Combination
	for name := range strings.SplitSeq(strings.TrimSpace(text), "-") {
		if name == "" {
			continue
		}
		id, err := r.FindByName(name)
		if err != nil {
			return Combination{}, err
		}
		if int(c.steps) == format.MaxSteps {
			return Combination{}, fmt.Errorf("%w: more than %d steps in %q", errs.ErrInvalidCombination, format.MaxSteps, text)
		}
		c.ids[c.steps] = id
		c.steps++
	}
	if c.steps == 0 {
		return Combination{}, fmt.Errorf("%w: empty pipeline %q", errs.ErrInvalidCombination, text)
	}

	return c, nil
}

// Validate checks that c is non-empty and only uses identifiers below
// algorithms, the size of the registry it will run against.
func (c Combination) Validate(algorithms int) error {
	if c.IsEmpty() {
		return fmt.Errorf("%w: empty pipeline", errs.ErrInvalidCombination)
	}
	for i := range c.Len() {
		if int(c.ids[i]) >= algorithms {
			return fmt.Errorf("%w: id %d", errs.ErrUnknownAlgorithm, c.ids[i])
		}
	}

	return nil
}
