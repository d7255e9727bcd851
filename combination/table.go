package combination

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/internal/hash"
)

// Snapshot is an immutable view of a Table. Combination ids are positions
// in the snapshot.
type Snapshot struct {
	combos []Combination
}

// Count returns the number of combinations.
func (s *Snapshot) Count() int {
	return len(s.combos)
}

// Get returns combination id.
func (s *Snapshot) Get(id int) (Combination, bool) {
	if id < 0 || id >= len(s.combos) {
		return Combination{}, false
	}

	return s.combos[id], true
}

// All returns a copy of the combinations in id order.
func (s *Snapshot) All() []Combination {
	return slices.Clone(s.combos)
}

// Contains reports whether c is installed.
func (s *Snapshot) Contains(c Combination) bool {
	return slices.Contains(s.combos, c)
}

// Format renders one combination per line.
func (s *Snapshot) Format(n Namer) string {
	var sb strings.Builder
	for _, c := range s.combos {
		sb.WriteString(c.Format(n))
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Fingerprint returns the xxHash64 of the step identifiers of every
// combination. Equal tables have equal fingerprints.
func (s *Snapshot) Fingerprint() uint64 {
	buf := make([]byte, 0, 2+len(s.combos)*(1+format.MaxSteps))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s.combos))) //nolint: gosec
	for _, c := range s.combos {
		buf = append(buf, c.steps)
		for _, id := range c.ids[:c.steps] {
			buf = append(buf, byte(id))
		}
	}

	return hash.Sum(buf)
}

// Table is the shared, concurrently readable combination table.
//
// Every mutation publishes a new Snapshot. Compressions load the current
// snapshot once per call and keep using it even if the table changes.
type Table struct {
	mu       sync.Mutex
	current  atomic.Pointer[Snapshot]
	defaults []Combination
}

// NewTable creates a table whose default set, installed now and by Reset,
// is defaults.
//
// Returns:
//   - *Table: The table
//   - error: errs.ErrInvalidCombination, errs.ErrDuplicateCombination or
//     errs.ErrTableFull when defaults is not a valid table
func NewTable(defaults []Combination) (*Table, error) {
	if err := checkSet(defaults); err != nil {
		return nil, err
	}

	t := &Table{defaults: slices.Clone(defaults)}
	t.current.Store(&Snapshot{combos: t.defaults})

	return t, nil
}

// NewDefaultTable creates a table holding the default combinations.
func NewDefaultTable(r Resolver) (*Table, error) {
	defaults, err := Defaults(r)
	if err != nil {
		return nil, err
	}

	return NewTable(defaults)
}

func checkSet(combos []Combination) error {
	if len(combos) > format.MaxCombinations {
		return fmt.Errorf("%w: %d combinations", errs.ErrTableFull, len(combos))
	}
	for i, c := range combos {
		if c.IsEmpty() {
			return fmt.Errorf("%w: combination %d is empty", errs.ErrInvalidCombination, i)
		}
		if slices.Contains(combos[:i], c) {
			return fmt.Errorf("%w: combination %d", errs.ErrDuplicateCombination, i)
		}
	}

	return nil
}

// Snapshot returns the current immutable view.
func (t *Table) Snapshot() *Snapshot {
	return t.current.Load()
}

// Count returns the number of installed combinations.
func (t *Table) Count() int {
	return t.Snapshot().Count()
}

// Get returns combination id of the current snapshot.
func (t *Table) Get(id int) (Combination, error) {
	c, ok := t.Snapshot().Get(id)
	if !ok {
		return Combination{}, fmt.Errorf("%w: %d", errs.ErrCombinationNotFound, id)
	}

	return c, nil
}

// Contains reports whether c is installed.
func (t *Table) Contains(c Combination) bool {
	return t.Snapshot().Contains(c)
}

// Add appends c unless an identical combination is already installed.
//
// Returns:
//   - bool: Whether c was appended
//   - error: errs.ErrInvalidCombination for an empty combination,
//     errs.ErrTableFull when the table holds format.MaxCombinations entries
func (t *Table) Add(c Combination) (bool, error) {
	if c.IsEmpty() {
		return false, fmt.Errorf("%w: empty pipeline", errs.ErrInvalidCombination)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.current.Load()
	if cur.Contains(c) {
		return false, nil
	}
	if cur.Count() >= format.MaxCombinations {
		return false, errs.ErrTableFull
	}

	combos := make([]Combination, len(cur.combos), len(cur.combos)+1)
	copy(combos, cur.combos)
	t.current.Store(&Snapshot{combos: append(combos, c)})

	return true, nil
}

// ReplaceAll installs combos as the new table in one step. An empty list
// leaves the table empty, in which case every compression fails until
// combinations are added again.
func (t *Table) ReplaceAll(combos []Combination) error {
	if err := checkSet(combos); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.current.Store(&Snapshot{combos: slices.Clone(combos)})

	return nil
}

// Reset reinstalls the default set.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current.Store(&Snapshot{combos: t.defaults})
}

// Format renders the current table, one combination per line.
func (t *Table) Format(n Namer) string {
	return t.Snapshot().Format(n)
}
