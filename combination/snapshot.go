package combination

import (
	"fmt"
	"strings"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/internal/hash"
	"github.com/fxamacker/cbor/v2"
)

const snapshotVersion = 1

// encMode uses Core Deterministic Encoding, so equal tables always encode
// to identical bytes.
var encMode cbor.EncMode

// decMode rejects unknown fields and duplicate map keys.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("combination: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("combination: CBOR decoder initialization failed: " + err.Error())
	}
}

// snapshotDoc is the persisted form of a table. Pipelines are stored by
// algorithm name; the fingerprint covers the names.
type snapshotDoc struct {
	Version      uint8      `cbor:"1,keyasint"`
	Combinations [][]string `cbor:"2,keyasint"`
	Fingerprint  uint64     `cbor:"3,keyasint"`
}

// MarshalSnapshot encodes s as deterministic CBOR.
func MarshalSnapshot(s *Snapshot, n Namer) ([]byte, error) {
	doc := snapshotDoc{
		Version:      snapshotVersion,
		Combinations: make([][]string, s.Count()),
	}
	for i, c := range s.combos {
		names := make([]string, c.Len())
		for j := range names {
			names[j] = n.Name(c.Step(j))
		}
		doc.Combinations[i] = names
	}
	doc.Fingerprint = namesFingerprint(doc.Combinations)

	return encMode.Marshal(doc)
}

// UnmarshalSnapshot decodes a snapshot written by MarshalSnapshot and
// resolves its pipelines against r.
//
// Returns:
//   - []Combination: The combinations, ready for Table.ReplaceAll
//   - error: errs.ErrInvalidSnapshot for malformed input,
//     errs.ErrUnknownAlgorithm for a name r does not know
func UnmarshalSnapshot(data []byte, r Resolver) ([]Combination, error) {
	var doc snapshotDoc
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
	}
	if doc.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: version %d", errs.ErrInvalidSnapshot, doc.Version)
	}
	if namesFingerprint(doc.Combinations) != doc.Fingerprint {
		return nil, fmt.Errorf("%w: fingerprint mismatch", errs.ErrInvalidSnapshot)
	}

	combos := make([]Combination, len(doc.Combinations))
	for i, names := range doc.Combinations {
		var c Combination
		if len(names) == 0 || len(names) > len(c.ids) {
			return nil, fmt.Errorf("%w: combination %d has %d steps", errs.ErrInvalidSnapshot, i, len(names))
		}
		for _, name := range names {
			id, err := r.FindByName(name)
			if err != nil {
				return nil, err
			}
			c.ids[c.steps] = id
			c.steps++
		}
		combos[i] = c
	}
	if err := checkSet(combos); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
	}

	return combos, nil
}

// namesFingerprint hashes the pipelines in their text form, one per line.
func namesFingerprint(combos [][]string) uint64 {
	var sb strings.Builder
	for _, names := range combos {
		sb.WriteString(strings.Join(names, "-"))
		sb.WriteByte('\n')
	}

	return hash.ID(sb.String())
}
