package section

import (
	"fmt"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// RecordHeader describes the pipeline that produced a compressed record.
type RecordHeader struct {
	// Steps is the number of applied algorithms, 1..format.MaxSteps.
	Steps uint8
	// IDs holds the applied algorithm identifiers in application order.
	// Slots at and after Steps are zero.
	IDs [format.MaxSteps]format.AlgorithmID
}

// NewRecordHeader creates a header for the given applied algorithms.
// It panics when ids is empty or longer than format.MaxSteps.
func NewRecordHeader(ids ...format.AlgorithmID) RecordHeader {
	if len(ids) == 0 || len(ids) > format.MaxSteps {
		panic(fmt.Sprintf("section: %d record steps", len(ids)))
	}

	h := RecordHeader{Steps: uint8(len(ids))} //nolint: gosec
	copy(h.IDs[:], ids)

	return h
}

// Parse parses the header from the first RecordHeaderSize bytes of data.
//
// Returns:
//   - error: errs.ErrCorruptData (also matching errs.ErrInvalidHeaderSize for
//     short input) when the header is malformed
func (h *RecordHeader) Parse(data []byte) error {
	if len(data) < RecordHeaderSize {
		return fmt.Errorf("%w: %w: %d bytes", errs.ErrCorruptData, errs.ErrInvalidHeaderSize, len(data))
	}

	steps := data[0]
	if steps == 0 || steps > format.MaxSteps {
		return fmt.Errorf("%w: step count %d", errs.ErrCorruptData, steps)
	}

	h.Steps = steps
	for i := range h.IDs {
		h.IDs[i] = format.AlgorithmID(data[1+i])
	}

	return nil
}

// Validate checks every used identifier against the registry size.
func (h *RecordHeader) Validate(algorithms int) error {
	for i := range int(h.Steps) {
		if int(h.IDs[i]) >= algorithms {
			return fmt.Errorf("%w: step %d names algorithm %d of %d", errs.ErrCorruptData, i, h.IDs[i], algorithms)
		}
	}

	return nil
}

// Append appends the encoded header to dst.
func (h *RecordHeader) Append(dst []byte) []byte {
	dst = append(dst, h.Steps)
	for i, id := range h.IDs {
		if i >= int(h.Steps) {
			id = 0
		}
		dst = append(dst, byte(id))
	}

	return dst
}

// Bytes returns the encoded header.
func (h *RecordHeader) Bytes() []byte {
	return h.Append(make([]byte, 0, RecordHeaderSize))
}

// ParseRecordHeader parses a record header from the start of data.
func ParseRecordHeader(data []byte) (RecordHeader, error) {
	var h RecordHeader
	if err := h.Parse(data); err != nil {
		return RecordHeader{}, err
	}

	return h, nil
}
