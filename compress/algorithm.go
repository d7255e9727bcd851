package compress

import (
	"encoding/binary"

	"github.com/arloliu/zbewalgo/format"
)

// Algorithm is a single pipeline step.
//
// Implementations are stateless apart from tuning knobs and must be safe for
// concurrent use as long as every caller supplies its own scratch memory.
type Algorithm interface {
	// Name returns the name used by combination commands, e.g. "rle".
	Name() string

	// Flags classifies the algorithm as a compressor or a transform.
	Flags() format.AlgorithmFlag

	// ScratchWords returns the number of uint16 scratch words needed by
	// Compress, DecompressSafe and DecompressFast.
	ScratchWords() int

	// Compress encodes src into dst and returns the number of bytes written.
	//
	// It returns errs.ErrNotCompressible when the algorithm cannot handle the
	// input or the result does not fit into dst. An empty src always fails.
	Compress(src, dst []byte, scratch []uint16) (int, error)

	// DecompressSafe decodes src into dst with full validation and returns
	// the number of bytes written, or errs.ErrCorruptData.
	DecompressSafe(src, dst []byte, scratch []uint16) (int, error)

	// DecompressFast decodes src into dst without validating it.
	// src must come from Compress of the same algorithm.
	DecompressFast(src, dst []byte, scratch []uint16) (int, error)
}

// MaxOutputTuner is implemented by algorithms whose internal limits follow
// the engine's maximum output size.
type MaxOutputTuner interface {
	SetMaxOutputSize(n int) error
}

// AlphabetTuner is implemented by algorithms that abort on large alphabets.
type AlphabetTuner interface {
	SetMaxAlphabet(n int) error
	MaxAlphabet() int
}

// le16/le64 helpers keep the algorithm bodies short.

func getLE16(b []byte) int {
	return int(binary.LittleEndian.Uint16(b))
}

func putLE16(b []byte, v int) {
	binary.LittleEndian.PutUint16(b, uint16(v)) //nolint: gosec
}

func getLE64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

func putLE64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}
