// Package errs defines the sentinel errors returned by zbewalgo packages.
//
// Callers should compare with errors.Is, since most call sites wrap these
// sentinels with additional context.
package errs

import "errors"

// Engine errors.
var (
	// ErrNotCompressible is returned when no combination shrinks the input
	// below both its own length and the configured maximum output size.
	// Callers are expected to store the data verbatim.
	ErrNotCompressible = errors.New("zbewalgo: data not compressible")

	// ErrCorruptData is returned by safe decompression for malformed records.
	ErrCorruptData = errors.New("zbewalgo: corrupt data")

	// ErrInputTooLarge is returned when the input exceeds format.MaxInputSize.
	ErrInputTooLarge = errors.New("zbewalgo: input larger than 4096 bytes")

	// ErrScratchTooSmall is returned when a workspace cannot serve the registry.
	ErrScratchTooSmall = errors.New("zbewalgo: scratch buffer too small")

	// ErrInvalidConfig is returned for out-of-range configuration values.
	ErrInvalidConfig = errors.New("zbewalgo: invalid configuration")

	// ErrEmptyTable is returned when compressing with an empty combination table.
	ErrEmptyTable = errors.New("zbewalgo: combination table is empty")
)

// Registry and combination errors.
var (
	ErrTooManyAlgorithms    = errors.New("zbewalgo: too many algorithms in registry")
	ErrDuplicateAlgorithm   = errors.New("zbewalgo: duplicate algorithm name")
	ErrUnknownAlgorithm     = errors.New("zbewalgo: unknown algorithm")
	ErrInvalidCombination   = errors.New("zbewalgo: invalid combination")
	ErrDuplicateCombination = errors.New("zbewalgo: combination already installed")
	ErrTableFull            = errors.New("zbewalgo: combination table is full")
	ErrCombinationNotFound  = errors.New("zbewalgo: combination id out of range")
	ErrInvalidCommand       = errors.New("zbewalgo: invalid command")
	ErrInvalidSnapshot      = errors.New("zbewalgo: invalid combination snapshot")
)

// Header and page file errors.
var (
	ErrInvalidHeaderSize = errors.New("zbewalgo: invalid header size")
	ErrInvalidPageFile   = errors.New("zbewalgo: invalid page file")
	ErrChecksumMismatch  = errors.New("zbewalgo: checksum mismatch")
	ErrPageOutOfRange    = errors.New("zbewalgo: page index out of range")
	ErrInvalidPageSize   = errors.New("zbewalgo: invalid page size")
)

// Baseline codec errors.
var (
	ErrUnsupportedCodec = errors.New("zbewalgo: unsupported baseline codec")
)
