// Package baseline wraps general-purpose block codecs (LZ4, S2, Snappy, Zstd)
// behind one interface so the adaptive engine can be measured against them.
//
// None of these codecs take part in the zbewalgo wire format. They are used by
// the bench command and by benchmarks to put compression ratios and throughput
// into perspective for page-sized inputs.
package baseline

import (
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// Codec is a general-purpose block compressor.
//
// Implementations must be safe for concurrent use.
type Codec interface {
	// Type returns the compression type implemented by the codec.
	Type() format.CompressionType

	// Compress compresses data and returns a newly allocated block.
	Compress(data []byte) ([]byte, error)

	// Decompress restores a block produced by Compress.
	Decompress(data []byte) ([]byte, error)
}

// Stats summarizes one codec run over a set of pages.
type Stats struct {
	// Algorithm identifies the codec that produced the numbers.
	Algorithm format.CompressionType

	// Pages is the number of pages processed.
	Pages int

	// OriginalSize is the total size of the input pages.
	OriginalSize int64

	// CompressedSize is the total size of the compressed pages.
	CompressedSize int64

	// CompressionTime is the accumulated compression time.
	CompressionTime time.Duration

	// DecompressionTime is the accumulated decompression time.
	DecompressionTime time.Duration
}

// CompressionRatio returns compressed size divided by original size.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s Stats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// Measure compresses and decompresses every page with codec, verifying the
// round trip and accumulating sizes and timings.
//
// Parameters:
//   - codec: Codec under test
//   - pages: Input pages, usually format.MaxInputSize bytes each
//
// Returns:
//   - Stats: Accumulated results
//   - error: Codec error, or a round-trip mismatch
func Measure(codec Codec, pages [][]byte) (Stats, error) {
	stats := Stats{Algorithm: codec.Type()}

	for i, page := range pages {
		start := time.Now()
		compressed, err := codec.Compress(page)
		if err != nil {
			return stats, fmt.Errorf("%s: compress page %d: %w", codec.Type(), i, err)
		}
		stats.CompressionTime += time.Since(start)

		start = time.Now()
		restored, err := codec.Decompress(compressed)
		if err != nil {
			return stats, fmt.Errorf("%s: decompress page %d: %w", codec.Type(), i, err)
		}
		stats.DecompressionTime += time.Since(start)

		if len(restored) != len(page) {
			return stats, fmt.Errorf("%s: page %d restored %d bytes, want %d", codec.Type(), i, len(restored), len(page))
		}

		stats.Pages++
		stats.OriginalSize += int64(len(page))
		stats.CompressedSize += int64(len(compressed))
	}

	return stats, nil
}

// New creates a Codec for the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, LZ4 or Snappy)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: errs.ErrUnsupportedCodec for an unknown type
func New(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCodec(), nil
	case format.CompressionZstd:
		return NewZstdCodec(), nil
	case format.CompressionS2:
		return NewS2Codec(), nil
	case format.CompressionLZ4:
		return NewLZ4Codec(), nil
	case format.CompressionSnappy:
		return NewSnappyCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCodec, compressionType)
	}
}

// Types returns every supported compression type in a stable order.
func Types() []format.CompressionType {
	return []format.CompressionType{
		format.CompressionNone,
		format.CompressionLZ4,
		format.CompressionS2,
		format.CompressionSnappy,
		format.CompressionZstd,
	}
}

// Parse resolves a case-insensitive codec name such as "lz4" or "zstd".
func Parse(name string) (format.CompressionType, error) {
	for _, t := range Types() {
		if strings.EqualFold(t.String(), strings.TrimSpace(name)) {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedCodec, name)
}
