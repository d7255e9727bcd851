package compress

import (
	"fmt"
	"sync/atomic"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// DefaultBWTMaxAlphabet is the largest number of distinct byte values the
// BWT accepts by default. Inputs with richer alphabets rarely profit from it.
const DefaultBWTMaxAlphabet = 90

// BWT layout inside the scratch words.
const (
	bwtCount        = 0   // 256 bucket cursors
	bwtStart        = 256 // 256 bucket starts, decoder only
	bwtScratchWords = 512
)

// BWT is a Burrows-Wheeler transform that sorts rotations by their first
// byte only, which makes it a stable counting sort.
//
// Output layout: [last input byte][predecessor of every position, ordered by
// (byte, position)]. The output is one byte longer than the input.
type BWT struct {
	maxAlphabet atomic.Int32
}

var (
	_ Algorithm     = (*BWT)(nil)
	_ AlphabetTuner = (*BWT)(nil)
)

// NewBWT creates the transform with the given alphabet limit.
func NewBWT(maxAlphabet int) (*BWT, error) {
	b := &BWT{}
	if err := b.SetMaxAlphabet(maxAlphabet); err != nil {
		return nil, err
	}

	return b, nil
}

func (*BWT) Name() string                { return "bwt" }
func (*BWT) Flags() format.AlgorithmFlag { return format.FlagTransform }
func (*BWT) ScratchWords() int           { return bwtScratchWords }

// SetMaxAlphabet changes the alphabet limit. It is safe to call while other
// goroutines compress.
func (b *BWT) SetMaxAlphabet(n int) error {
	if n < 1 || n > 256 {
		return fmt.Errorf("%w: bwt max alphabet %d not in [1, 256]", errs.ErrInvalidConfig, n)
	}
	b.maxAlphabet.Store(int32(n)) //nolint: gosec

	return nil
}

// MaxAlphabet returns the current alphabet limit.
func (b *BWT) MaxAlphabet() int {
	return int(b.maxAlphabet.Load())
}

// Compress implements Algorithm.
func (b *BWT) Compress(src, dst []byte, scratch []uint16) (int, error) {
	n := len(src)
	if n == 0 || n+1 > len(dst) || n > 0xFFFF {
		return 0, errs.ErrNotCompressible
	}

	count := scratch[bwtCount : bwtCount+256]
	clear(count)
	for _, v := range src {
		count[v]++
	}

	alphabet := 0
	if count[0] > 0 {
		alphabet++
	}
	for i := 1; i < 256; i++ {
		if count[i] > 0 {
			alphabet++
		}
		count[i] += count[i-1]
	}
	if alphabet > b.MaxAlphabet() {
		return 0, errs.ErrNotCompressible
	}

	dst[0] = src[n-1]
	out := dst[1 : n+1]
	for i := n - 1; i > 0; i-- {
		count[src[i]]--
		out[count[src[i]]] = src[i-1]
	}
	count[src[0]]--
	out[count[src[0]]] = src[n-1]

	return n + 1, nil
}

// DecompressSafe implements Algorithm.
func (*BWT) DecompressSafe(src, dst []byte, scratch []uint16) (int, error) {
	return decodeBWT(src, dst, scratch, true)
}

// DecompressFast implements Algorithm.
func (*BWT) DecompressFast(src, dst []byte, scratch []uint16) (int, error) {
	return decodeBWT(src, dst, scratch, false)
}

func decodeBWT(src, dst []byte, scratch []uint16, safe bool) (int, error) {
	n := len(src) - 1
	if safe && (n < 1 || n > len(dst) || n > 0xFFFF) {
		return 0, errs.ErrCorruptData
	}

	count := scratch[bwtCount : bwtCount+256]
	start := scratch[bwtStart : bwtStart+256]
	clear(count)

	in := src[1:]
	for _, v := range in {
		count[v]++
	}
	start[0] = 0
	for i := 1; i < 256; i++ {
		count[i] += count[i-1]
		start[i] = count[i-1]
	}

	// Walk the predecessor links backwards from the last byte. Every step
	// consumes the highest unused slot of the current byte's bucket.
	key := src[0]
	for op := n - 1; op >= 0; op-- {
		if safe && count[key] == start[key] {
			return 0, errs.ErrCorruptData
		}
		count[key]--
		dst[op] = key
		key = in[count[key]]
	}

	return n, nil
}
