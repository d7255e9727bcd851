package compress

import (
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// BitShuffle transposes the 8-byte groups of its input: byte 0 of every group
// is written first, then byte 1 of every group, and so on. Trailing bytes that
// do not fill a group are copied unchanged.
type BitShuffle struct{}

var _ Algorithm = (*BitShuffle)(nil)

// NewBitShuffle creates the bitshuffle transform.
func NewBitShuffle() *BitShuffle {
	return &BitShuffle{}
}

func (*BitShuffle) Name() string                { return "bitshuffle" }
func (*BitShuffle) Flags() format.AlgorithmFlag { return format.FlagTransform }
func (*BitShuffle) ScratchWords() int           { return 0 }

// Compress implements Algorithm.
func (*BitShuffle) Compress(src, dst []byte, _ []uint16) (int, error) {
	n := len(src)
	if n == 0 || len(dst) < n {
		return 0, errs.ErrNotCompressible
	}

	groups := n >> 3
	for k := range 8 {
		out := dst[k*groups : (k+1)*groups]
		for g := range out {
			out[g] = src[g<<3+k]
		}
	}
	copy(dst[groups<<3:n], src[groups<<3:])

	return n, nil
}

// DecompressSafe implements Algorithm.
func (b *BitShuffle) DecompressSafe(src, dst []byte, scratch []uint16) (int, error) {
	if len(src) > len(dst) {
		return 0, errs.ErrCorruptData
	}

	return b.DecompressFast(src, dst, scratch)
}

// DecompressFast implements Algorithm.
func (*BitShuffle) DecompressFast(src, dst []byte, _ []uint16) (int, error) {
	n := len(src)
	groups := n >> 3
	for k := range 8 {
		in := src[k*groups : (k+1)*groups]
		for g, v := range in {
			dst[g<<3+k] = v
		}
	}
	copy(dst[groups<<3:n], src[groups<<3:])

	return n, nil
}
