package compress

import (
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// MTF is the move-to-front transform. Every byte is replaced by its position
// in a 256-entry recency list, after which it moves to the front of the list.
type MTF struct{}

var _ Algorithm = (*MTF)(nil)

// NewMTF creates the move-to-front transform.
func NewMTF() *MTF {
	return &MTF{}
}

func (*MTF) Name() string                { return "mtf" }
func (*MTF) Flags() format.AlgorithmFlag { return format.FlagTransform }
func (*MTF) ScratchWords() int           { return 0 }

func newMTFList() [256]byte {
	var list [256]byte
	for i := range list {
		list[i] = byte(i)
	}

	return list
}

// Compress implements Algorithm. It never fails for non-empty input that fits dst.
func (*MTF) Compress(src, dst []byte, _ []uint16) (int, error) {
	if len(src) == 0 || len(dst) < len(src) {
		return 0, errs.ErrNotCompressible
	}

	list := newMTFList()
	for i, v := range src {
		j := 0
		for list[j] != v {
			j++
		}
		dst[i] = byte(j)
		copy(list[1:j+1], list[:j])
		list[0] = v
	}

	return len(src), nil
}

// DecompressSafe implements Algorithm.
func (m *MTF) DecompressSafe(src, dst []byte, scratch []uint16) (int, error) {
	if len(src) > len(dst) {
		return 0, errs.ErrCorruptData
	}

	return m.DecompressFast(src, dst, scratch)
}

// DecompressFast implements Algorithm. Every input byte is a valid list
// index, so the transform has no corrupt input.
func (*MTF) DecompressFast(src, dst []byte, _ []uint16) (int, error) {
	list := newMTFList()
	for i, j := range src {
		v := list[j]
		dst[i] = v
		copy(list[1:int(j)+1], list[:j])
		list[0] = v
	}

	return len(src), nil
}
