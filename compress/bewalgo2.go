package compress

import (
	"fmt"
	"sync/atomic"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

const (
	bewalgo2IndexShift  = 7
	bewalgo2Sequence    = 0x40
	bewalgo2CountMask   = 0x3F
	bewalgo2MaxIndex    = (1 << (16 - bewalgo2IndexShift)) - 1
	bewalgo2Capacity    = bewalgo2MaxIndex + 1
	bewalgo2PrescanSize = 512
)

// Bewalgo2 stores every distinct 8-byte word once in a literal table and
// encodes the input as 16-bit records pointing into that table.
//
// Layout:
//
//	[u16 LE records end][u16 LE length][u16 LE records][literal table][length%8 tail bytes]
//
// A record is (index << 7) | flag | count with a 6-bit count. With the
// sequence flag (0x40) it expands to table[index], table[index+1], ... and
// without it to count copies of table[index]. Words are produced from the
// last word of the input down to the first.
type Bewalgo2 struct {
	maxLiterals atomic.Int32
}

var (
	_ Algorithm      = (*Bewalgo2)(nil)
	_ MaxOutputTuner = (*Bewalgo2)(nil)
)

// NewBewalgo2 creates the literal-table coder. Its literal ceiling follows the
// given maximum output size.
func NewBewalgo2(maxOutputSize int) (*Bewalgo2, error) {
	b := &Bewalgo2{}
	if err := b.SetMaxOutputSize(maxOutputSize); err != nil {
		return nil, err
	}

	return b, nil
}

func (*Bewalgo2) Name() string                { return "bewalgo2" }
func (*Bewalgo2) Flags() format.AlgorithmFlag { return format.FlagCompress }
func (*Bewalgo2) ScratchWords() int           { return avlScratchWords(bewalgo2Capacity) }

// SetMaxOutputSize derives the literal ceiling from the engine's maximum
// output size: a table that alone fills the output can never pay off.
func (b *Bewalgo2) SetMaxOutputSize(n int) error {
	limit := min(bewalgo2MaxIndex, n>>3-4)
	if limit < 1 {
		return fmt.Errorf("%w: bewalgo2 max output size %d too small", errs.ErrInvalidConfig, n)
	}
	b.maxLiterals.Store(int32(limit)) //nolint: gosec

	return nil
}

// MaxLiterals returns the current literal ceiling.
func (b *Bewalgo2) MaxLiterals() int {
	return int(b.maxLiterals.Load())
}

// prescanRejects samples the input and reports whether it looks too diverse
// to be worth a full pass.
func prescanRejects(t *avlTree, word func(int) uint64, words int) bool {
	sample := func(from int) {
		for i := from; i < from+10 && i < words; i++ {
			t.insert(word(i))
		}
	}

	sample(words - 10)
	if t.size < 6 {
		return false
	}
	sample(0)
	if t.size < 13 {
		return false
	}
	sample(256 >> 3)

	return t.size >= 21
}

// Compress implements Algorithm.
func (b *Bewalgo2) Compress(src, dst []byte, scratch []uint16) (int, error) {
	n := len(src)
	if n == 0 || n > 0xFFFF || len(dst) < 4 {
		return 0, errs.ErrNotCompressible
	}

	words := n >> 3
	word := func(i int) uint64 { return getLE64(src[i<<3:]) }
	maxLiterals := b.MaxLiterals()

	t := newAVLTree(scratch, bewalgo2Capacity)
	if n > bewalgo2PrescanSize {
		if prescanRejects(&t, word, words) {
			return 0, errs.ErrNotCompressible
		}
		t.reset()
	}

	op := 4
	emit := func(idx int, seq bool, count int) bool {
		for count > 0 {
			c := min(count, bewalgo2CountMask)
			if op+2 > len(dst) {
				return false
			}
			r := idx<<bewalgo2IndexShift | c
			if seq {
				r |= bewalgo2Sequence
				idx += c
			}
			putLE16(dst[op:], r)
			op += 2
			count -= c
		}

		return true
	}
	add := func(v uint64) (int, bool) {
		idx, added := t.insert(v)
		if idx < 0 || t.size > maxLiterals {
			return -1, false
		}

		return idx, added
	}

	pos := words - 1
	for pos >= 0 {
		v := word(pos)
		idx, _ := add(v)
		if idx < 0 {
			return 0, errs.ErrNotCompressible
		}

		run := 1
		for pos-run >= 0 && word(pos-run) == v {
			run++
		}
		if run > 1 {
			if !emit(idx, false, run) {
				return 0, errs.ErrNotCompressible
			}
			pos -= run

			continue
		}

		// Extend a sequence along consecutive table entries, appending new
		// distinct words at the end of the table. Stop before a repeated word
		// so that it can start a run record.
		k := 1
		for q := pos - 1; q >= 0; q-- {
			w := word(q)
			if q > 0 && word(q-1) == w {
				break
			}
			want := idx + k
			if want < t.size {
				if t.value(want) != w {
					break
				}
			} else {
				if t.find(w) >= 0 {
					break
				}
				if got, _ := add(w); got != want {
					return 0, errs.ErrNotCompressible
				}
			}
			k++
		}
		if !emit(idx, true, k) {
			return 0, errs.ErrNotCompressible
		}
		pos -= k
	}

	putLE16(dst, op)
	putLE16(dst[2:], n)

	tail := src[words<<3:]
	if op+8*t.size+len(tail) > len(dst) {
		return 0, errs.ErrNotCompressible
	}
	for i := range t.size {
		putLE64(dst[op:], t.value(i))
		op += 8
	}
	op += copy(dst[op:], tail)

	return op, nil
}

// DecompressSafe implements Algorithm.
func (*Bewalgo2) DecompressSafe(src, dst []byte, _ []uint16) (int, error) {
	return decodeBewalgo2(src, dst, true)
}

// DecompressFast implements Algorithm.
func (*Bewalgo2) DecompressFast(src, dst []byte, _ []uint16) (int, error) {
	return decodeBewalgo2(src, dst, false)
}

func decodeBewalgo2(src, dst []byte, safe bool) (int, error) {
	if safe && len(src) < 4 {
		return 0, errs.ErrCorruptData
	}

	recordsEnd := getLE16(src)
	n := getLE16(src[2:])
	tail := n & 7
	literalsEnd := len(src) - tail
	if safe {
		if n == 0 || n > len(dst) || recordsEnd < 4 || recordsEnd&1 != 0 || recordsEnd > literalsEnd {
			return 0, errs.ErrCorruptData
		}
		if (literalsEnd-recordsEnd)&7 != 0 {
			return 0, errs.ErrCorruptData
		}
	}
	literals := src[recordsEnd:literalsEnd]
	tableSize := len(literals) >> 3

	pos := n>>3 - 1
	for ip := 4; ip < recordsEnd; ip += 2 {
		r := getLE16(src[ip:])
		idx := r >> bewalgo2IndexShift
		count := r & bewalgo2CountMask
		seq := r&bewalgo2Sequence != 0

		if safe {
			last := idx
			if seq {
				last = idx + count - 1
			}
			if count == 0 || last >= tableSize || count > pos+1 {
				return 0, errs.ErrCorruptData
			}
		}

		for range count {
			putLE64(dst[pos<<3:], getLE64(literals[idx<<3:]))
			pos--
			if seq {
				idx++
			}
		}
	}

	if safe && pos != -1 {
		return 0, errs.ErrCorruptData
	}
	copy(dst[n&^7:n], src[literalsEnd:])

	return n, nil
}
