package compress

import (
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

const (
	bewalgoHashLog      = 12
	bewalgoMaxLength    = 255
	bewalgoScratchWords = 1 << bewalgoHashLog
)

// Bewalgo is an LZ77 coder that works on 8-byte words.
//
// Layout:
//
//	[u16 LE length] { control block, literals } ... [length%8 tail bytes]
//
// A control block is 8 bytes holding two slots of
// (literal words u8, match words u8, match offset in words u16 LE). After the
// block come the literal words of the first slot, then those of the second.
// Decoding a slot copies its literals and then its match.
type Bewalgo struct{}

var _ Algorithm = (*Bewalgo)(nil)

// NewBewalgo creates the word-granular LZ coder.
func NewBewalgo() *Bewalgo {
	return &Bewalgo{}
}

func (*Bewalgo) Name() string                { return "bewalgo" }
func (*Bewalgo) Flags() format.AlgorithmFlag { return format.FlagCompress }
func (*Bewalgo) ScratchWords() int           { return bewalgoScratchWords }

func bewalgoHash(v uint64) int {
	return int(((v >> 24) * 11400714785074694791) >> (64 - bewalgoHashLog))
}

// bewalgoWriter appends slots to the output, opening a new control block
// every second slot.
type bewalgoWriter struct {
	src  []byte
	dst  []byte
	op   int
	ctrl int
	slot int
}

func (w *bewalgoWriter) slotAt(lit, litStart, match, offset int) bool {
	if w.slot == 2 {
		if w.op+8 > len(w.dst) {
			return false
		}
		w.ctrl = w.op
		clear(w.dst[w.op : w.op+8])
		w.op += 8
		w.slot = 0
	}
	base := w.ctrl + w.slot*4
	w.dst[base] = byte(lit)
	w.dst[base+1] = byte(match)
	putLE16(w.dst[base+2:], offset)
	w.slot++

	size := lit << 3
	if w.op+size > len(w.dst) {
		return false
	}
	w.op += copy(w.dst[w.op:w.op+size], w.src[litStart<<3:])

	return true
}

// sequence emits lit literal words starting at word litStart followed by a
// match of match words at the given offset, splitting lengths above 255.
func (w *bewalgoWriter) sequence(lit, litStart, match, offset int) bool {
	for lit > bewalgoMaxLength {
		if !w.slotAt(bewalgoMaxLength, litStart, 0, 0) {
			return false
		}
		lit -= bewalgoMaxLength
		litStart += bewalgoMaxLength
	}
	m := min(match, bewalgoMaxLength)
	if !w.slotAt(lit, litStart, m, offset) {
		return false
	}
	match -= m
	for match > 0 {
		m = min(match, bewalgoMaxLength)
		if !w.slotAt(0, 0, m, offset) {
			return false
		}
		match -= m
	}

	return true
}

// Compress implements Algorithm.
func (*Bewalgo) Compress(src, dst []byte, scratch []uint16) (int, error) {
	n := len(src)
	if n == 0 || n > 0xFFFF || len(dst) < 2 {
		return 0, errs.ErrNotCompressible
	}
	putLE16(dst, n)

	words := n >> 3
	word := func(i int) uint64 { return getLE64(src[i<<3:]) }

	table := scratch[:bewalgoScratchWords]
	clear(table)

	w := bewalgoWriter{src: src, dst: dst, op: 2, slot: 2}
	anchor := 0
	ip := 0
	for ip < words {
		v := word(ip)
		h := bewalgoHash(v)
		cand := int(table[h]) - 1
		table[h] = uint16(ip + 1) //nolint: gosec
		if cand < 0 || word(cand) != v {
			ip++
			continue
		}

		for cand > 0 && ip > anchor && word(cand-1) == word(ip-1) {
			cand--
			ip--
		}
		end := ip
		for c := cand; end < words && word(c) == word(end); c++ {
			end++
		}

		if !w.sequence(ip-anchor, anchor, end-ip, ip-cand) {
			return 0, errs.ErrNotCompressible
		}
		ip = end
		anchor = end
	}
	if anchor < words {
		if !w.sequence(words-anchor, anchor, 0, 0) {
			return 0, errs.ErrNotCompressible
		}
	}

	tail := src[words<<3:]
	if w.op+len(tail) > len(dst) {
		return 0, errs.ErrNotCompressible
	}
	w.op += copy(dst[w.op:], tail)

	return w.op, nil
}

// DecompressSafe implements Algorithm.
func (*Bewalgo) DecompressSafe(src, dst []byte, _ []uint16) (int, error) {
	return decodeBewalgo(src, dst, true)
}

// DecompressFast implements Algorithm.
func (*Bewalgo) DecompressFast(src, dst []byte, _ []uint16) (int, error) {
	return decodeBewalgo(src, dst, false)
}

func decodeBewalgo(src, dst []byte, safe bool) (int, error) {
	if safe && len(src) < 2 {
		return 0, errs.ErrCorruptData
	}

	n := getLE16(src)
	tail := n & 7
	outEnd := n &^ 7
	end := len(src) - tail
	if safe && (n == 0 || n > len(dst) || end < 2 || (end-2)&7 != 0) {
		return 0, errs.ErrCorruptData
	}

	ip, op := 2, 0
	for ip < end {
		if safe && ip+8 > end {
			return 0, errs.ErrCorruptData
		}
		ctrl := src[ip : ip+8]
		ip += 8

		for s := 0; s < 8; s += 4 {
			lit := int(ctrl[s]) << 3
			match := int(ctrl[s+1]) << 3
			offset := getLE16(ctrl[s+2:]) << 3

			if safe && (ip+lit > end || op+lit+match > outEnd) {
				return 0, errs.ErrCorruptData
			}
			op += copy(dst[op:op+lit], src[ip:ip+lit])
			ip += lit

			if match == 0 {
				continue
			}
			if safe && (offset == 0 || offset > op) {
				return 0, errs.ErrCorruptData
			}
			// Forward copy, the match may overlap the bytes it produces.
			from := op - offset
			for i := range match {
				dst[op+i] = dst[from+i]
			}
			op += match
		}
	}

	if safe && op != outEnd {
		return 0, errs.ErrCorruptData
	}
	copy(dst[outEnd:n], src[end:])

	return n, nil
}
