package compress

import (
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

// JBE drops zero bytes. For every 8-byte group it writes a presence bitmap
// (bit 7 for the first byte, bit 0 for the last) and then only the nonzero
// bytes of the group.
//
// Layout:
//
//	[u16 LE length][length/8 bitmap bytes][nonzero bytes][length%8 tail bytes]
//
// With nibble swapping enabled (jbe2) each group is first rearranged so that
// the low nibbles of the first four bytes and of the last four bytes share
// bytes, which turns sparse small values into more zero bytes.
type JBE struct {
	name string
	swap bool
}

var _ Algorithm = (*JBE)(nil)

// NewJBE creates the plain presence-bitmap coder.
func NewJBE() *JBE {
	return &JBE{name: "jbe"}
}

// NewJBE2 creates the presence-bitmap coder with nibble swapping.
func NewJBE2() *JBE {
	return &JBE{name: "jbe2", swap: true}
}

func (j *JBE) Name() string              { return j.name }
func (*JBE) Flags() format.AlgorithmFlag { return format.FlagCompress }
func (*JBE) ScratchWords() int           { return 0 }

// swapNibbles exchanges the high nibbles of bytes 0..3 with the low nibbles of
// bytes 4..7 of a little-endian group. Applying it twice is the identity.
func swapNibbles(v uint64) uint64 {
	return (v & 0xF0F0F0F00F0F0F0F) |
		((v & 0x0F0F0F0F00000000) >> 28) |
		((v & 0x00000000F0F0F0F0) << 28)
}

// Compress implements Algorithm.
func (j *JBE) Compress(src, dst []byte, _ []uint16) (int, error) {
	n := len(src)
	if n == 0 || n > 0xFFFF {
		return 0, errs.ErrNotCompressible
	}

	groups := n >> 3
	if 2+groups+n > len(dst) {
		return 0, errs.ErrNotCompressible
	}

	putLE16(dst, n)
	bitmap := 2
	op := bitmap + groups

	var group [8]byte
	for g := range groups {
		v := getLE64(src[g<<3:])
		if j.swap {
			v = swapNibbles(v)
		}
		putLE64(group[:], v)

		var mask byte
		for k, b := range group {
			if b != 0 {
				mask |= 0x80 >> k
				dst[op] = b
				op++
			}
		}
		dst[bitmap+g] = mask
	}
	op += copy(dst[op:], src[groups<<3:])

	return op, nil
}

// DecompressSafe implements Algorithm.
func (j *JBE) DecompressSafe(src, dst []byte, _ []uint16) (int, error) {
	return j.decode(src, dst, true)
}

// DecompressFast implements Algorithm.
func (j *JBE) DecompressFast(src, dst []byte, _ []uint16) (int, error) {
	return j.decode(src, dst, false)
}

func (j *JBE) decode(src, dst []byte, safe bool) (int, error) {
	if safe && len(src) < 2 {
		return 0, errs.ErrCorruptData
	}

	n := getLE16(src)
	groups := n >> 3
	tail := n & 7
	bitmap := 2
	ip := bitmap + groups

	if safe && (n == 0 || n > len(dst) || ip > len(src)) {
		return 0, errs.ErrCorruptData
	}

	var group [8]byte
	for g := range groups {
		mask := src[bitmap+g]
		for k := range group {
			if mask&(0x80>>k) == 0 {
				group[k] = 0
				continue
			}
			if safe && ip >= len(src) {
				return 0, errs.ErrCorruptData
			}
			group[k] = src[ip]
			ip++
		}

		v := getLE64(group[:])
		if j.swap {
			v = swapNibbles(v)
		}
		putLE64(dst[g<<3:], v)
	}

	if safe && ip+tail != len(src) {
		return 0, errs.ErrCorruptData
	}
	copy(dst[groups<<3:n], src[ip:ip+tail])

	return n, nil
}
