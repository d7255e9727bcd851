package compress

import (
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

const (
	rleRepeat = 0x80
	rleMaxRun = 128
)

// RLE is a run-length coder with two record kinds:
//
//	literal: [0x00 | len-1] followed by len raw bytes
//	repeat:  [0x80 | len-1] followed by the repeated byte
//
// Runs longer than 128 bytes are split into several records. A literal run
// ends just before the first byte that repeats.
type RLE struct{}

var _ Algorithm = (*RLE)(nil)

// NewRLE creates the run-length coder.
func NewRLE() *RLE {
	return &RLE{}
}

func (*RLE) Name() string                { return "rle" }
func (*RLE) Flags() format.AlgorithmFlag { return format.FlagCompress }
func (*RLE) ScratchWords() int           { return 0 }

// Compress implements Algorithm.
func (*RLE) Compress(src, dst []byte, _ []uint16) (int, error) {
	n := len(src)
	if n == 0 {
		return 0, errs.ErrNotCompressible
	}

	ip, anchor, op := 0, 0, 0
	for {
		var last byte
		for {
			last = src[ip]
			ip++
			if ip >= n || last == src[ip] {
				break
			}
		}
		count := ip - anchor
		if ip < n {
			count-- // the byte at ip-1 opens the following repeat run
		}
		for count > 0 {
			c := min(count, rleMaxRun)
			if op+1+c > len(dst) {
				return 0, errs.ErrNotCompressible
			}
			dst[op] = byte(c - 1)
			op++
			op += copy(dst[op:], src[anchor:anchor+c])
			anchor += c
			count -= c
		}
		if ip == n {
			return op, nil
		}

		for {
			last = src[ip]
			ip++
			if ip >= n || last != src[ip] {
				break
			}
		}
		count = ip - anchor
		anchor = ip
		for count > 0 {
			c := min(count, rleMaxRun)
			if op+2 > len(dst) {
				return 0, errs.ErrNotCompressible
			}
			dst[op] = rleRepeat | byte(c-1)
			dst[op+1] = last
			op += 2
			count -= c
		}
		if ip == n {
			return op, nil
		}
	}
}

// DecompressSafe implements Algorithm.
func (*RLE) DecompressSafe(src, dst []byte, _ []uint16) (int, error) {
	return decodeRLE(src, dst, true)
}

// DecompressFast implements Algorithm.
func (*RLE) DecompressFast(src, dst []byte, _ []uint16) (int, error) {
	return decodeRLE(src, dst, false)
}

func decodeRLE(src, dst []byte, safe bool) (int, error) {
	ip, op := 0, 0
	for ip+1 < len(src) {
		h := src[ip]
		ip++
		length := int(h&^rleRepeat) + 1
		if safe && op+length > len(dst) {
			return 0, errs.ErrCorruptData
		}

		if h&rleRepeat != 0 {
			v := src[ip]
			ip++
			run := dst[op : op+length]
			for i := range run {
				run[i] = v
			}
		} else {
			if safe && ip+length > len(src) {
				return 0, errs.ErrCorruptData
			}
			copy(dst[op:op+length], src[ip:ip+length])
			ip += length
		}
		op += length
	}
	if safe && ip != len(src) {
		return 0, errs.ErrCorruptData
	}

	return op, nil
}
