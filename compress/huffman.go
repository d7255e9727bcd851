package compress

import (
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
)

const (
	huffMaxNodes      = 400
	huffMaxCodeLength = 24

	// huffLeaf marks a node entry that refers to a symbol instead of a merged pair.
	huffLeaf uint16 = 0x8000

	huffNodeCap = 520 // 511 nodes at most, 1-based

	huffFreq         = 0
	huffNodes        = huffFreq + 256
	huffWeights      = huffNodes + huffNodeCap
	huffPositions    = huffWeights + huffNodeCap
	huffScratchWords = huffPositions + huffNodeCap
)

// Huffman is a Huffman coder whose tree is an implicit array.
//
// Nodes are kept in a 1-based array sorted by weight, leaves first. The pair
// at positions 2k-1 and 2k is merged into internal node k, which is inserted
// after all nodes of equal or smaller weight. The last position holds the
// root. A 1 bit selects position 2k-1 and a 0 bit selects position 2k.
//
// Layout:
//
//	[u16 LE length][leaf count - 1][per leaf: symbol, u16 LE weight][MSB-first bitstream]
//
// The leaf table lets the decoder rebuild the same tree, so no code lengths
// are transmitted.
type Huffman struct{}

var _ Algorithm = (*Huffman)(nil)

// NewHuffman creates the Huffman coder.
func NewHuffman() *Huffman {
	return &Huffman{}
}

func (*Huffman) Name() string                { return "huffman" }
func (*Huffman) Flags() format.AlgorithmFlag { return format.FlagCompress }
func (*Huffman) ScratchWords() int           { return huffScratchWords }

// huffTree is a view of the node tables inside the scratch words.
type huffTree struct {
	nodes   []uint16 // leaf: symbol|huffLeaf, internal: k
	weights []uint16
	pos     []uint16 // position of symbol s at [s], of internal node k at [256+k]
	size    int
}

func newHuffTree(scratch []uint16, trackPositions bool) huffTree {
	t := huffTree{
		nodes:   scratch[huffNodes : huffNodes+huffNodeCap],
		weights: scratch[huffWeights : huffWeights+huffNodeCap],
	}
	if trackPositions {
		t.pos = scratch[huffPositions : huffPositions+huffNodeCap]
	}
	t.weights[0] = 0

	return t
}

func huffSlot(node uint16) int {
	if node&huffLeaf != 0 {
		return int(node &^ huffLeaf)
	}

	return 256 + int(node)
}

// insert places node after every entry whose weight is not larger.
func (t *huffTree) insert(node, weight uint16) {
	i := t.size
	for i > 0 && t.weights[i] > weight {
		t.weights[i+1] = t.weights[i]
		t.nodes[i+1] = t.nodes[i]
		if t.pos != nil {
			t.pos[huffSlot(t.nodes[i])]++
		}
		i--
	}
	i++
	t.nodes[i] = node
	t.weights[i] = weight
	if t.pos != nil {
		t.pos[huffSlot(node)] = uint16(i) //nolint: gosec
	}
	t.size++
}

// merge combines the sorted leaves into internal nodes until one root is left.
func (t *huffTree) merge() {
	for free := 2; free <= t.size; free += 2 {
		t.insert(uint16(free>>1), t.weights[free-1]+t.weights[free]) //nolint: gosec
	}
}

// Compress implements Algorithm.
func (*Huffman) Compress(src, dst []byte, scratch []uint16) (int, error) {
	n := len(src)
	if n == 0 || n > 0xFFFF || len(dst) < 3 {
		return 0, errs.ErrNotCompressible
	}

	freq := scratch[huffFreq : huffFreq+256]
	clear(freq)
	for _, v := range src {
		freq[v]++
	}

	t := newHuffTree(scratch, true)
	for s, f := range freq {
		if f > 0 {
			t.insert(uint16(s)|huffLeaf, f) //nolint: gosec
		}
	}
	leaves := t.size

	op := 3 + 3*leaves
	if op > len(dst) {
		return 0, errs.ErrNotCompressible
	}
	putLE16(dst, n)
	dst[2] = byte(leaves - 1)
	for i := 1; i <= leaves; i++ {
		dst[3*i] = byte(t.nodes[i])
		putLE16(dst[3*i+1:], int(t.weights[i]))
	}

	t.merge()
	if t.size > huffMaxNodes {
		return 0, errs.ErrNotCompressible
	}

	var codeLen [256]uint8
	var code [256]uint32
	for s, f := range freq {
		if f == 0 {
			continue
		}
		p := int(t.pos[s])
		length := 0
		var word uint32
		for p < t.size {
			word |= uint32(p&1) << length
			length++
			p = int(t.pos[256+(p+1)>>1])
		}
		if length > huffMaxCodeLength {
			return 0, errs.ErrNotCompressible
		}
		codeLen[s] = uint8(length) //nolint: gosec
		code[s] = word
	}

	var acc uint64
	bits := 0
	for _, v := range src {
		acc = acc<<codeLen[v] | uint64(code[v])
		bits += int(codeLen[v])
		for bits >= 8 {
			bits -= 8
			if op >= len(dst) {
				return 0, errs.ErrNotCompressible
			}
			dst[op] = byte(acc >> bits)
			op++
		}
	}
	if bits > 0 {
		if op >= len(dst) {
			return 0, errs.ErrNotCompressible
		}
		dst[op] = byte(acc << (8 - bits))
		op++
	}

	return op, nil
}

// DecompressSafe implements Algorithm.
func (*Huffman) DecompressSafe(src, dst []byte, scratch []uint16) (int, error) {
	return decodeHuffman(src, dst, scratch, true)
}

// DecompressFast implements Algorithm.
func (*Huffman) DecompressFast(src, dst []byte, scratch []uint16) (int, error) {
	return decodeHuffman(src, dst, scratch, false)
}

func decodeHuffman(src, dst []byte, scratch []uint16, safe bool) (int, error) {
	if safe && len(src) < 3 {
		return 0, errs.ErrCorruptData
	}

	n := getLE16(src)
	leaves := int(src[2]) + 1
	ip := 3 + 3*leaves
	if safe && (n == 0 || n > len(dst) || ip > len(src)) {
		return 0, errs.ErrCorruptData
	}

	t := newHuffTree(scratch, false)
	for i := 1; i <= leaves; i++ {
		t.nodes[i] = uint16(src[3*i]) | huffLeaf
		t.weights[i] = uint16(getLE16(src[3*i+1:])) //nolint: gosec
	}
	t.size = leaves
	t.merge()

	root := t.nodes[t.size]
	bit := 0
	for op := range n {
		node := root
		for node&huffLeaf == 0 {
			if bit == 8 {
				ip++
				bit = 0
			}
			if safe && ip >= len(src) {
				return 0, errs.ErrCorruptData
			}
			b := int(src[ip]>>(7-bit)) & 1
			bit++

			p := int(node)<<1 - b
			if safe && (p < 1 || p >= t.size) {
				return 0, errs.ErrCorruptData
			}
			node = t.nodes[p]
		}
		dst[op] = byte(node)
	}

	return n, nil
}
