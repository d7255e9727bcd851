package compress

const (
	avlNull     = 0xFFFF
	avlMaxDepth = 32
)

// avlTree is a height-balanced search tree over 8-byte values. Nodes live in
// dense arrays and node i holds the i-th inserted value, so the node index
// doubles as the literal table index.
//
// All arrays are views into caller scratch memory. A value is stored as four
// little-endian uint16 words.
type avlTree struct {
	values []uint16
	left   []uint16
	right  []uint16
	height []uint16
	root   uint16
	size   int
}

func newAVLTree(scratch []uint16, capacity int) avlTree {
	values := 4 * capacity
	return avlTree{
		values: scratch[:values],
		left:   scratch[values : values+capacity],
		right:  scratch[values+capacity : values+2*capacity],
		height: scratch[values+2*capacity : values+3*capacity],
		root:   avlNull,
	}
}

func avlScratchWords(capacity int) int {
	return 7 * capacity
}

func (t *avlTree) reset() {
	t.root = avlNull
	t.size = 0
}

func (t *avlTree) capacity() int {
	return len(t.left)
}

func (t *avlTree) value(i int) uint64 {
	v := t.values[4*i : 4*i+4]
	return uint64(v[0]) | uint64(v[1])<<16 | uint64(v[2])<<32 | uint64(v[3])<<48
}

func (t *avlTree) h(n uint16) int {
	if n == avlNull {
		return 0
	}

	return int(t.height[n])
}

func (t *avlTree) update(n uint16) {
	t.height[n] = uint16(1 + max(t.h(t.left[n]), t.h(t.right[n]))) //nolint: gosec
}

func (t *avlTree) rotateRight(n uint16) uint16 {
	l := t.left[n]
	t.left[n] = t.right[l]
	t.right[l] = n
	t.update(n)
	t.update(l)

	return l
}

func (t *avlTree) rotateLeft(n uint16) uint16 {
	r := t.right[n]
	t.right[n] = t.left[r]
	t.left[r] = n
	t.update(n)
	t.update(r)

	return r
}

// rebalance restores the AVL property at n and returns the new subtree root.
func (t *avlTree) rebalance(n uint16) uint16 {
	t.update(n)
	balance := t.h(t.left[n]) - t.h(t.right[n])
	switch {
	case balance > 1:
		if t.h(t.left[t.left[n]]) < t.h(t.right[t.left[n]]) {
			t.left[n] = t.rotateLeft(t.left[n])
		}
		return t.rotateRight(n)
	case balance < -1:
		if t.h(t.right[t.right[n]]) < t.h(t.left[t.right[n]]) {
			t.right[n] = t.rotateRight(t.right[n])
		}
		return t.rotateLeft(n)
	default:
		return n
	}
}

// find returns the index of v, or -1.
func (t *avlTree) find(v uint64) int {
	n := t.root
	for n != avlNull {
		nv := t.value(int(n))
		switch {
		case v == nv:
			return int(n)
		case v < nv:
			n = t.left[n]
		default:
			n = t.right[n]
		}
	}

	return -1
}

// insert returns the index of v, adding it as a new node when missing.
// The second result reports whether v was added. It returns -1 when the tree
// is full.
func (t *avlTree) insert(v uint64) (int, bool) {
	var path [avlMaxDepth]uint16
	depth := 0

	n := t.root
	parentLink := &t.root
	for n != avlNull {
		nv := t.value(int(n))
		if v == nv {
			return int(n), false
		}
		path[depth] = n
		depth++
		if v < nv {
			parentLink = &t.left[n]
		} else {
			parentLink = &t.right[n]
		}
		n = *parentLink
	}

	if t.size >= t.capacity() {
		return -1, false
	}
	idx := t.size
	t.size++
	vals := t.values[4*idx : 4*idx+4]
	vals[0] = uint16(v)
	vals[1] = uint16(v >> 16)
	vals[2] = uint16(v >> 32)
	vals[3] = uint16(v >> 48)
	node := uint16(idx) //nolint: gosec
	t.left[node] = avlNull
	t.right[node] = avlNull
	t.height[node] = 1
	*parentLink = node

	for i := depth - 1; i >= 0; i-- {
		p := path[i]
		np := t.rebalance(p)
		if np == p {
			continue
		}
		switch {
		case i == 0:
			t.root = np
		case t.left[path[i-1]] == p:
			t.left[path[i-1]] = np
		default:
			t.right[path[i-1]] = np
		}
	}

	return idx, true
}
