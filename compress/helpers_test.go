package compress

import (
	"bytes"
	"encoding/binary"
	"math/rand"

	"github.com/arloliu/zbewalgo/format"
)

type testInput struct {
	name string
	data []byte
}

func newScratch() []uint16 {
	return make([]uint16, 4096)
}

func newBuffer() []byte {
	return make([]byte, format.BufferSize)
}

func randomBytes(seed int64, n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)

	return b
}

func ascendingWords(words int) []byte {
	b := make([]byte, 8*words)
	for i := range words {
		binary.LittleEndian.PutUint64(b[8*i:], uint64(i)*0x0101)
	}

	return b
}

func sparseBytes(n int) []byte {
	b := make([]byte, n)
	for i := 0; i < n; i += 13 {
		b[i] = byte(i%7 + 1)
	}

	return b
}

func smallAlphabet(seed int64, n int) []byte {
	rng := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	for i := range b {
		b[i] = "abcdefgh"[rng.Intn(8)]
	}

	return b
}

// testInputs covers edge lengths and typical page contents.
func testInputs() []testInput {
	return []testInput{
		{"one_byte", []byte{0x42}},
		{"seven_bytes", []byte("abcdefg")},
		{"eight_bytes", []byte("abcdefgh")},
		{"nine_bytes", []byte("abcdefghi")},
		{"zeros_64", make([]byte, 64)},
		{"zeros_4096", make([]byte, format.MaxInputSize)},
		{"ones_4095", bytes.Repeat([]byte{0xFF}, 4095)},
		{"abab_512", bytes.Repeat([]byte("ab"), 256)},
		{"text_4096", bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 92)[:4096]},
		{"ascending_words", ascendingWords(64)},
		{"repeated_block", bytes.Repeat(ascendingWords(16), 8)},
		{"sparse_4096", sparseBytes(format.MaxInputSize)},
		{"sparse_1001", sparseBytes(1001)},
		{"small_alphabet", smallAlphabet(3, 3000)},
		{"random_100", randomBytes(1, 100)},
		{"random_4096", randomBytes(2, format.MaxInputSize)},
	}
}
