package engine

import (
	"bytes"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbewalgo/format"
)

func newTestEngine(t testing.TB, opts ...Option) *Engine {
	t.Helper()

	e, err := New(opts...)
	require.NoError(t, err)

	return e
}

func randomBytes(seed int64, n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)

	return b
}

// runs returns count runs of width equal bytes, starting at letter first.
func runs(first byte, count, width int) []byte {
	var b []byte
	for i := range count {
		b = append(b, bytes.Repeat([]byte{first + byte(i)}, width)...)
	}

	return b
}

// stepPage returns a full page of eight 512-byte runs holding 0 to 7. Zero
// suppression grows it past format.MaxInputSize.
func stepPage() []byte {
	page := make([]byte, format.MaxInputSize)
	for i := range page {
		page[i] = byte(i / 512)
	}

	return page
}

type testInput struct {
	name string
	data []byte
}

func pageInputs() []testInput {
	text := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 92)[:format.MaxInputSize]

	words := make([]byte, 0, 1024)
	for i := range 128 {
		words = append(words, byte(i), 0, 0, 0, byte(i>>2), 0, 0, 0)
	}

	return []testInput{
		{"one_byte", []byte{0}},
		{"eight_bytes", []byte("aaaaaaaa")},
		{"zeros_64", make([]byte, 64)},
		{"zeros_4096", make([]byte, format.MaxInputSize)},
		{"runs_48", runs('a', 6, 8)},
		{"abab_512", bytes.Repeat([]byte("ab"), 256)},
		{"text_4096", text},
		{"text_4095", text[:4095]},
		{"small_ints", words},
		{"random_100", randomBytes(7, 100)},
		{"random_4096", randomBytes(8, format.MaxInputSize)},
	}
}

// recorder is an Observer keeping every event.
type recorder struct {
	mu         sync.Mutex
	compress   []CompressEvent
	decompress []DecompressEvent
}

func (r *recorder) ObserveCompress(ev CompressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compress = append(r.compress, ev)
}

func (r *recorder) ObserveDecompress(ev DecompressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decompress = append(r.decompress, ev)
}

func (r *recorder) lastCompress() CompressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.compress[len(r.compress)-1]
}
