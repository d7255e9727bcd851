package metrics

import (
	"bytes"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
)

func randomBytes(seed int64, n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)

	return b
}

func TestCounters_WithEngine(t *testing.T) {
	c := NewCounters()
	e, err := engine.New(engine.WithObserver(c), engine.WithCombinations("rle", "bitshuffle-rle"))
	require.NoError(t, err)
	w := e.NewWorker()

	rec, err := w.Compress(nil, make([]byte, 4096))
	require.NoError(t, err)
	_, err = w.Compress(nil, make([]byte, 2048))
	require.NoError(t, err)
	_, err = w.Compress(nil, randomBytes(1, 512))
	require.ErrorIs(t, err, errs.ErrNotCompressible)
	_, err = w.Compress(nil, make([]byte, 5000))
	require.ErrorIs(t, err, errs.ErrInputTooLarge)

	_, err = w.DecompressSafe(nil, rec)
	require.NoError(t, err)
	_, err = w.DecompressSafe(nil, rec[:4])
	require.Error(t, err)

	s := c.Snapshot()
	assert.Equal(t, uint64(2), s.Compressed)
	assert.Equal(t, uint64(1), s.NotCompressible)
	assert.Equal(t, uint64(1), s.Rejected)
	assert.Equal(t, uint64(1), s.Decompressed)
	assert.Equal(t, uint64(1), s.Corrupt)
	assert.Equal(t, uint64(4096+2048), s.BytesIn)
	assert.Less(t, s.Ratio(), 0.1)

	// The first call rotates to combination 1 and wins there at once; the
	// second keeps it.
	assert.Equal(t, map[int]uint64{1: 2}, s.Wins)
	assert.Equal(t, map[int]uint64{1: 2}, s.Attempts)

	c.Reset()
	s = c.Snapshot()
	assert.Zero(t, s.Compressed)
	assert.Empty(t, s.Wins)
	assert.Zero(t, s.Ratio())
}

func TestCounters_Concurrent(t *testing.T) {
	c := NewCounters()

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 1000 {
				c.ObserveCompress(engine.CompressEvent{Combination: (g + i) % 4, Attempts: 1 + i%3, InputSize: 10, OutputSize: 5})
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	assert.Equal(t, uint64(8000), s.Compressed)
	assert.Equal(t, uint64(80000), s.BytesIn)
	assert.InDelta(t, 0.5, s.Ratio(), 1e-9)

	var wins uint64
	for _, v := range s.Wins {
		wins += v
	}
	assert.Equal(t, uint64(8000), wins)
}

func TestStats_Render(t *testing.T) {
	c := NewCounters()
	c.ObserveCompress(engine.CompressEvent{Combination: 3, Attempts: 2, InputSize: 100, OutputSize: 20})
	c.ObserveCompress(engine.CompressEvent{Combination: -1, Attempts: 10, Err: errs.ErrNotCompressible})

	var buf bytes.Buffer
	require.NoError(t, c.Snapshot().Render(&buf, func(id int) string { return fmt.Sprintf("combo-%d", id) }))

	out := buf.String()
	assert.Contains(t, out, "compressed 1\n")
	assert.Contains(t, out, "not compressible 1\n")
	assert.Contains(t, out, "ratio 0.200\n")
	assert.Contains(t, out, "combo-3")
	assert.Contains(t, out, "   2 attempts 1 calls\n")

	buf.Reset()
	require.NoError(t, c.Snapshot().Render(&buf, nil))
	assert.Contains(t, buf.String(), "combination 3")
}
