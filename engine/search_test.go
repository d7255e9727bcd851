package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbewalgo/combination"
	"github.com/arloliu/zbewalgo/compress"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/section"
)

// countingAlgorithm counts Compress calls of the wrapped algorithm.
type countingAlgorithm struct {
	compress.Algorithm
	calls int
}

func (c *countingAlgorithm) Compress(src, dst []byte, scratch []uint16) (int, error) {
	c.calls++
	return c.Algorithm.Compress(src, dst, scratch)
}

func TestSearch_SecondCallUsesCachedBest(t *testing.T) {
	mtf := &countingAlgorithm{Algorithm: compress.NewMTF()}
	rle := &countingAlgorithm{Algorithm: compress.NewRLE()}
	reg, err := compress.NewRegistry(mtf, rle)
	require.NoError(t, err)

	obs := &recorder{}
	e := newTestEngine(t,
		WithRegistry(reg),
		WithCombinations("mtf", "rle"),
		WithEarlyAbortSize(0),
		WithObserver(obs),
	)
	w := e.NewWorker()

	// The first call sweeps the whole table: rle wins with 12 bytes.
	_, err = w.Compress(nil, runs('a', 6, 8))
	require.NoError(t, err)
	assert.Equal(t, 2, obs.lastCompress().Attempts)
	assert.Equal(t, 1, obs.lastCompress().Combination)
	assert.Equal(t, SearchHistory{BestID: 1, RetryCounter: DefaultRetryInterval - 1, AcceptedSize: 13}, w.History())

	mtf.calls, rle.calls = 0, 0
	_, err = w.Compress(nil, runs('g', 6, 8))
	require.NoError(t, err)
	assert.Equal(t, 1, obs.lastCompress().Attempts)
	assert.True(t, obs.lastCompress().EarlyAbort)
	assert.Equal(t, 1, rle.calls)
	assert.Zero(t, mtf.calls, "only the cached combination runs")
}

func TestSearch_RetryRotation(t *testing.T) {
	obs := &recorder{}
	e := newTestEngine(t, WithRetryInterval(3), WithObserver(obs))
	w := e.NewWorker()
	src := make([]byte, 4096)

	var winners []int
	var counters []uint8
	for range 5 {
		_, err := w.Compress(nil, src)
		require.NoError(t, err)
		winners = append(winners, obs.lastCompress().Combination)
		counters = append(counters, w.History().RetryCounter)
	}

	assert.Equal(t, []int{1, 1, 1, 2, 2}, winners)
	assert.Equal(t, []uint8{2, 1, 0, 2, 1}, counters)

	w.ResetHistory()
	assert.Equal(t, SearchHistory{}, w.History())
}

func TestSearch_RotationWrapsAround(t *testing.T) {
	obs := &recorder{}
	e := newTestEngine(t, WithCombinations("rle", "bitshuffle-rle"), WithRetryInterval(1), WithObserver(obs))
	w := e.NewWorker()
	src := make([]byte, 256)

	var winners []int
	for range 4 {
		_, err := w.Compress(nil, src)
		require.NoError(t, err)
		winners = append(winners, obs.lastCompress().Combination)
	}

	assert.Equal(t, []int{1, 0, 1, 0}, winners)
}

func TestSearch_FullSweepPicksSmallest(t *testing.T) {
	full := newTestEngine(t, WithEarlyAbortSize(0))

	singles := make([]*Engine, len(combination.DefaultSet))
	for i, text := range combination.DefaultSet {
		singles[i] = newTestEngine(t, WithCombinations(text), WithEarlyAbortSize(0))
	}

	for _, in := range pageInputs() {
		t.Run(in.name, func(t *testing.T) {
			best := -1
			for _, single := range singles {
				rec, err := single.NewWorker().Compress(nil, in.data)
				if err != nil {
					continue
				}
				if best < 0 || len(rec) < best {
					best = len(rec)
				}
			}

			rec, err := full.NewWorker().Compress(nil, in.data)
			if best < 0 {
				require.ErrorIs(t, err, errs.ErrNotCompressible)
				return
			}
			require.NoError(t, err)
			require.Equal(t, best, len(rec))
		})
	}
}

func TestSearch_MaxOutputSizeBound(t *testing.T) {
	e := newTestEngine(t, WithMaxOutputSize(200), WithEarlyAbortSize(100))
	w := e.NewWorker()

	for _, in := range pageInputs() {
		rec, err := w.Compress(nil, in.data)
		if err != nil {
			require.ErrorIs(t, err, errs.ErrNotCompressible, in.name)
			continue
		}
		require.LessOrEqual(t, len(rec)-section.RecordHeaderSize, 200, in.name)
		assert.LessOrEqual(t, w.History().AcceptedSize, 200)
	}

	// Lowering the maximum at runtime applies to the next call.
	require.NoError(t, e.SetMaxOutputSize(40))
	_, err := w.Compress(nil, []byte("the quick brown fox jumps over the lazy dog, twice: the quick brown fox"))
	require.ErrorIs(t, err, errs.ErrNotCompressible)
}

func TestSearch_PrefixOfCombination(t *testing.T) {
	// rle shrinks 4096 zero bytes to 64 and bitshuffle keeps that size, so
	// the record stores the one-step prefix.
	e := newTestEngine(t, WithCombinations("rle-bitshuffle"))
	w := e.NewWorker()

	rec, err := w.Compress(nil, make([]byte, 4096))
	require.NoError(t, err)

	h, err := section.ParseRecordHeader(rec)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), h.Steps)
	assert.Zero(t, rec[2], "unused id slots are zero")

	got, err := w.DecompressSafe(nil, rec)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 4096), got)
}
