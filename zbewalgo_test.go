package zbewalgo

import (
	"bytes"
	"crypto/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/pagefile"
)

func testPage() []byte {
	page := make([]byte, format.MaxInputSize)
	for i := range page {
		page[i] = byte(i / 64)
	}

	return page
}

// TestDefault verifies the default engine is shared and uses default knobs
func TestDefault(t *testing.T) {
	require.Same(t, Default(), Default())
	require.Equal(t, engine.DefaultMaxOutputSize, Default().MaxOutputSize())
	require.Equal(t, 10, Default().Table().Count())
	require.Equal(t, Default().RequiredScratchSize(), RequiredScratchSize())
}

// TestCompress_RoundTrip verifies both decompression paths restore the page
func TestCompress_RoundTrip(t *testing.T) {
	page := testPage()

	record, err := Compress(nil, page)
	require.NoError(t, err)
	require.Less(t, len(record), len(page))

	restored, err := DecompressSafe(nil, record)
	require.NoError(t, err)
	require.Equal(t, page, restored)

	restored, err = DecompressFast(restored[:0], record)
	require.NoError(t, err)
	require.Equal(t, page, restored)
}

// TestCompress_Errors verifies error reporting of the package-level functions
func TestCompress_Errors(t *testing.T) {
	random := make([]byte, format.MaxInputSize)
	_, _ = rand.Read(random)

	_, err := Compress(nil, random)
	require.ErrorIs(t, err, errs.ErrNotCompressible)

	_, err = Compress(nil, make([]byte, format.MaxInputSize+1))
	require.ErrorIs(t, err, errs.ErrInputTooLarge)

	_, err = DecompressSafe(nil, []byte{0, 0, 0, 0, 0, 0, 0, 0, 1})
	require.ErrorIs(t, err, errs.ErrCorruptData)
}

// TestCompress_Concurrent verifies pooled workers can be used from many goroutines
func TestCompress_Concurrent(t *testing.T) {
	page := testPage()

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 20 {
				in := page[:1024+g*128+i]
				record, err := Compress(nil, in)
				if !assertNoError(t, err) {
					return
				}
				out, err := DecompressSafe(nil, record)
				if !assertNoError(t, err) {
					return
				}
				if !bytes.Equal(in, out) {
					t.Errorf("goroutine %d iteration %d: round trip mismatch", g, i)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func assertNoError(t *testing.T, err error) bool {
	t.Helper()
	if err != nil {
		t.Error(err)
		return false
	}

	return true
}

// TestNewWorker verifies workers of the default engine keep their own history
func TestNewWorker(t *testing.T) {
	w := NewWorker()
	require.Same(t, Default(), w.Engine())

	record, err := w.Compress(nil, testPage())
	require.NoError(t, err)
	best := len(record) - format.RecordHeaderSize
	want := min(max(best+best>>3, engine.DefaultEarlyAbortSize), engine.DefaultMaxOutputSize)
	require.Equal(t, want, w.History().AcceptedSize)
}

// TestExec verifies commands reach the default engine
func TestExec(t *testing.T) {
	changed, err := Exec("add bwt-mtf-huffman-jbe-rle")
	require.NoError(t, err)
	require.False(t, changed, "default combination is already present")

	_, err = Exec("add nope")
	require.ErrorIs(t, err, errs.ErrUnknownAlgorithm)
}

// TestNewEngine verifies custom engines are independent of the default one
func TestNewEngine(t *testing.T) {
	e, err := NewEngine(engine.WithCombinations("rle"))
	require.NoError(t, err)
	require.NotSame(t, Default(), e)
	require.Equal(t, 1, e.Table().Count())

	_, err = NewEngine(engine.WithMaxOutputSize(0))
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

// TestPages verifies the page file helpers
func TestPages(t *testing.T) {
	data := bytes.Repeat(testPage(), 3)
	data = append(data, "tail"...)

	file, err := EncodePages(data, pagefile.WithPageSize(2048))
	require.NoError(t, err)
	require.Less(t, len(file), len(data))

	restored, err := DecodePages(file)
	require.NoError(t, err)
	require.Equal(t, data, restored)

	_, err = EncodePages(data, pagefile.WithPageSize(0))
	require.ErrorIs(t, err, errs.ErrInvalidPageSize)

	_, err = DecodePages(file[:10])
	require.Error(t, err)
}
