package baseline

import (
	"bytes"
	"math/rand"
	"sync"
	"testing"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/stretchr/testify/require"
)

func getAllCodecs(t testing.TB) map[string]Codec {
	codecs := make(map[string]Codec)
	for _, ct := range Types() {
		codec, err := New(ct)
		require.NoError(t, err)
		codecs[ct.String()] = codec
	}

	return codecs
}

func testPage(kind string) []byte {
	data := make([]byte, format.MaxInputSize)

	switch kind {
	case "zeros":
	case "text":
		pattern := []byte("page 0001 holds words that repeat every so often. ")
		for i := range data {
			data[i] = pattern[i%len(pattern)]
		}
	case "semi":
		for i := range data {
			if i%100 < 50 {
				data[i] = byte(i % 256)
			} else {
				data[i] = byte((i*7 + i*i) % 256)
			}
		}
	default:
		rng := rand.New(rand.NewSource(7))
		rng.Read(data)
	}

	return data
}

func TestNew(t *testing.T) {
	for _, ct := range Types() {
		codec, err := New(ct)
		require.NoError(t, err)
		require.Equal(t, ct, codec.Type())
	}

	_, err := New(format.CompressionType(0xEE))
	require.ErrorIs(t, err, errs.ErrUnsupportedCodec)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want format.CompressionType
	}{
		{"lz4", format.CompressionLZ4},
		{"LZ4", format.CompressionLZ4},
		{" zstd ", format.CompressionZstd},
		{"s2", format.CompressionS2},
		{"snappy", format.CompressionSnappy},
		{"none", format.CompressionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := Parse("brotli")
	require.ErrorIs(t, err, errs.ErrUnsupportedCodec)
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs(t) {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Empty(t, compressed)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"single_byte", []byte{0x42}},
		{"small_text", []byte("Hello, World!")},
		{"zeros_page", testPage("zeros")},
		{"text_page", testPage("text")},
		{"semi_page", testPage("semi")},
		{"random_page", testPage("random")},
		{"four_pages", bytes.Repeat(testPage("text"), 4)},
	}

	for codecName, codec := range getAllCodecs(t) {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, tc.data, decompressed)
				})
			}
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalid := []byte{0xFF, 0xFF, 0xFF, 0xFF}

	for codecName, codec := range getAllCodecs(t) {
		if codecName == format.CompressionNone.String() {
			continue
		}
		t.Run(codecName, func(t *testing.T) {
			_, err := codec.Decompress(invalid)
			require.Error(t, err)
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	const numGoroutines = 16
	page := testPage("text")

	for codecName, codec := range getAllCodecs(t) {
		t.Run(codecName, func(t *testing.T) {
			var wg sync.WaitGroup
			errCh := make(chan error, numGoroutines)

			for range numGoroutines {
				wg.Add(1)
				go func() {
					defer wg.Done()
					compressed, err := codec.Compress(page)
					if err != nil {
						errCh <- err
						return
					}
					restored, err := codec.Decompress(compressed)
					if err != nil {
						errCh <- err
						return
					}
					if !bytes.Equal(page, restored) {
						errCh <- errs.ErrCorruptData
					}
				}()
			}
			wg.Wait()
			close(errCh)

			for err := range errCh {
				require.NoError(t, err)
			}
		})
	}
}

func TestMeasure(t *testing.T) {
	pages := [][]byte{testPage("zeros"), testPage("text"), testPage("random")}

	for codecName, codec := range getAllCodecs(t) {
		t.Run(codecName, func(t *testing.T) {
			stats, err := Measure(codec, pages)
			require.NoError(t, err)
			require.Equal(t, codec.Type(), stats.Algorithm)
			require.Equal(t, 3, stats.Pages)
			require.Equal(t, int64(3*format.MaxInputSize), stats.OriginalSize)

			if codec.Type() == format.CompressionNone {
				require.InDelta(t, 1.0, stats.CompressionRatio(), 1e-9)
				require.InDelta(t, 0.0, stats.SpaceSavings(), 1e-9)
			} else {
				require.Less(t, stats.CompressionRatio(), 1.0)
				require.Greater(t, stats.SpaceSavings(), 0.0)
			}
		})
	}
}

func TestStats_ZeroOriginal(t *testing.T) {
	var s Stats
	require.InDelta(t, 0.0, s.CompressionRatio(), 1e-9)
	require.InDelta(t, 100.0, s.SpaceSavings(), 1e-9)
}
