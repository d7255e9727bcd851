package compress

import (
	"testing"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/stretchr/testify/require"
)

func FuzzAlgorithms(f *testing.F) {
	f.Add(uint8(0), []byte("abcdefgh abcdefgh abcdefgh"))
	f.Add(uint8(3), []byte("banana"))
	f.Add(uint8(8), make([]byte, 100))

	reg, err := NewDefaultRegistry()
	require.NoError(f, err)

	f.Fuzz(func(t *testing.T, id uint8, data []byte) {
		if len(data) > format.MaxInputSize {
			data = data[:format.MaxInputSize]
		}
		alg, ok := reg.ByID(format.AlgorithmID(int(id) % reg.Count()))
		require.True(t, ok)

		scratch := newScratch()

		// Arbitrary bytes fed to the safe decoder must never panic.
		_, err := alg.DecompressSafe(data, newBuffer(), scratch)
		if err != nil {
			require.ErrorIs(t, err, errs.ErrCorruptData)
		}

		compressed := newBuffer()
		n, err := alg.Compress(data, compressed, scratch)
		if err != nil {
			return
		}
		out := newBuffer()
		m, err := alg.DecompressSafe(compressed[:n], out, scratch)
		require.NoError(t, err)
		require.Equal(t, data, out[:m])
	})
}
