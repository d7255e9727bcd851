package compress

import (
	"testing"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultRegistry(t *testing.T) {
	reg, err := NewDefaultRegistry()
	require.NoError(t, err)

	require.Equal(t, 9, reg.Count())
	require.Equal(t, []string{
		"bewalgo", "bewalgo2", "bitshuffle", "bwt", "jbe", "jbe2", "mtf", "rle", "huffman",
	}, reg.Names())

	for i := range reg.Count() {
		id := format.AlgorithmID(i)
		assert.Equal(t, id.String(), reg.Name(id))

		found, err := reg.FindByName(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, found)
	}

}

func TestRegistry_MaxScratch(t *testing.T) {
	reg, err := NewDefaultRegistry()
	require.NoError(t, err)

	want := 0
	for _, name := range reg.Names() {
		id, err := reg.FindByName(name)
		require.NoError(t, err)
		alg, ok := reg.ByID(id)
		require.True(t, ok)
		want = max(want, alg.ScratchWords())
	}
	require.Equal(t, want, reg.MaxScratchWords())
	require.Equal(t, 2*want, reg.MaxScratchSize())
	require.Equal(t, bewalgoScratchWords, want)
}

func TestRegistry_Lookup(t *testing.T) {
	reg, err := NewDefaultRegistry()
	require.NoError(t, err)

	_, err = reg.FindByName("lzma")
	require.ErrorIs(t, err, errs.ErrUnknownAlgorithm)

	_, ok := reg.ByID(format.AlgorithmID(reg.Count()))
	require.False(t, ok)
	require.Equal(t, "alg12", reg.Name(12))
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry()
	require.ErrorIs(t, err, errs.ErrTooManyAlgorithms)

	_, err = NewRegistry(NewRLE(), NewRLE())
	require.ErrorIs(t, err, errs.ErrDuplicateAlgorithm)

	algs := make([]Algorithm, format.MaxAlgorithms+1)
	for i := range algs {
		algs[i] = NewMTF()
	}
	_, err = NewRegistry(algs...)
	require.ErrorIs(t, err, errs.ErrTooManyAlgorithms)
}

func TestRegistry_Tuners(t *testing.T) {
	reg, err := NewDefaultRegistry(WithBWTMaxAlphabet(20), WithMaxOutputSize(1024))
	require.NoError(t, err)

	bwtID, err := reg.FindByName("bwt")
	require.NoError(t, err)
	alg, _ := reg.ByID(bwtID)
	require.Equal(t, 20, alg.(AlphabetTuner).MaxAlphabet())

	b2ID, err := reg.FindByName("bewalgo2")
	require.NoError(t, err)
	alg, _ = reg.ByID(b2ID)
	require.Equal(t, 1024>>3-4, alg.(*Bewalgo2).MaxLiterals())

	require.NoError(t, reg.SetMaxAlphabet(200))
	alg, _ = reg.ByID(bwtID)
	require.Equal(t, 200, alg.(AlphabetTuner).MaxAlphabet())
	require.ErrorIs(t, reg.SetMaxAlphabet(300), errs.ErrInvalidConfig)

	require.NoError(t, reg.SetMaxOutputSize(2048))
	alg, _ = reg.ByID(b2ID)
	require.Equal(t, 2048>>3-4, alg.(*Bewalgo2).MaxLiterals())
}

func TestNewDefaultRegistry_InvalidOptions(t *testing.T) {
	_, err := NewDefaultRegistry(WithBWTMaxAlphabet(0))
	require.ErrorIs(t, err, errs.ErrInvalidConfig)

	_, err = NewDefaultRegistry(WithMaxOutputSize(8))
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestRegistry_Claim(t *testing.T) {
	reg, err := NewRegistry(NewRLE())
	require.NoError(t, err)

	require.NoError(t, reg.Claim())
	require.ErrorIs(t, reg.Claim(), errs.ErrInvalidConfig)

	reg.Release()
	require.NoError(t, reg.Claim())
}
