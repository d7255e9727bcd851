package section

import (
	"testing"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/stretchr/testify/require"
)

func TestNewFileHeader(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		total    int
		pages    uint32
	}{
		{"empty", 4096, 0, 0},
		{"one byte", 4096, 1, 1},
		{"exact page", 4096, 4096, 1},
		{"one over", 4096, 4097, 2},
		{"small pages", 512, 3*512 + 17, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFileHeader(tt.pageSize, tt.total)
			require.Equal(t, tt.pages, h.PageCount)
			require.Equal(t, int(tt.pages)*PageEntrySize, h.IndexSize())
			require.NoError(t, h.Validate())
		})
	}
}

func TestFileHeader_Parse(t *testing.T) {
	t.Run("Valid header", func(t *testing.T) {
		original := NewFileHeader(4096, 10000)
		for i := range original.Digest {
			original.Digest[i] = byte(i)
		}

		data := original.Bytes()
		require.Len(t, data, FileHeaderSize)
		require.Equal(t, []byte("ZBWP"), data[:4])

		parsed, err := ParseFileHeader(data)
		require.NoError(t, err)
		require.Equal(t, original, parsed)
	})

	t.Run("Invalid size", func(t *testing.T) {
		_, err := ParseFileHeader([]byte("ZBWP"))
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	corrupt := func(mutate func([]byte)) error {
		h := NewFileHeader(1024, 5000)
		data := h.Bytes()
		mutate(data)
		_, err := ParseFileHeader(data)

		return err
	}

	t.Run("Invalid magic number", func(t *testing.T) {
		require.ErrorIs(t, corrupt(func(b []byte) { b[0] = 'X' }), errs.ErrInvalidPageFile)
	})

	t.Run("Unknown version", func(t *testing.T) {
		require.ErrorIs(t, corrupt(func(b []byte) { b[4] = 2 }), errs.ErrInvalidPageFile)
	})

	t.Run("Reserved flags", func(t *testing.T) {
		require.ErrorIs(t, corrupt(func(b []byte) { b[5] = 1 }), errs.ErrInvalidPageFile)
	})

	t.Run("Reserved bytes", func(t *testing.T) {
		require.ErrorIs(t, corrupt(func(b []byte) { b[7] = 1 }), errs.ErrInvalidPageFile)
	})

	t.Run("Page size", func(t *testing.T) {
		require.ErrorIs(t, corrupt(func(b []byte) { clear(b[8:12]) }), errs.ErrInvalidPageSize)
		require.ErrorIs(t, corrupt(func(b []byte) { b[9] = 0x20 }), errs.ErrInvalidPageSize)
	})

	t.Run("Page count mismatch", func(t *testing.T) {
		require.ErrorIs(t, corrupt(func(b []byte) { b[12]++ }), errs.ErrInvalidPageFile)
	})
}
