package section

import (
	"testing"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/stretchr/testify/require"
)

func TestPageEntry_RoundTrip(t *testing.T) {
	original := PageEntry{StoredLength: 4096, Kind: format.PageRecord, StoredChecksum: 0x0A0B0C0D, Checksum: 0x0102030405060708}

	data := original.Bytes()
	require.Equal(t, []byte{0x00, 0x10, 0x01, 0, 0x0D, 0x0C, 0x0B, 0x0A, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, data)

	var parsed PageEntry
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, original, parsed)
}

func TestPageEntry_ParseErrors(t *testing.T) {
	var e PageEntry
	require.ErrorIs(t, e.Parse(make([]byte, PageEntrySize-1)), errs.ErrInvalidHeaderSize)

	bad := PageEntry{StoredLength: 10, Kind: format.PageKind(7)}
	require.ErrorIs(t, e.Parse(bad.Bytes()), errs.ErrInvalidPageFile)

	empty := PageEntry{StoredLength: 0, Kind: format.PageRaw}
	require.ErrorIs(t, e.Parse(empty.Bytes()), errs.ErrInvalidPageFile)

	large := PageEntry{StoredLength: format.MaxInputSize + 1, Kind: format.PageRaw}
	require.ErrorIs(t, e.Parse(large.Bytes()), errs.ErrInvalidPageFile)

	reserved := PageEntry{StoredLength: 10, Kind: format.PageRecord}
	data := reserved.Bytes()
	data[3] = 0x40
	require.ErrorIs(t, e.Parse(data), errs.ErrInvalidPageFile)
}
