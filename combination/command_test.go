package combination

import (
	"testing"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	reg := newRegistry(t)

	tests := []struct {
		name    string
		line    string
		kind    CommandKind
		wantErr error
	}{
		{name: "add", line: "add bwt-mtf", kind: CommandAdd},
		{name: "set", line: "  set rle\n", kind: CommandSet},
		{name: "reset", line: "reset", kind: CommandReset},
		{name: "empty", line: " ", wantErr: errs.ErrInvalidCommand},
		{name: "unknown verb", line: "remove rle", wantErr: errs.ErrInvalidCommand},
		{name: "add without pipeline", line: "add", wantErr: errs.ErrInvalidCommand},
		{name: "add with two pipelines", line: "add rle mtf", wantErr: errs.ErrInvalidCommand},
		{name: "reset with argument", line: "reset rle", wantErr: errs.ErrInvalidCommand},
		{name: "unknown algorithm", line: "add rle-zip", wantErr: errs.ErrUnknownAlgorithm},
		{name: "empty pipeline", line: "set --", wantErr: errs.ErrInvalidCombination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCommand(reg, tt.line)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.kind, cmd.Kind)
		})
	}
}

func TestExec(t *testing.T) {
	reg := newRegistry(t)
	table := newDefaultTable(t)

	cmd, changed, err := Exec(table, reg, "add rle")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "add rle", cmd.Format(reg))
	assert.Equal(t, 11, table.Count())

	_, changed, err = Exec(table, reg, "add rle")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 11, table.Count())

	_, _, err = Exec(table, reg, "add rle-nope")
	require.ErrorIs(t, err, errs.ErrUnknownAlgorithm)
	assert.Equal(t, 11, table.Count(), "failed add leaves the table unchanged")

	cmd, changed, err = Exec(table, reg, "set bwt-mtf-huffman-jbe-rle")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, CommandSet, cmd.Kind)
	require.Equal(t, 1, table.Count())
	c, err := table.Get(0)
	require.NoError(t, err)
	assert.Equal(t, []format.AlgorithmID{format.AlgBWT, format.AlgMTF, format.AlgHuffman, format.AlgJBE, format.AlgRLE}, c.IDs())

	cmd, _, err = Exec(table, reg, "reset")
	require.NoError(t, err)
	assert.Equal(t, "reset", cmd.Format(reg))
	assert.Equal(t, 10, table.Count())
}

func TestCommand_ApplyUnknownKind(t *testing.T) {
	table := newDefaultTable(t)

	_, err := Command{}.Apply(table)
	require.ErrorIs(t, err, errs.ErrInvalidCommand)
	assert.Equal(t, "Unknown", CommandKind(0).String())
}
