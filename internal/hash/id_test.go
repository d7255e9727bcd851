package hash

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty", "", 0xef46db3751d8e999},
		{"short", "test", 0x4fdcca5ddb678139},
		{"long", "this is a longer test string to hash", 0x69275f7f7ee59dbd},
		{"another", "another test string", 0x212a22f593810bec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, Sum([]byte(tt.data)))
			assert.Equal(t, tt.id, ID(tt.data))
			assert.Equal(t, uint32(tt.id), Sum32([]byte(tt.data)))
		})
	}
}

func BenchmarkSum_Page(b *testing.B) {
	page := make([]byte, 4096)
	rand.New(rand.NewSource(1)).Read(page)

	b.SetBytes(int64(len(page)))
	for b.Loop() {
		Sum(page)
	}
}
