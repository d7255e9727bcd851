package pagefile

import (
	"github.com/zeebo/blake3"

	"github.com/arloliu/zbewalgo/section"
)

// contentDomainKey separates page file digests from other BLAKE3 uses of the
// same bytes.
var contentDomainKey = [32]byte{
	'z', 'b', 'e', 'w', 'a', 'l', 'g', 'o', '.', 'p', 'a', 'g', 'e', 'f', 'i', 'l',
	'e', '.', 'c', 'o', 'n', 't', 'e', 'n', 't', 0, 0, 0, 0, 0, 0, 0,
}

func newDigest() *blake3.Hasher {
	h, err := blake3.NewKeyed(contentDomainKey[:])
	if err != nil {
		panic("pagefile: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	return h
}

// Digest returns the content digest stored in a page file header for data.
func Digest(data []byte) [section.DigestSize]byte {
	h := newDigest()
	_, _ = h.Write(data)

	var sum [section.DigestSize]byte
	copy(sum[:], h.Sum(nil))

	return sum
}
