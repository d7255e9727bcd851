// Package hash wraps the xxHash64 functions used for page checksums and
// combination table fingerprints.
package hash

import "github.com/cespare/xxhash/v2"

// Sum returns the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// ID returns the xxHash64 of a string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum32 returns the low 32 bits of the xxHash64 of data.
func Sum32(data []byte) uint32 {
	return uint32(xxhash.Sum64(data)) //nolint: gosec
}
