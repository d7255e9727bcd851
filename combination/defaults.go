package combination

import "fmt"

// DefaultSet lists the combinations installed at startup, in id order.
var DefaultSet = []string{
	"bwt-mtf-huffman-jbe-rle",
	"bitshuffle-rle-bitshuffle-rle",
	"bewalgo2-bitshuffle-rle",
	"bitshuffle-jbe-mtf-huffman-jbe",
	"bitshuffle-bewalgo2-mtf-bewalgo-jbe2",
	"mtf-bewalgo-huffman-jbe-rle",
	"jbe-rle-bitshuffle-rle",
	"mtf-mtf-jbe-jbe-rle",
	"jbe2-bitshuffle-rle",
	"jbe-mtf-jbe-rle",
}

// Defaults resolves DefaultSet against r.
func Defaults(r Resolver) ([]Combination, error) {
	return ParseAll(r, DefaultSet)
}

// ParseAll resolves a list of pipelines.
func ParseAll(r Resolver, texts []string) ([]Combination, error) {
	combos := make([]Combination, 0, len(texts))
	for _, text := range texts {
		c, err := Parse(r, text)
		if err != nil {
			return nil, fmt.Errorf("combination %q: %w", text, err)
		}
		combos = append(combos, c)
	}

	return combos, nil
}
