// Package golden implements multiplicative hashing using the fractional
// part of the golden ratio (Knuth's method). It maps an integer key onto
// a bucket index in [0, size) for any positive size, not just powers of two.
package golden

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

// Ratio is (sqrt(5) - 1) / 2
const Ratio = 0.6180339887

// Index returns the bucket index of key for a table with size buckets. It
// multiplies the key by Ratio, keeps the fractional part of the product and
// scales it by size, truncating toward zero. Index panics if size is not
// positive.
func Index(key int, size int) int {
	if size <= 0 {
		panic("golden: size must be positive")
	}
	tmp := float64(key) * Ratio
	i := int(math.Floor(float64(size) * (tmp - math.Floor(tmp))))
	// guard against float rounding landing exactly on size
	if i >= size {
		i = size - 1
	}
	return i
}

// Char derives a key from a single character using its ordinal value
func Char(c byte) int {
	return int(c)
}

// SumBytes derives a key from a string by summing its byte values
func SumBytes(s string) int {
	var sum int
	for i := 0; i < len(s); i++ {
		sum += int(s[i])
	}
	return sum
}

// XXHash derives a key from a string using the top 24 bits of its
// xxHash digest. Unlike SumBytes it separates anagrams. The key is kept
// small so its product with Ratio still has fractional precision.
func XXHash(s string) int {
	return int(xxhash.Sum64String(s) >> 40)
}

// KeyFunc derives an integer key from a string
type KeyFunc func(s string) int

// KeyFuncByName returns the key derivation called name ("sum" or "xxhash")
func KeyFuncByName(name string) (KeyFunc, bool) {
	switch name {
	case "", "sum":
		return SumBytes, true
	case "xxhash":
		return XXHash, true
	}
	return nil, false
}
