package embedding

import (
	"math"
	"strings"
	"unicode/utf16"
)

// slotSpread is how many consecutive vector slots each word contributes to.
const slotSpread = 10

// Fallback deterministically derives a vector of exactly dim components from
// the text. It is pure: no randomness, no external calls, and identical input
// always yields an identical vector, which keeps the embed contract total
// when the primary provider is down.
//
// Each lowercased word is hashed with a 32-bit rolling hash over its UTF-16
// code units (hash = (hash << 5) - hash + codeUnit, wrapping at 32 bits), and
// (hash mod 100)/100 is added to up to slotSpread consecutive slots starting
// at (|hash| + wordIndex) mod dim. The result is L2-normalized; an all-zero
// accumulation (e.g. empty input) is returned as-is rather than divided by a
// zero norm.
func Fallback(text string, dim int) []float32 {
	vec := make([]float32, dim)

	words := strings.Fields(strings.ToLower(text))
	for i, word := range words {
		var hash int32
		for _, cu := range utf16.Encode([]rune(word)) {
			hash = (hash << 5) - hash + int32(cu)
		}

		// int64 so that |math.MinInt32| does not overflow
		base := int((abs64(int64(hash)) + int64(i)) % int64(dim))
		inc := float32(hash%100) / 100

		for j := 0; j < slotSpread && base+j < dim; j++ {
			vec[base+j] += inc
		}
	}

	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
