package match

import (
	"strings"
	"unicode"
)

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	// row[j] holds the distance between the processed prefix of ra and rb[:j].
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i, ca := range ra {
		diag := row[0]
		row[0] = i + 1

		for j, cb := range rb {
			cost := 1
			if ca == cb {
				cost = 0
			}

			next := min(row[j+1]+1, row[j]+1, diag+cost)
			diag, row[j+1] = row[j+1], next
		}
	}

	return row[len(rb)]
}

// Similarity returns 1 minus the edit distance over the longer length, so
// identical strings score 1 and unrelated ones approach 0.
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// Score compares two identifiers after folding case and separators.
func Score(a, b string) float64 {
	return Similarity(Fold(a), Fold(b))
}

// Fold lower-cases s and drops separators, so "deref_mut" and "DerefMut"
// fold to the same string.
func Fold(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ', '\t':
			return -1
		}

		return unicode.ToLower(r)
	}, s)
}
