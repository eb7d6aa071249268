package application

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// foldCaser is a package-level Unicode case folder for performance.
// This avoids creating a new caser for each string preparation.
var foldCaser = cases.Fold()

// prepareAnswer normalizes an answer for comparison: surrounding whitespace
// is trimmed and the string is Unicode case-folded.
func prepareAnswer(s string) string {
	return foldCaser.String(strings.TrimSpace(s))
}

// AnswerSimilarity scores how close a submitted answer is to the reference
// answer, from 0.0 (maximally dissimilar) to 1.0 (identical). Comparison is
// case-insensitive and ignores surrounding whitespace. The score is a hint
// for the evaluator; it never records a result on its own.
func AnswerSimilarity(submitted, reference string) float64 {
	s1 := prepareAnswer(submitted)
	s2 := prepareAnswer(reference)
	if s1 == s2 {
		return 1.0
	}

	// Levenshtein operates on runes, so normalize by rune count.
	distance := levenshtein.ComputeDistance(s1, s2)
	maxLen := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	similarity := 1.0 - float64(distance)/float64(maxLen)
	if similarity < 0 {
		similarity = 0
	}
	return similarity
}

// IsExactMatch reports whether the submitted answer equals the reference
// answer after trimming whitespace and folding case.
func IsExactMatch(submitted, reference string) bool {
	return prepareAnswer(submitted) == prepareAnswer(reference)
}
