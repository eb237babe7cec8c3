package suggest

import (
	"math"

	"github.com/hbollon/go-edlib"
)

const (
	// ContractionConfidence is the fixed confidence of a contraction match.
	ContractionConfidence = 0.95
	// AutoApplyThreshold is the minimum confidence for silent replacement.
	AutoApplyThreshold = 0.9
	// DefaultMinConfidence drops weaker candidates.
	DefaultMinConfidence = 0.5
	// DefaultMaxEditDistance bounds both the length filter and the distance.
	DefaultMaxEditDistance = 2

	proximityBonusFactor = 0.15
	proximityThreshold   = 0.5
	longTokenLength      = 5
	longTokenBonus       = 0.05
	contextLanguageBonus = 0.1
)

// Distance is the Levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}

// baseConfidence maps an edit distance to a starting confidence.
func baseConfidence(distance int) float64 {
	switch distance {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.5
	default:
		return 0.2
	}
}

// Confidence scores a dictionary candidate. tokenLen is the rune length of
// the typed token; contextMatch is set when the candidate's language equals
// the language of the surrounding text. The result is clamped to [0, 1].
func Confidence(distance int, proximity float64, tokenLen int, contextMatch bool) float64 {
	c := baseConfidence(distance)
	if proximity > proximityThreshold {
		c += proximityBonusFactor * proximity
	}
	if tokenLen >= longTokenLength {
		c += longTokenBonus
	}
	if contextMatch {
		c += contextLanguageBonus
	}
	return math.Max(0, math.Min(1, c))
}
