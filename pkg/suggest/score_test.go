package suggest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	testCases := []struct {
		a, b string
		want int
	}{
		{"helo", "hello", 1},
		{"wrld", "world", 1},
		{"teh", "the", 2},
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"same", "same", 0},
		{"café", "cafe", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.a+"/"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.want, Distance(tc.a, tc.b))
			assert.Equal(t, Distance(tc.a, tc.b), Distance(tc.b, tc.a), "distance is symmetric")
		})
	}
}

func TestConfidence(t *testing.T) {
	testCases := []struct {
		name      string
		distance  int
		proximity float64
		tokenLen  int
		context   bool
		want      float64
	}{
		{"distance one", 1, 0, 4, false, 0.8},
		{"distance two", 2, 0, 4, false, 0.5},
		{"far", 3, 0, 4, false, 0.2},
		{"long token", 1, 0, 5, false, 0.85},
		{"context match", 1, 0, 4, true, 0.9},
		{"weak proximity gets no bonus", 1, 0.5, 4, false, 0.8},
		{"close keys", 1, 0.9, 4, false, 0.935},
		{"clamped", 1, 0.9, 6, true, 1.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Confidence(tc.distance, tc.proximity, tc.tokenLen, tc.context), 1e-9)
		})
	}
}

func TestKeyDistance(t *testing.T) {
	assert.InDelta(t, 1.0, KeyDistance('q', 'w'), 1e-9)
	assert.InDelta(t, 1.0, KeyDistance('A', 's'), 1e-9)
	assert.InDelta(t, math.Hypot(0.5, 1), KeyDistance('q', 'a'), 1e-9)
	assert.Equal(t, 0.0, KeyDistance('g', 'g'))
	assert.True(t, math.IsInf(KeyDistance('a', '\''), 1))
	assert.True(t, math.IsInf(KeyDistance('é', 'e'), 1))
}

func TestProximityScore(t *testing.T) {
	testCases := []struct {
		a, b string
		want float64
	}{
		{"cat", "cst", 0.9},
		{"cant", "vant", 0.9},
		{"cat", "cet", 0.6},
		{"qat", "pat", 0.1},
		{"abc", "abcd", 0},
		{"abc", "abc", 0},
		{"don't", "donxt", 0.1},
	}

	for _, tc := range testCases {
		t.Run(tc.a+"/"+tc.b, func(t *testing.T) {
			assert.InDelta(t, tc.want, ProximityScore(tc.a, tc.b), 1e-9)
		})
	}
}

func TestApplyCase(t *testing.T) {
	testCases := []struct {
		original    string
		replacement string
		want        string
	}{
		{"TEH", "the", "THE"},
		{"Teh", "the", "The"},
		{"tEh", "the", "tHe"},
		{"teh", "the", "the"},
		{"hELo", "hello", "hELlo"},
		{"DONT", "don't", "DON'T"},
		{"Dont", "don't", "Don't"},
		{"", "the", "the"},
		{"teh", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.original+"->"+tc.replacement, func(t *testing.T) {
			assert.Equal(t, tc.want, ApplyCase(tc.original, tc.replacement))
		})
	}
}
