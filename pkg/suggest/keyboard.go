package suggest

import (
	"math"
	"unicode"
)

type keyPoint struct {
	x, y float64
}

// qwertyRows is the letter block of a QWERTY keyboard. Each row is shifted
// right by half a key relative to the one above.
var qwertyRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

const rowStagger = 0.5

var keyPositions = func() map[rune]keyPoint {
	pos := make(map[rune]keyPoint, 26)
	for row, keys := range qwertyRows {
		for col, r := range keys {
			pos[r] = keyPoint{x: float64(col) + float64(row)*rowStagger, y: float64(row)}
		}
	}
	return pos
}()

// KeyDistance is the Euclidean distance between two keys. Characters off
// the letter block are infinitely far away.
func KeyDistance(a, b rune) float64 {
	pa, okA := keyPositions[unicode.ToLower(a)]
	pb, okB := keyPositions[unicode.ToLower(b)]
	if !okA || !okB {
		return math.Inf(1)
	}
	return math.Hypot(pa.x-pb.x, pa.y-pb.y)
}

// proximityWeight converts a key distance to a weight with a step function.
func proximityWeight(d float64) float64 {
	switch {
	case d <= 1.5:
		return 0.9
	case d <= 2.5:
		return 0.6
	case d <= 3.5:
		return 0.3
	default:
		return 0.1
	}
}

// ProximityScore averages the proximity weights of the positions where a
// and b differ. It is 0 when the lengths differ or nothing differs.
func ProximityScore(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return 0
	}
	total, diffs := 0.0, 0
	for i := range ra {
		if ra[i] == rb[i] {
			continue
		}
		total += proximityWeight(KeyDistance(ra[i], rb[i]))
		diffs++
	}
	if diffs == 0 {
		return 0
	}
	return total / float64(diffs)
}
