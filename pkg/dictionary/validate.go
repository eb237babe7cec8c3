package dictionary

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MinWordLength is the shortest word, in runes, a word set will accept.
const MinWordLength = 2

var (
	// ErrInvalidWord is returned when a word fails the shared validation rule.
	ErrInvalidWord = errors.New("invalid word format")
	// ErrNoPackagedData is returned by Load for a language with no word list.
	ErrNoPackagedData = errors.New("no packaged dictionary data")
	// ErrPrefixTooShort is returned by WordsByPrefix for prefixes under two runes.
	ErrPrefixTooShort = errors.New("prefix must be at least 2 characters")
)

// NormalizeWord trims, NFC-normalizes and lowercases w. It does not validate.
func NormalizeWord(w string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(w)))
}

// ValidateWord normalizes w and checks it against the word rule: at least
// MinWordLength runes made only of letters, apostrophes and hyphens, with at
// least one letter. The normalized form is returned on success.
func ValidateWord(w string) (string, error) {
	n := NormalizeWord(w)
	if utf8.RuneCountInString(n) < MinWordLength {
		return "", fmt.Errorf("%w: %q is shorter than %d characters", ErrInvalidWord, w, MinWordLength)
	}
	letters := 0
	for _, r := range n {
		switch {
		case unicode.IsLetter(r) || unicode.Is(unicode.Mn, r):
			letters++
		case r == '\'' || r == '-':
		default:
			return "", fmt.Errorf("%w: %q contains %q", ErrInvalidWord, w, r)
		}
	}
	if letters == 0 {
		return "", fmt.Errorf("%w: %q has no letters", ErrInvalidWord, w)
	}
	return n, nil
}
