package suggest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/wordfix/internal/utils"
)

// ApplyCase carries the capitalization of original over to replacement.
//
//	ApplyCase("TEH", "the") == "THE"
//	ApplyCase("Teh", "the") == "The"
//	ApplyCase("tEh", "the") == "tHe"
//
// Mixed patterns are copied position by position; positions past the end
// of original are lowercased.
func ApplyCase(original, replacement string) string {
	switch {
	case original == "" || replacement == "":
		return replacement
	case utils.IsAllUpper(original):
		return strings.ToUpper(replacement)
	case utils.IsCapitalized(original):
		first, size := utf8.DecodeRuneInString(replacement)
		return string(unicode.ToUpper(first)) + strings.ToLower(replacement[size:])
	}

	pattern := []rune(original)
	out := []rune(replacement)
	for i, r := range out {
		if i < len(pattern) && unicode.IsUpper(pattern[i]) {
			out[i] = unicode.ToUpper(r)
		} else {
			out[i] = unicode.ToLower(r)
		}
	}
	return string(out)
}
