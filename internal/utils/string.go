package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsSeparator checks if a rune separates tokens in free text
func IsSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == ';' || r == '!' || r == '?' || r == '(' || r == ')' || r == '"'
}

// Tokenize splits free text into tokens on separators, dropping empty ones.
func Tokenize(s string) []string {
	return strings.FieldsFunc(s, IsSeparator)
}

// ContainsNumbers checks if a string contains any numeric digits
func ContainsNumbers(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsAllUpper reports whether s has at least one letter and no lowercase letters.
func IsAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// IsCapitalized reports whether s starts with an uppercase letter
// and has no other uppercase letters.
func IsCapitalized(s string) bool {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError || !unicode.IsUpper(first) {
		return false
	}
	for _, r := range s[size:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// LooksLikeAddress checks for characters that show up in emails, URLs and paths.
func LooksLikeAddress(s string) bool {
	return strings.ContainsAny(s, "@./")
}
