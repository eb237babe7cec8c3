// Package suggest is the autocorrect core: it turns a possibly misspelled
// token into ranked corrections using edit distance, keyboard proximity,
// the contraction table and the language of the surrounding text.
package suggest

// ICorrector is what the CLI and the IPC server call into.
type ICorrector interface {
	// Suggest returns at most maxResults corrections for token, best first.
	// contextTokens are the words typed before it, oldest first.
	Suggest(token string, maxResults int, contextTokens []string) []Suggestion

	// ShouldAutoApply reports whether the top suggestion may replace the
	// token without asking.
	ShouldAutoApply(suggestions []Suggestion) bool

	// ShouldIgnore reports whether word should not be corrected at all.
	ShouldIgnore(word string) bool

	// DefaultLimit is the result count used when a caller passes none.
	DefaultLimit() int

	// Stats returns counters about the engine and its dictionary.
	Stats() map[string]int
}

// Dictionary is the read side of the word store the engine needs.
// *dictionary.Store satisfies it.
type Dictionary interface {
	Contains(word string) bool
	Contraction(word string) (string, bool)
	DetectLanguage(word string) (string, bool)
	WordsNearLength(length, delta int) []string
	Version() uint64
	Stats() map[string]int
}

// ContextDetector infers the language of the text around a token.
// *detect.Detector satisfies it.
type ContextDetector interface {
	DetectContextLanguage(recentTokens []string) (string, bool)
}
