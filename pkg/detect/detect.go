// Package detect guesses the language a user is typing in from the last few tokens.
package detect

import (
	"sort"
)

// DefaultWindow is how many trailing context tokens are examined.
const DefaultWindow = 5

// Resolver maps a single word to a language code.
// *dictionary.Store satisfies it.
type Resolver interface {
	DetectLanguage(word string) (string, bool)
}

// Detector tallies the languages of recent tokens.
type Detector struct {
	resolver Resolver
	window   int
}

// New creates a Detector. A window <= 0 uses DefaultWindow.
func New(resolver Resolver, window int) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{resolver: resolver, window: window}
}

// Window returns the number of trailing tokens examined.
func (d *Detector) Window() int {
	return d.window
}

// DetectContextLanguage returns the language most of the last Window tokens
// resolve to. Older tokens are ignored. Ties go to the lexicographically
// smallest language code. It returns false when no token resolves.
func (d *Detector) DetectContextLanguage(recentTokens []string) (string, bool) {
	if len(recentTokens) > d.window {
		recentTokens = recentTokens[len(recentTokens)-d.window:]
	}

	tally := make(map[string]int, 2)
	for _, tok := range recentTokens {
		if lang, ok := d.resolver.DetectLanguage(tok); ok {
			tally[lang]++
		}
	}
	if len(tally) == 0 {
		return "", false
	}

	langs := make([]string, 0, len(tally))
	for lang := range tally {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	best := langs[0]
	for _, lang := range langs[1:] {
		if tally[lang] > tally[best] {
			best = lang
		}
	}
	return best, true
}
