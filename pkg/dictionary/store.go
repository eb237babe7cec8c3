/*
Package dictionary holds the word sets the autocorrect engine checks against.

Every language owns two partitions: the built-in words, loaded once from a
Source, and the custom words a user added. A word may live in several
languages at once; lookups answer for the union.

A prefix index over all loaded words backs prefix queries and candidate
scans. It is an immutable snapshot: mutations bump Version and leave the
snapshot stale until RebuildPrefixIndex swaps in a new one, so a reader
never sees a half-built index.

	store := dictionary.NewStore(dictionary.NewEmbeddedSource(), dictionary.WithActiveLanguages("en"))
	if err := store.Load(ctx, "en", "id"); err != nil {
		return err
	}
	store.Contains("hello") // true
*/
package dictionary

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"
)

// Store owns the built-in and custom word sets of every loaded language.
// Reads may run concurrently; loads, custom mutations and index rebuilds
// take the write lock.
type Store struct {
	mu           sync.RWMutex
	source       Source
	builtin      map[string]mapset.Set[string]
	custom       map[string]mapset.Set[string]
	active       []string
	contractions map[string]string
	version      uint64
	index        *prefixIndex
}

// Option configures a Store.
type Option func(*Store)

// WithActiveLanguages sets the languages preferred when a word is ambiguous.
func WithActiveLanguages(langs ...string) Option {
	return func(s *Store) {
		s.active = append([]string(nil), langs...)
	}
}

// WithContractions replaces the contraction table.
func WithContractions(table map[string]string) Option {
	return func(s *Store) {
		s.contractions = make(map[string]string, len(table))
		for k, v := range table {
			s.contractions[strings.ToLower(k)] = v
		}
	}
}

// NewStore creates an empty store reading packaged lists from src.
func NewStore(src Source, opts ...Option) *Store {
	s := &Store{
		source:       src,
		builtin:      make(map[string]mapset.Set[string]),
		custom:       make(map[string]mapset.Set[string]),
		contractions: DefaultContractions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.index = buildPrefixIndex(s.version)
	return s
}

// Load reads the built-in lists of langs and installs them. Every list is
// read before anything is applied: if one language has no data, no
// language changes. Reloading a language replaces its built-in set and
// keeps its custom set. The prefix index is rebuilt on success.
func (s *Store) Load(ctx context.Context, langs ...string) error {
	loaded := make(map[string]mapset.Set[string], len(langs))
	for _, lang := range langs {
		if err := ctx.Err(); err != nil {
			return err
		}
		words, err := s.source.Words(lang)
		if err != nil {
			return fmt.Errorf("load %q: %w", lang, err)
		}
		set := mapset.NewThreadUnsafeSetWithSize[string](len(words))
		skipped := 0
		for _, raw := range words {
			w, err := ValidateWord(raw)
			if err != nil {
				skipped++
				continue
			}
			set.Add(w)
		}
		if skipped > 0 {
			log.Debugf("Skipped %d invalid entries in %q word list", skipped, lang)
		}
		loaded[lang] = set
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for lang, set := range loaded {
		s.builtin[lang] = set
		log.Debugf("Loaded %q: %d built-in words", lang, set.Cardinality())
	}
	s.version++
	s.index = buildPrefixIndex(s.version, s.builtin, s.custom)
	return nil
}

// LoadAsync runs Load in the background. The channel yields exactly one
// value (nil on success) and is then closed.
func (s *Store) LoadAsync(ctx context.Context, langs ...string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.Load(ctx, langs...)
	}()
	return done
}

// Contains reports whether word is in any loaded language, built-in or custom.
func (s *Store) Contains(word string) bool {
	w := NormalizeWord(word)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, set := range s.builtin {
		if set.Contains(w) {
			return true
		}
	}
	for _, set := range s.custom {
		if set.Contains(w) {
			return true
		}
	}
	return false
}

// ContainsInLanguage reports whether word is in lang's built-in or custom set.
func (s *Store) ContainsInLanguage(word, lang string) bool {
	w := NormalizeWord(word)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inLanguage(w, lang)
}

// ContainsBuiltin reports whether word is a built-in word of lang.
func (s *Store) ContainsBuiltin(word, lang string) bool {
	w := NormalizeWord(word)
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.builtin[lang]
	return ok && set.Contains(w)
}

// ContainsCustom reports whether word is a custom word of lang.
func (s *Store) ContainsCustom(word, lang string) bool {
	w := NormalizeWord(word)
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.custom[lang]
	return ok && set.Contains(w)
}

func (s *Store) inLanguage(w, lang string) bool {
	if set, ok := s.builtin[lang]; ok && set.Contains(w) {
		return true
	}
	if set, ok := s.custom[lang]; ok && set.Contains(w) {
		return true
	}
	return false
}

// WordsByPrefix returns every indexed word whose first two characters match
// those of prefix. Prefixes shorter than two characters fail with
// ErrPrefixTooShort. The result reflects the last rebuilt index.
func (s *Store) WordsByPrefix(prefix string) ([]string, error) {
	p := NormalizeWord(prefix)
	if utf8.RuneCountInString(p) < PrefixLength {
		return nil, fmt.Errorf("%w: %q", ErrPrefixTooShort, prefix)
	}
	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()
	return idx.byPrefix(p), nil
}

// Contraction looks word up in the contraction table.
func (s *Store) Contraction(word string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	canonical, ok := s.contractions[strings.ToLower(word)]
	return canonical, ok
}

// DetectLanguage returns a language whose sets contain word. Active
// languages are tried first, in their configured order; the remaining
// loaded languages follow in lexicographic order.
func (s *Store) DetectLanguage(word string) (string, bool) {
	w := NormalizeWord(word)
	if w == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, lang := range s.active {
		if s.inLanguage(w, lang) {
			return lang, true
		}
	}
	for _, lang := range s.languagesLocked() {
		if s.inLanguage(w, lang) {
			return lang, true
		}
	}
	return "", false
}

// SetActiveLanguages changes the preferred languages for ambiguous words.
// A change counts as a mutation: Version moves and the index goes stale,
// so anything cached against the old version is dropped.
func (s *Store) SetActiveLanguages(langs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Equal(s.active, langs) {
		return
	}
	s.active = append([]string(nil), langs...)
	s.version++
}

// ActiveLanguages returns the preferred languages.
func (s *Store) ActiveLanguages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.active...)
}

// Languages returns every language with a built-in or custom set, sorted.
func (s *Store) Languages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.languagesLocked()
}

func (s *Store) languagesLocked() []string {
	seen := make(map[string]struct{}, len(s.builtin)+len(s.custom))
	for lang := range s.builtin {
		seen[lang] = struct{}{}
	}
	for lang := range s.custom {
		seen[lang] = struct{}{}
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Words returns the sorted, distinct words of the current index snapshot,
// for diagnostics and tests. The slice is shared and must not be modified.
func (s *Store) Words() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.words
}

// WordsNearLength returns the snapshot's words whose rune count is within
// delta of length, sorted.
func (s *Store) WordsNearLength(length, delta int) []string {
	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()
	return idx.nearLength(length, delta)
}

// RebuildPrefixIndex recomputes the prefix index from the current word
// sets. It is a no-op when the index is already current.
func (s *Store) RebuildPrefixIndex() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index.version == s.version {
		return
	}
	s.index = buildPrefixIndex(s.version, s.builtin, s.custom)
}

// Version counts mutations of the word sets.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// IndexStale reports whether the word sets changed since the last rebuild.
func (s *Store) IndexStale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.version != s.version
}

// AddCustom inserts an already validated word into lang's custom set.
// It reports whether the set changed. The index is left stale.
func (s *Store) AddCustom(lang, word string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.custom[lang]
	if !ok {
		set = mapset.NewThreadUnsafeSet[string]()
		s.custom[lang] = set
	}
	if !set.Add(word) {
		return false
	}
	s.version++
	return true
}

// RemoveCustom deletes word from lang's custom set only. Built-in words are
// never touched. It reports whether the set changed.
func (s *Store) RemoveCustom(lang, word string) bool {
	w := NormalizeWord(word)
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.custom[lang]
	if !ok || !set.Contains(w) {
		return false
	}
	set.Remove(w)
	if set.Cardinality() == 0 {
		delete(s.custom, lang)
	}
	s.version++
	return true
}

// SetCustom replaces lang's custom set with words, which must already be
// validated. An empty list removes the set.
func (s *Store) SetCustom(lang string, words []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(words) == 0 {
		delete(s.custom, lang)
	} else {
		s.custom[lang] = mapset.NewThreadUnsafeSet(words...)
	}
	s.version++
}

// ClearCustom empties lang's custom set and returns how many words it held.
func (s *Store) ClearCustom(lang string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.custom[lang]
	if !ok {
		return 0
	}
	n := set.Cardinality()
	delete(s.custom, lang)
	s.version++
	return n
}

// CustomWords returns lang's custom words, sorted.
func (s *Store) CustomWords(lang string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.custom[lang]
	if !ok {
		return []string{}
	}
	words := set.ToSlice()
	sort.Strings(words)
	return words
}

// CustomLanguages returns the languages with at least one custom word, sorted.
func (s *Store) CustomLanguages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	langs := make([]string, 0, len(s.custom))
	for lang, set := range s.custom {
		if set.Cardinality() > 0 {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

// Stats returns word counts for diagnostics.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	builtin, custom := 0, 0
	for _, set := range s.builtin {
		builtin += set.Cardinality()
	}
	for _, set := range s.custom {
		custom += set.Cardinality()
	}
	return map[string]int{
		"builtinWords": builtin,
		"customWords":  custom,
		"indexedWords": len(s.index.words),
		"languages":    len(s.languagesLocked()),
	}
}
