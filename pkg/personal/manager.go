// Package personal manages the user's custom words: validation, conflict
// checks, persistence through a storage backend and keeping the word store
// and its prefix index in step.
package personal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bastiangx/wordfix/pkg/dictionary"
	"github.com/bastiangx/wordfix/pkg/storage"
	"github.com/charmbracelet/log"
)

var (
	// ErrAlreadyExists is returned when a word is already in the language's
	// built-in or custom set.
	ErrAlreadyExists = errors.New("word already exists")
	// ErrInvalidFormat is returned for words that fail validation.
	ErrInvalidFormat = dictionary.ErrInvalidWord
	// ErrInvalidLanguage is returned for malformed language codes.
	ErrInvalidLanguage = errors.New("invalid language code")
)

// ImportCounts tallies the per-word outcome of ImportWords.
type ImportCounts struct {
	Added   int
	Skipped int
	Errors  int
}

// Manager is the only writer of the custom partitions of a dictionary.Store.
// Every mutation validates, persists the new list, applies it in memory and
// rebuilds the prefix index, in that order; mutations are serialized.
type Manager struct {
	mu      sync.Mutex
	store   *dictionary.Store
	backing storage.Store
}

// New creates a manager over store, persisting to backing.
func New(store *dictionary.Store, backing storage.Store) *Manager {
	return &Manager{store: store, backing: backing}
}

// Store returns the word store the manager writes to.
func (m *Manager) Store() *dictionary.Store {
	return m.store
}

// Restore loads every persisted custom list into the word store. Entries
// that no longer validate are dropped with a warning.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	langs, err := m.backing.Languages(ctx)
	if err != nil {
		return fmt.Errorf("restore custom words: %w", err)
	}
	for _, lang := range langs {
		raw, err := m.backing.Load(ctx, lang)
		if err != nil {
			return fmt.Errorf("restore custom words for %q: %w", lang, err)
		}
		words := make([]string, 0, len(raw))
		for _, r := range raw {
			w, err := dictionary.ValidateWord(r)
			if err != nil {
				log.Warnf("Dropping invalid custom word %q (%s)", r, lang)
				continue
			}
			words = append(words, w)
		}
		m.store.SetCustom(lang, words)
		log.Debugf("Restored %d custom words for %q", len(words), lang)
	}
	m.store.RebuildPrefixIndex()
	return nil
}

func checkLanguage(lang string) error {
	if !dictionary.IsLanguageCode(lang) {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
	}
	return nil
}

// AddWord validates word and adds it to lang's custom set.
func (m *Manager) AddWord(ctx context.Context, word, lang string) error {
	if err := checkLanguage(lang); err != nil {
		return err
	}
	w, err := dictionary.ValidateWord(word)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store.ContainsInLanguage(w, lang) {
		return fmt.Errorf("%w: %q in %q", ErrAlreadyExists, w, lang)
	}
	next := append(m.store.CustomWords(lang), w)
	if err := m.persist(ctx, lang, next); err != nil {
		return err
	}
	m.store.AddCustom(lang, w)
	m.store.RebuildPrefixIndex()
	log.Debugf("Added custom word %q to %q", w, lang)
	return nil
}

// RemoveWord deletes word from lang's custom set. Built-in words are never
// removed. It reports whether anything was removed.
func (m *Manager) RemoveWord(ctx context.Context, word, lang string) (bool, error) {
	w := dictionary.NormalizeWord(word)

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.store.ContainsCustom(w, lang) {
		return false, nil
	}
	current := m.store.CustomWords(lang)
	next := make([]string, 0, len(current))
	for _, c := range current {
		if c != w {
			next = append(next, c)
		}
	}
	if err := m.persist(ctx, lang, next); err != nil {
		return false, err
	}
	m.store.RemoveCustom(lang, w)
	m.store.RebuildPrefixIndex()
	log.Debugf("Removed custom word %q from %q", w, lang)
	return true, nil
}

// ListCustomWords returns lang's custom words, sorted.
func (m *Manager) ListCustomWords(lang string) []string {
	return m.store.CustomWords(lang)
}

// ListAllCustomWordsByLanguage returns every non-empty custom list.
func (m *Manager) ListAllCustomWordsByLanguage() map[string][]string {
	out := make(map[string][]string)
	for _, lang := range m.store.CustomLanguages() {
		out[lang] = m.store.CustomWords(lang)
	}
	return out
}

// ClearCustomWords empties lang's custom set and returns how many words
// were removed.
func (m *Manager) ClearCustomWords(ctx context.Context, lang string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.clearLocked(ctx, lang)
	if err != nil {
		return 0, err
	}
	m.store.RebuildPrefixIndex()
	return n, nil
}

// ClearAll empties every custom set. On a storage failure the languages
// cleared so far stay cleared.
func (m *Manager) ClearAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.store.RebuildPrefixIndex()

	total := 0
	for _, lang := range m.store.CustomLanguages() {
		n, err := m.clearLocked(ctx, lang)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (m *Manager) clearLocked(ctx context.Context, lang string) (int, error) {
	if len(m.store.CustomWords(lang)) == 0 {
		return 0, nil
	}
	if err := m.persist(ctx, lang, nil); err != nil {
		return 0, err
	}
	n := m.store.ClearCustom(lang)
	log.Debugf("Cleared %d custom words from %q", n, lang)
	return n, nil
}

// ImportWords adds a batch of words to lang with one write and one index
// rebuild. With replace set the custom set is emptied first. Each word is
// counted as added, skipped (already a custom word or repeated in the
// batch) or errored (fails validation); bad words never abort the batch.
func (m *Manager) ImportWords(ctx context.Context, lang string, words []string, replace bool) (ImportCounts, error) {
	var counts ImportCounts
	if err := checkLanguage(lang); err != nil {
		return counts, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{}, len(words))
	var base []string
	if !replace {
		base = m.store.CustomWords(lang)
		for _, w := range base {
			seen[w] = struct{}{}
		}
	}
	next := append([]string(nil), base...)
	for _, raw := range words {
		w, err := dictionary.ValidateWord(raw)
		if err != nil {
			counts.Errors++
			continue
		}
		if _, dup := seen[w]; dup {
			counts.Skipped++
			continue
		}
		seen[w] = struct{}{}
		next = append(next, w)
		counts.Added++
	}

	if err := m.persist(ctx, lang, next); err != nil {
		return ImportCounts{}, err
	}
	m.store.SetCustom(lang, next)
	m.store.RebuildPrefixIndex()
	log.Debugf("Imported %q: %d added, %d skipped, %d invalid", lang, counts.Added, counts.Skipped, counts.Errors)
	return counts, nil
}

func (m *Manager) persist(ctx context.Context, lang string, words []string) error {
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)
	if err := m.backing.Save(ctx, lang, sorted); err != nil {
		log.Errorf("Failed to persist custom words for %q: %v", lang, err)
		return fmt.Errorf("persist custom words for %q: %w", lang, err)
	}
	return nil
}
