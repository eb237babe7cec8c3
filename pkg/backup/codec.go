/*
Package backup exports custom words to a portable archive and imports them
back.

An archive is a zip file with a manifest.json, which is authoritative, and
one <lang>.txt word list per language for people reading the archive by
hand. The text files are written on export and ignored on import.

	codec := backup.New(manager, "1.2.0")
	manifest, err := codec.ExportFile(ctx, "words.zip")
	...
	summary, err := codec.ImportFile(ctx, "words.zip", backup.Merge)
*/
package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/bastiangx/wordfix/pkg/personal"
	"github.com/charmbracelet/log"
)

// maxManifestSize bounds how much of manifest.json is read.
const maxManifestSize = 64 << 20

// ImportMode selects how imported words combine with existing ones.
type ImportMode int

const (
	// Merge adds imported words to the existing custom sets.
	Merge ImportMode = iota
	// Replace empties each imported language's custom set first.
	Replace
)

func (m ImportMode) String() string {
	if m == Replace {
		return "replace"
	}
	return "merge"
}

// ParseImportMode accepts "merge" or "replace", case-insensitively.
// An empty string means Merge.
func ParseImportMode(s string) (ImportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "merge":
		return Merge, nil
	case "replace":
		return Replace, nil
	}
	return Merge, fmt.Errorf("unknown import mode %q", s)
}

// LanguageSummary is the import outcome for one language.
type LanguageSummary struct {
	Language string
	Total    int
	Added    int
	Skipped  int
	Errors   int
}

// Summary is the outcome of an import.
type Summary struct {
	TotalWords   int
	AddedWords   int
	SkippedWords int
	ErrorWords   int
	Languages    []LanguageSummary
}

// Codec reads and writes backup archives for a personal dictionary.
type Codec struct {
	manager    *personal.Manager
	appVersion string
	now        func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the manifest timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// New creates a codec over manager. appVersion is recorded in exported
// manifests.
func New(manager *personal.Manager, appVersion string, opts ...Option) *Codec {
	c := &Codec{
		manager:    manager,
		appVersion: appVersion,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Export writes an archive of every non-empty custom set to w and returns
// its manifest. It fails with ErrNoWordsToExport when there is nothing to
// write, before anything reaches w.
func (c *Codec) Export(ctx context.Context, w io.Writer) (*Manifest, error) {
	all := c.manager.ListAllCustomWordsByLanguage()
	if len(all) == 0 {
		return nil, ErrNoWordsToExport
	}

	langs := make([]string, 0, len(all))
	for lang := range all {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	m := &Manifest{
		Version:    FormatVersion,
		Timestamp:  c.now().UTC(),
		AppVersion: c.appVersion,
		Languages:  make([]LanguageBackup, 0, len(langs)),
	}
	for _, lang := range langs {
		words := all[lang]
		m.Languages = append(m.Languages, LanguageBackup{
			LanguageCode: lang,
			WordCount:    len(words),
			Words:        words,
		})
	}

	zw := zip.NewWriter(w)
	mw, err := zw.Create(manifestName)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	enc := json.NewEncoder(mw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("export: write manifest: %w", err)
	}
	for _, lb := range m.Languages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lw, err := zw.Create(lb.LanguageCode + ".txt")
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		if err := utils.WriteLines(lw, lb.Words); err != nil {
			return nil, fmt.Errorf("export: write %q: %w", lb.LanguageCode, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	log.Debugf("Exported %d words in %d languages", m.TotalWords(), len(m.Languages))
	return m, nil
}

// ExportFile writes the archive to path atomically.
func (c *Codec) ExportFile(ctx context.Context, path string) (*Manifest, error) {
	if len(c.manager.ListAllCustomWordsByLanguage()) == 0 {
		return nil, ErrNoWordsToExport
	}
	var m *Manifest
	err := utils.WriteFileAtomic(path, func(w io.Writer) error {
		var err error
		m, err = c.Export(ctx, w)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Import reads an archive of size bytes from r and applies it. The manifest
// is fully checked before anything changes: a malformed archive fails with
// ErrInvalidFormat and a newer format with *IncompatibleVersionError. Word
// level problems inside a valid manifest are counted, not fatal.
func (c *Codec) Import(ctx context.Context, r io.ReaderAt, size int64, mode ImportMode) (*Summary, error) {
	m, err := readManifest(r, size)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Languages: make([]LanguageSummary, 0, len(m.Languages))}
	for _, lb := range m.Languages {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		counts, err := c.manager.ImportWords(ctx, lb.LanguageCode, lb.Words, mode == Replace)
		if err != nil {
			return summary, fmt.Errorf("import %q: %w", lb.LanguageCode, err)
		}
		summary.Languages = append(summary.Languages, LanguageSummary{
			Language: lb.LanguageCode,
			Total:    len(lb.Words),
			Added:    counts.Added,
			Skipped:  counts.Skipped,
			Errors:   counts.Errors,
		})
		summary.TotalWords += len(lb.Words)
		summary.AddedWords += counts.Added
		summary.SkippedWords += counts.Skipped
		summary.ErrorWords += counts.Errors
	}
	log.Debugf("Imported backup (%s): %d added, %d skipped, %d invalid",
		mode, summary.AddedWords, summary.SkippedWords, summary.ErrorWords)
	return summary, nil
}

// ImportFile imports the archive at path.
func (c *Codec) ImportFile(ctx context.Context, path string, mode ImportMode) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return c.Import(ctx, f, info.Size(), mode)
}

func readManifest(r io.ReaderAt, size int64) (*Manifest, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	for _, f := range zr.File {
		if f.Name != manifestName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open manifest: %v", ErrInvalidFormat, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxManifestSize))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read manifest: %v", ErrInvalidFormat, err)
		}
		return parseManifest(data)
	}
	return nil, fmt.Errorf("%w: archive has no %s", ErrInvalidFormat, manifestName)
}
