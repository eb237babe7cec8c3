package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/bastiangx/wordfix/pkg/dictionary"
	"github.com/charmbracelet/log"
)

const (
	customPrefix = "custom_"
	customExt    = ".txt"
)

// FileStore keeps one flat word list per language: <dir>/custom_<lang>.txt.
// Writes go through a temp file and a rename.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store: empty directory")
	}
	status := utils.CheckDirStatus(dir)
	if status.Error != nil {
		return nil, fmt.Errorf("file store: %w", status.Error)
	}
	if !status.Writable {
		log.Warnf("Custom word directory %s is not writable; changes will fail to persist", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory.
func (fs *FileStore) Dir() string {
	return fs.dir
}

func (fs *FileStore) path(lang string) (string, error) {
	if !dictionary.IsLanguageCode(lang) {
		return "", fmt.Errorf("file store: invalid language code %q", lang)
	}
	return filepath.Join(fs.dir, customPrefix+lang+customExt), nil
}

// Load implements Store.
func (fs *FileStore) Load(ctx context.Context, lang string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := fs.path(lang)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file store: open %s: %w", p, err)
	}
	defer f.Close()

	words, err := utils.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("file store: read %s: %w", p, err)
	}
	if words == nil {
		words = []string{}
	}
	return words, nil
}

// Save implements Store.
func (fs *FileStore) Save(ctx context.Context, lang string, words []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := fs.path(lang)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file store: remove %s: %w", p, err)
		}
		return nil
	}

	sorted := append([]string(nil), words...)
	sort.Strings(sorted)
	err = utils.WriteFileAtomic(p, func(w io.Writer) error {
		return utils.WriteLines(w, sorted)
	})
	if err != nil {
		return fmt.Errorf("file store: write %s: %w", p, err)
	}
	log.Debugf("Saved %d custom words for %q to %s", len(sorted), lang, p)
	return nil
}

// Languages implements Store.
func (fs *FileStore) Languages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("file store: list %s: %w", fs.dir, err)
	}
	var langs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, customPrefix) || !strings.HasSuffix(name, customExt) {
			continue
		}
		lang := strings.TrimSuffix(strings.TrimPrefix(name, customPrefix), customExt)
		if dictionary.IsLanguageCode(lang) {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs, nil
}

// Close implements Store.
func (fs *FileStore) Close() error {
	return nil
}
