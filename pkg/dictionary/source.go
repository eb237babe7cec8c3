package dictionary

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/charmbracelet/log"
)

// wordListExt is the only packaged data format: one word per line, '#' comments.
const wordListExt = ".txt"

//go:embed data/*.txt
var embeddedLists embed.FS

// Source supplies the packaged (built-in) word list of a language.
// Implementations return an error wrapping ErrNoPackagedData when the
// language has no list.
type Source interface {
	Words(lang string) ([]string, error)
	Languages() ([]string, error)
}

// FSSource reads <lang>.txt files from a file system.
type FSSource struct {
	fsys fs.FS
	root string
}

// NewDirSource reads word lists from a directory on disk.
func NewDirSource(dir string) *FSSource {
	return &FSSource{fsys: os.DirFS(dir), root: "."}
}

// NewEmbeddedSource reads the word lists compiled into the binary.
func NewEmbeddedSource() *FSSource {
	return &FSSource{fsys: embeddedLists, root: "data"}
}

// Words loads the list for lang.
func (s *FSSource) Words(lang string) ([]string, error) {
	if !IsLanguageCode(lang) {
		return nil, fmt.Errorf("%w: bad language code %q", ErrNoPackagedData, lang)
	}
	name := lang + wordListExt
	f, err := s.fsys.Open(path.Join(s.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w for %q", ErrNoPackagedData, lang)
		}
		return nil, fmt.Errorf("open word list %s: %w", name, err)
	}
	defer f.Close()

	words, err := utils.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("read word list %s: %w", name, err)
	}
	log.Debugf("Word list %s read: %d entries", name, len(words))
	return words, nil
}

// Languages lists the language codes that have a word list.
func (s *FSSource) Languages() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, s.root)
	if err != nil {
		return nil, fmt.Errorf("scan word lists: %w", err)
	}
	var langs []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != wordListExt {
			continue
		}
		lang := strings.TrimSuffix(e.Name(), wordListExt)
		if IsLanguageCode(lang) {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs, nil
}

// MapSource is an in-memory Source, handy for tests and for embedding
// applications that ship their own assets.
type MapSource map[string][]string

// Words returns the list registered for lang.
func (m MapSource) Words(lang string) ([]string, error) {
	words, ok := m[lang]
	if !ok {
		return nil, fmt.Errorf("%w for %q", ErrNoPackagedData, lang)
	}
	return words, nil
}

// Languages returns the registered language codes, sorted.
func (m MapSource) Languages() ([]string, error) {
	langs := make([]string, 0, len(m))
	for lang := range m {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

// IsLanguageCode accepts short lowercase codes such as "en", "id" or "pt-br".
func IsLanguageCode(lang string) bool {
	if len(lang) < 2 || len(lang) > 16 {
		return false
	}
	for _, r := range lang {
		if (r < 'a' || r > 'z') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
