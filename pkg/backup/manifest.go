package backup

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bastiangx/wordfix/pkg/dictionary"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FormatVersion is the newest manifest version this codec reads and the
// one it writes.
const FormatVersion = 1

const (
	manifestName = "manifest.json"
	schemaName   = "manifest.schema.json"
)

var (
	// ErrNoWordsToExport is returned by Export when every custom set is empty.
	ErrNoWordsToExport = errors.New("no custom words to export")
	// ErrInvalidFormat is returned for archives or manifests that cannot be read.
	ErrInvalidFormat = errors.New("invalid backup format")
	// ErrIncompatibleVersion matches any *IncompatibleVersionError.
	ErrIncompatibleVersion = errors.New("incompatible backup version")
)

// IncompatibleVersionError reports a manifest written by a newer format.
type IncompatibleVersionError struct {
	Found     int
	Supported int
}

func (e *IncompatibleVersionError) Error() string {
	return fmt.Sprintf("backup format version %d is newer than supported version %d", e.Found, e.Supported)
}

// Is lets errors.Is match ErrIncompatibleVersion.
func (e *IncompatibleVersionError) Is(target error) bool {
	return target == ErrIncompatibleVersion
}

// Manifest is the authoritative content of a backup archive.
type Manifest struct {
	Version    int              `json:"version"`
	Timestamp  time.Time        `json:"timestamp"`
	AppVersion string           `json:"appVersion"`
	Languages  []LanguageBackup `json:"languages"`
}

// LanguageBackup holds one language's custom words.
type LanguageBackup struct {
	LanguageCode string   `json:"languageCode"`
	WordCount    int      `json:"wordCount"`
	Words        []string `json:"words"`
}

// TotalWords sums the word counts of all languages.
func (m *Manifest) TotalWords() int {
	n := 0
	for _, lb := range m.Languages {
		n += lb.WordCount
	}
	return n
}

//go:embed manifest.schema.json
var manifestSchemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func manifestSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaName, bytes.NewReader(manifestSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaName)
	})
	return schema, schemaErr
}

// parseManifest decodes and checks a manifest. The version is read first so
// that a newer format is reported as incompatible even if its layout changed.
func parseManifest(data []byte) (*Manifest, error) {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrInvalidFormat, err)
	}
	if head.Version == nil {
		return nil, fmt.Errorf("%w: manifest has no version", ErrInvalidFormat)
	}
	if *head.Version > FormatVersion {
		return nil, &IncompatibleVersionError{Found: *head.Version, Supported: FormatVersion}
	}

	s, err := manifestSchema()
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrInvalidFormat, err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrInvalidFormat, err)
	}
	seen := make(map[string]struct{}, len(m.Languages))
	for _, lb := range m.Languages {
		if !dictionary.IsLanguageCode(lb.LanguageCode) {
			return nil, fmt.Errorf("%w: bad language code %q", ErrInvalidFormat, lb.LanguageCode)
		}
		if _, dup := seen[lb.LanguageCode]; dup {
			return nil, fmt.Errorf("%w: language %q listed twice", ErrInvalidFormat, lb.LanguageCode)
		}
		seen[lb.LanguageCode] = struct{}{}
		if lb.WordCount != len(lb.Words) {
			return nil, fmt.Errorf("%w: %q declares %d words but lists %d",
				ErrInvalidFormat, lb.LanguageCode, lb.WordCount, len(lb.Words))
		}
	}
	return &m, nil
}
