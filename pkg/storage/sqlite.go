package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps custom words in a single custom_words table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	s, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an existing connection and runs the migrations.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("sqlite store: migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, lang string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word FROM custom_words WHERE language = ? ORDER BY word`, lang)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: load %q: %w", lang, err)
	}
	defer rows.Close()

	words := []string{}
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("sqlite store: scan %q: %w", lang, err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// Save implements Store. The language's rows are replaced in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, lang string, words []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite store: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM custom_words WHERE language = ?`, lang); err != nil {
		return fmt.Errorf("sqlite store: clear %q: %w", lang, err)
	}
	if len(words) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO custom_words (language, word) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("sqlite store: prepare: %w", err)
		}
		defer stmt.Close()
		for _, w := range words {
			if _, err := stmt.ExecContext(ctx, lang, w); err != nil {
				return fmt.Errorf("sqlite store: insert %q: %w", w, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite store: commit %q (%d words): %w", lang, len(words), err)
	}
	log.Debugf("Saved %d custom words for %q to sqlite", len(words), lang)
	return nil
}

// Languages implements Store.
func (s *SQLiteStore) Languages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT language FROM custom_words ORDER BY language`)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: languages: %w", err)
	}
	defer rows.Close()

	var langs []string
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return langs, rows.Err()
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
