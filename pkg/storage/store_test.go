package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	fileStore, err := Open(BackendFile, filepath.Join(t.TempDir(), "custom"))
	require.NoError(t, err)
	sqliteStore, err := Open(BackendSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		fileStore.Close()
		sqliteStore.Close()
	})
	return map[string]Store{
		BackendFile:   fileStore,
		BackendSQLite: sqliteStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			words, err := s.Load(ctx, "en")
			require.NoError(t, err)
			assert.Empty(t, words, "unsaved language is empty")
			assert.NotNil(t, words)

			require.NoError(t, s.Save(ctx, "en", []string{"zebra", "alpha", "don't"}))
			require.NoError(t, s.Save(ctx, "id", []string{"kopi"}))

			words, err = s.Load(ctx, "en")
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "don't", "zebra"}, words)

			langs, err := s.Languages(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"en", "id"}, langs)
		})
	}
}

func TestStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, "en", []string{"alpha", "bravo"}))
			require.NoError(t, s.Save(ctx, "en", []string{"charlie"}))

			words, err := s.Load(ctx, "en")
			require.NoError(t, err)
			assert.Equal(t, []string{"charlie"}, words)

			require.NoError(t, s.Save(ctx, "en", nil))
			words, err = s.Load(ctx, "en")
			require.NoError(t, err)
			assert.Empty(t, words)

			langs, err := s.Languages(ctx)
			require.NoError(t, err)
			assert.Empty(t, langs)
		})
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Save(ctx, "en", []string{"alpha"}))
			_, err := s.Load(ctx, "en")
			assert.Error(t, err)
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "custom")
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "en", []string{"bravo", "alpha"}))
	data, err := os.ReadFile(filepath.Join(dir, "custom_en.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbravo\n", string(data))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom_BAD!.txt"), []byte("x\n"), 0o644))
	langs, err := s.Languages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, langs)

	assert.Error(t, s.Save(ctx, "../escape", []string{"x"}))
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "custom_words.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "id", []string{"kopi", "kopi", "saya"}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	words, err := s.Load(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"kopi", "saya"}, words)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
