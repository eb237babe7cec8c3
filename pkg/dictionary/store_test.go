package dictionary

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	src := MapSource{
		"en": {"hello", "world", "help", "Tea", "don't", "1nvalid", "x"},
		"id": {"teh", "kopi", "halo", "help"},
	}
	s := NewStore(src, opts...)
	require.NoError(t, s.Load(context.Background(), "en", "id"))
	return s
}

func TestValidateWord(t *testing.T) {
	testCases := []struct {
		input string
		want  string
		valid bool
	}{
		{"hello", "hello", true},
		{"  Hello ", "hello", true},
		{"don't", "don't", true},
		{"well-known", "well-known", true},
		{"café", "café", true},
		{"a", "", false},
		{"", "", false},
		{"--", "", false},
		{"''", "", false},
		{"abc1", "", false},
		{"hello world", "", false},
		{"e@mail", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ValidateWord(tc.input)
			if !tc.valid {
				assert.ErrorIs(t, err, ErrInvalidWord)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadSkipsInvalidEntries(t *testing.T) {
	s := newTestStore(t)

	assert.True(t, s.Contains("tea"), "entries are lowercased")
	assert.False(t, s.Contains("1nvalid"))
	assert.False(t, s.Contains("x"))
	assert.Equal(t, []string{"en", "id"}, s.Languages())
	assert.False(t, s.IndexStale())
}

func TestLoadMissingLanguageAppliesNothing(t *testing.T) {
	s := NewStore(MapSource{"en": {"hello"}})

	err := s.Load(context.Background(), "en", "fr")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPackagedData)
	assert.False(t, s.Contains("hello"), "en must not be applied when fr fails")
	assert.Empty(t, s.Languages())
}

func TestReloadKeepsCustomWords(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.AddCustom("en", "wordfix"))
	s.RebuildPrefixIndex()

	require.NoError(t, s.Load(context.Background(), "en"))
	assert.True(t, s.ContainsCustom("wordfix", "en"))
	assert.True(t, s.ContainsBuiltin("hello", "en"))
}

func TestLoadAsync(t *testing.T) {
	s := NewStore(MapSource{"en": {"hello"}})

	err := <-s.LoadAsync(context.Background(), "en")
	require.NoError(t, err)
	assert.True(t, s.Contains("HELLO"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = <-s.LoadAsync(ctx, "en")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestContainsInLanguage(t *testing.T) {
	s := newTestStore(t)

	assert.True(t, s.ContainsInLanguage("teh", "id"))
	assert.False(t, s.ContainsInLanguage("teh", "en"))
	assert.True(t, s.ContainsInLanguage("Help", "en"))
	assert.True(t, s.ContainsInLanguage("help", "id"))
	assert.False(t, s.ContainsInLanguage("hello", "fr"))
}

func TestWordsByPrefix(t *testing.T) {
	s := newTestStore(t)

	words, err := s.WordsByPrefix("he")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "help"}, words, "shared words appear once")

	words, err = s.WordsByPrefix("HELxx")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "help"}, words, "only the first two characters count")

	_, err = s.WordsByPrefix("h")
	assert.ErrorIs(t, err, ErrPrefixTooShort)
	_, err = s.WordsByPrefix("")
	assert.ErrorIs(t, err, ErrPrefixTooShort)
}

func TestWordsNearLength(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, []string{"halo", "help", "kopi"}, s.WordsNearLength(4, 0))
	assert.Equal(t, []string{"don't", "halo", "hello", "help", "kopi", "tea", "teh", "world"}, s.WordsNearLength(4, 1))
	assert.Empty(t, s.WordsNearLength(12, 2))

	require.True(t, s.AddCustom("en", "wordfix"))
	assert.NotContains(t, s.WordsNearLength(7, 0), "wordfix", "snapshot until rebuild")
	s.RebuildPrefixIndex()
	assert.Equal(t, []string{"wordfix"}, s.WordsNearLength(7, 0))
}

func TestPrefixIndexStalenessFollowsVersion(t *testing.T) {
	s := newTestStore(t)
	v := s.Version()

	require.True(t, s.AddCustom("en", "hexagon"))
	assert.Equal(t, v+1, s.Version())
	assert.True(t, s.IndexStale())
	assert.True(t, s.Contains("hexagon"), "membership does not wait for the index")

	words, err := s.WordsByPrefix("he")
	require.NoError(t, err)
	assert.NotContains(t, words, "hexagon")

	s.RebuildPrefixIndex()
	assert.False(t, s.IndexStale())
	words, err = s.WordsByPrefix("he")
	require.NoError(t, err)
	assert.Contains(t, words, "hexagon")

	assert.False(t, s.AddCustom("en", "hexagon"), "duplicate add is not a mutation")
	assert.False(t, s.IndexStale())
}

func TestSetActiveLanguagesBumpsVersion(t *testing.T) {
	s := newTestStore(t, WithActiveLanguages("en"))
	v := s.Version()

	s.SetActiveLanguages("en")
	assert.Equal(t, v, s.Version(), "same list is not a change")

	s.SetActiveLanguages("id")
	assert.Equal(t, v+1, s.Version())
	assert.True(t, s.IndexStale())
	s.RebuildPrefixIndex()
	assert.False(t, s.IndexStale())
}

func TestRemoveCustomNeverTouchesBuiltin(t *testing.T) {
	s := newTestStore(t)

	assert.False(t, s.RemoveCustom("en", "hello"))
	assert.True(t, s.Contains("hello"))

	require.True(t, s.AddCustom("en", "zebra"))
	require.True(t, s.RemoveCustom("en", "zebra"))
	assert.False(t, s.Contains("zebra"), "removed custom word must not resurrect")
	assert.Empty(t, s.CustomLanguages())
}

func TestContraction(t *testing.T) {
	s := newTestStore(t)

	got, ok := s.Contraction("dont")
	require.True(t, ok)
	assert.Equal(t, "don't", got)

	_, ok = s.Contraction("hello")
	assert.False(t, ok)

	custom := NewStore(MapSource{}, WithContractions(map[string]string{"Gonna": "going to"}))
	got, ok = custom.Contraction("gonna")
	require.True(t, ok)
	assert.Equal(t, "going to", got)
	_, ok = custom.Contraction("dont")
	assert.False(t, ok)
}

func TestDetectLanguage(t *testing.T) {
	t.Run("unambiguous", func(t *testing.T) {
		s := newTestStore(t)
		lang, ok := s.DetectLanguage("kopi")
		require.True(t, ok)
		assert.Equal(t, "id", lang)
	})

	t.Run("ambiguous falls back to lexicographic order", func(t *testing.T) {
		s := newTestStore(t)
		lang, ok := s.DetectLanguage("help")
		require.True(t, ok)
		assert.Equal(t, "en", lang)
	})

	t.Run("ambiguous prefers active language", func(t *testing.T) {
		s := newTestStore(t, WithActiveLanguages("id"))
		lang, ok := s.DetectLanguage("help")
		require.True(t, ok)
		assert.Equal(t, "id", lang)
	})

	t.Run("unknown", func(t *testing.T) {
		s := newTestStore(t)
		_, ok := s.DetectLanguage("zzzz")
		assert.False(t, ok)
	})
}

func TestSetAndClearCustom(t *testing.T) {
	s := newTestStore(t)

	s.SetCustom("en", []string{"bravo", "alpha"})
	assert.Equal(t, []string{"alpha", "bravo"}, s.CustomWords("en"))
	assert.Equal(t, 2, s.ClearCustom("en"))
	assert.Empty(t, s.CustomWords("en"))
	assert.Equal(t, 0, s.ClearCustom("en"))
}

func TestConcurrentReadsDuringMutation(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, _ = s.WordsByPrefix("he")
				_ = s.Contains("hello")
				_ = s.Words()
			}
		}()
	}
	for j := 0; j < 50; j++ {
		s.AddCustom("en", "hexa")
		s.RebuildPrefixIndex()
		s.RemoveCustom("en", "hexa")
		s.RebuildPrefixIndex()
	}
	wg.Wait()
	assert.False(t, s.IndexStale())
}

func TestEmbeddedSource(t *testing.T) {
	src := NewEmbeddedSource()

	langs, err := src.Languages()
	require.NoError(t, err)
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "id")

	words, err := src.Words("en")
	require.NoError(t, err)
	assert.Contains(t, words, "hello")

	_, err = src.Words("zz")
	assert.ErrorIs(t, err, ErrNoPackagedData)
	_, err = src.Words("../etc")
	assert.ErrorIs(t, err, ErrNoPackagedData)
}
