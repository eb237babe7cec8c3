package suggest

import (
	"context"
	"fmt"
	"testing"

	"github.com/bastiangx/wordfix/pkg/detect"
	"github.com/bastiangx/wordfix/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newTestEngine(t *testing.T, src dictionary.MapSource, opts ...dictionary.Option) (*Engine, *dictionary.Store) {
	t.Helper()
	store := dictionary.NewStore(src, opts...)
	langs, err := src.Languages()
	require.NoError(t, err)
	require.NoError(t, store.Load(context.Background(), langs...))
	return NewEngine(store, detect.New(store, detect.DefaultWindow), DefaultOptions()), store
}

func TestSuggestKnownWordsReturnNothing(t *testing.T) {
	src := dictionary.MapSource{
		"en": {"hello", "world", "help", "house", "don't"},
		"id": {"teh", "kopi"},
	}
	engine, store := newTestEngine(t, src)

	for _, w := range store.Words() {
		assert.Empty(t, engine.Suggest(w, 5, nil), "known word %q", w)
	}
	assert.Empty(t, engine.Suggest("HELLO", 5, nil))
	assert.Empty(t, engine.Suggest("", 5, nil))
	assert.Empty(t, engine.Suggest("   ", 5, nil))
}

func TestSuggestEndToEnd(t *testing.T) {
	engine, _ := newTestEngine(t, dictionary.MapSource{"en": {"hello", "world"}})

	testCases := []struct {
		input string
		want  string
	}{
		{"helo", "hello"},
		{"wrld", "world"},
		{"Helo", "Hello"},
		{"WRLD", "WORLD"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := engine.Suggest(tc.input, 5, nil)
			require.NotEmpty(t, got)
			top := got[0]
			assert.Equal(t, tc.want, top.Replacement)
			assert.Equal(t, tc.input, top.Original)
			assert.GreaterOrEqual(t, top.Confidence, 0.5)
			assert.Contains(t, []Source{SourceDictionary, SourceKeyboardProximity}, top.Source)
			assert.Equal(t, 1, top.Metadata.EditDistance)
			assert.Equal(t, "en", top.Metadata.Language)
		})
	}
}

func TestSuggestContraction(t *testing.T) {
	engine, _ := newTestEngine(t, dictionary.MapSource{"en": {"hello", "world"}})

	got := engine.Suggest("dont", 5, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "don't", got[0].Replacement)
	assert.Equal(t, ContractionConfidence, got[0].Confidence)
	assert.Equal(t, SourceContraction, got[0].Source)
	assert.True(t, got[0].Metadata.IsContraction)
	assert.True(t, engine.ShouldAutoApply(got))

	got = engine.Suggest("Dont", 5, nil)
	require.NotEmpty(t, got)
	assert.Equal(t, "Don't", got[0].Replacement)
}

func TestContractionOutranksStrongerCandidates(t *testing.T) {
	// "vant" is one key away from "cant" and matches the English context,
	// which clamps its confidence to 1.0, above the contraction's 0.95.
	engine, _ := newTestEngine(t, dictionary.MapSource{
		"en": {"vant", "the", "house", "can't"},
	})

	got := engine.Suggest("cant", 5, []string{"the", "house"})
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "can't", got[0].Replacement)
	assert.Equal(t, SourceContraction, got[0].Source)
	assert.Equal(t, "vant", got[1].Replacement)
	assert.Equal(t, 1.0, got[1].Confidence)
	assert.Equal(t, SourceKeyboardProximity, got[1].Source)

	for _, s := range got[1:] {
		assert.NotEqual(t, "can't", s.Replacement, "contraction must not be duplicated by the dictionary scan")
	}
	assert.True(t, ShouldAutoApply(got))
}

func TestSuggestAmbiguousLanguageWord(t *testing.T) {
	engine, store := newTestEngine(t, dictionary.MapSource{
		"en": {"the", "house", "is"},
		"id": {"teh", "saya", "mau"},
	})
	require.True(t, store.Contains("teh"))

	assert.Empty(t, engine.Suggest("teh", 5, []string{"the", "house", "is"}))
	assert.Empty(t, engine.Suggest("teh", 5, []string{"saya", "mau"}))
	assert.Empty(t, engine.Suggest("teh", 5, nil))
}

func TestSuggestContextLanguageBonus(t *testing.T) {
	engine, _ := newTestEngine(t, dictionary.MapSource{
		"en": {"the", "house", "bat"},
		"id": {"saya", "kopi", "bar"},
	})

	// "baz" is one substitution away from both; z sits far from t and r.
	got := engine.Suggest("baz", 5, []string{"saya", "kopi"})
	require.Len(t, got, 2)
	assert.Equal(t, "bar", got[0].Replacement)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-9)
	assert.Equal(t, "bat", got[1].Replacement)
	assert.InDelta(t, 0.8, got[1].Confidence, 1e-9)

	got = engine.Suggest("baz", 5, []string{"the", "house"})
	require.Len(t, got, 2)
	assert.Equal(t, "bat", got[0].Replacement)
}

func TestSuggestOrderingAndLimit(t *testing.T) {
	words := []string{"cart", "care", "card", "cars", "cast", "cat", "cut", "coat"}
	engine, _ := newTestEngine(t, dictionary.MapSource{"en": words})

	got := engine.Suggest("carx", 0, nil)
	require.Len(t, got, DefaultMaxResults)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence)
	}

	got = engine.Suggest("carx", 2, nil)
	assert.Len(t, got, 2)
}

func TestSuggestStableTies(t *testing.T) {
	// every candidate is one insertion away from "bt", so all tie on 0.8
	engine, _ := newTestEngine(t, dictionary.MapSource{"en": {"bot", "bat", "but", "bit"}})

	got := engine.Suggest("bt", 10, nil)
	var replacements []string
	for _, s := range got {
		assert.InDelta(t, 0.8, s.Confidence, 1e-9)
		replacements = append(replacements, s.Replacement)
	}
	assert.Equal(t, []string{"bat", "bit", "bot", "but"}, replacements, "ties keep discovery order")
}

func TestSuggestDropsDistantCandidates(t *testing.T) {
	engine, _ := newTestEngine(t, dictionary.MapSource{"en": {"elephant", "cat"}})

	assert.Empty(t, engine.Suggest("elxxxant", 5, nil), "distance 3 is never suggested")
	assert.Empty(t, engine.Suggest("catalog", 5, nil), "length difference over 2")
}

func TestSuggestSeesCustomWordsAfterRebuild(t *testing.T) {
	engine, store := newTestEngine(t, dictionary.MapSource{"en": {"hello"}})

	assert.Empty(t, engine.Suggest("wordfx", 5, nil))

	require.True(t, store.AddCustom("en", "wordfix"))
	store.RebuildPrefixIndex()

	got := engine.Suggest("wordfx", 5, nil)
	require.NotEmpty(t, got)
	assert.Equal(t, "wordfix", got[0].Replacement)
	assert.Empty(t, engine.Suggest("wordfix", 5, nil))
}

func TestSuggestFollowsActiveLanguageChange(t *testing.T) {
	engine, store := newTestEngine(t, dictionary.MapSource{
		"en": {"kata", "hello"},
		"id": {"kata", "kopi"},
	}, dictionary.WithActiveLanguages("en"))

	got := engine.Suggest("kati", 5, []string{"hello"})
	require.NotEmpty(t, got)
	assert.Equal(t, "kata", got[0].Replacement)
	assert.Equal(t, "en", got[0].Metadata.Language)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-9)

	store.SetActiveLanguages("id")

	got = engine.Suggest("kati", 5, []string{"hello"})
	require.NotEmpty(t, got)
	assert.Equal(t, "kata", got[0].Replacement)
	assert.Equal(t, "id", got[0].Metadata.Language, "cached result must not survive the change")
	assert.InDelta(t, 0.8, got[0].Confidence, 1e-9)
}

func TestSuggestCacheHits(t *testing.T) {
	engine, _ := newTestEngine(t, dictionary.MapSource{"en": {"hello"}})

	first := engine.Suggest("helo", 5, nil)
	second := engine.Suggest("helo", 5, nil)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, engine.Stats()["cacheHits"])

	second[0].Replacement = "mutated"
	assert.Equal(t, "hello", engine.Suggest("helo", 5, nil)[0].Replacement, "cached lists are copied")
}

func TestShouldAutoApply(t *testing.T) {
	testCases := []struct {
		name string
		in   []Suggestion
		want bool
	}{
		{"empty", nil, false},
		{"contraction", []Suggestion{{Source: SourceContraction, Confidence: 0.95}}, true},
		{"weak contraction", []Suggestion{{Source: SourceContraction, Confidence: 0.85}}, false},
		{"dictionary", []Suggestion{{Source: SourceDictionary, Confidence: 1.0}}, false},
		{"proximity", []Suggestion{{Source: SourceKeyboardProximity, Confidence: 1.0}}, false},
		{
			"contraction not on top",
			[]Suggestion{{Source: SourceDictionary, Confidence: 1.0}, {Source: SourceContraction, Confidence: 0.95}},
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldAutoApply(tc.in))
		})
	}
}

func TestShouldIgnore(t *testing.T) {
	testCases := []struct {
		word string
		want bool
	}{
		{"", true},
		{"a", true},
		{"NASA", true},
		{"OK", true},
		{"abc123", true},
		{"2day", true},
		{"me@example", true},
		{"example.com", true},
		{"usr/bin", true},
		{"hello", false},
		{"Hello", false},
		{"don't", false},
		{"well-known", false},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%q", tc.word), func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldIgnore(tc.word))
		})
	}
}
