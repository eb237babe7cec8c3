package suggest

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/charmbracelet/log"
)

// DefaultMaxResults is used when a caller passes maxResults <= 0.
const DefaultMaxResults = 5

// Options tunes an Engine. Zero fields take the defaults.
type Options struct {
	MaxResults      int
	MaxEditDistance int
	MinConfidence   float64
	CacheSize       int
}

// DefaultOptions returns the stock engine settings.
func DefaultOptions() Options {
	return Options{
		MaxResults:      DefaultMaxResults,
		MaxEditDistance: DefaultMaxEditDistance,
		MinConfidence:   DefaultMinConfidence,
		CacheSize:       512,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxResults <= 0 {
		o.MaxResults = d.MaxResults
	}
	if o.MaxEditDistance <= 0 {
		o.MaxEditDistance = d.MaxEditDistance
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = d.MinConfidence
	}
	return o
}

// Engine generates corrections. It never writes to the dictionary and
// does no I/O, so it is safe to call from the input path and from many
// goroutines at once.
type Engine struct {
	dict     Dictionary
	detector ContextDetector
	opts     Options
	cache    *resultCache
}

// NewEngine wires an engine to a dictionary and a context detector.
func NewEngine(dict Dictionary, detector ContextDetector, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		dict:     dict,
		detector: detector,
		opts:     opts,
		cache:    newResultCache(opts.CacheSize),
	}
}

// Suggest implements ICorrector.
func (e *Engine) Suggest(token string, maxResults int, contextTokens []string) []Suggestion {
	token = strings.TrimSpace(token)
	if token == "" {
		return []Suggestion{}
	}
	if maxResults <= 0 {
		maxResults = e.opts.MaxResults
	}

	lower := strings.ToLower(token)
	if e.dict.Contains(lower) {
		return []Suggestion{}
	}

	contextLang, _ := e.detector.DetectContextLanguage(contextTokens)
	version := e.dict.Version()
	key := token + "\x1f" + contextLang + "\x1f" + strconv.Itoa(maxResults)
	if cached, ok := e.cache.get(key, version); ok {
		return cached
	}

	suggestions := e.rank(lower, contextLang)
	if len(suggestions) > maxResults {
		suggestions = suggestions[:maxResults]
	}
	for i := range suggestions {
		suggestions[i].Original = token
		suggestions[i].Replacement = ApplyCase(token, suggestions[i].Replacement)
	}

	e.cache.put(key, version, suggestions)
	return suggestions
}

// rank collects the contraction match and the dictionary candidates for a
// lowercased token, ordered best first.
func (e *Engine) rank(lower, contextLang string) []Suggestion {
	var out []Suggestion
	filter := utils.NewSuggestionFilter()

	if canonical, ok := e.dict.Contraction(lower); ok {
		lang, _ := e.dict.DetectLanguage(canonical)
		filter.ShouldInclude(canonical)
		out = append(out, Suggestion{
			Replacement: canonical,
			Confidence:  ContractionConfidence,
			Source:      SourceContraction,
			Metadata: Metadata{
				EditDistance:  Distance(lower, canonical),
				Language:      lang,
				IsContraction: true,
			},
		})
	}

	tokenLen := utf8.RuneCountInString(lower)
	maxDist := e.opts.MaxEditDistance
	candidates := e.dict.WordsNearLength(tokenLen, maxDist)
	for _, cand := range candidates {
		dist := Distance(lower, cand)
		if dist == 0 || dist > maxDist {
			continue
		}

		proximity := ProximityScore(lower, cand)
		lang, _ := e.dict.DetectLanguage(cand)
		confidence := Confidence(dist, proximity, tokenLen, contextLang != "" && lang == contextLang)
		if confidence < e.opts.MinConfidence {
			continue
		}
		if !filter.ShouldInclude(cand) {
			continue
		}

		source := SourceDictionary
		if proximity > proximityThreshold {
			source = SourceKeyboardProximity
		}
		out = append(out, Suggestion{
			Replacement: cand,
			Confidence:  confidence,
			Source:      source,
			Metadata: Metadata{
				EditDistance:   dist,
				Language:       lang,
				ProximityScore: proximity,
			},
		})
	}
	log.Debugf("suggest %q: scanned %d candidates, kept %d", lower, len(candidates), len(out))

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Source.priority(), out[j].Source.priority()
		if pi != pj {
			return pi < pj
		}
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// ShouldAutoApply implements ICorrector. Only a confident contraction may
// be applied silently; everything else has to be shown to the user.
func (e *Engine) ShouldAutoApply(suggestions []Suggestion) bool {
	return ShouldAutoApply(suggestions)
}

// ShouldIgnore implements ICorrector.
func (e *Engine) ShouldIgnore(word string) bool {
	return ShouldIgnore(word)
}

// DefaultLimit implements ICorrector.
func (e *Engine) DefaultLimit() int {
	return e.opts.MaxResults
}

// Stats implements ICorrector.
func (e *Engine) Stats() map[string]int {
	stats := e.dict.Stats()
	for k, v := range e.cache.stats() {
		stats[k] = v
	}
	return stats
}

// ShouldAutoApply reports whether the top suggestion is a contraction with
// confidence of at least AutoApplyThreshold.
func ShouldAutoApply(suggestions []Suggestion) bool {
	if len(suggestions) == 0 {
		return false
	}
	top := suggestions[0]
	return top.Source == SourceContraction && top.Confidence >= AutoApplyThreshold
}

// ShouldIgnore skips tokens that are not worth correcting: single
// characters, acronyms, anything with a digit, and emails, URLs or paths.
func ShouldIgnore(word string) bool {
	switch {
	case utf8.RuneCountInString(word) <= 1:
		return true
	case utils.IsAllUpper(word):
		return true
	case utils.ContainsNumbers(word):
		return true
	case utils.LooksLikeAddress(word):
		return true
	}
	return false
}
