package dictionary

import (
	"sort"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/tchap/go-patricia/v2/patricia"
)

// PrefixLength is the number of leading runes the prefix index buckets on.
const PrefixLength = 2

// prefixIndex is an immutable snapshot of every loaded word. words keeps
// the trie keys in lexicographic order and byLen buckets them by rune count,
// each bucket also sorted.
type prefixIndex struct {
	trie    *patricia.Trie
	words   []string
	byLen   map[int][]string
	version uint64
}

// buildPrefixIndex unions every built-in and custom set into a fresh index.
func buildPrefixIndex(version uint64, sets ...map[string]mapset.Set[string]) *prefixIndex {
	all := mapset.NewThreadUnsafeSet[string]()
	for _, byLang := range sets {
		for _, set := range byLang {
			all = all.Union(set)
		}
	}

	idx := &prefixIndex{
		trie:    patricia.NewTrie(),
		words:   all.ToSlice(),
		byLen:   make(map[int][]string),
		version: version,
	}
	sort.Strings(idx.words)
	for _, w := range idx.words {
		idx.trie.Insert(patricia.Prefix(w), true)
		n := utf8.RuneCountInString(w)
		idx.byLen[n] = append(idx.byLen[n], w)
	}

	log.Debugf("Prefix index rebuilt: %d words, version %d", len(idx.words), version)
	return idx
}

// byPrefix returns the words whose first PrefixLength runes equal those of
// prefix, sorted. The caller guarantees prefix is long enough.
func (idx *prefixIndex) byPrefix(prefix string) []string {
	key := leadingRunes(prefix, PrefixLength)
	var out []string
	err := idx.trie.VisitSubtree(patricia.Prefix(key), func(p patricia.Prefix, _ patricia.Item) error {
		out = append(out, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting prefix index subtree: %v", err)
		return nil
	}
	sort.Strings(out)
	return out
}

// nearLength returns the words whose rune count is within delta of n,
// sorted.
func (idx *prefixIndex) nearLength(n, delta int) []string {
	var out []string
	for l := n - delta; l <= n+delta; l++ {
		out = append(out, idx.byLen[l]...)
	}
	sort.Strings(out)
	return out
}

func leadingRunes(s string, n int) string {
	i := 0
	for n > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return s[:i]
}
