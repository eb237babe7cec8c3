package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

// resultCache remembers recent suggestion lists. Entries are tagged with
// the dictionary version they were computed against and miss once the
// dictionary changes, so a custom-word edit is visible on the next call.
type resultCache struct {
	entries     map[string]cacheEntry
	accessCount int64
	hits        int64
	maxEntries  int
	mu          sync.Mutex
}

type cacheEntry struct {
	version     uint64
	suggestions []Suggestion
	accessTime  int64
}

func newResultCache(maxEntries int) *resultCache {
	if maxEntries <= 0 {
		return nil
	}
	return &resultCache{
		entries:    make(map[string]cacheEntry, maxEntries),
		maxEntries: maxEntries,
	}
}

// get returns a copy of the cached list for key if it was computed at version.
func (rc *resultCache) get(key string, version uint64) ([]Suggestion, bool) {
	if rc == nil {
		return nil, false
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	e, ok := rc.entries[key]
	if !ok {
		return nil, false
	}
	if e.version != version {
		delete(rc.entries, key)
		return nil, false
	}
	e.accessTime = rc.nextAccessTime()
	rc.entries[key] = e
	rc.hits++
	return append([]Suggestion(nil), e.suggestions...), true
}

func (rc *resultCache) put(key string, version uint64, suggestions []Suggestion) {
	if rc == nil {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if _, exists := rc.entries[key]; !exists && len(rc.entries) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.entries[key] = cacheEntry{
		version:     version,
		suggestions: append([]Suggestion(nil), suggestions...),
		accessTime:  rc.nextAccessTime(),
	}
}

func (rc *resultCache) stats() map[string]int {
	if rc == nil {
		return map[string]int{"cacheEntries": 0, "maxCacheEntries": 0, "cacheHits": 0}
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return map[string]int{
		"cacheEntries":    len(rc.entries),
		"maxCacheEntries": rc.maxEntries,
		"cacheHits":       int(rc.hits),
	}
}

func (rc *resultCache) nextAccessTime() int64 {
	rc.accessCount++
	return rc.accessCount
}

func (rc *resultCache) evictLRU() {
	var oldestKey string
	var oldestTime int64 = math.MaxInt64

	for key, e := range rc.entries {
		if e.accessTime < oldestTime {
			oldestTime = e.accessTime
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(rc.entries, oldestKey)
		log.Debugf("Evicted %q from suggestion cache", oldestKey)
	}
}
