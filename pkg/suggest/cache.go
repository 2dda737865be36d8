package suggest

import (
	"math"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// RecentCache remembers the most recently selected aliases in a prefix tree
// so the ones under a completion subtree can be found without a scan.
type RecentCache struct {
	recentTrie  *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int
	maxAliases  int
	mu          sync.RWMutex
}

// NewRecentCache creates a cache holding at most maxAliases entries. A
// non-positive size disables it.
func NewRecentCache(maxAliases int) *RecentCache {
	if maxAliases < 0 {
		maxAliases = 0
	}
	return &RecentCache{
		recentTrie: patricia.NewTrie(),
		accessTime: make(map[string]int64, maxAliases),
		maxAliases: maxAliases,
	}
}

// Touch records a selection of alias.
func (rc *RecentCache) Touch(alias string) {
	if rc.maxAliases == 0 || alias == "" {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if _, ok := rc.accessTime[alias]; !ok {
		if len(rc.accessTime) >= rc.maxAliases {
			rc.evictLRU()
		}
		rc.recentTrie.Insert(patricia.Prefix(alias), struct{}{})
	}
	rc.accessTime[alias] = rc.nextAccessTime()
}

// Search returns the cached aliases starting with prefix, most recent first.
func (rc *RecentCache) Search(prefix string) []string {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	var results []string
	err := rc.recentTrie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		results = append(results, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error searching recent cache: %v", err)
		return nil
	}

	sort.Slice(results, func(i, j int) bool {
		return rc.accessTime[results[i]] > rc.accessTime[results[j]]
	})
	return results
}

// Forget drops alias, e.g. after a reload removed it.
func (rc *RecentCache) Forget(alias string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if _, ok := rc.accessTime[alias]; !ok {
		return
	}
	delete(rc.accessTime, alias)
	rc.recentTrie.Delete(patricia.Prefix(alias))
}

func (rc *RecentCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.accessTime)
}

func (rc *RecentCache) markHit() {
	rc.mu.Lock()
	rc.hits++
	rc.mu.Unlock()
}

func (rc *RecentCache) Stats() map[string]int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	return map[string]int{
		"recentAliases":    len(rc.accessTime),
		"maxRecentAliases": rc.maxAliases,
		"recentHits":       rc.hits,
	}
}

func (rc *RecentCache) nextAccessTime() int64 {
	rc.accessCount++
	return rc.accessCount
}

func (rc *RecentCache) evictLRU() {
	var oldest string
	var oldestTime int64 = math.MaxInt64

	for alias, t := range rc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = alias
		}
	}

	if oldest != "" {
		delete(rc.accessTime, oldest)
		rc.recentTrie.Delete(patricia.Prefix(oldest))
		log.Debugf("Evicted alias '%s' from recent cache", oldest)
	}
}
