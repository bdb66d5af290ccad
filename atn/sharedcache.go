package atn

import "sync"

var (
	sharedCacheMu sync.Mutex
	sharedCaches  = map[string]*ContextCache{}
)

// SharedContextCache returns the process-wide ContextCache for a's content,
// creating one on first use (§5 "sharedContextCache"). The cache is keyed by
// CacheKey over a's serialized form, so two ATNs built independently — one
// hand-wired, one round-tripped through Serialize/Deserialize, one decoded
// fresh by a grammar tool at a different time — land on the same cache
// whenever they describe the same grammar, instead of each simulator paying
// to re-intern an identical PredictionContext graph.
func SharedContextCache(a *ATN) *ContextCache {
	key := CacheKey(Serialize(a))

	sharedCacheMu.Lock()
	defer sharedCacheMu.Unlock()

	c, ok := sharedCaches[key]
	if !ok {
		c = NewContextCache()
		sharedCaches[key] = c
	}
	return c
}
