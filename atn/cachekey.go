package atn

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// CacheKey returns a stable, collision-resistant key derived from the
// serialized ATN byte string; SharedContextCache uses it to pick the
// process-wide ContextCache for a grammar (§5). Hashing rather than using the raw bytes as a map key
// keeps large ATNs from being copied every time the cache is consulted.
func CacheKey(serialized []byte) string {
	sum := blake2b.Sum256(serialized)
	return hex.EncodeToString(sum[:])
}
