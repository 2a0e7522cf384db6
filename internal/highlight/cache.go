package highlight

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is how long highlighted fragments stay cached.
const DefaultCacheTTL = 5 * time.Minute

// Cache memoizes Highlight results keyed by language and fragment. Repeated
// fragments are common in technical documents (shared snippets across
// sections) and in batch conversions reusing one Service.
type Cache struct {
	store *gocache.Cache
}

// NewCache creates a Cache with the given TTL. A non-positive TTL falls back
// to DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{store: gocache.New(ttl, 2*ttl)}
}

// Highlight returns tokens for the fragment, serving repeats from the cache.
// Unrecognized languages bypass the cache; their single plain token is
// cheaper to rebuild than to store.
func (c *Cache) Highlight(lang, src string) []Token {
	if !Recognized(lang) {
		return Highlight(lang, src)
	}

	key := lang + "\x00" + src
	if hit, ok := c.store.Get(key); ok {
		return hit.([]Token)
	}

	tokens := Highlight(lang, src)
	c.store.Set(key, tokens, gocache.DefaultExpiration)
	return tokens
}
