package service

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// LikeGuard remembers which session liked which item so a session counts
// once per item. Entries expire with the session TTL and are never
// persisted.
type LikeGuard struct {
	seen *cache.Cache
}

func NewLikeGuard(ttl, cleanupInterval time.Duration) *LikeGuard {
	return &LikeGuard{seen: cache.New(ttl, cleanupInterval)}
}

// Claim records a like by session on id. It reports false when the session
// already liked the item.
func (g *LikeGuard) Claim(session, id string) bool {
	return g.seen.Add(likeKey(session, id), struct{}{}, cache.DefaultExpiration) == nil
}

// Release forgets a claim whose increment did not happen.
func (g *LikeGuard) Release(session, id string) {
	g.seen.Delete(likeKey(session, id))
}

func likeKey(session, id string) string {
	return session + "\x00" + id
}
