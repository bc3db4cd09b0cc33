package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	listGenKeyPrefix  = "fav:gen:"
	listPageKeyPrefix = "fav:page:"
	listPageTTL       = 5 * time.Minute
)

// ListCache caches serialized favorites list pages per user. Each user has a
// generation counter that is bumped on every write to their favorites, which
// shifts the key space for subsequent reads; pages under old generations are
// never read again and expire by TTL. Inherits the fail-safe behavior of
// Client, so a redis outage degrades to plain database reads.
type ListCache struct {
	client *Client
}

// NewListCache creates a list-page cache on top of a redis client.
func NewListCache(client *Client) *ListCache {
	return &ListCache{client: client}
}

// Generation returns the current cache generation for a user.
func (l *ListCache) Generation(ctx context.Context, userID uint) int64 {
	if l == nil {
		return 0
	}
	data, _ := l.client.Get(ctx, listGenKeyPrefix+strconv.FormatUint(uint64(userID), 10))
	if data == nil {
		return 0
	}
	gen, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0
	}
	return gen
}

// Invalidate bumps the user's generation, orphaning all cached pages.
func (l *ListCache) Invalidate(ctx context.Context, userID uint) {
	if l == nil {
		return
	}
	_, _ = l.client.Incr(ctx, listGenKeyPrefix+strconv.FormatUint(uint64(userID), 10))
}

// GetPage returns the cached payload for a page, or nil on miss.
func (l *ListCache) GetPage(ctx context.Context, userID uint, gen int64, limit, offset int) []byte {
	if l == nil {
		return nil
	}
	data, _ := l.client.Get(ctx, pageKey(userID, gen, limit, offset))
	return data
}

// SetPage stores a serialized page under the given generation.
func (l *ListCache) SetPage(ctx context.Context, userID uint, gen int64, limit, offset int, payload []byte) {
	if l == nil {
		return
	}
	_ = l.client.Set(ctx, pageKey(userID, gen, limit, offset), payload, listPageTTL)
}

func pageKey(userID uint, gen int64, limit, offset int) string {
	return fmt.Sprintf("%s%d:%d:%d:%d", listPageKeyPrefix, userID, gen, limit, offset)
}
