package client

import (
	"context"
	"sync"
)

// Pager accumulates favorites page by page. Two guards keep it correct
// under overlapping triggers: an in-flight flag admits at most one fetch
// at a time, and the last-requested offset suppresses a repeat request for
// a page that has already been asked for. A fetch that never returns
// leaves the in-flight flag set until Reset; that is deliberate, matching
// how the list behaves when its transport hangs.
type Pager struct {
	client *Client
	limit  int

	// guarded state; the mutex is never held across a network call
	mu            sync.Mutex
	items         []Favorite
	total         int64
	offset        int
	lastRequested int
	hasMore       bool
	inFlight      bool
}

// NewPager creates a loader that fetches pages of the given size.
// Size <= 0 takes the server default.
func (c *Client) NewPager(limit int) *Pager {
	p := &Pager{client: c, limit: limit}
	p.resetLocked()
	return p
}

func (p *Pager) resetLocked() {
	p.items = nil
	p.total = 0
	p.offset = 0
	p.lastRequested = -1
	p.hasMore = true
	p.inFlight = false
}

// Reset clears all accumulated state. Call it whenever the viewing context
// changes, such as after a login as a different user.
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

// Items returns a copy of the accumulated records in server order.
func (p *Pager) Items() []Favorite {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Favorite, len(p.items))
	copy(out, p.items)
	return out
}

// Total returns the server-reported total from the most recent page.
func (p *Pager) Total() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// HasMore reports whether another page may exist.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// LoadMore fetches the next page and appends it. It returns false without
// an error when the call was suppressed: a fetch already in flight, no
// pages left, or the next offset identical to the one most recently
// requested. After a transport or server error the offset may be requested
// again.
func (p *Pager) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.inFlight || !p.hasMore || p.offset == p.lastRequested {
		p.mu.Unlock()
		return false, nil
	}
	p.inFlight = true
	p.lastRequested = p.offset
	offset := p.offset
	p.mu.Unlock()

	page, err := p.client.ListFavorites(ctx, p.limit, offset)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	if err != nil {
		// allow a retry of the same offset
		p.lastRequested = -1
		return false, err
	}

	p.items = append(p.items, page.Items...)
	p.total = page.Total
	if page.NextOffset == nil || len(page.Items) == 0 {
		p.hasMore = false
	} else {
		p.offset = *page.NextOffset
	}
	return true, nil
}
