package client

import (
	"sort"
	"sync"
	"time"
)

// Request is the last relevant request of a client
type Request struct {
	Client    string    `json:"client"`
	ProfileID string    `json:"profileId"`
	Accessed  time.Time `json:"accessed"`
}

// Registry remembers the last profile each client (IP) requested,
// so page refreshes are not counted as visits.
// Access is mediated by a mutex since Flush runs in a ticker go-routine
type Registry struct {
	mu       sync.RWMutex
	requests map[string]Request // key is IP or domain-action
	ttl      time.Duration
	limit    int
	now      func() time.Time
}

// NewRegistry keeps entries for ttl; Flush only runs once more than limit clients are registered
func NewRegistry(ttl time.Duration, limit int) *Registry {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Registry{
		requests: make(map[string]Request),
		ttl:      ttl,
		limit:    limit,
		now:      time.Now,
	}
}

// Continue returns false when the client requested the same profile before (page refresh)
func (r *Registry) Continue(client string, profileID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	// combination of client & url found = this was a page refresh
	prev, ok := r.requests[client]
	found := !(ok && prev.ProfileID == profileID)

	// add or update the last (relevant) request
	r.requests[client] = Request{
		Client:    client,
		ProfileID: profileID,
		Accessed:  r.now(),
	}

	return found
}

// Flush removes requests from the registry which are older than the ttl
// and returns how many were removed
func (r *Registry) Flush() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.requests) <= r.limit {
		return 0
	}

	// it's safe to delete while iterating over a map
	now := r.now()
	removed := 0
	for key, value := range r.requests {
		if now.Sub(value.Accessed) > r.ttl {
			delete(r.requests, key)
			removed++
		}
	}
	return removed
}

// Count returns how many different clients are currently active
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.requests)
}

// Dump returns up to max entries, latest access first
func (r *Registry) Dump(max int) []Request {
	r.mu.RLock()
	res := make([]Request, 0, len(r.requests))
	for _, v := range r.requests {
		res = append(res, v)
	}
	r.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		return res[i].Accessed.After(res[j].Accessed)
	})

	if max > 0 && len(res) > max {
		res = res[:max]
	}
	return res
}
