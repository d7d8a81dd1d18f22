package http

import (
	"sync"
	"time"
)

// rateLimiter caps chirp creation per user within a fixed one-minute
// window anchored at the user's first request. A limit of 0 disables
// limiting.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	windows map[int64]*window
}

type window struct {
	start   time.Time
	counter int
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		windows: make(map[int64]*window),
	}
}

func (r *rateLimiter) allow(userID int64) bool {
	if r == nil || r.limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	w := r.windows[userID]
	if w == nil || now.Sub(w.start) >= time.Minute {
		r.windows[userID] = &window{start: now, counter: 1}
		return true
	}

	w.counter++
	return w.counter <= r.limit
}
