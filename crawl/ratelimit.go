package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/harvest"
	"golang.org/x/time/rate"
)

var _ harvest.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-host rate limiting using token buckets, so that
// page fetches and media downloads against one host share a single budget
// while different hosts (such as a site and its media CDN) proceed
// independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewDomainLimiter creates a new DomainLimiter allowing rps requests per
// second to each host. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit, burst := rate.Limit(rps), 1
	if rps <= 0 {
		limit, burst = rate.Inf, 0
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Wait blocks until the rate limit allows a request to the host. Hosts
// are compared case-insensitively.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.limit == rate.Inf {
		return ctx.Err()
	}
	host = strings.ToLower(host)

	d.mu.Lock()
	limiter, ok := d.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(d.limit, d.burst)
		d.limiters[host] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
