package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimiterOptions configures a ClientLimiter.
type LimiterOptions struct {
	// Requests allowed per Window once the burst is spent.
	Requests int
	Window   time.Duration
	Burst    int
	// IdleTTL is how long a client key is kept after its last request. It is
	// also the interval between sweeps of idle keys.
	IdleTTL time.Duration
}

const defaultIdleTTL = 5 * time.Minute

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter gives every client key its own token bucket and forgets keys
// that have been idle for longer than IdleTTL.
type ClientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	nextSweep time.Time
	now       func() time.Time
}

// NewClientLimiter builds a ClientLimiter, replacing non-positive options
// with one request per second, a burst of one and a five minute TTL.
func NewClientLimiter(opts LimiterOptions) *ClientLimiter {
	if opts.Requests <= 0 {
		opts.Requests = 1
	}
	if opts.Window <= 0 {
		opts.Window = time.Second
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}

	return &ClientLimiter{
		clients: make(map[string]*client),
		limit:   rate.Every(opts.Window / time.Duration(opts.Requests)),
		burst:   opts.Burst,
		idleTTL: opts.IdleTTL,
		now:     time.Now,
	}
}

// Allow spends a token from key's bucket.
func (l *ClientLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	l.mu.Lock()
	now := l.now()
	if !now.Before(l.nextSweep) {
		l.sweepLocked(now)
		l.nextSweep = now.Add(l.idleTTL)
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{bucket: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	return c.bucket.AllowN(now, 1)
}

// IdleTTL reports how long idle client keys are kept.
func (l *ClientLimiter) IdleTTL() time.Duration {
	return l.idleTTL
}

// Tracked reports how many client keys are currently held.
func (l *ClientLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *ClientLimiter) sweepLocked(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idleTTL {
			delete(l.clients, key)
		}
	}
}

// WithNowFunc overrides the time source.
func (l *ClientLimiter) WithNowFunc(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}
