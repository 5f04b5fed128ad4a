package coach

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdle = 10 * time.Minute

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiter hands out one token bucket per user. A non-positive rate
// disables limiting.
type limiter struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	users map[string]*userLimiter
}

func newLimiter(perMinute int) *limiter {
	if perMinute <= 0 {
		return &limiter{limit: rate.Inf}
	}
	return &limiter{
		limit: rate.Every(time.Minute / time.Duration(perMinute)),
		burst: perMinute,
		users: make(map[string]*userLimiter),
	}
}

func (l *limiter) Allow(userID string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for id, u := range l.users {
		if now.Sub(u.lastSeen) > limiterIdle {
			delete(l.users, id)
		}
	}

	u, ok := l.users[userID]
	if !ok {
		u = &userLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.users[userID] = u
	}
	u.lastSeen = now
	return u.limiter.AllowN(now, 1)
}
