package loglimiter

import (
	"sync"
	"time"

	"github.com/chatsched/chatsched/pkg/clock"
)

// Limiter allows one log line per key within a time window.
type Limiter struct {
	mux        sync.Mutex
	window     time.Duration
	clock      clock.Clock
	last       map[string]time.Time
	suppressed map[string]int
}

func NewLimiter(window time.Duration, c clock.Clock) *Limiter {
	if c == nil {
		c = clock.NewReal()
	}
	return &Limiter{
		window:     window,
		clock:      c,
		last:       make(map[string]time.Time),
		suppressed: make(map[string]int),
	}
}

// Allow reports whether key may be logged now. When it may, it also
// returns how many lines were suppressed since the last allowed one.
func (l *Limiter) Allow(key string) (bool, int) {
	l.mux.Lock()
	defer l.mux.Unlock()

	now := l.clock.Now()
	last, ok := l.last[key]
	if ok && now.Sub(last) < l.window {
		l.suppressed[key]++
		return false, 0
	}
	l.last[key] = now
	n := l.suppressed[key]
	delete(l.suppressed, key)
	return true, n
}
