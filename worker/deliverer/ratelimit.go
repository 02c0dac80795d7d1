package deliverer

import (
	"context"
	"math"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimited limits deliveries per channel.
type RateLimited struct {
	next  Deliverer
	limit rate.Limit
	burst int

	mux      sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimited allows perSecond deliveries per channel.
// A non-positive perSecond disables limiting.
func NewRateLimited(next Deliverer, perSecond float64) Deliverer {
	if perSecond <= 0 {
		return next
	}
	return &RateLimited{
		next:     next,
		limit:    rate.Limit(perSecond),
		burst:    int(math.Max(1, math.Ceil(perSecond))),
		limiters: make(map[string]*rate.Limiter),
	}
}

func (d *RateLimited) limiter(channelID string) *rate.Limiter {
	d.mux.Lock()
	defer d.mux.Unlock()
	l, ok := d.limiters[channelID]
	if !ok {
		l = rate.NewLimiter(d.limit, d.burst)
		d.limiters[channelID] = l
	}
	return l
}

func (d *RateLimited) Deliver(ctx context.Context, msg *Message) error {
	if err := d.limiter(msg.ChannelID).Wait(ctx); err != nil {
		return err
	}
	return d.next.Deliver(ctx, msg)
}
