package registry

import (
	"context"
	"time"

	"github.com/chatsched/chatsched/db/dao"
	"github.com/chatsched/chatsched/db/entities"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultSize = 1000
	DefaultTTL  = time.Minute
)

// Registry caches channels by id in front of the database.
// Unknown ids are not cached.
type Registry struct {
	group singleflight.Group
	lru   *expirable.LRU[string, *entities.Channel]
	dao   dao.ChannelDAO
}

func NewRegistry(channels dao.ChannelDAO, size int, ttl time.Duration) *Registry {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		lru: expirable.NewLRU[string, *entities.Channel](size, nil, ttl),
		dao: channels,
	}
}

// Warmup loads every channel into the cache.
func (r *Registry) Warmup(ctx context.Context) error {
	channels, err := r.dao.ListOrdered(ctx)
	if err != nil {
		return err
	}
	for _, ch := range channels {
		r.lru.Add(ch.ID, ch)
	}
	return nil
}

func (r *Registry) Unregister(id string) {
	r.lru.Remove(id)
}

func (r *Registry) Purge() {
	r.lru.Purge()
}

func (r *Registry) Len() int {
	return r.lru.Len()
}

// LookUp returns the channel with the given id, or nil if there is none.
func (r *Registry) LookUp(ctx context.Context, id string) (*entities.Channel, error) {
	if ch, ok := r.lru.Get(id); ok {
		return ch, nil
	}

	v, err, _ := r.group.Do(id, func() (interface{}, error) {
		ch, err := r.dao.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if ch != nil {
			r.lru.Add(id, ch)
		}
		return ch, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entities.Channel), nil
}
