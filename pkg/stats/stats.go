package stats

import (
	"maps"
	"sync"
)

type Provider interface {
	Stats() map[string]interface{}
}

type ProviderFunc func() map[string]interface{}

func (f ProviderFunc) Stats() map[string]interface{} {
	return f()
}

// Collector merges the stats of its registered providers.
type Collector struct {
	mux       sync.RWMutex
	providers []Provider
}

func NewCollector(providers ...Provider) *Collector {
	return &Collector{providers: providers}
}

func (c *Collector) Register(p Provider) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.providers = append(c.providers, p)
}

func (c *Collector) Collect() Stats {
	c.mux.RLock()
	defer c.mux.RUnlock()

	stats := make(Stats)
	for _, p := range c.providers {
		maps.Copy(stats, p.Stats())
	}
	return stats
}

type Stats map[string]interface{}

func (m Stats) Int(key string) int {
	v, ok := m[key].(int)
	if !ok {
		return 0
	}
	return v
}

func (m Stats) Int64(key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func (m Stats) String(key string) string {
	v, _ := m[key].(string)
	return v
}
