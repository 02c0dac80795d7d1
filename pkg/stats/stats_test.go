package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := NewCollector(ProviderFunc(func() map[string]interface{} {
		return map[string]interface{}{"database.total_connections": 1}
	}))
	c.Register(ProviderFunc(func() map[string]interface{} {
		return map[string]interface{}{
			"messages.pending":  int64(3),
			"worker.last_error": "database is locked",
		}
	}))

	s := c.Collect()
	assert.Equal(t, 1, s.Int("database.total_connections"))
	assert.Equal(t, int64(1), s.Int64("database.total_connections"))
	assert.Equal(t, int64(3), s.Int64("messages.pending"))
	assert.Equal(t, "database is locked", s.String("worker.last_error"))
	assert.Equal(t, 0, s.Int("missing"))
	assert.Equal(t, int64(0), s.Int64("worker.last_error"))
}
