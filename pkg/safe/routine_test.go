package safe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGo(t *testing.T) {
	done := make(chan struct{})
	Go(func() {
		defer close(done)
		panic("boom")
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}

	ch := make(chan int, 1)
	GoNamed("worker", func() { ch <- 1 })
	assert.Equal(t, 1, <-ch)
}
