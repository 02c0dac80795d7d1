package safe

import (
	"runtime"

	"go.uber.org/zap"
)

// Go runs fn in a new goroutine, logging instead of crashing on panic.
func Go(fn func()) {
	GoNamed("", fn)
}

func GoNamed(name string, fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				buf := make([]byte, 2048)
				n := runtime.Stack(buf, false)
				buf = buf[:n]

				if name == "" {
					zap.S().Errorf("goroutine panic: %v\n %s", err, buf)
				} else {
					zap.S().Errorf("goroutine '%s' panic: %v\n %s", name, err, buf)
				}
			}
		}()
		fn()
	}()
}
