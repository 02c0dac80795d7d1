package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/chatsched/chatsched/pkg/http/response"
	"go.uber.org/zap"
)

// ErrorBody is written when a panic is not customized.
var ErrorBody = map[string]interface{}{
	"success": false,
	"error":   "internal error",
}

type Recovery struct {
	log            *zap.SugaredLogger
	CustomizeError func(err error, w http.ResponseWriter) (customized bool)
}

func NewRecovery(log *zap.SugaredLogger, customizeError func(err error, w http.ResponseWriter) (customized bool)) *Recovery {
	if log == nil {
		log = zap.S()
	}
	return &Recovery{log: log, CustomizeError: customizeError}
}

func (m *Recovery) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if e := recover(); e != nil {
				if e == http.ErrAbortHandler {
					panic(e)
				}

				var err error
				switch v := e.(type) {
				case error:
					err = v
				default:
					err = errors.New(fmt.Sprint(e))
				}

				if m.CustomizeError != nil && m.CustomizeError(err, w) {
					return
				}

				buf := make([]byte, 2048)
				n := runtime.Stack(buf, false)
				buf = buf[:n]

				m.log.Errorf("panic recovered: %s %s: %v\n %s", r.Method, r.URL.Path, err, buf)
				response.JSON(w, 500, ErrorBody)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
