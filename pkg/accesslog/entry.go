package accesslog

import (
	"fmt"
	"net/http"
	"time"

	"github.com/chatsched/chatsched/utils"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-Id"

type Entry struct {
	RequestID string
	Latency   time.Duration
	ClientIP  string
	Request   Request
	Response  Response
}

type Request struct {
	Method  string
	Path    string
	Query   string
	Proto   string
	Headers map[string]string
}

type Response struct {
	Status int
	Size   int
}

func NewEntry(r *http.Request) *Entry {
	host, _ := parseHostPort(r.RemoteAddr)
	entry := Entry{
		RequestID: r.Header.Get(RequestIDHeader),
		ClientIP:  host,
		Request: Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Proto:  r.Proto,
			Headers: map[string]string{
				"user-agent": r.UserAgent(),
				"referer":    r.Referer(),
			},
		},
	}
	return &entry
}

func (m *Entry) uri() string {
	if m.Request.Query == "" {
		return m.Request.Path
	}
	return m.Request.Path + "?" + m.Request.Query
}

func (m *Entry) MarshalZerologObject(e *zerolog.Event) {
	e.Str("request_id", m.RequestID)
	e.Str("client_ip", m.ClientIP)
	e.Dict("request", zerolog.Dict().
		Str("method", m.Request.Method).
		Str("uri", m.uri()).
		Str("proto", m.Request.Proto).
		Dict("headers", zerolog.Dict().
			Str("user-agent", m.Request.Headers["user-agent"]).
			Str("referer", m.Request.Headers["referer"])),
	)
	e.Dict("response",
		zerolog.Dict().
			Int("status", m.Response.Status).
			Int("size", m.Response.Size),
	)
	e.Int64("latency", m.Latency.Milliseconds())
}

func (m *Entry) String() string {
	return fmt.Sprintf(`%s %s "%s %s %s" %d %d %dms "%s" "%s"`,
		m.ClientIP,
		utils.DefaultIfZero(m.RequestID, "-"),
		m.Request.Method,
		m.uri(),
		m.Request.Proto,
		m.Response.Status,
		m.Response.Size,
		m.Latency.Milliseconds(),
		utils.DefaultIfZero(m.Request.Headers["referer"], "-"),
		utils.DefaultIfZero(m.Request.Headers["user-agent"], "-"),
	)
}
