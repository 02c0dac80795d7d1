package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chatsched/chatsched/config/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	s := httptest.NewServer(handler)
	t.Cleanup(s.Close)
	return NewHTTPClient(HTTPOptions{URL: s.URL, Timeout: 5 * time.Second})
}

func reply(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func TestHTTPClientResults(t *testing.T) {
	var got map[string]interface{}
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /workspace/connect":
			reply(w, 200, `{"success":true,"workspace":{"id":"T1","name":"ws","domain":"ws"}}`)
		case "GET /channels":
			reply(w, 200, `{"success":true,"channels":[{"id":"C1","name":"general","isPrivate":false}]}`)
		case "POST /scheduled-messages":
			_ = json.NewDecoder(r.Body).Decode(&got)
			reply(w, 201, `{"success":true,"messageId":"msg_1"}`)
		case "GET /scheduled-messages":
			reply(w, 200, `{"success":true,"messages":[{"id":"msg_1","channelId":"C1","channelName":"general","content":"hi","scheduledTime":"2026-10-19T10:00:00.000Z","status":"pending","createdAt":"2026-10-19T08:00:00.000Z"}]}`)
		case "POST /scheduled-messages/msg_1/cancel":
			reply(w, 409, `{"success":false,"error":"cannot cancel message in status 'sent'"}`)
		default:
			reply(w, 404, `{"success":false,"error":"not found"}`)
		}
	})
	ctx := context.TODO()

	connected, err := c.ConnectWorkspace(ctx)
	require.NoError(t, err)
	assert.True(t, connected.Success)
	assert.Equal(t, "T1", connected.Workspace.ID)

	channels, err := c.GetChannels(ctx)
	require.NoError(t, err)
	require.Len(t, channels.Channels, 1)
	assert.Equal(t, "general", channels.Channels[0].Name)

	at := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	scheduled, err := c.ScheduleMessage(ctx, "C1", "hi", at)
	require.NoError(t, err)
	assert.Equal(t, "msg_1", scheduled.MessageID)
	assert.Equal(t, map[string]interface{}{
		"channelId":     "C1",
		"content":       "hi",
		"scheduledTime": "2026-10-19T10:00:00.000Z",
	}, got)

	list, err := c.GetScheduledMessages(ctx)
	require.NoError(t, err)
	require.Len(t, list.Messages, 1)
	assert.Equal(t, "pending", string(list.Messages[0].Status))
	assert.Equal(t, at, list.Messages[0].ScheduledTime.Time)

	cancelled, err := c.CancelScheduledMessage(ctx, "msg_1")
	require.NoError(t, err)
	assert.False(t, cancelled.Success)
	assert.Equal(t, "cannot cancel message in status 'sent'", cancelled.Error)

	sent, err := c.SendMessage(ctx, "C1", "hi")
	require.NoError(t, err)
	assert.False(t, sent.Success)
	assert.Equal(t, "not found", sent.Error)
}

func TestHTTPClientFaults(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
	}{
		{name: "server error", code: 500, body: `{"success":false,"error":"internal error"}`},
		{name: "undecodable body", code: 200, body: `<html>`},
		{name: "missing envelope", code: 400, body: `{"message":"bad"}`},
		{name: "redirect", code: 304, body: ``},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				reply(w, test.code, test.body)
			})
			result, err := c.SendMessage(context.TODO(), "C1", "hi")
			assert.Nil(t, result)
			var responseErr *ResponseError
			require.ErrorAs(t, err, &responseErr)
			assert.Equal(t, test.code, responseErr.StatusCode)
		})
	}
}

func TestHTTPClientTransportError(t *testing.T) {
	c := NewHTTPClient(HTTPOptions{URL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := c.GetChannels(context.TODO())
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	assert.IsType(t, &MockClient{}, New(modules.ClientConfig{Mock: true}))
	assert.IsType(t, &HTTPClient{}, New(modules.ClientConfig{URL: "http://127.0.0.1:9601"}))
}
