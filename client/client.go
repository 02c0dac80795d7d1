// Package client implements the dashboard side of the workspace contract.
//
// Every operation reports an expected failure as a result with Success set
// to false and a free-text Error, and an unexpected fault (transport error,
// server error, cancelled context) as a returned error.
package client

import (
	"context"
	"time"

	"github.com/chatsched/chatsched/config/modules"
	"github.com/chatsched/chatsched/model"
)

//go:generate mockgen -source=client.go -destination=../test/mocks/client.go -package=mocks

type Client interface {
	ConnectWorkspace(ctx context.Context) (*model.ConnectResult, error)
	GetChannels(ctx context.Context) (*model.ChannelsResult, error)
	SendMessage(ctx context.Context, channelID string, content string) (*model.Result, error)
	ScheduleMessage(ctx context.Context, channelID string, content string, at time.Time) (*model.ScheduleResult, error)
	GetScheduledMessages(ctx context.Context) (*model.MessagesResult, error)
	CancelScheduledMessage(ctx context.Context, messageID string) (*model.Result, error)
}

// New returns the mocked client when cfg.Mock is set, an HTTP client otherwise.
func New(cfg modules.ClientConfig) Client {
	if cfg.Mock {
		var latency Latency
		if cfg.MockLatency {
			latency = DefaultLatency()
		}
		return NewMockClient(MockOptions{Latency: latency})
	}
	return NewHTTPClient(HTTPOptions{
		URL:     cfg.URL,
		Timeout: cfg.TimeoutDuration(),
	})
}

// MinScheduleTime returns the earliest time a message may be scheduled for.
func MinScheduleTime(now time.Time) time.Time {
	return model.MinScheduleTime(now)
}

// CheckScheduleTime returns model.ErrScheduleTooSoon when at is before MinScheduleTime(now).
func CheckScheduleTime(at, now time.Time) error {
	return model.CheckScheduleTime(at, now, model.MinScheduleLead)
}
