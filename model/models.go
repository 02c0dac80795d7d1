// Package model defines the request and result bodies exchanged between
// clients and the admin API.
package model

import (
	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/pkg/types"
)

// Result is the envelope shared by every operation. A failed Result is an
// expected outcome the caller may show to the user.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func OK() Result {
	return Result{Success: true}
}

func Failure(msg string) Result {
	return Result{Success: false, Error: msg}
}

type ConnectResult struct {
	Result
	Workspace *entities.Workspace `json:"workspace,omitempty"`
}

type ChannelsResult struct {
	Result
	Channels []*entities.Channel `json:"channels"`
}

type ScheduleResult struct {
	Result
	MessageID string `json:"messageId,omitempty"`
}

type MessagesResult struct {
	Result
	Messages []*entities.ScheduledMessage `json:"messages"`
}

type MessageResult struct {
	Result
	Message *entities.ScheduledMessage `json:"message,omitempty"`
}

type IndexResult struct {
	Version string `json:"version"`
	Message string `json:"message"`
}

type SendRequest struct {
	ChannelID string `json:"channelId" validate:"required"`
	Content   string `json:"content" validate:"notblank"`
}

type ScheduleRequest struct {
	ChannelID     string      `json:"channelId" validate:"required"`
	Content       string      `json:"content" validate:"notblank"`
	ScheduledTime *types.Time `json:"scheduledTime" validate:"required"`
}
