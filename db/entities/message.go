package entities

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chatsched/chatsched/pkg/types"
)

var ErrInvalidTransition = errors.New("invalid status transition")

type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusCancelled MessageStatus = "cancelled"
	MessageStatusFailed    MessageStatus = "failed"
)

var MessageStatuses = []MessageStatus{
	MessageStatusPending,
	MessageStatusSent,
	MessageStatusCancelled,
	MessageStatusFailed,
}

func ParseMessageStatus(s string) (MessageStatus, error) {
	status := MessageStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status: %q", s)
	}
	return status, nil
}

func (s MessageStatus) IsValid() bool {
	switch s {
	case MessageStatusPending, MessageStatusSent, MessageStatusCancelled, MessageStatusFailed:
		return true
	}
	return false
}

// IsFinal reports whether no further transition is possible from s.
func (s MessageStatus) IsFinal() bool {
	return s == MessageStatusSent || s == MessageStatusCancelled || s == MessageStatusFailed
}

// CanTransitionTo reports whether s may move to next.
// Only pending messages change status, and only into a final status.
func (s MessageStatus) CanTransitionTo(next MessageStatus) bool {
	return s == MessageStatusPending && next.IsFinal()
}

func (s *MessageStatus) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	status, err := ParseMessageStatus(v)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// ScheduledMessage is a message submitted for future delivery.
// Only Status (with LastError) changes after creation.
type ScheduledMessage struct {
	ID            string        `json:"id" db:"id"`
	ChannelID     string        `json:"channelId" db:"channel_id"`
	ChannelName   string        `json:"channelName" db:"channel_name"`
	Content       string        `json:"content" db:"content"`
	ScheduledTime types.Time    `json:"scheduledTime" db:"scheduled_at"`
	Status        MessageStatus `json:"status" db:"status"`
	LastError     *string       `json:"lastError,omitempty" db:"last_error"`

	BaseModel
}

// Transition moves the message to next, enforcing the status rules.
func (m *ScheduledMessage) Transition(next MessageStatus) error {
	if !m.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, next)
	}
	m.Status = next
	return nil
}

func (m *ScheduledMessage) IsPending() bool {
	return m.Status == MessageStatusPending
}
