// Package dashboard holds the state of a dashboard user: the connected
// workspace, its channels, the scheduled message list and the feedback of
// the last send or schedule action.
package dashboard

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/chatsched/chatsched/client"
	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/model"
	"github.com/chatsched/chatsched/pkg/clock"
	"github.com/chatsched/chatsched/utils"
	"go.uber.org/zap"
)

var (
	ErrNotConnected    = errors.New("workspace is not connected")
	ErrIncomplete      = errors.New("channel and message are required")
	ErrScheduleTooSoon = model.ErrScheduleTooSoon
	ErrCancelInFlight  = errors.New("cancel already in progress")
)

const (
	MsgSent            = "Message sent successfully!"
	MsgScheduled       = "Message scheduled successfully!"
	MsgSendFailed      = "Failed to send message"
	MsgScheduleFailed  = "Failed to schedule message"
	MsgConnectFailed   = "Failed to connect to workspace"
	MsgUnexpectedError = "An unexpected error occurred"
)

type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

type Feedback struct {
	Kind    FeedbackKind
	Message string
}

func (f Feedback) IsError() bool {
	return f.Kind == FeedbackError
}

func (f Feedback) String() string {
	return string(f.Kind) + ": " + f.Message
}

// FailureError is an explicit failure result returned by the client.
type FailureError struct {
	Message string
}

func (e *FailureError) Error() string {
	return e.Message
}

type Options struct {
	Clock clock.Clock
	Log   *zap.SugaredLogger
}

type Session struct {
	client client.Client
	clock  clock.Clock
	log    *zap.SugaredLogger

	mu         sync.Mutex
	workspace  *entities.Workspace
	channels   []*entities.Channel
	messages   []*entities.ScheduledMessage
	feedback   *Feedback
	cancelling map[string]bool
	refreshSeq uint64
	appliedSeq uint64
}

func NewSession(c client.Client, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	if opts.Log == nil {
		opts.Log = zap.S()
	}
	return &Session{
		client:     c,
		clock:      opts.Clock,
		log:        opts.Log.Named("dashboard"),
		cancelling: make(map[string]bool),
	}
}

func (s *Session) Workspace() *entities.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspace
}

func (s *Session) IsConnected() bool {
	return s.Workspace() != nil
}

func (s *Session) Channels() []*entities.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.channels)
}

func (s *Session) Messages() []*entities.ScheduledMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Feedback returns the outcome of the last send or schedule action.
func (s *Session) Feedback() *Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}

func (s *Session) IsCancelling(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelling[id]
}

func (s *Session) setFeedback(kind FeedbackKind, message string) Feedback {
	f := Feedback{Kind: kind, Message: message}
	s.mu.Lock()
	s.feedback = &f
	s.mu.Unlock()
	return f
}

func (s *Session) fail(result model.Result, fallback string) Feedback {
	return s.setFeedback(FeedbackError, utils.DefaultIfZero(result.Error, fallback))
}

func (s *Session) fault(op string, err error) Feedback {
	s.log.Errorf("failed to %s: %v", op, err)
	return s.setFeedback(FeedbackError, MsgUnexpectedError)
}

// Connect connects the workspace.
func (s *Session) Connect(ctx context.Context) Feedback {
	result, err := s.client.ConnectWorkspace(ctx)
	if err != nil {
		s.log.Errorf("failed to connect workspace: %v", err)
		return Feedback{Kind: FeedbackError, Message: MsgUnexpectedError}
	}
	if !result.Success || result.Workspace == nil {
		return Feedback{Kind: FeedbackError, Message: utils.DefaultIfZero(result.Error, MsgConnectFailed)}
	}

	s.mu.Lock()
	s.workspace = result.Workspace
	s.mu.Unlock()
	return Feedback{Kind: FeedbackSuccess, Message: "Connected to " + result.Workspace.Name}
}

// LoadChannels replaces the channel list.
func (s *Session) LoadChannels(ctx context.Context) ([]*entities.Channel, error) {
	if !s.IsConnected() {
		return nil, ErrNotConnected
	}
	result, err := s.client.GetChannels(ctx)
	if err != nil {
		s.log.Errorf("failed to load channels: %v", err)
		return nil, err
	}
	if !result.Success {
		return nil, &FailureError{Message: result.Error}
	}

	s.mu.Lock()
	s.channels = result.Channels
	s.mu.Unlock()
	return slices.Clone(result.Channels), nil
}

// Refresh reloads the scheduled messages. When refreshes overlap the one
// started last wins.
func (s *Session) Refresh(ctx context.Context) ([]*entities.ScheduledMessage, error) {
	if !s.IsConnected() {
		return nil, ErrNotConnected
	}

	s.mu.Lock()
	s.refreshSeq++
	seq := s.refreshSeq
	s.mu.Unlock()

	result, err := s.client.GetScheduledMessages(ctx)
	if err != nil {
		s.log.Errorf("failed to load scheduled messages: %v", err)
		return nil, err
	}
	if !result.Success {
		return nil, &FailureError{Message: result.Error}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.appliedSeq {
		s.appliedSeq = seq
		s.messages = result.Messages
	}
	return slices.Clone(s.messages), nil
}

func (s *Session) refreshAfterChange(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil {
		s.log.Warnf("failed to refresh scheduled messages: %v", err)
	}
}

// SendNow sends content to the channel immediately.
func (s *Session) SendNow(ctx context.Context, channelID string, content string) (Feedback, error) {
	if !s.IsConnected() {
		return Feedback{}, ErrNotConnected
	}
	if channelID == "" || utils.IsBlank(content) {
		return Feedback{}, ErrIncomplete
	}

	s.mu.Lock()
	s.feedback = nil
	s.mu.Unlock()

	result, err := s.client.SendMessage(ctx, channelID, content)
	if err != nil {
		return s.fault("send message", err), nil
	}
	if !result.Success {
		return s.fail(*result, MsgSendFailed), nil
	}

	f := s.setFeedback(FeedbackSuccess, MsgSent)
	s.refreshAfterChange(ctx)
	return f, nil
}

// Schedule schedules content for delivery at the given time, which must be
// at least a minute from now.
func (s *Session) Schedule(ctx context.Context, channelID string, content string, at time.Time) (Feedback, error) {
	if !s.IsConnected() {
		return Feedback{}, ErrNotConnected
	}
	if channelID == "" || utils.IsBlank(content) || at.IsZero() {
		return Feedback{}, ErrIncomplete
	}
	if err := client.CheckScheduleTime(at, s.clock.Now()); err != nil {
		return Feedback{}, err
	}

	s.mu.Lock()
	s.feedback = nil
	s.mu.Unlock()

	result, err := s.client.ScheduleMessage(ctx, channelID, content, at)
	if err != nil {
		return s.fault("schedule message", err), nil
	}
	if !result.Success {
		return s.fail(result.Result, MsgScheduleFailed), nil
	}

	f := s.setFeedback(FeedbackSuccess, MsgScheduled)
	s.refreshAfterChange(ctx)
	return f, nil
}

// Cancel cancels a scheduled message and marks the local copy cancelled.
// A second cancel of the same id while the first is in flight is rejected.
func (s *Session) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.cancelling[id] {
		s.mu.Unlock()
		return ErrCancelInFlight
	}
	s.cancelling[id] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.cancelling, id)
		s.mu.Unlock()
	}()

	result, err := s.client.CancelScheduledMessage(ctx, id)
	if err != nil {
		s.log.Errorf("failed to cancel message %s: %v", id, err)
		return err
	}
	if !result.Success {
		return &FailureError{Message: result.Error}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, msg := range s.messages {
		// a refresh may have already brought back the final status
		if msg.ID != id || !msg.IsPending() {
			continue
		}
		v := *msg
		_ = v.Transition(entities.MessageStatusCancelled)
		s.messages[i] = &v
	}
	return nil
}
