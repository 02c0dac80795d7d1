package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/model"
	"github.com/chatsched/chatsched/pkg/clock"
	"github.com/chatsched/chatsched/pkg/errs"
	"github.com/chatsched/chatsched/pkg/types"
	"github.com/chatsched/chatsched/utils"
)

// Latency is the simulated duration of each mocked operation.
type Latency struct {
	Connect  time.Duration
	Channels time.Duration
	Send     time.Duration
	Schedule time.Duration
	List     time.Duration
	Cancel   time.Duration
}

func DefaultLatency() Latency {
	return Latency{
		Connect:  2000 * time.Millisecond,
		Channels: 1000 * time.Millisecond,
		Send:     1500 * time.Millisecond,
		Schedule: 1500 * time.Millisecond,
		List:     800 * time.Millisecond,
		Cancel:   1000 * time.Millisecond,
	}
}

type MockOptions struct {
	Latency Latency
	Clock   clock.Clock
}

// MockClient is an in-memory Client with a fixed workspace.
type MockClient struct {
	mu        sync.Mutex
	latency   Latency
	clock     clock.Clock
	workspace entities.Workspace
	channels  []*entities.Channel
	messages  []*entities.ScheduledMessage
}

var _ Client = &MockClient{}

func NewMockClient(opts MockOptions) *MockClient {
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	now := opts.Clock.Now()
	c := &MockClient{
		latency: opts.Latency,
		clock:   opts.Clock,
		workspace: entities.Workspace{
			ID:     "T1234567890",
			Name:   "My Workspace",
			Domain: "myworkspace",
		},
		channels: []*entities.Channel{
			{ID: "C1234567890", Name: "general"},
			{ID: "C1234567891", Name: "random"},
			{ID: "C1234567892", Name: "development"},
			{ID: "C1234567893", Name: "marketing", IsPrivate: true},
		},
	}
	c.messages = []*entities.ScheduledMessage{
		c.newMessage("msg_1", "C1234567890", "general", "Don't forget about the team meeting tomorrow!", now.Add(24*time.Hour), now),
		c.newMessage("msg_2", "C1234567892", "development", "Code review reminder for PR #123", now.Add(2*time.Hour), now),
	}
	return c
}

func (c *MockClient) newMessage(id, channelID, channelName, content string, at, now time.Time) *entities.ScheduledMessage {
	msg := &entities.ScheduledMessage{
		ID:            id,
		ChannelID:     channelID,
		ChannelName:   channelName,
		Content:       content,
		ScheduledTime: types.NewTime(at),
		Status:        entities.MessageStatusPending,
	}
	msg.CreatedAt = types.NewTime(now)
	return msg
}

// wait simulates latency, returning early with the context error.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *MockClient) channel(id string) *entities.Channel {
	for _, ch := range c.channels {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

func (c *MockClient) ConnectWorkspace(ctx context.Context) (*model.ConnectResult, error) {
	if err := wait(ctx, c.latency.Connect); err != nil {
		return nil, err
	}
	ws := c.workspace
	return &model.ConnectResult{Result: model.OK(), Workspace: &ws}, nil
}

func (c *MockClient) GetChannels(ctx context.Context) (*model.ChannelsResult, error) {
	if err := wait(ctx, c.latency.Channels); err != nil {
		return nil, err
	}
	channels := make([]*entities.Channel, 0, len(c.channels))
	for _, ch := range c.channels {
		v := *ch
		channels = append(channels, &v)
	}
	return &model.ChannelsResult{Result: model.OK(), Channels: channels}, nil
}

func (c *MockClient) SendMessage(ctx context.Context, channelID string, content string) (*model.Result, error) {
	if err := wait(ctx, c.latency.Send); err != nil {
		return nil, err
	}
	if err := utils.Validate(&model.SendRequest{ChannelID: channelID, Content: content}); err != nil {
		result := rejected(err)
		return &result, nil
	}
	if c.channel(channelID) == nil {
		result := model.Failure("channel not found: " + channelID)
		return &result, nil
	}
	result := model.OK()
	return &result, nil
}

func (c *MockClient) ScheduleMessage(ctx context.Context, channelID string, content string, at time.Time) (*model.ScheduleResult, error) {
	if err := wait(ctx, c.latency.Schedule); err != nil {
		return nil, err
	}
	scheduledTime := types.NewTime(at)
	req := model.ScheduleRequest{ChannelID: channelID, Content: content, ScheduledTime: &scheduledTime}
	if at.IsZero() {
		req.ScheduledTime = nil
	}
	if err := utils.Validate(&req); err != nil {
		return &model.ScheduleResult{Result: rejected(err)}, nil
	}
	if err := model.CheckScheduleTime(at, c.clock.Now(), model.MinScheduleLead); err != nil {
		return &model.ScheduleResult{Result: rejected(errs.NewValidateFieldsError(errs.ErrRequestValidate, map[string]interface{}{
			"scheduledTime": err.Error(),
		}))}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ch := c.channel(channelID)
	if ch == nil {
		return &model.ScheduleResult{Result: model.Failure("channel not found: " + channelID)}, nil
	}
	msg := c.newMessage("msg_"+utils.KSUID(), ch.ID, ch.Name, content, at.UTC(), c.clock.Now())
	c.messages = append([]*entities.ScheduledMessage{msg}, c.messages...)
	return &model.ScheduleResult{Result: model.OK(), MessageID: msg.ID}, nil
}

// rejected renders a validation error the way the admin API does.
func rejected(err error) model.Result {
	var validateErr *errs.ValidateError
	if errors.As(err, &validateErr) {
		return model.Failure(validateErr.Detail())
	}
	return model.Failure(err.Error())
}

func (c *MockClient) GetScheduledMessages(ctx context.Context) (*model.MessagesResult, error) {
	if err := wait(ctx, c.latency.List); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]*entities.ScheduledMessage, 0, len(c.messages))
	for _, msg := range c.messages {
		v := *msg
		messages = append(messages, &v)
	}
	return &model.MessagesResult{Result: model.OK(), Messages: messages}, nil
}

func (c *MockClient) CancelScheduledMessage(ctx context.Context, messageID string) (*model.Result, error) {
	if err := wait(ctx, c.latency.Cancel); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, msg := range c.messages {
		if msg.ID != messageID {
			continue
		}
		if err := msg.Transition(entities.MessageStatusCancelled); err != nil {
			result := model.Failure("cannot cancel message in status '" + string(msg.Status) + "'")
			return &result, nil
		}
		result := model.OK()
		return &result, nil
	}
	result := model.Failure("scheduled message not found: " + messageID)
	return &result, nil
}
