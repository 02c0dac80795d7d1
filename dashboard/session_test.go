package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chatsched/chatsched/client"
	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/model"
	"github.com/chatsched/chatsched/pkg/clock"
	"github.com/chatsched/chatsched/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var now = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func newSession(c client.Client) *Session {
	return NewSession(c, Options{Clock: clock.NewFake(now), Log: zap.NewNop().Sugar()})
}

func newMockSession() *Session {
	return newSession(client.NewMockClient(client.MockOptions{Clock: clock.NewFake(now)}))
}

func connected(t *testing.T, s *Session) *Session {
	f := s.Connect(context.TODO())
	require.False(t, f.IsError(), f.String())
	return s
}

func TestConnect(t *testing.T) {
	s := newMockSession()
	assert.False(t, s.IsConnected())

	f := s.Connect(context.TODO())
	assert.Equal(t, FeedbackSuccess, f.Kind)
	assert.Equal(t, "Connected to My Workspace", f.Message)
	assert.True(t, s.IsConnected())
	assert.Equal(t, "T1234567890", s.Workspace().ID)
}

func TestConnectFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockClient(ctrl)
	s := newSession(c)

	c.EXPECT().ConnectWorkspace(gomock.Any()).Return(&model.ConnectResult{Result: model.Failure("")}, nil)
	f := s.Connect(context.TODO())
	assert.Equal(t, Feedback{Kind: FeedbackError, Message: MsgConnectFailed}, f)

	c.EXPECT().ConnectWorkspace(gomock.Any()).Return(&model.ConnectResult{Result: model.Failure("token revoked")}, nil)
	f = s.Connect(context.TODO())
	assert.Equal(t, "token revoked", f.Message)

	c.EXPECT().ConnectWorkspace(gomock.Any()).Return(nil, errors.New("connection refused"))
	f = s.Connect(context.TODO())
	assert.Equal(t, Feedback{Kind: FeedbackError, Message: MsgUnexpectedError}, f)
	assert.False(t, s.IsConnected())
}

func TestLoadChannels(t *testing.T) {
	s := newMockSession()
	_, err := s.LoadChannels(context.TODO())
	assert.ErrorIs(t, err, ErrNotConnected)

	connected(t, s)
	channels, err := s.LoadChannels(context.TODO())
	require.NoError(t, err)
	assert.Len(t, channels, 4)
	assert.Len(t, s.Channels(), 4)
}

func TestSendNow(t *testing.T) {
	s := connected(t, newMockSession())
	ctx := context.TODO()

	_, err := s.SendNow(ctx, "", "hello")
	assert.ErrorIs(t, err, ErrIncomplete)
	_, err = s.SendNow(ctx, "C1234567890", "  \n ")
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Nil(t, s.Feedback())

	f, err := s.SendNow(ctx, "C1234567890", "hello")
	require.NoError(t, err)
	assert.Equal(t, Feedback{Kind: FeedbackSuccess, Message: MsgSent}, f)
	assert.Equal(t, &f, s.Feedback())
	assert.Len(t, s.Messages(), 2, "refreshed after send")

	f, err = s.SendNow(ctx, "C404", "hello")
	require.NoError(t, err)
	assert.Equal(t, Feedback{Kind: FeedbackError, Message: "channel not found: C404"}, f)
}

func TestSendNowFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockClient(ctrl)
	c.EXPECT().ConnectWorkspace(gomock.Any()).Return(&model.ConnectResult{
		Result:    model.OK(),
		Workspace: &entities.Workspace{ID: "T1", Name: "ws"},
	}, nil)
	s := connected(t, newSession(c))

	c.EXPECT().SendMessage(gomock.Any(), "C1", "hello").Return(&model.Result{}, nil)
	f, err := s.SendNow(context.TODO(), "C1", "hello")
	require.NoError(t, err)
	assert.Equal(t, Feedback{Kind: FeedbackError, Message: MsgSendFailed}, f)

	c.EXPECT().SendMessage(gomock.Any(), "C1", "hello").Return(nil, errors.New("EOF"))
	f, err = s.SendNow(context.TODO(), "C1", "hello")
	require.NoError(t, err)
	assert.Equal(t, Feedback{Kind: FeedbackError, Message: MsgUnexpectedError}, f)
}

func TestSchedule(t *testing.T) {
	s := connected(t, newMockSession())
	ctx := context.TODO()

	_, err := s.Schedule(ctx, "C1234567890", "hello", time.Time{})
	assert.ErrorIs(t, err, ErrIncomplete)
	_, err = s.Schedule(ctx, "C1234567890", "hello", now.Add(30*time.Second))
	assert.ErrorIs(t, err, ErrScheduleTooSoon)
	_, err = s.Schedule(ctx, "C1234567890", "hello", now.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrScheduleTooSoon)

	f, err := s.Schedule(ctx, "C1234567892", "standup", now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, Feedback{Kind: FeedbackSuccess, Message: MsgScheduled}, f)

	messages := s.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, "standup", messages[0].Content)
	assert.Equal(t, "C1234567892", messages[0].ChannelID)
	assert.Equal(t, now.Add(time.Minute), messages[0].ScheduledTime.Time)
}

func TestScheduleFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockClient(ctrl)
	c.EXPECT().ConnectWorkspace(gomock.Any()).Return(&model.ConnectResult{
		Result:    model.OK(),
		Workspace: &entities.Workspace{ID: "T1", Name: "ws"},
	}, nil)
	s := connected(t, newSession(c))

	c.EXPECT().ScheduleMessage(gomock.Any(), "C1", "hello", now.Add(time.Hour)).
		Return(&model.ScheduleResult{Result: model.Failure("")}, nil)
	f, err := s.Schedule(context.TODO(), "C1", "hello", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Feedback{Kind: FeedbackError, Message: MsgScheduleFailed}, f)
}

func TestCancel(t *testing.T) {
	s := connected(t, newMockSession())
	ctx := context.TODO()
	_, err := s.Refresh(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Cancel(ctx, "msg_2"))
	for _, msg := range s.Messages() {
		if msg.ID == "msg_2" {
			assert.Equal(t, entities.MessageStatusCancelled, msg.Status)
		} else {
			assert.Equal(t, entities.MessageStatusPending, msg.Status)
		}
	}

	err = s.Cancel(ctx, "msg_2")
	var failure *FailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "cannot cancel message in status 'cancelled'", failure.Message)

	messages, err := s.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.MessageStatusCancelled, messages[1].Status)
}

func TestCancelInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockClient(ctrl)
	s := newSession(c)

	started := make(chan struct{})
	release := make(chan struct{})
	c.EXPECT().CancelScheduledMessage(gomock.Any(), "msg_1").DoAndReturn(
		func(ctx context.Context, id string) (*model.Result, error) {
			close(started)
			<-release
			result := model.OK()
			return &result, nil
		}).Times(1)

	done := make(chan error)
	go func() { done <- s.Cancel(context.TODO(), "msg_1") }()
	<-started

	assert.True(t, s.IsCancelling("msg_1"))
	assert.ErrorIs(t, s.Cancel(context.TODO(), "msg_1"), ErrCancelInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.IsCancelling("msg_1"))
}

func TestCancelAfterConcurrentRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockClient(ctrl)
	c.EXPECT().ConnectWorkspace(gomock.Any()).Return(&model.ConnectResult{
		Result:    model.OK(),
		Workspace: &entities.Workspace{ID: "T1", Name: "ws"},
	}, nil)
	s := connected(t, newSession(c))

	pending := &model.MessagesResult{Result: model.OK(), Messages: []*entities.ScheduledMessage{
		{ID: "msg_1", Status: entities.MessageStatusPending},
	}}
	cancelled := &model.MessagesResult{Result: model.OK(), Messages: []*entities.ScheduledMessage{
		{ID: "msg_1", Status: entities.MessageStatusCancelled},
	}}
	gomock.InOrder(
		c.EXPECT().GetScheduledMessages(gomock.Any()).Return(pending, nil),
		c.EXPECT().GetScheduledMessages(gomock.Any()).Return(cancelled, nil),
	)
	c.EXPECT().CancelScheduledMessage(gomock.Any(), "msg_1").DoAndReturn(
		func(ctx context.Context, id string) (*model.Result, error) {
			_, err := s.Refresh(ctx)
			require.NoError(t, err)
			result := model.OK()
			return &result, nil
		})

	_, err := s.Refresh(context.TODO())
	require.NoError(t, err)

	assert.NoError(t, s.Cancel(context.TODO(), "msg_1"))
	messages := s.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, entities.MessageStatusCancelled, messages[0].Status)
}

func TestRefreshLastWriteWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockClient(ctrl)
	c.EXPECT().ConnectWorkspace(gomock.Any()).Return(&model.ConnectResult{
		Result:    model.OK(),
		Workspace: &entities.Workspace{ID: "T1", Name: "ws"},
	}, nil)
	s := connected(t, newSession(c))

	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	stale := &model.MessagesResult{Result: model.OK(), Messages: []*entities.ScheduledMessage{{ID: "stale"}}}
	fresh := &model.MessagesResult{Result: model.OK(), Messages: []*entities.ScheduledMessage{{ID: "fresh"}}}
	gomock.InOrder(
		c.EXPECT().GetScheduledMessages(gomock.Any()).DoAndReturn(func(ctx context.Context) (*model.MessagesResult, error) {
			close(slowStarted)
			<-releaseSlow
			return stale, nil
		}),
		c.EXPECT().GetScheduledMessages(gomock.Any()).Return(fresh, nil),
	)

	done := make(chan struct{})
	go func() {
		_, _ = s.Refresh(context.TODO())
		close(done)
	}()
	<-slowStarted

	messages, err := s.Refresh(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, "fresh", messages[0].ID)

	close(releaseSlow)
	<-done
	assert.Equal(t, "fresh", s.Messages()[0].ID)
}
