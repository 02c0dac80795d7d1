package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatsched/chatsched/config/modules"
	"github.com/chatsched/chatsched/db"
	"github.com/chatsched/chatsched/db/entities"
	dberrs "github.com/chatsched/chatsched/db/errs"
	"github.com/chatsched/chatsched/db/query"
	"github.com/chatsched/chatsched/eventbus"
	"github.com/chatsched/chatsched/model"
	"github.com/chatsched/chatsched/pkg/clock"
	"github.com/chatsched/chatsched/pkg/errs"
	"github.com/chatsched/chatsched/pkg/types"
	"github.com/chatsched/chatsched/registry"
	"github.com/chatsched/chatsched/utils"
	"github.com/chatsched/chatsched/worker/deliverer"
	"go.uber.org/zap"
)

// DeliveryError is returned by Send when the deliverer rejects the message.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return "delivery failed: " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

type Service struct {
	log       *zap.SugaredLogger
	db        *db.DB
	workspace modules.WorkspaceConfig
	minLead   time.Duration
	registry  *registry.Registry
	deliverer deliverer.Deliverer
	bus       *eventbus.EventBus
	clock     clock.Clock
}

type Options struct {
	DB        *db.DB
	Workspace modules.WorkspaceConfig
	MinLead   time.Duration
	Registry  *registry.Registry
	Deliverer deliverer.Deliverer
	EventBus  *eventbus.EventBus
	Clock     clock.Clock
	Log       *zap.SugaredLogger
}

func NewService(opts Options) *Service {
	s := &Service{
		log:       opts.Log,
		db:        opts.DB,
		workspace: opts.Workspace,
		minLead:   opts.MinLead,
		registry:  opts.Registry,
		deliverer: opts.Deliverer,
		bus:       opts.EventBus,
		clock:     opts.Clock,
	}
	if s.log == nil {
		s.log = zap.S()
	}
	s.log = s.log.Named("service")
	if s.clock == nil {
		s.clock = clock.NewReal()
	}
	if s.registry == nil {
		s.registry = registry.NewRegistry(s.db.Channels, 0, 0)
	}
	if s.bus == nil {
		s.bus = eventbus.NewEventBus(s.log)
	}
	if s.deliverer == nil {
		s.deliverer = deliverer.NewLogDeliverer(s.log)
	}
	return s
}

func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Bootstrap writes the configured workspace and channels when the database has no workspace yet.
func (s *Service) Bootstrap(ctx context.Context) (*entities.Workspace, error) {
	ws, err := s.db.Workspaces.GetFirst(ctx)
	if err != nil || ws != nil {
		return ws, err
	}

	ws = &entities.Workspace{
		ID:     s.workspace.ID,
		Name:   s.workspace.Name,
		Domain: s.workspace.Domain,
	}
	channels := make([]*entities.Channel, 0, len(s.workspace.Channels))
	for i, c := range s.workspace.Channels {
		ch := &entities.Channel{
			ID:        c.ID,
			Name:      c.Name,
			IsPrivate: c.Private,
			Position:  i,
		}
		if c.WebhookURL != "" {
			ch.WebhookURL = utils.Pointer(c.WebhookURL)
		}
		channels = append(channels, ch)
	}

	err = s.db.TX(ctx, func(ctx context.Context) error {
		if err := s.db.Workspaces.Insert(ctx, ws); err != nil {
			return err
		}
		return s.db.Channels.BatchInsert(ctx, channels)
	})
	if err != nil {
		var dbErr *dberrs.DBError
		if errors.As(err, &dbErr) {
			// lost a race against a concurrent bootstrap
			return s.db.Workspaces.GetFirst(ctx)
		}
		return nil, err
	}

	ids := make([]string, 0, len(channels))
	for _, ch := range channels {
		ids = append(ids, ch.ID)
	}
	s.registry.Purge()
	s.bus.Broadcast(eventbus.EventChannelsChanged, &eventbus.ChannelsEvent{IDs: ids})
	s.log.Infof("bootstrapped workspace '%s' with %d channels", ws.Name, len(channels))
	return ws, nil
}

// Connect returns the connected workspace.
func (s *Service) Connect(ctx context.Context) (*entities.Workspace, error) {
	return s.Bootstrap(ctx)
}

// ListChannels returns the channels in display order.
func (s *Service) ListChannels(ctx context.Context) ([]*entities.Channel, error) {
	return s.db.Channels.ListOrdered(ctx)
}

func (s *Service) lookupChannel(ctx context.Context, id string) (*entities.Channel, error) {
	ch, err := s.registry.LookUp(ctx, id)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, errs.NewNotFoundError("channel", id)
	}
	return ch, nil
}

// Send delivers content to the channel immediately.
func (s *Service) Send(ctx context.Context, channelID string, content string) error {
	req := model.SendRequest{ChannelID: channelID, Content: content}
	if err := utils.Validate(&req); err != nil {
		return err
	}

	ch, err := s.lookupChannel(ctx, channelID)
	if err != nil {
		return err
	}

	msg := &deliverer.Message{
		ChannelID:   ch.ID,
		ChannelName: ch.Name,
		WebhookURL:  utils.PointerValue(ch.WebhookURL),
		Content:     content,
	}
	if err := s.deliverer.Deliver(ctx, msg); err != nil {
		s.log.Warnf("failed to send message to %s: %v", msg, err)
		return &DeliveryError{Err: err}
	}
	return nil
}

// Schedule stores a pending message for delivery at the given time.
func (s *Service) Schedule(ctx context.Context, channelID string, content string, at time.Time) (*entities.ScheduledMessage, error) {
	scheduledTime := types.NewTime(at)
	req := model.ScheduleRequest{ChannelID: channelID, Content: content, ScheduledTime: &scheduledTime}
	if at.IsZero() {
		req.ScheduledTime = nil
	}
	if err := utils.Validate(&req); err != nil {
		return nil, err
	}

	if err := model.CheckScheduleTime(at, s.clock.Now(), s.minLead); err != nil {
		return nil, errs.NewValidateFieldsError(errs.ErrRequestValidate, map[string]interface{}{
			"scheduledTime": err.Error(),
		})
	}

	ch, err := s.lookupChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	msg := &entities.ScheduledMessage{
		ID:            "msg_" + utils.KSUID(),
		ChannelID:     ch.ID,
		ChannelName:   ch.Name,
		Content:       content,
		ScheduledTime: types.NewTime(at.UTC()),
		Status:        entities.MessageStatusPending,
	}
	if err := s.db.ScheduledMessages.Insert(ctx, msg); err != nil {
		return nil, err
	}

	s.bus.Broadcast(eventbus.EventMessageScheduled, &eventbus.MessageEvent{
		ID:        msg.ID,
		ChannelID: msg.ChannelID,
		Status:    string(msg.Status),
	})
	return msg, nil
}

// ListScheduled returns scheduled messages, newest first, optionally filtered by status.
func (s *Service) ListScheduled(ctx context.Context, status *entities.MessageStatus) ([]*entities.ScheduledMessage, error) {
	var q query.ScheduledMessageQuery
	if status != nil {
		q.Status = utils.Pointer(string(*status))
	}
	q.Order("created_at", query.DESC)
	q.Order("id", query.DESC)
	return s.db.ScheduledMessages.List(ctx, &q)
}

func (s *Service) GetScheduled(ctx context.Context, id string) (*entities.ScheduledMessage, error) {
	msg, err := s.db.ScheduledMessages.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errs.NewNotFoundError("scheduled message", id)
	}
	return msg, nil
}

// Cancel moves a pending message to cancelled.
func (s *Service) Cancel(ctx context.Context, id string) error {
	msg, err := s.GetScheduled(ctx, id)
	if err != nil {
		return err
	}
	if !msg.Status.CanTransitionTo(entities.MessageStatusCancelled) {
		return errs.NewConflictError("cannot cancel message in status '%s'", msg.Status)
	}

	ok, err := s.db.ScheduledMessages.UpdateStatus(ctx, id, entities.MessageStatusPending, entities.MessageStatusCancelled, nil)
	if err != nil {
		return err
	}
	if !ok {
		// changed since it was read
		current, err := s.GetScheduled(ctx, id)
		if err != nil {
			return err
		}
		return errs.NewConflictError("cannot cancel message in status '%s'", current.Status)
	}

	s.bus.Broadcast(eventbus.EventMessageCancelled, &eventbus.MessageEvent{
		ID:        msg.ID,
		ChannelID: msg.ChannelID,
		Status:    string(entities.MessageStatusCancelled),
	})
	return nil
}

// Stats counts scheduled messages per status, keyed "messages.<status>".
func (s *Service) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{}, len(entities.MessageStatuses))
	for _, status := range entities.MessageStatuses {
		n, err := s.db.ScheduledMessages.Count(ctx, map[string]interface{}{"status": string(status)})
		if err != nil {
			return nil, err
		}
		stats["messages."+string(status)] = n
	}
	return stats, nil
}

type DispatchResult struct {
	Sent    int
	Failed  int
	Skipped int
}

func (r DispatchResult) Total() int {
	return r.Sent + r.Failed + r.Skipped
}

func (r DispatchResult) String() string {
	return fmt.Sprintf("sent=%d failed=%d skipped=%d", r.Sent, r.Failed, r.Skipped)
}

// DispatchDue delivers up to limit pending messages due at now and records the outcome.
// A message cancelled while its delivery is in flight stays cancelled and counts as skipped.
func (s *Service) DispatchDue(ctx context.Context, now time.Time, limit int) (DispatchResult, error) {
	var result DispatchResult

	list, err := s.db.ScheduledMessages.ListDue(ctx, now, limit)
	if err != nil {
		return result, err
	}

	for _, msg := range list {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		ch, err := s.registry.LookUp(ctx, msg.ChannelID)
		if err != nil {
			return result, err
		}

		next := entities.MessageStatusSent
		var lastError *string
		if deliverErr := s.deliverScheduled(ctx, ch, msg); deliverErr != nil {
			if ctx.Err() != nil {
				// shutting down, leave it pending
				return result, ctx.Err()
			}
			next = entities.MessageStatusFailed
			lastError = utils.Pointer(deliverErr.Error())
		}

		ok, err := s.db.ScheduledMessages.UpdateStatus(ctx, msg.ID, entities.MessageStatusPending, next, lastError)
		if err != nil {
			s.log.Errorf("failed to update message %s to %s: %v", msg.ID, next, err)
			return result, err
		}
		if !ok {
			s.log.Warnf("message %s was cancelled while being delivered", msg.ID)
			result.Skipped++
			continue
		}

		event := &eventbus.MessageEvent{ID: msg.ID, ChannelID: msg.ChannelID, Status: string(next)}
		if next == entities.MessageStatusSent {
			result.Sent++
			s.bus.Broadcast(eventbus.EventMessageSent, event)
		} else {
			result.Failed++
			event.Error = *lastError
			s.bus.Broadcast(eventbus.EventMessageFailed, event)
		}
	}

	return result, nil
}

func (s *Service) deliverScheduled(ctx context.Context, ch *entities.Channel, msg *entities.ScheduledMessage) error {
	if ch == nil {
		return errs.NewNotFoundError("channel", msg.ChannelID)
	}
	err := s.deliverer.Deliver(ctx, &deliverer.Message{
		ID:          msg.ID,
		ChannelID:   msg.ChannelID,
		ChannelName: ch.Name,
		WebhookURL:  utils.PointerValue(ch.WebhookURL),
		Content:     msg.Content,
	})
	if err != nil {
		s.log.Warnf("failed to deliver message %s: %v", msg.ID, err)
	}
	return err
}
