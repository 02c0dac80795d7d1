package dao

import (
	"context"
	"time"

	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/db/query"
)

type BaseDAO[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	Select(ctx context.Context, field string, value string) (*T, error)
	Insert(ctx context.Context, entity *T) error
	List(ctx context.Context, q query.Queryer) ([]*T, error)
	Count(ctx context.Context, conditions map[string]interface{}) (int64, error)
	BatchInsert(ctx context.Context, entities []*T) error
}

type WorkspaceDAO interface {
	BaseDAO[entities.Workspace]
	// GetFirst returns the earliest created workspace, or nil if there is none.
	GetFirst(ctx context.Context) (*entities.Workspace, error)
}

type ChannelDAO interface {
	BaseDAO[entities.Channel]
	ListOrdered(ctx context.Context) ([]*entities.Channel, error)
}

type ScheduledMessageDAO interface {
	BaseDAO[entities.ScheduledMessage]
	// UpdateStatus moves message id from status from to status to.
	// It reports false when the message is unknown or no longer in status from.
	UpdateStatus(ctx context.Context, id string, from, to entities.MessageStatus, lastError *string) (bool, error)
	// ListDue returns pending messages scheduled at or before now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*entities.ScheduledMessage, error)
}
