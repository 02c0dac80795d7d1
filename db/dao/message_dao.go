package dao

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/pkg/tracing"
	"github.com/chatsched/chatsched/pkg/types"
	"github.com/jmoiron/sqlx"
)

type scheduledMessageDAO struct {
	*DAO[entities.ScheduledMessage]
}

func NewScheduledMessageDAO(db *sqlx.DB, tracer *tracing.Tracer) ScheduledMessageDAO {
	opts := Options{
		Table:      "scheduled_messages",
		EntityName: "scheduled_message",
		Tracer:     tracer,
	}
	return &scheduledMessageDAO{
		DAO: NewDAO[entities.ScheduledMessage](db, opts),
	}
}

func (dao *scheduledMessageDAO) UpdateStatus(ctx context.Context, id string, from, to entities.MessageStatus, lastError *string) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, from, to)
	}
	rows, err := dao.update(ctx, sq.Eq{"id": id, "status": from}, map[string]interface{}{
		"status":     to,
		"last_error": lastError,
	})
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (dao *scheduledMessageDAO) ListDue(ctx context.Context, now time.Time, limit int) (list []*entities.ScheduledMessage, err error) {
	ctx, span := dao.trace(ctx, "list_due")
	defer span.End()

	builder := dao.sql.Select("*").From(dao.opts.Table).
		Where(sq.Eq{"status": entities.MessageStatusPending}).
		Where(sq.LtOrEq{"scheduled_at": types.NewTime(now)}).
		OrderBy("scheduled_at ASC", "id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	statement, args := builder.MustSql()
	dao.debugSQL(statement, args)
	list = make([]*entities.ScheduledMessage, 0)
	err = dao.UnsafeDB(ctx).SelectContext(ctx, &list, statement, args...)
	return
}
