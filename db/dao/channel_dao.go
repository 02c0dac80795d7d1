package dao

import (
	"context"

	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/db/query"
	"github.com/chatsched/chatsched/pkg/tracing"
	"github.com/jmoiron/sqlx"
)

type channelDAO struct {
	*DAO[entities.Channel]
}

func NewChannelDAO(db *sqlx.DB, tracer *tracing.Tracer) ChannelDAO {
	opts := Options{
		Table:      "channels",
		EntityName: "channel",
		Tracer:     tracer,
	}
	return &channelDAO{
		DAO: NewDAO[entities.Channel](db, opts),
	}
}

func (dao *channelDAO) ListOrdered(ctx context.Context) ([]*entities.Channel, error) {
	var q query.ChannelQuery
	q.Order("position", query.ASC)
	q.Order("id", query.ASC)
	return dao.List(ctx, &q)
}
