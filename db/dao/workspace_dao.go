package dao

import (
	"context"

	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/db/query"
	"github.com/chatsched/chatsched/pkg/tracing"
	"github.com/jmoiron/sqlx"
)

type workspaceDAO struct {
	*DAO[entities.Workspace]
}

func NewWorkspaceDAO(db *sqlx.DB, tracer *tracing.Tracer) WorkspaceDAO {
	opts := Options{
		Table:      "workspaces",
		EntityName: "workspace",
		Tracer:     tracer,
	}
	return &workspaceDAO{
		DAO: NewDAO[entities.Workspace](db, opts),
	}
}

func (dao *workspaceDAO) GetFirst(ctx context.Context) (*entities.Workspace, error) {
	var q query.WorkspaceQuery
	q.First(1)
	q.Order("created_at", query.ASC)
	list, err := dao.List(ctx, &q)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
