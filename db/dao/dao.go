package dao

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/chatsched/chatsched/db/errs"
	"github.com/chatsched/chatsched/db/query"
	"github.com/chatsched/chatsched/db/transaction"
	"github.com/chatsched/chatsched/pkg/tracing"
	"github.com/chatsched/chatsched/pkg/types"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	ErrNoRows = sql.ErrNoRows
)

// Queryable is an interface to be used interchangeably for sqlx.Db and sqlx.Tx
type Queryable interface {
	sqlx.ExtContext
	GetContext(context.Context, interface{}, string, ...interface{}) error
	SelectContext(context.Context, interface{}, string, ...interface{}) error
}

type Options struct {
	Table      string
	EntityName string
	// Tracer records a span per query when set.
	Tracer *tracing.Tracer
}

type DAO[T any] struct {
	log  *zap.SugaredLogger
	db   *sqlx.DB
	sql  sq.StatementBuilderType
	opts Options
}

// StatementBuilder returns a squirrel builder using the placeholders of db's driver.
func StatementBuilder(db *sqlx.DB) sq.StatementBuilderType {
	if db.DriverName() == "pgx" {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func NewDAO[T any](db *sqlx.DB, opts Options) *DAO[T] {
	dao := DAO[T]{
		log:  zap.S().Named("dao"),
		db:   db,
		sql:  StatementBuilder(db),
		opts: opts,
	}
	return &dao
}

func (dao *DAO[T]) debugSQL(sql string, args []interface{}) {
	dao.log.Debugf("[%s] execute: %s", dao.opts.Table, sql)
}

func (dao *DAO[T]) trace(ctx context.Context, op string) (context.Context, trace.Span) {
	return dao.opts.Tracer.Start(ctx, "dao."+dao.opts.Table+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.table", dao.opts.Table)),
	)
}

func (dao *DAO[T]) DB(ctx context.Context) Queryable {
	if ctx == nil {
		ctx = context.TODO()
	}

	if tx, ok := transaction.FromContext(ctx); ok {
		return tx
	}

	return dao.db
}

func (dao *DAO[T]) UnsafeDB(ctx context.Context) Queryable {
	db := dao.DB(ctx)

	if tx, ok := db.(*sqlx.Tx); ok {
		return tx.Unsafe()
	}

	return db.(*sqlx.DB).Unsafe()
}

func (dao *DAO[T]) Get(ctx context.Context, id string) (entity *T, err error) {
	return dao.Select(ctx, "id", id)
}

func (dao *DAO[T]) Select(ctx context.Context, field string, value string) (entity *T, err error) {
	ctx, span := dao.trace(ctx, "select")
	defer span.End()

	builder := dao.sql.Select("*").From(dao.opts.Table).Where(sq.Eq{field: value})
	statement, args := builder.MustSql()
	dao.debugSQL(statement, args)
	entity = new(T)
	err = dao.UnsafeDB(ctx).GetContext(ctx, entity, statement, args...)
	if errors.Is(err, ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (dao *DAO[T]) Count(ctx context.Context, where map[string]interface{}) (total int64, err error) {
	ctx, span := dao.trace(ctx, "count")
	defer span.End()

	builder := dao.sql.Select("COUNT(*)").From(dao.opts.Table)
	if len(where) > 0 {
		builder = builder.Where(sq.Eq(where))
	}
	statement, args := builder.MustSql()
	dao.debugSQL(statement, args)
	err = dao.DB(ctx).GetContext(ctx, &total, statement, args...)
	return
}

func (dao *DAO[T]) List(ctx context.Context, q query.Queryer) (list []*T, err error) {
	ctx, span := dao.trace(ctx, "list")
	defer span.End()

	builder := dao.sql.Select("*").From(dao.opts.Table)
	where := q.WhereMap()
	if len(where) > 0 {
		builder = builder.Where(sq.Eq(where))
	}
	if n := q.Limit(); n > 0 {
		builder = builder.Limit(n)
	}
	for _, order := range q.Orders() {
		builder = builder.OrderBy(order.String())
	}
	statement, args := builder.MustSql()
	dao.debugSQL(statement, args)
	list = make([]*T, 0)
	err = dao.UnsafeDB(ctx).SelectContext(ctx, &list, statement, args...)
	return
}

func insertColumns(entity interface{}) ([]string, []interface{}) {
	return columnValues(entity, "created_at", "updated_at")
}

func (dao *DAO[T]) Insert(ctx context.Context, entity *T) error {
	ctx, span := dao.trace(ctx, "insert")
	defer span.End()

	columns, values := insertColumns(entity)
	statement, args := dao.sql.Insert(dao.opts.Table).Columns(columns...).Values(values...).
		Suffix("RETURNING *").
		MustSql()
	dao.debugSQL(statement, args)
	err := dao.UnsafeDB(ctx).QueryRowxContext(ctx, statement, args...).StructScan(entity)
	return errs.ConvertError(err)
}

func (dao *DAO[T]) BatchInsert(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}

	ctx, span := dao.trace(ctx, "batch_insert")
	defer span.End()

	columns, _ := insertColumns(entities[0])
	builder := dao.sql.Insert(dao.opts.Table).Columns(columns...)
	for _, entity := range entities {
		_, values := insertColumns(entity)
		builder = builder.Values(values...)
	}

	statement, args := builder.Suffix("RETURNING *").MustSql()
	dao.debugSQL(statement, args)
	rows, err := dao.UnsafeDB(ctx).QueryxContext(ctx, statement, args...)
	if err != nil {
		return errs.ConvertError(err)
	}
	defer func() { _ = rows.Close() }()
	i := 0
	for rows.Next() && i < len(entities) {
		err = rows.StructScan(entities[i])
		if err != nil {
			return err
		}
		i++
	}
	return errs.ConvertError(rows.Err())
}

func (dao *DAO[T]) update(ctx context.Context, where sq.Eq, maps map[string]interface{}) (int64, error) {
	ctx, span := dao.trace(ctx, "update")
	defer span.End()

	maps["updated_at"] = types.NewTime(time.Now())
	builder := dao.sql.Update(dao.opts.Table).SetMap(maps).Where(where)
	statement, args := builder.MustSql()
	dao.debugSQL(statement, args)
	result, err := dao.DB(ctx).ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, errs.ConvertError(err)
	}
	return result.RowsAffected()
}
