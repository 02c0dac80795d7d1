package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chatsched/chatsched/config/modules"
	"github.com/chatsched/chatsched/db/dao"
	"github.com/chatsched/chatsched/db/transaction"
	"github.com/chatsched/chatsched/pkg/tracing"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type DB struct {
	DB  *sqlx.DB
	log *zap.SugaredLogger

	Workspaces        dao.WorkspaceDAO
	Channels          dao.ChannelDAO
	ScheduledMessages dao.ScheduledMessageDAO
}

// DriverName returns the database/sql driver name for the configured driver.
func DriverName(driver modules.DatabaseDriver) string {
	if driver == modules.DriverPostgres {
		return "pgx"
	}
	return "sqlite3"
}

func NewSqlDB(cfg modules.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(DriverName(cfg.Driver), cfg.GetDSN())
	if err != nil {
		return nil, err
	}
	if cfg.Driver == modules.DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(int(cfg.MaxPoolSize))
		db.SetMaxIdleConns(int(cfg.MaxPoolSize))
	}
	db.SetConnMaxLifetime(time.Second * time.Duration(cfg.MaxLifetime))
	return db, nil
}

// NewDB wraps sqlDB. Queries are traced when tracer is not nil.
func NewDB(sqlDB *sql.DB, driver modules.DatabaseDriver, log *zap.SugaredLogger, tracer *tracing.Tracer) *DB {
	sqlxDB := sqlx.NewDb(sqlDB, DriverName(driver))

	db := &DB{
		DB:                sqlxDB,
		log:               log,
		Workspaces:        dao.NewWorkspaceDAO(sqlxDB, tracer),
		Channels:          dao.NewChannelDAO(sqlxDB, tracer),
		ScheduledMessages: dao.NewScheduledMessageDAO(sqlxDB, tracer),
	}

	return db
}

// Open opens the database described by cfg.
func Open(cfg modules.DatabaseConfig, log *zap.SugaredLogger, tracer *tracing.Tracer) (*DB, error) {
	sqlDB, err := NewSqlDB(cfg)
	if err != nil {
		return nil, err
	}
	return NewDB(sqlDB, cfg.Driver, log, tracer), nil
}

func (db *DB) Ping() error {
	return db.DB.Ping()
}

func (db *DB) Stats() map[string]interface{} {
	stats := db.DB.Stats()
	return map[string]interface{}{
		"database.total_connections":  stats.OpenConnections,
		"database.active_connections": stats.InUse,
	}
}

func (db *DB) TX(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := transaction.FromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			db.log.Errorf("panic recovered: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				db.log.Errorf("failed to rollback the tx: %v", rbErr)
			}
			panic(err)
		}
	}()

	ctx = transaction.WithTx(ctx, tx)

	err = fn(ctx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrap(err, rbErr.Error())
		}
		return err
	}

	return tx.Commit()
}

func (db *DB) Truncate(table string) error {
	sql := fmt.Sprintf("DELETE FROM %s", table)
	_, err := db.DB.Exec(sql)
	return err
}

func (db *DB) Close() error {
	return db.DB.Close()
}
