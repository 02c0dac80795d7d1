package migrator

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/chatsched/chatsched/config/modules"
	"github.com/chatsched/chatsched/db"
	"github.com/chatsched/chatsched/db/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrator is a database migrator
type Migrator struct {
	cfg *modules.DatabaseConfig
}

type Status struct {
	Version  uint
	Dirty    bool
	Pendings []uint
}

func New(cfg *modules.DatabaseConfig) *Migrator {
	return &Migrator{
		cfg: cfg,
	}
}

func (m *Migrator) dir() string {
	if m.cfg.Driver == modules.DriverPostgres {
		return "postgres"
	}
	return "sqlite"
}

func (m *Migrator) init() (*migrate.Migrate, error) {
	sqlDB, err := db.NewSqlDB(*m.cfg)
	if err != nil {
		return nil, err
	}

	var driver database.Driver
	if m.cfg.Driver == modules.DriverPostgres {
		driver, err = pgx.WithInstance(sqlDB, &pgx.Config{
			DatabaseName: m.cfg.Database,
		})
	} else {
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	}
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	d, err := iofs.New(migrations.SQLs, m.dir())
	if err != nil {
		return nil, err
	}

	return migrate.NewWithInstance("iofs", d, string(m.cfg.Driver), driver)
}

func closeMigrate(mg *migrate.Migrate) {
	_, _ = mg.Close()
}

// Reset drops every table
func (m *Migrator) Reset() error {
	mg, err := m.init()
	if err != nil {
		return err
	}
	defer closeMigrate(mg)
	return mg.Drop()
}

// Up applies all pending migrations. No pending migration is not an error.
func (m *Migrator) Up() error {
	mg, err := m.init()
	if err != nil {
		return err
	}
	defer closeMigrate(mg)
	err = mg.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Status returns the current status
func (m *Migrator) Status() (*Status, error) {
	mg, err := m.init()
	if err != nil {
		return nil, err
	}
	defer closeMigrate(mg)

	status := &Status{}
	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, err
	}
	status.Version = version
	status.Dirty = dirty

	pendings, err := m.pendings(version)
	if err != nil {
		return nil, err
	}
	status.Pendings = pendings
	return status, nil
}

func (m *Migrator) pendings(current uint) ([]uint, error) {
	d, err := iofs.New(migrations.SQLs, m.dir())
	if err != nil {
		return nil, err
	}
	defer func() { _ = d.Close() }()

	pendings := make([]uint, 0)
	v, err := d.First()
	for err == nil {
		if v > current {
			pendings = append(pendings, v)
		}
		v, err = d.Next(v)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return pendings, nil
	}
	return nil, err
}

func (s *Status) String() string {
	pendings := "none"
	if len(s.Pendings) > 0 {
		pendings = fmt.Sprint(s.Pendings)
	}
	return fmt.Sprintf("version: %d\ndirty: %t\npending: %s", s.Version, s.Dirty, pendings)
}
