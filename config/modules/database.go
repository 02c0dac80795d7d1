package modules

import (
	"fmt"
	"slices"

	"github.com/chatsched/chatsched/config/types"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

type DatabaseConfig struct {
	BaseConfig
	Driver      DatabaseDriver `yaml:"driver" json:"driver" default:"sqlite"`
	File        string         `yaml:"file" json:"file" default:"chatsched.db"`
	Host        string         `yaml:"host" json:"host" default:"localhost"`
	Port        uint32         `yaml:"port" json:"port" default:"5432"`
	Username    string         `yaml:"username" json:"username" default:"chatsched"`
	Password    types.Password `yaml:"password" json:"password" default:""`
	Database    string         `yaml:"database" json:"database" default:"chatsched"`
	Parameters  string         `yaml:"parameters" json:"parameters" default:"application_name=chatsched&sslmode=disable&connect_timeout=10"`
	MaxPoolSize uint32         `yaml:"max_pool_size" json:"max_pool_size" default:"40"`
	MaxLifetime uint32         `yaml:"max_life_time" json:"max_life_time" default:"1800"`
	AutoMigrate bool           `yaml:"auto_migrate" json:"auto_migrate" default:"false"`
}

func (cfg DatabaseConfig) GetDSN() string {
	if cfg.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.File)
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)
	if len(cfg.Parameters) > 0 {
		dsn = fmt.Sprintf("%s?%s", dsn, cfg.Parameters)
	}
	return dsn
}

func (cfg DatabaseConfig) Validate() error {
	if !slices.Contains([]DatabaseDriver{DriverSQLite, DriverPostgres}, cfg.Driver) {
		return fmt.Errorf("invalid driver: %s", cfg.Driver)
	}
	if cfg.Driver == DriverSQLite && cfg.File == "" {
		return fmt.Errorf("file is required for sqlite driver")
	}
	if cfg.Port > 65535 {
		return fmt.Errorf("port must be in the range [0, 65535]")
	}
	return nil
}
