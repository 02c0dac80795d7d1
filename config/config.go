package config

import (
	"encoding/json"

	"github.com/chatsched/chatsched/config/modules"
	"github.com/chatsched/chatsched/config/types"
	"github.com/creasty/defaults"
)

var _ types.Config = &Config{}

// Config Configuration
type Config struct {
	modules.BaseConfig
	Log       modules.LogConfig       `yaml:"log" json:"log"`
	AccessLog modules.AccessLogConfig `yaml:"access_log" json:"access_log"`
	Database  modules.DatabaseConfig  `yaml:"database" json:"database"`
	Admin     modules.AdminConfig     `yaml:"admin" json:"admin"`
	Status    modules.StatusConfig    `yaml:"status" json:"status"`
	Worker    modules.WorkerConfig    `yaml:"worker" json:"worker"`
	Workspace modules.WorkspaceConfig `yaml:"workspace" json:"workspace"`
	Client    modules.ClientConfig    `yaml:"client" json:"client"`
	Tracing   modules.TracingConfig   `yaml:"tracing" json:"tracing"`
	Metrics   modules.MetricsConfig   `yaml:"metrics" json:"metrics"`
}

func (cfg *Config) PostProcess() error {
	return cfg.Workspace.PostProcess()
}

func (cfg Config) String() string {
	bytes, err := json.Marshal(cfg)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (cfg Config) Validate() error {
	if err := cfg.Log.Validate(); err != nil {
		return err
	}
	if err := cfg.AccessLog.Validate(); err != nil {
		return err
	}
	if err := cfg.Database.Validate(); err != nil {
		return err
	}
	if err := cfg.Admin.Validate(); err != nil {
		return err
	}
	if err := cfg.Status.Validate(); err != nil {
		return err
	}
	if err := cfg.Worker.Validate(); err != nil {
		return err
	}
	if err := cfg.Workspace.Validate(); err != nil {
		return err
	}
	if err := cfg.Client.Validate(); err != nil {
		return err
	}
	if err := cfg.Tracing.Validate(); err != nil {
		return err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}
	return nil
}

func New() *Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}
