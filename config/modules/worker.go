package modules

import (
	"fmt"
	"net/url"
	"time"
)

type WorkerDeliverer struct {
	Timeout    int64   `yaml:"timeout" json:"timeout" default:"10000"`
	RatePerSec float64 `yaml:"rate_per_sec" json:"rate_per_sec" default:"1"`
}

func (cfg *WorkerDeliverer) Validate() error {
	if cfg.Timeout < 0 {
		return fmt.Errorf("deliverer.timeout cannot be negative")
	}
	if cfg.RatePerSec < 0 {
		return fmt.Errorf("deliverer.rate_per_sec cannot be negative")
	}
	return nil
}

type WorkerConfig struct {
	BaseConfig
	Enabled   bool            `yaml:"enabled" json:"enabled" default:"true"`
	Interval  uint32          `yaml:"interval" json:"interval" default:"1000"`
	BatchSize uint32          `yaml:"batch_size" json:"batch_size" default:"100"`
	MinLead   uint32          `yaml:"min_lead" json:"min_lead" default:"60"`
	Deliverer WorkerDeliverer `yaml:"deliverer" json:"deliverer"`
}

func (cfg *WorkerConfig) Status() string {
	if cfg.Enabled {
		return "on"
	}
	return "off"
}

// IntervalDuration is the dispatch period, configured in milliseconds.
func (cfg *WorkerConfig) IntervalDuration() time.Duration {
	return time.Duration(cfg.Interval) * time.Millisecond
}

// MinLeadDuration is the minimum distance between now and a schedule time, configured in seconds.
func (cfg *WorkerConfig) MinLeadDuration() time.Duration {
	return time.Duration(cfg.MinLead) * time.Second
}

func (cfg *WorkerConfig) Validate() error {
	if cfg.Interval == 0 {
		return fmt.Errorf("interval must be > 0")
	}
	if cfg.BatchSize == 0 {
		return fmt.Errorf("batch_size must be > 0")
	}
	if err := cfg.Deliverer.Validate(); err != nil {
		return err
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %s", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https: '%s'", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url: '%s'", raw)
	}
	return nil
}
