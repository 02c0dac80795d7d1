package modules

import (
	"fmt"
	"time"
)

// ClientConfig configures the dashboard commands.
type ClientConfig struct {
	BaseConfig
	URL     string `yaml:"url" json:"url" default:"http://127.0.0.1:9601"`
	Timeout int64  `yaml:"timeout" json:"timeout" default:"30000"`
	Mock    bool   `yaml:"mock" json:"mock" default:"false"`

	// MockLatency simulates the latency of a remote workspace in mock mode.
	MockLatency bool `yaml:"mock_latency" json:"mock_latency" default:"true"`
}

func (cfg ClientConfig) TimeoutDuration() time.Duration {
	return time.Duration(cfg.Timeout) * time.Millisecond
}

func (cfg ClientConfig) Validate() error {
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if !cfg.Mock {
		if err := validateHTTPURL(cfg.URL); err != nil {
			return fmt.Errorf("client.url: %w", err)
		}
	}
	return nil
}
