package modules

// StatusConfig configures the status server exposing health and runtime stats.
type StatusConfig struct {
	BaseConfig
	Listen         string `yaml:"listen" json:"listen" default:"127.0.0.1:9602"`
	DebugEndpoints bool   `yaml:"debug_endpoints" json:"debug_endpoints" default:"false"`
}

func (cfg StatusConfig) Validate() error {
	return nil
}

func (cfg StatusConfig) IsEnabled() bool {
	return cfg.Listen != "" && cfg.Listen != "off"
}
