package modules

import (
	"fmt"
)

type ChannelConfig struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Private    bool   `yaml:"private" json:"private"`
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`
}

// WorkspaceConfig describes the workspace the backend is connected to.
// It is written to the database the first time a client connects.
type WorkspaceConfig struct {
	BaseConfig
	ID       string          `yaml:"id" json:"id" default:"T1234567890"`
	Name     string          `yaml:"name" json:"name" default:"My Workspace"`
	Domain   string          `yaml:"domain" json:"domain" default:"myworkspace"`
	Channels []ChannelConfig `yaml:"channels" json:"channels"`
}

func (cfg *WorkspaceConfig) PostProcess() error {
	if len(cfg.Channels) == 0 {
		cfg.Channels = DefaultChannels()
	}
	return nil
}

func (cfg WorkspaceConfig) Validate() error {
	if cfg.ID == "" {
		return fmt.Errorf("workspace.id is required")
	}
	if cfg.Name == "" {
		return fmt.Errorf("workspace.name is required")
	}
	seen := make(map[string]bool, len(cfg.Channels))
	for i, c := range cfg.Channels {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("workspace.channels[%d]: id and name are required", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("workspace.channels[%d]: duplicate id '%s'", i, c.ID)
		}
		seen[c.ID] = true
		if c.WebhookURL != "" {
			if err := validateHTTPURL(c.WebhookURL); err != nil {
				return fmt.Errorf("workspace.channels[%d]: %w", i, err)
			}
		}
	}
	return nil
}

func DefaultChannels() []ChannelConfig {
	return []ChannelConfig{
		{ID: "C1234567890", Name: "general"},
		{ID: "C1234567891", Name: "random"},
		{ID: "C1234567892", Name: "development"},
		{ID: "C1234567893", Name: "marketing", Private: true},
	}
}
