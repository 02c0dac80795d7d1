package config

import (
	"github.com/chatsched/chatsched/config/providers"
)

const EnvPrefix = "CHATSCHED"

// Loader is configuration loader
type Loader struct {
	cfg         *Config
	envPrefix   string
	env         map[string]string
	filename    string
	fileContent []byte
}

func NewLoader(cfg *Config) *Loader {
	return &Loader{cfg: cfg}
}

func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithEnv replaces the process environment, mostly useful in tests.
func (l *Loader) WithEnv(env map[string]string) *Loader {
	l.env = env
	return l
}

func (l *Loader) WithFilename(filename string) *Loader {
	l.filename = filename
	return l
}

func (l *Loader) WithFileContent(content []byte) *Loader {
	l.fileContent = content
	return l
}

func (l *Loader) Load() error {
	cfg := l.cfg

	err := providers.NewYAMLProvider(l.filename, l.fileContent).Load(cfg)
	if err != nil {
		return err
	}

	if l.envPrefix != "" {
		err = providers.NewEnvProvider(l.envPrefix).WithEnv(l.env).Load(cfg)
		if err != nil {
			return err
		}
	}

	return cfg.PostProcess()
}

func Load(filename string, cfg *Config) error {
	return NewLoader(cfg).WithEnvPrefix(EnvPrefix).WithFilename(filename).Load()
}
