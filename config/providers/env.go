package providers

import (
	"os"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvProvider overrides configuration values from environment variables
// named PREFIX_SECTION_KEY, e.g. CHATSCHED_WORKER_MIN_LEAD.
// Variables that are not set leave the current value untouched.
type EnvProvider struct {
	prefix string
	env    map[string]string
}

func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{prefix: prefix}
}

func (p *EnvProvider) WithEnv(env map[string]string) *EnvProvider {
	p.env = env
	return p
}

func (p *EnvProvider) environ() map[string]string {
	if p.env != nil {
		return p.env
	}
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

func (p *EnvProvider) Load(cfg any) error {
	t := reflect.TypeOf(cfg)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	values := make(map[string]interface{})
	for key, value := range p.environ() {
		rest, ok := strings.CutPrefix(key, p.prefix+"_")
		if !ok {
			continue
		}
		path, field, ok := lookup(t, rest)
		if !ok {
			continue
		}
		v, err := parseValue(field, value)
		if err != nil {
			return err
		}
		set(values, path, v)
	}

	if len(values) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(values)
}

// lookup resolves an env key suffix such as ACCESS_LOG_FORMAT to the yaml
// path [access_log format] of a field in t.
func lookup(t reflect.Type, key string) ([]string, reflect.Type, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous || !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("yaml"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		envName := strings.ToUpper(name)
		if key == envName {
			return []string{name}, f.Type, true
		}
		if f.Type.Kind() == reflect.Struct && strings.HasPrefix(key, envName+"_") {
			path, ft, ok := lookup(f.Type, strings.TrimPrefix(key, envName+"_"))
			if ok {
				return append([]string{name}, path...), ft, true
			}
		}
	}
	return nil, nil, false
}

func parseValue(t reflect.Type, value string) (interface{}, error) {
	switch t.Kind() {
	case reflect.Slice, reflect.Map, reflect.Struct:
		var v interface{}
		if err := yaml.Unmarshal([]byte(value), &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return value, nil
	}
}

func set(m map[string]interface{}, path []string, value interface{}) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
