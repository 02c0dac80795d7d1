package types

import "encoding/json"

type Config interface {
	Validate() error
	PostProcess() error
}

type Password string

func (p Password) MarshalJSON() ([]byte, error) {
	return json.Marshal("******")
}

// Map is a set of string attributes, given as a JSON object in env variables.
type Map map[string]string

func (m *Map) Decode(value string) error {
	return json.Unmarshal([]byte(value), m)
}
