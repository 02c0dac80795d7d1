package utils

import (
	"strings"

	uuid "github.com/satori/go.uuid"
	"github.com/segmentio/ksuid"
)

func UUID() string {
	return uuid.NewV4().String()
}

func UUIDShort() string {
	return strings.ReplaceAll(UUID(), "-", "")
}

func IsValidUUID(id string) bool {
	_, err := uuid.FromString(id)
	return err == nil
}

// KSUID returns a K-sortable unique id.
func KSUID() string {
	return ksuid.New().String()
}

func IsValidKSUID(id string) bool {
	_, err := ksuid.Parse(id)
	return err == nil
}
