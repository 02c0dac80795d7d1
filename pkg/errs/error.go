package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrRequestValidate = errors.New("request validation")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

type Error struct {
	err error
}

func NewError(err error) *Error {
	return &Error{
		err: err,
	}
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// NotFoundError reports an unknown resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ConflictError reports an operation that is not allowed in the resource's current state.
type ConflictError struct {
	Message string
}

func NewConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

type ValidateError struct {
	err     error
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields"`
}

func NewValidateError(err error) *ValidateError {
	return &ValidateError{
		err:     err,
		Message: err.Error(),
		Fields:  make(map[string]interface{}),
	}
}

func NewValidateFieldsError(err error, fields map[string]interface{}) *ValidateError {
	return &ValidateError{
		err:     err,
		Message: err.Error(),
		Fields:  fields,
	}
}

func (e *ValidateError) Error() string {
	return e.err.Error()
}

func (e *ValidateError) Unwrap() error {
	return e.err
}

// Detail flattens the field errors into a single line, e.g.
// "request validation: channelId: required field missing".
func (e *ValidateError) Detail() string {
	var parts []string
	flatten("", e.Fields, &parts)
	if len(parts) == 0 {
		return e.Message
	}
	sort.Strings(parts)
	return e.Message + ": " + strings.Join(parts, "; ")
}

func flatten(prefix string, fields map[string]interface{}, parts *[]string) {
	for name, v := range fields {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		switch v := v.(type) {
		case map[string]interface{}:
			flatten(key, v, parts)
		default:
			*parts = append(*parts, fmt.Sprintf("%s: %v", key, v))
		}
	}
}
