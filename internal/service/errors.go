package service

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("realtor not found")
	ErrEmailRequired    = errors.New("email is required")
	ErrReaderNil        = errors.New("reader is nil")
	ErrStorageDisabled  = errors.New("photo storage is not configured")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input fails presence checks.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "validation failed: " + strings.Join(names, ", ")
}
