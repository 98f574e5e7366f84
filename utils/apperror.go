// utils/apperror.go
package utils

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind discriminates rejected commands so the UI can render a specific
// message and callers can map to an HTTP status.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindUpstream   ErrorKind = "upstream"
)

// AppError is the discriminated error returned by every rejected command.
// Fields names the offending inputs (e.g. missing e-sign field ids).
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  []string
}

func (e *AppError) Error() string {
	if len(e.Fields) > 0 {
		return e.Message + ": " + strings.Join(e.Fields, ", ")
	}
	return e.Message
}

func Validationf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ValidationFields(message string, fields []string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFoundf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Upstreamf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindUpstream, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps an error kind to the status code controllers respond with.
func HTTPStatus(err error) int {
	if appErr, ok := err.(*AppError); ok {
		switch appErr.Kind {
		case KindValidation:
			return http.StatusBadRequest
		case KindNotFound:
			return http.StatusNotFound
		case KindConflict:
			return http.StatusConflict
		case KindUpstream:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}
