package rest

import (
	"errors"
	"strings"
)

// Request lifecycle errors. Domain failures (validation, not found) come from
// the domain package; anything else returned by the service is a storage error.
var (
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrBodyFinalized    = errors.New("request body already finalized")
	ErrBodyRead         = errors.New("read request body")
	ErrNoData           = errors.New("no data received")
	ErrInvalidJSON      = errors.New("invalid json")
	ErrInvalidID        = errors.New("invalid todo id")
	ErrRouteNotFound    = errors.New("route not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// MethodNotAllowedError carries the methods the matched path family accepts.
// It matches ErrMethodNotAllowed with errors.Is.
type MethodNotAllowedError struct {
	Method string
	Allow  []string
}

func (e *MethodNotAllowedError) Error() string {
	if len(e.Allow) == 0 {
		return "method not allowed: " + e.Method
	}
	return "method not allowed: " + e.Method + " (allow " + e.AllowHeader() + ")"
}

func (e *MethodNotAllowedError) Unwrap() error {
	return ErrMethodNotAllowed
}

// AllowHeader renders Allow as an HTTP header value.
func (e *MethodNotAllowedError) AllowHeader() string {
	return strings.Join(e.Allow, ", ")
}
