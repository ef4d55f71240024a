package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any ServerError with status 401 via errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// ServerError is a non-2xx response. Detail holds the backend's "detail"
// message when the body carried one.
type ServerError struct {
	Status    int
	Detail    string
	Method    string
	Path      string
	RequestID string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *ServerError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// HasDetail reports whether the backend supplied a detail message.
func (e *ServerError) HasDetail() bool {
	return e.Detail != ""
}

// NetworkError means the request was sent but no response arrived.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: no response from server: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RequestSetupError is a local fault: the request could not be built or the
// response could not be turned into the expected value. It is never retried.
type RequestSetupError struct {
	Method string
	Path   string
	Err    error
}

func (e *RequestSetupError) Error() string {
	return fmt.Sprintf("%s %s: request setup: %v", e.Method, e.Path, e.Err)
}

func (e *RequestSetupError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0 when err is not a
// ServerError.
func StatusOf(err error) int {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
