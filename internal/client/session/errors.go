package session

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/voicedesk/internal/client/api"
)

const (
	MsgLoginFailed        = "Login failed. Please check your credentials."
	MsgRegistrationFailed = "Registration failed. Please try again."
	MsgUsernameTaken      = "Username already exists. Please choose a different username."
)

var (
	ErrAlreadyAuthenticated = errors.New("already logged in")
	errMalformedLogin       = errors.New("login response carries no usable token or user")
)

// AuthError is a failed login or registration. Message is meant for the
// user; Err keeps the underlying cause.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

func loginFailure(err error) *AuthError {
	return &AuthError{Message: failureMessage(err, false), Err: err}
}

func registrationFailure(err error) *AuthError {
	return &AuthError{Message: failureMessage(err, true), Err: err}
}

func failureMessage(err error, registering bool) string {
	var se *api.ServerError
	if errors.As(err, &se) {
		if se.HasDetail() {
			return se.Detail
		}
		if registering && se.Status == http.StatusBadRequest {
			return MsgUsernameTaken
		}
	}
	if registering {
		return MsgRegistrationFailed
	}
	return MsgLoginFailed
}
