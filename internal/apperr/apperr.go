package apperr

import (
	"errors"
	"net/http"
)

// Error is the one application error shape every handler speaks. The HTTP
// layer translates it into the wire envelope in exactly one place.
type Error struct {
	Code    string
	Status  int
	Message string
	Details any
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(message string) *Error {
	if message == "" {
		message = "Validation error."
	}
	return &Error{Code: "VALIDATION_ERROR", Status: http.StatusBadRequest, Message: message}
}

func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found."
	}
	return &Error{Code: "NOT_FOUND", Status: http.StatusNotFound, Message: message}
}

func Authentication(message string) *Error {
	if message == "" {
		message = "Authentication failed."
	}
	return &Error{Code: "AUTHENTICATION_ERROR", Status: http.StatusUnauthorized, Message: message}
}

func Duplicate(message string) *Error {
	if message == "" {
		message = "Resource already exists."
	}
	// the original contract uses 400 here, not 409
	return &Error{Code: "DUPLICATE_ERROR", Status: http.StatusBadRequest, Message: message}
}

func Application(message string) *Error {
	if message == "" {
		message = "An application error occurred."
	}
	return &Error{Code: "APPLICATION_ERROR", Status: http.StatusBadRequest, Message: message}
}

func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// From unwraps err into a typed *Error, or reports false for anything
// unclassified (which the HTTP layer turns into a logged 500).
func From(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// CodeForStatus maps framework-level failures that never became typed
// errors onto envelope codes.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusInternalServerError:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
