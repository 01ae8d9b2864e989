package apperrors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrAuthFailed     ErrorType = "AUTH_FAILED"
	ErrNotFound       ErrorType = "NOT_FOUND"
	ErrInvalidRequest ErrorType = "INVALID_REQUEST"
	ErrTransport      ErrorType = "TRANSPORT_ERROR"
	ErrInternal       ErrorType = "INTERNAL_ERROR"
)

// AppError is the standard error struct for the application
type AppError struct {
	Type       ErrorType `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		HTTPStatus: mapTypeToStatus(errType),
	}
}

func NewAuthFailed(msg string) *AppError {
	return New(ErrAuthFailed, msg, nil)
}

func NewNotFound(msg string) *AppError {
	return New(ErrNotFound, msg, nil)
}

func NewInvalidRequest(msg string) *AppError {
	return New(ErrInvalidRequest, msg, nil)
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

func mapTypeToStatus(t ErrorType) int {
	switch t {
	case ErrInvalidRequest:
		return http.StatusBadRequest
	case ErrAuthFailed:
		return http.StatusUnauthorized
	case ErrNotFound:
		return http.StatusNotFound
	case ErrTransport:
		// Transport errors are swallowed at the router; this mapping only
		// exists so a stray one still renders as a server-side failure.
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
