package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Domain error kinds shared by the booking, review and payment services.
type ErrorKind int

const (
	ValidationError ErrorKind = iota
	AuthorizationError
	NotFoundError
	ConflictError
	InvalidStateError
	GatewayError
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// StatusCode maps an error kind to its HTTP response status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case ValidationError:
		return http.StatusBadRequest
	case AuthorizationError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	case InvalidStateError:
		return http.StatusUnprocessableEntity
	case GatewayError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError sends a JSON error body. Non-AppError values fall back to a
// generic 500 so internal details never leak to the caller.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = &AppError{Kind: -1, Message: "Internal server error"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	json.NewEncoder(w).Encode(map[string]string{
		"error": appErr.Message,
	})
}

// IsDuplicateKey reports whether a database error is a unique-constraint
// violation, for both postgres and sqlite-style wording.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
