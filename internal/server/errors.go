// Package server provides the jobconnect HTTP REST API.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/jobconnect/internal/db"
	"github.com/jonathan/jobconnect/internal/fetch"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrUnauthorized indicates a missing or stale session.
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "Unauthorized"
}

// ErrForbidden indicates the caller may not perform the action.
type ErrForbidden struct {
	Action string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Action)
}

// ErrNotFound indicates the addressed resource does not exist.
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ErrConflict indicates the request clashes with existing state.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists  *ErrEmailAlreadyExists
		invalidCreds *ErrInvalidCredentials
		mismatch     *ErrPasswordMismatch
		unauthorized *ErrUnauthorized
		forbidden    *ErrForbidden
		notFound     *ErrNotFound
		conflict     *ErrConflict
		validation   *ErrValidation
		dbNotFound   *db.NotFoundError
		dbConflict   *db.ConflictError
		invalidURL   *fetch.InvalidURLError
		fetchErr     *fetch.Error
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &invalidURL):
		return http.StatusBadRequest
	case errors.As(err, &invalidCreds), errors.As(err, &mismatch), errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound), errors.As(err, &dbNotFound):
		return http.StatusNotFound
	case errors.As(err, &emailExists), errors.As(err, &conflict), errors.As(err, &dbConflict):
		return http.StatusConflict
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal error detail from clients.
func publicMessage(err error, status int) string {
	switch status {
	case http.StatusInternalServerError:
		return "Internal server error"
	case http.StatusBadGateway:
		return "Failed to fetch job posting"
	default:
		return err.Error()
	}
}
