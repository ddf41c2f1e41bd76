package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// AppError is an error that carries the HTTP status it should be answered with.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func ErrBadRequest(msg string) error {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

func ErrForbidden(msg string) error {
	return &AppError{Status: http.StatusForbidden, Message: msg}
}

func ErrNotFound(msg string) error {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

func ErrConflict(msg string) error {
	return &AppError{Status: http.StatusConflict, Message: msg}
}

// ErrUpstream reports a database or provider failure. The message is sent to the client.
func ErrUpstream(msg string) error {
	return &AppError{Status: http.StatusInternalServerError, Message: msg}
}

// ErrBadGateway reports a third-party provider that rejected or failed a call.
func ErrBadGateway(msg string) error {
	return &AppError{Status: http.StatusBadGateway, Message: msg}
}

// ErrMissingFields names every missing required field in order.
func ErrMissingFields(fields ...string) error {
	return ErrBadRequest("必須項目が不足しています: " + strings.Join(fields, ", "))
}

// AsAppError unwraps err into an *AppError when it is one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsUniqueViolation reports duplicate-key errors from postgres, mysql and sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicated key")
}

// Wrap annotates err with msg, keeping it unwrappable.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// DBError maps duplicate-key errors to 409 with conflictMsg; other errors pass through.
func DBError(err error, conflictMsg string) error {
	if IsUniqueViolation(err) {
		return ErrConflict(conflictMsg)
	}
	return err
}
