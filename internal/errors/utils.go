package errors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// error categories for sanitisation
const (
	CategoryDatabase   = "database"
	CategoryNetwork    = "network"
	CategoryValidation = "validation"
	CategoryNotFound   = "not_found"
	CategoryTimeout    = "timeout"
	CategoryEmbedding  = "embedding"
	CategoryUnknown    = "unknown"
)

// wraps err with a kind and an operation name
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: kind, Op: op, Err: err}
}

func Transient(op string, err error) error {
	return New(KindTransient, op, err)
}

func Permanent(op string, err error) error {
	return New(KindPermanent, op, err)
}

func Resource(op string, err error) error {
	return New(KindResource, op, err)
}

// wraps a store error, classifying it from the driver error underneath
func Store(op string, err error) error {
	if err == nil {
		return nil
	}

	return New(KindOf(err), op, fmt.Errorf("%w: %w", ErrStore, err))
}

// wraps an embedding error, keeping the kind the embedder chose if it set one
func Embedding(op string, err error) error {
	if err == nil {
		return nil
	}

	kind := KindOf(err)
	if kind == KindUnknown {
		kind = KindResource
	}

	return New(kind, op, fmt.Errorf("%w: %w", ErrEmbedding, err))
}

// KindOf returns the outermost explicit Kind in err's chain, or classifies
// well-known driver and context errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	for next := err; next != nil; {
		var e *Error
		if !errors.As(next, &e) {
			break
		}

		if e.Kind != KindUnknown {
			return e.Kind
		}

		next = e.Err
	}

	switch {
	case errors.Is(err, ErrMalformedMessage), errors.Is(err, ErrSourceNotFound), errors.Is(err, ErrDimensionMismatch):
		return KindPermanent
	case errors.Is(err, ErrTransport):
		return KindTransient
	case errors.Is(err, context.DeadlineExceeded):
		return KindTransient
	case errors.Is(err, context.Canceled):
		return KindTransient
	case errors.Is(err, pgx.ErrNoRows):
		return KindPermanent
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return kindFromSQLState(pgErr.Code)
	}

	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return KindTransient
	}

	return KindUnknown
}

// maps SQLSTATE classes onto kinds
func kindFromSQLState(code string) Kind {
	if len(code) < 2 {
		return KindUnknown
	}

	switch code[:2] {
	case "08", "40", "57":
		// connection exception, transaction rollback, operator intervention
		return KindTransient
	case "53":
		return KindResource
	case "22", "23", "42":
		// data exception, integrity violation, syntax or undefined object
		return KindPermanent
	default:
		return KindUnknown
	}
}

func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}

func IsPermanent(err error) bool {
	return KindOf(err) == KindPermanent
}

// analyzes an error and returns its category and sanitized message
func classifyError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{CategoryUnknown, ""}
	}

	isProduction := os.Getenv("ENVIRONMENT") == "production"

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) || errors.Is(err, ErrStore) {
		return ErrorInfo{CategoryDatabase, ternary(isProduction, "database operation failed", err.Error())}
	}

	if errors.Is(err, ErrEmbedding) {
		return ErrorInfo{CategoryEmbedding, ternary(isProduction, "embedding service unavailable", err.Error())}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return ErrorInfo{CategoryNotFound, ternary(isProduction, "resource not found", err.Error())}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorInfo{CategoryTimeout, ternary(isProduction, "request timed out", err.Error())}
	}

	if errors.Is(err, context.Canceled) {
		return ErrorInfo{CategoryTimeout, ternary(isProduction, "request canceled", err.Error())}
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline") {
		return ErrorInfo{CategoryTimeout, ternary(isProduction, "request timed out", err.Error())}
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "dial") {
		return ErrorInfo{CategoryNetwork, ternary(isProduction, "connection error occurred", err.Error())}
	}

	if strings.Contains(errMsg, "validation") || strings.Contains(errMsg, "binding") ||
		strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "required") {
		return ErrorInfo{CategoryValidation, ternary(isProduction, "validation failed", err.Error())}
	}

	return ErrorInfo{CategoryUnknown, ternary(isProduction, "an error occurred", err.Error())}
}

func ternary(condition bool, trueVal, falseVal string) string {
	if condition {
		return trueVal
	}

	return falseVal
}
