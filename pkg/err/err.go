package errprocess

import (
	"errors"
	"fmt"
	"net/http"

	"classifieds_service/pkg/logger"

	"go.uber.org/zap"
)

// Kind classify an error for the caller
type Kind string

const (
	// KindNotFound entity does not exist or is hidden from the caller
	KindNotFound Kind = "not_found"
	// KindForbidden caller is not allowed to do this
	KindForbidden Kind = "forbidden"
	// KindValidation request is malformed
	KindValidation Kind = "validation"
	// KindInternal store or transport failure
	KindInternal Kind = "internal"
)

// InternalMessage is the only text a client sees for internal failures
const InternalMessage = "something went wrong, please try again"

// AppError error with a kind, the operation that failed and the cause
type AppError struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// NotFound build a KindNotFound error
func NotFound(op, msg string) error {
	return &AppError{Kind: KindNotFound, Op: op, Message: msg}
}

// Forbidden build a KindForbidden error
func Forbidden(op, msg string) error {
	return &AppError{Kind: KindForbidden, Op: op, Message: msg}
}

// Validation build a KindValidation error
func Validation(op, msg string) error {
	return &AppError{Kind: KindValidation, Op: op, Message: msg}
}

// Internal log cause with the op and extra fields, then wrap it as KindInternal
func Internal(op string, cause error, fields ...zap.Field) error {
	logger.Log.Error("internal error", append([]zap.Field{zap.String("op", op), zap.Error(cause)}, fields...)...)
	return &AppError{Kind: KindInternal, Op: op, Message: InternalMessage, Cause: cause}
}

// KindOf unknown errors count as internal
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusCode map err to an http status
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage text safe to return to a client
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return InternalMessage
}
