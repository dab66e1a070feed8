package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo carries a parsed error code and user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts storage-layer failures into user-facing codes.
// Sensitive details stay out of the message; the caller logs the raw error.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An unexpected error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. Unique constraint violations (Postgres 23505, SQLite "UNIQUE constraint failed")
	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(errStrLower)
	}

	// 3. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Referenced record does not exist",
		}
	}

	// 4. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// 5. Connectivity
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Storage is temporarily unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "An unexpected error occurred. Please try again later",
	}
}

// IsDuplicateKey reports whether the error is a unique constraint violation,
// across the Postgres and SQLite drivers.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed")
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	// One support per identity per wish
	if strings.Contains(errLower, "idx_wish_supporter") || strings.Contains(errLower, "wish_supports") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "You have already supported this wish",
		}
	}

	// One wish per identity
	if strings.Contains(errLower, "wishes") &&
		(strings.Contains(errLower, "user_id") || strings.Contains(errLower, "session_id")) {
		return ErrorInfo{
			Code:    WishAlreadyPosted,
			Message: "You have already submitted a wish",
		}
	}

	// Email uniqueness
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email is already in use",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "wish") {
		return "Wish not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}
	if strings.Contains(contextLower, "session") {
		return "Session not found"
	}

	return "Requested record not found"
}
