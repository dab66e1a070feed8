package domain

import "errors"

var (
	ErrEmptyWishID    = errors.New("wish id must not be empty")
	ErrEmptySessionID = errors.New("session id must not be empty")
	ErrInvalidUserID  = errors.New("user id must be a positive integer")
	ErrEmptyContent   = errors.New("wish content must not be empty")
	ErrContentTooLong = errors.New("wish content exceeds maximum length")
	ErrNegativeCount  = errors.New("support count must not be negative")
	ErrCountUnderflow = errors.New("support count cannot be decremented below zero")
	ErrNoIdentity     = errors.New("an identity is required")
)

// SelfSupportCode is the machine-readable code returned when an author
// tries to support their own wish.
const SelfSupportCode = "SELF_SUPPORT_NOT_ALLOWED"
