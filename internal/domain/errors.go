package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrRateLimited      = errors.New("rate limited")
	ErrCodeNotFound     = errors.New("verification code not found")
	ErrCodeMismatch     = errors.New("verification code mismatch")
	ErrUnverified       = errors.New("phone not verified")
	ErrNotFound         = errors.New("not found")
	ErrOutsideHours     = errors.New("outside business hours")
	ErrDuplicateBooking = errors.New("duplicate booking")
	ErrUpstream         = errors.New("messaging service unavailable")
)
