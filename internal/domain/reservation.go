package domain

import "time"

// Reservation statuses. A reservation is auto-confirmed on creation and
// can only move to cancelled, which is terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Reservation is the durable booking record. Records are never hard-deleted;
// cancellation flips the status. ReservationTime is stored as Unix seconds
// so the phone-index GSI can range-query it.
type Reservation struct {
	ReservationID   string    `json:"id" dynamodbav:"reservation_id"`
	Name            string    `json:"name" dynamodbav:"name"`
	Phone           string    `json:"phone" dynamodbav:"phone"`
	PartySize       int       `json:"party_size" dynamodbav:"party_size"`
	ReservationTime time.Time `json:"reservation_time" dynamodbav:"reservation_time,unixtime"`
	Status          string    `json:"status" dynamodbav:"status"`
	Verified        bool      `json:"verified" dynamodbav:"verified"`
	SpecialRequests string    `json:"special_requests,omitempty" dynamodbav:"special_requests"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Active reports whether the reservation still occupies its day slot.
func (r *Reservation) Active() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// ReservationLock is the uniqueness backstop for the one-active-reservation
// per phone per calendar day invariant. LockID is "<phone>#<YYYY-MM-DD>" in
// the restaurant's timezone. ExpiresAt is a DynamoDB TTL attribute so stale
// locks disappear once the day has passed.
type ReservationLock struct {
	LockID        string `dynamodbav:"lock_id"`
	ReservationID string `dynamodbav:"reservation_id"`
	ExpiresAt     int64  `dynamodbav:"expires_at"`
}

type RequestCodeRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

type VerifyCodeRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type CreateReservationRequest struct {
	Phone           string `json:"phone" validate:"required,e164"`
	Name            string `json:"name" validate:"required,min=2,max=50"`
	PartySize       int    `json:"party_size" validate:"required,min=1,max=20"`
	ReservationTime string `json:"reservation_time" validate:"required"` // RFC 3339
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=500"`
}

type CancelReservationRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}
