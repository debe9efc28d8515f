package http

import (
	"context"
	"time"

	"github.com/reservations-api/internal/infrastructure/dynamo"
	"github.com/reservations-api/internal/infrastructure/redisstore"
)

// Notifier is the outbound messaging collaborator. Both the WhatsApp client
// and the SNS SMS fallback satisfy it.
type Notifier interface {
	SendCode(ctx context.Context, to, code string) error
	SendConfirmation(ctx context.Context, to, name string, reservationTime time.Time) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	ReservationRepo *dynamo.ReservationRepo
	LockRepo        *dynamo.LockRepo
	Verifications   *redisstore.VerificationStore
	Notifier        Notifier
}
