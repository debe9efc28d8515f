package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/reservations-api/internal/domain"
	"github.com/reservations-api/internal/pkg/id"
)

// Restaurant hours: Tuesday-Sunday, 11:00-22:00 inclusive, closed on Mondays.
const (
	openHour  = 11
	closeHour = 22
	closedDay = time.Monday
)

// Store is the durable reservation record store.
type Store interface {
	Put(ctx context.Context, r *domain.Reservation) error
	ListActiveFrom(ctx context.Context, phoneNumber string, from time.Time) ([]domain.Reservation, error)
	FindActiveOnDay(ctx context.Context, phoneNumber string, dayStart, dayEnd time.Time) (*domain.Reservation, error)
	Cancel(ctx context.Context, reservationID, phoneNumber string) (*domain.Reservation, error)
}

// LockStore is the per-phone-per-day uniqueness backstop. Acquire must return
// domain.ErrDuplicateBooking when the day is already locked.
type LockStore interface {
	Acquire(ctx context.Context, l *domain.ReservationLock) error
	Release(ctx context.Context, lockID string) error
}

// VerificationReader exposes the verified-phone state the admission check needs.
type VerificationReader interface {
	Get(ctx context.Context, phoneNumber string) (*domain.PhoneVerification, error)
	Clear(ctx context.Context, phoneNumber string) error
}

// Notifier dispatches reservation confirmations.
type Notifier interface {
	SendConfirmation(ctx context.Context, to, name string, reservationTime time.Time) error
}

type Service interface {
	Create(ctx context.Context, req domain.CreateReservationRequest) (*domain.Reservation, error)
	ListByPhone(ctx context.Context, phoneNumber string) ([]domain.Reservation, error)
	Cancel(ctx context.Context, reservationID, phoneNumber string) error
}

type service struct {
	reservations  Store
	locks         LockStore
	verifications VerificationReader
	notifier      Notifier
	tz            *time.Location
	now           func() time.Time
}

func NewService(reservations Store, locks LockStore, verifications VerificationReader, notifier Notifier, tz *time.Location) Service {
	return &service{
		reservations:  reservations,
		locks:         locks,
		verifications: verifications,
		notifier:      notifier,
		tz:            tz,
		now:           time.Now,
	}
}

// Create admits a reservation for a verified phone. The admission checks run
// in a fixed order: verified marker, time validity, business hours, duplicate
// day. The confirmation message is best-effort and never rolls the
// reservation back; the verified marker is consumed at the end.
func (s *service) Create(ctx context.Context, req domain.CreateReservationRequest) (*domain.Reservation, error) {
	now := s.now()

	v, err := s.verifications.Get(ctx, req.Phone)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if v == nil || v.State != domain.VerificationVerified || v.VerifiedUntil < now.Unix() {
		return nil, fmt.Errorf("phone number not verified: %w", domain.ErrUnverified)
	}

	resTime, err := time.Parse(time.RFC3339, req.ReservationTime)
	if err != nil {
		return nil, fmt.Errorf("unparseable reservation time: %w", domain.ErrInvalidInput)
	}
	if !resTime.After(now) {
		return nil, fmt.Errorf("reservation time must be in the future: %w", domain.ErrInvalidInput)
	}

	local := resTime.In(s.tz)
	if local.Weekday() == closedDay || local.Hour() < openHour || local.Hour() > closeHour {
		return nil, fmt.Errorf("reservations are available Tuesday-Sunday between 11:00 and 22:00: %w", domain.ErrOutsideHours)
	}

	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.tz)
	dayEnd := dayStart.Add(24*time.Hour - time.Second)
	existing, err := s.reservations.FindActiveOnDay(ctx, req.Phone, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("a reservation already exists for this date: %w", domain.ErrDuplicateBooking)
	}

	res := &domain.Reservation{
		ReservationID:   id.New(),
		Name:            strings.TrimSpace(req.Name),
		Phone:           req.Phone,
		PartySize:       req.PartySize,
		ReservationTime: resTime.UTC(),
		Status:          domain.StatusConfirmed,
		Verified:        true,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		CreatedAt:       now.UTC(),
	}

	lock := &domain.ReservationLock{
		LockID:        lockID(req.Phone, dayStart),
		ReservationID: res.ReservationID,
		// keep the lock a day past the reservation day, TTL reaps it
		ExpiresAt: dayStart.Add(48 * time.Hour).Unix(),
	}
	if err := s.locks.Acquire(ctx, lock); err != nil {
		return nil, err
	}
	if err := s.reservations.Put(ctx, res); err != nil {
		if rerr := s.locks.Release(ctx, lock.LockID); rerr != nil {
			slog.Warn("failed to release day lock after put failure", "lock_id", lock.LockID, "err", rerr)
		}
		return nil, err
	}

	if err := s.notifier.SendConfirmation(ctx, req.Phone, res.Name, resTime); err != nil {
		slog.Warn("confirmation message failed", "phone", req.Phone, "reservation_id", res.ReservationID, "err", err)
	}
	if err := s.verifications.Clear(ctx, req.Phone); err != nil {
		slog.Warn("failed to clear verified marker", "phone", req.Phone, "err", err)
	}
	return res, nil
}

// ListByPhone returns the phone's non-cancelled, future reservations in
// ascending time order.
func (s *service) ListByPhone(ctx context.Context, phoneNumber string) ([]domain.Reservation, error) {
	return s.reservations.ListActiveFrom(ctx, phoneNumber, s.now())
}

// Cancel flips an owned, active reservation to cancelled and frees its day
// lock so the phone can book that day again.
func (s *service) Cancel(ctx context.Context, reservationID, phoneNumber string) error {
	res, err := s.reservations.Cancel(ctx, reservationID, phoneNumber)
	if err != nil {
		return err
	}
	local := res.ReservationTime.In(s.tz)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.tz)
	if err := s.locks.Release(ctx, lockID(phoneNumber, dayStart)); err != nil {
		slog.Warn("failed to release day lock on cancel", "reservation_id", reservationID, "err", err)
	}
	return nil
}

func lockID(phoneNumber string, dayStart time.Time) string {
	return phoneNumber + "#" + dayStart.Format("2006-01-02")
}
