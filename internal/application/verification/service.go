package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/reservations-api/internal/domain"
)

// Store is the per-phone verification state store. Implementations must make
// BeginVerification atomic with respect to the cooldown check and return
// domain.ErrRateLimited while the cooldown is running.
type Store interface {
	BeginVerification(ctx context.Context, v *domain.PhoneVerification, ttl time.Duration) error
	Get(ctx context.Context, phoneNumber string) (*domain.PhoneVerification, error)
	MarkVerified(ctx context.Context, phoneNumber string, verifiedUntil int64, ttl time.Duration) error
}

// Notifier dispatches one-time codes to the customer.
type Notifier interface {
	SendCode(ctx context.Context, to, code string) error
}

type Service interface {
	RequestCode(ctx context.Context, phoneNumber string) error
	CheckCode(ctx context.Context, phoneNumber, code string) error
}

type service struct {
	store        Store
	notifier     Notifier
	codeTTL      time.Duration
	sendCooldown time.Duration
	verifiedTTL  time.Duration
	now          func() time.Time
}

func NewService(store Store, notifier Notifier, codeTTL, sendCooldown, verifiedTTL time.Duration) Service {
	return &service{
		store:        store,
		notifier:     notifier,
		codeTTL:      codeTTL,
		sendCooldown: sendCooldown,
		verifiedTTL:  verifiedTTL,
		now:          time.Now,
	}
}

// RequestCode issues a fresh 6-digit code for the phone, overwriting any
// previous one, and dispatches it. Refused while the send cooldown from the
// previous issue is still running.
func (s *service) RequestCode(ctx context.Context, phoneNumber string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	now := s.now()
	v := &domain.PhoneVerification{
		Phone:         phoneNumber,
		State:         domain.VerificationPending,
		Code:          code,
		CodeExpiresAt: now.Add(s.codeTTL).Unix(),
		ResendAt:      now.Add(s.sendCooldown).Unix(),
	}
	if err := s.store.BeginVerification(ctx, v, s.codeTTL); err != nil {
		return err
	}
	if err := s.notifier.SendCode(ctx, phoneNumber, code); err != nil {
		slog.Error("failed to dispatch verification code", "phone", phoneNumber, "err", err)
		return fmt.Errorf("could not send verification code: %w", domain.ErrUpstream)
	}
	return nil
}

// CheckCode validates a submitted code against the stored one. Codes are
// single-use: a correct code is consumed and the phone is marked verified
// for the verified-window TTL.
func (s *service) CheckCode(ctx context.Context, phoneNumber, code string) error {
	v, err := s.store.Get(ctx, phoneNumber)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("code expired or never issued: %w", domain.ErrCodeNotFound)
	}
	if err != nil {
		return err
	}
	if v.State != domain.VerificationPending || v.CodeExpiresAt < s.now().Unix() {
		return fmt.Errorf("code expired or never issued: %w", domain.ErrCodeNotFound)
	}
	if v.Code != code {
		return fmt.Errorf("incorrect code: %w", domain.ErrCodeMismatch)
	}
	return s.store.MarkVerified(ctx, phoneNumber, s.now().Add(s.verifiedTTL).Unix(), s.verifiedTTL)
}

// generateCode returns a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
