package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reservations-api/internal/domain"
)

const keyPrefix = "verification:"

// beginScript refuses a new code while the cooldown is active, otherwise
// replaces the whole record with a fresh code-pending state. Running the
// check and the write in one script keeps two concurrent requests for the
// same phone from both issuing codes.
var beginScript = redis.NewScript(`
	local resend_at = redis.call('HGET', KEYS[1], 'resend_at')
	if resend_at and tonumber(ARGV[1]) < tonumber(resend_at) then
		return 0
	end
	redis.call('DEL', KEYS[1])
	redis.call('HSET', KEYS[1],
		'state', ARGV[2],
		'code', ARGV[3],
		'code_expires_at', ARGV[4],
		'resend_at', ARGV[5])
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[6]))
	return 1
`)

// markVerifiedScript promotes a code-pending record to verified, dropping the
// consumed code. Returns 0 when the record was consumed or expired in between.
var markVerifiedScript = redis.NewScript(`
	if redis.call('HGET', KEYS[1], 'state') ~= ARGV[1] then
		return 0
	end
	redis.call('DEL', KEYS[1])
	redis.call('HSET', KEYS[1], 'state', ARGV[2], 'verified_until', ARGV[3])
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[4]))
	return 1
`)

// VerificationStore keeps one Redis hash per phone holding the whole
// verification state machine. State transitions run as Lua scripts so they
// are atomic; the key TTL garbage-collects abandoned records.
type VerificationStore struct {
	client *redis.Client
}

func NewVerificationStore(client *redis.Client) *VerificationStore {
	return &VerificationStore{client: client}
}

func key(phoneNumber string) string {
	return keyPrefix + phoneNumber
}

// BeginVerification writes a fresh code-pending record unless the previous
// record's cooldown is still running, in which case it returns ErrRateLimited.
func (s *VerificationStore) BeginVerification(ctx context.Context, v *domain.PhoneVerification, ttl time.Duration) error {
	ok, err := beginScript.Run(ctx, s.client, []string{key(v.Phone)},
		time.Now().Unix(),
		v.State,
		v.Code,
		v.CodeExpiresAt,
		v.ResendAt,
		int(ttl/time.Second),
	).Int()
	if err != nil {
		return fmt.Errorf("begin verification: %w", err)
	}
	if ok == 0 {
		return fmt.Errorf("a code was sent recently, wait before requesting another: %w", domain.ErrRateLimited)
	}
	return nil
}

func (s *VerificationStore) Get(ctx context.Context, phoneNumber string) (*domain.PhoneVerification, error) {
	m, err := s.client.HGetAll(ctx, key(phoneNumber)).Result()
	if err != nil {
		return nil, fmt.Errorf("get verification: %w", err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("no verification state for phone: %w", domain.ErrNotFound)
	}
	v := &domain.PhoneVerification{
		Phone: phoneNumber,
		State: m["state"],
		Code:  m["code"],
	}
	v.CodeExpiresAt, _ = strconv.ParseInt(m["code_expires_at"], 10, 64)
	v.ResendAt, _ = strconv.ParseInt(m["resend_at"], 10, 64)
	v.VerifiedUntil, _ = strconv.ParseInt(m["verified_until"], 10, 64)
	return v, nil
}

// MarkVerified consumes a pending code and opens the verified window.
// Returns ErrCodeNotFound when no code-pending record exists anymore.
func (s *VerificationStore) MarkVerified(ctx context.Context, phoneNumber string, verifiedUntil int64, ttl time.Duration) error {
	ok, err := markVerifiedScript.Run(ctx, s.client, []string{key(phoneNumber)},
		domain.VerificationPending,
		domain.VerificationVerified,
		verifiedUntil,
		int(ttl/time.Second),
	).Int()
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if ok == 0 {
		return fmt.Errorf("code already consumed or expired: %w", domain.ErrCodeNotFound)
	}
	return nil
}

// Clear drops the verification record, ending the verified window.
func (s *VerificationStore) Clear(ctx context.Context, phoneNumber string) error {
	return s.client.Del(ctx, key(phoneNumber)).Err()
}
