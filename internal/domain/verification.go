package domain

// Verification states for a phone number. An absent record means idle.
const (
	VerificationPending  = "code-pending"
	VerificationVerified = "verified"
)

// PhoneVerification is the per-phone verification state record.
// It lives in Redis as a single hash so the cooldown check and the state
// write cannot interleave between two concurrent requests for the same
// phone. All timestamps are Unix seconds; the key TTL garbage-collects
// records for phones that never finish the flow.
type PhoneVerification struct {
	Phone         string
	State         string
	Code          string
	CodeExpiresAt int64 // code is rejected after this
	ResendAt      int64 // new code issuance is refused before this
	VerifiedUntil int64 // verified window ends at this
}
