package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChallengePurpose scopes an OTP challenge to the operation it gates.
type ChallengePurpose string

const (
	PurposeFunding         ChallengePurpose = "FUNDING"
	PurposeDeduction       ChallengePurpose = "DEDUCTION"
	PurposeSensitiveAction ChallengePurpose = "SENSITIVE_ACTION"
)

// ParseChallengePurpose rejects unrecognized purpose strings at the boundary.
func ParseChallengePurpose(s string) (ChallengePurpose, bool) {
	switch ChallengePurpose(s) {
	case PurposeFunding, PurposeDeduction, PurposeSensitiveAction:
		return ChallengePurpose(s), true
	}
	return "", false
}

// MaxChallengeAttempts is the fixed verification attempt cap per challenge.
const MaxChallengeAttempts = 3

// OTPChallenge is a one-time passcode gating a sensitive operation. Only the
// salted hash of the code is persisted; the plain code is returned once at
// issuance for delivery and never stored. At most one non-used, non-expired
// challenge exists per (user, purpose) pair: issuing a new one invalidates any
// prior unused challenge for that purpose.
type OTPChallenge struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	Purpose         ChallengePurpose `json:"purpose"`
	CodeHash        string           `json:"-"`
	LinkedReference string           `json:"linked_reference"` // Transaction reference this challenge gates
	ExpiresAt       time.Time        `json:"expires_at"`
	Attempts        int              `json:"attempts"`
	MaxAttempts     int              `json:"max_attempts"`
	Used            bool             `json:"used"`
	Locked          bool             `json:"locked"`
	LockedUntil     *time.Time       `json:"locked_until,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// IsExpired reports whether the challenge's TTL has elapsed.
func (c *OTPChallenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// LockActive reports whether a lockout is still in force at now.
func (c *OTPChallenge) LockActive(now time.Time) bool {
	return c.Locked && c.LockedUntil != nil && now.Before(*c.LockedUntil)
}

// AttemptsExhausted reports whether the attempt cap has been reached.
func (c *OTPChallenge) AttemptsExhausted() bool {
	return c.Attempts >= c.MaxAttempts
}
