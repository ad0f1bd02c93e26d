package ports

import (
	"context"
	"time"

	"wallet-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

// KeyProvider supplies the symmetric key used to encrypt wallet balances at
// rest. The core never hardcodes or derives this key itself.
type KeyProvider interface {
	Key() ([]byte, error) // 32 bytes for AES-256
}

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// CodeHasher hashes OTP codes with a per-user salt.
type CodeHasher interface {
	Hash(userID uuid.UUID, code string) (string, error)
	Verify(userID uuid.UUID, code string, hash string) bool
}

// NotificationSender delivers a plain OTP code out of band. Fire-and-forget
// from the core's perspective: delivery failure never rolls back issuance.
type NotificationSender interface {
	Send(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose, plainCode string) error
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IncidentRecorder persists fraud incidents asynchronously.
type IncidentRecorder interface {
	Record(ctx context.Context, incident *domain.FraudIncident)
}

// --- Service Ports (Business Logic) ---

// WalletLedger owns the encrypted balance and its compare-and-swap mutation
// primitive.
type WalletLedger interface {
	// GetBalance returns the decrypted balance and the wallet version the
	// caller must supply to Mutate. Creates the wallet lazily on first access.
	GetBalance(ctx context.Context, userID uuid.UUID) (amount int64, version int64, err error)
	// Get returns the wallet record plus its decrypted balance.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Wallet, int64, error)
	// Mutate applies a signed delta inside the given unit of work. Fails with
	// InsufficientFunds if balance+delta < 0 (computed from the currently read
	// balance) and with ConcurrencyConflict if the version check fails.
	Mutate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, expectedVersion int64, delta int64, by domain.Actor) (newBalance int64, newVersion int64, err error)
	// RecordRiskScore updates the wallet's rolling fraud indicator.
	RecordRiskScore(ctx context.Context, tx pgx.Tx, userID uuid.UUID, score int) error
}

// IssueResult is returned once per issuance; PlainCode is never persisted.
type IssueResult struct {
	PlainCode       string
	ChallengeID     uuid.UUID
	LinkedReference string
	ExpiresIn       time.Duration
	// DeliveryWarning is set when outbound delivery failed; the challenge is
	// still valid and the caller should offer a resend.
	DeliveryWarning bool
}

// VerifyOutcome enumerates the OTP verification state machine results.
type VerifyOutcome string

const (
	VerifySuccess  VerifyOutcome = "SUCCESS"
	VerifyNotFound VerifyOutcome = "NOT_FOUND"
	VerifyExpired  VerifyOutcome = "EXPIRED"
	VerifyInvalid  VerifyOutcome = "INVALID"
	VerifyLocked   VerifyOutcome = "LOCKED"
)

// VerifyResult carries the outcome plus its qualifier.
type VerifyResult struct {
	Outcome           VerifyOutcome
	LinkedReference   string
	RemainingAttempts int           // Meaningful for INVALID
	RetryAfter        time.Duration // Meaningful for LOCKED
}

// ChallengeService owns the OTP challenge lifecycle.
type ChallengeService interface {
	Issue(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose, linkedReference string) (*IssueResult, error)
	// Verify resolves the active challenge for (user, purpose) and checks it
	// gates linkedReference before any state is consumed: a code submitted
	// against the wrong reference is NOT_FOUND and burns nothing.
	Verify(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose, linkedReference, code string) (VerifyResult, error)
	// HasActive reports whether a still-verifiable challenge gates
	// linkedReference. A locked challenge counts as active until its lockout
	// elapses; an expired one does not.
	HasActive(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose, linkedReference string) (bool, error)
}

// FraudAssessor scores a transaction candidate against the user's recent
// history. Deterministic and read-only; never returns an error (internal
// failures substitute the fail-safe medium-risk result).
type FraudAssessor interface {
	Assess(ctx context.Context, candidate domain.TransactionCandidate) domain.RiskResult
}

// InitiateRequest holds validated input for initiating a transaction.
type InitiateRequest struct {
	UserID            uuid.UUID
	Amount            int64
	Reference         string // Optional caller-supplied idempotency key
	Source            string
	DeviceFingerprint string
	Origin            string
	Items             *string // Opaque purchase detail, deductions only
}

// InitiateResult is the caller-visible outcome of initiate.
type InitiateResult struct {
	Reference            string        `json:"reference"`
	OTPRequired          bool          `json:"otp_required"`
	ExpiresIn            time.Duration `json:"expires_in,omitempty"`
	CompletedImmediately bool          `json:"completed_immediately"`
	NewBalance           *int64        `json:"new_balance,omitempty"`
	DeliveryWarning      bool          `json:"delivery_warning,omitempty"`
}

// ConfirmResult is the caller-visible outcome of confirm.
type ConfirmResult struct {
	Reference  string                   `json:"reference"`
	Status     domain.TransactionStatus `json:"status"`
	NewBalance *int64                   `json:"new_balance,omitempty"`
}

// BalanceResult is the caller-visible balance read.
type BalanceResult struct {
	Amount int64               `json:"amount"`
	Status domain.WalletStatus `json:"status"`
}

// SettlementRequest is a verified external settlement fact (e.g. a payment
// gateway event), treated like any other funding candidate.
type SettlementRequest struct {
	UserID    uuid.UUID
	Reference string
	Amount    int64
	Verified  bool
	Source    string
}

// TransactionCoordinator orchestrates ledger, challenge, and fraud assessment.
type TransactionCoordinator interface {
	InitiateFunding(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	InitiateDeduction(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	Confirm(ctx context.Context, userID uuid.UUID, reference string, code string) (*ConfirmResult, error)
	RecordSettlement(ctx context.Context, req SettlementRequest) (*ConfirmResult, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceResult, error)
}
