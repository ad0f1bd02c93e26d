package ports

import (
	"context"
	"errors"
	"time"

	"wallet-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories_mock.go -package=mocks

// ErrVersionConflict is returned by CompareAndSwapBalance when the wallet
// version no longer matches the one the caller observed. The caller must
// re-read and recompute; this is the sole ordering guarantee on balances.
var ErrVersionConflict = errors.New("wallet version conflict")

// ErrDuplicateReference is returned by TransactionRepository.Create when a
// transaction already holds the reference. The caller re-fetches by reference
// and replays the recorded outcome instead of surfacing an internal error.
var ErrDuplicateReference = errors.New("duplicate transaction reference")

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside a unit of work.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetByUserIDTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error)
	// CompareAndSwapBalance updates the encrypted balance only if the stored
	// version equals expectedVersion, incrementing the version by 1.
	// Returns ErrVersionConflict if another mutation intervened.
	CompareAndSwapBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, expectedVersion int64, encryptedBalance string, by domain.Actor) error
	UpdateRiskScore(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, score int) error
}

// TransactionRepository defines persistence operations for the immutable
// transaction audit trail plus the read-only history queries the fraud
// assessor consumes.
type TransactionRepository interface {
	// Create inserts an immutable transaction row. Returns
	// ErrDuplicateReference when the unique reference already exists.
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	// Finalize moves a pending transaction to COMPLETED with its balance pair.
	Finalize(ctx context.Context, tx pgx.Tx, id uuid.UUID, previousBalance, newBalance int64, processedAt time.Time) error
	MarkFailed(ctx context.Context, tx pgx.Tx, id uuid.UUID, processedAt time.Time) error

	// Fraud history reads (completed/failed transactions only, never mutating).
	CountRecentByKind(ctx context.Context, userID uuid.UUID, kind domain.TransactionKind, since time.Time) (int, error)
	CountRecentFailed(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	RecentCompletedAmounts(ctx context.Context, userID uuid.UUID, limit int) ([]int64, error)
	DeviceSeen(ctx context.Context, userID uuid.UUID, fingerprint string) (bool, error)
	OriginSeen(ctx context.Context, userID uuid.UUID, origin string) (bool, error)
	CompletedReferenceExists(ctx context.Context, userID uuid.UUID, reference string) (bool, error)
}

// ChallengeRepository defines persistence operations for OTP challenges.
// MarkUsed and IncrementAttempts are single-row atomic updates: a racing
// second verifier observes used=true or the incremented attempt count.
type ChallengeRepository interface {
	Create(ctx context.Context, tx pgx.Tx, challenge *domain.OTPChallenge) error
	// GetActive returns the unique non-used challenge for (user, purpose),
	// or nil if none exists.
	GetActive(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose) (*domain.OTPChallenge, error)
	// InvalidateActive marks any non-used challenge for (user, purpose) as used.
	InvalidateActive(ctx context.Context, tx pgx.Tx, userID uuid.UUID, purpose domain.ChallengePurpose) error
	// MarkUsed flips used=false to true and resets attempts. Returns false if
	// the challenge was already used (a concurrent verify won the race).
	MarkUsed(ctx context.Context, id uuid.UUID) (bool, error)
	// IncrementAttempts atomically bumps the attempt counter and returns the
	// new value.
	IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error)
	Lock(ctx context.Context, id uuid.UUID, until time.Time) error
}

// IdempotencyRepository defines persistence for idempotency logs (DB layer).
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// IncidentRepository defines persistence for fraud incidents.
type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.FraudIncident) error
}

// DBTransactor provides the multi-record unit of work: balance update and
// transaction finalization commit or roll back together.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
