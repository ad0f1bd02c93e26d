package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ChallengeRepo implements ports.ChallengeRepository. The verify-path updates
// are single-row atomic statements: a racing second verifier observes
// used=true or the incremented attempt count, never a second success.
type ChallengeRepo struct {
	pool Pool
}

// NewChallengeRepo creates a new ChallengeRepo.
func NewChallengeRepo(pool Pool) *ChallengeRepo {
	return &ChallengeRepo{pool: pool}
}

const challengeColumns = `id, user_id, purpose, code_hash, linked_reference, expires_at,
		attempts, max_attempts, used, locked, locked_until, created_at, updated_at`

// Create inserts a challenge within a unit of work.
func (r *ChallengeRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.OTPChallenge) error {
	query := `INSERT INTO otp_challenges (id, user_id, purpose, code_hash, linked_reference, expires_at,
		attempts, max_attempts, used, locked, locked_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := tx.Exec(ctx, query,
		c.ID, c.UserID, c.Purpose, c.CodeHash, c.LinkedReference, c.ExpiresAt,
		c.Attempts, c.MaxAttempts, c.Used, c.Locked, c.LockedUntil, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert challenge: %w", err)
	}
	return nil
}

// GetActive fetches the unique non-used challenge for (user, purpose).
func (r *ChallengeRepo) GetActive(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose) (*domain.OTPChallenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM otp_challenges
		WHERE user_id = $1 AND purpose = $2 AND used = FALSE
		ORDER BY created_at DESC LIMIT 1`

	c := &domain.OTPChallenge{}
	err := r.pool.QueryRow(ctx, query, userID, purpose).Scan(
		&c.ID, &c.UserID, &c.Purpose, &c.CodeHash, &c.LinkedReference, &c.ExpiresAt,
		&c.Attempts, &c.MaxAttempts, &c.Used, &c.Locked, &c.LockedUntil, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active challenge: %w", err)
	}
	return c, nil
}

// InvalidateActive marks any non-used challenge for (user, purpose) as used,
// enforcing at most one active challenge per purpose.
func (r *ChallengeRepo) InvalidateActive(ctx context.Context, tx pgx.Tx, userID uuid.UUID, purpose domain.ChallengePurpose) error {
	query := `UPDATE otp_challenges SET used = TRUE, updated_at = NOW()
		WHERE user_id = $1 AND purpose = $2 AND used = FALSE`

	if _, err := tx.Exec(ctx, query, userID, purpose); err != nil {
		return fmt.Errorf("invalidate active challenges: %w", err)
	}
	return nil
}

// MarkUsed flips used=false to true and resets attempts. Returns false if the
// challenge was already used.
func (r *ChallengeRepo) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE otp_challenges SET used = TRUE, attempts = 0, updated_at = NOW()
		WHERE id = $1 AND used = FALSE`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark challenge used: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementAttempts atomically bumps the attempt counter and returns the new
// value.
func (r *ChallengeRepo) IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	query := `UPDATE otp_challenges SET attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1 RETURNING attempts`

	var attempts int
	if err := r.pool.QueryRow(ctx, query, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("increment challenge attempts: %w", err)
	}
	return attempts, nil
}

// Lock marks the challenge locked until the given instant.
func (r *ChallengeRepo) Lock(ctx context.Context, id uuid.UUID, until time.Time) error {
	query := `UPDATE otp_challenges SET locked = TRUE, locked_until = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, until, id)
	if err != nil {
		return fmt.Errorf("lock challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("challenge not found: %s", id)
	}
	return nil
}
