package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-core/internal/core/domain"
	"wallet-core/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, reference, user_id, kind, amount, previous_balance, new_balance,
		status, fraud_risk_score, fraud_flags, source, device_fingerprint, origin, items, created_at, processed_at`

// Create inserts a transaction record within a unit of work.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, reference, user_id, kind, amount, previous_balance, new_balance,
		status, fraud_risk_score, fraud_flags, source, device_fingerprint, origin, items, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.Reference, t.UserID, t.Kind, t.Amount, t.PreviousBalance, t.NewBalance,
		t.Status, t.FraudRiskScore, t.FraudFlags, t.Source, t.DeviceFingerprint, t.Origin,
		t.Items, t.CreatedAt, t.ProcessedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ports.ErrDuplicateReference
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByReference fetches a transaction by its canonical reference.
func (r *TransactionRepo) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1`

	t := &domain.Transaction{}
	err := r.pool.QueryRow(ctx, query, reference).Scan(
		&t.ID, &t.Reference, &t.UserID, &t.Kind, &t.Amount, &t.PreviousBalance, &t.NewBalance,
		&t.Status, &t.FraudRiskScore, &t.FraudFlags, &t.Source, &t.DeviceFingerprint, &t.Origin,
		&t.Items, &t.CreatedAt, &t.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by reference: %w", err)
	}
	return t, nil
}

// Finalize moves a pending transaction to COMPLETED with its balance pair.
// The caller runs this in the same unit of work as the balance mutation.
func (r *TransactionRepo) Finalize(ctx context.Context, tx pgx.Tx, id uuid.UUID, previousBalance, newBalance int64, processedAt time.Time) error {
	query := `UPDATE transactions
		SET status = $1, previous_balance = $2, new_balance = $3, processed_at = $4
		WHERE id = $5 AND status = $6`

	tag, err := tx.Exec(ctx, query,
		domain.TransactionStatusCompleted, previousBalance, newBalance, processedAt,
		id, domain.TransactionStatusPending,
	)
	if err != nil {
		return fmt.Errorf("finalize transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not pending: %s", id)
	}
	return nil
}

// MarkFailed moves a pending transaction to FAILED.
func (r *TransactionRepo) MarkFailed(ctx context.Context, tx pgx.Tx, id uuid.UUID, processedAt time.Time) error {
	query := `UPDATE transactions SET status = $1, processed_at = $2 WHERE id = $3 AND status = $4`

	tag, err := tx.Exec(ctx, query, domain.TransactionStatusFailed, processedAt, id, domain.TransactionStatusPending)
	if err != nil {
		return fmt.Errorf("mark transaction failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not pending: %s", id)
	}
	return nil
}

// --- Fraud history reads ---

// CountRecentByKind counts this user's transactions of one kind since the
// given instant, regardless of outcome.
func (r *TransactionRepo) CountRecentByKind(ctx context.Context, userID uuid.UUID, kind domain.TransactionKind, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND kind = $2 AND created_at >= $3`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID, kind, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count recent by kind: %w", err)
	}
	return count, nil
}

// CountRecentFailed counts this user's failed transactions since the given instant.
func (r *TransactionRepo) CountRecentFailed(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND status = $2 AND created_at >= $3`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID, domain.TransactionStatusFailed, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count recent failed: %w", err)
	}
	return count, nil
}

// RecentCompletedAmounts returns the user's most recent completed amounts,
// newest first, up to limit.
func (r *TransactionRepo) RecentCompletedAmounts(ctx context.Context, userID uuid.UUID, limit int) ([]int64, error) {
	query := `SELECT amount FROM transactions WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, userID, domain.TransactionStatusCompleted, limit)
	if err != nil {
		return nil, fmt.Errorf("recent completed amounts: %w", err)
	}
	defer rows.Close()

	var amounts []int64
	for rows.Next() {
		var amount int64
		if err := rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf("scan amount: %w", err)
		}
		amounts = append(amounts, amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate amounts: %w", err)
	}
	return amounts, nil
}

// DeviceSeen reports whether the fingerprint appears on any prior completed
// transaction for this user.
func (r *TransactionRepo) DeviceSeen(ctx context.Context, userID uuid.UUID, fingerprint string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE user_id = $1 AND device_fingerprint = $2 AND status = $3)`

	var seen bool
	if err := r.pool.QueryRow(ctx, query, userID, fingerprint, domain.TransactionStatusCompleted).Scan(&seen); err != nil {
		return false, fmt.Errorf("device seen: %w", err)
	}
	return seen, nil
}

// OriginSeen reports whether the origin address appears on any prior
// completed transaction for this user.
func (r *TransactionRepo) OriginSeen(ctx context.Context, userID uuid.UUID, origin string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE user_id = $1 AND origin = $2 AND status = $3)`

	var seen bool
	if err := r.pool.QueryRow(ctx, query, userID, origin, domain.TransactionStatusCompleted).Scan(&seen); err != nil {
		return false, fmt.Errorf("origin seen: %w", err)
	}
	return seen, nil
}

// CompletedReferenceExists reports whether a completed transaction already
// carries this reference for this user.
func (r *TransactionRepo) CompletedReferenceExists(ctx context.Context, userID uuid.UUID, reference string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE user_id = $1 AND reference = $2 AND status = $3)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, reference, domain.TransactionStatusCompleted).Scan(&exists); err != nil {
		return false, fmt.Errorf("completed reference exists: %w", err)
	}
	return exists, nil
}
