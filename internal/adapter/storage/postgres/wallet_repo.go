package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-core/internal/core/domain"
	"wallet-core/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

const walletColumns = `id, user_id, encrypted_balance, version, status, fraud_risk_score, last_updated_by, created_at, updated_at`

// Create inserts a new wallet into the database.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, user_id, encrypted_balance, version, status, fraud_risk_score, last_updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.UserID, w.EncryptedBalance, w.Version, w.Status,
		w.FraudRiskScore, w.LastUpdatedBy, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByUserID fetches a wallet by its owner (non-locking read).
func (r *WalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	return scanWallet(r.pool.QueryRow(ctx, query, userID))
}

// GetByUserIDTx fetches a wallet inside a unit of work. The read is plain:
// ordering is guaranteed by the version CAS, not by row locks.
func (r *WalletRepo) GetByUserIDTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	return scanWallet(tx.QueryRow(ctx, query, userID))
}

// CompareAndSwapBalance updates the encrypted balance only if version still
// matches, incrementing it by 1. Zero rows affected means another mutation
// intervened: ports.ErrVersionConflict.
func (r *WalletRepo) CompareAndSwapBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, expectedVersion int64, encryptedBalance string, by domain.Actor) error {
	query := `UPDATE wallets
		SET encrypted_balance = $1, version = version + 1, last_updated_by = $2, updated_at = NOW()
		WHERE id = $3 AND version = $4`

	tag, err := tx.Exec(ctx, query, encryptedBalance, by, walletID, expectedVersion)
	if err != nil {
		return fmt.Errorf("cas wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrVersionConflict
	}
	return nil
}

// UpdateRiskScore updates the wallet's rolling fraud indicator.
func (r *WalletRepo) UpdateRiskScore(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, score int) error {
	query := `UPDATE wallets SET fraud_risk_score = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, score, walletID)
	if err != nil {
		return fmt.Errorf("update wallet risk score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(
		&w.ID, &w.UserID, &w.EncryptedBalance, &w.Version, &w.Status,
		&w.FraudRiskScore, &w.LastUpdatedBy, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}
