package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"wallet-core/internal/core/domain"
	"wallet-core/internal/core/ports"
	"wallet-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// LedgerService implements ports.WalletLedger. It is the only place wallet
// balances are decrypted, and the only mutation path is the version-checked
// compare-and-swap.
type LedgerService struct {
	walletRepo ports.WalletRepository
	encSvc     ports.EncryptionService
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(walletRepo ports.WalletRepository, encSvc ports.EncryptionService, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		walletRepo: walletRepo,
		encSvc:     encSvc,
		log:        log,
	}
}

// GetBalance returns the decrypted balance and the wallet version.
func (s *LedgerService) GetBalance(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	wallet, balance, err := s.Get(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return balance, wallet.Version, nil
}

// Get fetches the wallet and its decrypted balance, creating the wallet
// lazily on first access.
func (s *LedgerService) Get(ctx context.Context, userID uuid.UUID) (*domain.Wallet, int64, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		wallet, err = s.createWallet(ctx, userID)
		if err != nil {
			return nil, 0, err
		}
	}

	balance, err := s.decryptBalance(wallet.EncryptedBalance)
	if err != nil {
		return nil, 0, err
	}
	return wallet, balance, nil
}

// Mutate applies a signed delta inside the given unit of work using the
// compare-and-swap contract: the caller supplies the version it last observed
// and loses with ConcurrencyConflict if another mutation intervened.
func (s *LedgerService) Mutate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, expectedVersion int64, delta int64, by domain.Actor) (int64, int64, error) {
	wallet, err := s.walletRepo.GetByUserIDTx(ctx, tx, userID)
	if err != nil {
		return 0, 0, apperror.InternalError(fmt.Errorf("read wallet in tx: %w", err))
	}
	if wallet == nil {
		return 0, 0, apperror.InternalError(fmt.Errorf("wallet missing for user %s", userID))
	}
	if wallet.Version != expectedVersion {
		return 0, 0, apperror.ErrConcurrencyConflict()
	}

	// Sufficiency is computed from the balance read inside this unit of work,
	// never a stale one.
	balance, err := s.decryptBalance(wallet.EncryptedBalance)
	if err != nil {
		return 0, 0, err
	}

	newBalance := balance + delta
	if newBalance < 0 {
		return 0, 0, apperror.ErrInsufficientFunds()
	}

	encrypted, err := s.encSvc.Encrypt(strconv.FormatInt(newBalance, 10))
	if err != nil {
		return 0, 0, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt new balance: %w", err))
	}

	err = s.walletRepo.CompareAndSwapBalance(ctx, tx, wallet.ID, expectedVersion, encrypted, by)
	if err != nil {
		if errors.Is(err, ports.ErrVersionConflict) {
			return 0, 0, apperror.ErrConcurrencyConflict()
		}
		return 0, 0, apperror.InternalError(fmt.Errorf("cas balance: %w", err))
	}

	s.log.Debug().
		Str("user_id", userID.String()).
		Int64("delta", delta).
		Int64("version", expectedVersion+1).
		Msg("balance mutated")

	return newBalance, expectedVersion + 1, nil
}

// RecordRiskScore updates the wallet's rolling fraud indicator.
func (s *LedgerService) RecordRiskScore(ctx context.Context, tx pgx.Tx, userID uuid.UUID, score int) error {
	wallet, err := s.walletRepo.GetByUserIDTx(ctx, tx, userID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("read wallet for risk score: %w", err))
	}
	if wallet == nil {
		return apperror.InternalError(fmt.Errorf("wallet missing for user %s", userID))
	}
	if err := s.walletRepo.UpdateRiskScore(ctx, tx, wallet.ID, score); err != nil {
		return apperror.InternalError(fmt.Errorf("update risk score: %w", err))
	}
	return nil
}

func (s *LedgerService) createWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	encrypted, err := s.encSvc.Encrypt("0")
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt zero balance: %w", err))
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:               uuid.New(),
		UserID:           userID,
		EncryptedBalance: encrypted,
		Version:          1,
		Status:           domain.WalletStatusActive,
		LastUpdatedBy:    domain.ActorSystem,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		// A concurrent first access may have won the insert; re-read.
		existing, rerr := s.walletRepo.GetByUserID(ctx, userID)
		if rerr == nil && existing != nil {
			return existing, nil
		}
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().Str("user_id", userID.String()).Msg("wallet created lazily")
	return wallet, nil
}

func (s *LedgerService) decryptBalance(encrypted string) (int64, error) {
	plain, err := s.encSvc.Decrypt(encrypted)
	if err != nil {
		return 0, apperror.ErrEncryptionFailure(fmt.Errorf("decrypt balance: %w", err))
	}
	balance, err := strconv.ParseInt(plain, 10, 64)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("parse balance: %w", err))
	}
	return balance, nil
}
