package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wallet-core/internal/core/domain"
	"wallet-core/internal/core/ports"
	"wallet-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	idempotencyTTL  = 24 * time.Hour
	retryBackoffMin = 25 * time.Millisecond
)

// CoordinatorService implements ports.TransactionCoordinator. It records a
// pending transaction, asks the fraud assessor for a verdict, optionally
// issues an OTP challenge, and on successful verification performs the ledger
// mutation and finalizes the transaction record in one unit of work.
type CoordinatorService struct {
	ledger       ports.WalletLedger
	txRepo       ports.TransactionRepository
	challengeSvc ports.ChallengeService
	assessor     ports.FraudAssessor
	idempRepo    ports.IdempotencyRepository
	idempCache   ports.IdempotencyCache
	incidents    ports.IncidentRecorder
	transactor   ports.DBTransactor
	retries      int
	log          zerolog.Logger
}

// NewCoordinatorService creates a new CoordinatorService. retries bounds the
// internal compare-and-swap retry loop.
func NewCoordinatorService(
	ledger ports.WalletLedger,
	txRepo ports.TransactionRepository,
	challengeSvc ports.ChallengeService,
	assessor ports.FraudAssessor,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	incidents ports.IncidentRecorder,
	transactor ports.DBTransactor,
	retries int,
	log zerolog.Logger,
) *CoordinatorService {
	if retries < 1 {
		retries = 1
	}
	return &CoordinatorService{
		ledger:       ledger,
		txRepo:       txRepo,
		challengeSvc: challengeSvc,
		assessor:     assessor,
		idempRepo:    idempRepo,
		idempCache:   idempCache,
		incidents:    incidents,
		transactor:   transactor,
		retries:      retries,
		log:          log,
	}
}

// InitiateFunding starts a credit operation. Funding always requires OTP
// regardless of risk tier: a mandatory step-up for all credit operations.
func (s *CoordinatorService) InitiateFunding(ctx context.Context, req ports.InitiateRequest) (*ports.InitiateResult, error) {
	return s.initiate(ctx, req, domain.TransactionKindFunding)
}

// InitiateDeduction starts a debit operation. OTP is required only when the
// risk tier demands it; low-risk deductions complete in the same call.
func (s *CoordinatorService) InitiateDeduction(ctx context.Context, req ports.InitiateRequest) (*ports.InitiateResult, error) {
	return s.initiate(ctx, req, domain.TransactionKindPurchase)
}

func (s *CoordinatorService) initiate(ctx context.Context, req ports.InitiateRequest, kind domain.TransactionKind) (*ports.InitiateResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	reference := req.Reference
	if reference == "" {
		reference = domain.NewReference()
	} else {
		// Caller-supplied idempotency key: replay the prior outcome if it
		// exists rather than double-applying.
		if result, found, err := s.replayInitiate(ctx, req.UserID, reference); err != nil {
			return nil, err
		} else if found {
			return result, nil
		}
	}

	wallet, balance, err := s.ledger.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsActive() {
		return nil, apperror.ErrWalletInactive()
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:                uuid.New(),
		Reference:         reference,
		UserID:            req.UserID,
		Kind:              kind,
		Amount:            req.Amount,
		Status:            domain.TransactionStatusPending,
		Source:            req.Source,
		DeviceFingerprint: req.DeviceFingerprint,
		Origin:            req.Origin,
		Items:             req.Items,
		CreatedAt:         now,
	}

	// Purchase preflight: insufficient balance fails before any challenge is
	// ever issued.
	if kind == domain.TransactionKindPurchase && balance < req.Amount {
		txn.Status = domain.TransactionStatusFailed
		txn.FraudFlags = []string{domain.FlagInsufficientBalance}
		txn.ProcessedAt = &now
		if err := s.writeTransaction(ctx, txn, 0); err != nil {
			if errors.Is(err, ports.ErrDuplicateReference) {
				return s.duplicateReplay(ctx, req.UserID, reference)
			}
			return nil, err
		}
		return nil, apperror.ErrInsufficientFunds()
	}

	risk := s.assessor.Assess(ctx, domain.TransactionCandidate{
		UserID:            req.UserID,
		Kind:              kind,
		Amount:            req.Amount,
		Reference:         reference,
		DeviceFingerprint: req.DeviceFingerprint,
		Origin:            req.Origin,
	})
	txn.FraudRiskScore = risk.Score
	txn.FraudFlags = append(txn.FraudFlags, risk.Flags...)

	if risk.Blocked() {
		txn.Status = domain.TransactionStatusFailed
		txn.ProcessedAt = &now
		if err := s.writeTransaction(ctx, txn, risk.Score); err != nil {
			if errors.Is(err, ports.ErrDuplicateReference) {
				return s.duplicateReplay(ctx, req.UserID, reference)
			}
			return nil, err
		}
		s.recordIncident(ctx, txn, risk)
		return nil, apperror.ErrFraudBlocked()
	}

	if err := s.writeTransaction(ctx, txn, risk.Score); err != nil {
		if errors.Is(err, ports.ErrDuplicateReference) {
			return s.duplicateReplay(ctx, req.UserID, reference)
		}
		return nil, err
	}
	if risk.Tier == domain.TierManualReview {
		s.recordIncident(ctx, txn, risk)
	}

	needsOTP := kind == domain.TransactionKindFunding || risk.RequiresOTP()
	if needsOTP {
		issue, err := s.challengeSvc.Issue(ctx, req.UserID, purposeForKind(kind), reference)
		if err != nil {
			return nil, err
		}
		s.log.Info().
			Str("reference", reference).
			Str("kind", string(kind)).
			Int("score", risk.Score).
			Msg("transaction pending otp confirmation")
		return &ports.InitiateResult{
			Reference:       reference,
			OTPRequired:     true,
			ExpiresIn:       issue.ExpiresIn,
			DeliveryWarning: issue.DeliveryWarning,
		}, nil
	}

	// Low risk, no step-up: complete in the same call.
	newBalance, err := s.completeWithRetry(ctx, txn, domain.ActorUser)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("reference", reference).
		Str("kind", string(kind)).
		Int64("new_balance", newBalance).
		Msg("transaction completed immediately")
	return &ports.InitiateResult{
		Reference:            reference,
		CompletedImmediately: true,
		NewBalance:           &newBalance,
	}, nil
}

// Confirm resolves the challenge gating a pending transaction and, on
// success, applies the ledger mutation and finalizes the transaction record
// atomically. Calling Confirm again after completion is a no-op success
// returning the recorded result.
func (s *CoordinatorService) Confirm(ctx context.Context, userID uuid.UUID, reference string, code string) (*ports.ConfirmResult, error) {
	txn, err := s.txRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil || txn.UserID != userID {
		return nil, apperror.ErrTransactionNotFound()
	}

	if txn.Status == domain.TransactionStatusCompleted {
		nb := txn.NewBalance
		return &ports.ConfirmResult{
			Reference:  reference,
			Status:     domain.TransactionStatusCompleted,
			NewBalance: &nb,
		}, nil
	}
	if txn.Status == domain.TransactionStatusFailed {
		return nil, apperror.ErrTransactionNotPending()
	}

	// The canonical reference minted at initiate threads unchanged through
	// challenge issuance and verification; the challenge service rejects a
	// mismatched reference before consuming anything.
	verify, err := s.challengeSvc.Verify(ctx, userID, purposeForKind(txn.Kind), reference, code)
	if err != nil {
		return nil, err
	}

	switch verify.Outcome {
	case ports.VerifyNotFound:
		return nil, apperror.ErrOTPNotFound()
	case ports.VerifyExpired:
		if err := s.failTransaction(ctx, txn); err != nil {
			return nil, err
		}
		return nil, apperror.ErrOTPExpired()
	case ports.VerifyInvalid:
		// Retryable: the transaction stays pending up to the attempt cap.
		return nil, apperror.ErrOTPInvalid(verify.RemainingAttempts)
	case ports.VerifyLocked:
		return nil, apperror.ErrOTPLocked(verify.RetryAfter)
	}

	newBalance, err := s.completeWithRetry(ctx, txn, domain.ActorUser)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("reference", reference).
		Str("user_id", userID.String()).
		Int64("new_balance", newBalance).
		Msg("transaction confirmed")

	return &ports.ConfirmResult{
		Reference:  reference,
		Status:     domain.TransactionStatusCompleted,
		NewBalance: &newBalance,
	}, nil
}

// RecordSettlement ingests a verified external settlement fact. It is treated
// like any other funding candidate, subject to the same idempotency-by-
// reference rule, but completes without a step-up: the verified gateway event
// is itself the confirmation.
func (s *CoordinatorService) RecordSettlement(ctx context.Context, req ports.SettlementRequest) (*ports.ConfirmResult, error) {
	if !req.Verified {
		return nil, apperror.ErrUnverifiedSettlement()
	}
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Reference == "" {
		return nil, apperror.ErrTransactionNotFound()
	}

	if result, found, err := s.settlementReplay(ctx, req); err != nil {
		return nil, err
	} else if found {
		return result, nil
	}

	wallet, _, err := s.ledger.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsActive() {
		return nil, apperror.ErrWalletInactive()
	}

	risk := s.assessor.Assess(ctx, domain.TransactionCandidate{
		UserID:    req.UserID,
		Kind:      domain.TransactionKindFunding,
		Amount:    req.Amount,
		Reference: req.Reference,
	})

	now := time.Now().UTC()
	source := req.Source
	if source == "" {
		source = "settlement"
	}
	txn := &domain.Transaction{
		ID:             uuid.New(),
		Reference:      req.Reference,
		UserID:         req.UserID,
		Kind:           domain.TransactionKindFunding,
		Amount:         req.Amount,
		Status:         domain.TransactionStatusPending,
		FraudRiskScore: risk.Score,
		FraudFlags:     risk.Flags,
		Source:         source,
		CreatedAt:      now,
	}

	if risk.Blocked() {
		txn.Status = domain.TransactionStatusFailed
		txn.ProcessedAt = &now
		if err := s.writeTransaction(ctx, txn, risk.Score); err != nil {
			if errors.Is(err, ports.ErrDuplicateReference) {
				return s.resolveSettlementDuplicate(ctx, req)
			}
			return nil, err
		}
		s.recordIncident(ctx, txn, risk)
		return nil, apperror.ErrFraudBlocked()
	}

	if err := s.writeTransaction(ctx, txn, risk.Score); err != nil {
		if errors.Is(err, ports.ErrDuplicateReference) {
			return s.resolveSettlementDuplicate(ctx, req)
		}
		return nil, err
	}

	newBalance, err := s.completeWithRetry(ctx, txn, domain.ActorSystem)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("reference", req.Reference).
		Str("user_id", req.UserID.String()).
		Int64("amount", req.Amount).
		Msg("settlement recorded")

	return &ports.ConfirmResult{
		Reference:  req.Reference,
		Status:     domain.TransactionStatusCompleted,
		NewBalance: &newBalance,
	}, nil
}

// GetBalance returns the decrypted balance and wallet status.
func (s *CoordinatorService) GetBalance(ctx context.Context, userID uuid.UUID) (*ports.BalanceResult, error) {
	wallet, balance, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.BalanceResult{Amount: balance, Status: wallet.Status}, nil
}

// --- internals ---

// replayInitiate returns the recorded outcome for a caller-supplied reference
// that already completed, or points the caller back at the still-pending
// transaction without issuing a second challenge.
func (s *CoordinatorService) replayInitiate(ctx context.Context, userID uuid.UUID, reference string) (*ports.InitiateResult, bool, error) {
	idempKey := domain.BuildIdempotencyKey(userID, reference)

	// Layer 1: Redis fast path.
	cached, err := s.idempCache.Get(ctx, idempKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		txn, err := unmarshalTransaction(cached)
		if err != nil {
			return nil, false, err
		}
		return initiateReplayResult(txn), true, nil
	}

	// Layer 2: DB idempotency log.
	idempLog, err := s.idempRepo.Get(ctx, idempKey)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if idempLog != nil {
		txn, err := unmarshalTransaction(idempLog.ResponseJSON)
		if err != nil {
			return nil, false, err
		}
		return initiateReplayResult(txn), true, nil
	}

	// Layer 3: the transaction record itself.
	existing, err := s.txRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if existing == nil {
		return nil, false, nil
	}
	if existing.UserID != userID {
		// The reference belongs to someone else; the insert would collide.
		return nil, false, apperror.ErrTransactionNotPending()
	}

	switch existing.Status {
	case domain.TransactionStatusCompleted:
		// Completed but missing from both idempotency layers (e.g. a racing
		// duplicate whose winner committed between our checks).
		return initiateReplayResult(existing), true, nil
	case domain.TransactionStatusFailed:
		// A reference is spent by its transaction, failed or not: the audit
		// trail is immutable and a retry needs a fresh reference.
		return nil, false, apperror.ErrTransactionNotPending()
	}

	// Pending: the reference keeps its one challenge while that challenge is
	// still verifiable, and gets a fresh one otherwise (consumed by an
	// exhausted retry cycle, expired, or past its lockout).
	result := &ports.InitiateResult{Reference: reference, OTPRequired: true}
	purpose := purposeForKind(existing.Kind)
	active, err := s.challengeSvc.HasActive(ctx, userID, purpose, reference)
	if err != nil {
		return nil, false, err
	}
	if !active {
		issue, err := s.challengeSvc.Issue(ctx, userID, purpose, reference)
		if err != nil {
			return nil, false, err
		}
		result.ExpiresIn = issue.ExpiresIn
		result.DeliveryWarning = issue.DeliveryWarning
	}
	return result, true, nil
}

// duplicateReplay resolves a reference collision on insert: another writer
// owns the reference, so its recorded outcome wins.
func (s *CoordinatorService) duplicateReplay(ctx context.Context, userID uuid.UUID, reference string) (*ports.InitiateResult, error) {
	result, found, err := s.replayInitiate(ctx, userID, reference)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.ErrTransactionNotPending()
	}
	return result, nil
}

// settlementReplay returns the recorded outcome for an already-known
// settlement reference. A reference held by another user, or by a transaction
// that is not completed, is not replayable.
func (s *CoordinatorService) settlementReplay(ctx context.Context, req ports.SettlementRequest) (*ports.ConfirmResult, bool, error) {
	existing, err := s.txRepo.GetByReference(ctx, req.Reference)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if existing == nil {
		return nil, false, nil
	}
	if existing.UserID != req.UserID || existing.Status != domain.TransactionStatusCompleted {
		return nil, false, apperror.ErrTransactionNotPending()
	}
	nb := existing.NewBalance
	return &ports.ConfirmResult{Reference: req.Reference, Status: existing.Status, NewBalance: &nb}, true, nil
}

func (s *CoordinatorService) resolveSettlementDuplicate(ctx context.Context, req ports.SettlementRequest) (*ports.ConfirmResult, error) {
	result, found, err := s.settlementReplay(ctx, req)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.ErrTransactionNotPending()
	}
	return result, nil
}

// writeTransaction persists a transaction record and the wallet's rolling
// risk score in one unit of work.
func (s *CoordinatorService) writeTransaction(ctx context.Context, txn *domain.Transaction, score int) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}
	if err := s.ledger.RecordRiskScore(ctx, dbTx, txn.UserID, score); err != nil {
		return err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// completeWithRetry applies the transaction's delta with the CAS contract:
// a losing writer re-reads and recomputes, bounded by the retry count, then
// surfaces Transient. Balance update, transaction finalization, and the
// idempotency log commit in one unit of work.
func (s *CoordinatorService) completeWithRetry(ctx context.Context, txn *domain.Transaction, by domain.Actor) (int64, error) {
	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		if attempt > 0 {
			backoff(ctx, attempt)
		}

		balance, version, err := s.ledger.GetBalance(ctx, txn.UserID)
		if err != nil {
			return 0, err
		}

		newBalance, err := s.applyMutation(ctx, txn, balance, version, by)
		if err != nil {
			if apperror.IsConcurrencyConflict(err) {
				lastErr = err
				s.log.Debug().
					Str("reference", txn.Reference).
					Int("attempt", attempt+1).
					Msg("cas conflict, retrying mutation")
				continue
			}
			return 0, err
		}
		return newBalance, nil
	}

	s.log.Warn().
		Str("reference", txn.Reference).
		Int("retries", s.retries).
		Err(lastErr).
		Msg("mutation retries exhausted")
	return 0, apperror.ErrTransient()
}

func (s *CoordinatorService) applyMutation(ctx context.Context, txn *domain.Transaction, balance, version int64, by domain.Actor) (int64, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	newBalance, _, err := s.ledger.Mutate(ctx, dbTx, txn.UserID, version, txn.Delta(), by)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	if err := s.txRepo.Finalize(ctx, dbTx, txn.ID, balance, newBalance, now); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("finalize transaction: %w", err))
	}

	txn.Status = domain.TransactionStatusCompleted
	txn.PreviousBalance = balance
	txn.NewBalance = newBalance
	txn.ProcessedAt = &now

	respJSON, err := json.Marshal(txn)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("marshal response: %w", err))
	}
	idempKey := domain.BuildIdempotencyKey(txn.UserID, txn.Reference)
	idempEntry := &domain.IdempotencyLog{
		Key:           idempKey,
		TransactionID: txn.ID,
		ResponseJSON:  respJSON,
		CreatedAt:     now,
	}
	if err := s.idempRepo.Create(ctx, dbTx, idempEntry); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("save idempotency log: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-commit: cache in Redis (best-effort).
	if err := s.idempCache.Set(ctx, idempKey, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
	}

	return newBalance, nil
}

func (s *CoordinatorService) failTransaction(ctx context.Context, txn *domain.Transaction) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.txRepo.MarkFailed(ctx, dbTx, txn.ID, time.Now().UTC()); err != nil {
		return apperror.InternalError(fmt.Errorf("mark transaction failed: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	txn.Status = domain.TransactionStatusFailed
	return nil
}

func (s *CoordinatorService) recordIncident(ctx context.Context, txn *domain.Transaction, risk domain.RiskResult) {
	s.incidents.Record(ctx, &domain.FraudIncident{
		ID:        uuid.New(),
		UserID:    txn.UserID,
		Reference: txn.Reference,
		Kind:      txn.Kind,
		Amount:    txn.Amount,
		Score:     risk.Score,
		Flags:     risk.Flags,
		Tier:      risk.Tier,
		CreatedAt: time.Now().UTC(),
	})
}

func purposeForKind(kind domain.TransactionKind) domain.ChallengePurpose {
	if kind == domain.TransactionKindFunding {
		return domain.PurposeFunding
	}
	return domain.PurposeDeduction
}

func unmarshalTransaction(data []byte) (*domain.Transaction, error) {
	txn := &domain.Transaction{}
	if err := json.Unmarshal(data, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached tx: %w", err))
	}
	return txn, nil
}

func initiateReplayResult(txn *domain.Transaction) *ports.InitiateResult {
	nb := txn.NewBalance
	return &ports.InitiateResult{
		Reference:            txn.Reference,
		CompletedImmediately: true,
		NewBalance:           &nb,
	}
}

func backoff(ctx context.Context, attempt int) {
	d := retryBackoffMin * time.Duration(1<<uint(attempt-1))
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
