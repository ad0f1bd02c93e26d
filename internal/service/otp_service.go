package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"wallet-core/internal/core/domain"
	"wallet-core/internal/core/ports"
	"wallet-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OTPService implements ports.ChallengeService. Codes are 6 decimal digits
// from a cryptographically strong source; only their salted hash is persisted.
type OTPService struct {
	challengeRepo ports.ChallengeRepository
	hasher        ports.CodeHasher
	notifier      ports.NotificationSender
	transactor    ports.DBTransactor
	ttl           time.Duration
	lockout       time.Duration
	log           zerolog.Logger
}

// NewOTPService creates a new OTPService.
func NewOTPService(
	challengeRepo ports.ChallengeRepository,
	hasher ports.CodeHasher,
	notifier ports.NotificationSender,
	transactor ports.DBTransactor,
	ttl time.Duration,
	lockout time.Duration,
	log zerolog.Logger,
) *OTPService {
	return &OTPService{
		challengeRepo: challengeRepo,
		hasher:        hasher,
		notifier:      notifier,
		transactor:    transactor,
		ttl:           ttl,
		lockout:       lockout,
		log:           log,
	}
}

// Issue creates a new challenge for (user, purpose), invalidating any prior
// unused challenge for the same purpose in the same unit of work. The plain
// code is returned once for delivery and never stored or logged. Outbound
// delivery happens outside the atomic boundary; its failure surfaces as a
// warning, never an error.
func (s *OTPService) Issue(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose, linkedReference string) (*ports.IssueResult, error) {
	code, err := generateCode()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate code: %w", err))
	}

	hash, err := s.hasher.Hash(userID, code)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash code: %w", err))
	}

	now := time.Now().UTC()
	challenge := &domain.OTPChallenge{
		ID:              uuid.New(),
		UserID:          userID,
		Purpose:         purpose,
		CodeHash:        hash,
		LinkedReference: linkedReference,
		ExpiresAt:       now.Add(s.ttl),
		MaxAttempts:     domain.MaxChallengeAttempts,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// At most one active challenge per (user, purpose), always.
	if err := s.challengeRepo.InvalidateActive(ctx, dbTx, userID, purpose); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("invalidate prior challenge: %w", err))
	}
	if err := s.challengeRepo.Create(ctx, dbTx, challenge); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create challenge: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	result := &ports.IssueResult{
		PlainCode:       code,
		ChallengeID:     challenge.ID,
		LinkedReference: linkedReference,
		ExpiresIn:       s.ttl,
	}

	if err := s.notifier.Send(ctx, userID, purpose, code); err != nil {
		s.log.Warn().Err(err).
			Str("user_id", userID.String()).
			Str("purpose", string(purpose)).
			Msg("otp delivery failed, challenge remains valid")
		result.DeliveryWarning = true
	}

	s.log.Info().
		Str("challenge_id", challenge.ID.String()).
		Str("user_id", userID.String()).
		Str("purpose", string(purpose)).
		Str("reference", linkedReference).
		Msg("otp challenge issued")

	return result, nil
}

// Verify runs the challenge state machine:
// Issued -> {Verified, Expired, Locked, Invalid -> Issued(retry)}.
// Verified, Expired, and Locked are terminal for the challenge instance.
func (s *OTPService) Verify(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose, linkedReference, code string) (ports.VerifyResult, error) {
	challenge, err := s.challengeRepo.GetActive(ctx, userID, purpose)
	if err != nil {
		return ports.VerifyResult{}, apperror.InternalError(fmt.Errorf("get active challenge: %w", err))
	}
	if challenge == nil {
		return ports.VerifyResult{Outcome: ports.VerifyNotFound}, nil
	}
	// The reference check precedes every consuming step: a code submitted
	// against a reference this challenge does not gate must leave the
	// challenge intact.
	if challenge.LinkedReference != linkedReference {
		return ports.VerifyResult{Outcome: ports.VerifyNotFound}, nil
	}

	result := ports.VerifyResult{LinkedReference: challenge.LinkedReference}
	now := time.Now().UTC()

	if challenge.IsExpired(now) {
		// Consume so the next issue starts clean.
		if _, err := s.challengeRepo.MarkUsed(ctx, challenge.ID); err != nil {
			return ports.VerifyResult{}, apperror.InternalError(fmt.Errorf("expire challenge: %w", err))
		}
		result.Outcome = ports.VerifyExpired
		return result, nil
	}

	if challenge.Locked {
		if challenge.LockActive(now) {
			result.Outcome = ports.VerifyLocked
			result.RetryAfter = time.Until(*challenge.LockedUntil)
			return result, nil
		}
		// Lockout elapsed: the challenge self-cancelled.
		if _, err := s.challengeRepo.MarkUsed(ctx, challenge.ID); err != nil {
			return ports.VerifyResult{}, apperror.InternalError(fmt.Errorf("retire locked challenge: %w", err))
		}
		result.Outcome = ports.VerifyNotFound
		result.LinkedReference = ""
		return result, nil
	}

	if challenge.AttemptsExhausted() {
		until := now.Add(s.lockout)
		if err := s.challengeRepo.Lock(ctx, challenge.ID, until); err != nil {
			return ports.VerifyResult{}, apperror.InternalError(fmt.Errorf("lock challenge: %w", err))
		}
		s.log.Warn().
			Str("challenge_id", challenge.ID.String()).
			Str("user_id", userID.String()).
			Msg("otp challenge locked after attempt cap")
		result.Outcome = ports.VerifyLocked
		result.RetryAfter = s.lockout
		return result, nil
	}

	if !s.hasher.Verify(userID, code, challenge.CodeHash) {
		attempts, err := s.challengeRepo.IncrementAttempts(ctx, challenge.ID)
		if err != nil {
			return ports.VerifyResult{}, apperror.InternalError(fmt.Errorf("increment attempts: %w", err))
		}
		remaining := challenge.MaxAttempts - attempts
		if remaining < 0 {
			remaining = 0
		}
		result.Outcome = ports.VerifyInvalid
		result.RemainingAttempts = remaining
		return result, nil
	}

	// Only the first successful compare may flip used=false -> true; a racing
	// second verify observes used=true and never double-spends the challenge.
	swapped, err := s.challengeRepo.MarkUsed(ctx, challenge.ID)
	if err != nil {
		return ports.VerifyResult{}, apperror.InternalError(fmt.Errorf("mark used: %w", err))
	}
	if !swapped {
		result.Outcome = ports.VerifyNotFound
		result.LinkedReference = ""
		return result, nil
	}

	s.log.Info().
		Str("challenge_id", challenge.ID.String()).
		Str("user_id", userID.String()).
		Str("purpose", string(purpose)).
		Msg("otp challenge verified")

	result.Outcome = ports.VerifySuccess
	return result, nil
}

// HasActive reports whether a still-verifiable challenge gates the given
// reference. A locked challenge counts as active while its lockout holds, so
// a replayed initiate cannot mint a fresh challenge around the attempt cap.
func (s *OTPService) HasActive(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose, linkedReference string) (bool, error) {
	challenge, err := s.challengeRepo.GetActive(ctx, userID, purpose)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("get active challenge: %w", err))
	}
	if challenge == nil || challenge.LinkedReference != linkedReference {
		return false, nil
	}
	now := time.Now().UTC()
	if challenge.IsExpired(now) {
		return false, nil
	}
	if challenge.Locked && !challenge.LockActive(now) {
		return false, nil
	}
	return true, nil
}

// generateCode draws 6 decimal digits from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
