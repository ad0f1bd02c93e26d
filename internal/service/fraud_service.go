package service

import (
	"context"
	"time"

	"wallet-core/internal/core/domain"
	"wallet-core/internal/core/ports"

	"github.com/rs/zerolog"
)

// Signal trigger thresholds.
const (
	rapidTransactionCount = 5  // Transactions of this kind in the trailing hour
	recentFailureCount    = 3  // Failed transactions in the trailing hour
	trailingAmountWindow  = 10 // Completed amounts for deviation checks
	unusualAvgMultiplier  = 3  // Amount > 3x trailing average
	unusualMaxMultiplier  = 2  // Amount > 2x trailing max
	historyTrailingWindow = time.Hour
)

// FraudService implements ports.FraudAssessor: a deterministic, read-only,
// weighted additive signal model over the user's recent transaction history.
type FraudService struct {
	txRepo             ports.TransactionRepository
	highValueThreshold int64
	log                zerolog.Logger
}

// NewFraudService creates a new FraudService.
func NewFraudService(txRepo ports.TransactionRepository, highValueThreshold int64, log zerolog.Logger) *FraudService {
	return &FraudService{
		txRepo:             txRepo,
		highValueThreshold: highValueThreshold,
		log:                log,
	}
}

// Assess scores a candidate. It never returns an error: any failure to read
// history substitutes the fixed medium-risk result so an internal fault can
// never silently auto-approve.
func (s *FraudService) Assess(ctx context.Context, c domain.TransactionCandidate) domain.RiskResult {
	score := 0
	var flags []string
	since := time.Now().UTC().Add(-historyTrailingWindow)

	rapid, err := s.txRepo.CountRecentByKind(ctx, c.UserID, c.Kind, since)
	if err != nil {
		return s.failSafe(c, err)
	}
	if rapid >= rapidTransactionCount {
		score += domain.WeightRapidTransactions
		flags = append(flags, domain.FlagRapidTransactions)
	}

	amounts, err := s.txRepo.RecentCompletedAmounts(ctx, c.UserID, trailingAmountWindow)
	if err != nil {
		return s.failSafe(c, err)
	}
	if unusualAmount(c.Amount, amounts) {
		score += domain.WeightUnusualAmount
		flags = append(flags, domain.FlagUnusualAmount)
	}

	if c.Amount >= s.highValueThreshold {
		score += domain.WeightHighValue
		flags = append(flags, domain.FlagHighValue)
	}

	// Device and origin novelty only means anything against existing history:
	// a brand-new user has no baseline to deviate from.
	if len(amounts) > 0 {
		if c.DeviceFingerprint != "" {
			seen, err := s.txRepo.DeviceSeen(ctx, c.UserID, c.DeviceFingerprint)
			if err != nil {
				return s.failSafe(c, err)
			}
			if !seen {
				score += domain.WeightNewDevice
				flags = append(flags, domain.FlagNewDevice)
			}
		}
		if c.Origin != "" {
			seen, err := s.txRepo.OriginSeen(ctx, c.UserID, c.Origin)
			if err != nil {
				return s.failSafe(c, err)
			}
			if !seen {
				score += domain.WeightNewOrigin
				flags = append(flags, domain.FlagNewOrigin)
			}
		}
	}

	failures, err := s.txRepo.CountRecentFailed(ctx, c.UserID, since)
	if err != nil {
		return s.failSafe(c, err)
	}
	if failures >= recentFailureCount {
		score += domain.WeightRecentFailures
		flags = append(flags, domain.FlagRecentFailures)
	}

	dup, err := s.txRepo.CompletedReferenceExists(ctx, c.UserID, c.Reference)
	if err != nil {
		return s.failSafe(c, err)
	}
	if dup {
		score += domain.WeightDuplicateReference
		flags = append(flags, domain.FlagDuplicateReference)
	}

	if score > domain.MaxRiskScore {
		score = domain.MaxRiskScore
	}

	result := domain.RiskResult{
		Score: score,
		Flags: flags,
		Tier:  domain.TierForScore(score),
	}

	s.log.Debug().
		Str("user_id", c.UserID.String()).
		Str("kind", string(c.Kind)).
		Int("score", score).
		Strs("flags", flags).
		Str("tier", string(result.Tier)).
		Msg("fraud assessment")

	return result
}

func (s *FraudService) failSafe(c domain.TransactionCandidate, err error) domain.RiskResult {
	s.log.Error().Err(err).
		Str("user_id", c.UserID.String()).
		Str("reference", c.Reference).
		Msg("fraud assessment failed, substituting fail-safe result")
	return domain.FailSafeRiskResult()
}

// unusualAmount reports whether amount deviates from the trailing completed
// amounts: more than 3x the average or more than 2x the max.
func unusualAmount(amount int64, trailing []int64) bool {
	if len(trailing) == 0 {
		return false
	}
	var sum, peak int64
	for _, a := range trailing {
		if a < 0 {
			a = -a
		}
		sum += a
		if a > peak {
			peak = a
		}
	}
	avg := sum / int64(len(trailing))
	if avg > 0 && amount > unusualAvgMultiplier*avg {
		return true
	}
	return peak > 0 && amount > unusualMaxMultiplier*peak
}
