package domain

import "github.com/google/uuid"

// RiskTier is the bucketed outcome of a fraud score.
type RiskTier string

const (
	TierAutoApprove  RiskTier = "AUTO_APPROVE"
	TierOTPRequired  RiskTier = "OTP_REQUIRED"
	TierManualReview RiskTier = "MANUAL_REVIEW"
	TierBlock        RiskTier = "BLOCK"
)

// Tier thresholds are inclusive lower bounds: a score exactly at a boundary
// lands in the higher tier.
const (
	TierBlockThreshold        = 90
	TierManualReviewThreshold = 70
	TierOTPRequiredThreshold  = 30
)

// Fixed signal weights. The sum (215) always caps to MaxRiskScore.
const (
	WeightRapidTransactions  = 20
	WeightUnusualAmount      = 25
	WeightHighValue          = 30
	WeightNewDevice          = 15
	WeightNewOrigin          = 20
	WeightRecentFailures     = 35
	WeightDuplicateReference = 50
)

// MaxRiskScore caps the additive signal total.
const MaxRiskScore = 100

// Fraud flag tags recorded on transactions.
const (
	FlagRapidTransactions   = "rapid_transactions"
	FlagUnusualAmount       = "unusual_amount"
	FlagHighValue           = "high_value"
	FlagNewDevice           = "new_device"
	FlagNewOrigin           = "new_origin"
	FlagRecentFailures      = "recent_failures"
	FlagDuplicateReference  = "duplicate_reference"
	FlagAssessmentError     = "assessment_error"
	FlagInsufficientBalance = "insufficient_balance"
)

// TransactionCandidate is the fraud assessor's view of a proposed transaction.
type TransactionCandidate struct {
	UserID            uuid.UUID
	Kind              TransactionKind
	Amount            int64
	Reference         string
	DeviceFingerprint string
	Origin            string
}

// RiskResult is the deterministic outcome of fraud assessment.
type RiskResult struct {
	Score int      `json:"score"`
	Flags []string `json:"flags"`
	Tier  RiskTier `json:"tier"`
}

// RequiresOTP reports whether the tier demands a step-up challenge.
func (r RiskResult) RequiresOTP() bool {
	return r.Tier == TierOTPRequired || r.Tier == TierManualReview
}

// Blocked reports whether the transaction must not proceed.
func (r RiskResult) Blocked() bool {
	return r.Tier == TierBlock
}

// TierForScore maps a capped score to its tier.
func TierForScore(score int) RiskTier {
	switch {
	case score >= TierBlockThreshold:
		return TierBlock
	case score >= TierManualReviewThreshold:
		return TierManualReview
	case score >= TierOTPRequiredThreshold:
		return TierOTPRequired
	default:
		return TierAutoApprove
	}
}

// FailSafeRiskResult is the fixed medium-risk substitute returned when the
// assessor cannot compute: never auto-approve on an internal failure.
func FailSafeRiskResult() RiskResult {
	return RiskResult{
		Score: TierOTPRequiredThreshold,
		Flags: []string{FlagAssessmentError},
		Tier:  TierOTPRequired,
	}
}
