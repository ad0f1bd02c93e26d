package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_IsTerminal(t *testing.T) {
	tests := []struct {
		status   TransactionStatus
		terminal bool
	}{
		{TransactionStatusPending, false},
		{TransactionStatusCompleted, true},
		{TransactionStatusFailed, true},
	}
	for _, tc := range tests {
		txn := &Transaction{Status: tc.status}
		assert.Equal(t, tc.terminal, txn.IsTerminal(), "status %s", tc.status)
	}
}

func TestTransaction_Delta(t *testing.T) {
	assert.Equal(t, int64(500), (&Transaction{Kind: TransactionKindFunding, Amount: 500}).Delta())
	assert.Equal(t, int64(-500), (&Transaction{Kind: TransactionKindPurchase, Amount: 500}).Delta())
	assert.Equal(t, int64(500), (&Transaction{Kind: TransactionKindRefund, Amount: 500}).Delta())
	assert.Equal(t, int64(-200), (&Transaction{Kind: TransactionKindAdjustment, Amount: -200}).Delta())
}

func TestParseTransactionKind(t *testing.T) {
	kind, ok := ParseTransactionKind("FUNDING")
	assert.True(t, ok)
	assert.Equal(t, TransactionKindFunding, kind)

	_, ok = ParseTransactionKind("WIRE")
	assert.False(t, ok)
}

func TestParseChallengePurpose(t *testing.T) {
	p, ok := ParseChallengePurpose("DEDUCTION")
	assert.True(t, ok)
	assert.Equal(t, PurposeDeduction, p)

	_, ok = ParseChallengePurpose("login")
	assert.False(t, ok)
}

func TestTierForScore_InclusiveBoundaries(t *testing.T) {
	tests := []struct {
		score int
		tier  RiskTier
	}{
		{0, TierAutoApprove},
		{29, TierAutoApprove},
		{30, TierOTPRequired},
		{69, TierOTPRequired},
		{70, TierManualReview},
		{89, TierManualReview},
		{90, TierBlock},
		{100, TierBlock},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.tier, TierForScore(tc.score), "score %d", tc.score)
	}
}

func TestRiskResult_Policies(t *testing.T) {
	assert.False(t, RiskResult{Tier: TierAutoApprove}.RequiresOTP())
	assert.True(t, RiskResult{Tier: TierOTPRequired}.RequiresOTP())
	assert.True(t, RiskResult{Tier: TierManualReview}.RequiresOTP())
	assert.False(t, RiskResult{Tier: TierBlock}.RequiresOTP())
	assert.True(t, RiskResult{Tier: TierBlock}.Blocked())
}

func TestFailSafeRiskResult(t *testing.T) {
	r := FailSafeRiskResult()
	assert.Equal(t, 30, r.Score)
	assert.Equal(t, TierOTPRequired, r.Tier)
	assert.Contains(t, r.Flags, FlagAssessmentError)
}

func TestOTPChallenge_Lifecycle(t *testing.T) {
	now := time.Now().UTC()
	c := &OTPChallenge{
		ExpiresAt:   now.Add(5 * time.Minute),
		MaxAttempts: MaxChallengeAttempts,
	}

	assert.False(t, c.IsExpired(now))
	assert.True(t, c.IsExpired(now.Add(6*time.Minute)))
	assert.False(t, c.AttemptsExhausted())

	c.Attempts = 3
	assert.True(t, c.AttemptsExhausted())

	until := now.Add(15 * time.Minute)
	c.Locked = true
	c.LockedUntil = &until
	assert.True(t, c.LockActive(now))
	assert.False(t, c.LockActive(now.Add(16*time.Minute)))
}

func TestNewReference(t *testing.T) {
	ref := NewReference()
	assert.Contains(t, ref, "TXN-")
	assert.NotEqual(t, ref, NewReference())
}

func TestBuildIdempotencyKey(t *testing.T) {
	userID := uuid.New()
	key := BuildIdempotencyKey(userID, "TXN-abc")
	assert.Equal(t, userID.String()+":TXN-abc", key)
}
