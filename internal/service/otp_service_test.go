package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wallet-core/internal/core/domain"
	"wallet-core/internal/core/ports"
	"wallet-core/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testTTL     = 5 * time.Minute
	testLockout = 15 * time.Minute
)

type otpTestDeps struct {
	svc           *OTPService
	challengeRepo *mocks.MockChallengeRepository
	hasher        *mocks.MockCodeHasher
	notifier      *mocks.MockNotificationSender
	transactor    *mocks.MockDBTransactor
	ctrl          *gomock.Controller
}

func setupOTPService(t *testing.T) *otpTestDeps {
	ctrl := gomock.NewController(t)
	d := &otpTestDeps{
		challengeRepo: mocks.NewMockChallengeRepository(ctrl),
		hasher:        mocks.NewMockCodeHasher(ctrl),
		notifier:      mocks.NewMockNotificationSender(ctrl),
		transactor:    mocks.NewMockDBTransactor(ctrl),
		ctrl:          ctrl,
	}
	d.svc = NewOTPService(d.challengeRepo, d.hasher, d.notifier, d.transactor, testTTL, testLockout, zerolog.Nop())
	return d
}

func freshChallenge(userID uuid.UUID, purpose domain.ChallengePurpose) *domain.OTPChallenge {
	now := time.Now().UTC()
	return &domain.OTPChallenge{
		ID:              uuid.New(),
		UserID:          userID,
		Purpose:         purpose,
		CodeHash:        "hash",
		LinkedReference: domain.NewReference(),
		ExpiresAt:       now.Add(testTTL),
		Attempts:        0,
		MaxAttempts:     domain.MaxChallengeAttempts,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestOTPService_Issue_Success(t *testing.T) {
	d := setupOTPService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	reference := domain.NewReference()
	tx := &mockTx{}

	var plainCode string
	d.hasher.EXPECT().Hash(userID, gomock.Any()).DoAndReturn(
		func(_ uuid.UUID, code string) (string, error) {
			assert.Len(t, code, 6)
			plainCode = code
			return "hashed", nil
		})
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.challengeRepo.EXPECT().InvalidateActive(ctx, tx, userID, domain.PurposeFunding).Return(nil)
	d.challengeRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ interface{}, c *domain.OTPChallenge) error {
			assert.Equal(t, "hashed", c.CodeHash)
			assert.Equal(t, reference, c.LinkedReference)
			assert.Equal(t, domain.MaxChallengeAttempts, c.MaxAttempts)
			assert.False(t, c.Used)
			return nil
		})
	d.notifier.EXPECT().Send(ctx, userID, domain.PurposeFunding, gomock.Any()).Return(nil)

	result, err := d.svc.Issue(ctx, userID, domain.PurposeFunding, reference)
	require.NoError(t, err)
	assert.Equal(t, plainCode, result.PlainCode)
	assert.Equal(t, reference, result.LinkedReference)
	assert.Equal(t, testTTL, result.ExpiresIn)
	assert.False(t, result.DeliveryWarning)
}

func TestOTPService_Issue_DeliveryFailureWarnsOnly(t *testing.T) {
	d := setupOTPService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	tx := &mockTx{}

	d.hasher.EXPECT().Hash(userID, gomock.Any()).Return("hashed", nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.challengeRepo.EXPECT().InvalidateActive(ctx, tx, userID, domain.PurposeDeduction).Return(nil)
	d.challengeRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.notifier.EXPECT().Send(ctx, userID, domain.PurposeDeduction, gomock.Any()).
		Return(errors.New("sms gateway timeout"))

	result, err := d.svc.Issue(ctx, userID, domain.PurposeDeduction, "TXN-1")
	require.NoError(t, err)
	assert.True(t, result.DeliveryWarning)
}

func TestOTPService_Verify_Success(t *testing.T) {
	d := setupOTPService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	c := freshChallenge(userID, domain.PurposeFunding)

	d.challengeRepo.EXPECT().GetActive(ctx, userID, domain.PurposeFunding).Return(c, nil)
	d.hasher.EXPECT().Verify(userID, "123456", "hash").Return(true)
	d.challengeRepo.EXPECT().MarkUsed(ctx, c.ID).Return(true, nil)

	result, err := d.svc.Verify(ctx, userID, domain.PurposeFunding, c.LinkedReference, "123456")
	require.NoError(t, err)
	assert.Equal(t, ports.VerifySuccess, result.Outcome)
	assert.Equal(t, c.LinkedReference, result.LinkedReference)
}

func TestOTPService_Verify_WrongReferenceLeavesChallengeIntact(t *testing.T) {
	d := setupOTPService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	c := freshChallenge(userID, domain.PurposeFunding)

	// Correct code, but the challenge gates a different reference: nothing is
	// hashed, incremented, or marked used.
	d.challengeRepo.EXPECT().GetActive(ctx, userID, domain.PurposeFunding).Return(c, nil)

	result, err := d.svc.Verify(ctx, userID, domain.PurposeFunding, domain.NewReference(), "123456")
	require.NoError(t, err)
	assert.Equal(t, ports.VerifyNotFound, result.Outcome)
}

func TestOTPService_Verify_NoActiveChallenge(t *testing.T) {
	d := setupOTPService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	d.challengeRepo.EXPECT().GetActive(ctx, userID, domain.PurposeFunding).Return(nil, nil)

	result, err := d.svc.Verify(ctx, userID, domain.PurposeFunding, domain.NewReference(), "123456")
	require.NoError(t, err)
	assert.Equal(t, ports.VerifyNotFound, result.Outcome)
}

func TestOTPService_Verify_Expired(t *testing.T) {
	d := setupOTPService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	c := freshChallenge(userID, domain.PurposeFunding)
	c.ExpiresAt = time.Now().UTC().Add(-time.Minute)

	d.challengeRepo.EXPECT().GetActive(ctx, userID, domain.PurposeFunding).Return(c, nil)
	d.challengeRepo.EXPECT().MarkUsed(ctx, c.ID).Return(true, nil)

	result, err := d.svc.Verify(ctx, userID, domain.PurposeFunding, c.LinkedReference, "123456")
	require.NoError(t, err)
	assert.Equal(t, ports.VerifyExpired, result.Outcome)
}

func TestOTPService_Verify_WrongCodeDecrementsRemaining(t *testing.T) {
	d := setupOTPService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	c := freshChallenge(userID, domain.PurposeDeduction)

	d.challengeRepo.EXPECT().GetActive(ctx, userID, domain.PurposeDeduction).Return(c, nil)
	d.hasher.EXPECT().Verify(userID, "000000", "hash").Return(false)
	d.challengeRepo.EXPECT().IncrementAttempts(ctx, c.ID).Return(1, nil)

	result, err := d.svc.Verify(ctx, userID, domain.PurposeDeduction, c.LinkedReference, "000000")
	require.NoError(t, err)
	assert.Equal(t, ports.VerifyInvalid, result.Outcome)
	assert.Equal(t, 2, result.RemainingAttempts)
}

func TestOTPService_Verify_AttemptCapLocks(t *testing.T) {
	d := setupOTPService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	c := freshChallenge(userID, domain.PurposeDeduction)
	c.Attempts = domain.MaxChallengeAttempts

	// The correct code no longer matters once the cap is reached.
	d.challengeRepo.EXPECT().GetActive(ctx, userID, domain.PurposeDeduction).Return(c, nil)
	d.challengeRepo.EXPECT().Lock(ctx, c.ID, gomock.Any()).Return(nil)

	result, err := d.svc.Verify(ctx, userID, domain.PurposeDeduction, c.LinkedReference, "123456")
	require.NoError(t, err)
	assert.Equal(t, ports.VerifyLocked, result.Outcome)
	assert.Equal(t, testLockout, result.RetryAfter)
}

func TestOTPService_Verify_LockStillActive(t *testing.T) {
	d := setupOTPService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	c := freshChallenge(userID, domain.PurposeFunding)
	until := time.Now().UTC().Add(10 * time.Minute)
	c.Locked = true
	c.LockedUntil = &until

	d.challengeRepo.EXPECT().GetActive(ctx, userID, domain.PurposeFunding).Return(c, nil)

	result, err := d.svc.Verify(ctx, userID, domain.PurposeFunding, c.LinkedReference, "123456")
	require.NoError(t, err)
	assert.Equal(t, ports.VerifyLocked, result.Outcome)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

func TestOTPService_Verify_LockElapsedSelfCancels(t *testing.T) {
	d := setupOTPService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	c := freshChallenge(userID, domain.PurposeFunding)
	until := time.Now().UTC().Add(-time.Minute)
	c.Locked = true
	c.LockedUntil = &until

	d.challengeRepo.EXPECT().GetActive(ctx, userID, domain.PurposeFunding).Return(c, nil)
	d.challengeRepo.EXPECT().MarkUsed(ctx, c.ID).Return(true, nil)

	result, err := d.svc.Verify(ctx, userID, domain.PurposeFunding, c.LinkedReference, "123456")
	require.NoError(t, err)
	assert.Equal(t, ports.VerifyNotFound, result.Outcome)
}

func TestOTPService_Verify_RaceLosesToConcurrentVerify(t *testing.T) {
	d := setupOTPService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	c := freshChallenge(userID, domain.PurposeFunding)

	d.challengeRepo.EXPECT().GetActive(ctx, userID, domain.PurposeFunding).Return(c, nil)
	d.hasher.EXPECT().Verify(userID, "123456", "hash").Return(true)
	// Another verifier flipped used first.
	d.challengeRepo.EXPECT().MarkUsed(ctx, c.ID).Return(false, nil)

	result, err := d.svc.Verify(ctx, userID, domain.PurposeFunding, c.LinkedReference, "123456")
	require.NoError(t, err)
	assert.Equal(t, ports.VerifyNotFound, result.Outcome)
}

func TestOTPService_HasActive(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(10 * time.Minute)

	tests := []struct {
		name     string
		mutate   func(c *domain.OTPChallenge) *domain.OTPChallenge
		wrongRef bool
		want     bool
	}{
		{name: "verifiable challenge", mutate: func(c *domain.OTPChallenge) *domain.OTPChallenge { return c }, want: true},
		{name: "no challenge", mutate: func(c *domain.OTPChallenge) *domain.OTPChallenge { return nil }, want: false},
		{name: "gates another reference", mutate: func(c *domain.OTPChallenge) *domain.OTPChallenge { return c }, wrongRef: true, want: false},
		{name: "expired", mutate: func(c *domain.OTPChallenge) *domain.OTPChallenge {
			c.ExpiresAt = past
			return c
		}, want: false},
		{name: "lockout in force", mutate: func(c *domain.OTPChallenge) *domain.OTPChallenge {
			c.Locked = true
			c.LockedUntil = &future
			return c
		}, want: true},
		{name: "lockout elapsed", mutate: func(c *domain.OTPChallenge) *domain.OTPChallenge {
			c.Locked = true
			c.LockedUntil = &past
			return c
		}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupOTPService(t)
			defer d.ctrl.Finish()

			c := tt.mutate(freshChallenge(userID, domain.PurposeFunding))
			ref := domain.NewReference()
			if c != nil && !tt.wrongRef {
				ref = c.LinkedReference
			}
			d.challengeRepo.EXPECT().GetActive(ctx, userID, domain.PurposeFunding).Return(c, nil)

			got, err := d.svc.HasActive(ctx, userID, domain.PurposeFunding, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateCode_SixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
