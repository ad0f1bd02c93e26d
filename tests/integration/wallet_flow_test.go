package integration

import (
	"context"
	"strconv"
	"testing"
	"time"

	redisStorage "wallet-core/internal/adapter/storage/redis"
	"wallet-core/internal/core/domain"
	"wallet-core/internal/core/ports"
	"wallet-core/internal/service"
	"wallet-core/pkg/apperror"
	"wallet-core/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const highValueThreshold = int64(500000)

// testApp wires the full service stack over in-memory repos and miniredis,
// with real AES-GCM balance encryption and real Argon2 code hashing.
type testApp struct {
	coordinator   *service.CoordinatorService
	otpSvc        *service.OTPService
	encSvc        ports.EncryptionService
	walletRepo    *inMemoryWalletRepo
	txRepo        *inMemoryTransactionRepo
	challengeRepo *inMemoryChallengeRepo
	incidentRepo  *inMemoryIncidentRepo
	notifier      *captureNotifier
	redis         *miniredis.Miniredis
}

func newTestApp(t *testing.T, retries int) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	idempCache := redisStorage.NewIdempotencyCache(rdb)

	encSvc, err := service.NewAESEncryptionService(staticKeyProvider{})
	require.NoError(t, err)
	hasher := service.NewArgon2CodeHasher()

	walletRepo := newInMemoryWalletRepo()
	txRepo := newInMemoryTransactionRepo()
	challengeRepo := newInMemoryChallengeRepo()
	idempRepo := newInMemoryIdempotencyRepo()
	incidentRepo := newInMemoryIncidentRepo()
	transactor := newInMemoryTransactor()
	notifier := newCaptureNotifier()

	log := logger.New("debug", false)
	ledger := service.NewLedgerService(walletRepo, encSvc, log)
	otpSvc := service.NewOTPService(challengeRepo, hasher, notifier, transactor, 5*time.Minute, 15*time.Minute, log)
	fraudSvc := service.NewFraudService(txRepo, highValueThreshold, log)
	incidents := service.NewIncidentService(incidentRepo, log)
	coordinator := service.NewCoordinatorService(
		ledger, txRepo, otpSvc, fraudSvc,
		idempRepo, idempCache, incidents, transactor,
		retries, log,
	)

	return &testApp{
		coordinator:   coordinator,
		otpSvc:        otpSvc,
		encSvc:        encSvc,
		walletRepo:    walletRepo,
		txRepo:        txRepo,
		challengeRepo: challengeRepo,
		incidentRepo:  incidentRepo,
		notifier:      notifier,
		redis:         mr,
	}
}

// seedWallet creates a wallet holding the given balance without producing
// transaction history.
func (a *testApp) seedWallet(t *testing.T, userID uuid.UUID, balance int64) {
	t.Helper()
	encrypted, err := a.encSvc.Encrypt(strconv.FormatInt(balance, 10))
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, a.walletRepo.Create(context.Background(), &domain.Wallet{
		ID:               uuid.New(),
		UserID:           userID,
		EncryptedBalance: encrypted,
		Version:          1,
		Status:           domain.WalletStatusActive,
		LastUpdatedBy:    domain.ActorSystem,
		CreatedAt:        now,
		UpdatedAt:        now,
	}))
}

func (a *testApp) balanceAndVersion(t *testing.T, userID uuid.UUID) (int64, int64) {
	t.Helper()
	w, err := a.walletRepo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, w)
	plain, err := a.encSvc.Decrypt(w.EncryptedBalance)
	require.NoError(t, err)
	balance, err := strconv.ParseInt(plain, 10, 64)
	require.NoError(t, err)
	return balance, w.Version
}

// Funding is always OTP-gated: initiate, confirm with the delivered code,
// observe the credited balance and bumped version.
func TestIntegration_FundingRequiresOTPAndCompletes(t *testing.T) {
	app := newTestApp(t, 3)
	ctx := context.Background()
	userID := uuid.New()

	result, err := app.coordinator.InitiateFunding(ctx, ports.InitiateRequest{
		UserID: userID,
		Amount: 50000,
		Source: "bank_transfer",
	})
	require.NoError(t, err)
	assert.True(t, result.OTPRequired)
	assert.False(t, result.CompletedImmediately)
	require.NotEmpty(t, result.Reference)

	code := app.notifier.lastCode(userID)
	require.Len(t, code, 6)

	confirm, err := app.coordinator.Confirm(ctx, userID, result.Reference, code)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, confirm.Status)
	require.NotNil(t, confirm.NewBalance)
	assert.Equal(t, int64(50000), *confirm.NewBalance)

	balance, version := app.balanceAndVersion(t, userID)
	assert.Equal(t, int64(50000), balance)
	assert.Equal(t, int64(2), version) // Lazy create at 1, one mutation.
}

// A low-risk deduction from a user with no transaction history scores zero
// and completes in the initiate call.
func TestIntegration_LowRiskDeductionCompletesImmediately(t *testing.T) {
	app := newTestApp(t, 3)
	ctx := context.Background()
	userID := uuid.New()
	app.seedWallet(t, userID, 100000)

	result, err := app.coordinator.InitiateDeduction(ctx, ports.InitiateRequest{
		UserID:            userID,
		Amount:            25000,
		Source:            "store",
		DeviceFingerprint: "fp-new",
		Origin:            "192.0.2.1",
	})
	require.NoError(t, err)
	assert.False(t, result.OTPRequired)
	assert.True(t, result.CompletedImmediately)
	require.NotNil(t, result.NewBalance)
	assert.Equal(t, int64(75000), *result.NewBalance)

	txn, err := app.txRepo.GetByReference(ctx, result.Reference)
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, 0, txn.FraudRiskScore)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
	assert.Equal(t, int64(100000), txn.PreviousBalance)
	assert.Equal(t, int64(75000), txn.NewBalance)

	balance, version := app.balanceAndVersion(t, userID)
	assert.Equal(t, int64(75000), balance)
	assert.Equal(t, int64(2), version)
}

// A high-value deduction demands OTP; three wrong codes lock the challenge
// and the fourth attempt is rejected even with the correct code. The balance
// never moves.
func TestIntegration_HighValueDeductionLocksAfterAttemptCap(t *testing.T) {
	app := newTestApp(t, 3)
	ctx := context.Background()
	userID := uuid.New()
	app.seedWallet(t, userID, 1000000)

	result, err := app.coordinator.InitiateDeduction(ctx, ports.InitiateRequest{
		UserID: userID,
		Amount: 600000,
		Source: "store",
	})
	require.NoError(t, err)
	assert.True(t, result.OTPRequired)

	correct := app.notifier.lastCode(userID)
	wrong := "000000"
	if wrong == correct {
		wrong = "000001"
	}

	for i := 1; i <= domain.MaxChallengeAttempts; i++ {
		_, err := app.coordinator.Confirm(ctx, userID, result.Reference, wrong)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "OTP_003", appErr.Code)
		assert.Equal(t, domain.MaxChallengeAttempts-i, appErr.Remaining)
	}

	// Attempt cap reached: the correct code no longer helps.
	_, err = app.coordinator.Confirm(ctx, userID, result.Reference, correct)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "OTP_004", appErr.Code)
	assert.Greater(t, appErr.RetryAfter, time.Duration(0))

	balance, version := app.balanceAndVersion(t, userID)
	assert.Equal(t, int64(1000000), balance)
	assert.Equal(t, int64(1), version)
}

// Replaying initiate with the same caller-supplied reference after completion
// returns the recorded outcome without moving money twice.
func TestIntegration_IdempotentFundingReplay(t *testing.T) {
	app := newTestApp(t, 3)
	ctx := context.Background()
	userID := uuid.New()
	reference := domain.NewReference()

	req := ports.InitiateRequest{UserID: userID, Amount: 50000, Reference: reference, Source: "bank_transfer"}

	first, err := app.coordinator.InitiateFunding(ctx, req)
	require.NoError(t, err)
	require.True(t, first.OTPRequired)

	code := app.notifier.lastCode(userID)
	_, err = app.coordinator.Confirm(ctx, userID, reference, code)
	require.NoError(t, err)

	replay, err := app.coordinator.InitiateFunding(ctx, req)
	require.NoError(t, err)
	assert.True(t, replay.CompletedImmediately)
	require.NotNil(t, replay.NewBalance)
	assert.Equal(t, int64(50000), *replay.NewBalance)

	balance, version := app.balanceAndVersion(t, userID)
	assert.Equal(t, int64(50000), balance)
	assert.Equal(t, int64(2), version)
}

// A still-pending initiate replay points back at the open transaction
// without issuing a second challenge.
func TestIntegration_PendingInitiateReplayKeepsChallenge(t *testing.T) {
	app := newTestApp(t, 3)
	ctx := context.Background()
	userID := uuid.New()
	reference := domain.NewReference()

	req := ports.InitiateRequest{UserID: userID, Amount: 50000, Reference: reference}
	_, err := app.coordinator.InitiateFunding(ctx, req)
	require.NoError(t, err)
	firstCode := app.notifier.lastCode(userID)

	replay, err := app.coordinator.InitiateFunding(ctx, req)
	require.NoError(t, err)
	assert.True(t, replay.OTPRequired)
	assert.Equal(t, reference, replay.Reference)

	// Still the original challenge.
	assert.Equal(t, firstCode, app.notifier.lastCode(userID))
	confirm, err := app.coordinator.Confirm(ctx, userID, reference, firstCode)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, confirm.Status)
}

// Insufficient balance fails a deduction before any challenge is issued and
// leaves a FAILED record behind.
func TestIntegration_DeductionInsufficientBalance(t *testing.T) {
	app := newTestApp(t, 3)
	ctx := context.Background()
	userID := uuid.New()
	app.seedWallet(t, userID, 10000)

	_, err := app.coordinator.InitiateDeduction(ctx, ports.InitiateRequest{UserID: userID, Amount: 50000})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WAL_002", appErr.Code)

	assert.Empty(t, app.notifier.lastCode(userID))
	balance, version := app.balanceAndVersion(t, userID)
	assert.Equal(t, int64(10000), balance)
	assert.Equal(t, int64(1), version)
}

// A verified settlement completes without a step-up, and replaying the same
// settlement reference returns the prior outcome.
func TestIntegration_SettlementIdempotent(t *testing.T) {
	app := newTestApp(t, 3)
	ctx := context.Background()
	userID := uuid.New()
	reference := "PSP-" + uuid.NewString()

	req := ports.SettlementRequest{UserID: userID, Reference: reference, Amount: 75000, Verified: true}

	first, err := app.coordinator.RecordSettlement(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, first.Status)
	assert.Equal(t, int64(75000), *first.NewBalance)

	second, err := app.coordinator.RecordSettlement(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(75000), *second.NewBalance)

	balance, _ := app.balanceAndVersion(t, userID)
	assert.Equal(t, int64(75000), balance)

	w, err := app.walletRepo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActorSystem, w.LastUpdatedBy)

	txn, err := app.txRepo.GetByReference(ctx, reference)
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
}

// An expired challenge fails the transaction on confirm.
func TestIntegration_ExpiredChallengeFailsTransaction(t *testing.T) {
	app := newTestApp(t, 3)
	ctx := context.Background()
	userID := uuid.New()

	result, err := app.coordinator.InitiateFunding(ctx, ports.InitiateRequest{UserID: userID, Amount: 50000})
	require.NoError(t, err)

	// Rewind the challenge deadline instead of sleeping out the TTL.
	chal, err := app.challengeRepo.GetActive(ctx, userID, domain.PurposeFunding)
	require.NoError(t, err)
	require.NotNil(t, chal)
	app.challengeRepo.expire(chal.ID)

	code := app.notifier.lastCode(userID)
	_, err = app.coordinator.Confirm(ctx, userID, result.Reference, code)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "OTP_002", appErr.Code)

	txn, err := app.txRepo.GetByReference(ctx, result.Reference)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFailed, txn.Status)

	// The reference is spent by its failed transaction: re-initiating under it
	// is rejected with a structured kind, never an internal error.
	_, err = app.coordinator.InitiateFunding(ctx, ports.InitiateRequest{
		UserID:    userID,
		Amount:    50000,
		Reference: result.Reference,
	})
	var replayErr *apperror.AppError
	require.ErrorAs(t, err, &replayErr)
	assert.Equal(t, "TXN_003", replayErr.Code)
}

// A pending transaction whose challenge was consumed without completing (e.g.
// the balance write hit its retry bound after verification) gets a fresh
// challenge on replayed initiate instead of a dead end.
func TestIntegration_PendingReplayReissuesConsumedChallenge(t *testing.T) {
	app := newTestApp(t, 3)
	ctx := context.Background()
	userID := uuid.New()
	reference := domain.NewReference()

	_, err := app.coordinator.InitiateFunding(ctx, ports.InitiateRequest{UserID: userID, Amount: 50000, Reference: reference})
	require.NoError(t, err)

	chal, err := app.challengeRepo.GetActive(ctx, userID, domain.PurposeFunding)
	require.NoError(t, err)
	require.NotNil(t, chal)
	swapped, err := app.challengeRepo.MarkUsed(ctx, chal.ID)
	require.NoError(t, err)
	require.True(t, swapped)

	replay, err := app.coordinator.InitiateFunding(ctx, ports.InitiateRequest{UserID: userID, Amount: 50000, Reference: reference})
	require.NoError(t, err)
	assert.True(t, replay.OTPRequired)
	assert.Equal(t, reference, replay.Reference)
	assert.Greater(t, replay.ExpiresIn, time.Duration(0))

	code := app.notifier.lastCode(userID)
	require.Len(t, code, 6)
	confirm, err := app.coordinator.Confirm(ctx, userID, reference, code)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, confirm.Status)
	require.NotNil(t, confirm.NewBalance)
	assert.Equal(t, int64(50000), *confirm.NewBalance)
}
