package integration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"wallet-core/internal/core/domain"
	"wallet-core/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// In-memory repositories preserving the concurrency semantics of the SQL
// layer: the wallet CAS checks the version under one lock, and the challenge
// updates are single-row atomic flips.

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.wallets {
		if existing.UserID == w.UserID {
			return fmt.Errorf("wallet already exists for user")
		}
	}
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetByUserIDTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *inMemoryWalletRepo) CompareAndSwapBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, expectedVersion int64, encryptedBalance string, by domain.Actor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok || w.Version != expectedVersion {
		return ports.ErrVersionConflict
	}
	w.EncryptedBalance = encryptedBalance
	w.Version++
	w.LastUpdatedBy = by
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryWalletRepo) UpdateRiskScore(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.FraudRiskScore = score
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.transactions {
		if existing.Reference == t.Reference {
			return ports.ErrDuplicateReference
		}
	}
	cp := *t
	r.transactions[t.ID] = &cp
	return nil
}

func (r *inMemoryTransactionRepo) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transactions {
		if t.Reference == reference {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) Finalize(ctx context.Context, tx pgx.Tx, id uuid.UUID, previousBalance, newBalance int64, processedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok || t.Status != domain.TransactionStatusPending {
		return fmt.Errorf("transaction not pending")
	}
	t.Status = domain.TransactionStatusCompleted
	t.PreviousBalance = previousBalance
	t.NewBalance = newBalance
	t.ProcessedAt = &processedAt
	return nil
}

func (r *inMemoryTransactionRepo) MarkFailed(ctx context.Context, tx pgx.Tx, id uuid.UUID, processedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok || t.Status != domain.TransactionStatusPending {
		return fmt.Errorf("transaction not pending")
	}
	t.Status = domain.TransactionStatusFailed
	t.ProcessedAt = &processedAt
	return nil
}

func (r *inMemoryTransactionRepo) CountRecentByKind(ctx context.Context, userID uuid.UUID, kind domain.TransactionKind, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, t := range r.transactions {
		if t.UserID == userID && t.Kind == kind && !t.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *inMemoryTransactionRepo) CountRecentFailed(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, t := range r.transactions {
		if t.UserID == userID && t.Status == domain.TransactionStatusFailed && !t.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *inMemoryTransactionRepo) RecentCompletedAmounts(ctx context.Context, userID uuid.UUID, limit int) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var amounts []int64
	for _, t := range r.transactions {
		if t.UserID == userID && t.Status == domain.TransactionStatusCompleted {
			amounts = append(amounts, t.Amount)
			if len(amounts) >= limit {
				break
			}
		}
	}
	return amounts, nil
}

func (r *inMemoryTransactionRepo) DeviceSeen(ctx context.Context, userID uuid.UUID, fingerprint string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transactions {
		if t.UserID == userID && t.DeviceFingerprint == fingerprint && t.Status == domain.TransactionStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryTransactionRepo) OriginSeen(ctx context.Context, userID uuid.UUID, origin string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transactions {
		if t.UserID == userID && t.Origin == origin && t.Status == domain.TransactionStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryTransactionRepo) CompletedReferenceExists(ctx context.Context, userID uuid.UUID, reference string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transactions {
		if t.UserID == userID && t.Reference == reference && t.Status == domain.TransactionStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

// --- In-Memory Challenge Repo ---

type inMemoryChallengeRepo struct {
	mu         sync.Mutex
	challenges map[uuid.UUID]*domain.OTPChallenge
}

func newInMemoryChallengeRepo() *inMemoryChallengeRepo {
	return &inMemoryChallengeRepo{challenges: make(map[uuid.UUID]*domain.OTPChallenge)}
}

func (r *inMemoryChallengeRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.OTPChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.challenges[c.ID] = &cp
	return nil
}

func (r *inMemoryChallengeRepo) GetActive(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose) (*domain.OTPChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.OTPChallenge
	for _, c := range r.challenges {
		if c.UserID == userID && c.Purpose == purpose && !c.Used {
			if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
				latest = c
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *inMemoryChallengeRepo) InvalidateActive(ctx context.Context, tx pgx.Tx, userID uuid.UUID, purpose domain.ChallengePurpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.challenges {
		if c.UserID == userID && c.Purpose == purpose && !c.Used {
			c.Used = true
		}
	}
	return nil
}

// MarkUsed flips used atomically under the repo lock, mirroring the guarded
// single-row UPDATE.
func (r *inMemoryChallengeRepo) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[id]
	if !ok || c.Used {
		return false, nil
	}
	c.Used = true
	c.Attempts = 0
	return true, nil
}

func (r *inMemoryChallengeRepo) IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[id]
	if !ok {
		return 0, fmt.Errorf("challenge not found")
	}
	c.Attempts++
	return c.Attempts, nil
}

func (r *inMemoryChallengeRepo) Lock(ctx context.Context, id uuid.UUID, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[id]
	if !ok {
		return fmt.Errorf("challenge not found")
	}
	c.Locked = true
	u := until
	c.LockedUntil = &u
	return nil
}

// expire rewinds a challenge's deadline so TTL-elapsed paths can be tested
// without sleeping.
func (r *inMemoryChallengeRepo) expire(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.challenges[id]; ok {
		c.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	}
}

// --- In-Memory Idempotency Repo ---

type inMemoryIdempotencyRepo struct {
	mu   sync.RWMutex
	logs map[string]*domain.IdempotencyLog
}

func newInMemoryIdempotencyRepo() *inMemoryIdempotencyRepo {
	return &inMemoryIdempotencyRepo{logs: make(map[string]*domain.IdempotencyLog)}
}

func (r *inMemoryIdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[log.Key] = log
	return nil
}

func (r *inMemoryIdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.logs[key]
	if !ok {
		return nil, nil
	}
	return l, nil
}

// --- In-Memory Incident Repo ---

type inMemoryIncidentRepo struct {
	mu        sync.Mutex
	incidents []*domain.FraudIncident
}

func newInMemoryIncidentRepo() *inMemoryIncidentRepo {
	return &inMemoryIncidentRepo{}
}

func (r *inMemoryIncidentRepo) Create(ctx context.Context, incident *domain.FraudIncident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incidents = append(r.incidents, incident)
	return nil
}

// --- Capture Notifier ---

// captureNotifier records the last delivered code per user so tests can
// confirm challenges without peeking at internals.
type captureNotifier struct {
	mu    sync.Mutex
	codes map[uuid.UUID]string
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{codes: make(map[uuid.UUID]string)}
}

func (n *captureNotifier) Send(ctx context.Context, userID uuid.UUID, purpose domain.ChallengePurpose, plainCode string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[userID] = plainCode
	return nil
}

func (n *captureNotifier) lastCode(userID uuid.UUID) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[userID]
}

// --- Static Key Provider ---

type staticKeyProvider struct{}

func (staticKeyProvider) Key() ([]byte, error) {
	return []byte(strings.Repeat("k", 32)), nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
