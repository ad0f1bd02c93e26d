package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind represents the kind of money movement.
type TransactionKind string

const (
	TransactionKindFunding    TransactionKind = "FUNDING"
	TransactionKindPurchase   TransactionKind = "PURCHASE"
	TransactionKindRefund     TransactionKind = "REFUND"
	TransactionKindAdjustment TransactionKind = "ADJUSTMENT"
)

// ParseTransactionKind rejects unrecognized kind strings at the boundary.
func ParseTransactionKind(s string) (TransactionKind, bool) {
	switch TransactionKind(s) {
	case TransactionKindFunding, TransactionKindPurchase, TransactionKindRefund, TransactionKindAdjustment:
		return TransactionKind(s), true
	}
	return "", false
}

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is an immutable audit record of one attempted balance mutation.
// PreviousBalance and NewBalance are meaningful only once Status is COMPLETED.
// A Reference maps to at most one Transaction; corrections are new ADJUSTMENT
// transactions, never edits.
type Transaction struct {
	ID                uuid.UUID         `json:"id"`
	Reference         string            `json:"reference"` // Caller-visible idempotency key, unique
	UserID            uuid.UUID         `json:"user_id"`
	Kind              TransactionKind   `json:"kind"`
	Amount            int64             `json:"amount"` // In smallest unit; signed only for ADJUSTMENT
	PreviousBalance   int64             `json:"previous_balance"`
	NewBalance        int64             `json:"new_balance"`
	Status            TransactionStatus `json:"status"`
	FraudRiskScore    int               `json:"fraud_risk_score"`
	FraudFlags        []string          `json:"fraud_flags,omitempty"`
	Source            string            `json:"source,omitempty"`
	DeviceFingerprint string            `json:"-"`
	Origin            string            `json:"-"`
	Items             *string           `json:"items,omitempty"` // Opaque purchase detail
	CreatedAt         time.Time         `json:"created_at"`
	ProcessedAt       *time.Time        `json:"processed_at,omitempty"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusFailed
}

// Delta returns the signed balance change this transaction applies when it
// completes: credits are positive, debits negative.
func (t *Transaction) Delta() int64 {
	switch t.Kind {
	case TransactionKindPurchase:
		return -t.Amount
	case TransactionKindAdjustment:
		return t.Amount // Adjustments carry their own sign
	default:
		return t.Amount
	}
}

// NewReference mints the single canonical reference for a transaction. It is
// issued once at initiate time and threaded unchanged through challenge
// issuance and confirmation.
func NewReference() string {
	return "TXN-" + uuid.NewString()
}
