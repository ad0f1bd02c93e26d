package domain

import (
	"time"

	"github.com/google/uuid"
)

// WalletStatus represents the administrative state of a wallet.
type WalletStatus string

const (
	WalletStatusActive    WalletStatus = "ACTIVE"
	WalletStatusFrozen    WalletStatus = "FROZEN"
	WalletStatusSuspended WalletStatus = "SUSPENDED"
)

// Actor identifies who performed the last wallet mutation.
type Actor string

const (
	ActorUser   Actor = "USER"
	ActorSystem Actor = "SYSTEM"
	ActorAdmin  Actor = "ADMIN"
)

// Wallet holds a single user's encrypted balance. The balance is decrypted only
// inside the ledger service and mutated only through a version-checked
// compare-and-swap: Version strictly increases by 1 per successful mutation,
// and the balance never goes negative.
type Wallet struct {
	ID               uuid.UUID    `json:"id"`
	UserID           uuid.UUID    `json:"user_id"`
	EncryptedBalance string       `json:"-"` // AES-256-GCM, never expose raw
	Version          int64        `json:"version"`
	Status           WalletStatus `json:"status"`
	FraudRiskScore   int          `json:"fraud_risk_score"` // Rolling indicator, 0-100
	LastUpdatedBy    Actor        `json:"last_updated_by"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// IsActive returns true if the wallet accepts mutations.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}
