package domain

import (
	"time"

	"github.com/google/uuid"
)

// FraudIncident records a high-risk assessment outcome for later review.
// Incidents are written fire-and-forget; losing one never fails the
// transaction that triggered it.
type FraudIncident struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Reference string          `json:"reference"`
	Kind      TransactionKind `json:"kind"`
	Amount    int64           `json:"amount"`
	Score     int             `json:"score"`
	Flags     []string        `json:"flags"`
	Tier      RiskTier        `json:"tier"`
	CreatedAt time.Time       `json:"created_at"`
}
