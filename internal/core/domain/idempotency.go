package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog caches a finalized transaction result so a replayed request
// returns the prior outcome instead of double-applying.
type IdempotencyLog struct {
	Key           string    `json:"key"` // Format: "user_id:reference"
	TransactionID uuid.UUID `json:"transaction_id"`
	ResponseJSON  []byte    `json:"response_json"` // Cached result to return
	CreatedAt     time.Time `json:"created_at"`
}

// BuildIdempotencyKey constructs the standard key format.
func BuildIdempotencyKey(userID uuid.UUID, reference string) string {
	return userID.String() + ":" + reference
}
