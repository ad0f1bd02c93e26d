package postgres

import (
	"context"
	"fmt"

	"wallet-core/internal/core/domain"
)

// IncidentRepo implements ports.IncidentRepository.
type IncidentRepo struct {
	pool Pool
}

// NewIncidentRepo creates a new IncidentRepo.
func NewIncidentRepo(pool Pool) *IncidentRepo {
	return &IncidentRepo{pool: pool}
}

// Create inserts a fraud incident. Incidents are fire-and-forget; callers
// treat failures as non-fatal.
func (r *IncidentRepo) Create(ctx context.Context, incident *domain.FraudIncident) error {
	query := `INSERT INTO fraud_incidents (id, user_id, reference, kind, amount, score, flags, tier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		incident.ID, incident.UserID, incident.Reference, incident.Kind,
		incident.Amount, incident.Score, incident.Flags, incident.Tier, incident.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert fraud incident: %w", err)
	}
	return nil
}
