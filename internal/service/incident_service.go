package service

import (
	"context"

	"wallet-core/internal/core/domain"
	"wallet-core/internal/core/ports"

	"github.com/rs/zerolog"
)

type incidentService struct {
	repo ports.IncidentRepository
	log  zerolog.Logger
}

// NewIncidentService creates a new fraud incident recorder.
// If repo is nil, incidents are only written to the logger.
func NewIncidentService(repo ports.IncidentRepository, log zerolog.Logger) ports.IncidentRecorder {
	return &incidentService{repo: repo, log: log}
}

// Record persists an incident asynchronously (fire-and-forget). Losing an
// incident never fails the transaction that triggered it.
func (s *incidentService) Record(ctx context.Context, incident *domain.FraudIncident) {
	go func() {
		s.log.Warn().
			Str("user_id", incident.UserID.String()).
			Str("reference", incident.Reference).
			Int("score", incident.Score).
			Strs("flags", incident.Flags).
			Str("tier", string(incident.Tier)).
			Msg("fraud incident")

		if s.repo != nil {
			if err := s.repo.Create(context.Background(), incident); err != nil {
				s.log.Warn().Err(err).Str("reference", incident.Reference).Msg("failed to persist fraud incident")
			}
		}
	}()
}
