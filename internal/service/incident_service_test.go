package service

import (
	"context"
	"testing"
	"time"

	"wallet-core/internal/core/domain"
	"wallet-core/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func TestIncidentService_Record_PersistsToRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIncidentRepository(ctrl)
	svc := NewIncidentService(mockRepo, zerolog.Nop())

	done := make(chan struct{})
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, incident *domain.FraudIncident) error {
			if incident.Tier != domain.TierBlock {
				t.Errorf("expected BLOCK, got %s", incident.Tier)
			}
			close(done)
			return nil
		},
	)

	svc.Record(context.Background(), &domain.FraudIncident{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Reference: domain.NewReference(),
		Kind:      domain.TransactionKindPurchase,
		Amount:    600000,
		Score:     100,
		Flags:     []string{domain.FlagDuplicateReference},
		Tier:      domain.TierBlock,
		CreatedAt: time.Now(),
	})

	select {
	case <-done:
		// OK
	case <-time.After(2 * time.Second):
		t.Fatal("fraud incident not persisted in time")
	}
}

func TestIncidentService_Record_NilRepo(t *testing.T) {
	svc := NewIncidentService(nil, zerolog.Nop())

	// Should not panic
	svc.Record(context.Background(), &domain.FraudIncident{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Reference: domain.NewReference(),
		Tier:      domain.TierManualReview,
		CreatedAt: time.Now(),
	})

	time.Sleep(50 * time.Millisecond) // let goroutine run
}
