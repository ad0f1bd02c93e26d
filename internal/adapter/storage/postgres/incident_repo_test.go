package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"wallet-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncidentRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIncidentRepo(mock)
	incident := &domain.FraudIncident{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Reference: domain.NewReference(),
		Kind:      domain.TransactionKindPurchase,
		Amount:    600000,
		Score:     100,
		Flags:     []string{domain.FlagHighValue, domain.FlagDuplicateReference},
		Tier:      domain.TierBlock,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO fraud_incidents").
		WithArgs(incident.ID, incident.UserID, incident.Reference, incident.Kind,
			incident.Amount, incident.Score, incident.Flags, incident.Tier, incident.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), incident)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncidentRepo_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIncidentRepo(mock)

	mock.ExpectExec("INSERT INTO fraud_incidents").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err = repo.Create(context.Background(), &domain.FraudIncident{ID: uuid.New()})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
