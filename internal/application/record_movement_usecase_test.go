package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"gasolinera-golang/internal/domain"
	"gasolinera-golang/internal/infra/database"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceQueue struct {
	payloads [][]byte
	err      error
}

func (q *sliceQueue) Enqueue(_ context.Context, payload []byte) error {
	if q.err != nil {
		return q.err
	}
	q.payloads = append(q.payloads, payload)
	return nil
}

// drain stores every queued payload the way a worker would.
func (q *sliceQueue) drain(t *testing.T, repo domain.MovementRepository) {
	t.Helper()
	for _, p := range q.payloads {
		var m domain.Movement
		require.NoError(t, json.Unmarshal(p, &m))
		require.NoError(t, repo.StoreMovement(context.Background(), m))
	}
	q.payloads = nil
}

func ptr(v float64) *float64 { return &v }

func TestRecordMovementEnqueues(t *testing.T) {
	q := &sliceQueue{}
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	uc := &RecordMovementUseCase{Queue: q, Repo: database.NewMemDB(), Now: func() time.Time { return at }}

	m, err := uc.Execute(context.Background(), domain.MovementInput{FuelTypeID: 1, InitialBalance: ptr(100), LitersOut: 20})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Equal(t, at, m.RecordedAt)
	assert.Equal(t, 80.0, m.FinalBalance)
	assert.False(t, m.Automatic)
	assert.False(t, m.CarryBalance)
	require.Len(t, q.payloads, 1)

	var queued domain.Movement
	require.NoError(t, json.Unmarshal(q.payloads[0], &queued))
	assert.Equal(t, m.ID, queued.ID)
	assert.Equal(t, 20.0, queued.LitersOut)
	assert.True(t, queued.RecordedAt.Equal(at))
}

func TestRecordMovementCarriesBalanceWhenOmitted(t *testing.T) {
	ctx := context.Background()
	q := &sliceQueue{}
	db := database.NewMemDB()
	loc := time.FixedZone("CST", -6*60*60)
	uc := &RecordMovementUseCase{Queue: q, Repo: db, Location: loc}

	_, err := uc.Execute(ctx, domain.MovementInput{FuelTypeID: 1, InitialBalance: ptr(1000), LitersIn: 500, Date: "2025-03-01"})
	require.NoError(t, err)
	m, err := uc.Execute(ctx, domain.MovementInput{FuelTypeID: 1, LitersOut: 300, Date: "2025-03-02"})
	require.NoError(t, err)
	assert.True(t, m.CarryBalance)
	assert.True(t, m.RecordedAt.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, loc)))

	q.drain(t, db)
	stored, err := db.GetMovement(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, stored.InitialBalance)
	assert.Equal(t, 1200.0, stored.FinalBalance)
}

func TestRecordMovementRejectsInvalid(t *testing.T) {
	q := &sliceQueue{}
	uc := &RecordMovementUseCase{Queue: q, Repo: database.NewMemDB()}

	for _, in := range []domain.MovementInput{
		{FuelTypeID: 1, LitersOut: -5},
		{FuelTypeID: 0, LitersOut: 5},
		{FuelTypeID: 1, LitersOut: 5, Date: "10/03/2025"},
	} {
		_, err := uc.Execute(context.Background(), in)
		assert.True(t, errors.Is(err, domain.ErrInvalidMovement), "%+v", in)
	}
	assert.Empty(t, q.payloads)
}

func TestRecordMovementQueueError(t *testing.T) {
	uc := &RecordMovementUseCase{Queue: &sliceQueue{err: errors.New("queue full")}, Repo: database.NewMemDB()}

	_, err := uc.Execute(context.Background(), domain.MovementInput{FuelTypeID: 1, LitersIn: 10})
	assert.ErrorContains(t, err, "queue full")
}

func TestRegisterFuelSale(t *testing.T) {
	ctx := context.Background()
	q := &sliceQueue{}
	db := database.NewMemDB()
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.StoreMovement(ctx, domain.Movement{ID: uuid.New(), FuelTypeID: 1, InitialBalance: 500, RecordedAt: at.Add(-time.Hour), LitersIn: 1}))

	uc := &RegisterFuelSaleUseCase{Queue: q, Now: func() time.Time { return at }}
	movements, err := uc.Execute(ctx, domain.FuelSale{Lines: []domain.FuelSaleLine{{FuelTypeID: 1, Liters: 20}, {FuelTypeID: 2, Liters: 7.5}}})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.True(t, m.Automatic)
		assert.Equal(t, at, m.RecordedAt)
	}

	q.drain(t, db)
	balance, err := db.LastFinalBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 481.0, balance)
	balance, err = db.LastFinalBalance(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, -7.5, balance)

	assert.ErrorIs(t, (&DeleteMovementUseCase{Repo: db}).Execute(ctx, movements[0].ID), domain.ErrAutomaticMovement)
}

func TestRegisterFuelSaleRejectsBadLineBeforeEnqueueing(t *testing.T) {
	q := &sliceQueue{}
	uc := &RegisterFuelSaleUseCase{Queue: q}

	_, err := uc.Execute(context.Background(), domain.FuelSale{Lines: []domain.FuelSaleLine{{FuelTypeID: 1, Liters: 20}, {FuelTypeID: 1, Liters: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
	_, err = uc.Execute(context.Background(), domain.FuelSale{})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
	assert.Empty(t, q.payloads)
}
