package application

import (
	"context"
	"fmt"
	"time"

	"gasolinera-golang/internal/domain"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
)

type RecordMovementUseCase struct {
	Queue    domain.MovementQueue
	Repo     domain.MovementRepository
	Location *time.Location
	Now      func() time.Time
}

// Execute builds a manual movement from in, validates it and hands it to the
// queue. The workers persist it asynchronously. Without an initial balance
// the record opens at the last final balance of its fuel type.
func (uc *RecordMovementUseCase) Execute(ctx context.Context, in domain.MovementInput) (domain.Movement, error) {
	recordedAt, err := recordedAt(in.Date, uc.Location, uc.Now)
	if err != nil {
		return domain.Movement{}, err
	}
	m := domain.Movement{
		ID:         uuid.New(),
		FuelTypeID: in.FuelTypeID,
		LitersIn:   in.LitersIn,
		LitersOut:  in.LitersOut,
		RecordedAt: recordedAt,
	}
	if in.InitialBalance != nil {
		m.InitialBalance = *in.InitialBalance
	} else {
		m.CarryBalance = true
	}
	if err := m.Validate(); err != nil {
		return domain.Movement{}, err
	}
	m.Settle()

	if err := enqueue(ctx, uc.Queue, m); err != nil {
		return domain.Movement{}, err
	}
	return m, nil
}

func (uc *RecordMovementUseCase) PurgeMovements(ctx context.Context) error {
	return uc.Repo.PurgeMovements(ctx)
}

func enqueue(ctx context.Context, q domain.MovementQueue, m domain.Movement) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode movement: %w", err)
	}
	if err := q.Enqueue(ctx, payload); err != nil {
		return fmt.Errorf("enqueue movement: %w", err)
	}
	return nil
}

// recordedAt resolves a client date, or the current instant when it is empty.
func recordedAt(date string, loc *time.Location, now func() time.Time) (time.Time, error) {
	if date == "" {
		if now == nil {
			now = time.Now
		}
		return now().UTC(), nil
	}
	t, err := domain.ParseMovementDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
