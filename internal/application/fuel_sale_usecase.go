package application

import (
	"context"
	"time"

	"gasolinera-golang/internal/domain"

	"github.com/google/uuid"
)

// RegisterFuelSaleUseCase turns every line of a sale into an automatic
// movement. Lines are validated up front so a bad ticket enqueues nothing.
type RegisterFuelSaleUseCase struct {
	Queue    domain.MovementQueue
	Location *time.Location
	Now      func() time.Time
}

func (uc *RegisterFuelSaleUseCase) Execute(ctx context.Context, sale domain.FuelSale) ([]domain.Movement, error) {
	if err := sale.Validate(); err != nil {
		return nil, err
	}
	at, err := recordedAt(sale.Date, uc.Location, uc.Now)
	if err != nil {
		return nil, err
	}

	movements := make([]domain.Movement, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		m := domain.Movement{
			ID:           uuid.New(),
			FuelTypeID:   line.FuelTypeID,
			LitersOut:    line.Liters,
			Automatic:    true,
			CarryBalance: true,
			RecordedAt:   at,
		}
		if err := enqueue(ctx, uc.Queue, m); err != nil {
			return movements, err
		}
		movements = append(movements, m)
	}
	return movements, nil
}
