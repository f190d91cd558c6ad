package application

import (
	"context"
	"fmt"
	"time"

	"gasolinera-golang/internal/domain"
)

// GetLitersDistributedUseCase sums the liters dispensed during the current
// calendar day in Location.
type GetLitersDistributedUseCase struct {
	Repo     domain.MovementRepository
	Location *time.Location
	Now      func() time.Time
}

func (uc *GetLitersDistributedUseCase) Execute(ctx context.Context) (domain.LitersDistributed, error) {
	from, to := uc.today()
	total, err := uc.Repo.SumLitersOut(ctx, from, to)
	if err != nil {
		return domain.LitersDistributed{}, fmt.Errorf("sum liters out: %w", err)
	}
	return domain.LitersDistributed{Liters: total}, nil
}

func (uc *GetLitersDistributedUseCase) today() (time.Time, time.Time) {
	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}
	loc := uc.Location
	if loc == nil {
		loc = time.Local
	}
	t := now().In(loc)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}
