package application

import (
	"context"
	"fmt"
	"time"

	"gasolinera-golang/internal/domain"

	"github.com/google/uuid"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type MovementPageQuery struct {
	Month   int
	Year    int
	Page    int
	PerPage int
}

type MovementPage struct {
	Records []domain.Movement `json:"records"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"perPage"`
}

// ListMovementsUseCase pages through the records of one calendar month in
// Location, newest first. Zero month and year mean the current month.
type ListMovementsUseCase struct {
	Repo     domain.MovementRepository
	Location *time.Location
	Now      func() time.Time
}

func (uc *ListMovementsUseCase) Execute(ctx context.Context, q MovementPageQuery) (MovementPage, error) {
	loc := uc.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}
	today := now().In(loc)
	if q.Month == 0 {
		q.Month = int(today.Month())
	}
	if q.Year == 0 {
		q.Year = today.Year()
	}
	if q.Month < 1 || q.Month > 12 || q.Year < 1 {
		return MovementPage{}, fmt.Errorf("%w: month %d of year %d", domain.ErrInvalidMovement, q.Month, q.Year)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	q.PerPage = min(q.PerPage, maxPerPage)

	from := time.Date(q.Year, time.Month(q.Month), 1, 0, 0, 0, 0, loc)
	all, err := uc.Repo.ListMovements(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return MovementPage{}, fmt.Errorf("list movements: %w", err)
	}

	page := MovementPage{Records: []domain.Movement{}, Total: len(all), Page: q.Page, PerPage: q.PerPage}
	start := (q.Page - 1) * q.PerPage
	if start < len(all) {
		page.Records = all[start:min(start+q.PerPage, len(all))]
	}
	return page, nil
}

// EditMovementUseCase rewrites a manual record in place. Unset fields keep
// their stored value. Later records are not rebalanced.
type EditMovementUseCase struct {
	Repo     domain.MovementRepository
	Location *time.Location
}

func (uc *EditMovementUseCase) Execute(ctx context.Context, id uuid.UUID, in domain.MovementInput) (domain.Movement, error) {
	m, err := uc.Repo.GetMovement(ctx, id)
	if err != nil {
		return domain.Movement{}, err
	}
	if m.Automatic {
		return domain.Movement{}, domain.ErrAutomaticMovement
	}

	m.FuelTypeID = in.FuelTypeID
	m.LitersIn = in.LitersIn
	m.LitersOut = in.LitersOut
	if in.InitialBalance != nil {
		m.InitialBalance = *in.InitialBalance
	}
	if in.Date != "" {
		at, err := domain.ParseMovementDate(in.Date, uc.Location)
		if err != nil {
			return domain.Movement{}, err
		}
		m.RecordedAt = at.UTC()
	}
	if err := m.Validate(); err != nil {
		return domain.Movement{}, err
	}
	m.Settle()

	if err := uc.Repo.UpdateMovement(ctx, m); err != nil {
		return domain.Movement{}, err
	}
	return m, nil
}

type DeleteMovementUseCase struct {
	Repo domain.MovementRepository
}

func (uc *DeleteMovementUseCase) Execute(ctx context.Context, id uuid.UUID) error {
	return uc.Repo.DeleteMovement(ctx, id)
}

// InitialBalanceUseCase returns the balance a new record of a fuel type
// opens with: the final balance of its newest record.
type InitialBalanceUseCase struct {
	Repo domain.MovementRepository
}

func (uc *InitialBalanceUseCase) Execute(ctx context.Context, fuelTypeID int) (float64, error) {
	if fuelTypeID <= 0 {
		return 0, fmt.Errorf("%w: fuelTypeId must be > 0", domain.ErrInvalidMovement)
	}
	balance, err := uc.Repo.LastFinalBalance(ctx, fuelTypeID)
	if err != nil {
		return 0, fmt.Errorf("last final balance: %w", err)
	}
	return balance, nil
}
