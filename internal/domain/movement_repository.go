package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type MovementRepository interface {
	// StoreMovement inserts m, resolving CarryBalance and settling
	// FinalBalance atomically with the insert.
	StoreMovement(ctx context.Context, m Movement) error
	GetMovement(ctx context.Context, id uuid.UUID) (Movement, error)
	// UpdateMovement replaces a stored record. Automatic records are refused
	// with ErrAutomaticMovement.
	UpdateMovement(ctx context.Context, m Movement) error
	DeleteMovement(ctx context.Context, id uuid.UUID) error
	// ListMovements returns records in [from, to), newest first.
	ListMovements(ctx context.Context, from, to time.Time) ([]Movement, error)
	// LastFinalBalance is the FinalBalance of the newest record of the fuel
	// type, or 0 when there is none.
	LastFinalBalance(ctx context.Context, fuelTypeID int) (float64, error)
	// SumLitersOut adds LitersOut of movements recorded in [from, to).
	SumLitersOut(ctx context.Context, from, to time.Time) (float64, error)
	PurgeMovements(ctx context.Context) error
}

type MovementQueue interface {
	Enqueue(ctx context.Context, payload []byte) error
}
