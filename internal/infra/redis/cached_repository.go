package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gasolinera-golang/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedMovementRepository keeps SumLitersOut results in Redis for ttl.
//
// Cached sums are keyed by a generation counter that every write bumps. A
// read takes the generation before it queries the inner repository, so a sum
// computed while a write lands is filed under the old generation and never
// served again. Stale keys are left to expire. Cache errors degrade to a
// direct read.
type CachedMovementRepository struct {
	client *redis.Client
	next   domain.MovementRepository
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedMovementRepository(client *redis.Client, next domain.MovementRepository, ttl time.Duration, logger zerolog.Logger) *CachedMovementRepository {
	return &CachedMovementRepository{client: client, next: next, ttl: ttl, logger: logger}
}

func (r *CachedMovementRepository) StoreMovement(ctx context.Context, m domain.Movement) error {
	if err := r.next.StoreMovement(ctx, m); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedMovementRepository) GetMovement(ctx context.Context, id uuid.UUID) (domain.Movement, error) {
	return r.next.GetMovement(ctx, id)
}

func (r *CachedMovementRepository) UpdateMovement(ctx context.Context, m domain.Movement) error {
	if err := r.next.UpdateMovement(ctx, m); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedMovementRepository) DeleteMovement(ctx context.Context, id uuid.UUID) error {
	if err := r.next.DeleteMovement(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedMovementRepository) ListMovements(ctx context.Context, from, to time.Time) ([]domain.Movement, error) {
	return r.next.ListMovements(ctx, from, to)
}

func (r *CachedMovementRepository) LastFinalBalance(ctx context.Context, fuelTypeID int) (float64, error) {
	return r.next.LastFinalBalance(ctx, fuelTypeID)
}

func (r *CachedMovementRepository) SumLitersOut(ctx context.Context, from, to time.Time) (float64, error) {
	if r.ttl <= 0 {
		return r.next.SumLitersOut(ctx, from, to)
	}

	gen, err := r.client.Get(ctx, LitersCacheGeneration).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Warn().Err(err).Msg("liters cache read failed")
		return r.next.SumLitersOut(ctx, from, to)
	}

	key := fmt.Sprintf("%s%d:%d:%d", LitersCachePrefix, gen, from.UnixNano(), to.UnixNano())
	cached, err := r.client.Get(ctx, key).Float64()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		r.logger.Warn().Err(err).Str("key", key).Msg("liters cache read failed")
	}

	total, err := r.next.SumLitersOut(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if err := r.client.Set(ctx, key, total, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("liters cache write failed")
	}
	return total, nil
}

func (r *CachedMovementRepository) PurgeMovements(ctx context.Context) error {
	if err := r.next.PurgeMovements(ctx); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedMovementRepository) invalidate(ctx context.Context) {
	if err := r.client.Incr(ctx, LitersCacheGeneration).Err(); err != nil {
		r.logger.Warn().Err(err).Msg("liters cache invalidation failed")
	}
}
