package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gasolinera-golang/internal/domain"
	"gasolinera-golang/internal/metrics"

	json "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Worker moves queued movements into Repo. Each worker owns a processing
// list so an entry taken from the queue is not lost if the process dies
// before it is stored.
type Worker struct {
	Client       *redis.Client
	Repo         domain.MovementRepository
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics
	WorkerNum    int
	PollInterval time.Duration
}

func (w *Worker) Start(ctx context.Context) {
	processingQueue := fmt.Sprintf(MovementsProcessingQueue, w.WorkerNum)
	w.requeue(ctx, processingQueue)
	// Bookkeeping on the lists must finish even when ctx is cancelled mid-entry.
	bg := context.WithoutCancel(ctx)

	for ctx.Err() == nil {
		result, err := w.Client.RPopLPush(ctx, MovementsQueue, processingQueue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				w.Logger.Error().Err(err).Int("worker", w.WorkerNum).Msg("redis error")
			}
			w.sleep(ctx)
			continue
		}

		var m domain.Movement
		if err := json.Unmarshal([]byte(result), &m); err != nil {
			w.Logger.Error().Err(err).Int("worker", w.WorkerNum).Msg("failed to unmarshal movement")
			if w.Metrics != nil {
				w.Metrics.MovementsDropped.Inc()
			}
			w.Client.LRem(bg, processingQueue, 1, result)
			continue
		}

		if err := w.Repo.StoreMovement(ctx, m); err != nil {
			w.Logger.Error().Err(err).Int("worker", w.WorkerNum).Str("movement", m.ID.String()).Msg("failed to store movement")
			w.Client.LPush(bg, MovementsQueue, result)
			w.Client.LRem(bg, processingQueue, 1, result)
			w.sleep(ctx)
			continue
		}
		if w.Metrics != nil {
			w.Metrics.MovementsStored.Inc()
		}

		w.Client.LRem(bg, processingQueue, 1, result)
	}
}

// requeue hands entries left in processingQueue by a previous run back to
// the shared queue.
func (w *Worker) requeue(ctx context.Context, processingQueue string) {
	n := 0
	for {
		err := w.Client.RPopLPush(ctx, processingQueue, MovementsQueue).Err()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				w.Logger.Error().Err(err).Int("worker", w.WorkerNum).Msg("failed to requeue pending movements")
			}
			break
		}
		n++
	}
	if n > 0 {
		w.Logger.Warn().Int("worker", w.WorkerNum).Int("count", n).Msg("requeued pending movements")
	}
}

func (w *Worker) sleep(ctx context.Context) {
	d := w.PollInterval
	if d <= 0 {
		d = time.Second
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
