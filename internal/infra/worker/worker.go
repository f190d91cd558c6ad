package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gasolinera-golang/internal/domain"
	"gasolinera-golang/internal/metrics"

	json "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

var ErrQueueClosed = errors.New("movement queue closed")

// ChannelQueue is the in-process MovementQueue used when Redis is not
// configured. Enqueued payloads are lost on exit.
type ChannelQueue struct {
	pending chan []byte
	done    chan struct{}
	once    sync.Once
}

func NewChannelQueue(size int) *ChannelQueue {
	return &ChannelQueue{
		pending: make(chan []byte, size),
		done:    make(chan struct{}),
	}
}

func (q *ChannelQueue) Enqueue(ctx context.Context, payload []byte) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.pending <- payload:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return fmt.Errorf("enqueue: %w", ctx.Err())
	}
}

// Close stops accepting payloads. Workers drain what is already queued.
func (q *ChannelQueue) Close() {
	q.once.Do(func() { close(q.done) })
}

var movementPool = sync.Pool{
	New: func() any { return new(domain.Movement) },
}

// WorkerMovements stores queued movements into repo until ctx is done, or
// the queue is closed and drained.
func WorkerMovements(
	ctx context.Context,
	q *ChannelQueue,
	repo domain.MovementRepository,
	logger zerolog.Logger,
	m *metrics.Metrics,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case body := <-q.pending:
			process(ctx, body, repo, logger, m)
		case <-q.done:
			for {
				select {
				case body := <-q.pending:
					process(ctx, body, repo, logger, m)
				default:
					return
				}
			}
		}
	}
}

func process(ctx context.Context, body []byte, repo domain.MovementRepository, logger zerolog.Logger, m *metrics.Metrics) {
	mv := movementPool.Get().(*domain.Movement)
	defer movementPool.Put(mv)
	*mv = domain.Movement{}

	if err := json.Unmarshal(body, mv); err != nil {
		logger.Error().Err(err).Msg("failed to unmarshal movement")
		if m != nil {
			m.MovementsDropped.Inc()
		}
		return
	}
	if err := repo.StoreMovement(ctx, *mv); err != nil {
		logger.Error().Err(err).Str("movement", mv.ID.String()).Msg("failed to store movement")
		return
	}
	if m != nil {
		m.MovementsStored.Inc()
	}
}
