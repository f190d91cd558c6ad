package redis

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type HealthStatus struct {
	Healthy   bool
	Error     string
	CheckedAt time.Time
}

// HealthCheckService pings Redis periodically and publishes the last result.
type HealthCheckService struct {
	redisClient *redis.Client
	interval    time.Duration
	logger      zerolog.Logger
	current     atomic.Value
}

func NewHealthCheckService(client *redis.Client, interval time.Duration, logger zerolog.Logger) *HealthCheckService {
	if interval <= 0 {
		interval = 6 * time.Second
	}
	h := &HealthCheckService{redisClient: client, interval: interval, logger: logger}
	h.current.Store(HealthStatus{Healthy: true})
	return h
}

// Start checks once, then every interval until ctx is done.
func (h *HealthCheckService) Start(ctx context.Context) {
	h.check(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.check(ctx)
		}
	}
}

func (h *HealthCheckService) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	status := HealthStatus{Healthy: true, CheckedAt: time.Now()}
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		status.Healthy = false
		status.Error = err.Error()
	}

	prev := h.GetCurrent()
	if prev.Healthy != status.Healthy {
		if status.Healthy {
			h.logger.Info().Msg("redis reachable again")
		} else {
			h.logger.Error().Str("error", status.Error).Msg("redis unreachable")
		}
	}
	h.current.Store(status)
}

func (h *HealthCheckService) GetCurrent() HealthStatus {
	return h.current.Load().(HealthStatus)
}

func (h *HealthCheckService) Healthy() bool {
	return h.GetCurrent().Healthy
}
