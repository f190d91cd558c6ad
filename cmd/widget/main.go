package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gasolinera-golang/internal/application"
	"gasolinera-golang/internal/config"
	"gasolinera-golang/internal/infra/dom"
	"gasolinera-golang/internal/infra/gateway"
	"gasolinera-golang/internal/logging"
	"gasolinera-golang/internal/metrics"
)

// widget loads the liters distributed once and prints the element it
// rendered, or nothing when the fetch failed. With LITERS_METRICS_FILE set
// the render outcome is also written as a Prometheus textfile.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger := logging.Component(logging.New(cfg.LogLevel, cfg.LogFormat), "widget")

	client, err := gateway.NewLitersClient(cfg.LitersBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid LITERS_BASE_URL")
	}

	if cfg.LitersTimeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, cfg.LitersTimeout)
		defer cancelTimeout()
	}

	el := dom.NewElement(cfg.LitersElementID, "")
	render := &application.RenderLitersUseCase{
		Source:             client,
		Document:           dom.NewDocument(el),
		ElementID:          cfg.LitersElementID,
		MissingPlaceholder: cfg.LitersMissingPlaceholder,
		Logger:             logger,
		Metrics:            metrics.NewWidget(),
	}
	render.Execute(ctx)

	if cfg.LitersMetricsFile != "" {
		if err := render.Metrics.WriteToTextfile(cfg.LitersMetricsFile); err != nil {
			logger.Error().Err(err).Str("path", cfg.LitersMetricsFile).Msg("failed to write widget metrics")
		}
	}

	if text := el.Text(); text != "" {
		fmt.Println(text)
	}
}
