package application

import (
	"context"
	"fmt"
	"math"

	"gasolinera-golang/internal/domain"
	"gasolinera-golang/internal/metrics"

	"github.com/rs/zerolog"
)

const fetchFailureMessage = "failed to fetch liters distributed"

type LitersSource interface {
	FetchLiters(ctx context.Context) (domain.LitersReading, error)
}

// RenderLitersUseCase fetches the liters distributed once and writes
// "<value> L" into the target element. Failures are logged, never retried,
// and leave the element untouched.
type RenderLitersUseCase struct {
	Source    LitersSource
	Document  domain.Document
	ElementID string
	// MissingPlaceholder, when set, renders "<placeholder> L" for a payload
	// without the field and the raw text for a non-numeric one instead of
	// treating both as failures.
	MissingPlaceholder string
	Logger             zerolog.Logger
	Metrics            *metrics.WidgetMetrics
}

func (uc *RenderLitersUseCase) Execute(ctx context.Context) {
	text, err := uc.text(ctx)
	if err != nil {
		uc.Logger.Error().Err(err).Msg(fetchFailureMessage)
		uc.count(metrics.OutcomeFailed)
		return
	}

	el, ok := uc.Document.ElementByID(uc.ElementID)
	if !ok {
		uc.Logger.Error().Err(fmt.Errorf("element %q not found", uc.ElementID)).Msg(fetchFailureMessage)
		uc.count(metrics.OutcomeFailed)
		return
	}
	el.SetText(text)
	uc.Logger.Debug().Str("element", uc.ElementID).Str("text", text).Msg("liters rendered")
	uc.count(metrics.OutcomeRendered)
}

func (uc *RenderLitersUseCase) text(ctx context.Context) (string, error) {
	reading, err := uc.Source.FetchLiters(ctx)
	if err != nil {
		return "", err
	}

	switch {
	case !reading.Present:
		if uc.MissingPlaceholder != "" {
			return domain.FormatLitersText(uc.MissingPlaceholder), nil
		}
		return "", &domain.FetchError{Stage: "decode", Err: domain.ErrMissingField}
	case !reading.Numeric:
		if uc.MissingPlaceholder != "" {
			return domain.FormatLitersText(reading.Raw), nil
		}
		return "", &domain.FetchError{Stage: "decode", Err: fmt.Errorf("%w: %q is not a number", domain.ErrInvalidField, reading.Raw)}
	// Permissive mode prints any number as is.
	case uc.MissingPlaceholder != "":
	case math.IsNaN(reading.Liters) || math.IsInf(reading.Liters, 0):
		return "", &domain.FetchError{Stage: "decode", Err: fmt.Errorf("%w: %q is not finite", domain.ErrInvalidField, reading.Raw)}
	case reading.Liters < 0:
		return "", &domain.FetchError{Stage: "decode", Err: fmt.Errorf("%w: negative quantity %v", domain.ErrInvalidField, reading.Liters)}
	}
	return domain.FormatLiters(reading.Liters), nil
}

func (uc *RenderLitersUseCase) count(outcome string) {
	if uc.Metrics != nil {
		uc.Metrics.Renders.WithLabelValues(outcome).Inc()
	}
}
