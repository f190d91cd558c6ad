package http

import (
	"errors"

	"gasolinera-golang/internal/application"
	"gasolinera-golang/internal/domain"

	json "github.com/json-iterator/go"
	"github.com/mailru/easyjson"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

type HealthChecker interface {
	Healthy() bool
}

type Handler struct {
	GetLitersUC      *application.GetLitersDistributedUseCase
	RecordMovementUC *application.RecordMovementUseCase
	ListMovementsUC  *application.ListMovementsUseCase
	EditMovementUC   *application.EditMovementUseCase
	DeleteMovementUC *application.DeleteMovementUseCase
	InitialBalanceUC *application.InitialBalanceUseCase
	FuelSaleUC       *application.RegisterFuelSaleUseCase
	Health           HealthChecker
	Logger           zerolog.Logger

	parser fastjson.ParserPool
}

func (h *Handler) HandleLitersDistributed(ctx *fasthttp.RequestCtx) {
	liters, err := h.GetLitersUC.Execute(ctx)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to get liters distributed")
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to get liters distributed")
		return
	}
	body, err := easyjson.Marshal(liters)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to encode liters distributed")
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to get liters distributed")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(body)
}

func (h *Handler) HandleMovement(ctx *fasthttp.RequestCtx) {
	in, err := h.decodeMovementInput(ctx.PostBody())
	if err != nil {
		h.Logger.Warn().Err(err).Msg("invalid movement body")
		writeError(ctx, fasthttp.StatusBadRequest, "invalid body")
		return
	}

	stored, err := h.RecordMovementUC.Execute(ctx, in)
	if err != nil {
		h.writeUseCaseError(ctx, err, "failed to enqueue movement")
		return
	}
	writeJSON(ctx, fasthttp.StatusAccepted, map[string]string{"id": stored.ID.String()})
}

// decodeMovementInput accepts only the client supplied fields; id and
// automatic are always assigned by the server.
func (h *Handler) decodeMovementInput(body []byte) (domain.MovementInput, error) {
	p := h.parser.Get()
	defer h.parser.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return domain.MovementInput{}, err
	}
	o, err := v.Object()
	if err != nil {
		return domain.MovementInput{}, err
	}

	var in domain.MovementInput
	if f := o.Get("fuelTypeId"); f != nil {
		if in.FuelTypeID, err = f.Int(); err != nil {
			return domain.MovementInput{}, errors.New("fuelTypeId: " + err.Error())
		}
	}
	if f := o.Get("initialBalance"); f != nil && f.Type() != fastjson.TypeNull {
		balance, err := f.Float64()
		if err != nil {
			return domain.MovementInput{}, errors.New("initialBalance: " + err.Error())
		}
		in.InitialBalance = &balance
	}
	if f := o.Get("litersIn"); f != nil {
		if in.LitersIn, err = f.Float64(); err != nil {
			return domain.MovementInput{}, errors.New("litersIn: " + err.Error())
		}
	}
	if f := o.Get("litersOut"); f != nil {
		if in.LitersOut, err = f.Float64(); err != nil {
			return domain.MovementInput{}, errors.New("litersOut: " + err.Error())
		}
	}
	if f := o.Get("fecha"); f != nil {
		b, err := f.StringBytes()
		if err != nil {
			return domain.MovementInput{}, errors.New("fecha: " + err.Error())
		}
		in.Date = string(b)
	}
	return in, nil
}

func (h *Handler) HandlePurge(ctx *fasthttp.RequestCtx) {
	if err := h.RecordMovementUC.PurgeMovements(ctx); err != nil {
		h.Logger.Error().Err(err).Msg("failed to purge movements")
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to purge movements")
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
}

func (h *Handler) HandleHealth(ctx *fasthttp.RequestCtx) {
	if h.Health != nil && !h.Health.Healthy() {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		ctx.SetBodyString("unavailable")
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyString("ok")
}

// writeUseCaseError maps domain errors to client statuses and logs the rest.
func (h *Handler) writeUseCaseError(ctx *fasthttp.RequestCtx, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidMovement):
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrMovementNotFound):
		writeError(ctx, fasthttp.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAutomaticMovement):
		writeError(ctx, fasthttp.StatusConflict, err.Error())
	default:
		h.Logger.Error().Err(err).Msg(msg)
		writeError(ctx, fasthttp.StatusInternalServerError, msg)
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error("failed to encode response", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}
