package http

import (
	"errors"
	"fmt"

	"gasolinera-golang/internal/application"
	"gasolinera-golang/internal/domain"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

// HandleListMovements serves GET /inventario?mes=&anio=&page=&per_page=.
func (h *Handler) HandleListMovements(ctx *fasthttp.RequestCtx) {
	var (
		q   application.MovementPageQuery
		err error
	)
	for _, arg := range []struct {
		name string
		dst  *int
	}{
		{"mes", &q.Month},
		{"anio", &q.Year},
		{"page", &q.Page},
		{"per_page", &q.PerPage},
	} {
		if *arg.dst, err = queryInt(ctx, arg.name); err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}
	}

	page, err := h.ListMovementsUC.Execute(ctx, q)
	if err != nil {
		h.writeUseCaseError(ctx, err, "failed to list movements")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, page)
}

func (h *Handler) HandleEditMovement(ctx *fasthttp.RequestCtx) {
	id, ok := movementID(ctx)
	if !ok {
		return
	}
	in, err := h.decodeMovementInput(ctx.PostBody())
	if err != nil {
		h.Logger.Warn().Err(err).Msg("invalid movement body")
		writeError(ctx, fasthttp.StatusBadRequest, "invalid body")
		return
	}

	m, err := h.EditMovementUC.Execute(ctx, id, in)
	if err != nil {
		h.writeUseCaseError(ctx, err, "failed to edit movement")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, m)
}

func (h *Handler) HandleDeleteMovement(ctx *fasthttp.RequestCtx) {
	id, ok := movementID(ctx)
	if !ok {
		return
	}
	if err := h.DeleteMovementUC.Execute(ctx, id); err != nil {
		h.writeUseCaseError(ctx, err, "failed to delete movement")
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// HandleInitialBalance serves GET /obtener_inventario_inicial?tipo=N.
func (h *Handler) HandleInitialBalance(ctx *fasthttp.RequestCtx) {
	fuelTypeID, err := queryInt(ctx, "tipo")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	balance, err := h.InitialBalanceUC.Execute(ctx, fuelTypeID)
	if err != nil {
		h.writeUseCaseError(ctx, err, "failed to get initial balance")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]float64{"inventario_inicial": balance})
}

// HandleFuelSale serves POST /ventas_combustible with
// {"fecha": "...", "detalles": [{"fuelTypeId": 1, "liters": 20}]}.
func (h *Handler) HandleFuelSale(ctx *fasthttp.RequestCtx) {
	sale, err := h.decodeFuelSale(ctx.PostBody())
	if err != nil {
		h.Logger.Warn().Err(err).Msg("invalid sale body")
		writeError(ctx, fasthttp.StatusBadRequest, "invalid body")
		return
	}

	movements, err := h.FuelSaleUC.Execute(ctx, sale)
	if err != nil {
		h.writeUseCaseError(ctx, err, "failed to enqueue sale")
		return
	}
	ids := make([]string, len(movements))
	for i, m := range movements {
		ids[i] = m.ID.String()
	}
	writeJSON(ctx, fasthttp.StatusAccepted, map[string][]string{"ids": ids})
}

func (h *Handler) decodeFuelSale(body []byte) (domain.FuelSale, error) {
	p := h.parser.Get()
	defer h.parser.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return domain.FuelSale{}, err
	}
	if v.Type() != fastjson.TypeObject {
		return domain.FuelSale{}, errors.New("body must be an object")
	}

	var sale domain.FuelSale
	if f := v.Get("fecha"); f != nil {
		b, err := f.StringBytes()
		if err != nil {
			return domain.FuelSale{}, errors.New("fecha: " + err.Error())
		}
		sale.Date = string(b)
	}
	details := v.Get("detalles")
	if details == nil {
		return domain.FuelSale{}, errors.New("detalles: missing")
	}
	lines, err := details.Array()
	if err != nil {
		return domain.FuelSale{}, errors.New("detalles: " + err.Error())
	}
	for i, l := range lines {
		fuel, liters := l.Get("fuelTypeId"), l.Get("liters")
		if fuel == nil || liters == nil {
			return domain.FuelSale{}, fmt.Errorf("detalles[%d]: fuelTypeId and liters are required", i)
		}
		var line domain.FuelSaleLine
		if line.FuelTypeID, err = fuel.Int(); err != nil {
			return domain.FuelSale{}, fmt.Errorf("detalles[%d].fuelTypeId: %w", i, err)
		}
		if line.Liters, err = liters.Float64(); err != nil {
			return domain.FuelSale{}, fmt.Errorf("detalles[%d].liters: %w", i, err)
		}
		sale.Lines = append(sale.Lines, line)
	}
	return sale, nil
}

func movementID(ctx *fasthttp.RequestCtx) (uuid.UUID, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid movement id")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads a non-negative integer query argument; 0 when absent.
func queryInt(ctx *fasthttp.RequestCtx, name string) (int, error) {
	args := ctx.QueryArgs()
	if !args.Has(name) {
		return 0, nil
	}
	n, err := args.GetUint(name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}
