package http

import (
	"context"
	"testing"
	"time"

	"gasolinera-golang/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

func TestHandleListMovements(t *testing.T) {
	a := newApp(nil)
	ctx := context.Background()
	for i, at := range []time.Time{testDay.Add(-time.Hour), testDay, testDay.AddDate(0, -1, 0)} {
		require.NoError(t, a.db.StoreMovement(ctx, domain.Movement{ID: uuid.New(), FuelTypeID: 1, LitersIn: float64(i + 1), RecordedAt: at}))
	}

	rc := a.do(fasthttp.MethodGet, "/inventario?per_page=1", "")
	require.Equal(t, fasthttp.StatusOK, rc.Response.StatusCode())
	v, err := fastjson.ParseBytes(rc.Response.Body())
	require.NoError(t, err)
	assert.Equal(t, 2, v.GetInt("total"))
	assert.Equal(t, 1, v.GetInt("perPage"))
	records := v.GetArray("records")
	require.Len(t, records, 1)
	assert.Equal(t, 2.0, records[0].GetFloat64("litersIn"))

	rc = a.do(fasthttp.MethodGet, "/inventario?mes=2&anio=2025", "")
	v, err = fastjson.ParseBytes(rc.Response.Body())
	require.NoError(t, err)
	assert.Equal(t, 1, v.GetInt("total"))

	rc = a.do(fasthttp.MethodGet, "/inventario?mes=1&anio=2020", "")
	assert.JSONEq(t, `{"records": [], "total": 0, "page": 1, "perPage": 20}`, string(rc.Response.Body()))

	for _, uri := range []string{"/inventario?mes=13", "/inventario?page=-1", "/inventario?anio=dos"} {
		rc = a.do(fasthttp.MethodGet, uri, "")
		assert.Equal(t, fasthttp.StatusBadRequest, rc.Response.StatusCode(), uri)
	}
}

func TestHandleMovementWithDateAndBalance(t *testing.T) {
	a := newApp(nil)

	rc := a.do(fasthttp.MethodPost, "/inventario", `{"fuelTypeId": 2, "initialBalance": 1000, "litersIn": 250, "fecha": "2025-03-01"}`)
	require.Equal(t, fasthttp.StatusAccepted, rc.Response.StatusCode())
	rc = a.do(fasthttp.MethodPost, "/inventario", `{"fuelTypeId": 2, "initialBalance": null, "litersOut": 50, "fecha": "2025-03-02T08:00:00Z"}`)
	require.Equal(t, fasthttp.StatusAccepted, rc.Response.StatusCode())
	a.drain()

	rc = a.do(fasthttp.MethodGet, "/obtener_inventario_inicial?tipo=2", "")
	require.Equal(t, fasthttp.StatusOK, rc.Response.StatusCode())
	assert.JSONEq(t, `{"inventario_inicial": 1200}`, string(rc.Response.Body()))

	list, err := a.db.ListMovements(context.Background(), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].RecordedAt.Equal(time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1250.0, list[0].InitialBalance)
}

func TestHandleInitialBalanceInvalid(t *testing.T) {
	a := newApp(nil)
	for _, uri := range []string{"/obtener_inventario_inicial", "/obtener_inventario_inicial?tipo=x", "/obtener_inventario_inicial?tipo=0"} {
		rc := a.do(fasthttp.MethodGet, uri, "")
		assert.Equal(t, fasthttp.StatusBadRequest, rc.Response.StatusCode(), uri)
	}
}

func TestHandleEditMovement(t *testing.T) {
	a := newApp(nil)
	ctx := context.Background()
	manual := domain.Movement{ID: uuid.New(), FuelTypeID: 1, InitialBalance: 100, LitersIn: 10, RecordedAt: testDay}
	sale := domain.Movement{ID: uuid.New(), FuelTypeID: 1, LitersOut: 5, Automatic: true, RecordedAt: testDay}
	require.NoError(t, a.db.StoreMovement(ctx, manual))
	require.NoError(t, a.db.StoreMovement(ctx, sale))

	rc := a.do(fasthttp.MethodPut, "/inventario/"+manual.ID.String(), `{"fuelTypeId": 1, "litersIn": 40}`)
	require.Equal(t, fasthttp.StatusOK, rc.Response.StatusCode())
	v, err := fastjson.ParseBytes(rc.Response.Body())
	require.NoError(t, err)
	assert.Equal(t, 140.0, v.GetFloat64("finalBalance"))

	got, err := a.db.GetMovement(ctx, manual.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.LitersIn)

	tests := []struct {
		name string
		uri  string
		body string
		want int
	}{
		{"automatic", "/inventario/" + sale.ID.String(), `{"fuelTypeId": 1, "litersOut": 1}`, fasthttp.StatusConflict},
		{"unknown", "/inventario/" + uuid.NewString(), `{"fuelTypeId": 1, "litersOut": 1}`, fasthttp.StatusNotFound},
		{"bad id", "/inventario/42", `{"fuelTypeId": 1, "litersOut": 1}`, fasthttp.StatusBadRequest},
		{"invalid", "/inventario/" + manual.ID.String(), `{"fuelTypeId": 1}`, fasthttp.StatusBadRequest},
		{"bad body", "/inventario/" + manual.ID.String(), `null`, fasthttp.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := a.do(fasthttp.MethodPut, tt.uri, tt.body)
			assert.Equal(t, tt.want, rc.Response.StatusCode())
		})
	}
}

func TestHandleDeleteMovement(t *testing.T) {
	a := newApp(nil)
	ctx := context.Background()
	manual := domain.Movement{ID: uuid.New(), FuelTypeID: 1, LitersIn: 10, RecordedAt: testDay}
	sale := domain.Movement{ID: uuid.New(), FuelTypeID: 1, LitersOut: 5, Automatic: true, RecordedAt: testDay}
	require.NoError(t, a.db.StoreMovement(ctx, manual))
	require.NoError(t, a.db.StoreMovement(ctx, sale))

	rc := a.do(fasthttp.MethodDelete, "/inventario/"+manual.ID.String(), "")
	assert.Equal(t, fasthttp.StatusNoContent, rc.Response.StatusCode())
	rc = a.do(fasthttp.MethodDelete, "/inventario/"+manual.ID.String(), "")
	assert.Equal(t, fasthttp.StatusNotFound, rc.Response.StatusCode())
	rc = a.do(fasthttp.MethodDelete, "/inventario/"+sale.ID.String(), "")
	assert.Equal(t, fasthttp.StatusConflict, rc.Response.StatusCode())
	assert.Equal(t, 1, a.db.Len())
}

func TestHandleFuelSale(t *testing.T) {
	a := newApp(nil)
	require.NoError(t, a.db.StoreMovement(context.Background(), domain.Movement{ID: uuid.New(), FuelTypeID: 1, InitialBalance: 500, LitersIn: 100, RecordedAt: testDay.Add(-time.Hour)}))

	rc := a.do(fasthttp.MethodPost, "/ventas_combustible", `{"detalles": [{"fuelTypeId": 1, "liters": 30}, {"fuelTypeId": 1, "liters": 12}]}`)
	require.Equal(t, fasthttp.StatusAccepted, rc.Response.StatusCode())
	v, err := fastjson.ParseBytes(rc.Response.Body())
	require.NoError(t, err)
	assert.Len(t, v.GetArray("ids"), 2)
	a.drain()

	rc = a.do(fasthttp.MethodGet, "/obtener_inventario_inicial?tipo=1", "")
	assert.JSONEq(t, `{"inventario_inicial": 558}`, string(rc.Response.Body()))
	rc = a.do(fasthttp.MethodGet, "/datos_litros_distribuidos", "")
	assert.JSONEq(t, `{"litros_distribuidos": 42}`, string(rc.Response.Body()))
}

func TestHandleFuelSaleInvalid(t *testing.T) {
	for _, body := range []string{
		`[]`,
		`{}`,
		`{"detalles": []}`,
		`{"detalles": [{"fuelTypeId": 1}]}`,
		`{"detalles": [{"fuelTypeId": 1, "liters": -2}]}`,
		`{"fecha": "mañana", "detalles": [{"fuelTypeId": 1, "liters": 2}]}`,
	} {
		rc := newApp(nil).do(fasthttp.MethodPost, "/ventas_combustible", body)
		assert.Equal(t, fasthttp.StatusBadRequest, rc.Response.StatusCode(), body)
	}
}
