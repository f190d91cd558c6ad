package http

import (
	"strconv"

	"gasolinera-golang/internal/metrics"

	"github.com/buaazp/fasthttprouter"
	"github.com/valyala/fasthttp"
)

func SetupRoutes(handler *Handler, m *metrics.Metrics) fasthttp.RequestHandler {
	router := fasthttprouter.New()
	router.GET("/datos_litros_distribuidos", instrument(m, "/datos_litros_distribuidos", handler.HandleLitersDistributed))
	router.GET("/inventario", instrument(m, "/inventario", handler.HandleListMovements))
	router.POST("/inventario", instrument(m, "/inventario", handler.HandleMovement))
	router.PUT("/inventario/:id", instrument(m, "/inventario/:id", handler.HandleEditMovement))
	router.DELETE("/inventario/:id", instrument(m, "/inventario/:id", handler.HandleDeleteMovement))
	router.GET("/obtener_inventario_inicial", instrument(m, "/obtener_inventario_inicial", handler.HandleInitialBalance))
	router.POST("/ventas_combustible", instrument(m, "/ventas_combustible", handler.HandleFuelSale))
	router.POST("/registrar_venta_combustible", instrument(m, "/registrar_venta_combustible", handler.HandleFuelSale))
	router.POST("/purge-movements", instrument(m, "/purge-movements", handler.HandlePurge))
	router.GET("/health", handler.HandleHealth)
	if m != nil {
		router.GET("/metrics", m.Handler())
	}

	return router.Handler
}

func instrument(m *metrics.Metrics, route string, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	if m == nil {
		return next
	}
	return func(ctx *fasthttp.RequestCtx) {
		next(ctx)
		m.Requests.WithLabelValues(route, strconv.Itoa(ctx.Response.StatusCode())).Inc()
	}
}
