//go:build !release

package pprof

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/pprofhandler"
)

// Start serves the pprof endpoints under /debug/pprof/ on addr in the
// background. An empty addr disables profiling.
func Start(addr string, logger zerolog.Logger) {
	if addr == "" {
		return
	}
	go func() {
		logger.Info().Str("addr", addr).Msg("pprof enabled")
		if err := fasthttp.ListenAndServe(addr, pprofhandler.PprofHandler); err != nil {
			logger.Error().Err(err).Msg("pprof server failed")
		}
	}()
}
