//go:build release

package pprof

import "github.com/rs/zerolog"

func Start(addr string, logger zerolog.Logger) {
	if addr != "" {
		logger.Warn().Msg("pprof is not available in release builds")
	}
}
