// Package api assembles the ops HTTP API: middleware, metrics, meta and the
// versioned leaderboard routes
package api

import (
	"ladderbot/internal/modkit"
	"ladderbot/internal/modkit/httpkit"
	"ladderbot/internal/platform/metrics"
	phttp "ladderbot/internal/platform/net/http"
	"ladderbot/internal/platform/net/middleware"

	lbapi "ladderbot/internal/services/api/leaderboard/module"
	metamod "ladderbot/internal/services/api/meta/module"
	lbdom "ladderbot/internal/services/leaderboard/domain"
)

// Options carries what the API needs from the running app
type Options struct {
	Deps           modkit.Deps
	Board          lbdom.BoardPort
	Sweeper        lbdom.SweeperPort
	CORSOrigins    []string
	EnableProfiler bool
}

// Mount installs the whole ops API on r
func Mount(r phttp.Router, opt Options) {
	r.Use(middleware.Defaults()...)
	if len(opt.CORSOrigins) > 0 {
		r.Use(middleware.CORS(middleware.CORSOptions{AllowedOrigins: opt.CORSOrigins}))
	}

	r.Handle("/metrics", metrics.Handler())
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	metamod.New(opt.Deps, modkit.WithMiddlewares(metrics.Instrument("meta"))).MountRoutes(r)

	board := lbapi.New(opt.Deps,
		modkit.WithPorts(lbapi.Ports{Board: opt.Board, Sweeper: opt.Sweeper}),
		modkit.WithMiddlewares(metrics.Instrument("leaderboard")),
	)

	httpkit.MountVersion(r, "v1", nil, func(v1 httpkit.Router) {
		board.MountRoutes(v1)
	})
}
