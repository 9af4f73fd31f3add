// Package http exposes the leaderboard and sweep trigger to the community site
package http

import (
	"net/http"

	"ladderbot/internal/modkit/httpkit"
	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/services/leaderboard/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Board   domain.BoardPort
	Sweeper domain.SweeperPort
}

type handlers struct {
	deps Deps
}

// Register mounts the leaderboard routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/leaderboard", h.board)
	httpkit.Post(r, "/sweeps", h.startSweep)
	httpkit.Get(r, "/sweeps/last", h.lastSweep)
}

// SweepStarted is the 202 payload for a triggered sweep
type SweepStarted struct {
	RunID string `json:"runId"`
}

func (h *handlers) board(r *http.Request) (any, error) {
	return h.deps.Board.Board(r.Context())
}

func (h *handlers) startSweep(r *http.Request) (any, error) {
	id, err := h.deps.Sweeper.Start(r.Context())
	if err != nil {
		return nil, err
	}
	return httpkit.Accepted(SweepStarted{RunID: id}), nil
}

func (h *handlers) lastSweep(_ *http.Request) (any, error) {
	rep, ok := h.deps.Sweeper.LastReport()
	if !ok {
		return nil, perr.NotFoundf("no sweep has finished yet")
	}
	return rep, nil
}
