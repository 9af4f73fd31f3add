package domain

import (
	"context"

	"ladderbot/internal/adapters/dupr"
	profdom "ladderbot/internal/services/profiles/domain"
)

// RatingSource is the rating service surface the sweep needs
type RatingSource interface {
	RatingByID(ctx context.Context, id int64) (float64, bool, error)
	Stats(ctx context.Context, id int64) (dupr.Stats, error)
	SearchByName(ctx context.Context, name string) ([]dupr.Candidate, error)
}

// SweeperPort runs sweeps, one at a time
type SweeperPort interface {
	// Sweep runs synchronously; a running sweep makes it fail with a Conflict error
	Sweep(ctx context.Context) (Report, error)
	// Start runs a sweep in the background and returns its run id
	Start(ctx context.Context) (string, error)
	Running() bool
	// LastReport returns the most recent finished sweep
	LastReport() (Report, bool)
}

// BoardPort computes the current board without touching the rating service
type BoardPort interface {
	Board(ctx context.Context) (Board, error)
}

// Ports are dependencies injected into the leaderboard module
type Ports struct {
	Ratings RatingSource      // required
	Store   profdom.StorePort // required
}
