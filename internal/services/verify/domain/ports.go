package domain

import (
	"context"

	"ladderbot/internal/platform/chat"
	profdom "ladderbot/internal/services/profiles/domain"
)

// Searcher finds rating service profiles by name
type Searcher interface {
	SearchByName(ctx context.Context, name string) ([]Candidate, error)
}

// ProfileWriter records verified and attempted members
type ProfileWriter interface {
	GetProfile(ctx context.Context, memberID string) (profdom.Profile, bool, error)
	CreateProfile(ctx context.Context, memberID, displayName string, ratingID *int64) error
}

// FlowPort runs one verification conversation to completion
type FlowPort interface {
	Verify(ctx context.Context, m chat.Member) Result
}

// Ports are dependencies injected into the verify module
type Ports struct {
	Searcher Searcher      // required
	Profiles ProfileWriter // required
}
