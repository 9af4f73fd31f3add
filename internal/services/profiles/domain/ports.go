package domain

import "context"

// StorePort is the profile store surface shared by verify, leaderboard and the ops API.
// Implementations are safe for concurrent use.
type StorePort interface {
	GetProfile(ctx context.Context, memberID string) (Profile, bool, error)
	CreateProfile(ctx context.Context, memberID, displayName string, ratingID *int64) error
	RenameProfile(ctx context.Context, memberID, displayName string) error
	GetLatestSnapshot(ctx context.Context, memberID string) (Snapshot, bool, error)
	AppendSnapshot(ctx context.Context, s Snapshot) error
	ListAllProfiles(ctx context.Context) ([]ProfileRef, error)
}

// MigratePort applies the embedded schema
type MigratePort interface {
	Migrate(ctx context.Context) error
}
