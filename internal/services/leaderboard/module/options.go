package module

import (
	"ladderbot/internal/platform/config"
	"ladderbot/internal/services/leaderboard/domain"
)

// Options holds configuration for the leaderboard module
type Options struct {
	Thresholds         domain.Thresholds
	AdminChannel       string
	LeaderboardChannel string
	Concurrency        int
}

// FromConfig reads LEADERBOARD_ and CHANNEL_ settings
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("LEADERBOARD_")
	ch := cfg.Prefix("CHANNEL_")
	d := domain.DefaultThresholds()
	return Options{
		Thresholds: domain.Thresholds{
			MinHalfLife: c.MayFloat64("MIN_HALF_LIFE", d.MinHalfLife),
			MinMatches:  c.MayInt("MIN_MATCHES", d.MinMatches),
			High:        c.MayFloat64("HIGH", d.High),
			Mid:         c.MayFloat64("MID", d.Mid),
			PerBucket:   c.MayInt("PER_BUCKET", d.PerBucket),
			MaxChars:    c.MayInt("MAX_CHARS", d.MaxChars),
		},
		AdminChannel:       ch.MayString("ADMIN", "admin-mods"),
		LeaderboardChannel: ch.MayString("LEADERBOARD", "dupr-local-leaderboard"),
		Concurrency:        c.MayInt("CONCURRENCY", 8),
	}
}
