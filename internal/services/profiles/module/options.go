package module

import "ladderbot/internal/platform/config"

// Options holds configuration for the profiles module
type Options struct {
	Table    string
	PageSize int
}

// FromConfig reads STORE_ settings
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("STORE_")
	return Options{
		Table:    c.MayString("TABLE", "tvp"),
		PageSize: c.MayInt("PAGE_SIZE", 100),
	}
}
