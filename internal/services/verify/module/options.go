package module

import (
	"time"

	"ladderbot/internal/platform/config"
	"ladderbot/internal/services/verify/domain"
)

// Options holds configuration for the verify module
type Options struct {
	TestMode           bool
	ReplyTimeout       time.Duration
	MaxAttempts        int
	EscalateIncomplete bool
	AdminChannel       string
	Roles              domain.RoleTable
}

// FromConfig reads VERIFY_, CHANNEL_ and ROLES_ settings. TEST_MODE swaps in
// the TEST_ROLES_ table and shortens the reply timeout.
func FromConfig(cfg config.Conf) Options {
	testMode := cfg.MayBool("TEST_MODE", false)
	v := cfg.Prefix("VERIFY_")

	timeout := 5 * time.Minute
	if testMode {
		timeout = 30 * time.Second
	}

	return Options{
		TestMode:           testMode,
		ReplyTimeout:       v.MayDuration("REPLY_TIMEOUT", timeout),
		MaxAttempts:        v.MayInt("MAX_ATTEMPTS", 5),
		EscalateIncomplete: v.MayBool("ESCALATE_INCOMPLETE", true),
		AdminChannel:       cfg.Prefix("CHANNEL_").MayString("ADMIN", "admin-mods"),
		Roles:              RolesFromConfig(cfg, testMode),
	}
}

// RolesFromConfig reads the role table for the selected environment
func RolesFromConfig(cfg config.Conf, testMode bool) domain.RoleTable {
	r := cfg.Prefix("ROLES_").PrefixIf(testMode, "TEST_")
	return domain.RoleTable{
		Unverified: r.MayString("UNVERIFIED", ""),
		Verified:   r.MayString("VERIFIED", ""),
		Men:        r.MayString("MEN", ""),
		Women:      r.MayString("WOMEN", ""),
	}
}
