// Package config reads settings from environment variables under a key prefix
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"ladderbot/internal/platform/logger"
)

// Conf reads env vars under a prefix such as "DUPR_" or "STORE_".
// The zero value reads unprefixed keys.
type Conf struct{ prefix string }

// New returns the root view
func New() Conf { return Conf{} }

// Prefix narrows the view, e.g. cfg.Prefix("VERIFY_").MayInt("MAX_ATTEMPTS", 5)
// reads VERIFY_MAX_ATTEMPTS
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// PrefixIf puts p in front of the whole prefix when on is set. Test mode
// uses it to read TEST_ROLES_* in place of ROLES_*.
func (c Conf) PrefixIf(on bool, p string) Conf {
	if on {
		return Conf{prefix: p + c.prefix}
	}
	return c
}

func (c Conf) lookup(key string) (name, raw string) {
	name = c.prefix + key
	return name, strings.TrimSpace(os.Getenv(name))
}

// read returns def for an unset key and for a value parse rejects
func read[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	name, raw := c.lookup(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		logger.Get().Warn().
			Str("key", name).
			Str("value", raw).
			Str("kind", kind).
			Msg("config: unparsable value, keeping default")
		return def
	}
	return v
}

// MayString returns the trimmed value, or def when unset
func (c Conf) MayString(key, def string) string {
	if _, raw := c.lookup(key); raw != "" {
		return raw
	}
	return def
}

// MayInt returns the value as an int, or def
func (c Conf) MayInt(key string, def int) int {
	return read(c, key, def, "int", strconv.Atoi)
}

// MayFloat64 returns the value as a float64, or def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return read(c, key, def, "float", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool accepts anything strconv.ParseBool does
func (c Conf) MayBool(key string, def bool) bool {
	return read(c, key, def, "bool", strconv.ParseBool)
}

// MayDuration accepts Go duration syntax ("90s", "1m30s")
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return read(c, key, def, "duration", time.ParseDuration)
}

// MayCSV splits on commas and drops blank items. A value with no items
// counts as unset.
func (c Conf) MayCSV(key string, def []string) []string {
	_, raw := c.lookup(key)
	var out []string
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
