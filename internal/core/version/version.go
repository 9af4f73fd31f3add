// Package version reports what build is running
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Stamped with -ldflags "-X ladderbot/internal/core/version.version=v1.2.0 ..."
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// BuildInfo is served by /meta/version and printed by --version
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

var info = sync.OnceValue(func() BuildInfo {
	b := BuildInfo{Service: "ladderbot", Version: version, Commit: commit, Date: date}
	if b.Commit != "none" {
		return b
	}
	// unstamped builds still carry the VCS revision when built from a checkout
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				b.Commit = s.Value
			case "vcs.time":
				if b.Date == "unknown" {
					b.Date = s.Value
				}
			}
		}
	}
	return b
})

// Info returns the build stamp
func Info() BuildInfo { return info() }

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (%s, %s)", b.Service, b.Version, b.Commit, b.Date)
}
