// Package module wires the rating sweep and leaderboard and exposes their ports
package module

import (
	"ladderbot/internal/modkit"
	phttp "ladderbot/internal/platform/net/http"
	"ladderbot/internal/services/leaderboard/domain"
	"ladderbot/internal/services/leaderboard/service"
)

// Ports exposed by the leaderboard module
type Ports struct {
	Sweeper domain.SweeperPort
	Board   domain.BoardPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the leaderboard module. It expects WithPorts(leaderboard/domain.Ports)
// and a chat session on deps.
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("leaderboard"),
	}, opts...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("leaderboard module: expected WithPorts(leaderboard/domain.Ports)")
	}
	if ports.Ratings == nil || ports.Store == nil {
		panic("leaderboard module: Ports missing Ratings or Store")
	}
	if deps.Chat == nil {
		panic("leaderboard module: deps.Chat is nil")
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.Thresholds != (domain.Thresholds{}) {
		cfg.Thresholds = overrides.Thresholds
	}
	if overrides.AdminChannel != "" {
		cfg.AdminChannel = overrides.AdminChannel
	}
	if overrides.LeaderboardChannel != "" {
		cfg.LeaderboardChannel = overrides.LeaderboardChannel
	}
	if overrides.Concurrency != 0 {
		cfg.Concurrency = overrides.Concurrency
	}

	svc := service.New(deps.Chat, ports.Ratings, ports.Store, service.Config{
		Thresholds:         cfg.Thresholds,
		AdminChannel:       cfg.AdminChannel,
		LeaderboardChannel: cfg.LeaderboardChannel,
		Concurrency:        cfg.Concurrency,
	})

	m := &Module{deps: deps, opts: cfg}
	m.ports = Ports{Sweeper: svc, Board: svc}
	return m
}

// Options returns the merged options the module runs with
func (m *Module) Options() Options { return m.opts }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "leaderboard" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; the ops API mounts the leaderboard routes
func (m *Module) MountRoutes(phttp.Router) {}
