// Package module wires the verification flow and exposes its ports
package module

import (
	"ladderbot/internal/modkit"
	"ladderbot/internal/platform/chat"
	phttp "ladderbot/internal/platform/net/http"
	"ladderbot/internal/services/verify/domain"
	"ladderbot/internal/services/verify/service"
)

// Ports exposed by the verify module
type Ports struct {
	Flow   domain.FlowPort
	OnJoin chat.JoinHandler
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the verify module. It expects WithPorts(verify/domain.Ports)
// and a chat session on deps.
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("verify"),
	}, opts...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("verify module: expected WithPorts(verify/domain.Ports)")
	}
	if ports.Searcher == nil || ports.Profiles == nil {
		panic("verify module: Ports missing Searcher or Profiles")
	}
	if deps.Chat == nil {
		panic("verify module: deps.Chat is nil")
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.ReplyTimeout != 0 {
		cfg.ReplyTimeout = overrides.ReplyTimeout
	}
	if overrides.MaxAttempts != 0 {
		cfg.MaxAttempts = overrides.MaxAttempts
	}
	if overrides.AdminChannel != "" {
		cfg.AdminChannel = overrides.AdminChannel
	}
	if overrides.Roles != (domain.RoleTable{}) {
		cfg.Roles = overrides.Roles
	}

	svc := service.New(deps.Chat, ports.Searcher, ports.Profiles, service.Config{
		ReplyTimeout:       cfg.ReplyTimeout,
		MaxAttempts:        cfg.MaxAttempts,
		EscalateIncomplete: cfg.EscalateIncomplete,
		AdminChannel:       cfg.AdminChannel,
		Roles:              cfg.Roles,
		FollowUps:          service.DefaultFollowUps,
	})

	m := &Module{deps: deps, opts: cfg}
	m.ports = Ports{Flow: svc, OnJoin: svc.HandleJoin}
	return m
}

// Options returns the merged options the module runs with
func (m *Module) Options() Options { return m.opts }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "verify" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(phttp.Router) {}
