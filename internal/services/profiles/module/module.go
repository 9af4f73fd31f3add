// Package module wires the profile store and exposes its ports
package module

import (
	"ladderbot/internal/modkit"
	phttp "ladderbot/internal/platform/net/http"
	"ladderbot/internal/services/profiles/domain"
	"ladderbot/internal/services/profiles/repo"
	"ladderbot/internal/services/profiles/service"
)

// Ports exposed by the profiles module
type Ports struct {
	Store   domain.StorePort
	Migrate domain.MigratePort
}

// Module implements the profiles module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the profiles module; zero override fields keep config values
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Table != "" {
		opts.Table = overrides.Table
	}
	if overrides.PageSize != 0 {
		opts.PageSize = overrides.PageSize
	}

	svc := service.New(deps.SQL, repo.New(deps.Dialect, opts.Table), service.Config{PageSize: opts.PageSize})

	m := &Module{deps: deps}
	m.ports = Ports{Store: svc, Migrate: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "profiles" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(phttp.Router) {}
