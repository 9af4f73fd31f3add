// Package module wires the leaderboard routes into the ops API
package module

import (
	"ladderbot/internal/modkit"
	"ladderbot/internal/modkit/httpkit"
	lbhttp "ladderbot/internal/services/api/leaderboard/http"
	"ladderbot/internal/services/leaderboard/domain"
)

// Ports are the leaderboard ports this module serves
type Ports struct {
	Board   domain.BoardPort   // required
	Sweeper domain.SweeperPort // required
}

// Module implements the modkit.Module interface
type Module struct {
	built modkit.Built
	ports Ports
}

// New constructs the module; it expects WithPorts(Ports)
func New(_ modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("api-leaderboard"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Board == nil || ports.Sweeper == nil {
		panic("api-leaderboard module: expected WithPorts(Ports) with Board and Sweeper")
	}
	return &Module{built: b, ports: ports}
}

// MountRoutes implements the modkit.Module interface; routes sit at the version root
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		lbhttp.Register(rr, lbhttp.Deps{Board: m.ports.Board, Sweeper: m.ports.Sweeper})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.built.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
