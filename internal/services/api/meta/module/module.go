// Package module mounts the meta endpoints on the ops API
package module

import (
	"time"

	"ladderbot/internal/core/version"
	"ladderbot/internal/modkit"
	"ladderbot/internal/modkit/httpkit"
	metahttp "ladderbot/internal/services/api/meta/http"
)

// Module implements modkit.Module. It has no ports.
type Module struct {
	built   modkit.Built
	started time.Time
	probes  []metahttp.Dependency
}

// New mounts under /meta unless a prefix option overrides it. The store and
// chat session on deps become readiness probes when set.
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	m := &Module{
		built: modkit.Build(append([]modkit.Option{
			modkit.WithName("meta"),
			modkit.WithPrefix("/meta"),
		}, opts...)...),
		started: time.Now(),
	}
	if deps.SQL != nil {
		m.probes = append(m.probes, metahttp.Dependency{Name: "store", Target: deps.SQL})
	}
	if deps.Chat != nil {
		m.probes = append(m.probes, metahttp.Dependency{Name: "chat", Target: deps.Chat})
	}
	return m
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName:  version.Info().Service,
			StartedAt:    m.started,
			Dependencies: m.probes,
		})
	})
}

func (m *Module) Name() string { return m.built.Name }
func (m *Module) Ports() any   { return nil }
