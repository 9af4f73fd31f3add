// Package http serves the meta endpoints: liveness, readiness, build and
// uptime
package http

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"ladderbot/internal/core/version"
	"ladderbot/internal/modkit/httpkit"
)

// Pinger is implemented by dependencies readiness can probe
type Pinger interface {
	Ping(context.Context) error
}

// Dependency is one readiness probe target. Targets that are not a Pinger
// report "unknown".
type Dependency struct {
	Name   string
	Target any
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName  string
	StartedAt    time.Time
	Dependencies []Dependency
	Now          func() time.Time // nil means time.Now
	PingTimeout  time.Duration    // zero means 2s
}

// HealthResponse answers /health
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ReadyCheck is one probe result: ok, fail or unknown
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse answers /ready. Any fail makes it fail; otherwise any
// unknown makes it degraded.
type ReadyResponse struct {
	Status string       `json:"status"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse answers /service
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"` // seconds
}

// Register mounts the meta routes on r
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.PingTimeout <= 0 {
		d.PingTimeout = 2 * time.Second
	}

	stamp := func(t time.Time) string { return t.UTC().Format(time.RFC3339) }

	httpkit.Get(r, "/health", func(*http.Request) (any, error) {
		return HealthResponse{OK: true, Service: d.ServiceName, Started: stamp(d.StartedAt), Now: stamp(d.Now())}, nil
	})
	httpkit.Get(r, "/ready", func(req *http.Request) (any, error) {
		checks := probe(req.Context(), d.Dependencies, d.PingTimeout)
		return ReadyResponse{Status: overall(checks), Checks: checks, Now: stamp(d.Now())}, nil
	})
	httpkit.Get(r, "/version", func(*http.Request) (any, error) {
		return version.Info(), nil
	})
	httpkit.Get(r, "/service", func(*http.Request) (any, error) {
		return ServiceResponse{
			Name:    d.ServiceName,
			Started: stamp(d.StartedAt),
			Uptime:  int64(d.Now().Sub(d.StartedAt) / time.Second),
		}, nil
	})
}

// probe pings every dependency at once and keeps their order
func probe(ctx context.Context, deps []Dependency, timeout time.Duration) []ReadyCheck {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := make([]ReadyCheck, len(deps))
	var g errgroup.Group
	for i, dep := range deps {
		out[i] = ReadyCheck{Name: dep.Name, Status: "unknown"}
		p, ok := dep.Target.(Pinger)
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := p.Ping(ctx); err != nil {
				out[i].Status, out[i].Error = "fail", err.Error()
			} else {
				out[i].Status = "ok"
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func overall(checks []ReadyCheck) string {
	status := "ok"
	for _, c := range checks {
		switch c.Status {
		case "fail":
			return "fail"
		case "unknown":
			status = "degraded"
		}
	}
	return status
}
