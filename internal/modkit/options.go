package modkit

import (
	"net/http"

	phttp "ladderbot/internal/platform/net/http"
)

// Option adjusts how a module is built
type Option func(*Built)

// Built is the resolved option set a module constructor reads
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	// Ports carries the port set the module depends on, owned by the module's domain
	Ports any
}

// WithName names the module for logs
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix mounts the module's routes under prefix
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends per module middleware, applied in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts hands a module the ports it depends on
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// Mount runs register on a sub router scoped to the prefix, or on a group at
// r's root when there is none, with the module middleware applied
func (b Built) Mount(r phttp.Router, register func(phttp.Router)) {
	attach := func(sub phttp.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		register(sub)
	}
	if b.Prefix == "" {
		r.Group(attach)
		return
	}
	r.Route(b.Prefix, attach)
}
