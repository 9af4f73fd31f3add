// Package httpkit is the route registration surface for ops modules. Handlers
// return (data, error) and the platform envelope is applied for them.
package httpkit

import (
	"net/http"
	"strings"

	phttp "ladderbot/internal/platform/net/http"
)

type (
	Router   = phttp.Router
	Response = phttp.Response
)

// HandlerFunc returns the payload for a 200, a Response for any other
// status, or an error mapped through its code
type HandlerFunc func(*http.Request) (any, error)

// Accepted wraps data in a 202
func Accepted(data any) Response { return phttp.Accepted(data) }

func (fn HandlerFunc) respond(r *http.Request) Response {
	out, err := fn(r)
	if err != nil {
		return phttp.Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return phttp.OK(out)
}

// Get registers fn for GET path
func Get(r Router, path string, fn HandlerFunc) { r.Get(path, phttp.Handle(fn.respond)) }

// Post registers fn for POST path. Request bodies are not read.
func Post(r Router, path string, fn HandlerFunc) { r.Post(path, phttp.Handle(fn.respond)) }

// MountVersion mounts a /{version} sub router with mw applied to it
//
//	httpkit.MountVersion(r, "v1", nil, board.MountRoutes)
func MountVersion(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/"+strings.Trim(version, "/"), func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}
