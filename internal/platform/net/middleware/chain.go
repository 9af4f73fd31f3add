// Package middleware holds the ops router's middleware. Everything beyond
// the access log and panic recovery comes from chi.
package middleware

import (
	"net/http"
	"slices"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Chain is an ordered list of middleware, outermost first
type Chain = []func(http.Handler) http.Handler

// Defaults is what every ops router starts with. RequestID runs before the
// access log and recovery so both can report the id.
func Defaults() Chain {
	return Chain{
		chimw.RealIP,
		chimw.RequestID,
		RecoverJSON,
		AccessLogZerolog(AccessLogOptions{Slow: 500 * time.Millisecond}),
		chimw.Timeout(30 * time.Second),
		chimw.NoCache,
	}
}

// CORSOptions narrows go-chi/cors to what the community site needs
type CORSOptions struct {
	AllowedOrigins []string
	MaxAge         int // seconds
}

// CORS lets the listed origins read the board and trigger sweeps
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: slices.Clone(o.AllowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         o.MaxAge,
	})
}
