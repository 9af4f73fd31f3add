package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/logger"
	phttp "ladderbot/internal/platform/net/http"
)

// AccessLogOptions configures the access log
type AccessLogOptions struct {
	// Slow logs requests at warn once they take this long; zero disables it
	Slow time.Duration
}

// AccessLogZerolog logs one line per request and puts the request id on the
// logger context so logger.C lines inside handlers carry it
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ctx := logger.WithRequest(r.Context(), chimw.GetReqID(r.Context()))
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			took := time.Since(start)
			log := logger.NamedC(ctx, "http")
			ev := log.Info()
			if opt.Slow > 0 && took >= opt.Slow {
				ev = log.Warn()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("took", took).
				Msg("http: request")
		})
	}
}

// RecoverJSON turns a handler panic into a 500 envelope and logs the stack
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := chimw.GetReqID(r.Context())
			logger.NamedC(r.Context(), "http").Error().
				Str("request_id", reqID).
				Interface("panic", v).
				Str("stack", string(debug.Stack())).
				Msg("http: panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			phttp.WriteError(w, r, perr.PanicErrf("panic recovered"))
		}()
		next.ServeHTTP(w, r)
	})
}
