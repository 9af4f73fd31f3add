package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "ladderbot/internal/platform/net/http"
	"ladderbot/internal/platform/testkit"
)

type sweepPorts struct{ Channel string }

func TestBuildLaterOptionsWin(t *testing.T) {
	b := Build(
		WithName("leaderboard"),
		WithPorts(sweepPorts{Channel: "a"}),
		WithName("sweeper"),
		WithPorts(sweepPorts{Channel: "b"}),
	)
	testkit.MustEqual(t, "sweeper", b.Name)
	testkit.MustEqual(t, any(sweepPorts{Channel: "b"}), b.Ports)
	testkit.MustEqual(t, "", b.Prefix)
}

func TestBuildCopiesMiddleware(t *testing.T) {
	mw := []func(http.Handler) http.Handler{func(h http.Handler) http.Handler { return h }}
	b := Build(WithMiddlewares(mw...))
	mw[0] = nil
	if b.Mw[0] == nil {
		t.Fatal("Build must not alias the caller's slice")
	}
}

func serve(t *testing.T, b Built, path string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	mux := chi.NewRouter()
	hit := false
	b.Mw = append(b.Mw, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hit = true
			next.ServeHTTP(w, r)
		})
	})
	b.Mount(phttp.AdaptChi(mux), func(r phttp.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec, hit
}

func TestMountUnderPrefix(t *testing.T) {
	rec, hit := serve(t, Build(WithPrefix("/meta")), "/meta/health")
	testkit.MustEqual(t, http.StatusNoContent, rec.Code)
	testkit.MustEqual(t, true, hit)

	rec, _ = serve(t, Build(WithPrefix("/meta")), "/health")
	testkit.MustEqual(t, http.StatusNotFound, rec.Code)
}

func TestMountAtRoot(t *testing.T) {
	rec, hit := serve(t, Build(), "/health")
	testkit.MustEqual(t, http.StatusNoContent, rec.Code)
	testkit.MustEqual(t, true, hit)
}
