package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "ladderbot/internal/platform/errors"
	phttp "ladderbot/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func serve(t *testing.T, mount func(Router), method, path string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	mux := chi.NewRouter()
	mount(phttp.AdaptChi(mux))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	var env phttp.Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestGet_WrapsDataInEnvelope(t *testing.T) {
	t.Parallel()

	rec, env := serve(t, func(r Router) {
		Get(r, "/x", func(*http.Request) (any, error) { return map[string]int{"n": 1}, nil })
	}, http.MethodGet, "/x")
	if rec.Code != http.StatusOK || env.StatusCode != http.StatusOK {
		t.Fatalf("status = %d env=%+v", rec.Code, env)
	}
	if m, ok := env.Data.(map[string]any); !ok || m["n"] != float64(1) {
		t.Fatalf("data = %#v", env.Data)
	}
}

func TestPost_ResponsePassthroughAndErrors(t *testing.T) {
	t.Parallel()

	rec, _ := serve(t, func(r Router) {
		Post(r, "/go", func(*http.Request) (any, error) { return Accepted("queued"), nil })
	}, http.MethodPost, "/go")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}

	rec, env := serve(t, func(r Router) {
		Post(r, "/go", func(*http.Request) (any, error) { return nil, perr.Conflictf("busy") })
	}, http.MethodPost, "/go")
	if rec.Code != http.StatusConflict || env.Error != "busy" {
		t.Fatalf("status = %d env=%+v", rec.Code, env)
	}

	rec, _ = serve(t, func(r Router) {
		Get(r, "/boom", func(*http.Request) (any, error) { return nil, errors.New("plain") })
	}, http.MethodGet, "/boom")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("plain error status = %d", rec.Code)
	}
}

func TestMountVersion_PrefixAndMiddleware(t *testing.T) {
	t.Parallel()

	hit := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hit = true
			next.ServeHTTP(w, r)
		})
	}
	rec, _ := serve(t, func(r Router) {
		MountVersion(r, "/v1/", []func(http.Handler) http.Handler{mw}, func(api Router) {
			Get(api, "/ping", func(*http.Request) (any, error) { return "pong", nil })
		})
	}, http.MethodGet, "/v1/ping")
	if rec.Code != http.StatusOK || !hit {
		t.Fatalf("status = %d middleware hit = %v", rec.Code, hit)
	}
}
