package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	phttp "ladderbot/internal/platform/net/http"
	"ladderbot/internal/platform/testkit"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func get(t *testing.T, d Deps, path string, out any) int {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), d)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %s: %v", path, err)
	}
	return rec.Code
}

func TestHealthAndService(t *testing.T) {
	started := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	d := Deps{
		ServiceName: "ladderbot",
		StartedAt:   started,
		Now:         func() time.Time { return started.Add(90 * time.Second) },
	}

	var h HealthResponse
	testkit.MustEqual(t, http.StatusOK, get(t, d, "/health", &h))
	testkit.MustEqual(t, HealthResponse{
		OK:      true,
		Service: "ladderbot",
		Started: "2024-06-01T12:00:00Z",
		Now:     "2024-06-01T12:01:30Z",
	}, h)

	var s ServiceResponse
	get(t, d, "/service", &s)
	testkit.MustEqual(t, int64(90), s.Uptime)
}

func TestReadyStatus(t *testing.T) {
	down := pinger{err: errors.New("db gone")}
	cases := []struct {
		name   string
		deps   []Dependency
		status string
	}{
		{"nothing wired", nil, "ok"},
		{"all up", []Dependency{{"store", pinger{}}, {"chat", pinger{}}}, "ok"},
		{"store down", []Dependency{{"store", down}, {"chat", pinger{}}}, "fail"},
		{"chat unprobed", []Dependency{{"store", pinger{}}, {"chat", struct{}{}}}, "degraded"},
		{"fail beats unknown", []Dependency{{"chat", struct{}{}}, {"store", down}}, "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var r ReadyResponse
			testkit.MustEqual(t, http.StatusOK, get(t, Deps{Dependencies: tc.deps}, "/ready", &r))
			testkit.MustEqual(t, tc.status, r.Status)
		})
	}
}

func TestReadyChecksKeepOrder(t *testing.T) {
	var r ReadyResponse
	get(t, Deps{Dependencies: []Dependency{
		{"store", pinger{err: errors.New("db gone")}},
		{"chat", pinger{}},
		{"dupr", nil},
	}}, "/ready", &r)
	testkit.MustEqual(t, []ReadyCheck{
		{Name: "store", Status: "fail", Error: "db gone"},
		{Name: "chat", Status: "ok"},
		{Name: "dupr", Status: "unknown"},
	}, r.Checks)
}
