package dupr

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/testkit"

	"github.com/google/go-cmp/cmp"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, Token: "tok", APIKey: "key"})
}

func TestRatingByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		want   float64
		wantOK bool
		nan    bool
	}{
		{name: "string rating", body: `{"result":{"ratings":{"doubles":"4.213"}}}`, want: 4.213, wantOK: true},
		{name: "numeric rating", body: `{"result":{"ratings":{"doubles":3.5}}}`, want: 3.5, wantOK: true},
		{name: "not rated", body: `{"result":{"ratings":{"doubles":"NR"}}}`, wantOK: true, nan: true},
		{name: "no ratings", body: `{"result":{}}`},
		{name: "empty doubles", body: `{"result":{"ratings":{"doubles":""}}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/player/v1.0/42" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer tok" {
					t.Errorf("auth = %q", got)
				}
				_, _ = io.WriteString(w, tc.body)
			})
			got, ok, err := c.RatingByID(context.Background(), 42)
			if err != nil {
				t.Fatal(err)
			}
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if tc.nan {
				if !math.IsNaN(got) {
					t.Fatalf("want NaN, got %v", got)
				}
				return
			}
			if got != tc.want {
				t.Fatalf("rating = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSearchByName_RequestAndOrder(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/player/v1.0/search" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "" {
			t.Errorf("search must not send the api key")
		}
		var req searchReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if d := cmp.Diff(searchReq{Filter: DefaultGeo, Limit: 10, Offset: 0, Query: "*Jane Doe*"}, req); d != "" {
			t.Errorf("search body (-want +got):\n%s", d)
		}
		_, _ = io.WriteString(w, `{"status":"SUCCESS","result":{"total":2,"hits":[
			{"id":7,"fullName":"Jane Doe","shortAddress":"Boise, ID","gender":"FEMALE","ratings":{"doubles":"4.1"}},
			{"id":8,"fullName":"Jane Doerr","shortAddress":"Meridian, ID","gender":"FEMALE","ratings":{"doubles":"NR"}}]}}`)
	})

	got, err := c.SearchByName(context.Background(), "Jane Doe")
	if err != nil {
		t.Fatal(err)
	}
	testkit.MustEqual(t, []Candidate{
		{ExternalID: 7, FullName: "Jane Doe", ShortAddress: "Boise, ID", Gender: "FEMALE", RatingDoubles: "4.1"},
		{ExternalID: 8, FullName: "Jane Doerr", ShortAddress: "Meridian, ID", Gender: "FEMALE", RatingDoubles: "NR"},
	}, got)
}

func TestSearchByName_EmptyNameSkipsNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	got, err := c.SearchByName(context.Background(), "  ")
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no calls, got %d", calls.Load())
	}
}

func TestErrorsAreClassified(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/player/v1.0/1":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = io.WriteString(w, `{not json`)
		}
	})
	if _, _, err := c.RatingByID(context.Background(), 1); !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("non-2xx should be Upstream, got %v", err)
	}
	if _, err := c.SearchByName(context.Background(), "x"); !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("bad payload should be Upstream, got %v", err)
	}

	dead := NewClient(Options{BaseURL: "http://127.0.0.1:1"})
	if _, err := dead.Stats(context.Background(), 1); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("transport failure should be Unavailable, got %v", err)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want Stats
	}{
		{name: "full", body: `{"result":{"doubles":{"halfLife":"8.5","wins":12,"losses":9}}}`, want: Stats{HalfLife: 8.5, TotalMatches: 21}},
		{name: "dash half life", body: `{"result":{"doubles":{"halfLife":"-","wins":3,"losses":1}}}`, want: Stats{HalfLife: 0, TotalMatches: 4}},
		{name: "missing parts", body: `{"result":{"doubles":{"wins":5}}}`, want: Stats{TotalMatches: 5}},
		{name: "numeric half life", body: `{"result":{"doubles":{"halfLife":7,"wins":10,"losses":10}}}`, want: Stats{HalfLife: 7, TotalMatches: 20}},
		{name: "no doubles", body: `{"result":{}}`, want: Stats{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/user/calculated/v1.0/stats/9" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if r.Header.Get("x-api-key") != "key" {
					t.Errorf("missing api key")
				}
				_, _ = io.WriteString(w, tc.body)
			})
			got, err := c.Stats(context.Background(), 9)
			if err != nil {
				t.Fatal(err)
			}
			testkit.MustEqual(t, tc.want, got)
		})
	}
}
