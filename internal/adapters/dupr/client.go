// Package dupr is the rating service client. Calls are never retried or cached.
package dupr

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/logger"
	"ladderbot/internal/platform/metrics"

	"github.com/go-resty/resty/v2"
)

const (
	baseURLDefault = "https://api.dupr.gg"
	defaultTimeout = 15 * time.Second
	searchLimit    = 10
)

// DefaultGeo is the search area used when none is configured
var DefaultGeo = GeoFilter{Lat: 43.61529, Lng: -116.36337, RadiusMeters: 80467.2}

// Options configures the Client
type Options struct {
	BaseURL string
	Token   string
	APIKey  string // sent only on the stats call
	Timeout time.Duration
	Geo     GeoFilter
}

// Client talks to the rating service, safe for concurrent use
type Client struct {
	rc   *resty.Client
	opts Options
	log  logger.Logger
}

// NewClient builds a client with defaults filled in
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Geo == (GeoFilter{}) {
		o.Geo = DefaultGeo
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(o.BaseURL, "/")).
		SetTimeout(o.Timeout).
		SetHeader("Accept", "application/json")
	if o.Token != "" {
		rc.SetAuthToken(o.Token)
	}
	return &Client{rc: rc, opts: o, log: *logger.Named("dupr")}
}

// RatingByID returns the doubles rating for a player. ok is false when the
// player has no doubles rating; a non-numeric rating such as "NR" is NaN.
func (c *Client) RatingByID(ctx context.Context, id int64) (float64, bool, error) {
	var doc playerDoc
	err := c.do(ctx, "rating", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", strconv.FormatInt(id, 10)).Get("/player/v1.0/{id}")
	}, &doc)
	if err != nil {
		return 0, false, err
	}
	if doc.Result.Ratings == nil || strings.TrimSpace(string(doc.Result.Ratings.Doubles)) == "" {
		return 0, false, nil
	}
	return parseRating(doc.Result.Ratings.Doubles), true, nil
}

// SearchByName runs a wildcard name search inside the configured area.
// An empty name returns nothing without calling out.
func (c *Client) SearchByName(ctx context.Context, name string) ([]Candidate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	body := searchReq{Filter: c.opts.Geo, Limit: searchLimit, Offset: 0, Query: "*" + name + "*"}

	var doc searchDoc
	err := c.do(ctx, "search", func(r *resty.Request) (*resty.Response, error) {
		return r.SetHeader("Content-Type", "application/json").SetBody(body).Post("/player/v1.0/search")
	}, &doc)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(doc.Result.Hits))
	for _, h := range doc.Result.Hits {
		cand := h.Candidate
		if h.Ratings != nil {
			cand.RatingDoubles = strings.TrimSpace(string(h.Ratings.Doubles))
		}
		out = append(out, cand)
	}
	return out, nil
}

// Stats returns half-life and wins+losses for a player's doubles history
func (c *Client) Stats(ctx context.Context, id int64) (Stats, error) {
	var doc statsDoc
	err := c.do(ctx, "stats", func(r *resty.Request) (*resty.Response, error) {
		if c.opts.APIKey != "" {
			r.SetHeader("x-api-key", c.opts.APIKey)
		}
		return r.SetPathParam("id", strconv.FormatInt(id, 10)).Get("/user/calculated/v1.0/stats/{id}")
	}, &doc)
	if err != nil {
		return Stats{}, err
	}

	d := doc.Result.Doubles
	if d == nil {
		return Stats{}, nil
	}
	hl, ok := d.HalfLife.float()
	if !ok {
		hl = 0
	}
	wins, _ := d.Wins.float()
	losses, _ := d.Losses.float()
	return Stats{HalfLife: hl, TotalMatches: int(wins) + int(losses)}, nil
}

// do runs one request, records metrics and decodes a 2xx body into out
func (c *Client) do(ctx context.Context, endpoint string, send func(*resty.Request) (*resty.Response, error), out any) error {
	start := time.Now()
	defer func() { metrics.DUPRLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	resp, err := send(c.rc.R().SetContext(ctx))
	if err != nil {
		metrics.DUPRRequests.WithLabelValues(endpoint, "transport").Inc()
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "dupr %s request failed", endpoint)
	}

	code := resp.StatusCode()
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		metrics.DUPRRequests.WithLabelValues(endpoint, "status").Inc()
		c.log.Debug().Str("endpoint", endpoint).Int("status", code).Msg("dupr non-2xx")
		return perr.Upstreamf("dupr %s returned %d", endpoint, code)
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		metrics.DUPRRequests.WithLabelValues(endpoint, "decode").Inc()
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "dupr %s payload malformed", endpoint)
	}

	metrics.DUPRRequests.WithLabelValues(endpoint, "ok").Inc()
	c.log.Debug().Str("endpoint", endpoint).Dur("elapsed", time.Since(start)).Msg("dupr ok")
	return nil
}

func parseRating(s flexString) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
