package dupr

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Candidate is one search hit, transient and never stored as-is
type Candidate struct {
	ExternalID    int64  `json:"id"`
	FullName      string `json:"fullName"`
	ShortAddress  string `json:"shortAddress"`
	Gender        string `json:"gender"`
	RatingDoubles string `json:"-"`
}

// Stats is the subset of calculated stats the leaderboard filters on
type Stats struct {
	HalfLife     float64
	TotalMatches int
}

// GeoFilter bounds search results around a point
type GeoFilter struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radiusInMeters"`
}

type ratings struct {
	Doubles flexString `json:"doubles"`
}

type playerDoc struct {
	Result struct {
		Ratings *ratings `json:"ratings"`
	} `json:"result"`
}

type searchReq struct {
	Filter GeoFilter `json:"filter"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Query  string    `json:"query"`
}

type searchHit struct {
	Candidate
	Ratings *ratings `json:"ratings"`
}

type searchDoc struct {
	Status string `json:"status"`
	Result struct {
		Total int         `json:"total"`
		Hits  []searchHit `json:"hits"`
	} `json:"result"`
}

type statsDoc struct {
	Result struct {
		Doubles *struct {
			HalfLife flexString `json:"halfLife"`
			Wins     flexString `json:"wins"`
			Losses   flexString `json:"losses"`
		} `json:"doubles"`
	} `json:"result"`
}

// flexString accepts a JSON string, number or null and keeps its text
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// float parses the text; empty and "-" read as 0, anything else unparsable as ok=false
func (f flexString) float() (float64, bool) {
	s := strings.TrimSpace(string(f))
	if s == "" || s == "-" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
