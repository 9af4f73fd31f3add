// Package domain holds the leaderboard board, thresholds and sweep report types
package domain

import "time"

// Thresholds control who makes the board and how it is bucketed
type Thresholds struct {
	MinHalfLife float64 `validate:"gte=0"`
	MinMatches  int     `validate:"gte=0"`
	// High and Mid split the board into (High, inf), (Mid, High] and (-inf, Mid]
	High      float64 `validate:"gtfield=Mid"`
	Mid       float64 `validate:"gte=0"`
	PerBucket int     `validate:"gte=1"`
	MaxChars  int     `validate:"gte=100"`
}

// DefaultThresholds matches the published board rules
func DefaultThresholds() Thresholds {
	return Thresholds{MinHalfLife: 7, MinMatches: 20, High: 4.5, Mid: 4.0, PerBucket: 10, MaxChars: 1900}
}

// Entry is one member's latest standing
type Entry struct {
	MemberID     string  `json:"-"`
	Name         string  `json:"name"`
	Rating       float64 `json:"rating"`
	HalfLife     float64 `json:"halfLife"`
	TotalMatches int     `json:"totalMatches"`
}

// Bucket is one labelled section of the board
type Bucket struct {
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Board is the computed leaderboard
type Board struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Buckets     []Bucket  `json:"buckets"`
}

// Failure is one member the sweep could not process
type Failure struct {
	MemberID string `json:"-"`
	Name     string `json:"name"`
	Op       string `json:"op"`
	Err      string `json:"error"`
}

// Report summarizes one sweep run
type Report struct {
	RunID        string        `json:"runId"`
	StartedAt    time.Time     `json:"startedAt"`
	Duration     time.Duration `json:"duration"`
	Guilds       int           `json:"guilds"`
	Members      int           `json:"members"`
	Snapshots    int           `json:"snapshots"`
	Renamed      int           `json:"renamed"`
	Bootstrapped int           `json:"bootstrapped"`
	Unmatched    int           `json:"unmatched"`
	// Unsuccessful lists account names of members without a nickname
	Unsuccessful []string  `json:"unsuccessful"`
	Failures     []Failure `json:"failures"`
	Board        Board     `json:"board"`
}
