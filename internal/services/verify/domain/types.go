// Package domain holds the verification states, results and ports
package domain

import (
	"strings"

	"ladderbot/internal/adapters/dupr"
)

// Candidate is a rating service search hit offered to the member
type Candidate = dupr.Candidate

// State is one step of the verification conversation
type State int

const (
	AwaitingName State = iota
	Searching
	NoMatch
	OneMatch
	MultiMatch
	Confirming
	Retrying
	Verified
	TimedOut
	Abandoned
	Failed
)

var stateNames = [...]string{
	AwaitingName: "awaiting_name",
	Searching:    "searching",
	NoMatch:      "no_match",
	OneMatch:     "one_match",
	MultiMatch:   "multi_match",
	Confirming:   "confirming",
	Retrying:     "retrying",
	Verified:     "verified",
	TimedOut:     "timed_out",
	Abandoned:    "abandoned",
	Failed:       "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether the conversation ends in s
func (s State) Terminal() bool {
	switch s {
	case Verified, TimedOut, Abandoned, Failed:
		return true
	}
	return false
}

// RoleTable maps the bot's role names to platform role ids
type RoleTable struct {
	Unverified string `validate:"required"`
	Verified   string `validate:"required"`
	Men        string
	Women      string
}

// GenderRole returns the role for a rating service gender value, or "" for none
func (t RoleTable) GenderRole(gender string) string {
	switch strings.ToUpper(strings.TrimSpace(gender)) {
	case "MALE":
		return t.Men
	case "FEMALE":
		return t.Women
	}
	return ""
}

// Answer is one follow-up question and the member's reply
type Answer struct {
	Question string
	Reply    string
}

// Result is how one conversation ended
type Result struct {
	FlowID   string
	State    State
	Chosen   *Candidate
	Attempts int
	Answers  []Answer
	// Err is set for precondition and upstream failures
	Err error
}
