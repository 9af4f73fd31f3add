// Package domain holds the profile and rating history types and the ports other services use
package domain

import "time"

// Profile is the one record kept per member
type Profile struct {
	MemberID         string    `json:"memberId"`
	DisplayName      string    `json:"displayName"`
	ExternalRatingID *int64    `json:"ratingId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// HasRating reports whether the profile is linked to a rating service id
func (p Profile) HasRating() bool { return p.ExternalRatingID != nil }

// Snapshot is an immutable point in a member's rating history
type Snapshot struct {
	MemberID     string    `json:"memberId"`
	Rating       float64   `json:"rating"`
	HalfLife     float64   `json:"halfLife"`
	TotalMatches int       `json:"totalMatches"`
	ObservedAt   time.Time `json:"observedAt"`
}

// ProfileRef is the projection ListAllProfiles returns
type ProfileRef struct {
	MemberID         string
	DisplayName      string
	ExternalRatingID *int64
}

// RatingID is a small helper for building optional ids
func RatingID(v int64) *int64 { return &v }
