package models

import "time"

// InstructorRating is an aggregated rating record imported from the ratings export.
type InstructorRating struct {
	ID                    string    `db:"id" json:"id" csv:"id"`
	FirstName             string    `db:"first_name" json:"first_name" csv:"firstName"`
	LastName              string    `db:"last_name" json:"last_name" csv:"lastName"`
	Department            string    `db:"department" json:"department" csv:"department"`
	AvgRating             float64   `db:"avg_rating" json:"avg_rating" csv:"avgRating"`
	AvgDifficulty         float64   `db:"avg_difficulty" json:"avg_difficulty" csv:"avgDifficulty"`
	NumRatings            int       `db:"num_ratings" json:"num_ratings" csv:"numRatings"`
	WouldTakeAgainPercent float64   `db:"would_take_again_percent" json:"would_take_again_percent" csv:"wouldTakeAgainPercent"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at" csv:"-"`
}

// ResolvedRating pairs a catalog instructor name with the rating it matched.
type ResolvedRating struct {
	Name                  string  `json:"name"`
	AvgRating             float64 `json:"avg_rating"`
	NumRatings            int     `json:"num_ratings"`
	AvgDifficulty         float64 `json:"avg_difficulty"`
	WouldTakeAgainPercent float64 `json:"would_take_again_percent"`
}
