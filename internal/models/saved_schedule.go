package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SavedSchedule is a student's persisted schedule; Sections holds the flat section list as JSON.
type SavedSchedule struct {
	ID        string         `db:"id" json:"id"`
	OwnerID   string         `db:"owner_id" json:"owner_id"`
	Name      string         `db:"name" json:"name"`
	Semester  string         `db:"semester" json:"semester"`
	Score     int            `db:"score" json:"score"`
	Sections  types.JSONText `db:"sections" json:"sections"`
	IsPublic  bool           `db:"is_public" json:"is_public"`
	SharedAt  *time.Time     `db:"shared_at" json:"shared_at,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// SavedScheduleFilter describes list parameters.
type SavedScheduleFilter struct {
	OwnerID  string
	Semester string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
