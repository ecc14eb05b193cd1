package dto

import (
	"time"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// SaveScheduleRequest persists explicit sections or a ranked proposal entry.
type SaveScheduleRequest struct {
	Name       string           `json:"name" validate:"required,max=120"`
	Semester   string           `json:"semester" validate:"max=32"`
	Sections   []models.Section `json:"sections" validate:"dive"`
	ProposalID string           `json:"proposalId"`
	Rank       int              `json:"rank" validate:"omitempty,min=1"`
}

// SavedScheduleQuery filters the owner's saved schedules.
type SavedScheduleQuery struct {
	Semester string `form:"semester" json:"semester"`
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"pageSize" json:"pageSize"`
}

// SavedScheduleDetail is a saved schedule with its sections decoded and regrouped into courses.
type SavedScheduleDetail struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Semester  string           `json:"semester"`
	Score     int              `json:"score"`
	IsPublic  bool             `json:"isPublic"`
	SharedAt  *time.Time       `json:"sharedAt,omitempty"`
	Sections  []models.Section `json:"sections"`
	Courses   []models.Course  `json:"courses"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// ShareScheduleResponse carries a public link token.
type ShareScheduleResponse struct {
	Token     string    `json:"token"`
	Path      string    `json:"path"`
	ExpiresAt time.Time `json:"expiresAt"`
}
