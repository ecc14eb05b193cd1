package dto

import (
	"time"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// Empty-result reasons reported by generation.
const (
	EmptyReasonNoCourses        = "NO_COURSES_SELECTED"
	EmptyReasonFullyConstrained = "FULLY_CONSTRAINED"
)

// GenerateScheduleRequest is the working set a student wants combined.
type GenerateScheduleRequest struct {
	Courses       []models.Course               `json:"courses" validate:"dive"`
	CoreBlocks    []models.CoreRequirementBlock `json:"coreBlocks" validate:"dive"`
	Preferences   *models.Preferences           `json:"preferences"`
	RandomizeCore bool                          `json:"randomizeCore"`
	Seed          int64                         `json:"seed"`
	PinSelected   bool                          `json:"pinSelected"`
	Limit         int                           `json:"limit" validate:"omitempty,min=1"`
}

// ScheduleCandidate is one ranked schedule in a generation response.
type ScheduleCandidate struct {
	Rank           int                   `json:"rank"`
	Score          int                   `json:"score"`
	Credits        float64               `json:"credits"`
	Sections       []models.Section      `json:"sections"`
	OpenSectionIDs []string              `json:"openSectionIds"`
	Breakdown      models.ScoreBreakdown `json:"breakdown"`
}

// GenerateScheduleResponse returns the top ranked candidates and the proposal they belong to.
type GenerateScheduleResponse struct {
	ProposalID       string              `json:"proposalId,omitempty"`
	TotalCandidates  int                 `json:"totalCandidates"`
	Truncated        bool                `json:"truncated,omitempty"`
	EmptyReason      string              `json:"emptyReason,omitempty"`
	Candidates       []ScheduleCandidate `json:"candidates"`
	OpenSectionsAsOf *time.Time          `json:"openSectionsAsOf,omitempty"`
	GeneratedAt      time.Time           `json:"generatedAt"`
	Cached           bool                `json:"cached"`
}

// ScoreRequest asks for the breakdown of an explicit section list.
type ScoreRequest struct {
	Sections    []models.Section    `json:"sections" validate:"dive"`
	Preferences *models.Preferences `json:"preferences"`
}

// ItineraryRequest selects a schedule either by explicit sections or by proposal rank (1-based).
type ItineraryRequest struct {
	Sections   []models.Section `json:"sections" validate:"dive"`
	ProposalID string           `json:"proposalId"`
	Rank       int              `json:"rank" validate:"omitempty,min=1"`
}

// ItineraryDay lists one weekday's events in time order.
type ItineraryDay struct {
	Day    models.Weekday          `json:"day"`
	Events []ItineraryEventSummary `json:"events"`
}

// ItineraryEventSummary is an itinerary event with clock times for display.
type ItineraryEventSummary struct {
	models.ItineraryEvent
	Start string `json:"start"`
	End   string `json:"end"`
}

// ItineraryResponse is the weekday-ordered itinerary. OnlineSections lists the
// sections with no in-person meeting, which students track outside the grid.
type ItineraryResponse struct {
	Days           []ItineraryDay   `json:"days"`
	OnlineSections []models.Section `json:"onlineSections"`
}

// RedistributeRequest moves one preference slider.
type RedistributeRequest struct {
	Values []int `json:"values" validate:"required,min=1,dive,min=0,max=100"`
	Index  int   `json:"index" validate:"min=0"`
	Value  int   `json:"value" validate:"min=0,max=100"`
}

// RedistributeResponse carries the rebalanced sliders.
type RedistributeResponse struct {
	Values []int `json:"values"`
	Total  int   `json:"total"`
}
