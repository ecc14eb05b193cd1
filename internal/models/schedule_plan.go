package models

// CandidateSchedule is one conflict-free assignment of sections produced by the generator.
type CandidateSchedule struct {
	Sections []Section `json:"sections"`
	Valid    bool      `json:"valid"`
	Score    int       `json:"score"`
	// Order is the zero-based emission index; it breaks ranking ties.
	Order int `json:"order"`
}

// Score categories.
const (
	ScoreCategoryTime      = "Time"
	ScoreCategoryCampus    = "Campus"
	ScoreCategoryProfessor = "Professor"
)

// ScoreDetail explains one deduction or bonus.
type ScoreDetail struct {
	Category    string  `json:"category"`
	Delta       float64 `json:"delta"`
	Explanation string  `json:"explanation"`
}

// ScoreBreakdown is the scorer output. Sub-scores are left unrounded.
type ScoreBreakdown struct {
	Total          int           `json:"total"`
	TimeScore      float64       `json:"timeScore"`
	CampusScore    float64       `json:"campusScore"`
	ProfessorScore float64       `json:"professorScore"`
	Details        []ScoreDetail `json:"details"`
}

// EventKind tags itinerary entries.
type EventKind string

const (
	EventKindClass   EventKind = "CLASS"
	EventKindCommute EventKind = "COMMUTE"
	EventKindWait    EventKind = "WAIT"
)

// ItineraryEvent is a single block in a student's day.
type ItineraryEvent struct {
	StartMinute     int       `json:"startMinute"`
	DurationMinutes int       `json:"durationMinutes"`
	Description     string    `json:"description"`
	Kind            EventKind `json:"kind"`
	Location        string    `json:"location,omitempty"`
	Campus          string    `json:"campus,omitempty"`
	SectionID       string    `json:"sectionId,omitempty"`
}

// EndMinute returns the minute the event finishes.
func (e ItineraryEvent) EndMinute() int {
	return e.StartMinute + e.DurationMinutes
}

// Itinerary maps each weekday to its ordered events.
type Itinerary map[Weekday][]ItineraryEvent
