package models

// Default time window used when a student has not set preferences (8:00 to 20:00).
const (
	DefaultEarliestStartMinute = 480
	DefaultLatestEndMinute     = 1200
)

// Preferences carry the soft constraints the scorer rewards.
type Preferences struct {
	EarliestStartMinute    int      `json:"earliestStartMinute" validate:"gte=0,lte=1440"`
	LatestEndMinute        int      `json:"latestEndMinute" validate:"gte=0,lte=1440"`
	PreferredCampuses      []string `json:"preferredCampuses"`
	MinimumProfessorRating float64  `json:"minimumProfessorRating,omitempty" validate:"gte=0,lte=5"`
}

// DefaultPreferences returns the preference set used for new sessions.
func DefaultPreferences() Preferences {
	return Preferences{
		EarliestStartMinute: DefaultEarliestStartMinute,
		LatestEndMinute:     DefaultLatestEndMinute,
	}
}
