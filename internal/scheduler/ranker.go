package scheduler

import (
	"sort"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// DefaultTopN is how many ranked schedules are normally shown.
const DefaultTopN = 10

// Rank returns a copy of candidates ordered by score, highest first. Equal
// scores keep their generation order.
func Rank(candidates []models.CandidateSchedule) []models.CandidateSchedule {
	ranked := make([]models.CandidateSchedule, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Order < ranked[j].Order
	})
	return ranked
}

// Top truncates a ranked list to n entries. n <= 0 keeps everything.
func Top(ranked []models.CandidateSchedule, n int) []models.CandidateSchedule {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
