package scheduler

import (
	"fmt"
	"math"
	"sort"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// Component weights of the total score.
const (
	WeightTime      = 0.4
	WeightCampus    = 0.3
	WeightProfessor = 0.3
)

const (
	baseSubScore          = 100.0
	timePenaltyBase       = 1.5
	timePenaltyScale      = 5.0
	campusPenalty         = 10.0
	neutralRating         = 2.5
	ratingScale           = 20.0
	unratedSectionPenalty = 5.0
)

// RatingSource resolves an instructor name to an average rating. It must be
// fully populated before scoring; implementations may not block.
type RatingSource interface {
	Rating(name string) (float64, bool)
}

// RatingMap is an in-memory RatingSource keyed by catalog instructor name.
type RatingMap map[string]float64

// Rating implements RatingSource.
func (m RatingMap) Rating(name string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[name]
	return v, ok
}

// Score rates a complete schedule against the student's preferences.
func Score(schedule []models.Section, prefs models.Preferences, ratings RatingSource) models.ScoreBreakdown {
	details := make([]models.ScoreDetail, 0)

	timeDeductions := 0.0
	for _, section := range schedule {
		for _, mt := range section.MeetingTimes {
			if mt.StartMinute < prefs.EarliestStartMinute {
				hours := float64(prefs.EarliestStartMinute-mt.StartMinute) / 60
				deduction := timePenalty(hours)
				timeDeductions += deduction
				details = append(details, models.ScoreDetail{
					Category:    models.ScoreCategoryTime,
					Delta:       -deduction,
					Explanation: fmt.Sprintf("%s starts %.1f hours before preferred time (exponential penalty)", section.Name, hours),
				})
			}
			if mt.EndMinute > prefs.LatestEndMinute {
				hours := float64(mt.EndMinute-prefs.LatestEndMinute) / 60
				deduction := timePenalty(hours)
				timeDeductions += deduction
				details = append(details, models.ScoreDetail{
					Category:    models.ScoreCategoryTime,
					Delta:       -deduction,
					Explanation: fmt.Sprintf("%s ends %.1f hours after preferred time (exponential penalty)", section.Name, hours),
				})
			}
		}
	}

	campusDeductions := 0.0
	for _, section := range schedule {
		if PrefersCampus(prefs.PreferredCampuses, section.Campus) {
			continue
		}
		campusDeductions += campusPenalty
		details = append(details, models.ScoreDetail{
			Category:    models.ScoreCategoryCampus,
			Delta:       -campusPenalty,
			Explanation: fmt.Sprintf("%s is on non-preferred campus (%s)", section.Name, section.Campus),
		})
	}

	professorAdjustment := 0.0
	for _, section := range schedule {
		avg, ok := averageRating(section, ratings)
		if !ok {
			professorAdjustment -= unratedSectionPenalty
			details = append(details, models.ScoreDetail{
				Category:    models.ScoreCategoryProfessor,
				Delta:       -unratedSectionPenalty,
				Explanation: fmt.Sprintf("%s has no professor ratings available (-5 points)", section.Name),
			})
			continue
		}
		bonus := (avg - neutralRating) * ratingScale
		professorAdjustment += bonus
		details = append(details, models.ScoreDetail{
			Category:    models.ScoreCategoryProfessor,
			Delta:       bonus,
			Explanation: fmt.Sprintf("%s professor rating: %.1f (%s points)", section.Name, avg, describeBonus(bonus)),
		})
	}

	timeScore := math.Max(0, baseSubScore-timeDeductions)
	campusScore := math.Max(0, baseSubScore-campusDeductions)
	professorScore := math.Max(0, baseSubScore+professorAdjustment)

	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Delta > details[j].Delta
	})

	return models.ScoreBreakdown{
		Total:          int(math.Round(timeScore*WeightTime + campusScore*WeightCampus + professorScore*WeightProfessor)),
		TimeScore:      timeScore,
		CampusScore:    campusScore,
		ProfessorScore: professorScore,
		Details:        details,
	}
}

func timePenalty(hoursOver float64) float64 {
	return math.Pow(timePenaltyBase, hoursOver) * timePenaltyScale
}

// averageRating averages the instructors that resolve to a rating, preferring
// a rating carried on the instructor record over the external source.
func averageRating(section models.Section, ratings RatingSource) (float64, bool) {
	sum := 0.0
	count := 0
	for _, inst := range section.Instructors {
		if inst.Rating != nil {
			sum += *inst.Rating
			count++
			continue
		}
		if ratings == nil || inst.Name == "" {
			continue
		}
		if r, ok := ratings.Rating(inst.Name); ok {
			sum += r
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

func describeBonus(bonus float64) string {
	rounded := math.Round(bonus)
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	if bonus > 0 {
		return fmt.Sprintf("bonus of +%.0f", rounded)
	}
	return fmt.Sprintf("penalty of %.0f", rounded)
}
