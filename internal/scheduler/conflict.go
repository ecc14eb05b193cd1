package scheduler

import "github.com/noah-isme/course-scheduler-api/internal/models"

// CrossCampusBufferMinutes is the minimum gap between two meetings held on different campuses.
const CrossCampusBufferMinutes = 30

// Conflicts reports whether two sections cannot both appear in one schedule:
// they overlap on a shared day, or they sit on different campuses with less
// than CrossCampusBufferMinutes between them. The relation is symmetric.
func Conflicts(a, b models.Section) bool {
	crossCampus := !SameCampus(a.Campus, b.Campus)
	for _, ma := range a.MeetingTimes {
		for _, mb := range b.MeetingTimes {
			if ma.Day != mb.Day {
				continue
			}
			if overlaps(ma, mb) {
				return true
			}
			if crossCampus && gap(ma, mb) < CrossCampusBufferMinutes {
				return true
			}
		}
	}
	return false
}

// ConflictsWithAny reports whether candidate conflicts with any placed section.
func ConflictsWithAny(candidate models.Section, placed []models.Section) bool {
	for _, s := range placed {
		if Conflicts(candidate, s) {
			return true
		}
	}
	return false
}

func overlaps(a, b models.MeetingTime) bool {
	return a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute
}

// gap returns the idle minutes between two non-overlapping meetings.
func gap(a, b models.MeetingTime) int {
	if a.EndMinute <= b.StartMinute {
		return b.StartMinute - a.EndMinute
	}
	return a.StartMinute - b.EndMinute
}
