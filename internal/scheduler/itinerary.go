package scheduler

import (
	"fmt"
	"sort"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// MinimumWaitMinutes is the shortest idle stretch worth showing as a wait.
const MinimumWaitMinutes = 15

const unknownLocation = "TBA"

type dayMeeting struct {
	section models.Section
	meeting models.MeetingTime
}

// BuildDailyItinerary lays out each weekday as classes interleaved with waits
// and commutes. Every weekday is present in the result, possibly empty.
func BuildDailyItinerary(schedule []models.Section) models.Itinerary {
	itinerary := make(models.Itinerary, len(models.Weekdays))
	for _, day := range models.Weekdays {
		itinerary[day] = buildDay(day, schedule)
	}
	return itinerary
}

func buildDay(day models.Weekday, schedule []models.Section) []models.ItineraryEvent {
	meetings := make([]dayMeeting, 0)
	for _, section := range schedule {
		for _, mt := range section.MeetingTimes {
			if mt.Day == day {
				meetings = append(meetings, dayMeeting{section: section, meeting: mt})
			}
		}
	}
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].meeting.StartMinute < meetings[j].meeting.StartMinute
	})

	events := make([]models.ItineraryEvent, 0, len(meetings)*2)
	for i, current := range meetings {
		if i > 0 {
			events = append(events, transition(meetings[i-1], current)...)
		}
		events = append(events, models.ItineraryEvent{
			StartMinute:     current.meeting.StartMinute,
			DurationMinutes: current.meeting.Duration(),
			Description:     fmt.Sprintf("%s - Section %s", current.section.Name, current.section.SectionLabel),
			Kind:            models.EventKindClass,
			Location:        locationOf(current.meeting),
			Campus:          current.section.Campus,
			SectionID:       current.section.ID,
		})
	}
	return events
}

// transition returns the wait and commute events between two consecutive classes.
func transition(prev, next dayMeeting) []models.ItineraryEvent {
	prevEnd := prev.meeting.EndMinute
	nextStart := next.meeting.StartMinute
	idle := nextStart - prevEnd

	if SameCampus(prev.section.Campus, next.section.Campus) {
		if idle < MinimumWaitMinutes {
			return nil
		}
		return []models.ItineraryEvent{{
			StartMinute:     prevEnd,
			DurationMinutes: idle,
			Description:     "Break between classes",
			Kind:            models.EventKindWait,
			Location:        locationOf(prev.meeting),
			Campus:          prev.section.Campus,
		}}
	}

	commute := CommuteMinutes(prev.section.Campus, next.section.Campus)
	events := make([]models.ItineraryEvent, 0, 2)
	if wait := idle - commute; wait >= MinimumWaitMinutes {
		events = append(events, models.ItineraryEvent{
			StartMinute:     prevEnd,
			DurationMinutes: wait,
			Description:     fmt.Sprintf("Wait at %s", prev.section.Campus),
			Kind:            models.EventKindWait,
			Location:        locationOf(prev.meeting),
			Campus:          prev.section.Campus,
		})
	}
	if commute > 0 {
		events = append(events, models.ItineraryEvent{
			StartMinute:     nextStart - commute,
			DurationMinutes: commute,
			Description:     fmt.Sprintf("Travel from %s to %s", prev.section.Campus, next.section.Campus),
			Kind:            models.EventKindCommute,
		})
	}
	return events
}

func locationOf(mt models.MeetingTime) string {
	if mt.Location == "" {
		return unknownLocation
	}
	return mt.Location
}

// FormatClock renders minutes since midnight as H:MM.
func FormatClock(minute int) string {
	return fmt.Sprintf("%d:%02d", minute/60, minute%60)
}
