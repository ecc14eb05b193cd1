package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

func TestBuildDailyItinerarySameCampusBreak(t *testing.T) {
	first := newSection("1", "Calc", CampusBusch, meet(models.Monday, 600, 660))
	second := newSection("2", "Chem", CampusBusch, meet(models.Monday, 675, 735))
	third := newSection("3", "Bio", CampusBusch, meet(models.Monday, 745, 800))

	itinerary := BuildDailyItinerary([]models.Section{third, second, first})

	events := itinerary[models.Monday]
	require.Len(t, events, 4)
	assert.Equal(t, models.EventKindClass, events[0].Kind)
	assert.Equal(t, "Calc - Section 01", events[0].Description)
	assert.Equal(t, models.ItineraryEvent{
		StartMinute:     660,
		DurationMinutes: 15,
		Description:     "Break between classes",
		Kind:            models.EventKindWait,
		Location:        "TBA",
		Campus:          CampusBusch,
	}, events[1])
	assert.Equal(t, models.EventKindClass, events[2].Kind)
	assert.Equal(t, models.EventKindClass, events[3].Kind, "a 10 minute gap is not shown")
}

func TestBuildDailyItineraryCrossCampusWaitThenCommute(t *testing.T) {
	first := newSection("1", "Calc", CampusBusch, meet(models.Tuesday, 600, 660))
	first.MeetingTimes[0].Location = "ARC 103"
	second := newSection("2", "Writing", CampusLivingston, meet(models.Tuesday, 720, 800))

	events := BuildDailyItinerary([]models.Section{first, second})[models.Tuesday]

	require.Len(t, events, 4)
	wait, commute, class := events[1], events[2], events[3]
	assert.Equal(t, models.EventKindWait, wait.Kind)
	assert.Equal(t, "Wait at Busch", wait.Description)
	assert.Equal(t, 660, wait.StartMinute)
	assert.Equal(t, 50, wait.DurationMinutes)
	assert.Equal(t, "ARC 103", wait.Location)

	assert.Equal(t, models.EventKindCommute, commute.Kind)
	assert.Equal(t, "Travel from Busch to Livingston", commute.Description)
	assert.Equal(t, 10, commute.DurationMinutes)
	assert.Equal(t, class.StartMinute, commute.EndMinute())
}

func TestBuildDailyItineraryCampusAliasesDoNotCommute(t *testing.T) {
	first := newSection("1", "Calc", "College Ave", meet(models.Monday, 600, 660))
	second := newSection("2", "Chem", CampusCollegeAvenue, meet(models.Monday, 700, 760))

	events := BuildDailyItinerary([]models.Section{first, second})[models.Monday]

	require.Len(t, events, 3)
	assert.Equal(t, models.EventKindWait, events[1].Kind)
	assert.Equal(t, "Break between classes", events[1].Description)
	assert.Equal(t, 40, events[1].DurationMinutes)
}

func TestBuildDailyItineraryShortWaitBeforeCommuteIsHidden(t *testing.T) {
	first := newSection("1", "Calc", "C/D", meet(models.Wednesday, 600, 660))
	second := newSection("2", "Chem", CampusBusch, meet(models.Wednesday, 695, 755))

	events := BuildDailyItinerary([]models.Section{first, second})[models.Wednesday]

	require.Len(t, events, 3)
	assert.Equal(t, models.EventKindCommute, events[1].Kind)
	assert.Equal(t, 25, events[1].DurationMinutes)
	assert.Equal(t, 670, events[1].StartMinute)
}

func TestBuildDailyItineraryCoversEveryWeekday(t *testing.T) {
	online := newSection("1", "Online Ethics", CampusOnline)
	itinerary := BuildDailyItinerary([]models.Section{online})

	require.Len(t, itinerary, len(models.Weekdays))
	for _, day := range models.Weekdays {
		events, ok := itinerary[day]
		assert.True(t, ok)
		assert.Empty(t, events)
	}
}

func TestCommuteMinutesIsSymmetric(t *testing.T) {
	for _, a := range Campuses {
		for _, b := range Campuses {
			assert.Equal(t, CommuteMinutes(a, b), CommuteMinutes(b, a), "%s/%s", a, b)
		}
	}
	assert.Equal(t, 15, CommuteMinutes("College Ave", "Cook/Douglass"))
	assert.Equal(t, 25, CommuteMinutes("C/D", "Busch"))
	assert.Equal(t, 0, CommuteMinutes("Busch", "Busch"))
	assert.Equal(t, 0, CommuteMinutes("Busch", "Newark"))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "9:05", FormatClock(545))
	assert.Equal(t, "13:30", FormatClock(810))
	assert.Equal(t, "0:00", FormatClock(0))
}
