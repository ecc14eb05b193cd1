package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Weekday is the fixed day-name vocabulary used by meeting times.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// Weekdays lists the teaching days in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayAliases = map[string]Weekday{
	"M": Monday, "MON": Monday, "MONDAY": Monday,
	"T": Tuesday, "TU": Tuesday, "TUE": Tuesday, "TUES": Tuesday, "TUESDAY": Tuesday,
	"W": Wednesday, "WED": Wednesday, "WEDNESDAY": Wednesday,
	"H": Thursday, "TH": Thursday, "THU": Thursday, "THUR": Thursday, "THURS": Thursday, "THURSDAY": Thursday,
	"F": Friday, "FRI": Friday, "FRIDAY": Friday,
}

// ParseWeekday normalises catalog day codes ("M", "TH", "monday") to a Weekday.
func ParseWeekday(raw string) (Weekday, bool) {
	day, ok := weekdayAliases[strings.ToUpper(strings.TrimSpace(raw))]
	return day, ok
}

// UnmarshalJSON accepts any alias understood by ParseWeekday.
func (d *Weekday) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("weekday must be a string: %w", err)
	}
	day, ok := ParseWeekday(raw)
	if !ok {
		return fmt.Errorf("unknown weekday %q", raw)
	}
	*d = day
	return nil
}

// Meeting modes reported by the catalog.
const (
	MeetingModeInPerson = "IN_PERSON"
	MeetingModeAsync    = "ASYNC"
	MeetingModeRemote   = "REMOTE"
)

// MeetingTime is one weekly meeting expressed in minutes since midnight.
type MeetingTime struct {
	Day         Weekday `json:"day" validate:"required"`
	StartMinute int     `json:"startMinute" validate:"gte=0,lt=1440"`
	EndMinute   int     `json:"endMinute" validate:"gtfield=StartMinute,lte=1440"`
	Location    string  `json:"location,omitempty"`
	Mode        string  `json:"mode,omitempty"`
}

// Duration returns the meeting length in minutes.
func (m MeetingTime) Duration() int {
	return m.EndMinute - m.StartMinute
}

// Instructor is the canonical instructor record. The catalog ships either a
// bare name or an object carrying a rating; both decode into this shape.
type Instructor struct {
	Name   string   `json:"name"`
	Rating *float64 `json:"rating,omitempty"`
}

// UnmarshalJSON decodes either "Doe, Jane" or {"name":"Doe, Jane","rating":4.2}.
func (i *Instructor) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*i = Instructor{Name: strings.TrimSpace(name)}
		return nil
	}
	type rated struct {
		Name   string   `json:"name"`
		Rating *float64 `json:"rating"`
	}
	var payload rated
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return fmt.Errorf("instructor must be a name or {name, rating}: %w", err)
	}
	*i = Instructor{Name: strings.TrimSpace(payload.Name), Rating: payload.Rating}
	return nil
}

// Credits holds a credit count that the catalog may encode as a number or a string.
type Credits struct {
	Value *float64
	Raw   string
}

// UnmarshalJSON accepts 3, 3.5, "3" or "BA" (by arrangement).
func (c *Credits) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = Credits{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		out := Credits{Raw: raw}
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			out.Value = &v
		}
		*c = out
		return nil
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return fmt.Errorf("credits must be numeric or string: %w", err)
	}
	*c = Credits{Value: &v, Raw: strconv.FormatFloat(v, 'f', -1, 64)}
	return nil
}

// MarshalJSON emits the numeric value when known, the raw text otherwise.
func (c Credits) MarshalJSON() ([]byte, error) {
	if c.Value != nil {
		return json.Marshal(*c.Value)
	}
	if c.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(c.Raw)
}

// Section is one registrable meeting pattern of a course.
type Section struct {
	ID               string        `json:"id" validate:"required"`
	Name             string        `json:"name" validate:"required"`
	Campus           string        `json:"campus"`
	SectionLabel     string        `json:"sectionLabel"`
	Instructors      []Instructor  `json:"instructors"`
	MeetingTimes     []MeetingTime `json:"meetingTimes" validate:"dive"`
	Department       string        `json:"department,omitempty"`
	ClassNumber      string        `json:"classNumber,omitempty"`
	Credits          Credits       `json:"credits"`
	CoreRequirements []string      `json:"coreRequirements,omitempty"`
}

// SatisfiesCore reports whether the section carries the given core code.
func (s Section) SatisfiesCore(code string) bool {
	for _, c := range s.CoreRequirements {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}

// InstructorNames returns the non-empty instructor names in catalog order.
func (s Section) InstructorNames() []string {
	names := make([]string, 0, len(s.Instructors))
	for _, inst := range s.Instructors {
		if inst.Name != "" {
			names = append(names, inst.Name)
		}
	}
	return names
}

// Course groups the sections a student picks one of. Name is the dedup key.
type Course struct {
	ID              string    `json:"id"`
	Name            string    `json:"name" validate:"required"`
	Sections        []Section `json:"sections" validate:"dive"`
	SelectedSection *Section  `json:"selectedSection,omitempty"`
}

// Validate checks that a selected section, when present, belongs to the course.
func (c Course) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("course name is required")
	}
	if c.SelectedSection == nil {
		return nil
	}
	for _, s := range c.Sections {
		if s.ID == c.SelectedSection.ID {
			return nil
		}
	}
	return fmt.Errorf("selected section %s is not a section of %s", c.SelectedSection.ID, c.Name)
}

// CoreRequirementBlock is a placeholder for "any course satisfying this core code".
type CoreRequirementBlock struct {
	CoreCode       string   `json:"coreCode" validate:"required"`
	SelectedCourse *Course  `json:"selectedCourse,omitempty"`
	Candidates     []Course `json:"candidates,omitempty"`
}
