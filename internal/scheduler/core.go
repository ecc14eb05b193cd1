package scheduler

import (
	"regexp"
	"sort"
	"strings"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// CoreCodes maps each general-education code to its description.
var CoreCodes = map[string]string{
	"AHo": "Arts and Humanities",
	"CCO": "Contemporary Challenges - Our Common Future",
	"CCD": "Contemporary Challenges - Diversity and Social Justice",
	"HST": "Historical Analysis",
	"ITR": "Information Technology and Research",
	"NS":  "Natural Sciences",
	"QQ":  "Quantitative Information",
	"QR":  "Quantitative Reasoning",
	"SCL": "Social Analysis",
	"WC":  "Writing and Communication",
	"WCr": "Writing and Communication - Revision",
	"WCd": "Writing and Communication - Disciplinary",
}

var (
	parenthesisedCode = regexp.MustCompile(`\(([^)]+)\)`)
	codeSeparators    = regexp.MustCompile(`[,\s]+`)
)

// IsCoreCode reports whether code is a known core code (case-sensitive).
func IsCoreCode(code string) bool {
	_, ok := CoreCodes[code]
	return ok
}

// SortedCoreCodes returns the known codes alphabetically.
func SortedCoreCodes() []string {
	codes := make([]string, 0, len(CoreCodes))
	for code := range CoreCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ParseCoreCodes extracts known core codes from the catalog's free-text field,
// e.g. "Historical Analysis (HST), Social Analysis (SCL)" or "HST, SCL".
// Parenthesised codes win; otherwise the text is split on commas and spaces.
func ParseCoreCodes(raw string) []string {
	codes := make([]string, 0)
	for _, match := range parenthesisedCode.FindAllStringSubmatch(raw, -1) {
		if code := strings.TrimSpace(match[1]); IsCoreCode(code) {
			codes = append(codes, code)
		}
	}
	if len(codes) > 0 {
		return codes
	}
	for _, token := range codeSeparators.Split(raw, -1) {
		if code := strings.TrimSpace(token); IsCoreCode(code) {
			codes = append(codes, code)
		}
	}
	return codes
}

// IsRemoteOnly reports whether a section has no in-person meetings. Such
// sections are still placed by their meeting times; the itinerary lists them
// separately as online classes.
func IsRemoteOnly(section models.Section) bool {
	for _, mt := range section.MeetingTimes {
		switch strings.ToUpper(mt.Mode) {
		case models.MeetingModeAsync, models.MeetingModeRemote:
		default:
			return false
		}
	}
	return true
}
