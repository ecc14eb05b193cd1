package service

import (
	"strings"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
)

// Catalog payloads spell campuses and core codes several ways ("College Ave",
// "Historical Analysis (HST)"). Everything entering the engine goes through
// these helpers first. They copy; request slices are never modified in place.

func normalizeCourses(courses []models.Course) []models.Course {
	if courses == nil {
		return nil
	}
	out := make([]models.Course, len(courses))
	for i, course := range courses {
		out[i] = normalizeCourse(course)
	}
	return out
}

func normalizeCourse(course models.Course) models.Course {
	course.Sections = normalizeSections(course.Sections)
	if course.SelectedSection != nil {
		selected := normalizeSection(*course.SelectedSection)
		course.SelectedSection = &selected
	}
	return course
}

func normalizeSections(sections []models.Section) []models.Section {
	if sections == nil {
		return nil
	}
	out := make([]models.Section, len(sections))
	for i, section := range sections {
		out[i] = normalizeSection(section)
	}
	return out
}

func normalizeSection(section models.Section) models.Section {
	section.Campus = scheduler.NormalizeCampus(section.Campus)
	section.CoreRequirements = normalizeCoreCodes(section.CoreRequirements)
	return section
}

// normalizeCoreCodes expands free-text entries into known codes. Entries that
// name no known code are kept trimmed so custom codes still match.
func normalizeCoreCodes(raw []string) []string {
	if len(raw) == 0 {
		return raw
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		codes := scheduler.ParseCoreCodes(entry)
		if len(codes) == 0 {
			if trimmed := strings.TrimSpace(entry); trimmed != "" {
				codes = []string{trimmed}
			}
		}
		for _, code := range codes {
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}
	return out
}

func normalizeCoreBlocks(blocks []models.CoreRequirementBlock) []models.CoreRequirementBlock {
	if blocks == nil {
		return nil
	}
	out := make([]models.CoreRequirementBlock, len(blocks))
	for i, block := range blocks {
		block.CoreCode = strings.TrimSpace(block.CoreCode)
		if codes := scheduler.ParseCoreCodes(block.CoreCode); len(codes) == 1 {
			block.CoreCode = codes[0]
		}
		if block.SelectedCourse != nil {
			selected := normalizeCourse(*block.SelectedCourse)
			block.SelectedCourse = &selected
		}
		block.Candidates = normalizeCourses(block.Candidates)
		out[i] = block
	}
	return out
}

func normalizePreferences(prefs models.Preferences) models.Preferences {
	if len(prefs.PreferredCampuses) == 0 {
		return prefs
	}
	campuses := make([]string, 0, len(prefs.PreferredCampuses))
	seen := make(map[string]struct{}, len(prefs.PreferredCampuses))
	for _, raw := range prefs.PreferredCampuses {
		campus := scheduler.NormalizeCampus(raw)
		if _, dup := seen[campus]; dup || campus == "" {
			continue
		}
		seen[campus] = struct{}{}
		campuses = append(campuses, campus)
	}
	prefs.PreferredCampuses = campuses
	return prefs
}
