// Package scheduler is the pure schedule combination engine: conflict
// detection, backtracking generation, preference scoring, ranking and daily
// itineraries. Nothing here performs I/O or keeps state between calls.
package scheduler

import (
	"math/rand"
	"strings"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// defaultSeed replaces a zero seed so unseeded runs stay reproducible.
const defaultSeed int64 = 1

// GenerateInput bundles everything one generation pass needs.
type GenerateInput struct {
	Courses    []models.Course
	CoreBlocks []models.CoreRequirementBlock
	// RandomizeCore samples one candidate course per open core block instead
	// of checking core coverage after assembly.
	RandomizeCore bool
	Seed          int64
	// PinSelected restricts a course with a selected section to that section.
	PinSelected bool
	Preferences models.Preferences
	Ratings     RatingSource
	// MaxCandidates stops the search after that many emissions. Zero means exhaustive.
	MaxCandidates int
}

type search struct {
	arena []models.Section
	// slots holds one search level each, as indexes into arena.
	slots [][]int

	required []string
	prefs    models.Preferences
	ratings  RatingSource
	limit    int

	placed []int
	out    []models.CandidateSchedule
}

// Generate enumerates every conflict-free assignment of one section per course
// (plus resolved core blocks) by depth-first backtracking, scoring each
// complete assignment. Candidates are returned in emission order.
func Generate(in GenerateInput) []models.CandidateSchedule {
	s := &search{
		prefs:   in.Preferences,
		ratings: in.Ratings,
		limit:   in.MaxCandidates,
	}
	taken := make(map[string]struct{}, len(in.Courses)+len(in.CoreBlocks))
	for _, course := range in.Courses {
		taken[strings.TrimSpace(course.Name)] = struct{}{}
		sections := course.Sections
		if in.PinSelected && course.SelectedSection != nil {
			sections = []models.Section{*course.SelectedSection}
		}
		s.addSlot(sections)
	}

	rng := rngFromSeed(in.Seed)
	for _, block := range in.CoreBlocks {
		code := strings.TrimSpace(block.CoreCode)
		switch {
		case block.SelectedCourse != nil:
			// A course already in the working set holds its own slot.
			if claim(taken, block.SelectedCourse.Name) {
				s.addSlot(block.SelectedCourse.Sections)
			}
		case in.RandomizeCore && len(block.Candidates) > 0:
			open := unclaimed(taken, block.Candidates)
			if len(open) == 0 {
				s.required = appendCode(s.required, code)
				continue
			}
			pick := open[rng.Intn(len(open))]
			claim(taken, pick.Name)
			s.addSlot(pick.Sections)
		case code != "":
			s.required = append(s.required, code)
		}
	}

	if len(s.slots) == 0 {
		return nil
	}
	s.placed = make([]int, 0, len(s.slots))
	s.descend(0)
	return s.out
}

// claim records name in taken and reports whether it was free.
func claim(taken map[string]struct{}, name string) bool {
	key := strings.TrimSpace(name)
	if _, ok := taken[key]; ok {
		return false
	}
	taken[key] = struct{}{}
	return true
}

func unclaimed(taken map[string]struct{}, candidates []models.Course) []models.Course {
	open := make([]models.Course, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := taken[strings.TrimSpace(c.Name)]; !ok {
			open = append(open, c)
		}
	}
	return open
}

func appendCode(codes []string, code string) []string {
	if code == "" {
		return codes
	}
	return append(codes, code)
}

func (s *search) addSlot(sections []models.Section) {
	idx := make([]int, len(sections))
	for i, section := range sections {
		idx[i] = len(s.arena)
		s.arena = append(s.arena, section)
	}
	s.slots = append(s.slots, idx)
}

// descend returns false once the emission limit is reached.
func (s *search) descend(depth int) bool {
	if depth == len(s.slots) {
		return s.emit()
	}
	for _, candidate := range s.slots[depth] {
		if s.conflictsWithPlaced(candidate) {
			continue
		}
		s.placed = append(s.placed, candidate)
		more := s.descend(depth + 1)
		s.placed = s.placed[:len(s.placed)-1]
		if !more {
			return false
		}
	}
	return true
}

func (s *search) conflictsWithPlaced(candidate int) bool {
	for _, p := range s.placed {
		if Conflicts(s.arena[candidate], s.arena[p]) {
			return true
		}
	}
	return false
}

func (s *search) emit() bool {
	for _, code := range s.required {
		if !s.placedSatisfies(code) {
			return true
		}
	}
	sections := make([]models.Section, len(s.placed))
	for i, p := range s.placed {
		sections[i] = s.arena[p]
	}
	breakdown := Score(sections, s.prefs, s.ratings)
	s.out = append(s.out, models.CandidateSchedule{
		Sections: sections,
		Valid:    true,
		Score:    breakdown.Total,
		Order:    len(s.out),
	})
	return s.limit <= 0 || len(s.out) < s.limit
}

func (s *search) placedSatisfies(code string) bool {
	for _, p := range s.placed {
		if s.arena[p].SatisfiesCore(code) {
			return true
		}
	}
	return false
}

func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

// CombinationCount returns the unpruned size of the search space. With a
// positive limit the count stops at limit+1 once it is exceeded.
func CombinationCount(courses []models.Course, limit int) int {
	if len(courses) == 0 {
		return 0
	}
	total := 1
	for _, c := range courses {
		n := len(c.Sections)
		if n == 0 {
			return 0
		}
		if limit > 0 && total > limit/n {
			return limit + 1
		}
		total *= n
	}
	return total
}
