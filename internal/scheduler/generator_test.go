package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

func course(name string, sections ...models.Section) models.Course {
	return models.Course{ID: name, Name: name, Sections: sections}
}

func sectionIDs(candidate models.CandidateSchedule) []string {
	ids := make([]string, len(candidate.Sections))
	for i, s := range candidate.Sections {
		ids[i] = s.ID
	}
	return ids
}

func TestGenerateEnumeratesAllConflictFreeAssignments(t *testing.T) {
	calc := course("Calc",
		newSection("c1", "Calc", CampusBusch, meet(models.Monday, 480, 560)),
		newSection("c2", "Calc", CampusBusch, meet(models.Tuesday, 480, 560)),
	)
	chem := course("Chem",
		newSection("h1", "Chem", CampusBusch, meet(models.Wednesday, 600, 680)),
		newSection("h2", "Chem", CampusBusch, meet(models.Thursday, 600, 680)),
		newSection("h3", "Chem", CampusBusch, meet(models.Friday, 600, 680)),
	)

	result := Generate(GenerateInput{
		Courses:     []models.Course{calc, chem},
		Preferences: models.DefaultPreferences(),
	})

	require.Len(t, result, 6)
	assert.Equal(t, []string{"c1", "h1"}, sectionIDs(result[0]))
	assert.Equal(t, []string{"c2", "h3"}, sectionIDs(result[5]))
	for i, candidate := range result {
		assert.True(t, candidate.Valid)
		assert.Equal(t, i, candidate.Order)
	}
}

func TestGeneratePrunesConflictingSections(t *testing.T) {
	fixed := course("Calc", newSection("c1", "Calc", CampusBusch, meet(models.Monday, 600, 660)))
	chem := course("Chem",
		newSection("h1", "Chem", CampusBusch, meet(models.Monday, 630, 690)),
		newSection("h2", "Chem", CampusBusch, meet(models.Tuesday, 630, 690)),
	)

	result := Generate(GenerateInput{
		Courses:     []models.Course{fixed, chem},
		Preferences: models.DefaultPreferences(),
	})

	require.Len(t, result, 1)
	assert.Equal(t, []string{"c1", "h2"}, sectionIDs(result[0]))
}

func TestGenerateEmittedSchedulesArePairwiseConflictFree(t *testing.T) {
	courses := []models.Course{
		course("A",
			newSection("a1", "A", CampusBusch, meet(models.Monday, 600, 660)),
			newSection("a2", "A", CampusLivingston, meet(models.Monday, 680, 740)),
		),
		course("B",
			newSection("b1", "B", CampusLivingston, meet(models.Monday, 670, 730)),
			newSection("b2", "B", CampusBusch, meet(models.Monday, 760, 820)),
		),
		course("C",
			newSection("x1", "C", CampusCollegeAvenue, meet(models.Monday, 700, 760)),
			newSection("x2", "C", CampusCollegeAvenue, meet(models.Tuesday, 700, 760)),
		),
	}

	result := Generate(GenerateInput{Courses: courses, Preferences: models.DefaultPreferences()})

	require.NotEmpty(t, result)
	for _, candidate := range result {
		require.Len(t, candidate.Sections, len(courses))
		for i := range candidate.Sections {
			for j := i + 1; j < len(candidate.Sections); j++ {
				assert.False(t, Conflicts(candidate.Sections[i], candidate.Sections[j]), "candidate %v", sectionIDs(candidate))
			}
		}
	}
}

func TestGenerateEmptyInputs(t *testing.T) {
	assert.Empty(t, Generate(GenerateInput{}))

	empty := course("Ghost")
	calc := course("Calc", newSection("c1", "Calc", CampusBusch, meet(models.Monday, 600, 660)))
	assert.Empty(t, Generate(GenerateInput{Courses: []models.Course{calc, empty}}))
}

func TestGenerateSingleSectionCourse(t *testing.T) {
	calc := course("Calc", newSection("c1", "Calc", CampusBusch, meet(models.Monday, 600, 660)))
	result := Generate(GenerateInput{Courses: []models.Course{calc}, Preferences: models.DefaultPreferences()})
	require.Len(t, result, 1)
}

func TestGenerateChecksCoreCoverageAfterAssembly(t *testing.T) {
	history := newSection("h1", "Western Civ", CampusBusch, meet(models.Monday, 600, 660))
	history.CoreRequirements = []string{"HST"}
	plain := newSection("h2", "Western Civ", CampusBusch, meet(models.Tuesday, 600, 660))
	calc := course("Calc", newSection("c1", "Calc", CampusBusch, meet(models.Wednesday, 600, 660)))

	result := Generate(GenerateInput{
		Courses:     []models.Course{calc, course("Western Civ", history, plain)},
		CoreBlocks:  []models.CoreRequirementBlock{{CoreCode: "HST"}},
		Preferences: models.DefaultPreferences(),
	})

	require.Len(t, result, 1)
	assert.Equal(t, []string{"c1", "h1"}, sectionIDs(result[0]))
}

func TestGenerateUsesSelectedCourseForCoreBlock(t *testing.T) {
	writing := course("Expository Writing",
		newSection("w1", "Expository Writing", CampusCollegeAvenue, meet(models.Tuesday, 600, 680)),
		newSection("w2", "Expository Writing", CampusCollegeAvenue, meet(models.Thursday, 600, 680)),
	)
	calc := course("Calc", newSection("c1", "Calc", CampusBusch, meet(models.Monday, 600, 660)))

	result := Generate(GenerateInput{
		Courses:     []models.Course{calc},
		CoreBlocks:  []models.CoreRequirementBlock{{CoreCode: "WC", SelectedCourse: &writing}},
		Preferences: models.DefaultPreferences(),
	})

	require.Len(t, result, 2)
	assert.Equal(t, []string{"c1", "w1"}, sectionIDs(result[0]))
}

func TestGenerateSkipsCoreBlockForCourseAlreadySelected(t *testing.T) {
	writing := course("Expository Writing",
		newSection("w1", "Expository Writing", CampusCollegeAvenue, meet(models.Tuesday, 600, 680)),
		newSection("w2", "Expository Writing", CampusCollegeAvenue, meet(models.Thursday, 600, 680)),
	)
	calc := course("Calc", newSection("c1", "Calc", CampusBusch, meet(models.Monday, 600, 660)))

	result := Generate(GenerateInput{
		Courses:     []models.Course{calc, writing},
		CoreBlocks:  []models.CoreRequirementBlock{{CoreCode: "WC", SelectedCourse: &writing}},
		Preferences: models.DefaultPreferences(),
	})

	require.Len(t, result, 2)
	for _, candidate := range result {
		assert.Len(t, candidate.Sections, 2)
	}
}

func TestGenerateRandomCoreSkipsCandidatesAlreadySelected(t *testing.T) {
	history := newSection("h1", "Western Civ", CampusBusch, meet(models.Monday, 600, 660))
	history.CoreRequirements = []string{"HST"}
	civ := course("Western Civ", history)
	other := course("World History", newSection("x1", "World History", CampusBusch, meet(models.Friday, 600, 660)))

	for seed := int64(1); seed <= 5; seed++ {
		result := Generate(GenerateInput{
			Courses:       []models.Course{civ},
			CoreBlocks:    []models.CoreRequirementBlock{{CoreCode: "HST", Candidates: []models.Course{civ, other}}},
			RandomizeCore: true,
			Seed:          seed,
			Preferences:   models.DefaultPreferences(),
		})
		require.Len(t, result, 1, "seed %d", seed)
		assert.Equal(t, []string{"h1", "x1"}, sectionIDs(result[0]))
	}

	covered := Generate(GenerateInput{
		Courses:       []models.Course{civ},
		CoreBlocks:    []models.CoreRequirementBlock{{CoreCode: "HST", Candidates: []models.Course{civ}}},
		RandomizeCore: true,
		Preferences:   models.DefaultPreferences(),
	})
	require.Len(t, covered, 1)
	assert.Equal(t, []string{"h1"}, sectionIDs(covered[0]))
}

func TestGenerateRandomCoreIsDeterministicForSeed(t *testing.T) {
	candidates := make([]models.Course, 0, 5)
	for i, day := range models.Weekdays {
		name := string(day) + " Seminar"
		candidates = append(candidates, course(name, newSection(name, name, CampusBusch, meet(day, 900+i, 960))))
	}
	input := GenerateInput{
		CoreBlocks:    []models.CoreRequirementBlock{{CoreCode: "SCL", Candidates: candidates}},
		RandomizeCore: true,
		Seed:          42,
		Preferences:   models.DefaultPreferences(),
	}

	first := Generate(input)
	second := Generate(input)
	require.Len(t, first, 1)
	assert.Equal(t, first, second)

	input.Seed = 0
	zero := Generate(input)
	input.Seed = defaultSeed
	assert.Equal(t, Generate(input), zero)
}

func TestGenerateRandomCoreWithoutCandidatesFallsBackToCoverageCheck(t *testing.T) {
	calc := course("Calc", newSection("c1", "Calc", CampusBusch, meet(models.Monday, 600, 660)))

	result := Generate(GenerateInput{
		Courses:       []models.Course{calc},
		CoreBlocks:    []models.CoreRequirementBlock{{CoreCode: "NS"}},
		RandomizeCore: true,
		Preferences:   models.DefaultPreferences(),
	})

	assert.Empty(t, result)
}

func TestGeneratePinSelectedAndLimit(t *testing.T) {
	s1 := newSection("c1", "Calc", CampusBusch, meet(models.Monday, 600, 660))
	s2 := newSection("c2", "Calc", CampusBusch, meet(models.Tuesday, 600, 660))
	calc := course("Calc", s1, s2)
	calc.SelectedSection = &s2
	chem := course("Chem",
		newSection("h1", "Chem", CampusBusch, meet(models.Wednesday, 600, 660)),
		newSection("h2", "Chem", CampusBusch, meet(models.Thursday, 600, 660)),
	)

	pinned := Generate(GenerateInput{Courses: []models.Course{calc, chem}, PinSelected: true})
	require.Len(t, pinned, 2)
	for _, candidate := range pinned {
		assert.Equal(t, "c2", candidate.Sections[0].ID)
	}

	limited := Generate(GenerateInput{Courses: []models.Course{calc, chem}, MaxCandidates: 3})
	assert.Len(t, limited, 3)
}

func TestCombinationCount(t *testing.T) {
	a := course("A", models.Section{ID: "1"}, models.Section{ID: "2"}, models.Section{ID: "3"})
	b := course("B", models.Section{ID: "4"}, models.Section{ID: "5"})

	assert.Equal(t, 6, CombinationCount([]models.Course{a, b}, 0))
	assert.Equal(t, 6, CombinationCount([]models.Course{a, b}, 6))
	assert.Equal(t, 5, CombinationCount([]models.Course{a, b}, 4))
	assert.Equal(t, 0, CombinationCount([]models.Course{a, course("Empty")}, 0))
	assert.Equal(t, 0, CombinationCount(nil, 0))
}
