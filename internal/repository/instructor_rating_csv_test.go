package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ratingsCSV = `id,firstName,lastName,avgDifficulty,avgRating,department,numRatings,wouldTakeAgainPercent
VGVhY2hlci0x,Jane,Smith,3.1,4.6,Mathematics,52,88
VGVhY2hlci0y,Wei, Chen ,2.5,3.9,Physics,10,-1
VGVhY2hlci0z,Nobody,,2,2,Art,1,0
`

func TestDecodeInstructorRatingsCSV(t *testing.T) {
	ratings, err := DecodeInstructorRatingsCSV(strings.NewReader(ratingsCSV), ",")
	require.NoError(t, err)
	require.Len(t, ratings, 2, "rows without a last name are dropped")

	assert.Equal(t, "VGVhY2hlci0x", ratings[0].ID)
	assert.Equal(t, "Smith", ratings[0].LastName)
	assert.InDelta(t, 4.6, ratings[0].AvgRating, 1e-9)
	assert.InDelta(t, 3.1, ratings[0].AvgDifficulty, 1e-9)
	assert.Equal(t, 52, ratings[0].NumRatings)
	assert.Equal(t, "Chen", ratings[1].LastName)
	assert.InDelta(t, -1, ratings[1].WouldTakeAgainPercent, 1e-9)
}

func TestDecodeInstructorRatingsCSVWithSemicolons(t *testing.T) {
	data := strings.ReplaceAll(ratingsCSV, ",", ";")
	ratings, err := DecodeInstructorRatingsCSV(strings.NewReader(data), ";")
	require.NoError(t, err)
	assert.Len(t, ratings, 2)
}

func TestCSVRatingRepositoryListAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teachers_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(ratingsCSV), 0o644))

	ratings, err := NewCSVRatingRepository(path, ",").ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, ratings, 2)

	_, err = NewCSVRatingRepository(filepath.Join(t.TempDir(), "missing.csv"), ",").ListAll(context.Background())
	assert.Error(t, err)
}
