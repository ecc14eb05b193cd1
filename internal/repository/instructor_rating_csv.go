package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// DecodeInstructorRatingsCSV parses the ratings export. The header row names the columns,
// so column order in the file does not matter.
func DecodeInstructorRatingsCSV(r io.Reader, delimiter string) ([]models.InstructorRating, error) {
	reader := csv.NewReader(r)
	if delimiter != "" {
		comma, _ := utf8.DecodeRuneInString(delimiter)
		reader.Comma = comma
	}
	reader.TrimLeadingSpace = true

	ratings := make([]models.InstructorRating, 0)
	if err := gocsv.UnmarshalCSV(reader, &ratings); err != nil {
		return nil, fmt.Errorf("parse ratings csv: %w", err)
	}

	out := ratings[:0]
	for _, rating := range ratings {
		rating.FirstName = strings.TrimSpace(rating.FirstName)
		rating.LastName = strings.TrimSpace(rating.LastName)
		if rating.LastName == "" {
			continue
		}
		out = append(out, rating)
	}
	return out, nil
}

// CSVRatingRepository serves ratings straight from the export file when no database is configured.
type CSVRatingRepository struct {
	path      string
	delimiter string
}

// NewCSVRatingRepository constructs the file-backed repository.
func NewCSVRatingRepository(path, delimiter string) *CSVRatingRepository {
	return &CSVRatingRepository{path: path, delimiter: delimiter}
}

// ListAll reads the whole file in file order.
func (r *CSVRatingRepository) ListAll(ctx context.Context) ([]models.InstructorRating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open ratings csv: %w", err)
	}
	defer file.Close() //nolint:errcheck
	return DecodeInstructorRatingsCSV(file, r.delimiter)
}
