package repository

import (
	"context"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// RatingLister is implemented by every instructor rating source.
type RatingLister interface {
	ListAll(ctx context.Context) ([]models.InstructorRating, error)
}

// RatingChain serves the first source that returns any ratings. A failing source is
// skipped; its error is reported only when no later source has data either.
type RatingChain []RatingLister

// ListAll implements RatingLister.
func (c RatingChain) ListAll(ctx context.Context) ([]models.InstructorRating, error) {
	var lastErr error
	for _, source := range c {
		if source == nil {
			continue
		}
		ratings, err := source.ListAll(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if len(ratings) > 0 {
			return ratings, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return []models.InstructorRating{}, nil
}
