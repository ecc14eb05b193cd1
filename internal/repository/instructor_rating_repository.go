package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// InstructorRatingRepository reads and loads the imported instructor ratings.
type InstructorRatingRepository struct {
	db *sqlx.DB
}

// NewInstructorRatingRepository constructs the repository.
func NewInstructorRatingRepository(db *sqlx.DB) *InstructorRatingRepository {
	return &InstructorRatingRepository{db: db}
}

// ListAll returns every rating in import order (by id).
func (r *InstructorRatingRepository) ListAll(ctx context.Context) ([]models.InstructorRating, error) {
	const query = `SELECT id, first_name, last_name, department, avg_rating, avg_difficulty, num_ratings, would_take_again_percent, updated_at FROM instructor_ratings ORDER BY id`
	ratings := make([]models.InstructorRating, 0)
	if err := r.db.SelectContext(ctx, &ratings, query); err != nil {
		return nil, fmt.Errorf("list instructor ratings: %w", err)
	}
	return ratings, nil
}

// UpsertBatch writes all ratings in a single transaction and returns how many rows were written.
func (r *InstructorRatingRepository) UpsertBatch(ctx context.Context, ratings []models.InstructorRating) (int, error) {
	if len(ratings) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rating import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO instructor_ratings (id, first_name, last_name, department, avg_rating, avg_difficulty, num_ratings, would_take_again_percent, updated_at)
		VALUES (:id, :first_name, :last_name, :department, :avg_rating, :avg_difficulty, :num_ratings, :would_take_again_percent, :updated_at)
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    department = EXCLUDED.department,
		    avg_rating = EXCLUDED.avg_rating,
		    avg_difficulty = EXCLUDED.avg_difficulty,
		    num_ratings = EXCLUDED.num_ratings,
		    would_take_again_percent = EXCLUDED.would_take_again_percent,
		    updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for i := range ratings {
		rating := ratings[i]
		if rating.ID == "" {
			err = fmt.Errorf("rating for %s %s has no id", rating.FirstName, rating.LastName)
			return 0, err
		}
		rating.UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, query, rating); err != nil {
			err = fmt.Errorf("upsert instructor rating %s: %w", rating.ID, err)
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rating import: %w", err)
	}
	return len(ratings), nil
}
