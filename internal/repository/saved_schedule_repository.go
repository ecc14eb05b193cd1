package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

const savedScheduleColumns = `id, owner_id, name, semester, score, sections, is_public, shared_at, created_at, updated_at`

// SavedScheduleRepository persists schedules students chose to keep.
type SavedScheduleRepository struct {
	db *sqlx.DB
}

// NewSavedScheduleRepository constructs the repository.
func NewSavedScheduleRepository(db *sqlx.DB) *SavedScheduleRepository {
	return &SavedScheduleRepository{db: db}
}

func (r *SavedScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a saved schedule, assigning id and timestamps when missing.
func (r *SavedScheduleRepository) Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.SavedSchedule) error {
	if schedule == nil {
		return fmt.Errorf("saved schedule payload is nil")
	}
	if schedule.OwnerID == "" {
		return fmt.Errorf("owner_id is required")
	}
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if len(schedule.Sections) == 0 {
		schedule.Sections = types.JSONText(`[]`)
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `INSERT INTO saved_schedules (id, owner_id, name, semester, score, sections, is_public, shared_at, created_at, updated_at) VALUES (:id, :owner_id, :name, :semester, :score, :sections, :is_public, :shared_at, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, schedule); err != nil {
		return fmt.Errorf("insert saved schedule: %w", err)
	}
	return nil
}

// CountByOwner returns how many schedules the owner has stored for the semester filter.
func (r *SavedScheduleRepository) CountByOwner(ctx context.Context, exec sqlx.ExtContext, ownerID, semester string) (int, error) {
	const query = `SELECT COUNT(*) FROM saved_schedules WHERE owner_id = $1 AND ($2 = '' OR semester = $2)`
	var total int
	if err := sqlx.GetContext(ctx, r.exec(exec), &total, query, ownerID, semester); err != nil {
		return 0, fmt.Errorf("count saved schedules: %w", err)
	}
	return total, nil
}

// List returns one page of the owner's schedules, newest first, with the total count.
func (r *SavedScheduleRepository) List(ctx context.Context, filter models.SavedScheduleFilter) ([]models.SavedSchedule, int, error) {
	total, err := r.CountByOwner(ctx, nil, filter.OwnerID, filter.Semester)
	if err != nil {
		return nil, 0, err
	}

	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	query := `SELECT ` + savedScheduleColumns + ` FROM saved_schedules WHERE owner_id = $1 AND ($2 = '' OR semester = $2) ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	schedules := make([]models.SavedSchedule, 0)
	if err := r.db.SelectContext(ctx, &schedules, query, filter.OwnerID, filter.Semester, size, (page-1)*size); err != nil {
		return nil, 0, fmt.Errorf("list saved schedules: %w", err)
	}
	return schedules, total, nil
}

// FindByID loads a schedule regardless of owner. Callers enforce visibility.
func (r *SavedScheduleRepository) FindByID(ctx context.Context, id string) (*models.SavedSchedule, error) {
	query := `SELECT ` + savedScheduleColumns + ` FROM saved_schedules WHERE id = $1`
	var schedule models.SavedSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FindForOwner loads a schedule only when it belongs to ownerID.
func (r *SavedScheduleRepository) FindForOwner(ctx context.Context, ownerID, id string) (*models.SavedSchedule, error) {
	query := `SELECT ` + savedScheduleColumns + ` FROM saved_schedules WHERE id = $1 AND owner_id = $2`
	var schedule models.SavedSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id, ownerID); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// MarkShared flags a schedule public and stamps when it was shared.
func (r *SavedScheduleRepository) MarkShared(ctx context.Context, exec sqlx.ExtContext, ownerID, id string, at time.Time) error {
	const query = `UPDATE saved_schedules SET is_public = TRUE, shared_at = $1, updated_at = $1 WHERE id = $2 AND owner_id = $3`
	result, err := r.exec(exec).ExecContext(ctx, query, at, id, ownerID)
	if err != nil {
		return fmt.Errorf("share saved schedule: %w", err)
	}
	return requireAffected(result, "share saved schedule")
}

// Delete removes an owner's schedule.
func (r *SavedScheduleRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM saved_schedules WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete saved schedule: %w", err)
	}
	return requireAffected(result, "delete saved schedule")
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
