package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/storage"
)

type savedScheduleRepoStub struct {
	items     map[string]*models.SavedSchedule
	count     int
	createErr error
	created   *models.SavedSchedule
}

func newSavedScheduleRepoStub() *savedScheduleRepoStub {
	return &savedScheduleRepoStub{items: make(map[string]*models.SavedSchedule)}
}

func (r *savedScheduleRepoStub) Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.SavedSchedule) error {
	if r.createErr != nil {
		return r.createErr
	}
	if schedule.ID == "" {
		schedule.ID = "sched-1"
	}
	r.created = schedule
	r.items[schedule.ID] = schedule
	return nil
}

func (r *savedScheduleRepoStub) CountByOwner(ctx context.Context, exec sqlx.ExtContext, ownerID, semester string) (int, error) {
	return r.count, nil
}

func (r *savedScheduleRepoStub) List(ctx context.Context, filter models.SavedScheduleFilter) ([]models.SavedSchedule, int, error) {
	out := make([]models.SavedSchedule, 0)
	for _, item := range r.items {
		if item.OwnerID == filter.OwnerID {
			out = append(out, *item)
		}
	}
	return out, len(out), nil
}

func (r *savedScheduleRepoStub) FindByID(ctx context.Context, id string) (*models.SavedSchedule, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return item, nil
}

func (r *savedScheduleRepoStub) FindForOwner(ctx context.Context, ownerID, id string) (*models.SavedSchedule, error) {
	item, ok := r.items[id]
	if !ok || item.OwnerID != ownerID {
		return nil, sql.ErrNoRows
	}
	return item, nil
}

func (r *savedScheduleRepoStub) MarkShared(ctx context.Context, exec sqlx.ExtContext, ownerID, id string, at time.Time) error {
	item, ok := r.items[id]
	if !ok || item.OwnerID != ownerID {
		return sql.ErrNoRows
	}
	item.IsPublic = true
	item.SharedAt = &at
	return nil
}

func (r *savedScheduleRepoStub) Delete(ctx context.Context, ownerID, id string) error {
	item, ok := r.items[id]
	if !ok || item.OwnerID != ownerID {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

type scheduleSourceStub struct {
	candidate dto.ScheduleCandidate
	total     int
}

func (s scheduleSourceStub) Breakdown(ctx context.Context, req dto.ScoreRequest) (*models.ScoreBreakdown, error) {
	return &models.ScoreBreakdown{Total: s.total}, nil
}

func (s scheduleSourceStub) ProposalCandidate(proposalID string, rank int) (dto.ScheduleCandidate, error) {
	if proposalID != "proposal-1" {
		return dto.ScheduleCandidate{}, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	return s.candidate, nil
}

func newSavedScheduleFixture(t *testing.T) (*SavedScheduleService, *savedScheduleRepoStub, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newSavedScheduleRepoStub()
	source := scheduleSourceStub{
		total: 88,
		candidate: dto.ScheduleCandidate{Rank: 1, Score: 93, Sections: []models.Section{
			catalogSection("10002", "Calculus", models.Monday, 900, 960),
		}},
	}
	signer := storage.NewShareTokenSigner("test-secret", time.Hour)
	svc := NewSavedScheduleService(repo, sqlx.NewDb(db, "sqlmock"), source, signer, nil, nil)
	return svc, repo, mock
}

func seedSavedSchedule(t *testing.T, repo *savedScheduleRepoStub, id, owner string, sections []models.Section) {
	t.Helper()
	raw, err := json.Marshal(sections)
	require.NoError(t, err)
	repo.items[id] = &models.SavedSchedule{ID: id, OwnerID: owner, Name: "Fall plan", Sections: types.JSONText(raw)}
}

func TestSavedScheduleServiceSaveFromSections(t *testing.T) {
	svc, repo, mock := newSavedScheduleFixture(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	sections := conflictingCourses()[0].Sections
	detail, err := svc.Save(context.Background(), "student-1", dto.SaveScheduleRequest{
		Name:     "  Fall plan ",
		Semester: "2025-fall",
		Sections: sections,
	})
	require.NoError(t, err)
	assert.Equal(t, "sched-1", detail.ID)
	assert.Equal(t, "Fall plan", detail.Name)
	assert.Equal(t, 88, detail.Score)
	assert.Len(t, detail.Sections, 2)
	require.Len(t, detail.Courses, 1)
	assert.Equal(t, "10001", detail.Courses[0].SelectedSection.ID)
	assert.Equal(t, "student-1", repo.created.OwnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleServiceSaveRejectsConflictingSections(t *testing.T) {
	svc, repo, mock := newSavedScheduleFixture(t)

	calculus := conflictingCourses()[0].Sections[0]
	chemistry := conflictingCourses()[1].Sections[0]
	_, err := svc.Save(context.Background(), "student-1", dto.SaveScheduleRequest{
		Name:     "Clash",
		Sections: []models.Section{calculus, chemistry},
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)
	assert.Nil(t, repo.created)

	// Two spellings of one campus leave back-to-back meetings valid.
	back := catalogSection("30001", "Physics", models.Monday, 660, 720)
	back.Campus = "College Avenue"
	calculus.Campus = "College Ave"
	mock.ExpectBegin()
	mock.ExpectCommit()
	detail, err := svc.Save(context.Background(), "student-1", dto.SaveScheduleRequest{
		Name:     "Back to back",
		Sections: []models.Section{calculus, back},
	})
	require.NoError(t, err)
	require.Len(t, detail.Sections, 2)
	assert.Equal(t, detail.Sections[0].Campus, detail.Sections[1].Campus)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleServiceSaveFromProposal(t *testing.T) {
	svc, _, mock := newSavedScheduleFixture(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	detail, err := svc.Save(context.Background(), "student-1", dto.SaveScheduleRequest{Name: "Best", ProposalID: "proposal-1", Rank: 1})
	require.NoError(t, err)
	assert.Equal(t, 93, detail.Score)
	assert.Equal(t, "10002", detail.Sections[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleServiceSaveRollsBack(t *testing.T) {
	svc, repo, mock := newSavedScheduleFixture(t)
	repo.createErr = errors.New("insert failed")
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Save(context.Background(), "student-1", dto.SaveScheduleRequest{Name: "x", Sections: conflictingCourses()[1].Sections})
	requireAppError(t, err, appErrors.ErrInternal.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleServiceSaveEnforcesSemesterLimit(t *testing.T) {
	svc, repo, mock := newSavedScheduleFixture(t)
	repo.count = maxSavedSchedulesPerSemester
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Save(context.Background(), "student-1", dto.SaveScheduleRequest{Name: "x", Sections: conflictingCourses()[1].Sections})
	requireAppError(t, err, appErrors.ErrConflict.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedScheduleServiceSaveValidation(t *testing.T) {
	svc, _, _ := newSavedScheduleFixture(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "student-1", dto.SaveScheduleRequest{})
	requireAppError(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Save(ctx, "student-1", dto.SaveScheduleRequest{Name: "empty"})
	requireAppError(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Save(ctx, "student-1", dto.SaveScheduleRequest{Name: "gone", ProposalID: "missing"})
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestSavedScheduleServiceGetListDelete(t *testing.T) {
	svc, repo, _ := newSavedScheduleFixture(t)
	ctx := context.Background()
	seedSavedSchedule(t, repo, "a", "student-1", conflictingCourses()[0].Sections)
	seedSavedSchedule(t, repo, "b", "student-2", nil)

	detail, err := svc.Get(ctx, "student-1", "a")
	require.NoError(t, err)
	assert.Len(t, detail.Sections, 2)

	_, err = svc.Get(ctx, "student-1", "b")
	requireAppError(t, err, appErrors.ErrNotFound.Code)

	items, pagination, err := svc.List(ctx, "student-1", dto.SavedScheduleQuery{PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, pagination)

	require.NoError(t, svc.Delete(ctx, "student-1", "a"))
	err = svc.Delete(ctx, "student-1", "a")
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestSavedScheduleServiceShareRoundTrip(t *testing.T) {
	svc, repo, _ := newSavedScheduleFixture(t)
	ctx := context.Background()
	seedSavedSchedule(t, repo, "a", "student-1", conflictingCourses()[0].Sections)

	_, err := svc.Shared(ctx, "garbage")
	requireAppError(t, err, appErrors.ErrNotFound.Code)

	share, err := svc.Share(ctx, "student-1", "a")
	require.NoError(t, err)
	assert.Equal(t, "/shared/"+share.Token, share.Path)
	assert.True(t, repo.items["a"].IsPublic)
	require.NotNil(t, repo.items["a"].SharedAt)

	detail, err := svc.Shared(ctx, share.Token)
	require.NoError(t, err)
	assert.Equal(t, "a", detail.ID)
	assert.True(t, detail.IsPublic)

	repo.items["a"].IsPublic = false
	_, err = svc.Shared(ctx, share.Token)
	requireAppError(t, err, appErrors.ErrNotFound.Code)

	_, err = svc.Share(ctx, "student-2", "a")
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestSavedScheduleServiceSharedExpired(t *testing.T) {
	svc, repo, _ := newSavedScheduleFixture(t)
	seedSavedSchedule(t, repo, "a", "student-1", nil)
	svc.signer = storage.NewShareTokenSigner("test-secret", time.Nanosecond)

	share, err := svc.Share(context.Background(), "student-1", "a")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = svc.Shared(context.Background(), share.Token)
	requireAppError(t, err, appErrors.ErrGone.Code)
}

func TestSavedScheduleServiceRehydrate(t *testing.T) {
	svc, _, _ := newSavedScheduleFixture(t)
	sections := []models.Section{
		catalogSection("2", "Chemistry", models.Tuesday, 600, 660),
		catalogSection("1", "Calculus", models.Monday, 600, 660),
		catalogSection("3", "Chemistry", models.Thursday, 600, 660),
	}
	raw, err := json.Marshal(sections)
	require.NoError(t, err)

	courses, err := svc.Rehydrate(&models.SavedSchedule{Sections: types.JSONText(raw)})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Chemistry", courses[0].Name)
	assert.Len(t, courses[0].Sections, 2)
	assert.Equal(t, "2", courses[0].SelectedSection.ID)
	assert.Equal(t, "Calculus", courses[1].Name)

	_, err = svc.Rehydrate(&models.SavedSchedule{Sections: types.JSONText(`{"broken"`)})
	requireAppError(t, err, appErrors.ErrInternal.Code)
}
