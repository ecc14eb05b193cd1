package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/storage"
)

// maxSavedSchedulesPerSemester bounds how many schedules one student keeps per semester.
const maxSavedSchedulesPerSemester = 50

type savedScheduleRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.SavedSchedule) error
	CountByOwner(ctx context.Context, exec sqlx.ExtContext, ownerID, semester string) (int, error)
	List(ctx context.Context, filter models.SavedScheduleFilter) ([]models.SavedSchedule, int, error)
	FindByID(ctx context.Context, id string) (*models.SavedSchedule, error)
	FindForOwner(ctx context.Context, ownerID, id string) (*models.SavedSchedule, error)
	MarkShared(ctx context.Context, exec sqlx.ExtContext, ownerID, id string, at time.Time) error
	Delete(ctx context.Context, ownerID, id string) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// scheduleSource scores explicit sections and looks up generated proposals.
type scheduleSource interface {
	Breakdown(ctx context.Context, req dto.ScoreRequest) (*models.ScoreBreakdown, error)
	ProposalCandidate(proposalID string, rank int) (dto.ScheduleCandidate, error)
}

type shareSigner interface {
	Issue(scheduleID, ownerID string) (string, time.Time, error)
	Verify(token string) (storage.ShareClaims, error)
}

// SavedScheduleService persists, lists and shares student schedules.
type SavedScheduleService struct {
	repo      savedScheduleRepository
	tx        txProvider
	schedules scheduleSource
	signer    shareSigner
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSavedScheduleService constructs the service.
func NewSavedScheduleService(repo savedScheduleRepository, tx txProvider, schedules scheduleSource, signer shareSigner, validate *validator.Validate, logger *zap.Logger) *SavedScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SavedScheduleService{
		repo:      repo,
		tx:        tx,
		schedules: schedules,
		signer:    signer,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Save stores explicit sections or a ranked proposal entry for the owner.
func (s *SavedScheduleService) Save(ctx context.Context, ownerID string, req dto.SaveScheduleRequest) (detail *dto.SavedScheduleDetail, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid saved schedule payload")
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, appErrors.ErrUnauthorized
	}

	sections, score, err := s.resolveSections(ctx, req)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(sections)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode sections")
	}

	record := &models.SavedSchedule{
		OwnerID:  ownerID,
		Name:     strings.TrimSpace(req.Name),
		Semester: strings.TrimSpace(req.Semester),
		Score:    score,
		Sections: types.JSONText(payload),
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	count, err := s.repo.CountByOwner(ctx, tx, ownerID, record.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count saved schedules")
	}
	if count >= maxSavedSchedulesPerSemester {
		err = appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("at most %d schedules can be saved per semester", maxSavedSchedulesPerSemester))
		return nil, err
	}
	if err = s.repo.Create(ctx, tx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit saved schedule")
	}

	s.logger.Info("schedule saved", zap.String("owner_id", ownerID), zap.String("schedule_id", record.ID), zap.Int("sections", len(sections)))
	return s.toDetail(record)
}

// List returns one page of the owner's saved schedules.
func (s *SavedScheduleService) List(ctx context.Context, ownerID string, query dto.SavedScheduleQuery) ([]dto.SavedScheduleDetail, *models.Pagination, error) {
	page, size := query.Page, query.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	records, total, err := s.repo.List(ctx, models.SavedScheduleFilter{
		OwnerID:  ownerID,
		Semester: strings.TrimSpace(query.Semester),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list saved schedules")
	}
	out := make([]dto.SavedScheduleDetail, 0, len(records))
	for i := range records {
		detail, err := s.toDetail(&records[i])
		if err != nil {
			return nil, nil, err
		}
		out = append(out, *detail)
	}
	return out, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads one of the owner's schedules.
func (s *SavedScheduleService) Get(ctx context.Context, ownerID, id string) (*dto.SavedScheduleDetail, error) {
	record, err := s.repo.FindForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err, "saved schedule not found", "failed to load saved schedule")
	}
	return s.toDetail(record)
}

// Delete removes one of the owner's schedules.
func (s *SavedScheduleService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return notFoundOr(err, "saved schedule not found", "failed to delete saved schedule")
	}
	s.logger.Info("schedule deleted", zap.String("owner_id", ownerID), zap.String("schedule_id", id))
	return nil
}

// Share marks the schedule public and issues a signed read-only link token.
func (s *SavedScheduleService) Share(ctx context.Context, ownerID, id string) (*dto.ShareScheduleResponse, error) {
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "sharing is not configured")
	}
	if err := s.repo.MarkShared(ctx, nil, ownerID, id, s.now().UTC()); err != nil {
		return nil, notFoundOr(err, "saved schedule not found", "failed to share schedule")
	}
	token, expiresAt, err := s.signer.Issue(id, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue share token")
	}
	return &dto.ShareScheduleResponse{Token: token, Path: "/shared/" + token, ExpiresAt: expiresAt}, nil
}

// Shared resolves a share token to the public schedule it points at.
func (s *SavedScheduleService) Shared(ctx context.Context, token string) (*dto.SavedScheduleDetail, error) {
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "shared schedule not found")
	}
	claims, err := s.signer.Verify(token)
	switch {
	case errors.Is(err, storage.ErrTokenExpired):
		return nil, appErrors.Clone(appErrors.ErrGone, "share link expired")
	case err != nil:
		return nil, appErrors.Clone(appErrors.ErrNotFound, "shared schedule not found")
	}

	record, err := s.repo.FindByID(ctx, claims.ScheduleID)
	if err != nil {
		return nil, notFoundOr(err, "shared schedule not found", "failed to load shared schedule")
	}
	if !record.IsPublic || record.OwnerID != claims.OwnerID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "shared schedule not found")
	}
	return s.toDetail(record)
}

// Rehydrate turns a saved flat section list back into a working set: one course per
// section name, in first-seen order, each with its first section selected.
func (s *SavedScheduleService) Rehydrate(saved *models.SavedSchedule) ([]models.Course, error) {
	sections, err := decodeSections(saved)
	if err != nil {
		return nil, err
	}
	return groupSections(sections), nil
}

func (s *SavedScheduleService) resolveSections(ctx context.Context, req dto.SaveScheduleRequest) ([]models.Section, int, error) {
	if len(req.Sections) > 0 {
		sections := normalizeSections(req.Sections)
		for i := range sections {
			if scheduler.ConflictsWithAny(sections[i], sections[:i]) {
				return nil, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("section %s conflicts with another section in the schedule", sections[i].ID))
			}
		}
		if s.schedules == nil {
			return sections, 0, nil
		}
		breakdown, err := s.schedules.Breakdown(ctx, dto.ScoreRequest{Sections: sections})
		if err != nil {
			return nil, 0, err
		}
		return sections, breakdown.Total, nil
	}
	if strings.TrimSpace(req.ProposalID) == "" {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "sections or proposalId is required")
	}
	if s.schedules == nil {
		return nil, 0, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	candidate, err := s.schedules.ProposalCandidate(req.ProposalID, req.Rank)
	if err != nil {
		return nil, 0, err
	}
	return candidate.Sections, candidate.Score, nil
}

func (s *SavedScheduleService) toDetail(record *models.SavedSchedule) (*dto.SavedScheduleDetail, error) {
	sections, err := decodeSections(record)
	if err != nil {
		return nil, err
	}
	courses, err := s.Rehydrate(record)
	if err != nil {
		return nil, err
	}
	return &dto.SavedScheduleDetail{
		ID:        record.ID,
		Name:      record.Name,
		Semester:  record.Semester,
		Score:     record.Score,
		IsPublic:  record.IsPublic,
		SharedAt:  record.SharedAt,
		Sections:  sections,
		Courses:   courses,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}, nil
}

func decodeSections(record *models.SavedSchedule) ([]models.Section, error) {
	sections := make([]models.Section, 0)
	if record == nil || len(record.Sections) == 0 {
		return sections, nil
	}
	if err := json.Unmarshal(record.Sections, &sections); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored sections are unreadable")
	}
	return sections, nil
}

func groupSections(sections []models.Section) []models.Course {
	index := make(map[string]int, len(sections))
	courses := make([]models.Course, 0, len(sections))
	for _, section := range sections {
		i, ok := index[section.Name]
		if !ok {
			i = len(courses)
			index[section.Name] = i
			courses = append(courses, models.Course{ID: section.Name, Name: section.Name})
		}
		courses[i].Sections = append(courses[i].Sections, section)
	}
	for i := range courses {
		selected := courses[i].Sections[0]
		courses[i].SelectedSection = &selected
	}
	return courses
}

func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}
