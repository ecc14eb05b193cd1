package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

type instructorRatingLister interface {
	ListAll(ctx context.Context) ([]models.InstructorRating, error)
}

// RatingService resolves catalog instructor names to imported ratings. The rating list is
// loaded once and reused until Reload.
type RatingService struct {
	repo    instructorRatingLister
	metrics *MetricsService
	logger  *zap.Logger

	mu      sync.RWMutex
	loaded  bool
	ratings []models.InstructorRating
}

// NewRatingService constructs the resolver.
func NewRatingService(repo instructorRatingLister, metrics *MetricsService, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{repo: repo, metrics: metrics, logger: logger}
}

// Reload replaces the in-memory rating list from the repository.
func (s *RatingService) Reload(ctx context.Context) error {
	if s.repo == nil {
		s.mu.Lock()
		s.loaded = true
		s.mu.Unlock()
		return nil
	}
	start := time.Now()
	ratings, err := s.repo.ListAll(ctx)
	s.metrics.ObserveDBQuery("instructor_ratings.list", time.Since(start))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor ratings")
	}

	s.mu.Lock()
	s.ratings = ratings
	s.loaded = true
	s.mu.Unlock()
	s.logger.Info("instructor ratings loaded", zap.Int("count", len(ratings)))
	return nil
}

func (s *RatingService) snapshot(ctx context.Context) ([]models.InstructorRating, error) {
	s.mu.RLock()
	loaded, ratings := s.loaded, s.ratings
	s.mu.RUnlock()
	if loaded {
		return ratings, nil
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ratings, nil
}

// LookupRatings returns the matched rating for each name that resolves, in input order.
// Unmatched names are omitted.
func (s *RatingService) LookupRatings(ctx context.Context, names []string) ([]models.InstructorRating, error) {
	ratings, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.InstructorRating, 0, len(names))
	for _, name := range names {
		if rating, ok := matchRating(ratings, name); ok {
			out = append(out, rating)
		}
	}
	return out, nil
}

// Resolve returns the resolved rating for every distinct instructor name in sections.
func (s *RatingService) Resolve(ctx context.Context, sections []models.Section) ([]models.ResolvedRating, error) {
	ratings, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]models.ResolvedRating, 0)
	for _, section := range sections {
		for _, name := range section.InstructorNames() {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			if rating, ok := matchRating(ratings, name); ok {
				out = append(out, models.ResolvedRating{
					Name:                  name,
					AvgRating:             rating.AvgRating,
					NumRatings:            rating.NumRatings,
					AvgDifficulty:         rating.AvgDifficulty,
					WouldTakeAgainPercent: rating.WouldTakeAgainPercent,
				})
			}
		}
	}
	return out, nil
}

// Resolver builds the engine's rating lookup for the given sections ahead of generation.
func (s *RatingService) Resolver(ctx context.Context, sections []models.Section) (scheduler.RatingSource, error) {
	resolved, err := s.Resolve(ctx, sections)
	if err != nil {
		return nil, err
	}
	source := make(scheduler.RatingMap, len(resolved))
	for _, r := range resolved {
		source[r.Name] = r.AvgRating
	}
	return source, nil
}

// SplitInstructorList splits a "; "-separated instructor string into names.
func SplitInstructorList(raw string) []string {
	parts := strings.Split(raw, ";")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// parseInstructorName splits "Last, First", "First Middle Last" or a lone last name.
func parseInstructorName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, ","); i >= 0 {
		last = strings.TrimSpace(name[:i])
		rest := name[i+1:]
		if j := strings.Index(rest, ","); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest), last
	}
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
	}
}

func matchRating(ratings []models.InstructorRating, name string) (models.InstructorRating, bool) {
	first, last := parseInstructorName(name)
	if last == "" {
		return models.InstructorRating{}, false
	}
	first, last = strings.ToLower(first), strings.ToLower(last)

	if first != "" {
		for _, r := range ratings {
			if strings.Contains(strings.ToLower(r.FirstName), first) && strings.Contains(strings.ToLower(r.LastName), last) {
				return r, true
			}
		}
	}
	for _, r := range ratings {
		if strings.Contains(strings.ToLower(r.LastName), last) {
			return r, true
		}
	}
	return models.InstructorRating{}, false
}
