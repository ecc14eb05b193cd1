package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/export"
)

type ratingResolver interface {
	Resolver(ctx context.Context, sections []models.Section) (scheduler.RatingSource, error)
}

type openSectionReader interface {
	OpenIDs(sections []models.Section) []string
	Snapshot() models.OpenSectionSnapshot
}

type generationCache interface {
	Enabled() bool
	Key(parts ...string) string
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	ProposalTTL time.Duration
	CacheTTL    time.Duration
	// DefaultLimit applies when a request omits limit; MaxLimit caps it.
	DefaultLimit int
	MaxLimit     int
	// MaxCombinations rejects requests whose unpruned search space is larger. Zero disables the check.
	MaxCombinations int
	// MaxCandidates stops enumeration after that many valid schedules. Zero means exhaustive.
	MaxCandidates int
}

// ScheduleGeneratorService combines a student's working set into ranked, conflict-free schedules.
type ScheduleGeneratorService struct {
	ratings      ratingResolver
	openSections openSectionReader
	cache        generationCache
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          ScheduleGeneratorConfig
	store        *proposalStore
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	now          func() time.Time
}

// NewScheduleGeneratorService wires generator dependencies. Ratings, open sections and cache are optional.
func NewScheduleGeneratorService(
	ratings ratingResolver,
	openSections openSectionReader,
	cache generationCache,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = scheduler.DefaultTopN
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	svc := &ScheduleGeneratorService{
		ratings:      ratings,
		openSections: openSections,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		now:          time.Now,
	}
	svc.store = newProposalStore(cfg.ProposalTTL, func() time.Time { return svc.now() })
	return svc
}

// Generate enumerates, scores and ranks every conflict-free schedule for the request.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.ObserveGeneration(GenerationOutcomeRejected, 0, 0)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}

	courses := normalizeCourses(dedupeCourses(req.Courses))
	for _, course := range courses {
		if err := course.Validate(); err != nil {
			s.metrics.ObserveGeneration(GenerationOutcomeRejected, 0, 0)
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
	}
	req.Courses = courses
	req.CoreBlocks = normalizeCoreBlocks(req.CoreBlocks)

	prefs := models.DefaultPreferences()
	if req.Preferences != nil {
		prefs = normalizePreferences(*req.Preferences)
	}
	if prefs.EarliestStartMinute > prefs.LatestEndMinute {
		s.metrics.ObserveGeneration(GenerationOutcomeRejected, 0, 0)
		return nil, appErrors.Clone(appErrors.ErrValidation, "earliestStartMinute must not be after latestEndMinute")
	}
	req.Preferences = &prefs
	req.Limit = s.clampLimit(req.Limit)

	if s.cfg.MaxCombinations > 0 {
		count := scheduler.CombinationCount(searchSpace(req), s.cfg.MaxCombinations)
		if count > s.cfg.MaxCombinations {
			s.metrics.ObserveGeneration(GenerationOutcomeRejected, 0, 0)
			return nil, appErrors.Clone(appErrors.ErrSearchSpace, fmt.Sprintf("selection allows more than %d combinations; pin sections or remove courses", s.cfg.MaxCombinations))
		}
	}

	cacheKey := ""
	if s.cache != nil && s.cache.Enabled() {
		if fingerprint, err := requestFingerprint(req); err == nil {
			cacheKey = s.cache.Key("generate", fingerprint)
			var cached dto.GenerateScheduleResponse
			if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
				cached.Cached = true
				s.annotateOpenSections(&cached)
				s.rememberProposal(&cached)
				s.metrics.ObserveGeneration(GenerationOutcomeCached, len(cached.Candidates), 0)
				return &cached, nil
			}
		}
	}

	ratings, err := s.resolveRatings(ctx, allSections(req))
	if err != nil {
		return nil, err
	}

	start := s.now()
	generated := scheduler.Generate(scheduler.GenerateInput{
		Courses:       courses,
		CoreBlocks:    req.CoreBlocks,
		RandomizeCore: req.RandomizeCore,
		Seed:          req.Seed,
		PinSelected:   req.PinSelected,
		Preferences:   prefs,
		Ratings:       ratings,
		MaxCandidates: s.cfg.MaxCandidates,
	})
	ranked := scheduler.Rank(generated)
	top := scheduler.Top(ranked, req.Limit)

	resp := &dto.GenerateScheduleResponse{
		TotalCandidates: len(ranked),
		Truncated:       s.cfg.MaxCandidates > 0 && len(generated) >= s.cfg.MaxCandidates,
		Candidates:      make([]dto.ScheduleCandidate, 0, len(top)),
		GeneratedAt:     start.UTC(),
	}
	for i, candidate := range top {
		resp.Candidates = append(resp.Candidates, dto.ScheduleCandidate{
			Rank:      i + 1,
			Score:     candidate.Score,
			Credits:   totalCredits(candidate.Sections),
			Sections:  candidate.Sections,
			Breakdown: scheduler.Score(candidate.Sections, prefs, ratings),
		})
	}

	outcome := GenerationOutcomeOK
	if len(resp.Candidates) == 0 {
		outcome = GenerationOutcomeEmpty
		resp.EmptyReason = dto.EmptyReasonFullyConstrained
		if !hasSearchSlots(req) {
			resp.EmptyReason = dto.EmptyReasonNoCourses
		}
	} else {
		resp.ProposalID = uuid.NewString()
	}

	s.annotateOpenSections(resp)
	s.rememberProposal(resp)
	elapsed := s.now().Sub(start)
	s.metrics.ObserveGeneration(outcome, len(resp.Candidates), elapsed)

	if cacheKey != "" {
		_ = s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL)
	}

	s.logger.Info("schedules generated",
		zap.Int("courses", len(courses)),
		zap.Int("core_blocks", len(req.CoreBlocks)),
		zap.Int("candidates", resp.TotalCandidates),
		zap.Bool("truncated", resp.Truncated),
		zap.String("empty_reason", resp.EmptyReason),
		zap.Duration("elapsed", elapsed),
	)
	return resp, nil
}

// Breakdown scores an explicit schedule and explains every deduction and bonus.
func (s *ScheduleGeneratorService) Breakdown(ctx context.Context, req dto.ScoreRequest) (*models.ScoreBreakdown, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}
	prefs := models.DefaultPreferences()
	if req.Preferences != nil {
		prefs = normalizePreferences(*req.Preferences)
	}
	sections := normalizeSections(req.Sections)
	ratings, err := s.resolveRatings(ctx, sections)
	if err != nil {
		return nil, err
	}
	breakdown := scheduler.Score(sections, prefs, ratings)
	return &breakdown, nil
}

// Itinerary lays out each weekday of a schedule with waits and commutes.
func (s *ScheduleGeneratorService) Itinerary(ctx context.Context, req dto.ItineraryRequest) (*dto.ItineraryResponse, error) {
	sections, err := s.itinerarySections(req)
	if err != nil {
		return nil, err
	}
	resp := toItineraryResponse(scheduler.BuildDailyItinerary(sections))
	for _, section := range sections {
		if scheduler.IsRemoteOnly(section) {
			resp.OnlineSections = append(resp.OnlineSections, section)
		}
	}
	return resp, nil
}

// ExportItinerary renders the itinerary as csv or pdf.
func (s *ScheduleGeneratorService) ExportItinerary(ctx context.Context, req dto.ItineraryRequest, format string) ([]byte, export.Format, error) {
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	itinerary, err := s.Itinerary(ctx, req)
	if err != nil {
		return nil, "", err
	}

	dataset := itineraryDataset(itinerary)
	var data []byte
	switch parsed {
	case export.FormatPDF:
		data, err = s.pdf.Render(dataset, "Weekly Itinerary")
	default:
		data, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render itinerary")
	}
	return data, parsed, nil
}

// Redistribute moves one preference slider and rebalances the rest to a fixed total.
func (s *ScheduleGeneratorService) Redistribute(req dto.RedistributeRequest) (*dto.RedistributeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid redistribute payload")
	}
	values, err := scheduler.Redistribute(req.Values, req.Index, req.Value)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return &dto.RedistributeResponse{Values: values, Total: scheduler.DistributionTotal}, nil
}

// ProposalCandidate returns a ranked candidate from a stored proposal. Rank is 1-based; zero means the best.
func (s *ScheduleGeneratorService) ProposalCandidate(proposalID string, rank int) (dto.ScheduleCandidate, error) {
	proposal, ok := s.store.Get(proposalID)
	if !ok {
		return dto.ScheduleCandidate{}, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	if rank <= 0 {
		rank = 1
	}
	if rank > len(proposal.Candidates) {
		return dto.ScheduleCandidate{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rank must be between 1 and %d", len(proposal.Candidates)))
	}
	return proposal.Candidates[rank-1], nil
}

// --- Internal helpers ---

func (s *ScheduleGeneratorService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

func (s *ScheduleGeneratorService) resolveRatings(ctx context.Context, sections []models.Section) (scheduler.RatingSource, error) {
	if s.ratings == nil {
		return nil, nil
	}
	source, err := s.ratings.Resolver(ctx, sections)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve instructor ratings")
	}
	return source, nil
}

func (s *ScheduleGeneratorService) annotateOpenSections(resp *dto.GenerateScheduleResponse) {
	resp.OpenSectionsAsOf = nil
	for i := range resp.Candidates {
		resp.Candidates[i].OpenSectionIDs = []string{}
	}
	if s.openSections == nil {
		return
	}
	snap := s.openSections.Snapshot()
	if snap.AsOf.IsZero() {
		return
	}
	asOf := snap.AsOf
	resp.OpenSectionsAsOf = &asOf
	for i := range resp.Candidates {
		resp.Candidates[i].OpenSectionIDs = s.openSections.OpenIDs(resp.Candidates[i].Sections)
	}
}

func (s *ScheduleGeneratorService) rememberProposal(resp *dto.GenerateScheduleResponse) {
	if resp.ProposalID == "" {
		return
	}
	s.store.Save(scheduleProposal{
		ProposalID:  resp.ProposalID,
		Candidates:  resp.Candidates,
		RequestedAt: s.now(),
	})
}

func (s *ScheduleGeneratorService) itinerarySections(req dto.ItineraryRequest) ([]models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid itinerary payload")
	}
	if len(req.Sections) > 0 {
		return normalizeSections(req.Sections), nil
	}
	if strings.TrimSpace(req.ProposalID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sections or proposalId is required")
	}
	candidate, err := s.ProposalCandidate(req.ProposalID, req.Rank)
	if err != nil {
		return nil, err
	}
	return candidate.Sections, nil
}

// dedupeCourses keeps the first course of each name.
func dedupeCourses(courses []models.Course) []models.Course {
	seen := make(map[string]struct{}, len(courses))
	out := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		key := strings.TrimSpace(course.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, course)
	}
	return out
}

// searchSpace approximates the levels the generator will search, for the combination cap.
func searchSpace(req dto.GenerateScheduleRequest) []models.Course {
	levels := make([]models.Course, 0, len(req.Courses)+len(req.CoreBlocks))
	taken := make(map[string]struct{}, len(req.Courses))
	for _, course := range req.Courses {
		taken[strings.TrimSpace(course.Name)] = struct{}{}
		if req.PinSelected && course.SelectedSection != nil {
			course.Sections = []models.Section{*course.SelectedSection}
		}
		levels = append(levels, course)
	}
	for _, block := range req.CoreBlocks {
		switch {
		case block.SelectedCourse != nil:
			if _, dup := taken[strings.TrimSpace(block.SelectedCourse.Name)]; !dup {
				levels = append(levels, *block.SelectedCourse)
			}
		case req.RandomizeCore && len(block.Candidates) > 0:
			widest := block.Candidates[0]
			for _, c := range block.Candidates[1:] {
				if len(c.Sections) > len(widest.Sections) {
					widest = c
				}
			}
			levels = append(levels, widest)
		}
	}
	return levels
}

func hasSearchSlots(req dto.GenerateScheduleRequest) bool {
	if len(req.Courses) > 0 {
		return true
	}
	for _, block := range req.CoreBlocks {
		if block.SelectedCourse != nil || (req.RandomizeCore && len(block.Candidates) > 0) {
			return true
		}
	}
	return false
}

func allSections(req dto.GenerateScheduleRequest) []models.Section {
	var sections []models.Section
	for _, course := range req.Courses {
		sections = append(sections, course.Sections...)
	}
	for _, block := range req.CoreBlocks {
		if block.SelectedCourse != nil {
			sections = append(sections, block.SelectedCourse.Sections...)
		}
		for _, candidate := range block.Candidates {
			sections = append(sections, candidate.Sections...)
		}
	}
	return sections
}

func totalCredits(sections []models.Section) float64 {
	total := 0.0
	for _, section := range sections {
		if section.Credits.Value != nil {
			total += *section.Credits.Value
		}
	}
	return total
}

// requestFingerprint hashes the normalised request so equal selections share a cache entry.
func requestFingerprint(req dto.GenerateScheduleRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func toItineraryResponse(itinerary models.Itinerary) *dto.ItineraryResponse {
	resp := &dto.ItineraryResponse{
		Days:           make([]dto.ItineraryDay, 0, len(models.Weekdays)),
		OnlineSections: []models.Section{},
	}
	for _, day := range models.Weekdays {
		events := itinerary[day]
		summaries := make([]dto.ItineraryEventSummary, 0, len(events))
		for _, event := range events {
			summaries = append(summaries, dto.ItineraryEventSummary{
				ItineraryEvent: event,
				Start:          scheduler.FormatClock(event.StartMinute),
				End:            scheduler.FormatClock(event.EndMinute()),
			})
		}
		resp.Days = append(resp.Days, dto.ItineraryDay{Day: day, Events: summaries})
	}
	return resp
}

func itineraryDataset(itinerary *dto.ItineraryResponse) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Day", "Start", "End", "Minutes", "Kind", "Description", "Location", "Campus"},
		GroupBy: "Day",
	}
	for _, day := range itinerary.Days {
		for _, event := range day.Events {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Day":         string(day.Day),
				"Start":       event.Start,
				"End":         event.End,
				"Minutes":     strconv.Itoa(event.DurationMinutes),
				"Kind":        string(event.Kind),
				"Description": event.Description,
				"Location":    event.Location,
				"Campus":      event.Campus,
			})
		}
	}
	return dataset
}

// --- Proposal store ---

type scheduleProposal struct {
	ProposalID  string
	Candidates  []dto.ScheduleCandidate
	RequestedAt time.Time
}

type proposalStore struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]scheduleProposal
}

func newProposalStore(ttl time.Duration, now func() time.Time) *proposalStore {
	if now == nil {
		now = time.Now
	}
	return &proposalStore{
		ttl:   ttl,
		now:   now,
		items: make(map[string]scheduleProposal),
	}
}

func (s *proposalStore) Save(proposal scheduleProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ProposalID] = proposal
	s.evictLocked()
}

func (s *proposalStore) Get(id string) (scheduleProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return scheduleProposal{}, false
	}
	if s.now().Sub(proposal.RequestedAt) > s.ttl {
		s.Delete(id)
		return scheduleProposal{}, false
	}
	return proposal, true
}

func (s *proposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// evictLocked drops expired proposals so abandoned sessions do not accumulate.
func (s *proposalStore) evictLocked() {
	now := s.now()
	for id, proposal := range s.items {
		if now.Sub(proposal.RequestedAt) > s.ttl {
			delete(s.items, id)
		}
	}
}
