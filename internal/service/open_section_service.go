package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/jobs"
)

// JobTypeOpenSectionsRefresh is the queue job type that refreshes the snapshot.
const JobTypeOpenSectionsRefresh = "open_sections.refresh"

type openSectionFetcher interface {
	GetJSON(ctx context.Context, url string, out any) error
}

type snapshotStore interface {
	WriteJSON(name string, v any) error
	ReadJSON(name string, v any) error
	CleanupOlderThan(ttl time.Duration, keep ...string) ([]string, error)
}

// OpenSectionConfig selects the registrar feed and how long a snapshot stays fresh.
// Retention prunes snapshots left by other terms; zero keeps them.
type OpenSectionConfig struct {
	FeedURL   string
	Year      string
	Term      string
	Campus    string
	TTL       time.Duration
	Retention time.Duration
}

type persistedSnapshot struct {
	AsOf time.Time `json:"asOf"`
	IDs  []string  `json:"ids"`
}

type loadedSnapshot struct {
	snapshot models.OpenSectionSnapshot
	source   string
}

// OpenSectionService keeps an immutable snapshot of the registrar's open sections. Readers
// never block; refreshes swap the snapshot pointer.
type OpenSectionService struct {
	fetcher openSectionFetcher
	store   snapshotStore
	cfg     OpenSectionConfig
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time

	current   atomic.Pointer[loadedSnapshot]
	refreshMu sync.Mutex
}

// NewOpenSectionService constructs the oracle. A nil store disables disk fallback.
func NewOpenSectionService(fetcher openSectionFetcher, store snapshotStore, cfg OpenSectionConfig, metrics *MetricsService, logger *zap.Logger) *OpenSectionService {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenSectionService{
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Snapshot returns the current snapshot; the zero value when nothing has loaded yet.
func (s *OpenSectionService) Snapshot() models.OpenSectionSnapshot {
	if loaded := s.current.Load(); loaded != nil {
		return loaded.snapshot
	}
	return models.OpenSectionSnapshot{}
}

// IsOpen reports whether the section is in the current snapshot.
func (s *OpenSectionService) IsOpen(sectionID string) bool {
	return s.Snapshot().IsOpen(sectionID)
}

// OpenIDs returns the ids of the given sections that are currently open, in input order.
func (s *OpenSectionService) OpenIDs(sections []models.Section) []string {
	snap := s.Snapshot()
	ids := make([]string, 0)
	for _, section := range sections {
		if snap.IsOpen(section.ID) {
			ids = append(ids, section.ID)
		}
	}
	return ids
}

// Status describes the current snapshot for the API.
func (s *OpenSectionService) Status() dto.OpenSectionsStatus {
	loaded := s.current.Load()
	if loaded == nil {
		return dto.OpenSectionsStatus{Source: "none", Stale: true}
	}
	asOf := loaded.snapshot.AsOf
	return dto.OpenSectionsStatus{
		AsOf:   &asOf,
		Count:  loaded.snapshot.Size(),
		Source: loaded.source,
		Stale:  s.now().Sub(asOf) > s.cfg.TTL,
	}
}

// Lookup reports the open status of one section.
func (s *OpenSectionService) Lookup(sectionID string) dto.OpenSectionLookup {
	result := dto.OpenSectionLookup{SectionID: sectionID}
	if loaded := s.current.Load(); loaded != nil {
		asOf := loaded.snapshot.AsOf
		result.AsOf = &asOf
		result.Open = loaded.snapshot.IsOpen(sectionID)
	}
	return result
}

// LoadPersisted seeds the snapshot from disk, typically at startup.
func (s *OpenSectionService) LoadPersisted() error {
	snap, err := s.readPersisted()
	if err != nil {
		return err
	}
	s.swap(snap, openSectionSourceDisk)
	return nil
}

// Refresh fetches the feed unless the snapshot is younger than the TTL. When the feed fails
// the last persisted snapshot is used; failing that the previous snapshot stays in place.
func (s *OpenSectionService) Refresh(ctx context.Context) (models.OpenSectionSnapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	current := s.current.Load()
	if current != nil && current.source == openSectionSourceFeed && s.now().Sub(current.snapshot.AsOf) < s.cfg.TTL {
		s.metrics.ObserveOpenSectionRefresh(openSectionSourceUnchanged, current.snapshot.Size())
		return current.snapshot, nil
	}

	var ids []string
	fetchErr := s.fetcher.GetJSON(ctx, s.feedURL(), &ids)
	if fetchErr == nil {
		snap := models.NewOpenSectionSnapshot(s.now().UTC(), ids)
		s.swap(snap, openSectionSourceFeed)
		s.persist(snap)
		return snap, nil
	}

	s.logger.Warn("open sections feed unavailable", zap.Error(fetchErr))
	if snap, err := s.readPersisted(); err == nil {
		if current == nil || snap.AsOf.After(current.snapshot.AsOf) {
			s.swap(snap, openSectionSourceDisk)
			return snap, nil
		}
	}
	if current != nil {
		return current.snapshot, nil
	}
	return models.OpenSectionSnapshot{}, appErrors.Wrap(fetchErr, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "open sections feed unavailable")
}

// HandleJob adapts Refresh to the jobs queue.
func (s *OpenSectionService) HandleJob(ctx context.Context, job jobs.Job) error {
	if job.Type != JobTypeOpenSectionsRefresh {
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	_, err := s.Refresh(ctx)
	if appErrors.HasCode(err, appErrors.ErrUpstream.Code) {
		// Nothing loaded yet and the feed is down; the next tick retries.
		s.logger.Warn("open sections refresh skipped", zap.Error(err))
		return nil
	}
	return err
}

func (s *OpenSectionService) swap(snap models.OpenSectionSnapshot, source string) {
	s.current.Store(&loadedSnapshot{snapshot: snap, source: source})
	s.metrics.ObserveOpenSectionRefresh(source, snap.Size())
	s.logger.Debug("open sections snapshot updated", zap.String("source", source), zap.Int("count", snap.Size()), zap.Time("as_of", snap.AsOf))
}

func (s *OpenSectionService) persist(snap models.OpenSectionSnapshot) {
	if s.store == nil {
		return
	}
	doc := persistedSnapshot{AsOf: snap.AsOf, IDs: snap.IDs()}
	if err := s.store.WriteJSON(s.fileName(), doc); err != nil {
		s.logger.Warn("persist open sections snapshot failed", zap.Error(err))
		return
	}
	if s.cfg.Retention <= 0 {
		return
	}
	removed, err := s.store.CleanupOlderThan(s.cfg.Retention, s.fileName())
	if err != nil {
		s.logger.Warn("prune open sections snapshots failed", zap.Error(err))
		return
	}
	if len(removed) > 0 {
		s.logger.Info("pruned open sections snapshots", zap.Strings("files", removed))
	}
}

func (s *OpenSectionService) readPersisted() (models.OpenSectionSnapshot, error) {
	if s.store == nil {
		return models.OpenSectionSnapshot{}, fmt.Errorf("no snapshot store configured")
	}
	var doc persistedSnapshot
	if err := s.store.ReadJSON(s.fileName(), &doc); err != nil {
		return models.OpenSectionSnapshot{}, err
	}
	return models.NewOpenSectionSnapshot(doc.AsOf, doc.IDs), nil
}

func (s *OpenSectionService) fileName() string {
	return fmt.Sprintf("open-sections-%s-%s-%s.json", s.cfg.Year, s.cfg.Term, s.cfg.Campus)
}

func (s *OpenSectionService) feedURL() string {
	query := url.Values{}
	query.Set("year", s.cfg.Year)
	query.Set("term", s.cfg.Term)
	query.Set("campus", s.cfg.Campus)
	return s.cfg.FeedURL + "?" + query.Encode()
}
