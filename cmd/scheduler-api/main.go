package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/course-scheduler-api/internal/handler"
	"github.com/noah-isme/course-scheduler-api/internal/repository"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	"github.com/noah-isme/course-scheduler-api/pkg/cache"
	"github.com/noah-isme/course-scheduler-api/pkg/config"
	"github.com/noah-isme/course-scheduler-api/pkg/database"
	"github.com/noah-isme/course-scheduler-api/pkg/httpx"
	"github.com/noah-isme/course-scheduler-api/pkg/jobs"
	"github.com/noah-isme/course-scheduler-api/pkg/logger"
	"github.com/noah-isme/course-scheduler-api/pkg/storage"
)

// @title Course Scheduler API
// @version 1.0.0
// @description Builds conflict-free university course schedules, ranks them against student preferences and lays out the weekly itinerary.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
	logr.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		version, err := database.Migrate(cfg.Database)
		if err != nil {
			return err
		}
		logr.Info("database migrated", zap.Uint("version", version))
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	var (
		redisClient *redis.Client
		cacheRepo   service.CacheRepository
	)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, generation cache disabled", zap.Error(err))
		} else {
			redisClient = client
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Scheduler.CacheTTL, logr, cfg.Scheduler.CacheEnabled)

	ratings := service.NewRatingService(repository.RatingChain{
		repository.NewInstructorRatingRepository(db),
		repository.NewCSVRatingRepository(cfg.Ratings.CSVPath, cfg.Ratings.Delimiter),
	}, metrics, logr)
	if err := ratings.Reload(ctx); err != nil {
		logr.Warn("instructor ratings not loaded; sections will score as unrated", zap.Error(err))
	}
	// Cached generations from a previous process were scored against the old ratings.
	if err := cacheSvc.Invalidate(ctx, "generate"); err != nil {
		logr.Warn("stale generation cache not cleared", zap.Error(err))
	}

	openSections, err := newOpenSectionService(cfg, metrics, logr)
	if err != nil {
		return err
	}

	generator := service.NewScheduleGeneratorService(ratings, openSections, cacheSvc, metrics, validate, logr, service.ScheduleGeneratorConfig{
		ProposalTTL:     cfg.Scheduler.ProposalTTL,
		CacheTTL:        cfg.Scheduler.CacheTTL,
		DefaultLimit:    cfg.Scheduler.DefaultLimit,
		MaxLimit:        cfg.Scheduler.MaxLimit,
		MaxCombinations: cfg.Scheduler.MaxCombinations,
		MaxCandidates:   cfg.Scheduler.MaxCandidates,
	})
	saved := service.NewSavedScheduleService(
		repository.NewSavedScheduleRepository(db),
		db,
		generator,
		storage.NewShareTokenSigner(cfg.Shares.SigningSecret, cfg.Shares.TTL),
		validate,
		logr,
	)

	checks := []handler.ReadinessCheck{{Name: "postgres", Check: db.PingContext}}
	if redisClient != nil {
		checks = append(checks, handler.ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error {
			return cache.Ping(ctx, redisClient, time.Second)
		}})
	}

	router := newRouter(cfg, logr, metrics, routes{
		schedules:    handler.NewScheduleGeneratorHandler(generator),
		saved:        handler.NewSavedScheduleHandler(saved),
		openSections: handler.NewOpenSectionHandler(openSections),
		catalog:      handler.NewCatalogHandler(ratings),
		metrics:      handler.NewMetricsHandler(metrics, checks...),
		tokens:       service.NewTokenVerifier(cfg.JWT.Secret, cfg.JWT.Issuer),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.OpenSections.Enabled {
		queue := jobs.NewQueue("open-sections", openSections.HandleJob, jobs.QueueConfig{Workers: 1, Logger: logr})
		queue.Start(gctx)
		defer queue.Stop()

		refresh := jobs.Job{Type: service.JobTypeOpenSectionsRefresh, Key: service.JobTypeOpenSectionsRefresh}
		if err := queue.Enqueue(refresh); err != nil {
			logr.Warn("initial open sections refresh not queued", zap.Error(err))
		}
		g.Go(func() error {
			queue.Every(gctx, cfg.OpenSections.RefreshInterval, refresh)
			return nil
		})
	}

	g.Go(func() error {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logr.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newOpenSectionService(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) (*service.OpenSectionService, error) {
	osCfg := service.OpenSectionConfig{
		FeedURL:   cfg.OpenSections.FeedURL,
		Year:      cfg.OpenSections.Year,
		Term:      cfg.OpenSections.Term,
		Campus:    cfg.OpenSections.Campus,
		TTL:       cfg.OpenSections.TTL,
		Retention: cfg.OpenSections.Retention,
	}
	if !cfg.OpenSections.Enabled {
		return service.NewOpenSectionService(nil, nil, osCfg, metrics, logr), nil
	}

	store, err := storage.NewLocalStorage(cfg.OpenSections.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("open sections storage: %w", err)
	}
	client := httpx.NewClient(nil, cfg.OpenSections.RequestTimeout, httpx.DefaultRetryConfig(), logr)
	svc := service.NewOpenSectionService(client, store, osCfg, metrics, logr)
	if err := svc.LoadPersisted(); err != nil {
		logr.Info("no persisted open sections snapshot", zap.Error(err))
	}
	return svc, nil
}
