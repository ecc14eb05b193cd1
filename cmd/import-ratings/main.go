package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/repository"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	"github.com/noah-isme/course-scheduler-api/pkg/cache"
	"github.com/noah-isme/course-scheduler-api/pkg/config"
	"github.com/noah-isme/course-scheduler-api/pkg/database"
	"github.com/noah-isme/course-scheduler-api/pkg/logger"
	"github.com/noah-isme/course-scheduler-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		path      string
		remote    string
		delimiter string
		timeout   time.Duration
	)
	flag.StringVar(&path, "file", cfg.Ratings.CSVPath, "Instructor ratings CSV export")
	flag.StringVar(&remote, "sftp-path", cfg.Ratings.SFTPPath, "Remote export path; when set the file is pulled over SFTP instead")
	flag.StringVar(&delimiter, "delimiter", cfg.Ratings.Delimiter, "Field delimiter of the export")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Import deadline")
	flag.Parse()

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	source := path
	var ratings []models.InstructorRating
	if remote != "" {
		source = "sftp://" + cfg.Ratings.SFTPHost + remote
		if cfg.Ratings.SFTPPassword == "" {
			if cfg.Ratings.SFTPPassword, err = promptPassword(cfg.Ratings.SFTPUser); err != nil {
				logr.Fatal("read sftp password", zap.Error(err))
			}
		}
		ratings, err = fetchRemote(ctx, cfg.Ratings, remote, delimiter)
	} else {
		ratings, err = repository.NewCSVRatingRepository(path, delimiter).ListAll(ctx)
	}
	if err != nil {
		logr.Fatal("read ratings export", zap.String("source", source), zap.Error(err))
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	if _, err := database.Migrate(cfg.Database); err != nil {
		logr.Fatal("migrate database", zap.Error(err))
	}

	written, err := repository.NewInstructorRatingRepository(db).UpsertBatch(ctx, ratings)
	if err != nil {
		logr.Fatal("import ratings", zap.Error(err))
	}
	logr.Info("instructor ratings imported", zap.String("source", source), zap.Int("read", len(ratings)), zap.Int("written", written))

	if cfg.Redis.Enabled {
		invalidateGenerations(ctx, cfg, logr)
	}
}

func fetchRemote(ctx context.Context, cfg config.RatingsConfig, remotePath, delimiter string) ([]models.InstructorRating, error) {
	var buf bytes.Buffer
	_, err := storage.FetchSFTP(ctx, storage.SFTPConfig{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Password:              cfg.SFTPPassword,
		KnownHostsFile:        cfg.SFTPKnownHosts,
		InsecureIgnoreHostKey: cfg.SFTPInsecureNoHost,
	}, remotePath, &buf)
	if err != nil {
		return nil, err
	}
	return repository.DecodeInstructorRatingsCSV(&buf, delimiter)
}

// promptPassword asks for the SFTP password when running on a terminal.
// Unattended runs must set RATINGS_SFTP_PASSWORD.
func promptPassword(user string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("RATINGS_SFTP_PASSWORD is not set and stdin is not a terminal")
	}
	fmt.Fprintf(os.Stderr, "SFTP password for %s: ", user)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// invalidateGenerations drops cached generation results scored with the previous ratings.
func invalidateGenerations(ctx context.Context, cfg *config.Config, logr *zap.Logger) {
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable; cached generations expire on their own", zap.Error(err))
		return
	}
	repo := repository.NewCacheRepository(client, logr)
	defer repo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(repo, nil, cfg.Scheduler.CacheTTL, logr, true)
	if err := cacheSvc.Invalidate(ctx, "generate"); err != nil {
		logr.Warn("generation cache not cleared", zap.Error(err))
	}
}
