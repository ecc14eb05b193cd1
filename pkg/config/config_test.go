package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.ProposalTTL)
	assert.Equal(t, 10*time.Minute, cfg.Scheduler.CacheTTL)
	assert.Equal(t, 10, cfg.Scheduler.DefaultLimit)
	assert.Equal(t, 50, cfg.Scheduler.MaxLimit)
	assert.Zero(t, cfg.Scheduler.MaxCombinations)
	assert.Equal(t, 100000, cfg.Scheduler.MaxCandidates)
	assert.Equal(t, 5*time.Minute, cfg.OpenSections.TTL)
	assert.Equal(t, time.Minute, cfg.OpenSections.RefreshInterval)
	assert.Equal(t, 14*24*time.Hour, cfg.OpenSections.Retention)
	assert.Equal(t, 720*time.Hour, cfg.Shares.TTL)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 4, cfg.HTTP.CompressionLevel)
	assert.Equal(t, 1024, cfg.HTTP.CompressionMinBytes)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
	assert.Equal(t, []string{"/health", "/ready", "/metrics"}, cfg.Log.QuietPaths)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("SCHEDULER_CACHE_TTL", "not-a-duration")
	v.Set("SCHEDULER_DEFAULT_LIMIT", -4)
	v.Set("SCHEDULER_MAX_COMBINATIONS", 5000)
	v.Set("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	v.Set("OPEN_SECTIONS_TTL", "90s")

	cfg := fromViper(v)

	assert.Equal(t, 10*time.Minute, cfg.Scheduler.CacheTTL)
	assert.Equal(t, 10, cfg.Scheduler.DefaultLimit)
	assert.Equal(t, 5000, cfg.Scheduler.MaxCombinations)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.OpenSections.TTL)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("PORT", "9191")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
}
