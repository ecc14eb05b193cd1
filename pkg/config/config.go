package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	HTTP         HTTPConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Log          LogConfig
	Scheduler    SchedulerConfig
	Ratings      RatingsConfig
	OpenSections OpenSectionsConfig
	Shares       SharesConfig
}

// HTTPConfig tunes the HTTP server and response compression.
type HTTPConfig struct {
	ReadHeaderTimeout   time.Duration
	ShutdownTimeout     time.Duration
	CompressionLevel    int
	CompressionMinBytes int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Password    string
	DB          int
	DialTimeout time.Duration
}

// JWTConfig holds the shared secret used to verify access tokens issued by the identity service.
type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
	// QuietPaths are request paths logged at debug level only (health checks, scrapes).
	QuietPaths []string
}

// SchedulerConfig tunes schedule generation and result caching.
type SchedulerConfig struct {
	ProposalTTL     time.Duration
	CacheEnabled    bool
	CacheTTL        time.Duration
	DefaultLimit    int
	MaxLimit        int
	MaxCombinations int
	MaxCandidates   int
}

// RatingsConfig points at the instructor ratings export. The SFTP fields are read only by
// the import command, which can pull the export from a remote drop box.
type RatingsConfig struct {
	CSVPath   string
	Delimiter string

	SFTPHost           string
	SFTPPort           int
	SFTPUser           string
	SFTPPassword       string
	SFTPPath           string
	SFTPKnownHosts     string
	SFTPInsecureNoHost bool
}

// OpenSectionsConfig configures the registrar's open-section feed.
type OpenSectionsConfig struct {
	Enabled         bool
	FeedURL         string
	Year            string
	Term            string
	Campus          string
	TTL             time.Duration
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	StorageDir      string
	Retention       time.Duration
}

// SharesConfig signs public links to saved schedules.
type SharesConfig struct {
	SigningSecret string
	TTL           time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.HTTP = HTTPConfig{
		ReadHeaderTimeout:   parseDuration(v.GetString("HTTP_READ_HEADER_TIMEOUT"), 10*time.Second),
		ShutdownTimeout:     parseDuration(v.GetString("HTTP_SHUTDOWN_TIMEOUT"), 10*time.Second),
		CompressionLevel:    v.GetInt("HTTP_COMPRESSION_LEVEL"),
		CompressionMinBytes: positiveOr(v.GetInt("HTTP_COMPRESSION_MIN_BYTES"), 1024),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),

		DialTimeout: parseDuration(v.GetString("REDIS_DIAL_TIMEOUT"), 5*time.Second),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),

		QuietPaths: splitAndTrim(v.GetString("LOG_QUIET_PATHS")),
	}

	cfg.Scheduler = SchedulerConfig{
		ProposalTTL:     parseDuration(v.GetString("SCHEDULER_PROPOSAL_TTL"), 30*time.Minute),
		CacheEnabled:    v.GetBool("ENABLE_SCHEDULER_CACHE"),
		CacheTTL:        parseDuration(v.GetString("SCHEDULER_CACHE_TTL"), 10*time.Minute),
		DefaultLimit:    positiveOr(v.GetInt("SCHEDULER_DEFAULT_LIMIT"), 10),
		MaxLimit:        positiveOr(v.GetInt("SCHEDULER_MAX_LIMIT"), 50),
		MaxCombinations: v.GetInt("SCHEDULER_MAX_COMBINATIONS"),
		MaxCandidates:   v.GetInt("SCHEDULER_MAX_CANDIDATES"),
	}

	cfg.Ratings = RatingsConfig{
		CSVPath:   v.GetString("RATINGS_CSV_PATH"),
		Delimiter: v.GetString("RATINGS_CSV_DELIMITER"),

		SFTPHost:           v.GetString("RATINGS_SFTP_HOST"),
		SFTPPort:           v.GetInt("RATINGS_SFTP_PORT"),
		SFTPUser:           v.GetString("RATINGS_SFTP_USER"),
		SFTPPassword:       v.GetString("RATINGS_SFTP_PASSWORD"),
		SFTPPath:           v.GetString("RATINGS_SFTP_PATH"),
		SFTPKnownHosts:     v.GetString("RATINGS_SFTP_KNOWN_HOSTS"),
		SFTPInsecureNoHost: v.GetBool("RATINGS_SFTP_INSECURE_IGNORE_HOST_KEY"),
	}

	cfg.OpenSections = OpenSectionsConfig{
		Enabled:         v.GetBool("ENABLE_OPEN_SECTIONS"),
		FeedURL:         v.GetString("OPEN_SECTIONS_FEED_URL"),
		Year:            v.GetString("OPEN_SECTIONS_YEAR"),
		Term:            v.GetString("OPEN_SECTIONS_TERM"),
		Campus:          v.GetString("OPEN_SECTIONS_CAMPUS"),
		TTL:             parseDuration(v.GetString("OPEN_SECTIONS_TTL"), 5*time.Minute),
		RefreshInterval: parseDuration(v.GetString("OPEN_SECTIONS_REFRESH_INTERVAL"), time.Minute),
		RequestTimeout:  parseDuration(v.GetString("OPEN_SECTIONS_REQUEST_TIMEOUT"), 10*time.Second),
		StorageDir:      v.GetString("OPEN_SECTIONS_STORAGE_DIR"),
		Retention:       parseDuration(v.GetString("OPEN_SECTIONS_SNAPSHOT_RETENTION"), 14*24*time.Hour),
	}

	cfg.Shares = SharesConfig{
		SigningSecret: v.GetString("SHARE_SIGNING_SECRET"),
		TTL:           parseDuration(v.GetString("SHARE_TTL"), 30*24*time.Hour),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("HTTP_READ_HEADER_TIMEOUT", "10s")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("HTTP_COMPRESSION_LEVEL", 4)
	v.SetDefault("HTTP_COMPRESSION_MIN_BYTES", 1024)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "course_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_QUIET_PATHS", "/health,/ready,/metrics")

	v.SetDefault("SCHEDULER_PROPOSAL_TTL", "30m")
	v.SetDefault("ENABLE_SCHEDULER_CACHE", false)
	v.SetDefault("SCHEDULER_CACHE_TTL", "10m")
	v.SetDefault("SCHEDULER_DEFAULT_LIMIT", 10)
	v.SetDefault("SCHEDULER_MAX_LIMIT", 50)
	v.SetDefault("SCHEDULER_MAX_COMBINATIONS", 0)
	v.SetDefault("SCHEDULER_MAX_CANDIDATES", 100000)

	v.SetDefault("RATINGS_CSV_PATH", "./data/teachers_data.csv")
	v.SetDefault("RATINGS_CSV_DELIMITER", ",")
	v.SetDefault("RATINGS_SFTP_PORT", 22)

	v.SetDefault("ENABLE_OPEN_SECTIONS", true)
	v.SetDefault("OPEN_SECTIONS_FEED_URL", "https://classes.rutgers.edu/soc/api/openSections.json")
	v.SetDefault("OPEN_SECTIONS_YEAR", "2025")
	v.SetDefault("OPEN_SECTIONS_TERM", "9")
	v.SetDefault("OPEN_SECTIONS_CAMPUS", "NB")
	v.SetDefault("OPEN_SECTIONS_TTL", "5m")
	v.SetDefault("OPEN_SECTIONS_REFRESH_INTERVAL", "1m")
	v.SetDefault("OPEN_SECTIONS_REQUEST_TIMEOUT", "10s")
	v.SetDefault("OPEN_SECTIONS_STORAGE_DIR", "./data/open-sections")
	v.SetDefault("OPEN_SECTIONS_SNAPSHOT_RETENTION", "336h")

	v.SetDefault("SHARE_SIGNING_SECRET", "dev_share_secret")
	v.SetDefault("SHARE_TTL", "720h")
}

// isMissingFile reports whether viper failed because an explicitly set config file does not exist.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
