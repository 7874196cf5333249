package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Events   EventsConfig
	Match    MatchConfig
	Download DownloadConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogJSON     bool
	LogDebug    bool

	// WSAllowedOrigins limits websocket upgrades by Origin header. Empty
	// allows any origin.
	WSAllowedOrigins []string
}

const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

type CatalogConfig struct {
	Source string
	Path   string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	// MigrationsDir overrides the embedded migrations when set.
	MigrationsDir string
}

// Enabled reports whether a database host was configured at all.
func (c DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(c.DBHost) != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type StorageConfig struct {
	Driver    string
	LocalDir  string
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

type MatchConfig struct {
	TopRoles       int
	UploadMaxBytes int64
}

type DownloadConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	optInt := func(key string, def int) int {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogJSON:     optBool("LOG_JSON", false),
		LogDebug:    optBool("LOG_DEBUG", false),

		WSAllowedOrigins: splitList(opt("WS_ALLOWED_ORIGINS", "")),
	}

	cfg.Catalog = CatalogConfig{
		Source: strings.ToLower(opt("CATALOG_SOURCE", CatalogSourceFile)),
		Path:   opt("CATALOG_PATH", "known_skills.json"),
	}
	if cfg.Catalog.Source != CatalogSourceFile && cfg.Catalog.Source != CatalogSourcePostgres {
		invalid = append(invalid, "CATALOG_SOURCE")
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST", ""),
		DBPort:                opt("DB_PORT", "5432"),
		DBName:                opt("DB_NAME", ""),
		DBUser:                opt("DB_USER", ""),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE", "disable"),
		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
		MigrationsDir:         opt("DB_MIGRATIONS_DIR", ""),
	}
	if cfg.Catalog.Source == CatalogSourcePostgres && !cfg.Database.Enabled() {
		missing = append(missing, "DB_HOST")
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", ""),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		TTL:      time.Duration(optInt("REDIS_TTL", 600)) * time.Second,
	}

	cfg.Storage = StorageConfig{
		Driver:    strings.ToLower(opt("STORAGE_DRIVER", StorageDriverLocal)),
		LocalDir:  opt("STORAGE_LOCAL_DIR", "./uploads"),
		Bucket:    opt("STORAGE_BUCKET", ""),
		Region:    opt("STORAGE_REGION", "auto"),
		Endpoint:  opt("STORAGE_ENDPOINT", ""),
		AccessKey: opt("STORAGE_ACCESS_KEY", ""),
		SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
	}
	switch cfg.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverS3:
		if cfg.Storage.Bucket == "" {
			missing = append(missing, "STORAGE_BUCKET")
		}
	default:
		invalid = append(invalid, "STORAGE_DRIVER")
	}

	cfg.Events = EventsConfig{
		AMQPURL:  opt("AMQP_URL", ""),
		Exchange: opt("AMQP_EXCHANGE", "analysis_events"),
	}

	cfg.Match = MatchConfig{
		TopRoles:       optInt("MATCH_TOP_ROLES", 5),
		UploadMaxBytes: int64(optInt("UPLOAD_MAX_BYTES", 10<<20)),
	}
	if cfg.Match.TopRoles <= 0 {
		invalid = append(invalid, "MATCH_TOP_ROLES")
	}
	if cfg.Match.UploadMaxBytes <= 0 {
		invalid = append(invalid, "UPLOAD_MAX_BYTES")
	}

	cfg.Download = DownloadConfig{
		Secret:    req("DOWNLOAD_TOKEN_SECRET"),
		ExpiresIn: optDuration("DOWNLOAD_TOKEN_TTL", 24*time.Hour),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
