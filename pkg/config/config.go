package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "stitchguard"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "STITCHGUARD_APP_ENV"
	EnvPort   = "STITCHGUARD_APP_PORT"
	EnvDBDSN  = "STITCHGUARD_DB_DSN"
	EnvDBHost = "STITCHGUARD_DB_HOST"
	EnvDBUser = "STITCHGUARD_DB_USER"
	EnvDBName = "STITCHGUARD_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Models       ModelsConfig
	Progress     ProgressConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STITCHGUARD_APP_ENV" required:"true"`
	Port         string `envconfig:"STITCHGUARD_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STITCHGUARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STITCHGUARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STITCHGUARD_DB_DSN"`
	Driver string `envconfig:"STITCHGUARD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STITCHGUARD_DB_HOST"`
	LegacyPort     int    `envconfig:"STITCHGUARD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STITCHGUARD_DB_USER"`
	LegacyPassword string `envconfig:"STITCHGUARD_DB_PASSWORD"`
	LegacyName     string `envconfig:"STITCHGUARD_DB_NAME"`
	LegacySSLMode  string `envconfig:"STITCHGUARD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STITCHGUARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STITCHGUARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STITCHGUARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STITCHGUARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional: idempotency replay for retried mobile POSTs is
// disabled when no URL or address is configured.
type RedisConfig struct {
	URL          string        `envconfig:"STITCHGUARD_REDIS_URL"`
	Address      string        `envconfig:"STITCHGUARD_REDIS_ADDR"`
	Password     string        `envconfig:"STITCHGUARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"STITCHGUARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STITCHGUARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STITCHGUARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STITCHGUARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STITCHGUARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STITCHGUARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// ModelsConfig locates the ML model weight files served to the mobile client.
type ModelsConfig struct {
	FilesDir string `envconfig:"STITCHGUARD_MODEL_FILES_DIR" default:"models"`
	// name:url pairs pointing at externally hosted weight files.
	FileURLs map[string]string `envconfig:"STITCHGUARD_MODEL_FILE_URLS"`
}

// ProgressConfig carries the recompute policy knobs.
type ProgressConfig struct {
	// Window is the trailing period an inspected item must fall inside to
	// count toward an order's recomputed progress. Guards against stale test
	// data polluting the counter.
	Window time.Duration `envconfig:"STITCHGUARD_PROGRESS_WINDOW" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STITCHGUARD_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
