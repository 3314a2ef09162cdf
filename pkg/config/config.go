package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string   `envconfig:"SHOPFLOOR_APP_ENV" required:"true"`
	Port         string   `envconfig:"SHOPFLOOR_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"SHOPFLOOR_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"SHOPFLOOR_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"SHOPFLOOR_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPFLOOR_DB_DSN"`
	Driver string `envconfig:"SHOPFLOOR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPFLOOR_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPFLOOR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPFLOOR_DB_USER"`
	LegacyPassword string `envconfig:"SHOPFLOOR_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPFLOOR_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPFLOOR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPFLOOR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPFLOOR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPFLOOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPFLOOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPFLOOR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPFLOOR_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPFLOOR_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPFLOOR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPFLOOR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPFLOOR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPFLOOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPFLOOR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPFLOOR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHOPFLOOR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHOPFLOOR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHOPFLOOR_JWT_EXPIRATION_MINUTES" default:"480"`
	RefreshTokenDays  int    `envconfig:"SHOPFLOOR_JWT_REFRESH_TOKEN_DAYS" default:"30"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh session lifetime.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenDays <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenDays) * 24 * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPFLOOR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPFLOOR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPFLOOR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPFLOOR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPFLOOR_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPFLOOR_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPFLOOR_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHOPFLOOR_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SHOPFLOOR_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHOPFLOOR_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	EventsTopic        string `envconfig:"SHOPFLOOR_PUBSUB_EVENTS_TOPIC" default:"shopfloor-events"`
	EventsSubscription string `envconfig:"SHOPFLOOR_PUBSUB_EVENTS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int    `envconfig:"SHOPFLOOR_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int    `envconfig:"SHOPFLOOR_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int    `envconfig:"SHOPFLOOR_OUTBOX_MAX_ATTEMPTS" default:"10"`
	MetricsPort    string `envconfig:"SHOPFLOOR_OUTBOX_METRICS_PORT" default:"9100"`
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
