package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace for all EduCart variables.
const EnvPrefix = "EDUCART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	PubSub        PubSubConfig
	BigQuery      BigQueryConfig
	Maps          MapsConfig
	GCash         GCashConfig
	Outbox        OutboxConfig
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
	Env          string `envconfig:"EDUCART_APP_ENV" required:"true"`
	Port         string `envconfig:"EDUCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EDUCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EDUCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EDUCART_DB_DSN"`
	Driver string `envconfig:"EDUCART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"EDUCART_DB_HOST"`
	Port     int    `envconfig:"EDUCART_DB_PORT" default:"5432"`
	User     string `envconfig:"EDUCART_DB_USER"`
	Password string `envconfig:"EDUCART_DB_PASSWORD"`
	Name     string `envconfig:"EDUCART_DB_NAME"`
	SSLMode  string `envconfig:"EDUCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EDUCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EDUCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EDUCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EDUCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if strings.TrimSpace(d.DSN) != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either EDUCART_DB_DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"EDUCART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EDUCART_REDIS_ADDR"`
	Password     string        `envconfig:"EDUCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"EDUCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EDUCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EDUCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EDUCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EDUCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EDUCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"EDUCART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"EDUCART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"EDUCART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"EDUCART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EDUCART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EDUCART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EDUCART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EDUCART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EDUCART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"EDUCART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"EDUCART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"EDUCART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"EDUCART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"EDUCART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"EDUCART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EDUCART_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"EDUCART_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"EDUCART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"EDUCART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName      string        `envconfig:"EDUCART_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry time.Duration `envconfig:"EDUCART_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	MaxUploadMB     int           `envconfig:"EDUCART_MAX_UPLOAD_MB" default:"25"`
}

type PubSubConfig struct {
	DomainTopic              string `envconfig:"EDUCART_PUBSUB_DOMAIN_TOPIC" required:"true"`
	NotificationSubscription string `envconfig:"EDUCART_PUBSUB_NOTIFICATION_SUBSCRIPTION" required:"true"`
	AnalyticsSubscription    string `envconfig:"EDUCART_PUBSUB_ANALYTICS_SUBSCRIPTION" required:"true"`
}

type BigQueryConfig struct {
	Dataset                string `envconfig:"EDUCART_BIGQUERY_DATASET" default:"educart"`
	TransactionEventsTable string `envconfig:"EDUCART_BIGQUERY_TRANSACTION_TABLE" default:"transaction_events"`
}

type MapsConfig struct {
	APIKey string `envconfig:"EDUCART_GOOGLE_MAPS_API_KEY"`
}

type GCashConfig struct {
	BaseURL       string `envconfig:"EDUCART_GCASH_BASE_URL" default:"https://g.payx.ph/v1"`
	APIKey        string `envconfig:"EDUCART_GCASH_API_KEY"`
	WebhookSecret string `envconfig:"EDUCART_GCASH_WEBHOOK_SECRET"`
	SuccessURL    string `envconfig:"EDUCART_GCASH_SUCCESS_URL"`
	CancelURL     string `envconfig:"EDUCART_GCASH_CANCEL_URL"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"EDUCART_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"EDUCART_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"EDUCART_OUTBOX_MAX_ATTEMPTS" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"EDUCART_OUTBOX_IDEMPOTENCY_TTL" default:"24h"`
}
