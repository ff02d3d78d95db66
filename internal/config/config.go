// internal/config/config.go
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string          `env:"ENVIRONMENT,default=development"`
	Server      ServerConfig    `env:",prefix=SERVER_"`
	Database    DatabaseConfig  `env:",prefix=DB_"`
	JWT         JWTConfig       `env:",prefix=JWT_"`
	AWS         AWSConfig       `env:",prefix=AWS_"`
	Storage     StorageConfig   `env:",prefix=STORAGE_"`
	Index       IndexConfig     `env:",prefix=INDEX_"`
	Log         LogConfig       `env:",prefix=LOG_"`
	I18n        I18nConfig      `env:",prefix=I18N_"`
	RateLimit   RateLimitConfig `env:",prefix=RATE_LIMIT_"`
	CORS        CORSConfig      `env:",prefix=CORS_"`
}

type ServerConfig struct {
	Port            string `env:"PORT,default=8080"`
	Host            string `env:"HOST,default=0.0.0.0"`
	ReadTimeout     int    `env:"READ_TIMEOUT,default=15"`  // seconds
	WriteTimeout    int    `env:"WRITE_TIMEOUT,default=15"` // seconds
	IdleTimeout     int    `env:"IDLE_TIMEOUT,default=60"`  // seconds
	ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT,default=30"`
	MaxBodyBytes    int64  `env:"MAX_BODY_BYTES,default=1048576"`
}

type DatabaseConfig struct {
	Host         string `env:"HOST,default=localhost"`
	Port         string `env:"PORT,default=5432"`
	User         string `env:"USER,default=postgres"`
	Password     string `env:"PASSWORD"`
	Database     string `env:"NAME,default=campaign_wizard"`
	SSLMode      string `env:"SSL_MODE,default=disable"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS,default=25"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS,default=25"`
	MaxLifetime  int    `env:"MAX_LIFETIME,default=300"` // seconds
	LogLevel     string `env:"LOG_LEVEL,default=warn"`
	AutoMigrate  bool   `env:"AUTO_MIGRATE,default=true"`
}

type JWTConfig struct {
	SecretKey string `env:"SECRET,default=your-secret-key-change-in-production"`
}

type AWSConfig struct {
	Region          string `env:"REGION,default=us-east-1"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	S3Bucket        string `env:"S3_BUCKET,default=campaign-wizard-assets"`
	CloudFrontURL   string `env:"CLOUDFRONT_URL"`
}

// StorageConfig covers uploads kept on local disk when S3 is not configured.
type StorageConfig struct {
	LocalDir      string `env:"LOCAL_DIR,default=./uploads"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL,default=http://localhost:8080"`
	MaxUploadMB   int64  `env:"MAX_UPLOAD_MB,default=500"`
}

// IndexConfig drives the search index synchronizer. The Postgres index is
// always written; NATS is added when NATSURL is set.
type IndexConfig struct {
	Workers           int           `env:"WORKERS,default=4"`
	QueueSize         int           `env:"QUEUE_SIZE,default=1000"`
	MaxAttempts       uint          `env:"MAX_ATTEMPTS,default=5"`
	InitialInterval   time.Duration `env:"INITIAL_INTERVAL,default=200ms"`
	MaxInterval       time.Duration `env:"MAX_INTERVAL,default=10s"`
	AttemptTimeout    time.Duration `env:"ATTEMPT_TIMEOUT,default=5s"`
	NATSURL           string        `env:"NATS_URL"`
	NATSStream        string        `env:"NATS_STREAM,default=CAMPAIGN_INDEX"`
	NATSSubjectPrefix string        `env:"NATS_SUBJECT_PREFIX,default=campaigns.index"`
}

type LogConfig struct {
	Level      string `env:"LEVEL,default=info"`
	Format     string `env:"FORMAT,default=text"`
	Output     string `env:"OUTPUT,default=stdout"`
	FilePath   string `env:"FILE_PATH,default=./logs/campaign-wizard.log"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB,default=100"`
	MaxBackups int    `env:"MAX_BACKUPS,default=5"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS,default=30"`
	Compress   bool   `env:"COMPRESS,default=true"`
}

type I18nConfig struct {
	DefaultLocale string `env:"DEFAULT_LOCALE,default=en"`
	LocalesPath   string `env:"LOCALES_PATH,default=./internal/i18n/locales"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `env:"REQUESTS_PER_MINUTE,default=100"`
	Burst             int `env:"BURST,default=20"`
	UploadsPerMinute  int `env:"UPLOADS_PER_MINUTE,default=10"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	MaxAgeHours    int      `env:"MAX_AGE_HOURS,default=12"`
}

func Load(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	return &cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == defaultJWTSecret && c.IsProduction() {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.IsProduction() {
		return fmt.Errorf("database password is required in production")
	}

	if c.Index.Workers < 1 || c.Index.QueueSize < 1 {
		return fmt.Errorf("index workers and queue size must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
