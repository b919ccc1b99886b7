package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver string `env:"DB_DRIVER" envDefault:"mysql"`
	DBDSN    string `env:"DB_DSN"`
	DBHost   string `env:"DB_HOST" envDefault:"localhost"`
	DBPort   string `env:"DB_PORT" envDefault:"3306"`
	DBUser   string `env:"DB_USER" envDefault:"root"`
	DBPass   string `env:"DB_PASS" envDefault:"root"`
	DBName   string `env:"DB_NAME" envDefault:"Go_Stow"`

	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQHost     string `env:"RABBITMQ_HOST" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUser     string `env:"RABBITMQ_USER" envDefault:"guest"`
	RabbitMQPass     string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`
	RabbitMQPrefetch int    `env:"RABBITMQ_PREFETCH" envDefault:"8"`

	// MailTransport selects how verification mails leave the process: smtp, amqp or log.
	MailTransport         string          `env:"MAIL_TRANSPORT" envDefault:"smtp"`
	MailWorkerConcurrency int             `env:"MAIL_WORKER_CONCURRENCY" envDefault:"4"`
	MailRate              float64         `env:"MAIL_RATE" envDefault:"5"`
	MailBurst             int             `env:"MAIL_BURST" envDefault:"5"`
	MailRetryMax          int             `env:"MAIL_RETRY_MAX" envDefault:"5"`
	MailRetryDelays       []time.Duration `env:"MAIL_RETRY_DELAYS" envDefault:"10s,30s,2m,10m,30m"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPTLS      bool   `env:"SMTP_TLS" envDefault:"false"`
	SMTPStartTLS bool   `env:"SMTP_STARTTLS" envDefault:"true"`

	JWTSecret      string            `env:"JWT_SECRET"`
	JWTKeyID       string            `env:"JWT_KEY_ID" envDefault:"k1"`
	JWTRetiredKeys map[string]string `env:"JWT_RETIRED_KEYS" envKeyValSeparator:":"`
	AccessTokenTTL time.Duration     `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTTL     time.Duration     `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	AuthRate            float64       `env:"AUTH_RATE" envDefault:"1"`
	AuthBurst           int           `env:"AUTH_BURST" envDefault:"10"`
	VerifyMaxAttempts   int           `env:"VERIFY_MAX_ATTEMPTS" envDefault:"5"`
	VerifyAttemptWindow time.Duration `env:"VERIFY_ATTEMPT_WINDOW" envDefault:"10m"`
	ResendCooldown      time.Duration `env:"RESEND_COOLDOWN" envDefault:"1m"`
	UserCacheTTL        time.Duration `env:"USER_CACHE_TTL" envDefault:"10m"`

	GoogleKey         string `env:"GOOGLE_KEY"`
	GoogleSecret      string `env:"GOOGLE_SECRET"`
	GoogleCallbackURL string `env:"GOOGLE_CALLBACK_URL" envDefault:"http://localhost:8000/users/auth/google/callback"`
	SessionSecret     string `env:"SESSION_SECRET"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`

	Storage StorageConfig
}

var AppConfig Config

// Load reads an optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// InitConfig loads configuration into AppConfig.
func InitConfig() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func (c *Config) normalize() {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.MailTransport = strings.ToLower(strings.TrimSpace(c.MailTransport))
	if c.RabbitMQURL == "" {
		c.RabbitMQURL = fmt.Sprintf(
			"amqp://%s:%s@%s:%s/%s",
			url.PathEscape(c.RabbitMQUser),
			url.PathEscape(c.RabbitMQPass),
			c.RabbitMQHost,
			c.RabbitMQPort,
			url.PathEscape(c.RabbitMQVhost),
		)
	}
	if c.AccessTokenTTL <= 0 {
		c.AccessTokenTTL = 30 * time.Minute
	}
	if c.RefreshTTL <= 0 {
		c.RefreshTTL = 7 * 24 * time.Hour
	}
	if c.JWTKeyID == "" {
		c.JWTKeyID = "k1"
	}
	c.Storage.normalize()
}

// IsProduction reports whether the process runs with production defaults.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}
