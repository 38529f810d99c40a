package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Auth     AuthConfig
	Email    EmailConfig
	Site     SiteConfig
	Geo      GeoConfig
	Tasks    TasksConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

type DatabaseConfig struct {
	URL         string
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
}

// RedisConfig is optional; without it idempotency keys live in Postgres.
type RedisConfig struct {
	URL string
}

// NATSConfig is optional; an empty URL disables event publishing.
type NATSConfig struct {
	URL string
}

type AuthConfig struct {
	AdminSecret     string
	JWTSecret       string
	AdminSessionTTL time.Duration
}

type EmailConfig struct {
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	SMTPUseTLS    bool
	From          string
	FromName      string
	OwnerEmail    string
	MailerSendKey string
	DevMode       bool // log emails instead of sending
}

type SiteConfig struct {
	PublicURL  string
	BackendURL string
}

type GeoConfig struct {
	Endpoint string
	Timeout  time.Duration
}

type TasksConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration

	// Campaigns run on their own single-worker queue so a long fan-out never
	// holds up confirmation emails or visit inserts.
	CampaignQueueSize   int
	CampaignTimeout     time.Duration
	CampaignConcurrency int
}

func Load() *Config {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	from := strings.TrimSpace(getEnv("EMAIL_FROM", ""))
	if from == "" {
		from = "noreply@example.com"
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8000"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			CORSOrigins:  getList("CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", "postgres://localhost:5432/syllatech?sslmode=disable"),
			MaxConns:    getInt("DB_MAX_CONNS", 10),
			MinConns:    getInt("DB_MIN_CONNS", 1),
			MaxLifetime: getDuration("DB_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Auth: AuthConfig{
			AdminSecret:     strings.TrimSpace(getEnv("ADMIN_SECRET_KEY", "")),
			JWTSecret:       strings.TrimSpace(getEnv("JWT_SECRET", "")),
			AdminSessionTTL: getDuration("ADMIN_SESSION_TTL", 12*time.Hour),
		},
		Email: EmailConfig{
			SMTPHost:      strings.TrimSpace(getEnv("SMTP_HOST", "")),
			SMTPPort:      getInt("SMTP_PORT", 587),
			SMTPUser:      strings.TrimSpace(getEnv("SMTP_USER", "")),
			SMTPPass:      strings.TrimSpace(getEnv("SMTP_PASSWORD", "")),
			SMTPUseTLS:    getBool("SMTP_USE_TLS", true),
			From:          from,
			FromName:      getEnv("EMAIL_FROM_NAME", "SyllaTech"),
			OwnerEmail:    strings.TrimSpace(getEnv("OWNER_NOTIFICATION_EMAIL", "")),
			MailerSendKey: getEnv("MAILERSEND_API_KEY", ""),
			DevMode:       getBool("EMAIL_DEV_MODE", false),
		},
		Site: SiteConfig{
			PublicURL:  strings.TrimSpace(getEnv("SITE_URL", "")),
			BackendURL: strings.TrimSpace(getEnv("BACKEND_PUBLIC_URL", "http://localhost:8000")),
		},
		Geo: GeoConfig{
			Endpoint: getEnv("GEO_ENDPOINT", "http://ip-api.com/json"),
			Timeout:  getDuration("GEO_TIMEOUT", 2*time.Second),
		},
		Tasks: TasksConfig{
			Workers:             getInt("TASK_WORKERS", 4),
			QueueSize:           getInt("TASK_QUEUE_SIZE", 256),
			Timeout:             getDuration("TASK_TIMEOUT", time.Minute),
			CampaignQueueSize:   getInt("CAMPAIGN_QUEUE_SIZE", 16),
			CampaignTimeout:     getDuration("CAMPAIGN_TIMEOUT", 30*time.Minute),
			CampaignConcurrency: getInt("CAMPAIGN_CONCURRENCY", 4),
		},
	}
}

// OwnerAddress is where new-booking notifications go.
func (e EmailConfig) OwnerAddress() string {
	if e.OwnerEmail != "" {
		return e.OwnerEmail
	}
	return e.From
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
