package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const devSecretKey = "dev-secret-key-change-me"

type Config struct {
	Env        string
	Debug      bool
	ServerPort int
	LogLevel   string
	Database   DatabaseConfig
	Session    SessionConfig
	Social     SocialConfig
	Profile    ProfileConfig
	Media      MediaConfig
	Events     EventsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// SessionConfig controls cookie signing and where session records live.
type SessionConfig struct {
	SecretKey    string
	SecureCookie bool
	// Backend is "postgres" or "redis".
	Backend  string
	RedisURL string
	TTLHours int
}

// SocialConfig holds the static values shown in the blog page social block.
type SocialConfig struct {
	GitHubUsername string
	ProfileURL     string
	ProfileLabel   string
	Connections    string
}

type ProfileConfig struct {
	APIBase string
}

// MediaConfig selects an object storage backend for /media. Empty Backend disables it.
type MediaConfig struct {
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

// EventsConfig selects a broker for submission events. Empty Backend disables publishing.
type EventsConfig struct {
	Backend  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

func LoadConfig() Config {
	env := getEnv("ENV", "production")
	if env == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "portfolio"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "portfolio_db"),
		UseSSL:   getEnvBool("DB_SSL", false),
	}

	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" && env == "dev" {
		secret = devSecretKey
	}

	port := getEnvInt("SERVER_PORT", 0)
	if port == 0 {
		port = getEnvInt("PORT", 8080)
	}

	return Config{
		Env:        env,
		Debug:      getEnvBool("DEBUG", false),
		ServerPort: port,
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Database:   dbConfig,
		Session: SessionConfig{
			SecretKey:    secret,
			SecureCookie: getEnvBool("SESSION_COOKIE_SECURE", false),
			Backend:      strings.ToLower(getEnv("SESSION_BACKEND", "postgres")),
			RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
			TTLHours:     getEnvInt("SESSION_TTL_HOURS", 24*7),
		},
		Social: SocialConfig{
			GitHubUsername: getEnv("GITHUB_USERNAME", ""),
			ProfileURL:     getEnv("SOCIAL_PROFILE_URL", ""),
			ProfileLabel:   getEnv("SOCIAL_PROFILE_LABEL", "LinkedIn"),
			Connections:    getEnv("SOCIAL_CONNECTIONS", "500+"),
		},
		Profile: ProfileConfig{
			APIBase: getEnv("PROFILE_API_BASE", "https://api.github.com"),
		},
		Media: MediaConfig{
			Backend: strings.ToLower(getEnv("MEDIA_BACKEND", "")),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "portfolio-media"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				Bucket:          getEnv("GCS_BUCKET", ""),
				ProjectID:       getEnv("GCS_PROJECT_ID", ""),
				CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			},
		},
		Events: EventsConfig{
			Backend: strings.ToLower(getEnv("EVENTS_BACKEND", "")),
			RabbitMQ: RabbitMQConfig{
				URL:             getEnv("RABBITMQ_URL", ""),
				QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
				QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
				PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH", 10),
			},
			PubSub: PubSubConfig{
				ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
				CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
				SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
			},
		},
	}
}

// IsDev reports whether the process runs with ENV=dev.
func (c Config) IsDev() bool {
	return c.Env == "dev"
}

// Validate reports configuration that would make the server unsafe or unable to start.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Session.SecretKey) == "" {
		return errors.New("SECRET_KEY is required outside ENV=dev")
	}
	switch c.Session.Backend {
	case "postgres", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.Session.Backend)
	}
	switch c.Media.Backend {
	case "", "minio", "gcs":
	default:
		return fmt.Errorf("unsupported MEDIA_BACKEND %q", c.Media.Backend)
	}
	switch c.Events.Backend {
	case "", "rabbitmq", "pubsub":
	default:
		return fmt.Errorf("unsupported EVENTS_BACKEND %q", c.Events.Backend)
	}
	return nil
}

// UsesDevSecret reports whether the built-in development secret is in effect.
func (c Config) UsesDevSecret() bool {
	return c.Session.SecretKey == devSecretKey
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return ParseBool(valueStr)
	}
	return defaultValue
}

// ParseBool accepts 1, true, yes, y and on (any case) as true.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
