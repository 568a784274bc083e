package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"resume-service/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	AllowedHosts    []string
	DatabaseURL     string

	AuthServiceURL   string
	PublicKeyPath    string
	JWTAlgorithm     string
	PublicKeyTimeout time.Duration

	ImproverProvider     string
	ImproverURL          string
	ImproverTimeout      time.Duration
	ImproverClientID     string
	ImproverClientSecret string
	ImproverTokenURL     string

	RedisURL       string
	RateLimitRPS   float64
	RateLimitBurst int

	EventsDriver string
	AWSRegion    string
	SQSQueueURL  string
	AMQPURL      string
	AMQPQueue    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.missing", map[string]any{"key": "DATABASE_URL", "env": env})
	}
	authURL := strings.TrimRight(getEnv("AUTH_SERVICE_URL", "http://localhost:8000"), "/")
	if env == "production" && os.Getenv("AUTH_SERVICE_URL") == "" {
		telemetry.Warn("config.missing", map[string]any{"key": "AUTH_SERVICE_URL", "env": env})
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		AllowedHosts:    splitAndTrim(getEnv("ALLOWED_HOSTS", "*")),
		DatabaseURL:     dbURL,

		AuthServiceURL:   authURL,
		PublicKeyPath:    getEnv("PUBLIC_KEY_PATH", "/api/v1/auth/public-key"),
		JWTAlgorithm:     strings.ToUpper(getEnv("JWT_ALGORITHM", "RS256")),
		PublicKeyTimeout: getDuration("PUBLIC_KEY_TIMEOUT", 5*time.Second),

		ImproverProvider:     normalizeImprover(getEnv("IMPROVER_PROVIDER", "placeholder")),
		ImproverURL:          strings.TrimRight(getEnv("IMPROVER_URL", ""), "/"),
		ImproverTimeout:      getDuration("IMPROVER_TIMEOUT", 30*time.Second),
		ImproverClientID:     getEnv("IMPROVER_CLIENT_ID", ""),
		ImproverClientSecret: getEnv("IMPROVER_CLIENT_SECRET", ""),
		ImproverTokenURL:     getEnv("IMPROVER_TOKEN_URL", ""),

		RedisURL:       getEnv("REDIS_URL", ""),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 20),

		EventsDriver: normalizeEventsDriver(getEnv("EVENTS_DRIVER", "none")),
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SQSQueueURL:  getEnv("SQS_QUEUE_URL", ""),
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPQueue:    getEnv("AMQP_QUEUE", "resume.improvements"),
	}
}

// PublicKeyURL is the identity authority endpoint serving the token signing key.
func (c Config) PublicKeyURL() string {
	path := c.PublicKeyPath
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.AuthServiceURL + path
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		telemetry.Warn("config.invalid", map[string]any{"key": key, "value": raw, "default": def.String()})
		return def
	}
	return val
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("config.invalid", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		telemetry.Warn("config.invalid", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test", "testing":
		return "test"
	default:
		return "dev"
	}
}

func normalizeImprover(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "http":
		return "http"
	default:
		return "placeholder"
	}
}

func normalizeEventsDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sqs":
		return "sqs"
	case "amqp", "rabbitmq":
		return "amqp"
	default:
		return "none"
	}
}
