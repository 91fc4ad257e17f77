package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration. FromEnv keeps main lean; every
// field has a development default so the binary runs without any environment.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	JWTSigningKey string

	// OTP issuance
	OTPTTL      time.Duration
	CountryCode string

	// Rate limiting (issuance throttle and confirm-attempt lockout)
	IssuesPerWindow   int
	AttemptsPerWindow int
	LimitWindow       time.Duration

	SMTP SMTPConfig
	Chat ChatConfig

	Kafka KafkaConfig
}

// SMTPConfig configures the email delivery channel.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ChatConfig configures the chat-message delivery channel (HTTP gateway).
type ChatConfig struct {
	GatewayURL string
	APIToken   string
	Timeout    time.Duration
}

// KafkaConfig configures the optional audit event stream.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:          envOr("STOREFRONT_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),

		OTPTTL:      envDuration("OTP_TTL", 10*time.Minute),
		CountryCode: envOr("PHONE_COUNTRY_CODE", "91"),

		IssuesPerWindow:   envInt("OTP_ISSUES_PER_WINDOW", 3),
		AttemptsPerWindow: envInt("OTP_ATTEMPTS_PER_WINDOW", 5),
		LimitWindow:       envDuration("OTP_LIMIT_WINDOW", 10*time.Minute),

		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOr("SMTP_FROM", "no-reply@horibol.example"),
		},
		Chat: ChatConfig{
			GatewayURL: os.Getenv("CHAT_GATEWAY_URL"),
			APIToken:   os.Getenv("CHAT_GATEWAY_TOKEN"),
			Timeout:    envDuration("CHAT_GATEWAY_TIMEOUT", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: envOr("KAFKA_AUDIT_TOPIC", "account.deletion.audit"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
