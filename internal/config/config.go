package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"

	EventsDriverNone = "none"
	EventsDriverSNS  = "sns"
	EventsDriverAMQP = "amqp"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	DatabaseURL string

	JWTSecret          string
	JWTTTL             time.Duration
	AuthClaimsFallback bool

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string

	StorageDir             string
	StoragePublicBaseURL   string
	StorageInternalAliases []string

	RedisURL         string
	LoginMaxAttempts int
	LoginLockout     time.Duration

	EventsDriver string
	SNSTopicARN  string
	AWSRegion    string
	AMQPURL      string
	AMQPExchange string

	NotificationRetentionDays int
	DiscoveryDefaultRadiusKM  float64
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		AppEnv:   strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		HTTPAddr: strings.TrimSpace(v.GetString("HTTP_ADDR")),

		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),

		JWTSecret:          strings.TrimSpace(v.GetString("JWT_SECRET")),
		AuthClaimsFallback: parseBool(v.GetString("AUTH_CLAIMS_FALLBACK")),

		LogLevel:  strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat: strings.ToLower(v.GetString("LOG_FORMAT")),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		StorageDir:             strings.TrimSpace(v.GetString("STORAGE_DIR")),
		StoragePublicBaseURL:   strings.TrimRight(strings.TrimSpace(v.GetString("STORAGE_PUBLIC_BASE_URL")), "/"),
		StorageInternalAliases: splitList(v.GetString("STORAGE_INTERNAL_ALIASES")),

		RedisURL:         strings.TrimSpace(v.GetString("REDIS_URL")),
		LoginMaxAttempts: v.GetInt("LOGIN_MAX_ATTEMPTS"),

		EventsDriver: strings.ToLower(strings.TrimSpace(v.GetString("EVENTS_DRIVER"))),
		SNSTopicARN:  strings.TrimSpace(v.GetString("SNS_TOPIC_ARN")),
		AWSRegion:    strings.TrimSpace(v.GetString("AWS_REGION")),
		AMQPURL:      strings.TrimSpace(v.GetString("AMQP_URL")),
		AMQPExchange: strings.TrimSpace(v.GetString("AMQP_EXCHANGE")),

		NotificationRetentionDays: v.GetInt("NOTIFICATION_RETENTION_DAYS"),
		DiscoveryDefaultRadiusKM:  v.GetFloat64("DISCOVERY_DEFAULT_RADIUS_KM"),
	}

	var err error
	cfg.JWTTTL, err = parseDuration("JWT_TTL", v.GetString("JWT_TTL"))
	if err != nil {
		return nil, err
	}
	cfg.LoginLockout, err = parseDuration("LOGIN_LOCKOUT", v.GetString("LOGIN_LOCKOUT"))
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "climatejobs.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("AUTH_CLAIMS_FALLBACK", "false")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("STORAGE_DIR", "./uploads")
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/uploads")
	v.SetDefault("STORAGE_INTERNAL_ALIASES", "http://kong:8000")
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_LOCKOUT", "15m")
	v.SetDefault("EVENTS_DRIVER", EventsDriverNone)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AMQP_EXCHANGE", "climatejobs.events")
	v.SetDefault("NOTIFICATION_RETENTION_DAYS", 90)
	v.SetDefault("DISCOVERY_DEFAULT_RADIUS_KM", 50)
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.LoginLockout <= 0 {
		return fmt.Errorf("LOGIN_LOCKOUT must be > 0")
	}
	if cfg.LoginMaxAttempts <= 0 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be > 0")
	}
	if cfg.DiscoveryDefaultRadiusKM <= 0 {
		return fmt.Errorf("DISCOVERY_DEFAULT_RADIUS_KM must be > 0")
	}
	if cfg.NotificationRetentionDays <= 0 {
		return fmt.Errorf("NOTIFICATION_RETENTION_DAYS must be > 0")
	}

	switch cfg.EventsDriver {
	case EventsDriverNone:
	case EventsDriverSNS:
		if cfg.SNSTopicARN == "" {
			return fmt.Errorf("SNS_TOPIC_ARN is required when EVENTS_DRIVER=sns")
		}
	case EventsDriverAMQP:
		if cfg.AMQPURL == "" {
			return fmt.Errorf("AMQP_URL is required when EVENTS_DRIVER=amqp")
		}
	default:
		return fmt.Errorf("EVENTS_DRIVER must be one of: none, sns, amqp")
	}

	if IsProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.AuthClaimsFallback {
			return fmt.Errorf("in prod/release AUTH_CLAIMS_FALLBACK must be disabled")
		}
	}
	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDuration(name, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBool(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
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
