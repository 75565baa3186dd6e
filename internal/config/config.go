package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"taskflow/internal/core/domain"
)

type Config struct {
	AppPort        string
	DbHost         string
	DbPort         string
	DbUser         string
	DbPassword     string
	DbName         string
	DbParams       string
	TrustedProxies []string
	CorsOrigins    []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	TokenTTL  time.Duration

	SLAWarningWindow  time.Duration
	SLACriticalWindow time.Duration
	SLAMinLeadTime    time.Duration

	RateLimitPerMinute int
	RateLimitBurst     int

	SessionIdleTimeout      time.Duration
	AutoReportOnComplete    bool
	FeedMaxRefreshPerSecond float64
	TranslationFolder       string
	MigrationsPath          string
	DefaultLanguage         string
	LogLevel                string
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),
		DbHost:         getEnv("MYSQL_HOST", "db"),
		DbPort:         getEnv("MYSQL_PORT", "3306"),
		DbUser:         getEnv("MYSQL_USER", "taskflow"),
		DbPassword:     getEnv("MYSQL_PASSWORD", "taskflow"),
		DbName:         getEnv("MYSQL_DATABASE", "taskflow"),
		DbParams:       getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
		TrustedProxies: parseList(os.Getenv("TRUSTED_PROXIES")),
		CorsOrigins:    parseList(os.Getenv("CORS_ORIGINS")),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),

		SLAWarningWindow:  getDuration("SLA_WARNING_WINDOW", 24*time.Hour),
		SLACriticalWindow: getDuration("SLA_CRITICAL_WINDOW", 6*time.Hour),
		SLAMinLeadTime:    getDuration("SLA_MIN_LEAD_TIME", 24*time.Hour),

		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 20),

		SessionIdleTimeout:      getDuration("SESSION_IDLE_TIMEOUT", 15*time.Minute),
		AutoReportOnComplete:    getBool("AUTO_REPORT_ON_COMPLETE", false),
		FeedMaxRefreshPerSecond: getFloat("FEED_MAX_REFRESH_PER_SECOND", 5),
		TranslationFolder:       getEnv("TRANSLATION_FOLDER", "pkg/translator/translation"),
		MigrationsPath:          getEnv("MIGRATIONS_PATH", "internal/adapter/db/migrations"),
		DefaultLanguage:         getEnv("DEFAULT_LANGUAGE", "en"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}
}

func (c *Config) SLAThresholds() domain.SLAThresholds {
	return domain.SLAThresholds{Warning: c.SLAWarningWindow, Critical: c.SLACriticalWindow}.Normalize()
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		zap.L().Warn("invalid integer in environment, using default", zap.String("key", key), zap.Int("default", fallback))
		return fallback
	}
	return parsed
}

func getFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		zap.L().Warn("invalid number in environment, using default", zap.String("key", key), zap.Float64("default", fallback))
		return fallback
	}
	return parsed
}

func getBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		zap.L().Warn("invalid boolean in environment, using default", zap.String("key", key), zap.Bool("default", fallback))
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		zap.L().Warn("invalid duration in environment, using default", zap.String("key", key), zap.Duration("default", fallback))
		return fallback
	}
	return parsed
}

func parseList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil
	}

	return items
}
