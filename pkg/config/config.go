package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage drivers backing the key/value persistence medium.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Auth     AuthConfig
	Fees     FeesConfig
	Insight  InsightConfig
	Reminder ReminderConfig
	Sentry   SentryConfig
}

// StorageConfig selects the persistence medium for the rcc_* collections.
type StorageConfig struct {
	Driver    string
	Dir       string
	Namespace string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AuthConfig holds the fixed portal credentials.
type AuthConfig struct {
	TeacherUsername   string
	TeacherPassphrase string
	StudentPassphrase string
}

// FeesConfig defines the fee targets used by progress calculations.
type FeesConfig struct {
	StudentTarget float64
	TeacherTarget float64
}

// InsightConfig configures the generative performance summary.
type InsightConfig struct {
	APIKey       string
	Model        string
	Timeout      time.Duration
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ReminderConfig sizes the automated reminder worker pool.
type ReminderConfig struct {
	Workers int
	Retries int
}

type SentryConfig struct {
	DSN     string
	Release string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Storage = StorageConfig{
		Driver:    strings.ToLower(v.GetString("STORAGE_DRIVER")),
		Dir:       v.GetString("STORAGE_DIR"),
		Namespace: v.GetString("STORAGE_NAMESPACE"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Auth = AuthConfig{
		TeacherUsername:   v.GetString("TEACHER_USERNAME"),
		TeacherPassphrase: v.GetString("TEACHER_PASSPHRASE"),
		StudentPassphrase: v.GetString("STUDENT_PASSPHRASE"),
	}

	cfg.Fees = FeesConfig{
		StudentTarget: v.GetFloat64("FEE_TARGET_STUDENT"),
		TeacherTarget: v.GetFloat64("FEE_TARGET_TEACHER"),
	}

	cfg.Insight = InsightConfig{
		APIKey:       v.GetString("GEMINI_API_KEY"),
		Model:        v.GetString("GEMINI_MODEL"),
		Timeout:      parseDuration(v.GetString("INSIGHT_TIMEOUT"), 20*time.Second),
		CacheEnabled: v.GetBool("ENABLE_INSIGHT_CACHE"),
		CacheTTL:     parseDuration(v.GetString("INSIGHT_CACHE_TTL"), time.Hour),
	}

	cfg.Reminder = ReminderConfig{
		Workers: v.GetInt("REMINDER_WORKERS"),
		Retries: v.GetInt("REMINDER_RETRIES"),
	}

	cfg.Sentry = SentryConfig{
		DSN:     v.GetString("SENTRY_DSN"),
		Release: v.GetString("SENTRY_RELEASE"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORAGE_DRIVER", StorageFile)
	v.SetDefault("STORAGE_DIR", "./data")
	v.SetDefault("STORAGE_NAMESPACE", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "rcc_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TEACHER_USERNAME", "Raghubir")
	v.SetDefault("TEACHER_PASSPHRASE", "SIDHARTH")
	v.SetDefault("STUDENT_PASSPHRASE", "Sidharth")

	v.SetDefault("FEE_TARGET_STUDENT", 60000)
	v.SetDefault("FEE_TARGET_TEACHER", 180000)

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-3-flash-preview")
	v.SetDefault("INSIGHT_TIMEOUT", "20s")
	v.SetDefault("ENABLE_INSIGHT_CACHE", false)
	v.SetDefault("INSIGHT_CACHE_TTL", "1h")

	v.SetDefault("REMINDER_WORKERS", 2)
	v.SetDefault("REMINDER_RETRIES", 3)

	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("SENTRY_RELEASE", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
