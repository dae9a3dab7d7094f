package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	// Redis Config
	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string        `env:"REDIS_PASSWORD"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	LockTTL   time.Duration `env:"LOCK_TTL" envDefault:"10s"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`

	// CORS для браузерного клиента
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`

	// Reverse geocoding
	GeocoderURL       string        `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent string        `env:"GEOCODER_USER_AGENT" envDefault:"fala-cidadao/1.0"`
	GeocoderTimeout   time.Duration `env:"GEOCODER_TIMEOUT" envDefault:"5s"`
	GeocoderEnabled   bool          `env:"GEOCODER_ENABLED" envDefault:"true"`
	GeocoderCacheTTL  time.Duration `env:"GEOCODER_CACHE_TTL" envDefault:"24h"`

	// Triage
	TriageThreshold float64 `env:"TRIAGE_THRESHOLD" envDefault:"0.55"`
	TriageLimit     int     `env:"TRIAGE_LIMIT" envDefault:"3"`

	// Evidence
	EvidenceMaxDistanceMeters float64 `env:"EVIDENCE_MAX_DISTANCE_METERS" envDefault:"30"`
	EvidenceMaxTotalBytes     int     `env:"EVIDENCE_MAX_TOTAL_BYTES" envDefault:"3670016"`
	EvidenceMaxWidth          int     `env:"EVIDENCE_MAX_WIDTH" envDefault:"1280"`
	EvidenceMaxHeight         int     `env:"EVIDENCE_MAX_HEIGHT" envDefault:"1280"`
	EvidenceJPEGQuality       int     `env:"EVIDENCE_JPEG_QUALITY" envDefault:"72"`
	MaxUploadBytes            int64   `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`

	// Город в фокусе, если клиент его не передал
	DefaultCity string `env:"DEFAULT_CITY" envDefault:"recife"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:               os.Getenv("DATABASE_URL"),
		HTTPPort:                  getEnv("HTTP_PORT", "8080"),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		LogFormat:                 getEnv("LOG_FORMAT", "json"),
		DBMaxConns:                int32(getEnvAsInt("DB_MAX_CONNS", 10)),
		RedisAddr:                 getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:                 os.Getenv("REDIS_PASSWORD"),
		RedisDB:                   getEnvAsInt("REDIS_DB", 0),
		CacheTTL:                  getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		LockTTL:                   getEnvAsDuration("LOCK_TTL", 10*time.Second),
		WebhookURL:                os.Getenv("WEBHOOK_URL"),
		WebhookSecret:             os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:            getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:         getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:          getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		APIKeys:                   getEnvAsList("API_KEYS"),
		CORSAllowedOrigins:        getEnvAsList("CORS_ALLOWED_ORIGINS"),
		GeocoderURL:               getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:         getEnv("GEOCODER_USER_AGENT", "fala-cidadao/1.0"),
		GeocoderTimeout:           getEnvAsDuration("GEOCODER_TIMEOUT", 5*time.Second),
		GeocoderEnabled:           getEnvAsBool("GEOCODER_ENABLED", true),
		GeocoderCacheTTL:          getEnvAsDuration("GEOCODER_CACHE_TTL", 24*time.Hour),
		TriageThreshold:           getEnvAsFloat("TRIAGE_THRESHOLD", 0.55),
		TriageLimit:               getEnvAsInt("TRIAGE_LIMIT", 3),
		EvidenceMaxDistanceMeters: getEnvAsFloat("EVIDENCE_MAX_DISTANCE_METERS", 30),
		EvidenceMaxTotalBytes:     getEnvAsInt("EVIDENCE_MAX_TOTAL_BYTES", 3670016),
		EvidenceMaxWidth:          getEnvAsInt("EVIDENCE_MAX_WIDTH", 1280),
		EvidenceMaxHeight:         getEnvAsInt("EVIDENCE_MAX_HEIGHT", 1280),
		EvidenceJPEGQuality:       getEnvAsInt("EVIDENCE_JPEG_QUALITY", 72),
		MaxUploadBytes:            getEnvAsInt64("MAX_UPLOAD_BYTES", 50<<20),
		DefaultCity:               getEnv("DEFAULT_CITY", "recife"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
