package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment
// variables. Provider credentials stay external; only names are known here.
type Config struct {
	Env      string
	HTTPAddr string
	BaseURL  string

	StorageMode string // "memory" or "mongo"
	MongoURI    string
	MongoDB     string

	KafkaBrokers     []string
	KafkaTopicPrefix string

	GoogleSearchKey      string
	GoogleSearchEngineID string
	GeminiKey            string
	MercadoPagoToken     string

	Structurer string // "formatter" or "gemini"

	CacheTTL   time.Duration
	SessionTTL time.Duration
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:                  getEnv("APP_ENV", "dev"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		BaseURL:              getEnv("BASE_URL", "http://localhost:8080"),
		StorageMode:          strings.ToLower(getEnv("STORAGE_MODE", "memory")),
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDB:              getEnv("MONGO_DB", "rentradar"),
		KafkaTopicPrefix:     getEnv("KAFKA_TOPIC_PREFIX", ""),
		GoogleSearchKey:      os.Getenv("GOOGLE_SEARCH_API_KEY"),
		GoogleSearchEngineID: os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
		GeminiKey:            os.Getenv("GEMINI_API_KEY"),
		MercadoPagoToken:     os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		Structurer:           strings.ToLower(getEnv("SCAN_STRUCTURER", "formatter")),
	}

	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	cacheTTL, err := parseDurationEnv("CACHE_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.CacheTTL = cacheTTL

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 168*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = sessionTTL

	switch cfg.StorageMode {
	case "memory", "mongo":
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_MODE %q", cfg.StorageMode)
	}
	if cfg.StorageMode == "mongo" && cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
	}
	switch cfg.Structurer {
	case "formatter", "gemini":
	default:
		return Config{}, fmt.Errorf("invalid SCAN_STRUCTURER %q", cfg.Structurer)
	}
	if cfg.Structurer == "gemini" && cfg.GeminiKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY is required when SCAN_STRUCTURER=gemini")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}
