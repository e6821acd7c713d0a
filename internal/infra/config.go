package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string
	Port                string
	DataDir             string
	UploadDir           string
	OutputDir           string
	PresetFile          string
	PhotoMakerURL       string
	PhotoMakerTimeout   time.Duration
	DetectConcurrency   int
	DetectRatePerSecond float64
	FaceCacheTTL        time.Duration
	DefaultAspectRatio  string
	DefaultLocale       string
	MaxUploadBytes      int64
	DatabaseURL         string
	GeoIPDBPath         string
	CORSAllowedOrigins  []string
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
	RateLimitPerMin     int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	dataDir := getEnv("DATA_DIR", "./data")
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		DataDir:             dataDir,
		UploadDir:           getEnv("UPLOAD_DIR", filepath.Join(dataDir, "uploads")),
		OutputDir:           getEnv("OUTPUT_DIR", filepath.Join(dataDir, "outputs")),
		PresetFile:          getEnv("PRESET_FILE", filepath.Join(dataDir, "dream_world_themes.json")),
		PhotoMakerURL:       getEnv("PHOTOMAKER_URL", "http://localhost:7860"),
		PhotoMakerTimeout:   time.Second * time.Duration(getEnvInt("PHOTOMAKER_TIMEOUT_SECONDS", 300)),
		DetectConcurrency:   getEnvInt("DETECT_CONCURRENCY", 3),
		DetectRatePerSecond: getEnvFloat("DETECT_RATE_PER_SECOND", 10),
		FaceCacheTTL:        time.Minute * time.Duration(getEnvInt("FACE_CACHE_TTL_MINUTES", 30)),
		DefaultAspectRatio:  getEnv("DEFAULT_ASPECT_RATIO", "Instagram (1:1)"),
		DefaultLocale:       getEnv("DEFAULT_LOCALE", "en"),
		MaxUploadBytes:      int64(getEnvInt("MAX_UPLOAD_MB", 20)) << 20,
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		GeoIPDBPath:         os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 330)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the generator cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.UploadDir) == "":
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	case strings.TrimSpace(c.OutputDir) == "":
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	case strings.TrimSpace(c.PresetFile) == "":
		return fmt.Errorf("PRESET_FILE must not be empty")
	case c.DetectConcurrency <= 0:
		return fmt.Errorf("DETECT_CONCURRENCY must be positive, got %d", c.DetectConcurrency)
	case c.DetectRatePerSecond < 0:
		return fmt.Errorf("DETECT_RATE_PER_SECOND must not be negative")
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	case c.PhotoMakerTimeout <= 0:
		return fmt.Errorf("PHOTOMAKER_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// HistoryEnabled reports whether runs are persisted to Postgres.
func (c *Config) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
