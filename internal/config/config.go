package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed calibration.yaml
var calibrationYAML []byte

type Config struct {
	App         AppConfig
	Store       StoreConfig
	Web         WebConfig
	Calibration CalibrationConfig
}

type AppConfig struct {
	Env          string        // local, dev, prod (selects logger format)
	LogLevel     string        // debug, info, warn, error (optional override)
	StartTimeout time.Duration // how long to wait for the frame source before giving up
}

type StoreConfig struct {
	Driver        string   // memory, postgres, mariadb, redis
	DatabaseURL   string   // PostgreSQL connection URL
	MariaDBDSN    string   // MariaDB DSN (e.g., user:pass@tcp(mariadb:3306)/attendance)
	RedisAddrs    []string // Redis/Valkey addresses
	RedisPassword string
	KeyPrefix     string // prefix applied to every storage key
	MaxOpenConns  int    // Maximum open connections (default 10)
	MaxIdleConns  int    // Maximum idle connections (default 2)
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string      // extra CORS origins; localhost is always allowed
	FrameStaleness time.Duration // pushed frames older than this are not analyzed
}

// CalibrationConfig holds the empirical matching constants.
type CalibrationConfig struct {
	DisplayThreshold int     `yaml:"display_threshold"`
	MarkThreshold    int     `yaml:"mark_threshold"`
	MaxDistance      float64 `yaml:"max_distance"`
	CooldownMs       int     `yaml:"cooldown_ms"`
	NoticeMs         int     `yaml:"notice_ms"`
}

// Cooldown returns the debounce window as a duration.
func (c CalibrationConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownMs) * time.Millisecond
}

// Notice returns how long the "marked" notice stays before reverting.
func (c CalibrationConfig) Notice() time.Duration {
	return time.Duration(c.NoticeMs) * time.Millisecond
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envDuration reads a Go duration string (e.g. "15s").
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma-separated variable, dropping empty entries.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadCalibration returns the embedded defaults with environment overrides applied.
func LoadCalibration() CalibrationConfig {
	var cal CalibrationConfig
	if err := yaml.Unmarshal(calibrationYAML, &cal); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded calibration.yaml: " + err.Error())
	}

	cal.DisplayThreshold = envInt("FACE_DISPLAY_THRESHOLD", cal.DisplayThreshold)
	cal.MarkThreshold = envInt("FACE_MARK_THRESHOLD", cal.MarkThreshold)
	cal.MaxDistance = envFloat("FACE_MAX_DISTANCE", cal.MaxDistance)
	cal.CooldownMs = envInt("FACE_COOLDOWN_MS", cal.CooldownMs)
	cal.NoticeMs = envInt("FACE_NOTICE_MS", cal.NoticeMs)
	return cal
}

func Load() *Config {
	return &Config{
		App: AppConfig{
			Env:          envString("APP_ENV", "local"),
			LogLevel:     os.Getenv("LOG_LEVEL"),
			StartTimeout: envDuration("RECOGNITION_START_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Driver:        envString("STORE_DRIVER", "memory"),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
			MariaDBDSN:    os.Getenv("MARIADB_DSN"),
			RedisAddrs:    envList("REDIS_ADDRS"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			KeyPrefix:     os.Getenv("STORE_KEY_PREFIX"),
			MaxOpenConns:  envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:  envInt("DATABASE_MAX_IDLE_CONNS", 2),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8080),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
			FrameStaleness: envDuration("WEB_FRAME_STALENESS", 2*time.Second),
		},
		Calibration: LoadCalibration(),
	}
}
