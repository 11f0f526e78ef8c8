package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadCalibration_Defaults(t *testing.T) {
	for _, key := range []string{"FACE_DISPLAY_THRESHOLD", "FACE_MARK_THRESHOLD", "FACE_MAX_DISTANCE", "FACE_COOLDOWN_MS", "FACE_NOTICE_MS"} {
		os.Unsetenv(key)
	}

	cal := LoadCalibration()

	if cal.DisplayThreshold != 60 {
		t.Errorf("expected display threshold 60, got %d", cal.DisplayThreshold)
	}
	if cal.MarkThreshold != 75 {
		t.Errorf("expected mark threshold 75, got %d", cal.MarkThreshold)
	}
	if cal.MaxDistance != 500 {
		t.Errorf("expected max distance 500, got %f", cal.MaxDistance)
	}
	if cal.Cooldown() != 5*time.Second {
		t.Errorf("expected cooldown 5s, got %v", cal.Cooldown())
	}
	if cal.Notice() != 3*time.Second {
		t.Errorf("expected notice 3s, got %v", cal.Notice())
	}
}

func TestLoadCalibration_Overrides(t *testing.T) {
	t.Setenv("FACE_DISPLAY_THRESHOLD", "55")
	t.Setenv("FACE_MARK_THRESHOLD", "80")
	t.Setenv("FACE_MAX_DISTANCE", "1.25")
	t.Setenv("FACE_COOLDOWN_MS", "10000")

	cal := LoadCalibration()

	if cal.DisplayThreshold != 55 {
		t.Errorf("expected display threshold 55, got %d", cal.DisplayThreshold)
	}
	if cal.MarkThreshold != 80 {
		t.Errorf("expected mark threshold 80, got %d", cal.MarkThreshold)
	}
	if cal.MaxDistance != 1.25 {
		t.Errorf("expected max distance 1.25, got %f", cal.MaxDistance)
	}
	if cal.Cooldown() != 10*time.Second {
		t.Errorf("expected cooldown 10s, got %v", cal.Cooldown())
	}
}

func TestLoadCalibration_InvalidOverrides(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric threshold", "FACE_MARK_THRESHOLD", "high"},
		{"negative threshold", "FACE_MARK_THRESHOLD", "-5"},
		{"zero distance", "FACE_MAX_DISTANCE", "0"},
		{"negative distance", "FACE_MAX_DISTANCE", "-500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cal := LoadCalibration()

			if cal.MarkThreshold != 75 {
				t.Errorf("expected default mark threshold 75, got %d", cal.MarkThreshold)
			}
			if cal.MaxDistance != 500 {
				t.Errorf("expected default max distance 500, got %f", cal.MaxDistance)
			}
		})
	}
}

func TestLoad_StoreDefaults(t *testing.T) {
	os.Unsetenv("STORE_DRIVER")
	os.Unsetenv("REDIS_ADDRS")

	cfg := Load()

	if cfg.Store.Driver != "memory" {
		t.Errorf("expected default driver 'memory', got '%s'", cfg.Store.Driver)
	}
	if len(cfg.Store.RedisAddrs) != 0 {
		t.Errorf("expected no redis addrs, got %v", cfg.Store.RedisAddrs)
	}
	if cfg.Store.MaxOpenConns != 10 {
		t.Errorf("expected max open conns 10, got %d", cfg.Store.MaxOpenConns)
	}
}

func TestLoad_RedisAddrs(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_ADDRS", "redis-a:6379, redis-b:6379,,")

	cfg := Load()

	if cfg.Store.Driver != "redis" {
		t.Errorf("expected driver 'redis', got '%s'", cfg.Store.Driver)
	}
	if len(cfg.Store.RedisAddrs) != 2 {
		t.Fatalf("expected 2 addrs, got %v", cfg.Store.RedisAddrs)
	}
	if cfg.Store.RedisAddrs[1] != "redis-b:6379" {
		t.Errorf("expected trimmed addr 'redis-b:6379', got '%s'", cfg.Store.RedisAddrs[1])
	}
}

func TestLoad_WebConfig(t *testing.T) {
	t.Setenv("WEB_HOST", "127.0.0.1")
	t.Setenv("WEB_PORT", "9090")

	cfg := Load()

	if cfg.Web.Host != "127.0.0.1" {
		t.Errorf("expected host '127.0.0.1', got '%s'", cfg.Web.Host)
	}
	if cfg.Web.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Web.Port)
	}
}

func TestLoad_StartTimeout(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"", 10 * time.Second},
		{"2s", 2 * time.Second},
		{"garbage", 10 * time.Second},
		{"-1s", 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("RECOGNITION_START_TIMEOUT", tt.value)

			cfg := Load()

			if cfg.App.StartTimeout != tt.expected {
				t.Errorf("expected start timeout %v, got %v", tt.expected, cfg.App.StartTimeout)
			}
		})
	}
}
