package config_test

import (
	"testing"

	"vitalsd/internal/config"
	"vitalsd/internal/ranges"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("http addr: got %s", cfg.HTTPAddr)
	}
	if cfg.Keyed.KeyPrefix != "patient_vitals" {
		t.Errorf("key prefix: got %s", cfg.Keyed.KeyPrefix)
	}
	if cfg.Archive.Table != "archive_objects" {
		t.Errorf("archive table: got %s", cfg.Archive.Table)
	}
	if cfg.Alerts.Topic != "medical-alerts" {
		t.Errorf("alert topic: got %s", cfg.Alerts.Topic)
	}

	want := ranges.Table{
		"heart_rate":        {Min: 60, Max: 100},
		"temperature":       {Min: 96.0, Max: 100.4},
		"oxygen_saturation": {Min: 95, Max: 100},
	}
	for name, r := range want {
		if cfg.Ranges[name] != r {
			t.Errorf("range %s: expected %+v, got %+v", name, r, cfg.Ranges[name])
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VITALSD_HTTP_ADDR", ":9090")
	t.Setenv("VITALSD_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("VITALSD_REDIS_DB", "2")
	t.Setenv("VITALSD_KAFKA_BROKERS", "b1:9092,b2:9092")

	cfg := config.Load()

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("http addr: got %s", cfg.HTTPAddr)
	}
	if cfg.Keyed.Addr != "redis.internal:6379" {
		t.Errorf("redis addr: got %s", cfg.Keyed.Addr)
	}
	if cfg.Keyed.DB != 2 {
		t.Errorf("redis db: got %d", cfg.Keyed.DB)
	}
	if len(cfg.Alerts.Brokers) != 2 || cfg.Alerts.Brokers[1] != "b2:9092" {
		t.Errorf("brokers: got %v", cfg.Alerts.Brokers)
	}
}

func TestLoadRangeOverrides(t *testing.T) {
	t.Setenv("VITALSD_RANGE_HEART_RATE", "50,110")
	t.Setenv("VITALSD_RANGE_RESPIRATORY_RATE", "12,20")
	t.Setenv("VITALSD_RANGE_TEMPERATURE", "garbage")

	cfg := config.Load()

	if got := cfg.Ranges["heart_rate"]; got != (ranges.Range{Min: 50, Max: 110}) {
		t.Errorf("heart_rate override: got %+v", got)
	}
	if got := cfg.Ranges["respiratory_rate"]; got != (ranges.Range{Min: 12, Max: 20}) {
		t.Errorf("new measurement not added: got %+v", got)
	}
	// Malformed override keeps the default.
	if got := cfg.Ranges["temperature"]; got != (ranges.Range{Min: 96.0, Max: 100.4}) {
		t.Errorf("malformed override should be ignored: got %+v", got)
	}
}
