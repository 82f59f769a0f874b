package alerts_test

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"vitalsd/internal/alerts"
	"vitalsd/internal/config"
	"vitalsd/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

func TestFormatMessage(t *testing.T) {
	ev := alerts.Event{
		PatientID: "P1",
		ReadingID: "P1-20240101120000",
		Location:  "icu",
		Abnormal:  map[string]json.Number{"heart_rate": "150"},
	}

	msg := alerts.FormatMessage(ev)

	if !strings.HasPrefix(msg, "CRITICAL ALERT for patient P1 in icu!") {
		t.Errorf("unexpected message prefix: %q", msg)
	}
	if !strings.Contains(msg, `"heart_rate":150`) {
		t.Errorf("abnormal values missing from message: %q", msg)
	}
}

func TestSubject(t *testing.T) {
	if alerts.Subject != "Patient Vital Signs Alert" {
		t.Errorf("unexpected subject: %q", alerts.Subject)
	}
}

func TestNewKafkaDispatcherValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AlertsConfig
	}{
		{"no brokers", config.AlertsConfig{Topic: "medical-alerts"}},
		{"no topic", config.AlertsConfig{Brokers: []string{"localhost:9092"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := alerts.NewKafkaDispatcher(tt.cfg); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}

func TestDispatchEmptyAbnormalSetIsNoop(t *testing.T) {
	d, err := alerts.NewKafkaDispatcher(config.AlertsConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "medical-alerts",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer d.Close()

	// No broker is running; an empty event must return before any
	// network activity.
	if err := d.Dispatch(context.Background(), alerts.Event{PatientID: "P1"}); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}

	stats := d.Stats()
	if stats.Published != 0 || stats.Failed != 0 {
		t.Errorf("no-op should not count as publish: %+v", stats)
	}
}

func TestDispatchAfterClose(t *testing.T) {
	d, err := alerts.NewKafkaDispatcher(config.AlertsConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "medical-alerts",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ev := alerts.Event{
		PatientID: "P1",
		Abnormal:  map[string]json.Number{"heart_rate": "150"},
	}
	if err := d.Dispatch(context.Background(), ev); err != alerts.ErrDispatcherClosed {
		t.Errorf("expected ErrDispatcherClosed, got %v", err)
	}
}
