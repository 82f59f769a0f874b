package alerts

import (
	"context"
	"encoding/json"
	"fmt"
)

// Subject is the fixed subject line attached to every notification.
const Subject = "Patient Vital Signs Alert"

// Event carries one alert for the duration of dispatch. It is never
// persisted.
type Event struct {
	PatientID string
	ReadingID string
	Location  string
	// Abnormal maps each out-of-range measurement to its observed
	// value as received.
	Abnormal map[string]json.Number
}

// Dispatcher publishes alert notifications to the configured channel.
// Dispatch is a no-op for events with an empty abnormal set.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// FormatMessage renders the human-readable alert text naming the
// patient, location, and abnormal measurement/value pairs.
func FormatMessage(ev Event) string {
	values, err := json.Marshal(ev.Abnormal)
	if err != nil {
		values = []byte("{}")
	}
	return fmt.Sprintf("CRITICAL ALERT for patient %s in %s!\nAbnormal values: %s",
		ev.PatientID, ev.Location, values)
}
