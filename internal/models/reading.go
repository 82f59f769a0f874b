package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultLocation is used when the inbound payload omits location.
const DefaultLocation = "unknown"

// Reading is one inbound set of vital-sign measurements for a patient.
// Vitals values stay as json.Number so the literal the client sent is
// preserved until normalization.
type Reading struct {
	PatientID string
	// Timestamp as supplied by the client, empty when absent. The
	// record builder fills in the ingestion instant for empty values.
	Timestamp string
	Vitals    map[string]json.Number
	Location  string
}

// StoredRecord is the canonical, immutable form persisted to both
// stores. Vitals are exact decimals; once written a record is never
// updated or deleted by this pipeline.
type StoredRecord struct {
	ReadingID string                     `json:"reading_id"`
	PatientID string                     `json:"patient_id"`
	Timestamp string                     `json:"timestamp"`
	Vitals    map[string]decimal.Decimal `json:"vitals"`
	Location  string                     `json:"location"`
}

// MalformedPayloadError reports a body that could not be decoded as a
// vitals reading.
type MalformedPayloadError struct {
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// MissingFieldError reports an absent mandatory field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// readingInput is the untrusted wire shape of a reading.
type readingInput struct {
	PatientID string                 `json:"patient_id"`
	Timestamp string                 `json:"timestamp"`
	Vitals    map[string]json.Number `json:"vitals"`
	Location  string                 `json:"location"`
}

// ParseReading decodes an inbound JSON body into a Reading, applying
// the documented defaults for optional fields. Mandatory-field checks
// happen later in the record builder; this step only rejects bodies
// that are not structurally a reading.
func ParseReading(body []byte) (*Reading, error) {
	var in readingInput
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, &MalformedPayloadError{Err: err}
	}

	location := in.Location
	if location == "" {
		location = DefaultLocation
	}

	return &Reading{
		PatientID: in.PatientID,
		Timestamp: in.Timestamp,
		Vitals:    in.Vitals,
		Location:  location,
	}, nil
}
