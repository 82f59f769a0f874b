package record

import (
	"time"

	"vitalsd/internal/models"
)

// idTimeLayout formats the ingestion instant at second precision for
// reading-id derivation.
const idTimeLayout = "20060102150405"

// Builder derives reading identities and assembles canonical records.
// The clock is injectable so id derivation is deterministic in tests.
type Builder struct {
	now func() time.Time
}

// NewBuilder returns a builder using the wall clock.
func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// NewBuilderWithClock returns a builder using the given clock.
func NewBuilderWithClock(now func() time.Time) *Builder {
	return &Builder{now: now}
}

// NewID derives the reading identity for a patient at the given
// instant: "<patient_id>-YYYYMMDDHHMMSS" in UTC. Two readings for the
// same patient within the same second share an id and the later keyed
// write wins.
func NewID(patientID string, at time.Time) string {
	return patientID + "-" + at.UTC().Format(idTimeLayout)
}

// Build assembles the canonical StoredRecord for a reading. It signals
// MissingFieldError when patient_id or vitals is absent; all other
// fields are optional with defaults. The reading timestamp defaults to
// the ingestion-time UTC instant when the client omitted it.
func (b *Builder) Build(r *models.Reading) (*models.StoredRecord, error) {
	if r.PatientID == "" {
		return nil, &models.MissingFieldError{Field: "patient_id"}
	}
	if r.Vitals == nil {
		return nil, &models.MissingFieldError{Field: "vitals"}
	}

	ingestedAt := b.now().UTC()

	timestamp := r.Timestamp
	if timestamp == "" {
		timestamp = ingestedAt.Format(time.RFC3339)
	}

	vitals, err := models.NormalizeVitals(r.Vitals)
	if err != nil {
		return nil, &models.MalformedPayloadError{Err: err}
	}

	return &models.StoredRecord{
		ReadingID: NewID(r.PatientID, ingestedAt),
		PatientID: r.PatientID,
		Timestamp: timestamp,
		Vitals:    vitals,
		Location:  r.Location,
	}, nil
}
