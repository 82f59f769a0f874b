package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"vitalsd/internal/alerts"
	"vitalsd/internal/logger"
	"vitalsd/internal/metrics"
	"vitalsd/internal/models"
	"vitalsd/internal/ranges"
	"vitalsd/internal/record"
	"vitalsd/internal/store"
)

// Result is the successful outcome of one ingestion.
type Result struct {
	ReadingID string
}

// Config holds the orchestrator's collaborators. All of them are
// constructed once at startup and injected here.
type Config struct {
	Keyed      store.Keyed
	Archive    store.Archive
	Dispatcher alerts.Dispatcher
	Ranges     ranges.Table
	Builder    *record.Builder
}

// Orchestrator drives one reading through the pipeline:
// parse -> build record -> keyed write -> archive write -> evaluate ->
// dispatch. The first error at any stage aborts the remaining stages.
// Each invocation is independent; the orchestrator holds no per-request
// state.
type Orchestrator struct {
	keyed      store.Keyed
	archive    store.Archive
	dispatcher alerts.Dispatcher
	ranges     ranges.Table
	builder    *record.Builder
	log        zerolog.Logger
}

// New constructs an Orchestrator with the given collaborators.
func New(cfg Config) *Orchestrator {
	builder := cfg.Builder
	if builder == nil {
		builder = record.NewBuilder()
	}
	return &Orchestrator{
		keyed:      cfg.Keyed,
		archive:    cfg.Archive,
		dispatcher: cfg.Dispatcher,
		ranges:     cfg.Ranges,
		builder:    builder,
		log:        logger.WithComponent("pipeline"),
	}
}

// Ingest processes one inbound reading body end to end and returns the
// derived reading id, or the first stage error encountered.
func (o *Orchestrator) Ingest(ctx context.Context, body []byte) (*Result, error) {
	reading, err := models.ParseReading(body)
	if err != nil {
		return nil, o.fail("parse", err)
	}

	rec, err := o.builder.Build(reading)
	if err != nil {
		return nil, o.fail("build", err)
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, o.fail("build", fmt.Errorf("serialize record: %w", err))
	}

	log := o.log.With().
		Str("reading_id", rec.ReadingID).
		Str("patient_id", rec.PatientID).
		Logger()

	// Keyed store first: a later archive failure still leaves one
	// durable copy in the record of truth.
	if err := o.keyed.Put(ctx, rec.ReadingID, payload); err != nil {
		return nil, o.fail("keyed_write", &PersistenceError{Store: "keyed", Err: err})
	}

	if err := o.archive.Put(ctx, archiveKey(rec.ReadingID), payload); err != nil {
		return nil, o.fail("archive_write", &PersistenceError{Store: "archive", Err: err})
	}

	// Evaluation inspects the raw inbound vitals, not the normalized
	// stored copy.
	abnormal := o.ranges.Evaluate(reading.Vitals)
	if len(abnormal) > 0 {
		for name := range abnormal {
			metrics.AbnormalVitalsTotal.WithLabelValues(name).Inc()
		}
		log.Warn().
			Int("abnormal_count", len(abnormal)).
			Msg("abnormal vitals detected")

		ev := alerts.Event{
			PatientID: rec.PatientID,
			ReadingID: rec.ReadingID,
			Location:  rec.Location,
			Abnormal:  abnormal,
		}
		if err := o.dispatcher.Dispatch(ctx, ev); err != nil {
			return nil, o.fail("dispatch", &DispatchError{Err: err})
		}
	}

	metrics.ReadingsIngestedTotal.WithLabelValues("recorded").Inc()
	log.Info().Msg("reading recorded")

	return &Result{ReadingID: rec.ReadingID}, nil
}

// fail records a stage failure and returns the error unchanged.
func (o *Orchestrator) fail(stage string, err error) error {
	metrics.ReadingsIngestedTotal.WithLabelValues("failed").Inc()
	metrics.IngestFailuresTotal.WithLabelValues(stage).Inc()
	o.log.Error().Err(err).Str("stage", stage).Msg("ingestion failed")
	return err
}

// archiveKey derives the archive object path for a reading.
func archiveKey(readingID string) string {
	return "archive/" + readingID + ".json"
}
