package alerts

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"vitalsd/internal/config"
	"vitalsd/internal/logger"
	"vitalsd/internal/metrics"
)

// Dispatcher errors
var (
	ErrDispatcherClosed = errors.New("dispatcher is closed")
)

const defaultRetryBackoff = 100 * time.Millisecond

// KafkaDispatcher publishes alerts to a single Kafka topic with sync
// writes and bounded retry.
type KafkaDispatcher struct {
	writer     *kafka.Writer
	maxRetries int
	closed     atomic.Bool

	published atomic.Uint64
	failed    atomic.Uint64
}

// NewKafkaDispatcher creates a dispatcher for the configured topic.
func NewKafkaDispatcher(cfg config.AlertsConfig) (*KafkaDispatcher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic is required")
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{}, // partition by patient
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
		Async:        false, // sync so delivery failure surfaces in the result
	}

	log := logger.WithComponent("alert_dispatcher")
	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("kafka alert dispatcher initialized")

	return &KafkaDispatcher{
		writer:     writer,
		maxRetries: maxRetries,
	}, nil
}

// Dispatch publishes one alert message. Events with no abnormal values
// are a no-op.
func (d *KafkaDispatcher) Dispatch(ctx context.Context, ev Event) error {
	if len(ev.Abnormal) == 0 {
		return nil
	}
	if d.closed.Load() {
		return ErrDispatcherClosed
	}

	msg := kafka.Message{
		Key:   []byte(ev.PatientID),
		Value: []byte(FormatMessage(ev)),
		Headers: []kafka.Header{
			{Key: "subject", Value: []byte(Subject)},
			{Key: "patient_id", Value: []byte(ev.PatientID)},
			{Key: "reading_id", Value: []byte(ev.ReadingID)},
		},
		Time: time.Now().UTC(),
	}

	if err := d.publishWithRetry(ctx, msg); err != nil {
		d.failed.Add(1)
		metrics.AlertsPublishedTotal.WithLabelValues("failed").Inc()
		return err
	}

	d.published.Add(1)
	metrics.AlertsPublishedTotal.WithLabelValues("success").Inc()
	return nil
}

// publishWithRetry publishes a single message with exponential backoff retry
func (d *KafkaDispatcher) publishWithRetry(ctx context.Context, msg kafka.Message) error {
	log := logger.WithComponent("alert_dispatcher")
	var lastErr error
	backoff := defaultRetryBackoff

	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			log.Warn().
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("retrying alert publish")

			metrics.AlertPublishRetries.Inc()

			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := d.writer.WriteMessages(ctx, msg)
		if err == nil {
			return nil
		}

		lastErr = err
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Msg("alert publish attempt failed")

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}

	log.Error().
		Err(lastErr).
		Int("max_retries", d.maxRetries+1).
		Msg("alert publish failed after all retries")

	return fmt.Errorf("failed after %d attempts: %w", d.maxRetries+1, lastErr)
}

// Stats returns dispatcher statistics
func (d *KafkaDispatcher) Stats() Stats {
	return Stats{
		Published: d.published.Load(),
		Failed:    d.failed.Load(),
	}
}

// Stats holds dispatcher metrics
type Stats struct {
	Published uint64
	Failed    uint64
}

// HealthCheck verifies the dispatcher can reach Kafka
func (d *KafkaDispatcher) HealthCheck(ctx context.Context) error {
	if d.closed.Load() {
		return ErrDispatcherClosed
	}
	_ = d.writer.Stats()
	return nil
}

// Close closes the underlying writer
func (d *KafkaDispatcher) Close() error {
	if d.closed.Swap(true) {
		return nil // already closed
	}
	return d.writer.Close()
}
