package store

import "context"

// Keyed is the fast lookup store, addressed by reading id. It is the
// record of truth and is always written before the archive.
type Keyed interface {
	Put(ctx context.Context, readingID string, record []byte) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// Archive is the durable long-term store, addressed by object path.
type Archive interface {
	Put(ctx context.Context, objectKey string, body []byte) error
	HealthCheck(ctx context.Context) error
	Close() error
}
