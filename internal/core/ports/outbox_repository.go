package ports

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/outbox"
)

// OutboxRepository defines the persistence contract for notification outbox
// entries. Entries are written by the order mutation path inside the same
// transaction as the status change; afterwards only the worker mutates them.
type OutboxRepository interface {
	// Enqueue persists new pending entries.
	Enqueue(ctx context.Context, entries ...*outbox.Entry) error

	// ClaimDueBatch atomically claims up to limit pending entries whose
	// next_retry_at is due, flipping them to processing in the same
	// operation used for claiming. Two concurrent worker instances never
	// receive the same entry.
	ClaimDueBatch(ctx context.Context, now time.Time, limit int) ([]*outbox.Entry, error)

	// RecordOutcome persists the post-dispatch state of a claimed entry:
	// sent, failed, or pending again with a scheduled retry.
	RecordOutcome(ctx context.Context, entry *outbox.Entry) error
}

// HeartbeatRecorder persists a liveness record per worker iteration so
// stalled workers can be detected externally.
type HeartbeatRecorder interface {
	RecordHeartbeat(ctx context.Context, workerID string, at time.Time, claimed, processed int) error
}
