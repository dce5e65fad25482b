package outboxrepo

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/outbox"

	"gorm.io/gorm"
)

// staleClaimAfter is how long a claimed entry may sit in processing before
// it is considered abandoned by a crashed worker and becomes claimable again.
// Must exceed the longest plausible dispatch of one batch.
const staleClaimAfter = 5 * time.Minute

// GormOutboxRepository implements OutboxRepository and HeartbeatRecorder
// using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Enqueue persists new pending entries. Called inside the order mutation
// transaction so the status change and its notifications commit together.
func (r *GormOutboxRepository) Enqueue(ctx context.Context, entries ...*outbox.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}

		dto, err := fromDomain(entry)
		if err != nil {
			return err
		}
		dtos = append(dtos, dto)
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// ClaimDueBatch atomically claims up to limit due pending entries.
//
// The claim flips rows to processing inside a single statement: the subquery
// locks candidate rows with FOR UPDATE SKIP LOCKED, so a second worker
// instance running the same statement concurrently skips them instead of
// blocking or double-claiming. Oldest due entries are claimed first.
//
// Entries stuck in processing past staleClaimAfter are claimed too: a worker
// that crashed mid-batch must not strand its rows forever. Re-dispatching
// such an entry is the at-least-once semantics the channels already tolerate.
// Staleness is judged by claimed_at, stamped inside the claim itself, so an
// entry that was long overdue when claimed is still held by its worker for
// the full window.
func (r *GormOutboxRepository) ClaimDueBatch(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*outbox.Entry, error) {
	var dtos []EntryDTO

	result := r.db.WithContext(ctx).Raw(`
		UPDATE outbox_entries
		SET processing_status = ?, claimed_at = ?
		WHERE id IN (
			SELECT id
			FROM outbox_entries
			WHERE (processing_status = ? AND next_retry_at <= ?)
				OR (processing_status = ? AND claimed_at <= ?)
			ORDER BY next_retry_at
			LIMIT ?
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *
	`,
		outbox.StatusProcessing, now,
		outbox.StatusPending, now,
		outbox.StatusProcessing, now.Add(-staleClaimAfter),
		limit,
	).Scan(&dtos)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*outbox.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// RecordOutcome persists the post-dispatch state of a claimed entry.
func (r *GormOutboxRepository) RecordOutcome(ctx context.Context, entry *outbox.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(entry)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE outbox_entries
		SET processing_status = ?,
			attempts = ?,
			next_retry_at = ?,
			claimed_at = NULL,
			last_error = ?
		WHERE id = ?
	`, dto.ProcessingStatus, dto.Attempts, dto.NextRetryAt, dto.LastError, dto.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// RecordHeartbeat upserts the worker's liveness row. Written every iteration,
// batch or no batch, so a stalled worker is visible as a stale last_seen_at.
func (r *GormOutboxRepository) RecordHeartbeat(
	ctx context.Context,
	workerID string,
	at time.Time,
	claimed, processed int,
) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO worker_heartbeats (worker_id, last_seen_at, claimed, processed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (worker_id) DO UPDATE
		SET last_seen_at = EXCLUDED.last_seen_at,
			claimed = EXCLUDED.claimed,
			processed = EXCLUDED.processed
	`, workerID, at, claimed, processed).Error
}
