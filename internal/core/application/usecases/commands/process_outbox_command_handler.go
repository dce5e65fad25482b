package commands

import (
	"context"
	"log/slog"
	"time"

	"logistics/internal/core/domain/model/outbox"
	"logistics/internal/core/ports"
)

// NotificationDispatcher resolves an outbox entry's logical target into
// concrete recipients and performs the channel sends.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, entry *outbox.Entry) ports.DispatchReport
}

// ProcessOutboxCommandHandler runs one worker iteration over the outbox.
//
// Claiming happens in its own short transaction inside the repository;
// dispatch I/O runs outside any transaction so slow receivers cannot hold
// row locks. Entries that cannot be claimed here are being worked by
// another instance. A heartbeat is recorded every iteration, including
// when the batch comes back empty.
type ProcessOutboxCommandHandler struct {
	outboxRepo ports.OutboxRepository
	dispatcher NotificationDispatcher
	heartbeats ports.HeartbeatRecorder
	policy     outbox.RetryPolicy
	logger     *slog.Logger
}

// NewProcessOutboxCommandHandler creates a handler for outbox worker iterations.
func NewProcessOutboxCommandHandler(
	outboxRepo ports.OutboxRepository,
	dispatcher NotificationDispatcher,
	heartbeats ports.HeartbeatRecorder,
	policy outbox.RetryPolicy,
	logger *slog.Logger,
) ProcessOutboxCommandHandler {
	return ProcessOutboxCommandHandler{
		outboxRepo: outboxRepo,
		dispatcher: dispatcher,
		heartbeats: heartbeats,
		policy:     policy,
		logger:     logger.With("component", "ProcessOutboxCommandHandler"),
	}
}

// Handle processes one outbox iteration.
func (h ProcessOutboxCommandHandler) Handle(ctx context.Context, command ProcessOutboxCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := time.Now()

	batch, err := h.outboxRepo.ClaimDueBatch(ctx, now, command.BatchSize())
	if err != nil {
		return err
	}

	processed := 0

	for _, entry := range batch {
		if err = h.processEntry(ctx, entry); err != nil {
			h.logger.Error("record outcome failed",
				"entry_id", entry.ID().String(),
				"error", err)
			continue
		}
		processed++
	}

	if err = h.heartbeats.RecordHeartbeat(ctx, command.WorkerID(), time.Now(), len(batch), processed); err != nil {
		h.logger.Error("heartbeat failed", "worker_id", command.WorkerID(), "error", err)
	}

	return nil
}

func (h ProcessOutboxCommandHandler) processEntry(ctx context.Context, entry *outbox.Entry) error {
	report := h.dispatcher.Dispatch(ctx, entry)

	switch {
	case report.Delivered > 0:
		// At-least-once: a single successful channel marks the entry sent.
		if err := entry.MarkSent(); err != nil {
			return err
		}
	case report.AllFailuresPermanent():
		if err := entry.RecordFailure(report.LastErr, true, time.Now(), h.policy); err != nil {
			return err
		}
		h.logger.Warn("notification failed permanently",
			"entry_id", entry.ID().String(),
			"attempts", entry.Attempts(),
			"cause", report.LastErr)
	default:
		if err := entry.RecordFailure(report.LastErr, false, time.Now(), h.policy); err != nil {
			return err
		}
		if entry.ProcessingStatus() == outbox.StatusFailed {
			h.logger.Warn("notification retry budget exhausted",
				"entry_id", entry.ID().String(),
				"attempts", entry.Attempts(),
				"cause", report.LastErr)
		} else {
			h.logger.Info("notification deferred",
				"entry_id", entry.ID().String(),
				"attempts", entry.Attempts(),
				"next_retry_at", entry.NextRetryAt(),
				"cause", report.LastErr)
		}
	}

	return h.outboxRepo.RecordOutcome(ctx, entry)
}
