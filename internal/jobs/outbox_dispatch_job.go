package jobs

import (
	"context"
	"log/slog"

	"logistics/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OutboxDispatchJob runs the outbox worker on a schedule. Each tick is one
// worker iteration: claim a batch of due entries, dispatch them, record
// outcomes and a heartbeat.
type OutboxDispatchJob struct {
	handler   commands.ProcessOutboxCommandHandler
	workerID  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOutboxDispatchJob creates the dispatch job. workerID distinguishes this
// instance in the heartbeat table when several replicas run the worker.
func NewOutboxDispatchJob(
	handler commands.ProcessOutboxCommandHandler,
	workerID string,
	batchSize int,
	logger *slog.Logger,
) *OutboxDispatchJob {
	return &OutboxDispatchJob{
		handler:   handler,
		workerID:  workerID,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "outbox_dispatch_job"),
	}
}

// Start begins the dispatch job, running every ten seconds.
//
// Ten seconds matches the retry policy's base delay: an entry scheduled for
// retry becomes due at most one tick after its next_retry_at. Concurrent
// replicas are safe because claiming skips rows another instance holds.
func (j *OutboxDispatchJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewProcessOutboxCommand(j.workerID, j.batchSize)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Outbox dispatch job misconfigured", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Outbox dispatch iteration failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Outbox dispatch job started (running every ten seconds)",
		"worker_id", j.workerID, "batch_size", j.batchSize)
	return nil
}

// Stop stops the dispatch job.
func (j *OutboxDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job stopped")
}
