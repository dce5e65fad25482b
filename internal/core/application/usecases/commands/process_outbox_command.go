package commands

import (
	"errors"

	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrProcessOutboxCommandIsNotConstructed = errors.New(
	"ProcessOutboxCommand must be created via NewProcessOutboxCommand constructor",
)

// ProcessOutboxCommand triggers one outbox worker iteration: claim a batch
// of due entries, dispatch each, record outcomes, and emit a heartbeat.
type ProcessOutboxCommand struct {
	workerID  string
	batchSize int

	guard guard.ConstructorGuard
}

// NewProcessOutboxCommand creates a validated worker iteration command.
// workerID identifies the worker instance in heartbeat records.
func NewProcessOutboxCommand(workerID string, batchSize int) (ProcessOutboxCommand, error) {
	if workerID == "" {
		return ProcessOutboxCommand{}, errs.NewValueIsRequiredError("worker id")
	}
	if batchSize <= 0 {
		return ProcessOutboxCommand{}, errs.NewValueIsInvalidError("batch size")
	}

	return ProcessOutboxCommand{
		workerID:  workerID,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// WorkerID returns the worker instance identifier.
func (c *ProcessOutboxCommand) WorkerID() string { return c.workerID }

// BatchSize returns the claim limit for this iteration.
func (c *ProcessOutboxCommand) BatchSize() int { return c.batchSize }

// Validate ensures the command was created through the constructor.
func (c *ProcessOutboxCommand) Validate() error {
	return c.guard.Validate(ErrProcessOutboxCommandIsNotConstructed)
}
