package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/outbox"
)

// TransitionOrderCommandHandler orchestrates a requested status change.
//
// The transition is validated against the order's derived phase (the last
// non-delay tracking entry), persisted with a conditional update keyed on
// the previously read status, and announced through outbox rows committed in
// the same transaction. Validation failures are returned synchronously and
// perform no write; a concurrency conflict means someone else mutated the
// order first and the caller must re-read.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewTransitionOrderCommandHandler creates a handler for status transitions.
func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{uowFactory: uowFactory}
}

// Handle processes the transition command.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, command TransitionOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	orderID, err := ordersRepo.ResolveCanonicalID(ctx, command.OrderRef())
	if err != nil {
		return err
	}

	aggregate, err := ordersRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	expectedStatus := aggregate.Status()
	now := time.Now()

	if err = aggregate.TransitionTo(command.NextStatus(), command.Note(), now); err != nil {
		return err
	}

	if err = ordersRepo.UpdateIf(ctx, aggregate, expectedStatus); err != nil {
		return err
	}

	entries := make([]*outbox.Entry, 0, 2)

	if aggregate.ContactID() != "" {
		update, entryErr := outbox.NewEntry(
			kernel.NewUUID(),
			aggregate.ID(),
			command.NextStatus(),
			outbox.ContactTarget(aggregate.ContactID()),
			statusUpdatePayload(aggregate, command.NextStatus()),
			now,
		)
		if entryErr != nil {
			return entryErr
		}
		entries = append(entries, update)
	}

	if collaborator := aggregate.Collaborator(); collaborator != nil {
		update, entryErr := outbox.NewEntry(
			kernel.NewUUID(),
			aggregate.ID(),
			command.NextStatus(),
			outbox.UserTarget(*collaborator),
			statusUpdatePayload(aggregate, command.NextStatus()),
			now,
		)
		if entryErr != nil {
			return entryErr
		}
		entries = append(entries, update)
	}

	if len(entries) > 0 {
		if err = uow.OutboxRepository().Enqueue(ctx, entries...); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
