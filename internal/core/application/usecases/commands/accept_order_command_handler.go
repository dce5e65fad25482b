package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/outbox"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

var (
	// ErrOrderNoLongerAvailable is returned to the loser of an acceptance
	// race: the conditional write found the order already taken. The caller
	// must not retry blindly.
	ErrOrderNoLongerAvailable = fmt.Errorf("order is no longer available: %w", ports.ErrConcurrencyConflict)

	// ErrCollaboratorBusy is returned when the collaborator already holds a
	// non-terminal order. One active job per collaborator.
	ErrCollaboratorBusy = errors.New("collaborator already has an active job")
)

// AcceptOrderCommandHandler orchestrates order acceptance.
//
// The one-active-job invariant is checked twice: a point query up front for a
// friendly synchronous rejection, and again inside the conditional update
// that commits the acceptance, which closes the race of one collaborator
// accepting two orders from two in-flight requests.
//
// Example:
//
//	cmd, _ := NewAcceptOrderCommand("A-1042", collaboratorID, nil)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrCollaboratorBusy):
//	    // reject: finish the current job first
//	case errors.Is(err, ErrOrderNoLongerAvailable):
//	    // someone else won the race; re-read and pick another order
//	}
type AcceptOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAcceptOrderCommandHandler creates a handler for order acceptance.
func NewAcceptOrderCommandHandler(uowFactory OrderUoWFactory) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{uowFactory: uowFactory}
}

// Handle processes the acceptance command.
// On success the order is Accepted, a tracking entry is appended, and outbox
// rows for the collaborator (confirmation) and the customer (status update)
// are committed in the same transaction.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, command AcceptOrderCommand) error {
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

	_, err = ordersRepo.FindActiveByCollaborator(ctx, command.CollaboratorID())
	if err == nil {
		return ErrCollaboratorBusy
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	aggregate, err := ordersRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	now := time.Now()
	if err = aggregate.Accept(command.CollaboratorID(), command.Price(), now); err != nil {
		return err
	}

	if err = ordersRepo.AcceptPending(ctx, aggregate); err != nil {
		if errors.Is(err, ports.ErrConcurrencyConflict) {
			return ErrOrderNoLongerAvailable
		}
		return err
	}

	entries := make([]*outbox.Entry, 0, 2)

	confirmation, err := outbox.NewEntry(
		kernel.NewUUID(),
		aggregate.ID(),
		aggregate.Status(),
		outbox.UserTarget(command.CollaboratorID()),
		acceptanceConfirmationPayload(aggregate),
		now,
	)
	if err != nil {
		return err
	}
	entries = append(entries, confirmation)

	if aggregate.ContactID() != "" {
		update, entryErr := outbox.NewEntry(
			kernel.NewUUID(),
			aggregate.ID(),
			aggregate.Status(),
			outbox.ContactTarget(aggregate.ContactID()),
			statusUpdatePayload(aggregate, aggregate.Status()),
			now,
		)
		if entryErr != nil {
			return entryErr
		}
		entries = append(entries, update)
	}

	if err = uow.OutboxRepository().Enqueue(ctx, entries...); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
