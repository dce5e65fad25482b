package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/outbox"
)

// CreateOrderCommandHandler registers new orders and announces them.
// The order row and the staff-targeted outbox row commit atomically, so the
// announcement is guaranteed to be dispatched once a worker picks it up.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order registration.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory}
}

// Handle processes the order creation command.
// Creates a Pending order with a seeded tracking entry and enqueues the
// order-created announcement for the staff role. Role fan-out happens at
// send time, not here.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := time.Now()
	newOrder, err := order.NewOrder(command.OrderID(), command.Code(), command.Sequence(), command.ContactID(), now)
	if err != nil {
		return err
	}

	announcement, err := outbox.NewEntry(
		kernel.NewUUID(),
		newOrder.ID(),
		order.Pending,
		outbox.RoleTarget(outbox.RoleStaff),
		orderCreatedPayload(newOrder),
		now,
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.OutboxRepository().Enqueue(ctx, announcement); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
