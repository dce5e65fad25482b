package commands

import (
	"context"
)

// SetOrderAmountCommandHandler records prices on non-terminal orders.
type SetOrderAmountCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewSetOrderAmountCommandHandler creates a handler for amount updates.
func NewSetOrderAmountCommandHandler(uowFactory OrderUoWFactory) SetOrderAmountCommandHandler {
	return SetOrderAmountCommandHandler{uowFactory: uowFactory}
}

// Handle processes the amount command. The write is conditional on the
// status observed at read time, so a concurrent transition to a terminal
// state cannot slip a price change past the immutability rule.
func (h SetOrderAmountCommandHandler) Handle(ctx context.Context, command SetOrderAmountCommand) error {
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
	if err = aggregate.SetAmount(command.Amount(), command.Method()); err != nil {
		return err
	}

	if err = ordersRepo.UpdateIf(ctx, aggregate, expectedStatus); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
