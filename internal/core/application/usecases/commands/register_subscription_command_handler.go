package commands

import (
	"context"

	"logistics/internal/core/domain/model/subscription"
)

// RegisterSubscriptionCommandHandler persists push endpoint registrations.
type RegisterSubscriptionCommandHandler struct {
	uowFactory UoWFactory
}

// NewRegisterSubscriptionCommandHandler creates a handler for subscription registrations.
func NewRegisterSubscriptionCommandHandler(uowFactory UoWFactory) RegisterSubscriptionCommandHandler {
	return RegisterSubscriptionCommandHandler{uowFactory: uowFactory}
}

// Handle processes the registration command. Re-registering an existing
// endpoint replaces its stored credentials.
func (h RegisterSubscriptionCommandHandler) Handle(ctx context.Context, command RegisterSubscriptionCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	var (
		sub subscription.Subscription
		err error
	)

	if userID := command.UserID(); userID != nil {
		sub, err = subscription.NewUserSubscription(command.Endpoint(), command.Keys(), *userID)
	} else {
		sub, err = subscription.NewContactSubscription(command.Endpoint(), command.Keys(), command.ContactID())
	}
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

	if err = uow.SubscriptionRepository().Add(ctx, sub); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
