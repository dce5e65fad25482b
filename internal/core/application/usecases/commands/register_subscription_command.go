package commands

import (
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/subscription"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrRegisterSubscriptionCommandIsNotConstructed = errors.New(
	"RegisterSubscriptionCommand must be created via NewRegisterSubscriptionCommand constructor",
)

// RegisterSubscriptionCommand registers a device's push endpoint for a user
// or an anonymous contact. Devices re-register the same endpoint whenever
// the browser rotates credentials.
type RegisterSubscriptionCommand struct {
	endpoint  string
	keys      subscription.Keys
	userID    *kernel.UUID
	contactID string

	guard guard.ConstructorGuard
}

// NewRegisterSubscriptionCommand creates a validated registration command.
// Exactly one of userID and contactID identifies the owner.
func NewRegisterSubscriptionCommand(
	endpoint string,
	keys subscription.Keys,
	userID *kernel.UUID,
	contactID string,
) (RegisterSubscriptionCommand, error) {
	if endpoint == "" {
		return RegisterSubscriptionCommand{}, errs.NewValueIsRequiredError("subscription endpoint")
	}
	if userID == nil && contactID == "" {
		return RegisterSubscriptionCommand{}, errs.NewValueIsRequiredError("subscription owner")
	}
	if userID != nil && contactID != "" {
		return RegisterSubscriptionCommand{}, errs.NewValueIsInvalidError(
			"subscription owner must be a user or a contact, not both")
	}

	return RegisterSubscriptionCommand{
		endpoint:  endpoint,
		keys:      keys,
		userID:    userID,
		contactID: contactID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Endpoint returns the push endpoint URL.
func (c *RegisterSubscriptionCommand) Endpoint() string { return c.endpoint }

// Keys returns the channel credentials.
func (c *RegisterSubscriptionCommand) Keys() subscription.Keys { return c.keys }

// UserID returns the owning user, nil for contact-owned registrations.
func (c *RegisterSubscriptionCommand) UserID() *kernel.UUID { return c.userID }

// ContactID returns the owning contact, empty for user-owned registrations.
func (c *RegisterSubscriptionCommand) ContactID() string { return c.contactID }

// Validate ensures the command was created through the constructor.
func (c *RegisterSubscriptionCommand) Validate() error {
	return c.guard.Validate(ErrRegisterSubscriptionCommandIsNotConstructed)
}
