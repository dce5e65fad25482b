package commands

import (
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers a new delivery order in Pending status.
// Creation is the only transition that announces itself to all active staff:
// a role-targeted outbox row is written in the same transaction.
type CreateOrderCommand struct {
	orderID   kernel.UUID
	code      string
	sequence  int64
	contactID string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a validated command to register an order.
//
// Parameters:
//   - orderID: canonical identifier for the new order
//   - code: short human-facing code (required)
//   - sequence: legacy sequential alias (must be positive)
//   - contactID: customer contact to notify, may be empty for walk-in orders
func NewCreateOrderCommand(orderID kernel.UUID, code string, sequence int64, contactID string) (CreateOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CreateOrderCommand{}, err
	}
	if code == "" {
		return CreateOrderCommand{}, errs.NewValueIsRequiredError("code")
	}
	if sequence <= 0 {
		return CreateOrderCommand{}, errs.NewValueIsInvalidError("sequence")
	}

	return CreateOrderCommand{
		orderID:   orderID,
		code:      code,
		sequence:  sequence,
		contactID: contactID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the identifier for the new order.
func (c *CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Code returns the short human-facing code.
func (c *CreateOrderCommand) Code() string { return c.code }

// Sequence returns the legacy sequential alias.
func (c *CreateOrderCommand) Sequence() int64 { return c.sequence }

// ContactID returns the customer contact reference.
func (c *CreateOrderCommand) ContactID() string { return c.contactID }

// Validate ensures the command was created through the constructor.
func (c *CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}
