package commands

import (
	"errors"

	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrSetOrderAmountCommandIsNotConstructed = errors.New(
	"SetOrderAmountCommand must be created via NewSetOrderAmountCommand constructor",
)

// SetOrderAmountCommand records the agreed price and payment method of an
// order. Plain bookkeeping outside the state machine: no tracking entry, no
// notification, rejected once the order is terminal.
type SetOrderAmountCommand struct {
	orderRef string
	amount   float64
	method   string

	guard guard.ConstructorGuard
}

// NewSetOrderAmountCommand creates a validated amount command.
func NewSetOrderAmountCommand(orderRef string, amount float64, method string) (SetOrderAmountCommand, error) {
	if orderRef == "" {
		return SetOrderAmountCommand{}, errs.NewValueIsRequiredError("order reference")
	}
	if amount <= 0 {
		return SetOrderAmountCommand{}, errs.NewValueIsInvalidError("amount")
	}

	return SetOrderAmountCommand{
		orderRef: orderRef,
		amount:   amount,
		method:   method,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// OrderRef returns the caller-supplied order alias.
func (c *SetOrderAmountCommand) OrderRef() string { return c.orderRef }

// Amount returns the agreed price.
func (c *SetOrderAmountCommand) Amount() float64 { return c.amount }

// Method returns the payment method.
func (c *SetOrderAmountCommand) Method() string { return c.method }

// Validate ensures the command was created through the constructor.
func (c *SetOrderAmountCommand) Validate() error {
	return c.guard.Validate(ErrSetOrderAmountCommandIsNotConstructed)
}
