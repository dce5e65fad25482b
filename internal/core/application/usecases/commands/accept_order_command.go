package commands

import (
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand assigns a pending order to a field collaborator.
//
// The order reference may be any accepted alias (primary id, legacy sequence
// id, or short code); the handler normalizes it to the canonical id once at
// the boundary before any persistence call.
type AcceptOrderCommand struct {
	orderRef       string
	collaboratorID kernel.UUID
	price          *float64

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand creates a validated acceptance command.
// The price is optional; when present it is recorded at acceptance time.
func NewAcceptOrderCommand(orderRef string, collaboratorID kernel.UUID, price *float64) (AcceptOrderCommand, error) {
	if orderRef == "" {
		return AcceptOrderCommand{}, errs.NewValueIsRequiredError("order reference")
	}
	if err := collaboratorID.Validate(); err != nil {
		return AcceptOrderCommand{}, err
	}
	if price != nil && *price <= 0 {
		return AcceptOrderCommand{}, errs.NewValueIsInvalidError("price")
	}

	return AcceptOrderCommand{
		orderRef:       orderRef,
		collaboratorID: collaboratorID,
		price:          price,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// OrderRef returns the caller-supplied order alias.
func (c *AcceptOrderCommand) OrderRef() string { return c.orderRef }

// CollaboratorID returns the accepting collaborator.
func (c *AcceptOrderCommand) CollaboratorID() kernel.UUID { return c.collaboratorID }

// Price returns the optional agreed price.
func (c *AcceptOrderCommand) Price() *float64 { return c.price }

// Validate ensures the command was created through the constructor.
func (c *AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}
