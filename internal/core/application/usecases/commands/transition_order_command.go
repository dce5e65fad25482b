package commands

import (
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand requests a status change for an order.
//
// Free-form status input is normalized to the canonical enum here, at the
// system boundary; handlers and the domain only ever see canonical statuses.
type TransitionOrderCommand struct {
	orderRef string
	next     order.Status
	note     string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a validated transition command.
// rawStatus accepts the canonical wire tokens plus the legacy synonym
// vocabulary; unrecognizable input is rejected as an invalid transition.
func NewTransitionOrderCommand(orderRef, rawStatus, note string) (TransitionOrderCommand, error) {
	if orderRef == "" {
		return TransitionOrderCommand{}, errs.NewValueIsRequiredError("order reference")
	}

	next := order.ParseStatus(rawStatus)
	if next == order.Unknown {
		return TransitionOrderCommand{}, fmt.Errorf("%w: unrecognized status %q",
			order.ErrInvalidTransition, rawStatus)
	}

	return TransitionOrderCommand{
		orderRef: orderRef,
		next:     next,
		note:     note,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// OrderRef returns the caller-supplied order alias.
func (c *TransitionOrderCommand) OrderRef() string { return c.orderRef }

// NextStatus returns the normalized requested status.
func (c *TransitionOrderCommand) NextStatus() order.Status { return c.next }

// Note returns the optional tracking note.
func (c *TransitionOrderCommand) Note() string { return c.note }

// Validate ensures the command was created through the constructor.
func (c *TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}
