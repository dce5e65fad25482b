package commands

import (
	"errors"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrCancelActiveJobCommandIsNotConstructed = errors.New(
	"CancelActiveJobCommand must be created via NewCancelActiveJobCommand constructor",
)

// CancelActiveJobCommand aborts an order. Sugar over a transition to
// Cancelled; no distinction is made between operator-cancel and
// system-cancel.
type CancelActiveJobCommand struct {
	orderRef string
	note     string

	guard guard.ConstructorGuard
}

// NewCancelActiveJobCommand creates a validated cancellation command.
func NewCancelActiveJobCommand(orderRef, note string) (CancelActiveJobCommand, error) {
	if orderRef == "" {
		return CancelActiveJobCommand{}, errs.NewValueIsRequiredError("order reference")
	}

	return CancelActiveJobCommand{
		orderRef: orderRef,
		note:     note,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// OrderRef returns the caller-supplied order alias.
func (c *CancelActiveJobCommand) OrderRef() string { return c.orderRef }

// Note returns the optional cancellation note.
func (c *CancelActiveJobCommand) Note() string { return c.note }

// Validate ensures the command was created through the constructor.
func (c *CancelActiveJobCommand) Validate() error {
	return c.guard.Validate(ErrCancelActiveJobCommandIsNotConstructed)
}

// asTransition lowers the cancellation to the underlying transition command.
func (c *CancelActiveJobCommand) asTransition() (TransitionOrderCommand, error) {
	return NewTransitionOrderCommand(c.orderRef, order.Cancelled.String(), c.note)
}
