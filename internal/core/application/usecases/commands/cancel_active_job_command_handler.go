package commands

import (
	"context"
)

// CancelActiveJobCommandHandler aborts orders by delegating to the
// transition handler with a Cancelled target status.
type CancelActiveJobCommandHandler struct {
	transitions TransitionOrderCommandHandler
}

// NewCancelActiveJobCommandHandler creates a handler for cancellations.
func NewCancelActiveJobCommandHandler(transitions TransitionOrderCommandHandler) CancelActiveJobCommandHandler {
	return CancelActiveJobCommandHandler{transitions: transitions}
}

// Handle processes the cancellation command. Cancellation follows the same
// rules as any transition: allowed from any non-terminal state, rejected on
// terminal orders.
func (h CancelActiveJobCommandHandler) Handle(ctx context.Context, command CancelActiveJobCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	transition, err := command.asTransition()
	if err != nil {
		return err
	}

	return h.transitions.Handle(ctx, transition)
}
