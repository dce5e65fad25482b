package ports

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
)

// ErrConcurrencyConflict is returned by conditional writes when the row no
// longer matches the expected prior state (someone else mutated it between
// read and write). The caller must re-read and decide; the repository never
// retries silently.
var ErrConcurrencyConflict = errors.New("concurrent modification detected")

// OrderRepository defines the persistence contract for order aggregates.
// All mutations are conditional ("compare-and-swap" style) updates keyed on
// the expected prior state, never blind overwrites.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its canonical identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ResolveCanonicalID maps any accepted alias (primary id, legacy
	// sequence id, or short code) to the canonical order id in a single
	// boundary lookup. Returns errs.ObjectNotFoundError when no alias matches.
	ResolveCanonicalID(ctx context.Context, ref string) (kernel.UUID, error)

	// FindActiveByCollaborator returns the collaborator's current
	// non-terminal order, or errs.ObjectNotFoundError when they hold none.
	// This is the point-query pre-check for the one-active-job invariant.
	FindActiveByCollaborator(ctx context.Context, collaboratorID kernel.UUID) (*order.Order, error)

	// AcceptPending commits an acceptance conditionally: the write succeeds
	// only if the row is still pending with no assigned collaborator AND the
	// collaborator holds no other active order. The invariant is re-validated
	// inside the same conditional update, not only via the preceding read.
	// Returns ErrConcurrencyConflict when the condition no longer holds.
	AcceptPending(ctx context.Context, aggregate *order.Order) error

	// UpdateIf persists the aggregate only when the stored status still
	// equals expectedStatus. Returns ErrConcurrencyConflict otherwise.
	UpdateIf(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error
}
