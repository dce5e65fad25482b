package ports

import (
	"context"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/outbox"
	"logistics/internal/core/domain/model/subscription"
)

// SubscriptionRepository stores registered push endpoints. The registration
// path adds rows; the dispatch path deletes rows whose endpoint a send
// reported permanently gone.
type SubscriptionRepository interface {
	// Add registers a subscription. Re-registering an existing endpoint
	// replaces its credentials.
	Add(ctx context.Context, sub subscription.Subscription) error

	// FindByOwner returns all subscriptions registered for a user or
	// contact target. Role targets must be resolved to identities first.
	FindByOwner(ctx context.Context, target outbox.Target) ([]subscription.Subscription, error)

	// Delete removes a subscription by endpoint. Deleting an unknown
	// endpoint is not an error.
	Delete(ctx context.Context, endpoint string) error
}

// CollaboratorDirectory resolves role targets and email recipients.
// Backed by the collaborators table; fan-out is recomputed at send time so
// staff added after an entry was enqueued still receive it.
type CollaboratorDirectory interface {
	// ActiveStaffIDs returns the ids of all collaborators currently active
	// in the given role.
	ActiveStaffIDs(ctx context.Context, role string) ([]kernel.UUID, error)

	// EmailFor returns the email address registered for a user or contact
	// target, or ok=false when none is known.
	EmailFor(ctx context.Context, target outbox.Target) (string, bool, error)
}
