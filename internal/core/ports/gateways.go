package ports

import (
	"context"

	"logistics/internal/core/domain/model/outbox"
	"logistics/internal/core/domain/model/subscription"
)

// DeliveryOutcome is the per-destination result of one channel send.
// PermanentFailure means the destination no longer exists (push endpoint
// gone, mailbox rejected for good); the dispatch path then prunes the
// subscription. Transient failures are eligible for outbox retry.
type DeliveryOutcome struct {
	Success          bool
	PermanentFailure bool
	Err              error
}

// DispatchReport aggregates the outcomes of delivering one outbox entry to
// every resolved destination. The worker derives the entry's next processing
// status from it: at least one delivery marks the entry sent, all-permanent
// failures mark it failed immediately, transient failures go through the
// retry budget.
type DispatchReport struct {
	Delivered         int
	TransientFailures int
	PermanentFailures int
	LastErr           string
}

// AllFailuresPermanent reports whether nothing was delivered and every
// failure was permanent; retrying such an entry cannot succeed.
func (r DispatchReport) AllFailuresPermanent() bool {
	return r.Delivered == 0 && r.TransientFailures == 0 && r.PermanentFailures > 0
}

// PushGateway sends the channel-agnostic payload to one push subscription.
// Implementations must bound each call with a timeout; a send must never
// block a worker iteration indefinitely.
type PushGateway interface {
	Send(ctx context.Context, sub subscription.Subscription, payload outbox.Payload) DeliveryOutcome
}

// EmailGateway sends the payload to one email recipient.
type EmailGateway interface {
	Send(ctx context.Context, to string, payload outbox.Payload) DeliveryOutcome
}
