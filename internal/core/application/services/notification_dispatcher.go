package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"logistics/internal/core/domain/model/outbox"
	"logistics/internal/core/domain/model/subscription"
	"logistics/internal/core/ports"
)

// ErrNoRecipients is reported when a target resolves to zero destinations:
// no subscriptions, no email, or a role with no active holders. Such an
// entry cannot succeed on retry, so it counts as a permanent failure.
var ErrNoRecipients = errors.New("target resolved to no recipients")

// sendTimeout bounds every individual channel send. A slow receiver must
// not stall the rest of the batch.
const sendTimeout = 8 * time.Second

// NotificationDispatcher resolves an outbox entry's logical target into
// concrete destinations and delivers the payload over every channel.
//
// Resolution happens at send time, not enqueue time: devices registered and
// staff hired after the entry was written still receive it. Push endpoints
// that a send reports permanently gone are pruned so they are never tried
// again.
type NotificationDispatcher struct {
	subscriptions ports.SubscriptionRepository
	directory     ports.CollaboratorDirectory
	push          ports.PushGateway
	email         ports.EmailGateway
	logger        *slog.Logger
}

// NewNotificationDispatcher creates a dispatcher over the given channels.
func NewNotificationDispatcher(
	subscriptions ports.SubscriptionRepository,
	directory ports.CollaboratorDirectory,
	push ports.PushGateway,
	email ports.EmailGateway,
	logger *slog.Logger,
) NotificationDispatcher {
	return NotificationDispatcher{
		subscriptions: subscriptions,
		directory:     directory,
		push:          push,
		email:         email,
		logger:        logger.With("component", "NotificationDispatcher"),
	}
}

// Dispatch fans the entry out to every resolved destination and aggregates
// the per-destination outcomes. Resolution errors count as one transient
// failure so the entry is retried rather than lost.
func (d NotificationDispatcher) Dispatch(ctx context.Context, entry *outbox.Entry) ports.DispatchReport {
	var report ports.DispatchReport

	subs, emails, err := d.resolve(ctx, entry.Target())
	if err != nil {
		report.TransientFailures++
		report.LastErr = err.Error()
		return report
	}

	if len(subs) == 0 && len(emails) == 0 {
		report.PermanentFailures++
		report.LastErr = ErrNoRecipients.Error()
		return report
	}

	for _, sub := range subs {
		outcome := d.sendPush(ctx, sub, entry.Payload())
		d.tally(&report, outcome)

		if outcome.PermanentFailure {
			d.prune(ctx, sub)
		}
	}

	for _, to := range emails {
		d.tally(&report, d.sendEmail(ctx, to, entry.Payload()))
	}

	return report
}

// resolve expands the logical target into push subscriptions and email
// addresses. Role targets fan out over every active holder of the role.
func (d NotificationDispatcher) resolve(
	ctx context.Context,
	target outbox.Target,
) ([]subscription.Subscription, []string, error) {
	if target.Kind() != outbox.TargetRole {
		subs, err := d.subscriptions.FindByOwner(ctx, target)
		if err != nil {
			return nil, nil, err
		}

		var emails []string
		if addr, ok, emailErr := d.directory.EmailFor(ctx, target); emailErr != nil {
			return nil, nil, emailErr
		} else if ok {
			emails = append(emails, addr)
		}

		return subs, emails, nil
	}

	staff, err := d.directory.ActiveStaffIDs(ctx, target.Value())
	if err != nil {
		return nil, nil, err
	}

	var (
		subs   []subscription.Subscription
		emails []string
	)

	for _, id := range staff {
		member := outbox.UserTarget(id)

		memberSubs, findErr := d.subscriptions.FindByOwner(ctx, member)
		if findErr != nil {
			return nil, nil, findErr
		}
		subs = append(subs, memberSubs...)

		if addr, ok, emailErr := d.directory.EmailFor(ctx, member); emailErr != nil {
			return nil, nil, emailErr
		} else if ok {
			emails = append(emails, addr)
		}
	}

	return subs, emails, nil
}

func (d NotificationDispatcher) sendPush(
	ctx context.Context,
	sub subscription.Subscription,
	payload outbox.Payload,
) ports.DeliveryOutcome {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	return d.push.Send(sendCtx, sub, payload)
}

func (d NotificationDispatcher) sendEmail(
	ctx context.Context,
	to string,
	payload outbox.Payload,
) ports.DeliveryOutcome {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	return d.email.Send(sendCtx, to, payload)
}

func (d NotificationDispatcher) tally(report *ports.DispatchReport, outcome ports.DeliveryOutcome) {
	switch {
	case outcome.Success:
		report.Delivered++
	case outcome.PermanentFailure:
		report.PermanentFailures++
	default:
		report.TransientFailures++
	}

	if !outcome.Success && outcome.Err != nil {
		report.LastErr = outcome.Err.Error()
	}
}

// prune deletes a subscription whose endpoint the channel reported gone.
// Deletion failures are logged and swallowed; the endpoint will fail again
// next time and be retried then.
func (d NotificationDispatcher) prune(ctx context.Context, sub subscription.Subscription) {
	if err := d.subscriptions.Delete(ctx, sub.Endpoint()); err != nil {
		d.logger.Error("failed to prune dead subscription",
			"endpoint", sub.Endpoint(),
			"error", err)
		return
	}

	d.logger.Info("pruned dead subscription", "endpoint", sub.Endpoint())
}
