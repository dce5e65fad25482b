package outbox

import (
	"errors"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
)

var (
	// ErrEntryIsNotConstructed is returned when an Entry was not created via
	// NewEntry or RestoreEntry.
	ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry")

	// ErrEntryIsTerminal is returned when mutating an entry that already
	// reached Sent or Failed.
	ErrEntryIsTerminal = errors.New("outbox entry is in a terminal state")
)

// ProcessingStatus is the delivery lifecycle of an outbox entry.
// Entries move pending -> processing -> sent|failed; failed retryable
// attempts move back to pending with a scheduled next_retry_at.
type ProcessingStatus int

const (
	// UnknownProcessing catches uninitialized values.
	UnknownProcessing ProcessingStatus = iota

	// StatusPending means the entry is waiting to be claimed by a worker.
	StatusPending

	// StatusProcessing means a worker has claimed the entry; the flip to
	// this status happens atomically in the same operation used for claiming.
	StatusProcessing

	// StatusSent means at least one channel send succeeded. Terminal.
	StatusSent

	// StatusFailed means delivery was abandoned: attempts were exhausted or
	// every resolved destination failed permanently. Terminal.
	StatusFailed
)

// String returns the wire token of the processing status.
func (s ProcessingStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusSent:
		return "sent"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Validate checks the processing status is one of the four lifecycle values.
func (s ProcessingStatus) Validate() error {
	switch s {
	case StatusPending, StatusProcessing, StatusSent, StatusFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("processing status is invalid",
			fmt.Errorf("%d is not a valid processing status", s))
	}
}

// IsTerminal reports whether the entry admits no further processing.
func (s ProcessingStatus) IsTerminal() bool {
	return s == StatusSent || s == StatusFailed
}

// RetryPolicy bounds how often and how long a failed entry is retried.
type RetryPolicy struct {
	// MaxAttempts is the total number of delivery attempts before an entry
	// is marked failed for good.
	MaxAttempts int

	// BaseDelay is the backoff unit; attempt n waits min(BaseDelay*2^n, MaxDelay).
	BaseDelay time.Duration

	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns the production retry bounds: three attempts,
// 10s base delay, capped at 10 minutes.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Second,
		MaxDelay:    10 * time.Minute,
	}
}

// Delay computes the capped exponential backoff for the given attempt count.
func (p RetryPolicy) Delay(attempts int) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < attempts; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Entry is a durable notification intent: an order changed status and a
// logical target must hear about it. It records the channel-agnostic payload,
// not the rendered per-channel message; recipient fan-out happens at send
// time so devices registered after enqueueing are still reached.
//
// Entries are created by the order mutation path and afterwards mutated only
// by the outbox worker.
type Entry struct {
	id        kernel.UUID
	orderID   kernel.UUID
	newStatus order.Status
	target    Target
	payload   Payload

	processingStatus ProcessingStatus
	attempts         int
	nextRetryAt      time.Time
	lastError        string
	createdAt        time.Time

	isConstructed bool
}

// NewEntry creates a pending entry due for immediate delivery.
func NewEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	newStatus order.Status,
	target Target,
	payload Payload,
	now time.Time,
) (*Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := newStatus.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	return &Entry{
		id:               id,
		orderID:          orderID,
		newStatus:        newStatus,
		target:           target,
		payload:          payload,
		processingStatus: StatusPending,
		nextRetryAt:      now,
		createdAt:        now,
		isConstructed:    true,
	}, nil
}

// RestoreEntry reconstructs an Entry from persistence.
func RestoreEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	newStatus order.Status,
	target Target,
	payload Payload,
	processingStatus ProcessingStatus,
	attempts int,
	nextRetryAt time.Time,
	lastError string,
	createdAt time.Time,
) (*Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := processingStatus.Validate(); err != nil {
		return nil, err
	}

	return &Entry{
		id:               id,
		orderID:          orderID,
		newStatus:        newStatus,
		target:           target,
		payload:          payload,
		processingStatus: processingStatus,
		attempts:         attempts,
		nextRetryAt:      nextRetryAt,
		lastError:        lastError,
		createdAt:        createdAt,
		isConstructed:    true,
	}, nil
}

// Validate ensures the Entry was created through a constructor.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry identifier.
func (e *Entry) ID() kernel.UUID { return e.id }

// OrderID returns the order this notification is about.
func (e *Entry) OrderID() kernel.UUID { return e.orderID }

// NewStatus returns the order status the notification announces.
func (e *Entry) NewStatus() order.Status { return e.newStatus }

// Target returns the logical recipient of the notification.
func (e *Entry) Target() Target { return e.target }

// Payload returns the channel-agnostic notification content.
func (e *Entry) Payload() Payload { return e.payload }

// ProcessingStatus returns the delivery lifecycle state.
func (e *Entry) ProcessingStatus() ProcessingStatus { return e.processingStatus }

// Attempts returns how many delivery attempts have been made.
func (e *Entry) Attempts() int { return e.attempts }

// NextRetryAt returns when the entry becomes due again.
func (e *Entry) NextRetryAt() time.Time { return e.nextRetryAt }

// LastError returns the last recorded delivery error, empty if none.
func (e *Entry) LastError() string { return e.lastError }

// CreatedAt returns when the entry was enqueued.
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

// IsTerminal reports whether the entry reached Sent or Failed.
func (e *Entry) IsTerminal() bool { return e.processingStatus.IsTerminal() }

// MarkProcessing flips a pending entry to processing. The SQL claim performs
// this atomically; the domain method exists so in-memory implementations obey
// the same state machine.
func (e *Entry) MarkProcessing() error {
	if e.processingStatus != StatusPending {
		return fmt.Errorf("cannot claim entry in status %s", e.processingStatus)
	}
	e.processingStatus = StatusProcessing
	return nil
}

// MarkSent records a successful delivery. At-least-one semantics: a single
// successful channel send is enough for the entry to count as sent.
func (e *Entry) MarkSent() error {
	if e.IsTerminal() {
		return ErrEntryIsTerminal
	}
	e.attempts++
	e.processingStatus = StatusSent
	e.lastError = ""
	return nil
}

// RecordFailure records a failed delivery attempt.
//
// Permanent failures (every resolved destination is gone) and exhausted
// attempts mark the entry failed for good. Transient failures within the
// attempt budget move the entry back to pending with a capped exponential
// next_retry_at so a later worker iteration picks it up again.
func (e *Entry) RecordFailure(cause string, permanent bool, now time.Time, policy RetryPolicy) error {
	if e.IsTerminal() {
		return ErrEntryIsTerminal
	}

	e.attempts++
	e.lastError = cause

	if permanent || e.attempts >= policy.MaxAttempts {
		e.processingStatus = StatusFailed
		return nil
	}

	e.processingStatus = StatusPending
	e.nextRetryAt = now.Add(policy.Delay(e.attempts))
	return nil
}
