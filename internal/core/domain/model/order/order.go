package order

import (
	"errors"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrOrderIsTerminal is returned when mutating an order that already
	// reached Completed or Cancelled. Terminal orders are immutable.
	ErrOrderIsTerminal = errors.New("order is in a terminal state")

	// ErrOrderAlreadyAssigned is returned when accepting an order that
	// already has a collaborator.
	ErrOrderAlreadyAssigned = errors.New("order is already assigned to a collaborator")

	// ErrTrackingOutOfOrder is returned when an appended tracking entry would
	// be older than the last recorded one. History must preserve real-time
	// ordering per order.
	ErrTrackingOutOfOrder = errors.New("tracking entry is older than the last recorded entry")
)

// Amount holds the agreed price of an order and the payment method.
// It is bookkeeping data, not part of the state machine.
type Amount struct {
	Value  float64
	Method string
}

// Order represents a delivery order. It is the aggregate root that manages
// the order lifecycle from creation through acceptance to completion.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a short human-facing code
//   - Status transitions follow the rules in Status.CanTransitionTo
//   - Tracking history is append-only and strictly time-ordered
//   - Completion requires at least one evidence attachment
//   - Becomes immutable once the status is Completed or Cancelled
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// code is the short human-facing alias (e.g. printed on the waybill)
	code string

	// sequence is the legacy sequential alias kept for client compatibility
	sequence int64

	// contactID identifies the customer contact to notify about progress
	contactID string

	// collaboratorID is the assigned field collaborator (nil if unassigned)
	collaboratorID *kernel.UUID

	// status is the last applied canonical status, possibly the delay flag
	status Status

	// tracking is the append-only phase history
	tracking []TrackingEntry

	// evidence holds attachment references required before completion
	evidence []string

	// amount is the agreed price, nil until set
	amount *Amount

	createdAt   time.Time
	completedAt *time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Pending status with a seeded tracking entry.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - code: short human-facing code (required)
//   - sequence: legacy sequential alias (must be positive)
//   - contactID: customer contact reference (may be empty for walk-in orders)
//   - now: creation time, also the timestamp of the initial tracking entry
func NewOrder(id kernel.UUID, code string, sequence int64, contactID string, now time.Time) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, errs.NewValueIsRequiredError("order code")
	}
	if sequence <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("order sequence",
			fmt.Errorf("%d is not greater than 0", sequence))
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("order creation time")
	}

	initial, err := NewTrackingEntry(Pending, now, "")
	if err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		code:          code,
		sequence:      sequence,
		contactID:     contactID,
		status:        Pending,
		tracking:      []TrackingEntry{initial},
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an Order from persistence without reapplying
// business rules to historical data. The stored state is trusted; only
// structural validity is checked.
func RestoreOrder(
	id kernel.UUID,
	code string,
	sequence int64,
	contactID string,
	status Status,
	collaboratorID *kernel.UUID,
	tracking []TrackingEntry,
	evidence []string,
	amount *Amount,
	createdAt time.Time,
	completedAt *time.Time,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, errs.NewValueIsRequiredError("order code")
	}

	return &Order{
		id:             id,
		code:           code,
		sequence:       sequence,
		contactID:      contactID,
		status:         status,
		collaboratorID: collaboratorID,
		tracking:       append([]TrackingEntry(nil), tracking...),
		evidence:       append([]string(nil), evidence...),
		amount:         amount,
		createdAt:      createdAt,
		completedAt:    completedAt,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
// Call when reconstructing orders from persistence to ensure integrity.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Code returns the short human-facing order code.
func (o *Order) Code() string {
	return o.code
}

// Sequence returns the legacy sequential alias.
func (o *Order) Sequence() int64 {
	return o.sequence
}

// ContactID returns the customer contact reference, empty if none.
func (o *Order) ContactID() string {
	return o.contactID
}

// Status returns the last applied canonical status, which may be the
// delay flag. Use Phase for the operational workflow position.
func (o *Order) Status() Status {
	return o.status
}

// Collaborator returns the assigned collaborator's ID, nil if unassigned.
func (o *Order) Collaborator() *kernel.UUID {
	return o.collaboratorID
}

// TrackingHistory returns a copy of the append-only tracking history.
func (o *Order) TrackingHistory() []TrackingEntry {
	return append([]TrackingEntry(nil), o.tracking...)
}

// Evidence returns a copy of the evidence attachment references.
func (o *Order) Evidence() []string {
	return append([]string(nil), o.evidence...)
}

// Amount returns the agreed price, nil if not set yet.
func (o *Order) Amount() *Amount {
	if o.amount == nil {
		return nil
	}
	a := *o.amount
	return &a
}

// CreatedAt returns the order creation time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// CompletedAt returns the completion timestamp, nil until the order
// reaches Completed.
func (o *Order) CompletedAt() *time.Time {
	if o.completedAt == nil {
		return nil
	}
	t := *o.completedAt
	return &t
}

// IsTerminal reports whether the order reached a final state.
func (o *Order) IsTerminal() bool {
	return o.status.IsTerminal()
}

// HasEvidence reports whether at least one evidence attachment is recorded.
func (o *Order) HasEvidence() bool {
	return len(o.evidence) > 0
}

// Phase derives the operational position of the order in the workflow.
// The persisted status can be the delay flag, which does not advance the
// main sequence; the phase is the last non-delay tracking entry. Falls back
// to the status column when the history is empty (legacy rows).
func (o *Order) Phase() Status {
	for i := len(o.tracking) - 1; i >= 0; i-- {
		if o.tracking[i].Phase != Delay {
			return o.tracking[i].Phase
		}
	}
	if o.status == Delay {
		return Pending
	}
	return o.status
}

// Accept assigns the order to a collaborator and moves it into the workflow.
//
// Business rules:
//   - only Pending, unassigned orders can be accepted
//   - an optional agreed price may be recorded at acceptance time
//
// The caller is responsible for the "one active job per collaborator"
// invariant; the persistence layer re-validates it inside the conditional
// update that commits the acceptance.
func (o *Order) Accept(collaboratorID kernel.UUID, price *float64, at time.Time) error {
	if err := collaboratorID.Validate(); err != nil {
		return err
	}
	if o.collaboratorID != nil {
		return ErrOrderAlreadyAssigned
	}
	if err := o.status.CanTransitionTo(Accepted, o.HasEvidence()); err != nil {
		return err
	}

	if err := o.appendTracking(Accepted, at, ""); err != nil {
		return err
	}

	o.status = Accepted
	o.collaboratorID = &collaboratorID
	if price != nil {
		o.amount = &Amount{Value: *price}
	}
	return nil
}

// TransitionTo applies a status change to the order.
//
// The transition is validated against the derived phase, not the raw status
// column, so a delayed order still advances from its real workflow position.
// On success the new status is applied, a tracking entry is appended, and
// completing the order stamps the completion timestamp.
//
// Validation failures are caller errors and leave the order untouched.
func (o *Order) TransitionTo(next Status, note string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	phase := o.Phase()
	if err := phase.CanTransitionTo(next, o.HasEvidence()); err != nil {
		return err
	}

	if err := o.appendTracking(next, at, note); err != nil {
		return err
	}

	o.status = next

	if next == Completed {
		completed := at
		o.completedAt = &completed
	}

	return nil
}

// AddEvidence records an evidence attachment reference.
// Duplicate references are ignored; terminal orders reject new evidence.
func (o *Order) AddEvidence(ref string) error {
	if ref == "" {
		return errs.NewValueIsRequiredError("evidence reference")
	}
	if o.IsTerminal() {
		return ErrOrderIsTerminal
	}

	for _, existing := range o.evidence {
		if existing == ref {
			return nil
		}
	}
	o.evidence = append(o.evidence, ref)
	return nil
}

// SetAmount records the agreed price and payment method.
// Rejected once the order has reached a terminal state; otherwise a plain
// field update outside the state machine.
func (o *Order) SetAmount(value float64, method string) error {
	if o.IsTerminal() {
		return ErrOrderIsTerminal
	}
	if value <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%v is not greater than 0", value))
	}

	o.amount = &Amount{Value: value, Method: method}
	return nil
}

// appendTracking appends an entry enforcing real-time ordering.
func (o *Order) appendTracking(phase Status, at time.Time, note string) error {
	entry, err := NewTrackingEntry(phase, at, note)
	if err != nil {
		return err
	}

	if last := len(o.tracking) - 1; last >= 0 && at.Before(o.tracking[last].Timestamp) {
		return fmt.Errorf("%w: %s before %s",
			ErrTrackingOutOfOrder, at.Format(time.RFC3339Nano), o.tracking[last].Timestamp.Format(time.RFC3339Nano))
	}

	o.tracking = append(o.tracking, entry)
	return nil
}
