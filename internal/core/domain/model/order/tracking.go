package order

import (
	"time"

	"logistics/internal/pkg/errs"
)

// TrackingEntry is one record in an order's append-only tracking history.
// The history is the authoritative source for the order's operational phase:
// the persisted status column may hold a coarse bucket or the delay flag,
// while the history always records the exact sequence of phases.
type TrackingEntry struct {
	// Phase is the canonical status recorded by this entry.
	Phase Status

	// Timestamp is when the phase change happened. Entries must be
	// appended in real-time order per order.
	Timestamp time.Time

	// Note is optional operator- or collaborator-supplied context.
	Note string
}

// NewTrackingEntry creates a validated tracking entry.
// The phase must be a valid canonical status and the timestamp non-zero.
func NewTrackingEntry(phase Status, timestamp time.Time, note string) (TrackingEntry, error) {
	if err := phase.Validate(); err != nil {
		return TrackingEntry{}, err
	}
	if timestamp.IsZero() {
		return TrackingEntry{}, errs.NewValueIsRequiredError("tracking entry timestamp")
	}

	return TrackingEntry{
		Phase:     phase,
		Timestamp: timestamp,
		Note:      note,
	}, nil
}
