package order

import (
	"fmt"
	"regexp"
	"strings"

	"logistics/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// It implements a state machine with a strictly linear main workflow plus
// two out-of-band states and one orthogonal exception flag.
//
// State transitions:
//
//	Pending ──> Accepted ──> EnRouteToPickup ──> Loading ──> EnRouteToDeliver ──> Completed
//	               │                │               │                │
//	               └────────────────┴───────┬───────┴────────────────┘
//	                                        v
//	                                    Cancelled
//
// Delay may be raised from any state inside the workflow without advancing
// or rewinding the main sequence. Completed and Cancelled are final.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values and is also
	// the result of normalizing unrecognizable free-form input.
	Unknown Status = iota

	// Pending is the initial status when an order is first created.
	// Orders in this status are waiting to be accepted by a collaborator.
	Pending

	// Accepted indicates a collaborator has taken the order.
	// This is the only entry point into the linear workflow.
	Accepted

	// EnRouteToPickup indicates the collaborator is heading to the pickup point.
	EnRouteToPickup

	// Loading indicates the cargo is being loaded at the pickup point.
	Loading

	// EnRouteToDeliver indicates the cargo is on its way to the destination.
	EnRouteToDeliver

	// Completed indicates the order has been delivered.
	// Entering it requires delivery evidence. This is a final state.
	Completed

	// Cancelled indicates the order was aborted.
	// Reachable from any non-terminal state. This is a final state.
	Cancelled

	// Delay is an orthogonal exception flag rather than a workflow step.
	// Raising it records a tracking entry but does not move the order
	// along the main sequence.
	Delay
)

// Transition errors returned by CanTransitionTo. Callers classify them
// with errors.Is; both are synchronous caller errors and are never retried.
var (
	ErrInvalidTransition = fmt.Errorf("status transition is not allowed")
	ErrMissingEvidence   = fmt.Errorf("completion requires delivery evidence")
)

// getStatusStrings returns a map of Status values to their wire tokens.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "unknown",
		Pending:          "pending",
		Accepted:         "accepted",
		EnRouteToPickup:  "en_route_to_pickup",
		Loading:          "loading",
		EnRouteToDeliver: "en_route_to_deliver",
		Completed:        "completed",
		Cancelled:        "cancelled",
		Delay:            "delay",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:          "pending",
		Accepted:         "accepted",
		EnRouteToPickup:  "en_route_to_pickup",
		Loading:          "loading",
		EnRouteToDeliver: "en_route_to_deliver",
		Completed:        "completed",
		Cancelled:        "cancelled",
		Delay:            "delay",
	}
}

// workflowIndex returns the position of a status within the linear workflow
// and whether the status belongs to it at all. Pending, Cancelled and Delay
// live outside the workflow.
func workflowIndex(s Status) (int, bool) {
	switch s {
	case Accepted:
		return 0, true
	case EnRouteToPickup:
		return 1, true
	case Loading:
		return 2, true
	case EnRouteToDeliver:
		return 3, true
	case Completed:
		return 4, true
	default:
		return 0, false
	}
}

// synonymRules maps free-form status wording to canonical statuses.
// The legacy clients speak a mix of Spanish and English, with accents and
// several historical spellings, so matching is regexp-based over a
// de-accented, lowercased form of the input. Order matters: more specific
// phrases come before generic ones.
var synonymRules = []struct {
	pattern *regexp.Regexp
	status  Status
}{
	{regexp.MustCompile(`camino.*(carga|recog|origen)|pickup|hacia.*carga`), EnRouteToPickup},
	{regexp.MustCompile(`camino.*(entrega|destino)|deliver|hacia.*entrega`), EnRouteToDeliver},
	{regexp.MustCompile(`^cargando$|^carga$|loading`), Loading},
	{regexp.MustCompile(`complet|entregad|finaliz|delivered|done`), Completed},
	{regexp.MustCompile(`cancel|anulad`), Cancelled},
	{regexp.MustCompile(`demor|retras|delay`), Delay},
	{regexp.MustCompile(`acept|accept|tomad|asignad`), Accepted},
	{regexp.MustCompile(`pendient|pending|nuev|sin asignar`), Pending},
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

// ParseStatus normalizes free-form status input to a canonical Status.
// It lowercases, strips accents, and matches both the canonical wire tokens
// and the synonym vocabulary used by legacy clients. Unrecognized input
// yields Unknown; callers must treat Unknown as invalid.
//
// Example:
//
//	ParseStatus("En camino a entregar") // EnRouteToDeliver
//	ParseStatus("DEMORADO")             // Delay
//	ParseStatus("whatever")             // Unknown
func ParseStatus(raw string) Status {
	normalized := accentReplacer.Replace(strings.ToLower(strings.TrimSpace(raw)))

	for status, token := range getValidStatusStrings() {
		if normalized == token || normalized == strings.ReplaceAll(token, "_", " ") {
			return status
		}
	}

	for _, rule := range synonymRules {
		if rule.pattern.MatchString(normalized) {
			return rule.status
		}
	}

	return Unknown
}

// Validate checks if the Status value is valid.
//
// Valid statuses are the eight canonical statuses; Unknown (0) and any
// other values are invalid. Used to ensure Status values from external
// sources (database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical wire token of the status.
// Implements fmt.Stringer and is safe to call on any Status value;
// invalid values yield "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CanTransitionTo checks whether the state machine permits moving from the
// current status to next.
//
// Rules:
//   - a terminal current status rejects everything (orders become immutable)
//   - next == current is rejected: replaying an already-applied transition
//     is a no-op, not a reapplication
//   - Cancelled is reachable from any non-terminal status
//   - Delay is allowed from any workflow status, but not from Pending
//   - entering the workflow from Pending requires next == Accepted
//   - inside the workflow only a single forward step is allowed
//   - entering Completed additionally requires hasEvidence
//
// Returns nil when the transition is legal, ErrMissingEvidence when only the
// evidence requirement blocks completion, and an error wrapping
// ErrInvalidTransition otherwise. Delay must never be passed as the current
// status: callers operate on the derived phase, which skips delay flags.
func (s Status) CanTransitionTo(next Status, hasEvidence bool) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	if s.IsTerminal() {
		return fmt.Errorf("%w: %s is final", ErrInvalidTransition, s)
	}

	if next == s {
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, s)
	}

	switch next {
	case Cancelled:
		return nil
	case Delay:
		// Delay flags an exception inside the workflow. A pending order has
		// no work to be late on, and flagging one would flip its stored
		// status away from Pending, making it unacceptable.
		if _, inWorkflow := workflowIndex(s); !inWorkflow {
			return fmt.Errorf("%w: %s cannot be delayed before acceptance", ErrInvalidTransition, s)
		}
		return nil
	case Pending, Unknown:
		return fmt.Errorf("%w: %s cannot go back to %s", ErrInvalidTransition, s, next)
	}

	nextIdx, ok := workflowIndex(next)
	if !ok {
		return fmt.Errorf("%w: %s is not a workflow status", ErrInvalidTransition, next)
	}

	currentIdx, inWorkflow := workflowIndex(s)
	if !inWorkflow {
		// Pending (or the delay flag misused as a phase) can only enter
		// the workflow at its first step.
		if next != Accepted {
			return fmt.Errorf("%w: %s must be accepted before %s", ErrInvalidTransition, s, next)
		}
		return nil
	}

	if nextIdx != currentIdx+1 {
		return fmt.Errorf("%w: %s to %s skips workflow steps", ErrInvalidTransition, s, next)
	}

	if next == Completed && !hasEvidence {
		return ErrMissingEvidence
	}

	return nil
}

// AllowedNextStatuses returns every status reachable from the current one
// given the evidence situation. For any workflow status the result includes
// Delay; for terminal statuses it is empty.
func (s Status) AllowedNextStatuses(hasEvidence bool) []Status {
	candidates := []Status{
		Pending, Accepted, EnRouteToPickup, Loading, EnRouteToDeliver, Completed, Cancelled, Delay,
	}

	allowed := make([]Status, 0, len(candidates))
	for _, next := range candidates {
		if s.CanTransitionTo(next, hasEvidence) == nil {
			allowed = append(allowed, next)
		}
	}
	return allowed
}
