// Package order contains the Order aggregate and its status state machine.
//
// The aggregate enforces the business rules of the delivery lifecycle:
// a strictly linear workflow from acceptance to completion, cancellation from
// any non-terminal state, an orthogonal delay flag, an append-only tracking
// history that preserves real-time ordering, and an evidence requirement
// before completion. Status normalization of free-form client input happens
// at the boundary via ParseStatus; internally only the closed Status enum is
// used so illegal states are unrepresentable.
package order
