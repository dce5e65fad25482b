// Package outbox contains the durable notification outbox domain model.
//
// An outbox entry is the intent to notify a logical target about an order
// status change, persisted in the same transaction as the status change
// itself. A periodic worker claims due entries, resolves targets into
// concrete channel subscriptions, and records per-entry outcomes with capped
// exponential retry. This decouples order mutations from channel
// availability while guaranteeing at-least-once delivery.
package outbox
