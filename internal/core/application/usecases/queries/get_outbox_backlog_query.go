package queries

import (
	"errors"

	"logistics/internal/pkg/guard"
)

var ErrGetOutboxBacklogQueryIsNotConstructed = errors.New(
	"GetOutboxBacklogQuery must be created via NewGetOutboxBacklogQuery constructor",
)

// GetOutboxBacklogQuery retrieves the outbox backlog broken down by
// processing status. Operators use it to spot stuck or permanently failed
// notifications without reading worker logs.
type GetOutboxBacklogQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOutboxBacklogQuery creates a parameterless backlog query.
func NewGetOutboxBacklogQuery() GetOutboxBacklogQuery {
	return GetOutboxBacklogQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOutboxBacklogQuery) Validate() error {
	return q.guard.Validate(ErrGetOutboxBacklogQueryIsNotConstructed)
}

// GetOutboxBacklogQueryResponse is the outbox backlog snapshot. Pending counts
// entries waiting for a worker (including those parked until their retry
// time), Processing counts claimed entries, and Failed counts entries whose
// delivery was abandoned.
type GetOutboxBacklogQueryResponse struct {
	Pending    int
	Processing int
	Sent       int
	Failed     int
}
