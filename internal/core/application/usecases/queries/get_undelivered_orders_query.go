package queries

import (
	"errors"
	"time"

	"logistics/internal/pkg/guard"
)

var ErrGetUndeliveredOrdersQueryIsNotConstructed = errors.New(
	"GetUndeliveredOrdersQuery must be created via NewGetUndeliveredOrdersQuery constructor",
)

// GetUndeliveredOrdersQuery retrieves all orders still in flight: everything
// that has not reached completed or cancelled. Back-office screens use it for
// workload monitoring.
//
// Example:
//
//	query := NewGetUndeliveredOrdersQuery()
//	handler := NewGetUndeliveredOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get undelivered orders: %w", err)
//	}
//
//	fmt.Printf("Found %d orders in flight\n", len(orders))
type GetUndeliveredOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUndeliveredOrdersQuery creates a query to retrieve in-flight orders.
// This is a parameterless query.
func NewGetUndeliveredOrdersQuery() GetUndeliveredOrdersQuery {
	return GetUndeliveredOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetUndeliveredOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUndeliveredOrdersQueryIsNotConstructed)
}

// GetUndeliveredOrdersQueryResponse is one in-flight order row.
type GetUndeliveredOrdersQueryResponse struct {
	ID             string
	Code           string
	Status         string
	ContactID      string
	CollaboratorID string
	CreatedAt      time.Time
}
