package queries

import (
	"errors"

	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrGetAllowedStatusesQueryIsNotConstructed = errors.New(
	"GetAllowedStatusesQuery must be created via NewGetAllowedStatusesQuery constructor",
)

// GetAllowedStatusesQuery retrieves the statuses an order may move to next.
// UIs use it to render only the buttons that will actually succeed: the
// workflow advances one step at a time, and completion is offered only once
// delivery evidence has been attached.
//
// Example:
//
//	query, _ := NewGetAllowedStatusesQuery("ORD-2024-0001")
//	handler := NewGetAllowedStatusesQueryHandler(db)
//
//	response, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get allowed statuses: %w", err)
//	}
//
//	fmt.Printf("Order %s can move to: %v\n", response.OrderID, response.Allowed)
type GetAllowedStatusesQuery struct {
	orderRef string

	guard guard.ConstructorGuard
}

// NewGetAllowedStatusesQuery creates a query for the given order reference.
// The reference may be the order's UUID or its human-readable code.
func NewGetAllowedStatusesQuery(orderRef string) (GetAllowedStatusesQuery, error) {
	if orderRef == "" {
		return GetAllowedStatusesQuery{}, errs.NewValueIsRequiredError("order ref")
	}

	return GetAllowedStatusesQuery{
		orderRef: orderRef,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// OrderRef returns the order reference being queried.
func (q GetAllowedStatusesQuery) OrderRef() string { return q.orderRef }

// Validate ensures the query was created through the constructor.
func (q GetAllowedStatusesQuery) Validate() error {
	return q.guard.Validate(ErrGetAllowedStatusesQueryIsNotConstructed)
}

// GetAllowedStatusesQueryResponse lists the transitions currently open to an
// order. Current is the order's stored status; Allowed holds the wire tokens
// of every status a transition request would accept right now.
type GetAllowedStatusesQueryResponse struct {
	OrderID string
	Current string
	Allowed []string
}
