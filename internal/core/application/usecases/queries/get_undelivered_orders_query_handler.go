package queries

import (
	"context"
	"database/sql"
	"time"

	"logistics/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetUndeliveredOrdersQueryHandler retrieves in-flight orders from the
// database. Terminal orders are filtered out; results are sorted by sequence
// so the oldest work appears first.
type GetUndeliveredOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUndeliveredOrdersQueryHandler creates a handler for in-flight order queries.
func NewGetUndeliveredOrdersQueryHandler(db *gorm.DB) GetUndeliveredOrdersQueryHandler {
	return GetUndeliveredOrdersQueryHandler{db: db}
}

// Handle executes the query and returns every order that has not reached a
// terminal status, oldest first.
func (h GetUndeliveredOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUndeliveredOrdersQuery,
) ([]GetUndeliveredOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUndeliveredOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			code,
			status,
			contact_id,
			collaborator_id,
			created_at
		FROM orders
		WHERE status NOT IN (?, ?)
		ORDER BY sequence
	`, order.Completed, order.Cancelled).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp           GetUndeliveredOrdersQueryResponse
			status         int
			collaboratorID sql.NullString
			createdAt      time.Time
		)

		err = rows.Scan(
			&resp.ID,
			&resp.Code,
			&status,
			&resp.ContactID,
			&collaboratorID,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		resp.Status = order.Status(status).String()
		resp.CollaboratorID = collaboratorID.String
		resp.CreatedAt = createdAt

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
