package queries

import (
	"context"

	"logistics/internal/core/domain/model/outbox"

	"gorm.io/gorm"
)

// GetOutboxBacklogQueryHandler aggregates outbox entry counts per processing
// status with a single grouped query.
type GetOutboxBacklogQueryHandler struct {
	db *gorm.DB
}

// NewGetOutboxBacklogQueryHandler creates a handler for backlog queries.
func NewGetOutboxBacklogQueryHandler(db *gorm.DB) GetOutboxBacklogQueryHandler {
	return GetOutboxBacklogQueryHandler{db: db}
}

// Handle executes the backlog query.
func (h GetOutboxBacklogQueryHandler) Handle(
	ctx context.Context,
	query GetOutboxBacklogQuery,
) (GetOutboxBacklogQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOutboxBacklogQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			processing_status,
			COUNT(*)
		FROM outbox_entries
		GROUP BY processing_status
	`).Rows()
	if err != nil {
		return GetOutboxBacklogQueryResponse{}, err
	}
	defer rows.Close()

	var response GetOutboxBacklogQueryResponse

	for rows.Next() {
		var (
			status int
			count  int
		)

		if err = rows.Scan(&status, &count); err != nil {
			return GetOutboxBacklogQueryResponse{}, err
		}

		switch outbox.ProcessingStatus(status) {
		case outbox.StatusPending:
			response.Pending = count
		case outbox.StatusProcessing:
			response.Processing = count
		case outbox.StatusSent:
			response.Sent = count
		case outbox.StatusFailed:
			response.Failed = count
		}
	}

	if err = rows.Err(); err != nil {
		return GetOutboxBacklogQueryResponse{}, err
	}

	return response, nil
}
