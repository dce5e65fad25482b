package queries

import (
	"context"
	"encoding/json"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetAllowedStatusesQueryHandler computes the currently allowed transitions
// for one order straight from its stored row.
//
// The decision uses the order's phase, which is the last tracking entry that
// is not a delay note: a delayed order keeps offering the transitions of the
// step it was on when the delay was recorded.
type GetAllowedStatusesQueryHandler struct {
	db *gorm.DB
}

// NewGetAllowedStatusesQueryHandler creates a handler for allowed-status queries.
func NewGetAllowedStatusesQueryHandler(db *gorm.DB) GetAllowedStatusesQueryHandler {
	return GetAllowedStatusesQueryHandler{db: db}
}

type trackingEntryRow struct {
	Phase     string `json:"phase"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note,omitempty"`
}

// Handle resolves the order by id, code, or legacy sequence and returns its
// open transitions.
func (h GetAllowedStatusesQueryHandler) Handle(
	ctx context.Context,
	query GetAllowedStatusesQuery,
) (GetAllowedStatusesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAllowedStatusesQueryResponse{}, err
	}

	var row struct {
		ID       string
		Status   int
		Tracking []byte
		Evidence []byte
	}

	result := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			tracking,
			evidence
		FROM orders
		WHERE id::text = @ref OR code = @ref OR sequence::text = @ref
	`, map[string]any{"ref": query.OrderRef()}).Scan(&row)
	if result.Error != nil {
		return GetAllowedStatusesQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetAllowedStatusesQueryResponse{},
			errs.NewObjectNotFoundError("order", query.OrderRef())
	}

	phase, err := phaseFromTracking(row.Tracking, order.Status(row.Status))
	if err != nil {
		return GetAllowedStatusesQueryResponse{}, err
	}

	hasEvidence, err := hasEvidenceRefs(row.Evidence)
	if err != nil {
		return GetAllowedStatusesQueryResponse{}, err
	}

	allowed := phase.AllowedNextStatuses(hasEvidence)
	tokens := make([]string, 0, len(allowed))
	for _, s := range allowed {
		tokens = append(tokens, s.String())
	}

	return GetAllowedStatusesQueryResponse{
		OrderID: row.ID,
		Current: order.Status(row.Status).String(),
		Allowed: tokens,
	}, nil
}

// phaseFromTracking walks the tracking history backwards to the last entry
// that is not a delay note. Falls back to the stored status for rows whose
// history holds nothing but delays.
func phaseFromTracking(raw []byte, stored order.Status) (order.Status, error) {
	if len(raw) == 0 {
		return stored, nil
	}

	var entries []trackingEntryRow
	if err := json.Unmarshal(raw, &entries); err != nil {
		return order.Unknown, err
	}

	for i := len(entries) - 1; i >= 0; i-- {
		phase := order.ParseStatus(entries[i].Phase)
		if phase != order.Delay && phase != order.Unknown {
			return phase, nil
		}
	}

	return stored, nil
}

func hasEvidenceRefs(raw []byte) (bool, error) {
	if len(raw) == 0 {
		return false, nil
	}

	var refs []string
	if err := json.Unmarshal(raw, &refs); err != nil {
		return false, err
	}

	return len(refs) > 0, nil
}
