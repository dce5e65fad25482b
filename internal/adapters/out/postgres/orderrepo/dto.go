// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The append-only tracking history and the evidence references are stored as
// JSONB columns; the status column is indexed together with the collaborator
// so the one-active-job check and the in-flight listings stay cheap.
type OrderDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code           string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	Sequence       int64      `gorm:"type:bigint;not null;uniqueIndex"`
	ContactID      string     `gorm:"type:varchar(255);not null"`
	CollaboratorID *uuid.UUID `gorm:"type:uuid;index:idx_orders_collaborator_status"`
	Status         int        `gorm:"type:int;not null;index:idx_orders_collaborator_status"`
	Tracking       []byte     `gorm:"type:jsonb"`
	Evidence       []byte     `gorm:"type:jsonb"`
	AmountValue    *float64   `gorm:"type:numeric(12,2)"`
	AmountMethod   string     `gorm:"type:varchar(32)"`
	CreatedAt      time.Time  `gorm:"not null"`
	CompletedAt    *time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// trackingEntryDTO is the JSON shape of one tracking history element.
// The phase is stored as its wire token so the column stays readable in SQL.
type trackingEntryDTO struct {
	Phase     string    `json:"phase"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	var collaboratorID *uuid.UUID
	if id := aggregate.Collaborator(); id != nil {
		raw := id.Bytes()
		collaboratorID = &raw
	}

	history := aggregate.TrackingHistory()
	entries := make([]trackingEntryDTO, 0, len(history))
	for _, e := range history {
		entries = append(entries, trackingEntryDTO{
			Phase:     e.Phase.String(),
			Timestamp: e.Timestamp,
			Note:      e.Note,
		})
	}

	tracking, err := json.Marshal(entries)
	if err != nil {
		return OrderDTO{}, err
	}

	evidence, err := json.Marshal(aggregate.Evidence())
	if err != nil {
		return OrderDTO{}, err
	}

	dto := OrderDTO{
		ID:             aggregate.ID().Bytes(),
		Code:           aggregate.Code(),
		Sequence:       aggregate.Sequence(),
		ContactID:      aggregate.ContactID(),
		CollaboratorID: collaboratorID,
		Status:         int(aggregate.Status()),
		Tracking:       tracking,
		Evidence:       evidence,
		CreatedAt:      aggregate.CreatedAt(),
		CompletedAt:    aggregate.CompletedAt(),
	}

	if amount := aggregate.Amount(); amount != nil {
		dto.AmountValue = &amount.Value
		dto.AmountMethod = amount.Method
	}

	return dto, nil
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var collaboratorID *kernel.UUID
	if dto.CollaboratorID != nil {
		cID, collaboratorErr := kernel.UUIDFromBytes((*dto.CollaboratorID)[:])
		if collaboratorErr != nil {
			return nil, collaboratorErr
		}

		collaboratorID = &cID
	}

	tracking, err := trackingFromJSON(dto.Tracking)
	if err != nil {
		return nil, err
	}

	var evidence []string
	if len(dto.Evidence) > 0 {
		if err = json.Unmarshal(dto.Evidence, &evidence); err != nil {
			return nil, err
		}
	}

	var amount *order.Amount
	if dto.AmountValue != nil {
		amount = &order.Amount{Value: *dto.AmountValue, Method: dto.AmountMethod}
	}

	return order.RestoreOrder(
		id,
		dto.Code,
		dto.Sequence,
		dto.ContactID,
		order.Status(dto.Status),
		collaboratorID,
		tracking,
		evidence,
		amount,
		dto.CreatedAt,
		dto.CompletedAt,
	)
}

func trackingFromJSON(raw []byte) ([]order.TrackingEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var entries []trackingEntryDTO
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	history := make([]order.TrackingEntry, 0, len(entries))
	for _, e := range entries {
		history = append(history, order.TrackingEntry{
			Phase:     order.ParseStatus(e.Phase),
			Timestamp: e.Timestamp,
			Note:      e.Note,
		})
	}

	return history, nil
}
