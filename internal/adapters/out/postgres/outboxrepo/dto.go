// Package outboxrepo persists notification outbox entries and worker
// heartbeats. Entries are inserted by the order mutation path inside its
// transaction; the dispatch worker claims and finalizes them afterwards.
package outboxrepo

import (
	"encoding/json"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/outbox"

	"github.com/google/uuid"
)

// EntryDTO represents the database structure for persisting outbox entries.
// The processing status and retry time are indexed together because the
// worker's claim query filters on exactly that pair.
type EntryDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index"`
	NewStatus        int       `gorm:"type:int;not null"`
	TargetKind       string    `gorm:"type:varchar(16);not null"`
	TargetValue      string    `gorm:"type:varchar(255);not null"`
	Payload          []byte    `gorm:"type:jsonb;not null"`
	ProcessingStatus int        `gorm:"type:int;not null;index:idx_outbox_due"`
	Attempts         int        `gorm:"type:int;not null"`
	NextRetryAt      time.Time  `gorm:"not null;index:idx_outbox_due"`
	ClaimedAt        *time.Time `gorm:""`
	LastError        string     `gorm:"type:text"`
	CreatedAt        time.Time  `gorm:"not null"`
}

// TableName specifies the database table name for outbox entries.
func (EntryDTO) TableName() string {
	return "outbox_entries"
}

// HeartbeatDTO is one row per worker instance, upserted every iteration.
type HeartbeatDTO struct {
	WorkerID   string    `gorm:"type:varchar(128);primaryKey"`
	LastSeenAt time.Time `gorm:"not null"`
	Claimed    int       `gorm:"type:int;not null"`
	Processed  int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for worker heartbeats.
func (HeartbeatDTO) TableName() string {
	return "worker_heartbeats"
}

func fromDomain(entry *outbox.Entry) (EntryDTO, error) {
	payload, err := json.Marshal(entry.Payload())
	if err != nil {
		return EntryDTO{}, err
	}

	return EntryDTO{
		ID:               entry.ID().Bytes(),
		OrderID:          entry.OrderID().Bytes(),
		NewStatus:        int(entry.NewStatus()),
		TargetKind:       entry.Target().Kind().String(),
		TargetValue:      entry.Target().Value(),
		Payload:          payload,
		ProcessingStatus: int(entry.ProcessingStatus()),
		Attempts:         entry.Attempts(),
		NextRetryAt:      entry.NextRetryAt(),
		LastError:        entry.LastError(),
		CreatedAt:        entry.CreatedAt(),
	}, nil
}

func toDomain(dto EntryDTO) (*outbox.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	target, err := outbox.RestoreTarget(dto.TargetKind, dto.TargetValue)
	if err != nil {
		return nil, err
	}

	var payload outbox.Payload
	if err = json.Unmarshal(dto.Payload, &payload); err != nil {
		return nil, err
	}

	return outbox.RestoreEntry(
		id,
		orderID,
		order.Status(dto.NewStatus),
		target,
		payload,
		outbox.ProcessingStatus(dto.ProcessingStatus),
		dto.Attempts,
		dto.NextRetryAt,
		dto.LastError,
		dto.CreatedAt,
	)
}
