// Package collaboratorrepo reads the collaborator directory: the people who
// accept and deliver orders. The dispatch path uses it to expand role targets
// and to look up email recipients.
package collaboratorrepo

import (
	"time"

	"github.com/google/uuid"
)

// CollaboratorDTO represents the database structure for collaborator records.
// Role and active are indexed together because role fan-out filters on both.
type CollaboratorDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255)"`
	Role      string    `gorm:"type:varchar(64);not null;index:idx_collaborators_role_active"`
	Active    bool      `gorm:"not null;index:idx_collaborators_role_active"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for collaborator entities.
func (CollaboratorDTO) TableName() string {
	return "collaborators"
}
