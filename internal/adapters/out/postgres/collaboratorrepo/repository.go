package collaboratorrepo

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/outbox"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCollaboratorDirectory implements CollaboratorDirectory using GORM.
//
// Reads only: collaborator onboarding is owned by a different system, this
// service just consumes the table.
type GormCollaboratorDirectory struct {
	db *gorm.DB
}

// NewGormCollaboratorDirectory creates a new GORM collaborator directory.
func NewGormCollaboratorDirectory(db *gorm.DB) *GormCollaboratorDirectory {
	return &GormCollaboratorDirectory{db: db}
}

// ActiveStaffIDs returns the ids of all collaborators currently active in the
// given role. Evaluated at send time so role notifications reach people added
// after the notification was enqueued.
func (r *GormCollaboratorDirectory) ActiveStaffIDs(ctx context.Context, role string) ([]kernel.UUID, error) {
	var rawIDs []uuid.UUID

	err := r.db.WithContext(ctx).
		Model(&CollaboratorDTO{}).
		Where("role = ? AND active", role).
		Order("id").
		Pluck("id", &rawIDs).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, idErr := kernel.UUIDFromBytes(raw[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// EmailFor returns the email address registered for a user target. Contact
// targets have no directory record, so they get push delivery only.
func (r *GormCollaboratorDirectory) EmailFor(
	ctx context.Context,
	target outbox.Target,
) (string, bool, error) {
	if target.Kind() != outbox.TargetUser {
		return "", false, nil
	}

	userID, err := kernel.UUIDFromString(target.Value())
	if err != nil {
		return "", false, err
	}

	var dto CollaboratorDTO
	err = r.db.WithContext(ctx).First(&dto, "id = ?", userID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	if dto.Email == "" {
		return "", false, nil
	}

	return dto.Email, true, nil
}
