package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the postgres error code raised when an insert collides
// with the code or sequence unique index.
const uniqueViolation = "23505"

// GormOrderRepository implements OrderRepository using GORM.
//
// All mutations after the initial insert are conditional updates: the WHERE
// clause restates the expected prior state, and zero affected rows surfaces
// as ports.ErrConcurrencyConflict instead of silently overwriting.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("order code or sequence already taken: %w", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ResolveCanonicalID maps a client-supplied reference to the canonical order
// id in one lookup. The reference may be the primary UUID, the short code, or
// the legacy numeric sequence; whichever matches wins.
func (r *GormOrderRepository) ResolveCanonicalID(ctx context.Context, ref string) (kernel.UUID, error) {
	if ref == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError("order ref")
	}

	var id uuid.UUID
	result := r.db.WithContext(ctx).Raw(`
		SELECT id
		FROM orders
		WHERE id::text = @ref OR code = @ref OR sequence::text = @ref
	`, map[string]any{"ref": ref}).Scan(&id)
	if result.Error != nil {
		return kernel.UUID{}, result.Error
	}
	if result.RowsAffected == 0 {
		return kernel.UUID{}, errs.NewObjectNotFoundError("order", ref)
	}

	return kernel.UUIDFromBytes(id[:])
}

// FindActiveByCollaborator returns the collaborator's current non-terminal
// order. Completed and cancelled orders do not block new acceptances.
func (r *GormOrderRepository) FindActiveByCollaborator(
	ctx context.Context,
	collaboratorID kernel.UUID,
) (*order.Order, error) {
	if err := collaboratorID.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		First(&dto, "collaborator_id = ? AND status NOT IN (?, ?)",
			collaboratorID.Bytes(), order.Completed, order.Cancelled).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active order for collaborator", collaboratorID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// AcceptPending commits an acceptance conditionally. The row must still be
// pending and unassigned, and the accepting collaborator must hold no other
// active order; the one-active-job invariant is re-validated here with a
// NOT EXISTS subquery rather than trusted from the preceding read, so two
// racing acceptances can produce at most one winner.
func (r *GormOrderRepository) AcceptPending(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE orders
		SET collaborator_id = ?,
			status = ?,
			tracking = ?,
			amount_value = ?,
			amount_method = ?
		WHERE id = ?
			AND status = ?
			AND collaborator_id IS NULL
			AND NOT EXISTS (
				SELECT 1
				FROM orders other
				WHERE other.collaborator_id = ?
					AND other.status NOT IN (?, ?)
					AND other.id <> orders.id
			)
	`,
		dto.CollaboratorID,
		dto.Status,
		dto.Tracking,
		dto.AmountValue,
		dto.AmountMethod,
		dto.ID,
		order.Pending,
		dto.CollaboratorID,
		order.Completed,
		order.Cancelled,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrConcurrencyConflict
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateIf persists the aggregate only while the stored status still equals
// expectedStatus. A lost race surfaces as ports.ErrConcurrencyConflict; the
// caller re-reads and decides whether the transition still makes sense.
func (r *GormOrderRepository) UpdateIf(
	ctx context.Context,
	aggregate *order.Order,
	expectedStatus order.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE orders
		SET collaborator_id = ?,
			status = ?,
			tracking = ?,
			evidence = ?,
			amount_value = ?,
			amount_method = ?,
			completed_at = ?
		WHERE id = ? AND status = ?
	`,
		dto.CollaboratorID,
		dto.Status,
		dto.Tracking,
		dto.Evidence,
		dto.AmountValue,
		dto.AmountMethod,
		dto.CompletedAt,
		dto.ID,
		int(expectedStatus),
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrConcurrencyConflict
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}
