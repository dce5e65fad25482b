package subscriptionrepo

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/outbox"
	"logistics/internal/core/domain/model/subscription"
	"logistics/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM.
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GORM subscription repository.
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Add registers a subscription. Re-registering an existing endpoint replaces
// its credentials and owner; browsers rotate keys without telling anyone.
func (r *GormSubscriptionRepository) Add(ctx context.Context, sub subscription.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	dto := fromDomain(sub, time.Now())

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "user_id", "contact_id"}),
	}).Create(&dto).Error
}

// FindByOwner returns all subscriptions registered for a user or contact
// target. Role targets carry no owner column and must be expanded by the
// caller before reaching here.
func (r *GormSubscriptionRepository) FindByOwner(
	ctx context.Context,
	target outbox.Target,
) ([]subscription.Subscription, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	var dtos []SubscriptionDTO

	switch target.Kind() {
	case outbox.TargetUser:
		userID, err := kernel.UUIDFromString(target.Value())
		if err != nil {
			return nil, err
		}
		if err = r.db.WithContext(ctx).Find(&dtos, "user_id = ?", userID.Bytes()).Error; err != nil {
			return nil, err
		}
	case outbox.TargetContact:
		if err := r.db.WithContext(ctx).Find(&dtos, "contact_id = ?", target.Value()).Error; err != nil {
			return nil, err
		}
	default:
		return nil, errs.NewValueIsInvalidError("target kind is not resolvable to an owner")
	}

	subs := make([]subscription.Subscription, 0, len(dtos))
	for _, dto := range dtos {
		sub, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	return subs, nil
}

// Delete removes a subscription by endpoint. Deleting an unknown endpoint is
// not an error; two workers may race to prune the same dead endpoint.
func (r *GormSubscriptionRepository) Delete(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return errs.NewValueIsRequiredError("subscription endpoint")
	}

	return r.db.WithContext(ctx).Delete(&SubscriptionDTO{}, "endpoint = ?", endpoint).Error
}
