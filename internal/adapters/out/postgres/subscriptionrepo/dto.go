// Package subscriptionrepo persists push subscriptions keyed by endpoint.
package subscriptionrepo

import (
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/subscription"

	"github.com/google/uuid"
)

// SubscriptionDTO represents the database structure for push subscriptions.
// Exactly one of UserID and ContactID is set, mirroring the domain owner
// union; both are indexed because the dispatch path looks subscriptions up
// by owner.
type SubscriptionDTO struct {
	Endpoint  string     `gorm:"type:text;primaryKey"`
	P256dh    string     `gorm:"type:text;not null"`
	Auth      string     `gorm:"type:text;not null"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	ContactID string     `gorm:"type:varchar(255);index"`
	CreatedAt time.Time  `gorm:"not null"`
}

// TableName specifies the database table name for subscriptions.
func (SubscriptionDTO) TableName() string {
	return "subscriptions"
}

func fromDomain(sub subscription.Subscription, now time.Time) SubscriptionDTO {
	var userID *uuid.UUID
	if id := sub.UserID(); id != nil {
		raw := id.Bytes()
		userID = &raw
	}

	return SubscriptionDTO{
		Endpoint:  sub.Endpoint(),
		P256dh:    sub.Keys().P256dh,
		Auth:      sub.Keys().Auth,
		UserID:    userID,
		ContactID: sub.ContactID(),
		CreatedAt: now,
	}
}

func toDomain(dto SubscriptionDTO) (subscription.Subscription, error) {
	keys := subscription.Keys{P256dh: dto.P256dh, Auth: dto.Auth}

	if dto.UserID != nil {
		userID, err := kernel.UUIDFromBytes((*dto.UserID)[:])
		if err != nil {
			return subscription.Subscription{}, err
		}
		return subscription.NewUserSubscription(dto.Endpoint, keys, userID)
	}

	return subscription.NewContactSubscription(dto.Endpoint, keys, dto.ContactID)
}
