// Package subscription contains the push subscription value object: a channel
// endpoint registered by a user's or contact's device. Subscriptions are
// created by the registration path (out of scope here) and deleted by the
// dispatch path when a send reports the endpoint permanently gone.
package subscription

import (
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// Keys holds the channel credentials the push gateway needs for one endpoint.
type Keys struct {
	// P256dh is the client public key.
	P256dh string

	// Auth is the shared authentication secret.
	Auth string
}

// Subscription is one registered push endpoint owned by either a user or an
// anonymous contact (exactly one owner reference is set).
type Subscription struct {
	endpoint  string
	keys      Keys
	userID    *kernel.UUID
	contactID string
}

// NewUserSubscription registers an endpoint owned by a user.
func NewUserSubscription(endpoint string, keys Keys, userID kernel.UUID) (Subscription, error) {
	if err := userID.Validate(); err != nil {
		return Subscription{}, err
	}
	s := Subscription{endpoint: endpoint, keys: keys, userID: &userID}
	if err := s.Validate(); err != nil {
		return Subscription{}, err
	}
	return s, nil
}

// NewContactSubscription registers an endpoint owned by an anonymous contact.
func NewContactSubscription(endpoint string, keys Keys, contactID string) (Subscription, error) {
	if contactID == "" {
		return Subscription{}, errs.NewValueIsRequiredError("contact id")
	}
	s := Subscription{endpoint: endpoint, keys: keys, contactID: contactID}
	if err := s.Validate(); err != nil {
		return Subscription{}, err
	}
	return s, nil
}

// Endpoint returns the channel endpoint URL. It is the subscription's
// identity: deletion after a permanent failure is keyed on it.
func (s Subscription) Endpoint() string { return s.endpoint }

// Keys returns the channel credentials.
func (s Subscription) Keys() Keys { return s.keys }

// UserID returns the owning user, nil for contact-owned subscriptions.
func (s Subscription) UserID() *kernel.UUID { return s.userID }

// ContactID returns the owning contact, empty for user-owned subscriptions.
func (s Subscription) ContactID() string { return s.contactID }

// Validate checks the subscription has an endpoint, credentials, and exactly
// one owner reference.
func (s Subscription) Validate() error {
	if s.endpoint == "" {
		return errs.NewValueIsRequiredError("subscription endpoint")
	}
	if s.keys.P256dh == "" || s.keys.Auth == "" {
		return errs.NewValueIsRequiredError("subscription keys")
	}
	if s.userID == nil && s.contactID == "" {
		return errs.NewValueIsRequiredError("subscription owner")
	}
	if s.userID != nil && s.contactID != "" {
		return errs.NewValueIsInvalidError("subscription owner must be a user or a contact, not both")
	}
	return nil
}
