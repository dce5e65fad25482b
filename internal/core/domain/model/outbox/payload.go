package outbox

import (
	"logistics/internal/pkg/errs"
)

// Payload is the channel-agnostic notification envelope. Channel adapters
// render it into whatever their transport expects; the outbox never stores
// per-channel messages.
type Payload struct {
	// Title is the notification headline. Required.
	Title string `json:"title"`

	// Body is the notification text. Required.
	Body string `json:"body"`

	// Icon is an optional icon URL for push channels.
	Icon string `json:"icon,omitempty"`

	// Badge is an optional badge URL for push channels.
	Badge string `json:"badge,omitempty"`

	// URL is the click-through destination.
	URL string `json:"url,omitempty"`

	// Data carries structured extras, at minimum the order id.
	Data map[string]string `json:"data,omitempty"`
}

// Validate checks the required payload fields are present.
func (p Payload) Validate() error {
	if p.Title == "" {
		return errs.NewValueIsRequiredError("payload title")
	}
	if p.Body == "" {
		return errs.NewValueIsRequiredError("payload body")
	}
	return nil
}
