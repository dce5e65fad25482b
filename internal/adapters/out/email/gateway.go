// Package email sends notification emails through the transactional mail
// provider's HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"logistics/internal/core/domain/model/outbox"
	"logistics/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Gateway implements EmailGateway over the mail provider's HTTP API.
type Gateway struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// NewGateway creates an email gateway for the given provider endpoint.
func NewGateway(apiURL, apiKey, from string) *Gateway {
	return &Gateway{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	URL     string `json:"url,omitempty"`
}

// Send posts one email to the provider. The payload title becomes the
// subject and the body the plain-text content.
//
// A 404 or 410 from the provider means the recipient address is rejected
// for good; anything else non-2xx is retried through the outbox.
func (g *Gateway) Send(ctx context.Context, to string, payload outbox.Payload) ports.DeliveryOutcome {
	body, err := json.Marshal(sendRequest{
		From:    g.from,
		To:      to,
		Subject: payload.Title,
		Text:    payload.Body,
		URL:     payload.URL,
	})
	if err != nil {
		return ports.DeliveryOutcome{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return ports.DeliveryOutcome{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return ports.DeliveryOutcome{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return ports.DeliveryOutcome{Success: true}
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ports.DeliveryOutcome{
			PermanentFailure: true,
			Err:              fmt.Errorf("recipient rejected: status %d", resp.StatusCode),
		}
	default:
		return ports.DeliveryOutcome{
			Err: fmt.Errorf("mail provider returned status %d", resp.StatusCode),
		}
	}
}
