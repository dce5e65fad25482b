// Package push sends web push notifications through the push relay service.
// The relay owns the VAPID keys and talks to the browser vendors; this
// adapter posts it the subscription plus payload and classifies the response.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"logistics/internal/core/domain/model/outbox"
	"logistics/internal/core/domain/model/subscription"
	"logistics/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Gateway implements PushGateway over the relay's HTTP API.
type Gateway struct {
	relayURL string
	apiKey   string
	client   *http.Client
}

// NewGateway creates a push gateway for the given relay endpoint.
func NewGateway(relayURL, apiKey string) *Gateway {
	return &Gateway{
		relayURL: relayURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

type sendRequest struct {
	Endpoint string         `json:"endpoint"`
	Keys     sendKeys       `json:"keys"`
	Payload  outbox.Payload `json:"payload"`
}

type sendKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Send posts one notification to the relay.
//
// Status mapping follows the web push semantics the relay passes through:
// 404 and 410 mean the browser dropped the subscription, so the endpoint is
// gone for good; anything else non-2xx (including 429) is worth retrying.
func (g *Gateway) Send(
	ctx context.Context,
	sub subscription.Subscription,
	payload outbox.Payload,
) ports.DeliveryOutcome {
	body, err := json.Marshal(sendRequest{
		Endpoint: sub.Endpoint(),
		Keys: sendKeys{
			P256dh: sub.Keys().P256dh,
			Auth:   sub.Keys().Auth,
		},
		Payload: payload,
	})
	if err != nil {
		return ports.DeliveryOutcome{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.relayURL, bytes.NewBuffer(body))
	if err != nil {
		return ports.DeliveryOutcome{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		// Timeouts and connection errors: the endpoint may still be alive.
		return ports.DeliveryOutcome{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return ports.DeliveryOutcome{Success: true}
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ports.DeliveryOutcome{
			PermanentFailure: true,
			Err:              fmt.Errorf("push endpoint gone: status %d", resp.StatusCode),
		}
	default:
		return ports.DeliveryOutcome{
			Err: fmt.Errorf("push relay returned status %d", resp.StatusCode),
		}
	}
}
