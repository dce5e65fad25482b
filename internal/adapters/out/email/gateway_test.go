package email

import (
	"encoding/json"
	"net/http"
	"testing"

	"logistics/internal/core/domain/model/outbox"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiURL = "https://mail.example.com/v1/messages"

func TestGateway_Send_Success(t *testing.T) {
	g := NewGateway(apiURL, "mail-key", "orders@example.com")
	httpmock.ActivateNonDefault(g.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", apiURL,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer mail-key", req.Header.Get("Authorization"))

			var body sendRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, "orders@example.com", body.From)
			assert.Equal(t, "staff@example.com", body.To)
			assert.Equal(t, "New order", body.Subject)
			assert.Equal(t, "Order ORD-1 is waiting for acceptance", body.Text)

			return httpmock.NewStringResponse(http.StatusOK, `{"id":"msg-1"}`), nil
		})

	outcome := g.Send(t.Context(), "staff@example.com", outbox.Payload{
		Title: "New order",
		Body:  "Order ORD-1 is waiting for acceptance",
	})

	assert.True(t, outcome.Success)
	assert.NoError(t, outcome.Err)
}

func TestGateway_Send_RejectedRecipientIsPermanent(t *testing.T) {
	g := NewGateway(apiURL, "", "orders@example.com")
	httpmock.ActivateNonDefault(g.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", apiURL,
		httpmock.NewStringResponder(http.StatusNotFound, ""))

	outcome := g.Send(t.Context(), "nobody@example.com",
		outbox.Payload{Title: "New order", Body: "body"})

	assert.False(t, outcome.Success)
	assert.True(t, outcome.PermanentFailure)
}

func TestGateway_Send_ProviderErrorIsTransient(t *testing.T) {
	g := NewGateway(apiURL, "", "orders@example.com")
	httpmock.ActivateNonDefault(g.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", apiURL,
		httpmock.NewStringResponder(http.StatusBadGateway, ""))

	outcome := g.Send(t.Context(), "staff@example.com",
		outbox.Payload{Title: "New order", Body: "body"})

	assert.False(t, outcome.Success)
	assert.False(t, outcome.PermanentFailure)
	assert.ErrorContains(t, outcome.Err, "502")
}
