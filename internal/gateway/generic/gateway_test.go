package generic

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
	"github.com/orderpulse/gateways/internal/gateway"
)

func testGateway(t *testing.T, gatewayType, secret string) *Gateway {
	t.Helper()
	g, err := New(gatewayType, gateway.Config{
		ClientID:      "client_1",
		GatewayID:     "gw_1",
		WebhookSecret: secret,
	}, zerolog.Nop())
	require.NoError(t, err)
	return g
}

func TestGateway_Identity(t *testing.T) {
	g := testGateway(t, "mercadopago", "")
	assert.Equal(t, "mercadopago", g.Type())
	assert.Equal(t, "X-Webhook-Token", g.SignatureHeader())
	assert.Equal(t, "client_1", g.Config().ClientID)
}

func TestProcessWebhook_NestedData(t *testing.T) {
	g := testGateway(t, "mercadopago", "")

	body := []byte(`{
		"type": "payment",
		"data": {
			"id": 99887766,
			"status": "approved",
			"external_reference": "order_42",
			"transaction_amount": 150.75,
			"payer": {"name": "Jose Lima", "email": "jose@example.com"}
		}
	}`)

	ev := g.ProcessWebhook(context.Background(), body, nil)

	assert.True(t, ev.Processed)
	assert.Equal(t, gateway.EventPaymentCreated, ev.EventType)
	assert.Equal(t, "99887766", ev.PaymentID)
	assert.Equal(t, string(gateway.StatusPaid), ev.NewStatus)
	assert.Equal(t, "order_42", ev.OrderID)
	assert.Equal(t, int64(15075), ev.AmountCents)

	require.NotNil(t, ev.Customer)
	assert.Equal(t, "Jose Lima", ev.Customer.Name)
	assert.Equal(t, "jose@example.com", ev.Customer.Email)
}

func TestProcessWebhook_FlatPayload(t *testing.T) {
	g := testGateway(t, "stripe", "")

	body := []byte(`{
		"type": "payment_intent.succeeded",
		"id": "pi_123",
		"status": "succeeded",
		"amount": 20.0,
		"metadata": {"order_id": "order_9"}
	}`)

	ev := g.ProcessWebhook(context.Background(), body, nil)

	assert.True(t, ev.Processed)
	assert.Equal(t, gateway.EventPaymentPaid, ev.EventType)
	assert.Equal(t, "pi_123", ev.PaymentID)
	assert.Equal(t, string(gateway.StatusPaid), ev.NewStatus)
	assert.Equal(t, "order_9", ev.OrderID)
	assert.Equal(t, int64(2000), ev.AmountCents)
}

func TestProcessWebhook_OrderIDFallsBackToEnvelope(t *testing.T) {
	g := testGateway(t, "somepay", "")

	body := []byte(`{
		"reference": "order_55",
		"data": {"id": "txn_1", "status": "paid"}
	}`)

	ev := g.ProcessWebhook(context.Background(), body, nil)
	assert.True(t, ev.Processed)
	assert.Equal(t, "order_55", ev.OrderID)
}

func TestProcessWebhook_AlternatePaymentIDKeys(t *testing.T) {
	g := testGateway(t, "somepay", "")

	ev := g.ProcessWebhook(context.Background(), []byte(`{"payment_id": "p_1", "status": "paid"}`), nil)
	assert.Equal(t, "p_1", ev.PaymentID)

	ev = g.ProcessWebhook(context.Background(), []byte(`{"transaction_id": 42, "status": "paid"}`), nil)
	assert.Equal(t, "42", ev.PaymentID)
}

func TestProcessWebhook_StatusOnlyStillProcessed(t *testing.T) {
	g := testGateway(t, "somepay", "")

	ev := g.ProcessWebhook(context.Background(), []byte(`{"status": "declined"}`), nil)
	assert.True(t, ev.Processed)
	assert.Empty(t, ev.PaymentID)
	assert.Equal(t, string(gateway.StatusFailed), ev.NewStatus)
}

func TestProcessWebhook_Unrecognized(t *testing.T) {
	g := testGateway(t, "somepay", "")

	ev := g.ProcessWebhook(context.Background(), []byte(`{"hello": "world"}`), nil)

	assert.False(t, ev.Processed)
	assert.Equal(t, "unknown", ev.EventType)
	assert.Equal(t, "no payment identifier or status found in payload", ev.Error)
}

func TestProcessWebhook_InvalidJSON(t *testing.T) {
	g := testGateway(t, "somepay", "")

	ev := g.ProcessWebhook(context.Background(), []byte(`not json`), nil)
	assert.False(t, ev.Processed)
	assert.Equal(t, "error", ev.EventType)
	assert.NotEmpty(t, ev.Error)
}

func TestValidateSignature_SharedToken(t *testing.T) {
	g := testGateway(t, "somepay", "tok-1")

	assert.True(t, g.ValidateSignature(nil, "tok-1", ""))
	assert.False(t, g.ValidateSignature(nil, "wrong", ""))
	assert.True(t, g.ValidateSignature(nil, "override", "override"))

	// Without a configured secret or header the webhook is accepted.
	unsecured := testGateway(t, "somepay", "")
	assert.True(t, unsecured.ValidateSignature(nil, "", ""))
	assert.True(t, g.ValidateSignature(nil, "", ""))
}

func TestOutboundOperationsNotSupported(t *testing.T) {
	g := testGateway(t, "somepay", "")

	_, err := g.CreateCustomer(context.Background(), gateway.CustomerRequest{})
	assert.ErrorIs(t, err, domainErrors.ErrOperationNotSupported)

	_, err = g.CreatePayment(context.Background(), gateway.PaymentRequest{})
	assert.ErrorIs(t, err, domainErrors.ErrOperationNotSupported)
}
